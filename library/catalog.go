package library

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// newResourceID returns a short opaque identifier. Random rather than
// time-derived: two adds in the same instant must not collide.
func (l *Library) newResourceID() string {
	for {
		id := uuid.NewString()[:8]
		if _, taken := l.state.Resources[id]; !taken {
			return id
		}
	}
}

// AddResource stores a new resource with zeroed counters and returns its id.
// Category is stored verbatim, even when it is not one of the known labels.
func (l *Library) AddResource(title, author, subject, language, filePath, category, description string) (string, error) {
	r := &Resource{
		ID:          l.newResourceID(),
		Title:       title,
		Author:      author,
		Subject:     subject,
		Language:    language,
		FilePath:    filePath,
		Category:    category,
		Description: description,
		AddedDate:   time.Now(),
	}
	l.state.Resources[r.ID] = r
	l.state.ResourceOrder = append(l.state.ResourceOrder, r.ID)
	l.persist()
	l.recordActivity("ADD_RESOURCE", r.Title+" ("+r.ID+")")
	return r.ID, nil
}

// ResourceEdit names the fields an edit may overwrite; nil means keep.
type ResourceEdit struct {
	Title       *string
	Author      *string
	Subject     *string
	Language    *string
	FilePath    *string
	Category    *string
	Description *string
}

// EditResource overwrites only the provided fields.
func (l *Library) EditResource(id string, edit ResourceEdit) error {
	r, ok := l.state.Resources[id]
	if !ok {
		return ErrNotFound
	}

	if edit.Title != nil {
		r.Title = *edit.Title
	}
	if edit.Author != nil {
		r.Author = *edit.Author
	}
	if edit.Subject != nil {
		r.Subject = *edit.Subject
	}
	if edit.Language != nil {
		r.Language = *edit.Language
	}
	if edit.FilePath != nil {
		r.FilePath = *edit.FilePath
	}
	if edit.Category != nil {
		r.Category = *edit.Category
	}
	if edit.Description != nil {
		r.Description = *edit.Description
	}

	l.persist()
	l.recordActivity("EDIT_RESOURCE", id)
	return nil
}

// Resource looks up a single catalog entry.
func (l *Library) Resource(id string) (*Resource, error) {
	r, ok := l.state.Resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

// Resources lists the catalog in creation order.
func (l *Library) Resources() []*Resource {
	out := make([]*Resource, 0, len(l.state.ResourceOrder))
	for _, id := range l.state.ResourceOrder {
		out = append(out, l.state.Resources[id])
	}
	return out
}

// Search returns resources whose title, author, subject, or language
// contains the keyword case-insensitively (any field matching is enough),
// in catalog order.
func (l *Library) Search(keyword string) []*Resource {
	needle := strings.ToLower(keyword)
	var results []*Resource
	for _, id := range l.state.ResourceOrder {
		r := l.state.Resources[id]
		if strings.Contains(strings.ToLower(r.Title), needle) ||
			strings.Contains(strings.ToLower(r.Author), needle) ||
			strings.Contains(strings.ToLower(r.Subject), needle) ||
			strings.Contains(strings.ToLower(r.Language), needle) {
			results = append(results, r)
		}
	}
	return results
}

// ByCategory returns resources whose category matches case-insensitively,
// in catalog order.
func (l *Library) ByCategory(category string) []*Resource {
	var results []*Resource
	for _, id := range l.state.ResourceOrder {
		r := l.state.Resources[id]
		if strings.EqualFold(r.Category, category) {
			results = append(results, r)
		}
	}
	return results
}
