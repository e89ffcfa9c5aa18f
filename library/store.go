package library

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store reads and writes the whole catalog as one JSON document. It knows
// nothing about domain semantics beyond mapping records to and from State.
type Store struct {
	path string
	log  *slog.Logger
}

// NewStore creates a gateway for the document at path.
func NewStore(path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{path: path, log: log}
}

// Load reads the document. A missing file yields an empty state so the
// caller can run first-time initialization. A malformed document is logged
// and also yields an empty state; the process must stay usable after a
// corrupt file.
func (s *Store) Load() *State {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Error("read catalog file", "path", s.path, "err", err)
		}
		return emptyState()
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Error("parse catalog file, starting with an empty library", "path", s.path, "err", err)
		return emptyState()
	}

	return stateFromDocument(&doc)
}

// Save serializes the full state and overwrites the document. Every mutating
// operation triggers a full rewrite; single-process, single-writer only.
func (s *Store) Save(st *State) error {
	doc := document{
		Users:     st.Users,
		Resources: st.Resources,
	}
	raw, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// stateFromDocument coerces a decoded document into a usable State: keys win
// over embedded fields, missing enums get defaults, counters never go
// negative, and creation order is rebuilt from the stored timestamps since a
// JSON object carries no order.
func stateFromDocument(doc *document) *State {
	st := emptyState()

	for username, u := range doc.Users {
		if u == nil || username == "" {
			continue
		}
		u.Username = username
		if u.Role != RoleAdmin {
			u.Role = RoleStudent
		}
		st.Users[username] = u
		st.UserOrder = append(st.UserOrder, username)
	}
	sort.Slice(st.UserOrder, func(i, j int) bool {
		a, b := st.Users[st.UserOrder[i]], st.Users[st.UserOrder[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Username < b.Username
	})

	for id, r := range doc.Resources {
		if r == nil || id == "" {
			continue
		}
		r.ID = id
		if r.DownloadCount < 0 {
			r.DownloadCount = 0
		}
		if r.ViewCount < 0 {
			r.ViewCount = 0
		}
		st.Resources[id] = r
		st.ResourceOrder = append(st.ResourceOrder, id)
	}
	sort.Slice(st.ResourceOrder, func(i, j int) bool {
		a, b := st.Resources[st.ResourceOrder[i]], st.Resources[st.ResourceOrder[j]]
		if !a.AddedDate.Equal(b.AddedDate) {
			return a.AddedDate.Before(b.AddedDate)
		}
		return a.ID < b.ID
	})

	return st
}
