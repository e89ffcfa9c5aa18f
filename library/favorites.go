package library

import "slices"

// AddFavorite bookmarks a resource for the active session. Fails when no one
// is logged in, the id is unknown, or the bookmark already exists.
func (l *Library) AddFavorite(id string) error {
	if l.session == nil {
		return ErrNotLoggedIn
	}
	if _, ok := l.state.Resources[id]; !ok {
		return ErrNotFound
	}
	if slices.Contains(l.session.Favorites, id) {
		return ErrAlreadyFavorite
	}

	l.session.Favorites = append(l.session.Favorites, id)
	l.persist()
	l.recordActivity("ADD_FAVORITE", id)
	return nil
}

// RemoveFavorite drops a bookmark. The id does not have to resolve against
// the catalog anymore; only membership in the favorites list matters.
func (l *Library) RemoveFavorite(id string) error {
	if l.session == nil {
		return ErrNotLoggedIn
	}
	i := slices.Index(l.session.Favorites, id)
	if i < 0 {
		return ErrNotFavorite
	}

	l.session.Favorites = append(l.session.Favorites[:i], l.session.Favorites[i+1:]...)
	l.persist()
	l.recordActivity("REMOVE_FAVORITE", id)
	return nil
}

// Favorites resolves the session's bookmarks against the current catalog in
// insertion order, silently dropping ids that no longer resolve.
func (l *Library) Favorites() []*Resource {
	if l.session == nil {
		return nil
	}
	var out []*Resource
	for _, id := range l.session.Favorites {
		if r, ok := l.state.Resources[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// recordHistory appends id to the user's reading history on first contact.
// Membership, not a counter: an id appears at most once.
func recordHistory(u *User, id string) {
	if !slices.Contains(u.ReadingHistory, id) {
		u.ReadingHistory = append(u.ReadingHistory, id)
	}
}
