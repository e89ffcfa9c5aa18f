package library

import (
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

// hashPassword is the fixed one-way digest used for every account. It is
// deliberately deterministic: verification recomputes and compares.
func hashPassword(password string) string {
	sum := sha3.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (l *Library) newUser(username, password, email string, role Role) *User {
	return &User{
		Username:     username,
		PasswordHash: hashPassword(password),
		Email:        email,
		Role:         role,
		CreatedAt:    time.Now(),
	}
}

func (l *Library) addUser(username, password, email string, role Role) error {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return ErrEmptyCredentials
	}
	if _, exists := l.state.Users[username]; exists {
		return ErrUsernameTaken
	}

	l.state.Users[username] = l.newUser(username, password, email, role)
	l.state.UserOrder = append(l.state.UserOrder, username)
	l.persist()
	return nil
}

// Register creates a student account.
func (l *Library) Register(username, password, email string) error {
	if err := l.addUser(username, password, email, RoleStudent); err != nil {
		return err
	}
	l.recordActivity("REGISTER", "new student: "+strings.TrimSpace(username))
	return nil
}

// AddAdmin creates another administrator account.
func (l *Library) AddAdmin(username, password, email string) error {
	if err := l.addUser(username, password, email, RoleAdmin); err != nil {
		return err
	}
	l.recordActivity("ADD_ADMIN", "new admin: "+strings.TrimSpace(username))
	return nil
}

// Login authenticates and, on success, points the session at the user. A
// failed login leaves whatever session was already active untouched.
func (l *Library) Login(username, password string) bool {
	u, ok := l.state.Users[username]
	if !ok || u.PasswordHash != hashPassword(password) {
		return false
	}
	l.session = u
	l.recordActivity("LOGIN", "")
	return true
}

// Logout clears the session pointer unconditionally.
func (l *Library) Logout() {
	if l.session != nil {
		l.recordActivity("LOGOUT", "")
	}
	l.session = nil
}

// CurrentUser returns the active session's user, or nil for a guest.
func (l *Library) CurrentUser() *User {
	return l.session
}

// Users lists every account in creation order.
func (l *Library) Users() []*User {
	out := make([]*User, 0, len(l.state.UserOrder))
	for _, username := range l.state.UserOrder {
		out = append(out, l.state.Users[username])
	}
	return out
}

// RemoveUser deletes an account. It refuses the active session's own account
// and the last remaining admin, so the catalog never ends up unmanageable.
func (l *Library) RemoveUser(username string) error {
	u, ok := l.state.Users[username]
	if !ok {
		return ErrUserNotFound
	}
	if l.session != nil && l.session.Username == username {
		return ErrSelfRemoval
	}
	if u.Role == RoleAdmin && l.adminCount() == 1 {
		return ErrLastAdmin
	}

	delete(l.state.Users, username)
	for i, name := range l.state.UserOrder {
		if name == username {
			l.state.UserOrder = append(l.state.UserOrder[:i], l.state.UserOrder[i+1:]...)
			break
		}
	}
	l.persist()
	l.recordActivity("REMOVE_USER", username)
	return nil
}

func (l *Library) adminCount() int {
	n := 0
	for _, u := range l.state.Users {
		if u.Role == RoleAdmin {
			n++
		}
	}
	return n
}
