package library

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a resource id has no catalog entry.
	ErrNotFound = errors.New("resource not found")
	// ErrUserNotFound is returned when a username has no account.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmptyCredentials is returned for a blank username or password.
	ErrEmptyCredentials = errors.New("username and password must not be empty")
	// ErrNotLoggedIn is returned for operations that need an active session.
	ErrNotLoggedIn = errors.New("login required")
	// ErrAlreadyFavorite is returned when a favorite already exists.
	ErrAlreadyFavorite = errors.New("resource already in favorites")
	// ErrNotFavorite is returned when removing a favorite that is not there.
	ErrNotFavorite = errors.New("resource not in favorites")
	// ErrSelfRemoval guards the active session's own account.
	ErrSelfRemoval = errors.New("cannot remove the currently logged in account")
	// ErrLastAdmin guards the invariant that an admin always exists.
	ErrLastAdmin = errors.New("cannot remove the last admin account")
)

// Library is the facade the CLI talks to. It owns the in-memory state, the
// single session pointer, and the persistence gateway; resource opening and
// downloading go through the Opener/Transfer collaborators.
type Library struct {
	cfg      Config
	log      *slog.Logger
	store    *Store
	audit    *AuditLog
	opener   Opener
	transfer Transfer

	state   *State
	session *User
}

// Option customizes a Library at construction time.
type Option func(*Library)

// WithLogger replaces the default slog logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Library) { l.log = log }
}

// WithOpener replaces the OS-backed resource opener.
func WithOpener(o Opener) Option {
	return func(l *Library) { l.opener = o }
}

// WithTransfer replaces the OS-backed download transfer.
func WithTransfer(t Transfer) Option {
	return func(l *Library) { l.transfer = t }
}

// New loads the catalog at cfg.DataFile, opens the activity log, and makes
// sure at least one admin account exists.
func New(cfg Config, opts ...Option) (*Library, error) {
	lib := &Library{
		cfg:      cfg.withDefaults(),
		log:      slog.Default(),
		opener:   systemOpener{},
		transfer: systemTransfer{},
	}
	for _, opt := range opts {
		opt(lib)
	}

	lib.store = NewStore(lib.cfg.DataFile, lib.log)
	lib.state = lib.store.Load()

	audit, err := OpenAuditLog(lib.cfg.AuditLogPath)
	if err != nil {
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	lib.audit = audit

	lib.bootstrapAdmin()
	return lib, nil
}

// Close releases the activity log.
func (l *Library) Close() error {
	if l.audit == nil {
		return nil
	}
	return l.audit.Close()
}

// bootstrapAdmin creates the configured admin account when the catalog has
// none. Without a configured password a random one is generated and revealed
// once on stderr, so no credential is ever baked into the code or written to
// the logs.
func (l *Library) bootstrapAdmin() {
	for _, u := range l.state.Users {
		if u.Role == RoleAdmin {
			return
		}
	}

	username := l.cfg.AdminUsername
	if _, taken := l.state.Users[username]; taken {
		// a non-admin account already owns the configured name; leave it
		// untouched and bootstrap under a fresh one
		username = username + "-" + uuid.NewString()[:8]
		l.log.Warn("configured admin username belongs to an existing account; using a different name",
			"configured", l.cfg.AdminUsername, "username", username)
	}

	password := l.cfg.AdminPassword
	generated := false
	if password == "" {
		password = uuid.NewString()
		generated = true
	}

	admin := l.newUser(username, password, "", RoleAdmin)
	l.state.Users[admin.Username] = admin
	l.state.UserOrder = append(l.state.UserOrder, admin.Username)
	l.persist()

	if generated {
		fmt.Fprintf(os.Stderr, "First run: admin account %q created with one-time password: %s\nLog in and change it.\n",
			admin.Username, password)
		l.log.Warn("no admin account found; created one with a generated password", "username", admin.Username)
	} else {
		l.log.Info("bootstrapped admin account", "username", admin.Username)
	}
}

// persist rewrites the whole document. Persistence failures are logged and
// swallowed: the in-memory state is still good and the session must not die
// over an unwritable file.
func (l *Library) persist() {
	if err := l.store.Save(l.state); err != nil {
		l.log.Error("persist catalog", "err", err)
	}
}

// recordActivity appends to the audit trail. Best effort: a failing log
// never fails the operation that triggered it.
func (l *Library) recordActivity(action, details string) {
	if l.audit == nil {
		return
	}
	actor := "guest"
	if l.session != nil {
		actor = l.session.Username
	}
	if err := l.audit.Record(actor, action, details); err != nil {
		l.log.Warn("record activity", "action", action, "err", err)
	}
}

// RecentActivity returns up to limit audit entries, newest first.
func (l *Library) RecentActivity(limit int) ([]ActivityEvent, error) {
	return l.audit.Recent(limit)
}

// ActivityByUser returns up to limit audit entries for one user, newest first.
func (l *Library) ActivityByUser(username string, limit int) ([]ActivityEvent, error) {
	return l.audit.ByUser(username, limit)
}
