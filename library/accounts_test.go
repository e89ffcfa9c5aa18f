package library

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapAdmin(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	users := lib.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, RoleAdmin, users[0].Role)

	assert.True(t, lib.Login("admin", "admin-pass"))
}

func TestBootstrapAdminGeneratesPasswordWhenUnset(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdminPassword = ""
	lib, err := New(cfg, WithLogger(discardLogger()))
	require.NoError(t, err)
	defer lib.Close()

	users := lib.Users()
	require.Len(t, users, 1)
	assert.NotEmpty(t, users[0].PasswordHash)
	// whatever was generated, the literal default must not work
	assert.False(t, lib.Login("admin", "admin123"))
}

func TestBootstrapAdminDoesNotClobberStudentNamedAdmin(t *testing.T) {
	cfg := testConfig(t)
	doc := `{
	  "users": {
	    "admin": {
	      "username": "admin",
	      "password_hash": "h",
	      "role": "student",
	      "favorites": ["r1"],
	      "reading_history": ["r1"],
	      "created_at": "2025-03-01T12:00:00Z"
	    }
	  },
	  "resources": {}
	}`
	require.NoError(t, os.WriteFile(cfg.DataFile, []byte(doc), 0o644))

	lib, err := New(cfg, WithLogger(discardLogger()))
	require.NoError(t, err)
	defer lib.Close()

	users := lib.Users()
	require.Len(t, users, 2)
	assert.NotEqual(t, users[0].Username, users[1].Username)

	// the student keeps their account, name, and history
	student := users[0]
	assert.Equal(t, "admin", student.Username)
	assert.Equal(t, RoleStudent, student.Role)
	assert.Equal(t, []string{"r1"}, student.Favorites)
	assert.Equal(t, []string{"r1"}, student.ReadingHistory)

	admins := 0
	for _, u := range users {
		if u.Role == RoleAdmin {
			admins++
		}
	}
	assert.Equal(t, 1, admins)
}

func TestBootstrapAdminKeepsGeneratedPasswordOutOfLogs(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdminPassword = ""

	var buf bytes.Buffer
	lib, err := New(cfg, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	require.NoError(t, err)
	defer lib.Close()

	logged := buf.String()
	assert.Contains(t, logged, "generated password")
	// the credential itself never reaches the log handler
	assert.NotContains(t, logged, "password=")
}

func TestRegisterDuplicateKeepsOriginalPassword(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	require.NoError(t, lib.Register("alice", "pw1", ""))
	err := lib.Register("alice", "pw2", "")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	assert.True(t, lib.Login("alice", "pw1"))
	assert.False(t, lib.Login("alice", "pw2"))
}

func TestRegisterRejectsEmptyFields(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	assert.ErrorIs(t, lib.Register("", "pw", ""), ErrEmptyCredentials)
	assert.ErrorIs(t, lib.Register("   ", "pw", ""), ErrEmptyCredentials)
	assert.ErrorIs(t, lib.Register("bob", "", ""), ErrEmptyCredentials)
	assert.ErrorIs(t, lib.Register("bob", "   ", ""), ErrEmptyCredentials)
}

func TestRegisterTrimsUsername(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	require.NoError(t, lib.Register("  carol  ", "pw", ""))
	assert.True(t, lib.Login("carol", "pw"))
}

func TestFailedLoginKeepsExistingSession(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	require.NoError(t, lib.Register("alice", "pw1", ""))
	require.True(t, lib.Login("alice", "pw1"))
	require.Equal(t, "alice", lib.CurrentUser().Username)

	assert.False(t, lib.Login("alice", "wrong"))
	require.NotNil(t, lib.CurrentUser())
	assert.Equal(t, "alice", lib.CurrentUser().Username)

	assert.False(t, lib.Login("nobody", "pw"))
	assert.Equal(t, "alice", lib.CurrentUser().Username)
}

func TestLogoutClearsSession(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	require.True(t, lib.Login("admin", "admin-pass"))
	lib.Logout()
	assert.Nil(t, lib.CurrentUser())

	// logging out as a guest is a no-op, not a fault
	lib.Logout()
	assert.Nil(t, lib.CurrentUser())
}

func TestAddAdmin(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	require.NoError(t, lib.AddAdmin("root2", "pw", "root2@example.com"))
	users := lib.Users()
	require.Len(t, users, 2)
	assert.Equal(t, RoleAdmin, users[1].Role)
}

func TestRemoveUser(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	require.NoError(t, lib.Register("bob", "pw", ""))
	require.True(t, lib.Login("admin", "admin-pass"))

	require.NoError(t, lib.RemoveUser("bob"))
	assert.Len(t, lib.Users(), 1)

	assert.ErrorIs(t, lib.RemoveUser("bob"), ErrUserNotFound)
}

func TestRemoveUserRefusesOwnAccount(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	require.True(t, lib.Login("admin", "admin-pass"))
	assert.ErrorIs(t, lib.RemoveUser("admin"), ErrSelfRemoval)
}

func TestRemoveUserRefusesLastAdmin(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	require.NoError(t, lib.Register("bob", "pw", ""))
	require.True(t, lib.Login("bob", "pw"))

	assert.ErrorIs(t, lib.RemoveUser("admin"), ErrLastAdmin)
}

func TestUsersPreserveCreationOrder(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	require.NoError(t, lib.Register("alice", "pw", ""))
	require.NoError(t, lib.Register("bob", "pw", ""))

	users := lib.Users()
	require.Len(t, users, 3)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, "alice", users[1].Username)
	assert.Equal(t, "bob", users[2].Username)
}
