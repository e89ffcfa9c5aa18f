package library

import "time"

// Role distinguishes catalog administrators from regular students.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User is a registered account. Favorites and ReadingHistory hold resource
// identifiers by reference; a deleted resource silently drops out of lookups.
type User struct {
	Username       string    `json:"username"`
	PasswordHash   string    `json:"password_hash"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Favorites      []string  `json:"favorites"`
	ReadingHistory []string  `json:"reading_history"`
	CreatedAt      time.Time `json:"created_at"`
}

// Resource is a catalog entry: descriptive metadata plus usage counters.
// FilePath is either a URL or a local filesystem path; which one it is gets
// derived at use time, never stored.
type Resource struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Subject       string    `json:"subject"`
	Language      string    `json:"language"`
	FilePath      string    `json:"file_path"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	DownloadCount int       `json:"download_count"`
	ViewCount     int       `json:"view_count"`
	AddedDate     time.Time `json:"added_date"`
}

// knownCategories is the fixed set offered for browsing. AddResource accepts
// other labels verbatim, so this is a menu, not a constraint.
var knownCategories = []string{
	"Core Subjects",
	"Local Storybooks",
	"Study Skills",
	"Exam Guides",
}

// Categories returns the browsable category labels.
func Categories() []string {
	out := make([]string, len(knownCategories))
	copy(out, knownCategories)
	return out
}

// document is the persisted JSON shape: one object holding everything.
type document struct {
	Users     map[string]*User     `json:"users"`
	Resources map[string]*Resource `json:"resources"`
}

// State is the full in-memory catalog. The order slices preserve creation
// order, which a JSON object cannot carry on its own.
type State struct {
	Users         map[string]*User
	UserOrder     []string
	Resources     map[string]*Resource
	ResourceOrder []string
}

func emptyState() *State {
	return &State{
		Users:     make(map[string]*User),
		Resources: make(map[string]*Resource),
	}
}
