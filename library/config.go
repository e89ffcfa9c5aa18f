package library

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries the deployment knobs. The bootstrap admin credential lives
// here rather than in code; see LoadConfig.
type Config struct {
	// DataFile is the JSON document holding users and resources.
	DataFile string
	// DownloadsDir receives fetched and copied resource files.
	DownloadsDir string
	// AuditLogPath is the SQLite activity log location.
	AuditLogPath string
	// AdminUsername/AdminPassword seed the first admin account when the
	// catalog has none. An empty password means "generate one at startup".
	AdminUsername string
	AdminPassword string
}

// LoadConfig reads configuration from the environment, honoring a local
// .env file when present.
func LoadConfig() Config {
	_ = godotenv.Load() // a missing .env file is fine

	return Config{
		DataFile:      envOr("LIBRARY_DATA_FILE", "library_data.json"),
		DownloadsDir:  envOr("LIBRARY_DOWNLOADS_DIR", "downloads"),
		AuditLogPath:  envOr("LIBRARY_AUDIT_DB", "library_audit.db"),
		AdminUsername: envOr("LIBRARY_ADMIN_USER", "admin"),
		AdminPassword: os.Getenv("LIBRARY_ADMIN_PASSWORD"),
	}
}

func (c Config) withDefaults() Config {
	if c.DataFile == "" {
		c.DataFile = "library_data.json"
	}
	if c.DownloadsDir == "" {
		c.DownloadsDir = "downloads"
	}
	if c.AuditLogPath == "" {
		c.AuditLogPath = "library_audit.db"
	}
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
	return c
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
