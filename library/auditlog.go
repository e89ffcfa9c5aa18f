package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// AuditLog is the SQLite-backed activity trail. It lives beside the JSON
// catalog document and is append-mostly: one row per user-visible action.
type AuditLog struct {
	db *sql.DB

	recordStmt *sql.Stmt
}

// ActivityEvent is one audit entry.
type ActivityEvent struct {
	ID       int64
	At       time.Time
	Username string
	Action   string
	Details  string
}

const auditSchemaVersion = 1

// OpenAuditLog opens (or creates) the activity database at dbPath, applies
// schema migrations, and prepares the insert statement.
func OpenAuditLog(dbPath string) (*AuditLog, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create audit dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyAuditMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	log := &AuditLog{db: db}
	if log.recordStmt, err = db.Prepare(`INSERT INTO events(at,username,action,details) VALUES(?,?,?,?)`); err != nil {
		db.Close()
		return nil, err
	}
	return log, nil
}

// Close releases the prepared statement and closes the DB.
func (a *AuditLog) Close() error {
	if a.recordStmt != nil {
		a.recordStmt.Close()
	}
	return a.db.Close()
}

func applyAuditMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= auditSchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            at DATETIME NOT NULL,
            username TEXT NOT NULL,
            action TEXT NOT NULL,
            details TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE INDEX IF NOT EXISTS idx_events_username ON events(username);`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, auditSchemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// Record appends one event.
func (a *AuditLog) Record(username, action, details string) error {
	_, err := a.recordStmt.Exec(time.Now(), username, action, details)
	return err
}

// Recent returns the newest events first, up to limit.
func (a *AuditLog) Recent(limit int) ([]ActivityEvent, error) {
	return a.query(`SELECT id,at,username,action,details FROM events ORDER BY id DESC LIMIT ?`, limit)
}

// ByUser returns the newest events for one user, up to limit.
func (a *AuditLog) ByUser(username string, limit int) ([]ActivityEvent, error) {
	return a.query(`SELECT id,at,username,action,details FROM events WHERE username=? ORDER BY id DESC LIMIT ?`, username, limit)
}

func (a *AuditLog) query(q string, args ...any) ([]ActivityEvent, error) {
	rows, err := a.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []ActivityEvent
	for rows.Next() {
		var ev ActivityEvent
		if err := rows.Scan(&ev.ID, &ev.At, &ev.Username, &ev.Action, &ev.Details); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
