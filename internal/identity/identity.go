// Package identity stores the user accounts the hosting layer authenticates
// against. The expense pipeline itself never touches this; it only ever
// receives the identity string that selects a ledger.
package identity

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

// User is one account row.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}

// ErrExists is returned when registering a username that is already taken.
var ErrExists = errors.New("username already exists")

// DB wraps the sqlite users database.
type DB struct {
	db     *sql.DB
	logger *log.Logger
}

// Open opens (creating if needed) the users database at path and ensures
// the schema plus a bootstrap admin account exist.
func Open(path string, adminUser, adminPassword string, logger *log.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open users db %q: %w", path, err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		email TEXT,
		is_admin INTEGER DEFAULT 0
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create users schema: %w", err)
	}

	d := &DB{db: db, logger: logger}
	if err := d.ensureAdmin(adminUser, adminPassword); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// ensureAdmin bootstraps the admin account when the table is empty.
func (d *DB) ensureAdmin(username, password string) error {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err := d.db.Exec(
		`INSERT INTO users (username, password, email, is_admin) VALUES (?, ?, ?, 1)`,
		username, password, "admin@local",
	)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	d.logger.Info("created bootstrap admin user", "username", username)
	return nil
}

// Create registers a new account.
func (d *DB) Create(username, password, email string) error {
	_, err := d.db.Exec(
		`INSERT INTO users (username, password, email) VALUES (?, ?, ?)`,
		username, password, email,
	)
	if err != nil {
		var existing string
		lookupErr := d.db.QueryRow(`SELECT username FROM users WHERE username = ?`, username).Scan(&existing)
		if lookupErr == nil {
			return ErrExists
		}
		return fmt.Errorf("failed to create user %q: %w", username, err)
	}
	return nil
}

// Verify reports whether the credentials match a stored account.
func (d *DB) Verify(username, password string) bool {
	var stored string
	if err := d.db.QueryRow(`SELECT password FROM users WHERE username = ?`, username).Scan(&stored); err != nil {
		return false
	}
	return stored == password
}

// Get fetches one account by username, or nil when absent.
func (d *DB) Get(username string) (*User, error) {
	var u User
	var admin int
	err := d.db.QueryRow(
		`SELECT id, username, COALESCE(email, ''), is_admin FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.Email, &admin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %q: %w", username, err)
	}
	u.IsAdmin = admin != 0
	return &u, nil
}

// List returns every account. Admin-only in the API layer.
func (d *DB) List() ([]User, error) {
	rows, err := d.db.Query(`SELECT id, username, COALESCE(email, ''), is_admin FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var admin int
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &admin); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		u.IsAdmin = admin != 0
		users = append(users, u)
	}
	return users, rows.Err()
}
