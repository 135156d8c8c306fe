// Package auth holds the user store and the in-memory session layer.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"aquadash.wasreb.org/internal/logging"
)

// Roles. Country users see only their assigned country; admins see
// everything and manage users.
const (
	RoleAdmin   = "admin"
	RoleCountry = "country"
)

// User is one account without its password hash.
type User struct {
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Country  *string `json:"country"`
}

// ErrInvalidCredentials covers both unknown usernames and wrong passwords
// so callers cannot distinguish the two.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrUserExists is returned by Create for a taken username.
var ErrUserExists = errors.New("username already taken")

// ErrUserNotFound is returned by lookups for an unknown username.
var ErrUserNotFound = errors.New("user not found")

// Store persists user accounts in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenStore opens (or creates) the user database at path. ":memory:" is
// allowed for tests.
func OpenStore(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open user db: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			username      TEXT PRIMARY KEY,
			name          TEXT NOT NULL DEFAULT '',
			email         TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'country',
			country       TEXT
		);
	`); err != nil {
		logging.SafeCloseWithLogging(db, logger, "close user db")
		return nil, fmt.Errorf("create users table: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// seedUser is one entry of the YAML credentials file.
type seedUser struct {
	Username string `yaml:"username"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Country  string `yaml:"country"`
}

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

// SeedFromYAML populates an empty store from a credentials file. A store
// that already has users is left untouched.
func (s *Store) SeedFromYAML(ctx context.Context, path string) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read credentials file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse credentials file: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	for _, u := range seed.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			logging.SafeRollbackWithLogging(tx, s.logger, "seed users")
			return fmt.Errorf("hash password for %q: %w", u.Username, err)
		}
		role := u.Role
		if role == "" {
			role = RoleCountry
		}
		var country any
		if u.Country != "" {
			country = u.Country
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (username, name, email, password_hash, role, country)
			VALUES (?, ?, ?, ?, ?, ?)`,
			u.Username, u.Name, u.Email, string(hash), role, country); err != nil {
			logging.SafeRollbackWithLogging(tx, s.logger, "seed users")
			return fmt.Errorf("insert seed user %q: %w", u.Username, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	logging.LogOperation(s.logger, "seeded user store", slog.Int("users", len(seed.Users)))
	return nil
}

// Verify checks a credential pair. The username must match exactly,
// including case; empty inputs always fail.
func (s *Store) Verify(ctx context.Context, username, password string) (User, error) {
	if username == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}
	var u User
	var hash string
	var country sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT username, name, email, password_hash, role, country
		FROM users WHERE username = ?`, username).
		Scan(&u.Username, &u.Name, &u.Email, &hash, &u.Role, &country)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("look up user: %w", err)
	}
	// SQLite string comparison can be case-insensitive depending on
	// collation; enforce the exact match here.
	if u.Username != username {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	if country.Valid {
		u.Country = &country.String
	}
	return u, nil
}

// Create inserts a new account. Role defaults to country with no assigned
// country, the shape produced by self-registration.
func (s *Store) Create(ctx context.Context, username, name, email, password, role string, country *string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("username is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if role == "" {
		role = RoleCountry
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (username, name, email, password_hash, role, country)
		VALUES (?, ?, ?, ?, ?, ?)`,
		username, name, email, string(hash), role, country)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Get returns one account by exact username.
func (s *Store) Get(ctx context.Context, username string) (User, error) {
	var u User
	var country sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT username, name, email, role, country
		FROM users WHERE username = ?`, username).
		Scan(&u.Username, &u.Name, &u.Email, &u.Role, &country)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && u.Username != username) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("look up user: %w", err)
	}
	if country.Valid {
		u.Country = &country.String
	}
	return u, nil
}

// List returns every account sorted by username.
func (s *Store) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, name, email, role, country
		FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, s.logger, "close user rows")

	var users []User
	for rows.Next() {
		var u User
		var country sql.NullString
		if err := rows.Scan(&u.Username, &u.Name, &u.Email, &u.Role, &country); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if country.Valid {
			u.Country = &country.String
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateRole sets an account's role and country assignment.
func (s *Store) UpdateRole(ctx context.Context, username, role string, country *string) error {
	if role != RoleAdmin && role != RoleCountry {
		return fmt.Errorf("unknown role %q", role)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET role = ?, country = ? WHERE username = ?`,
		role, country, username)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateProfile sets an account's display name and email.
func (s *Store) UpdateProfile(ctx context.Context, username, name, email string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ? WHERE username = ?`,
		name, email, username)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces a password after verifying the current one.
func (s *Store) UpdatePassword(ctx context.Context, username, current, next string) error {
	if _, err := s.Verify(ctx, username, current); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ? WHERE username = ?`,
		string(hash), username); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Counts returns the number of accounts per role.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, s.logger, "close count rows")

	counts := map[string]int{}
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[role] = n
	}
	return counts, rows.Err()
}
