package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// UserDirectory defines the account lookup and persistence operations the
// auth flows depend on.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPasswordHash(ctx context.Context, passwordHash string) (*User, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*User, error)
	Insert(ctx context.Context, user *User) error
}

// SQLiteUserDirectory implements UserDirectory using SQLite.
type SQLiteUserDirectory struct {
	db *sql.DB
}

// NewUserDirectory creates a new SQLite-backed user directory.
func NewUserDirectory(db *sql.DB) *SQLiteUserDirectory {
	return &SQLiteUserDirectory{db: db}
}

const userColumns = "id, username, email, full_name, password_hash, refresh_token, disabled"

// FindByUsername retrieves a user by username.
func (d *SQLiteUserDirectory) FindByUsername(ctx context.Context, username string) (*User, error) {
	return d.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
}

// FindByEmail retrieves a user by normalised email address.
func (d *SQLiteUserDirectory) FindByEmail(ctx context.Context, email string) (*User, error) {
	return d.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

// FindByPasswordHash retrieves a user by stored password digest. Used by
// registration to enforce digest uniqueness.
func (d *SQLiteUserDirectory) FindByPasswordHash(ctx context.Context, passwordHash string) (*User, error) {
	return d.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE password_hash = ?", passwordHash)
}

// FindByRefreshToken retrieves a user by their refresh token.
func (d *SQLiteUserDirectory) FindByRefreshToken(ctx context.Context, refreshToken string) (*User, error) {
	return d.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE refresh_token = ?", refreshToken)
}

// Insert persists a new user. UNIQUE violations surface as ErrDuplicateUser
// wrapped with the colliding column, so callers racing past the pre-insert
// uniqueness checks still get the right answer.
func (d *SQLiteUserDirectory) Insert(ctx context.Context, user *User) error {
	result, err := d.db.ExecContext(ctx,
		`INSERT INTO users (username, email, full_name, password_hash, refresh_token, disabled)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.FullName,
		user.PasswordHash, user.RefreshToken, boolToInt(user.Disabled),
	)
	if err != nil {
		if field, ok := uniqueViolationField(err); ok {
			return fmt.Errorf("%w: %s already registered", ErrDuplicateUser, field)
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted user id: %w", err)
	}
	user.ID = id

	return nil
}

// getUser executes a query and scans a single user result.
func (d *SQLiteUserDirectory) getUser(ctx context.Context, query string, args ...any) (*User, error) {
	var u User
	var disabled int

	err := d.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.Email, &u.FullName,
		&u.PasswordHash, &u.RefreshToken, &disabled,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.Disabled = disabled != 0
	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// uniqueViolationField extracts the colliding column name from a SQLite
// UNIQUE constraint error ("UNIQUE constraint failed: users.username").
func uniqueViolationField(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()
	const marker = "UNIQUE constraint failed: "
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return "", false
	}
	column := msg[idx+len(marker):]
	if dot := strings.LastIndex(column, "."); dot >= 0 {
		column = column[dot+1:]
	}
	if end := strings.IndexAny(column, ", "); end >= 0 {
		column = column[:end]
	}
	if column == "" {
		return "", false
	}
	return column, true
}
