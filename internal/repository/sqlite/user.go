package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	sqlite3 "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/sakif/account-api/internal/apperror"
	"github.com/sakif/account-api/internal/model"
	"github.com/sakif/account-api/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// isUniqueViolation reports whether err is SQLite's UNIQUE constraint error.
//
// DRIVER ERROR TRANSLATION:
// This is the one place the repository inspects driver-specific failure
// detail. modernc.org/sqlite returns *sqlite.Error with the extended result
// code; SQLITE_CONSTRAINT_UNIQUE (2067) means a UNIQUE index rejected the
// write. Everything the repository exports is already classified into the
// apperror taxonomy, so callers never see driver errors for the cases they
// must branch on.
func isUniqueViolation(err error) bool {
	var serr *sqlite3.Error
	return errors.As(err, &serr) && serr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE
}

// Create inserts a new user. The ID and timestamps are assigned here and
// written back into the caller's struct.
//
// Returns apperror.ErrConflict when the email is already registered —
// the UNIQUE index on email is the enforcement point, not a racy
// SELECT-then-INSERT check.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, about, avatar, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.About,
		user.Avatar,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("a user with this email already exists")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByID retrieves a user by their internal ID. The password hash is not
// selected — this is the public read.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, about, avatar, email, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&u.ID,
		&u.Name,
		&u.About,
		&u.Avatar,
		&u.Email,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}

// GetByEmailWithHash retrieves a user by email INCLUDING the stored
// credential digest. This is the only query that ever selects
// password_hash; it exists solely for the login comparison step.
// Returns apperror.ErrNotFound if no user exists with that email.
func (db *DB) GetByEmailWithHash(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, about, avatar, email, password_hash, created_at, updated_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(
		&u.ID,
		&u.Name,
		&u.About,
		&u.Avatar,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}

	return &u, nil
}

// List returns all users, hashes excluded. No pagination — the API's scope
// excludes large-dataset concerns.
func (db *DB) List(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, about, avatar, email, created_at, updated_at
		 FROM users ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.About,
			&u.Avatar,
			&u.Email,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user rows: %w", err)
	}

	return users, nil
}

// UpdateProfile sets name/about and returns the updated record.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) UpdateProfile(ctx context.Context, id string, upd repository.ProfileUpdate) (*model.User, error) {
	if err := db.updateFields(ctx, id,
		`UPDATE users SET name = ?, about = ?, updated_at = ? WHERE id = ?`,
		upd.Name, upd.About,
	); err != nil {
		return nil, err
	}
	return db.GetByID(ctx, id)
}

// UpdateAvatar sets the avatar URL and returns the updated record.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) UpdateAvatar(ctx context.Context, id string, avatar string) (*model.User, error) {
	if err := db.updateFields(ctx, id,
		`UPDATE users SET avatar = ?, updated_at = ? WHERE id = ?`,
		avatar,
	); err != nil {
		return nil, err
	}
	return db.GetByID(ctx, id)
}

// updateFields runs an UPDATE whose statement ends with
// "updated_at = ? WHERE id = ?" and enforces fail-if-absent semantics:
// zero affected rows means the user does not exist.
func (db *DB) updateFields(ctx context.Context, id, query string, args ...any) error {
	args = append(args, time.Now(), id)

	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: reading affected rows for user %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}
