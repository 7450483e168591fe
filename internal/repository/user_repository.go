package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/martinsedd/user-service/internal/model"
	"github.com/martinsedd/user-service/internal/utils"
)

// UserRepo provides data access to the users table. It owns password
// hashing on write paths so that plaintext never reaches a SQL statement:
// Create and SetPassword hash internally, profile updates never touch the
// password column and therefore never rehash.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, first_name, last_name, email, password_hash, dob, role,
	reset_token, reset_token_expiry, failed_reset_attempts, lock_until,
	created_at, updated_at`

// Create inserts a user and returns its ID. The password is bcrypt-hashed
// here with the given cost. Duplicate emails surface as ErrEmailExists via
// the unique index (MySQL error 1062).
func (r *UserRepo) Create(ctx context.Context, u model.User, password string, cost int) (uint64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, email, password_hash, dob, role) VALUES (?,?,?,?,?,?)",
		u.FirstName, u.LastName, u.Email, hash, u.DOB.UTC().Format("2006-01-02"), u.Role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by email. Emails are matched exactly as stored.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// ListAll returns every user. The password hash column is selected because
// scanUser expects the full row; handlers must not serialize it.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateProfile persists the self-service profile fields. The password
// column is untouched so the stored hash survives profile edits unchanged.
// An email collision surfaces as ErrEmailExists.
func (r *UserRepo) UpdateProfile(ctx context.Context, u model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET first_name=?, last_name=?, email=?, dob=? WHERE id=?",
		u.FirstName, u.LastName, u.Email, u.DOB.UTC().Format("2006-01-02"), u.ID)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrEmailExists
	}
	return err
}

// Delete removes a user by id. Returns ErrNotFound when no row matched.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken opens a reset cycle: it stores the freshly issued token and
// its expiry, overwriting (and thereby invalidating) any prior pending
// token, and zeroes the failed-attempt counter. A lock timestamp, if any,
// is left alone; only a successful confirmation clears it.
func (r *UserRepo) SetResetToken(ctx context.Context, id uint64, token string, expiry time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token=?, reset_token_expiry=?, failed_reset_attempts=0 WHERE id=?",
		token, expiry.UTC(), id)
	return err
}

// ConsumeResetToken completes a reset cycle with a conditional write: the
// password hash is replaced and the whole reset sub-state cleared only if
// the stored token still equals the token being confirmed. Concurrent
// confirmations of the same token race on this predicate and exactly one
// wins; the loser sees false. The new password is hashed here.
func (r *UserRepo) ConsumeResetToken(ctx context.Context, id uint64, token, password string, cost int) (bool, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return false, err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash=?, reset_token=NULL, reset_token_expiry=NULL,
			failed_reset_attempts=0, lock_until=NULL
		 WHERE id=? AND reset_token=?`,
		hash, id, token)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RecordFailedReset charges one failed confirmation to the account and, when
// the incremented counter reaches the threshold, sets the lock timestamp in
// the same statement. The increment-and-maybe-lock is a single UPDATE so
// concurrent failures cannot interleave between read and write; the MySQL
// left-to-right assignment rule makes the IF condition see the incremented
// counter. The resulting counter and lock are read back inside one
// transaction and returned so the caller can pick the right error.
func (r *UserRepo) RecordFailedReset(ctx context.Context, id uint64, threshold int, lockUntil time.Time) (int, *time.Time, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET failed_reset_attempts = failed_reset_attempts + 1,
			lock_until = IF(failed_reset_attempts >= ?, ?, lock_until)
		 WHERE id=?`,
		threshold, lockUntil.UTC(), id)
	if err != nil {
		return 0, nil, err
	}

	var (
		attempts int
		locked   sql.NullTime
	)
	err = tx.QueryRowContext(ctx,
		"SELECT failed_reset_attempts, lock_until FROM users WHERE id=? LIMIT 1",
		id).Scan(&attempts, &locked)
	if err != nil {
		return 0, nil, err
	}
	if err := tx.Commit(); err != nil {
		return 0, nil, err
	}
	var until *time.Time
	if locked.Valid {
		t := locked.Time
		until = &t
	}
	return attempts, until, nil
}

// SetPassword rehashes and replaces the stored hash outside of a reset
// cycle. Not reachable from any current route; kept for parity with the
// credential-store contract.
func (r *UserRepo) SetPassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

func scanUser(s scanner) (model.User, error) {
	var (
		u         model.User
		resetTok  sql.NullString
		resetExp  sql.NullTime
		lockUntil sql.NullTime
	)
	err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.DOB, &u.Role, &resetTok, &resetExp, &u.FailedResetAttempts,
		&lockUntil, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	if resetTok.Valid {
		u.ResetToken = &resetTok.String
	}
	if resetExp.Valid {
		t := resetExp.Time
		u.ResetTokenExpiry = &t
	}
	if lockUntil.Valid {
		t := lockUntil.Time
		u.LockUntil = &t
	}
	return u, nil
}
