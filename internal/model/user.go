package model

import "time"

// Role values stored in users.role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column in the database. The json tags
// are omitted here because these structs are used internally by the
// repository and service layers; handlers define separate response types
// with appropriate JSON tags.
//
// The reset sub-state lives on the user row itself rather than in a
// separate table: a pending reset token, its expiry, a failed-attempt
// counter and an optional lock timestamp. ResetToken and ResetTokenExpiry
// are either both set or both NULL.
//
// Fields:
//  ID                  – primary key identifier of the user.
//  FirstName           – users.first_name.
//  LastName            – users.last_name.
//  Email               – unique email address (stored as submitted).
//  PasswordHash        – bcrypt hashed password.
//  DOB                 – date of birth.
//  Role                – "user" or "admin".
//  ResetToken          – pending reset token (nil when no reset pending).
//  ResetTokenExpiry    – expiry of the pending reset token.
//  FailedResetAttempts – failed reset confirmations since the last request.
//  LockUntil           – reset confirmations rejected until this time.
//  CreatedAt           – timestamp of creation.
//  UpdatedAt           – timestamp of last update.
type User struct {
	ID                  uint64     // users.id
	FirstName           string     // users.first_name
	LastName            string     // users.last_name
	Email               string     // users.email
	PasswordHash        string     // users.password_hash
	DOB                 time.Time  // users.dob
	Role                string     // users.role
	ResetToken          *string    // users.reset_token (nullable)
	ResetTokenExpiry    *time.Time // users.reset_token_expiry (nullable)
	FailedResetAttempts int        // users.failed_reset_attempts
	LockUntil           *time.Time // users.lock_until (nullable)
	CreatedAt           time.Time  // users.created_at
	UpdatedAt           time.Time  // users.updated_at
}

// ResetStateKind enumerates the states of the password-reset machine. The
// state is never stored as its own column; it is derived from the nullable
// reset fields so that transition logic can switch exhaustively instead of
// testing pointer combinations inline.
type ResetStateKind int

const (
	// NoResetPending means no reset cycle is open for the account.
	NoResetPending ResetStateKind = iota
	// ResetPending means a reset token has been issued and not yet used.
	ResetPending
	// Locked means confirmations are rejected until the Until timestamp,
	// regardless of token validity.
	Locked
)

// ResetState is the derived state of the reset machine for one user.
// Token and Expiry are set only for ResetPending; Until only for Locked.
type ResetState struct {
	Kind   ResetStateKind
	Token  string
	Expiry time.Time
	Until  time.Time
}

// ResetStateAt derives the reset state from the stored fields at the given
// instant. A lock in the future supersedes any pending token.
func (u *User) ResetStateAt(now time.Time) ResetState {
	if u.LockUntil != nil && u.LockUntil.After(now) {
		return ResetState{Kind: Locked, Until: *u.LockUntil}
	}
	if u.ResetToken != nil && u.ResetTokenExpiry != nil {
		return ResetState{Kind: ResetPending, Token: *u.ResetToken, Expiry: *u.ResetTokenExpiry}
	}
	return ResetState{Kind: NoResetPending}
}
