// Package service implements the password-reset state machine. The state of
// the machine is the reset sub-state persisted on the user row; this
// package owns every transition between NoResetPending, ResetPending and
// Locked, while storage and notification are injected behind interfaces so
// the transitions can be exercised with fakes and a fake clock.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/martinsedd/user-service/internal/model"
	"github.com/martinsedd/user-service/internal/repository"
	"github.com/martinsedd/user-service/internal/utils"
)

// Errors surfaced by Confirm and Request. Handlers map each to its HTTP
// shape: ErrTokenMissing, ErrTokenInvalid and ErrAccountLocked are all 400,
// repository.ErrNotFound from Request is 404.
var (
	// ErrTokenMissing means no token was submitted at all. Rejected before
	// any state is read, so it never counts as a failed attempt.
	ErrTokenMissing = errors.New("token not provided")
	// ErrTokenInvalid covers expired, forged, mismatched and already-used
	// tokens. Deliberately one error: the response must not tell a caller
	// which of those cases it hit.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrAccountLocked means confirmations for the account are suspended.
	ErrAccountLocked = errors.New("account locked")
)

// UserStore is the slice of the credential store the reset machine needs.
// *repository.UserRepo satisfies it; tests supply a fake.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	SetResetToken(ctx context.Context, id uint64, token string, expiry time.Time) error
	ConsumeResetToken(ctx context.Context, id uint64, token, password string, cost int) (bool, error)
	RecordFailedReset(ctx context.Context, id uint64, threshold int, lockUntil time.Time) (int, *time.Time, error)
}

// Notifier delivers the reset link to the account owner. Implementations
// live in internal/notify (SES email, queue publisher, log fallback).
type Notifier interface {
	SendResetLink(ctx context.Context, email, resetURL string) error
}

// ResetConfig carries the tunables of the machine.
type ResetConfig struct {
	Secret       string        // JWT signing secret
	TokenTTL     time.Duration // reset token lifetime (default 10m)
	MaxAttempts  int           // failed confirmations before locking (default 3)
	LockDuration time.Duration // how long a lock lasts (default 30m)
	BcryptCost   int           // cost for the replacement password hash
	BaseURL      string        // public base URL for the reset link
}

// ResetService orchestrates the request and confirm transitions.
type ResetService struct {
	users    UserStore
	notifier Notifier
	cfg      ResetConfig
	now      func() time.Time
}

// NewResetService wires the machine. A nil now defaults to time.Now; tests
// pass a fake clock to drive expiry and lock windows deterministically.
func NewResetService(users UserStore, notifier Notifier, cfg ResetConfig, now func() time.Time) *ResetService {
	if now == nil {
		now = time.Now
	}
	return &ResetService{users: users, notifier: notifier, cfg: cfg, now: now}
}

// Request opens (or reopens) a reset cycle for the account registered under
// email. A fresh token is issued and persisted, overwriting any prior
// pending token so only the newest link works, and the failed-attempt
// counter restarts at zero. The notification is dispatched before
// returning; its failure propagates so the caller reports a server error
// rather than a sent link that never left.
//
// Unknown emails return repository.ErrNotFound. The resulting 404 does
// reveal account existence; preserved behavior, see DESIGN.md.
func (s *ResetService) Request(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	tok, err := utils.NewToken(s.cfg.Secret, u.ID, u.Role, s.cfg.TokenTTL)
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, u.ID, tok.Token, tok.Exp); err != nil {
		return err
	}
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.BaseURL, tok.Token)
	return s.notifier.SendResetLink(ctx, u.Email, resetURL)
}

// Confirm closes a reset cycle, successfully or not.
//
// Order of checks:
//  1. A missing token short-circuits before any state is read.
//  2. The account is resolved from the token's embedded subject, without
//     verifying the signature yet: a forged or expired token still names
//     the account its failure is charged to. A token that resolves to no
//     account fails closed without touching any record.
//  3. The lock check runs before token verification: a locked account
//     rejects even the correct token.
//  4. With a pending reset, the token must verify under the secret, match
//     the stored token exactly and be inside the stored expiry. Success is
//     a conditional write keyed on the stored token value, so concurrent
//     confirmations of the same token cannot both succeed; the winner
//     clears the whole reset sub-state including the lock and the counter.
//  5. Any other outcome counts one failed attempt atomically; reaching the
//     threshold sets the lock. The mutation persists even though the
//     request is rejected.
func (s *ResetService) Confirm(ctx context.Context, rawToken, password string) error {
	if rawToken == "" {
		return ErrTokenMissing
	}

	subject, err := utils.PeekSubject(rawToken)
	if err != nil {
		return ErrTokenInvalid
	}
	u, err := s.users.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenInvalid
		}
		return err
	}

	now := s.now()
	state := u.ResetStateAt(now)
	switch state.Kind {
	case model.Locked:
		return ErrAccountLocked
	case model.NoResetPending:
		// No open cycle to defend; reject without counting.
		return ErrTokenInvalid
	}

	_, verifyErr := utils.VerifyToken(s.cfg.Secret, rawToken)
	if verifyErr == nil && state.Token == rawToken && state.Expiry.After(now) {
		ok, err := s.users.ConsumeResetToken(ctx, u.ID, rawToken, password, s.cfg.BcryptCost)
		if err != nil {
			return err
		}
		if !ok {
			// A concurrent confirmation won the conditional write.
			return ErrTokenInvalid
		}
		return nil
	}

	attempts, _, err := s.users.RecordFailedReset(ctx, u.ID, s.cfg.MaxAttempts, now.Add(s.cfg.LockDuration))
	if err != nil {
		return err
	}
	if attempts >= s.cfg.MaxAttempts {
		return ErrAccountLocked
	}
	return ErrTokenInvalid
}
