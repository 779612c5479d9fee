package service

import (
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
)

// LockoutPolicy implements the fixed-window account lockout: a set number of
// consecutive failures locks the account for a fixed duration. No backoff.
type LockoutPolicy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

func NewLockoutPolicy(maxAttempts int, lockDuration time.Duration) *LockoutPolicy {
	return &LockoutPolicy{MaxAttempts: maxAttempts, LockDuration: lockDuration}
}

// Check returns an AccountLockedError while the lockout window is active.
// A rejected locked attempt does not consume a counter increment.
func (p *LockoutPolicy) Check(account *domain.Account, now time.Time) error {
	if account.Locked(now) {
		return &AccountLockedError{UnlocksIn: account.LockUntil.Sub(now)}
	}
	return nil
}

// RecordFailure increments the failure counter on the account and, once the
// threshold is reached, sets the lock window and resets the counter. The
// caller persists the mutated account. Returns true when this failure locked
// the account.
func (p *LockoutPolicy) RecordFailure(account *domain.Account, now time.Time) bool {
	account.FailedLoginAttempts++
	if account.FailedLoginAttempts >= p.MaxAttempts {
		until := now.Add(p.LockDuration)
		account.LockUntil = &until
		account.FailedLoginAttempts = 0
		return true
	}
	return false
}

// RecordSuccess clears the counter and any lock. The caller persists.
func (p *LockoutPolicy) RecordSuccess(account *domain.Account) {
	account.FailedLoginAttempts = 0
	account.LockUntil = nil
}
