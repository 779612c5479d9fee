package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrIncorrectEmail is returned when no account exists for the submitted
	// email. Distinguishing this from a wrong password leaks account
	// existence; the behavior is kept intentionally to match the deployed
	// contract and is flagged in DESIGN.md as a hardening gap.
	ErrIncorrectEmail = errors.New("incorrect email address")

	ErrInvalidCredentials = errors.New("incorrect password")
	ErrPasswordReused     = errors.New("this password was used recently")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrOTPExpired         = errors.New("otp has expired")
	ErrNotFound           = errors.New("not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSeatsFull          = errors.New("no seats available")
	ErrAlreadyBooked      = errors.New("webinar already booked")
	ErrCSRFTokenMissing   = errors.New("csrf token missing")
	ErrCSRFTokenInvalid   = errors.New("csrf token invalid")
)

// AccountLockedError rejects authentication while a lockout window is active.
type AccountLockedError struct {
	UnlocksIn time.Duration
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %d minutes", e.UnlocksInMinutes())
}

// UnlocksInMinutes reports the remaining lock time in whole minutes, rounded
// up so the message never promises an earlier unlock than the real one.
func (e *AccountLockedError) UnlocksInMinutes() int {
	m := int((e.UnlocksIn + time.Minute - 1) / time.Minute)
	if m < 1 {
		m = 1
	}
	return m
}

// Session violation reasons, any subset of which may trigger together.
const (
	ViolationIPChange            = "IP_CHANGE"
	ViolationFingerprintMismatch = "FINGERPRINT_MISMATCH"
	ViolationSessionTimeout      = "SESSION_TIMEOUT"
)

// SessionViolationError is terminal for the session: the integrity guard
// destroys the session before returning it.
type SessionViolationError struct {
	Reasons []string
}

func (e *SessionViolationError) Error() string {
	return fmt.Sprintf("session security violation: %v", e.Reasons)
}
