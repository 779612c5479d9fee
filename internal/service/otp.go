package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/mail"
	"github.com/webinara/webinara-backend/internal/observability"
	"github.com/webinara/webinara-backend/internal/repository"
)

// GenerateOTP returns a uniformly random 6-digit code, leading zeros
// preserved.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// OTPService issues and verifies one-time codes for password reset. Each
// account holds at most one outstanding code; issuing a new one overwrites
// the previous.
type OTPService struct {
	accounts repository.AccountRepository
	guard    *PasswordGuard
	mailer   mail.Mailer
	logger   *slog.Logger
	ttl      time.Duration
	now      func() time.Time
}

func NewOTPService(accounts repository.AccountRepository, guard *PasswordGuard, mailer mail.Mailer, logger *slog.Logger, ttl time.Duration) *OTPService {
	return &OTPService{
		accounts: accounts,
		guard:    guard,
		mailer:   mailer,
		logger:   logger,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue generates a fresh code for the account behind email, persists it
// and dispatches the reset mail. Mail delivery is best-effort: a dispatch
// failure is logged and the issued code stays valid.
func (s *OTPService) Issue(ctx context.Context, email string) error {
	account, err := s.findAccount(ctx, email)
	if err != nil {
		observability.RecordOTPEvent("issue", "not_found")
		return err
	}

	otp, err := GenerateOTP()
	if err != nil {
		return err
	}
	expiresAt := s.now().UTC().Add(s.ttl)
	account.OTP = &otp
	account.OTPExpiresAt = &expiresAt
	if err := s.accounts.Update(ctx, account); err != nil {
		observability.RecordOTPEvent("issue", "error")
		return err
	}

	if err := s.mailer.Send(ctx, account.Email, "Reset Your Password", mail.OTPResetBody(otp)); err != nil {
		s.logger.ErrorContext(ctx, "otp mail dispatch failed", "email", account.Email, "error", err)
	}
	observability.RecordOTPEvent("issue", "success")
	return nil
}

// Verify checks the submitted code without consuming it; the reset step
// consumes. Both the match and the expiry check must pass.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	account, err := s.findAccount(ctx, email)
	if err != nil {
		observability.RecordOTPEvent("verify", "not_found")
		return err
	}
	if err := s.check(account, code); err != nil {
		observability.RecordOTPEvent("verify", "rejected")
		return err
	}
	observability.RecordOTPEvent("verify", "success")
	return nil
}

// ResetPassword completes the OTP flow: verifies the code, runs the
// password-history guard, installs the new hash and clears the OTP slot.
func (s *OTPService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	account, err := s.findAccount(ctx, email)
	if err != nil {
		observability.RecordOTPEvent("reset", "not_found")
		return err
	}
	if err := s.check(account, code); err != nil {
		observability.RecordOTPEvent("reset", "rejected")
		return err
	}
	if err := s.guard.Apply(account, newPassword); err != nil {
		if errors.Is(err, ErrPasswordReused) {
			observability.RecordOTPEvent("reset", "reused")
		}
		return err
	}
	account.ClearOTP()
	if err := s.accounts.Update(ctx, account); err != nil {
		observability.RecordOTPEvent("reset", "error")
		return err
	}
	observability.RecordOTPEvent("reset", "success")
	return nil
}

func (s *OTPService) check(account *domain.Account, code string) error {
	if account.OTP == nil || *account.OTP != code {
		return ErrInvalidOTP
	}
	if account.OTPExpiresAt == nil || s.now().After(*account.OTPExpiresAt) {
		return ErrOTPExpired
	}
	return nil
}

func (s *OTPService) findAccount(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

// WithClock overrides the time source for expiry tests.
func (s *OTPService) WithClock(now func() time.Time) *OTPService {
	s.now = now
	return s
}
