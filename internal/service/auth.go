package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/mail"
	"github.com/webinara/webinara-backend/internal/observability"
	"github.com/webinara/webinara-backend/internal/repository"
	"github.com/webinara/webinara-backend/internal/security"
)

// RegisterInput carries the fields accepted at signup.
type RegisterInput struct {
	FullName     string
	MobileNumber string
	Address      string
	City         string
	Email        string
	Password     string
}

// LoginResult is everything the login handler needs to build the response:
// the account, the server-side session and the signed login token for the
// token cookie.
type LoginResult struct {
	Account *domain.Account
	Session *domain.Session
	Token   string
}

// AuthService implements login, logout and registration. Users and admins
// share the credential store; the role field on the account discriminates.
type AuthService struct {
	accounts repository.AccountRepository
	userLogs repository.UserLogRepository
	sessions *SessionService
	lockout  *LockoutPolicy
	hasher   *security.PasswordHasher
	tokens   *security.JWTManager
	mailer   mail.Mailer
	logger   *slog.Logger
	now      func() time.Time
}

func NewAuthService(
	accounts repository.AccountRepository,
	userLogs repository.UserLogRepository,
	sessions *SessionService,
	lockout *LockoutPolicy,
	hasher *security.PasswordHasher,
	tokens *security.JWTManager,
	mailer mail.Mailer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		userLogs: userLogs,
		sessions: sessions,
		lockout:  lockout,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		logger:   logger,
		now:      time.Now,
	}
}

// Login authenticates the credentials and, on success, establishes a session
// and signs the login token. The error distinguishes an unknown email from a
// wrong password, matching the deployed response contract.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*LoginResult, error) {
	account, err := s.accounts.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			observability.RecordAuthLogin("unknown", "incorrect_email")
			return nil, ErrIncorrectEmail
		}
		return nil, err
	}

	now := s.now().UTC()
	// A locked account rejects before the password is even checked, and the
	// rejected attempt does not consume a counter increment.
	if err := s.lockout.Check(account, now); err != nil {
		observability.RecordAuthLogin(account.Role, "locked")
		return nil, err
	}

	match, err := s.hasher.Verify(account.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !match {
		locked := s.lockout.RecordFailure(account, now)
		if updateErr := s.accounts.Update(ctx, account); updateErr != nil {
			return nil, updateErr
		}
		if locked {
			observability.RecordAuthLogin(account.Role, "locked_out")
			return nil, &AccountLockedError{UnlocksIn: s.lockout.LockDuration}
		}
		observability.RecordAuthLogin(account.Role, "incorrect_password")
		return nil, ErrInvalidCredentials
	}

	s.lockout.RecordSuccess(account)
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}

	token, jti, err := s.tokens.SignLoginToken(account.ID, account.Role)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Create(ctx, account, ip, jti)
	if err != nil {
		return nil, err
	}

	if account.IsAdmin() {
		s.notifyAdminLogin(ctx, account)
	}
	s.recordLoginLog(ctx, account.ID)

	observability.RecordAuthLogin(account.Role, "success")
	return &LoginResult{Account: account, Session: session, Token: token}, nil
}

// Logout destroys the session. A missing session is not an error; the
// outcome the client asked for already holds.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	err := s.sessions.Destroy(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// RegisterUser creates a user account. The initial hash seeds the password
// history so the first password counts against the reuse policy.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	return s.register(ctx, in, domain.RoleUser)
}

// RegisterAdmin creates an admin account. Exposed through a management
// command, not the public API.
func (s *AuthService) RegisterAdmin(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	return s.register(ctx, in, domain.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, in RegisterInput, role string) (*domain.Account, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	account := &domain.Account{
		FullName:          in.FullName,
		MobileNumber:      in.MobileNumber,
		Address:           in.Address,
		City:              in.City,
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
		PasswordHistory:   []string{hash},
		PasswordChangedAt: s.now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// notifyAdminLogin mails a sign-in notice carrying a short confirmation
// code. Informational only; it never gates the session.
func (s *AuthService) notifyAdminLogin(ctx context.Context, account *domain.Account) {
	code, err := GenerateOTP()
	if err != nil {
		s.logger.ErrorContext(ctx, "admin login code generation failed", "error", err)
		return
	}
	if err := s.mailer.Send(ctx, account.Email, "New Admin Sign-In", mail.AdminLoginBody(code)); err != nil {
		s.logger.ErrorContext(ctx, "admin login mail dispatch failed", "email", account.Email, "error", err)
	}
}

func (s *AuthService) recordLoginLog(ctx context.Context, accountID uint) {
	entry := &domain.UserLog{
		UserID:    accountID,
		Method:    "POST",
		URL:       "/api/auth/login",
		Timestamp: s.now().UTC(),
	}
	if err := s.userLogs.Create(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "login audit record failed", "user_id", accountID, "error", err)
	}
}

// WithClock overrides the time source for lockout-window tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}
