package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/security"
)

type authFixture struct {
	svc      *AuthService
	sessions *SessionService
	repo     *fakeAccountRepo
	userLogs *fakeUserLogRepo
	mailer   *fakeMailer
	hasher   *security.PasswordHasher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := newFakeAccountRepo()
	userLogs := &fakeUserLogRepo{}
	mailer := &fakeMailer{}
	hasher := security.NewPasswordHasher(bcrypt.MinCost)
	sessions := NewSessionService(NewInMemorySessionStore(), 30*time.Minute, 30*time.Minute)
	tokens := security.NewJWTManager("webinara", "webinara-web", "0123456789abcdef0123456789abcdef", time.Hour)
	svc := NewAuthService(repo, userLogs, sessions, NewLockoutPolicy(3, 5*time.Minute), hasher, tokens, mailer, silentLogger())
	return &authFixture{svc: svc, sessions: sessions, repo: repo, userLogs: userLogs, mailer: mailer, hasher: hasher}
}

func (f *authFixture) seedAccount(t *testing.T, email, password, role string) *domain.Account {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	return f.repo.seed(&domain.Account{
		FullName:        "Pat Example",
		Email:           email,
		PasswordHash:    hash,
		Role:            role,
		PasswordHistory: []string{hash},
	})
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	f.seedAccount(t, "pat@example.com", "correct horse", domain.RoleUser)

	result, err := f.svc.Login(context.Background(), "pat@example.com", "correct horse", "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("no login token issued")
	}
	if result.Session == nil || result.Session.ID == "" {
		t.Fatalf("no session issued")
	}
	if result.Session.AccountID != result.Account.ID {
		t.Fatalf("session bound to account %d, want %d", result.Session.AccountID, result.Account.ID)
	}
	if result.Session.Bound() {
		t.Fatalf("fresh session must start unbound")
	}
	if result.Session.TokenID == "" {
		t.Fatalf("session does not record the token JTI")
	}

	stored, err := f.sessions.Find(context.Background(), result.Session.ID)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if stored.CSRFSecret == "" {
		t.Fatalf("session missing CSRF secret")
	}

	logs, _ := f.userLogs.List(context.Background())
	if len(logs) != 1 || logs[0].URL != "/api/auth/login" {
		t.Fatalf("login not audited: %+v", logs)
	}
	if len(f.mailer.deliveries()) != 0 {
		t.Fatalf("user login must not mail")
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.seedAccount(t, "pat@example.com", "correct horse", domain.RoleUser)

	if _, err := f.svc.Login(context.Background(), "  PAT@Example.com ", "correct horse", "10.0.0.1"); err != nil {
		t.Fatalf("Login with unnormalized email: %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), "ghost@example.com", "whatever", "10.0.0.1")
	if !errors.Is(err, ErrIncorrectEmail) {
		t.Fatalf("err = %v, want ErrIncorrectEmail", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.seedAccount(t, "pat@example.com", "correct horse", domain.RoleUser)

	_, err := f.svc.Login(context.Background(), "pat@example.com", "wrong", "10.0.0.1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	stored, _ := f.repo.FindByEmail(context.Background(), "pat@example.com")
	if stored.FailedLoginAttempts != 1 {
		t.Fatalf("failed attempts = %d, want 1", stored.FailedLoginAttempts)
	}
}

func TestLoginLockoutAfterThreeFailures(t *testing.T) {
	f := newAuthFixture(t)
	f.seedAccount(t, "pat@example.com", "correct horse", domain.RoleUser)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.WithClock(func() time.Time { return base })

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Login(context.Background(), "pat@example.com", "wrong", "10.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v", i+1, err)
		}
	}

	_, err := f.svc.Login(context.Background(), "pat@example.com", "wrong", "10.0.0.1")
	var locked *AccountLockedError
	if !errors.As(err, &locked) {
		t.Fatalf("third failure: err = %v, want AccountLockedError", err)
	}
	if locked.UnlocksInMinutes() != 5 {
		t.Fatalf("UnlocksInMinutes = %d, want 5", locked.UnlocksInMinutes())
	}

	// Correct password is rejected while locked, without consuming a counter.
	_, err = f.svc.Login(context.Background(), "pat@example.com", "correct horse", "10.0.0.1")
	if !errors.As(err, &locked) {
		t.Fatalf("locked login: err = %v, want AccountLockedError", err)
	}

	// One minute in, the message counts down.
	f.svc.WithClock(func() time.Time { return base.Add(time.Minute) })
	_, err = f.svc.Login(context.Background(), "pat@example.com", "correct horse", "10.0.0.1")
	if !errors.As(err, &locked) {
		t.Fatalf("err = %v", err)
	}
	if locked.UnlocksInMinutes() != 4 {
		t.Fatalf("UnlocksInMinutes = %d, want 4", locked.UnlocksInMinutes())
	}

	// After the window the account opens back up.
	f.svc.WithClock(func() time.Time { return base.Add(5*time.Minute + time.Second) })
	if _, err := f.svc.Login(context.Background(), "pat@example.com", "correct horse", "10.0.0.1"); err != nil {
		t.Fatalf("post-lockout login: %v", err)
	}
	stored, _ := f.repo.FindByEmail(context.Background(), "pat@example.com")
	if stored.FailedLoginAttempts != 0 || stored.LockUntil != nil {
		t.Fatalf("success did not clear lockout state: attempts=%d lockUntil=%v", stored.FailedLoginAttempts, stored.LockUntil)
	}
}

func TestLoginSuccessResetsFailureCounter(t *testing.T) {
	f := newAuthFixture(t)
	f.seedAccount(t, "pat@example.com", "correct horse", domain.RoleUser)

	for i := 0; i < 2; i++ {
		f.svc.Login(context.Background(), "pat@example.com", "wrong", "10.0.0.1")
	}
	if _, err := f.svc.Login(context.Background(), "pat@example.com", "correct horse", "10.0.0.1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	// Two more failures start a fresh count instead of locking.
	for i := 0; i < 2; i++ {
		if _, err := f.svc.Login(context.Background(), "pat@example.com", "wrong", "10.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("err = %v, want ErrInvalidCredentials", err)
		}
	}
}

func TestAdminLoginSendsNotice(t *testing.T) {
	f := newAuthFixture(t)
	f.seedAccount(t, "admin@example.com", "correct horse", domain.RoleAdmin)

	if _, err := f.svc.Login(context.Background(), "admin@example.com", "correct horse", "10.0.0.1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	sent := f.mailer.deliveries()
	if len(sent) != 1 || sent[0].to != "admin@example.com" {
		t.Fatalf("admin notice not sent: %+v", sent)
	}
}

func TestAdminLoginSurvivesMailFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.err = errors.New("smtp down")
	f.seedAccount(t, "admin@example.com", "correct horse", domain.RoleAdmin)

	if _, err := f.svc.Login(context.Background(), "admin@example.com", "correct horse", "10.0.0.1"); err != nil {
		t.Fatalf("login must not fail on mail dispatch: %v", err)
	}
}

func TestLoginTokenParses(t *testing.T) {
	f := newAuthFixture(t)
	f.seedAccount(t, "pat@example.com", "correct horse", domain.RoleUser)

	result, err := f.svc.Login(context.Background(), "pat@example.com", "correct horse", "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	tokens := security.NewJWTManager("webinara", "webinara-web", "0123456789abcdef0123456789abcdef", time.Hour)
	claims, err := tokens.ParseLoginToken(result.Token)
	if err != nil {
		t.Fatalf("ParseLoginToken: %v", err)
	}
	if claims.Role != domain.RoleUser {
		t.Fatalf("role = %q", claims.Role)
	}
	if claims.ID != result.Session.TokenID {
		t.Fatalf("jti %q not bound to session token id %q", claims.ID, result.Session.TokenID)
	}
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	f.seedAccount(t, "pat@example.com", "correct horse", domain.RoleUser)

	result, err := f.svc.Login(context.Background(), "pat@example.com", "correct horse", "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := f.svc.Logout(context.Background(), result.Session.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := f.sessions.Find(context.Background(), result.Session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("session survives logout: %v", err)
	}
	// Idempotent: logging out the same session again is fine.
	if err := f.svc.Logout(context.Background(), result.Session.ID); err != nil {
		t.Fatalf("repeated Logout: %v", err)
	}
}

func TestRegisterUser(t *testing.T) {
	f := newAuthFixture(t)

	account, err := f.svc.RegisterUser(context.Background(), RegisterInput{
		FullName: "Pat Example",
		Email:    "Pat@Example.com",
		Password: "first-password",
	})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if account.Email != "pat@example.com" {
		t.Fatalf("email not normalized: %q", account.Email)
	}
	if account.Role != domain.RoleUser {
		t.Fatalf("role = %q", account.Role)
	}
	if len(account.PasswordHistory) != 1 {
		t.Fatalf("history not seeded: %v", account.PasswordHistory)
	}
	match, err := f.hasher.Verify(account.PasswordHash, "first-password")
	if err != nil || !match {
		t.Fatalf("stored hash does not verify: match=%v err=%v", match, err)
	}

	if _, err := f.svc.RegisterUser(context.Background(), RegisterInput{Email: "pat@example.com", Password: "x"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: err = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterAdmin(t *testing.T) {
	f := newAuthFixture(t)

	account, err := f.svc.RegisterAdmin(context.Background(), RegisterInput{Email: "admin@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("RegisterAdmin: %v", err)
	}
	if !account.IsAdmin() {
		t.Fatalf("role = %q, want admin", account.Role)
	}
}
