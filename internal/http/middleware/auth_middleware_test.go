package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/security"
	"github.com/webinara/webinara-backend/internal/service"
)

const testSessionCookie = "webinara_session"

func newTestSessions() *service.SessionService {
	return service.NewSessionService(service.NewInMemorySessionStore(), 30*time.Minute, 30*time.Minute)
}

func createTestSession(t *testing.T, sessions *service.SessionService, role string) *domain.Session {
	t.Helper()
	session, err := sessions.Create(context.Background(), &domain.Account{ID: 7, Role: role}, "10.0.0.1", "jti-1")
	if err != nil {
		t.Fatalf("Create session: %v", err)
	}
	return session
}

func TestRequireAuthMissingCookie(t *testing.T) {
	sessions := newTestSessions()
	h := RequireAuth(sessions, nil, testSessionCookie)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestRequireAuthUnknownSession(t *testing.T) {
	sessions := newTestSessions()
	h := RequireAuth(sessions, nil, testSessionCookie)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: "no-such-session"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	// Stale cookies are cleared on rejection.
	var cleared int
	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared++
		}
	}
	if cleared != 2 {
		t.Fatalf("cleared cookies = %d, want session and token", cleared)
	}
}

func TestRequireAuthAttachesSession(t *testing.T) {
	sessions := newTestSessions()
	session := createTestSession(t, sessions, domain.RoleUser)

	var seen *domain.Session
	h := RequireAuth(sessions, nil, testSessionCookie)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: session.ID})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if seen == nil || seen.AccountID != 7 {
		t.Fatalf("handler did not receive the session: %+v", seen)
	}
}

func TestRequireAuthTokenCrossCheck(t *testing.T) {
	sessions := newTestSessions()
	tokens := security.NewJWTManager("webinara", "webinara-web", "0123456789abcdef0123456789abcdef", time.Hour)

	token, jti, err := tokens.SignLoginToken(7, domain.RoleUser)
	if err != nil {
		t.Fatalf("SignLoginToken: %v", err)
	}
	session, err := sessions.Create(context.Background(), &domain.Account{ID: 7, Role: domain.RoleUser}, "10.0.0.1", jti)
	if err != nil {
		t.Fatalf("Create session: %v", err)
	}

	h := RequireAuth(sessions, tokens, testSessionCookie)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// Matching session/token pair passes.
	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: session.ID})
	req.AddCookie(&http.Cookie{Name: security.TokenCookieName, Value: token})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("matching pair: status = %d, want 204", rr.Code)
	}

	// Missing token cookie is rejected.
	req = httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: session.ID})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status = %d, want 401", rr.Code)
	}

	// A token from a different login does not pair with this session.
	otherToken, _, err := tokens.SignLoginToken(7, domain.RoleUser)
	if err != nil {
		t.Fatalf("SignLoginToken: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: session.ID})
	req.AddCookie(&http.Cookie{Name: security.TokenCookieName, Value: otherToken})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("spliced token: status = %d, want 401", rr.Code)
	}
	var cleared int
	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared++
		}
	}
	if cleared != 2 {
		t.Fatalf("cleared cookies = %d, want session and token", cleared)
	}
}

func TestRequireRole(t *testing.T) {
	sessions := newTestSessions()
	userSession := createTestSession(t, sessions, domain.RoleUser)
	adminSession := createTestSession(t, sessions, domain.RoleAdmin)

	h := RequireAuth(sessions, nil, testSessionCookie)(RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/user-log", nil)
	req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: userSession.ID})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("user on admin route: status = %d, want 403", rr.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != "FORBIDDEN" {
		t.Fatalf("error code = %q", body.Error.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/user-log", nil)
	req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: adminSession.ID})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("admin on admin route: status = %d, want 204", rr.Code)
	}
}
