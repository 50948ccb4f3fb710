package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golazoapp/golazo/internal/db"
)

func initTestSessions(t *testing.T, ttl time.Duration) {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
		Init(nil, 0, "")
	})
	Init(database, ttl, "development")
}

func sessionCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestSessionCookieRoundTrip(t *testing.T) {
	initTestSessions(t, time.Hour)

	recorder := httptest.NewRecorder()
	if err := CreateSession(context.Background(), recorder, "liga", "bearer-1"); err != nil {
		t.Fatalf("create session: %v", err)
	}
	cookie := sessionCookie(t, recorder)
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	request := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	request.AddCookie(cookie)

	session, ok := SessionFromRequest(request)
	if !ok {
		t.Fatal("expected session to resolve")
	}
	if session.Username != "liga" || session.BearerToken != "bearer-1" {
		t.Errorf("unexpected session %+v", session)
	}
}

func TestSessionFromRequestExpired(t *testing.T) {
	initTestSessions(t, time.Millisecond)

	recorder := httptest.NewRecorder()
	if err := CreateSession(context.Background(), recorder, "liga", "bearer-1"); err != nil {
		t.Fatalf("create session: %v", err)
	}
	cookie := sessionCookie(t, recorder)

	time.Sleep(5 * time.Millisecond)

	request := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	request.AddCookie(cookie)
	if _, ok := SessionFromRequest(request); ok {
		t.Error("expired session must not resolve")
	}
}

func TestCreateSessionReplacesPreviousLogin(t *testing.T) {
	initTestSessions(t, time.Hour)

	first := httptest.NewRecorder()
	if err := CreateSession(context.Background(), first, "liga", "bearer-1"); err != nil {
		t.Fatalf("first login: %v", err)
	}
	firstCookie := sessionCookie(t, first)

	second := httptest.NewRecorder()
	if err := CreateSession(context.Background(), second, "liga", "bearer-2"); err != nil {
		t.Fatalf("second login: %v", err)
	}

	request := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	request.AddCookie(firstCookie)
	if _, ok := SessionFromRequest(request); ok {
		t.Error("first session must be dropped by the second login")
	}
}

func TestInvalidateBearer(t *testing.T) {
	initTestSessions(t, time.Hour)

	recorder := httptest.NewRecorder()
	if err := CreateSession(context.Background(), recorder, "liga", "rejected-token"); err != nil {
		t.Fatalf("create session: %v", err)
	}
	cookie := sessionCookie(t, recorder)

	InvalidateBearer(context.Background(), "rejected-token")

	request := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	request.AddCookie(cookie)
	if _, ok := SessionFromRequest(request); ok {
		t.Error("sessions backed by a rejected bearer must be gone")
	}
}

func TestClearSessionExpiresCookie(t *testing.T) {
	initTestSessions(t, time.Hour)

	login := httptest.NewRecorder()
	if err := CreateSession(context.Background(), login, "liga", "bearer-1"); err != nil {
		t.Fatalf("create session: %v", err)
	}
	cookie := sessionCookie(t, login)

	request := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	request.AddCookie(cookie)
	logout := httptest.NewRecorder()
	ClearSession(logout, request)

	cleared := sessionCookie(t, logout)
	if cleared.MaxAge >= 0 {
		t.Error("logout must expire the cookie")
	}

	verify := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	verify.AddCookie(cookie)
	if _, ok := SessionFromRequest(verify); ok {
		t.Error("cleared session must not resolve")
	}
}
