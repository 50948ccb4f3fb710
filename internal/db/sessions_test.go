package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testSession(token, username, bearer string, ttl time.Duration) Session {
	now := time.Now()
	return Session{
		Token:       token,
		Username:    username,
		BearerToken: bearer,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

func TestSessionRoundTrip(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	session := testSession("tok-1", "liga", "bearer-1", time.Hour)
	if err := database.CreateSession(ctx, session); err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := database.GetSession(ctx, "tok-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Username != "liga" || loaded.BearerToken != "bearer-1" {
		t.Errorf("unexpected session %+v", loaded)
	}
	if loaded.Expired(time.Now()) {
		t.Error("fresh session must not be expired")
	}

	if err := database.DeleteSession(ctx, "tok-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := database.GetSession(ctx, "tok-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestGetSessionUnknownToken(t *testing.T) {
	database := newTestDB(t)
	if _, err := database.GetSession(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDeleteSessionsByBearer(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	// Two cookies backed by the same upstream token, one by another.
	for _, s := range []Session{
		testSession("tok-1", "liga", "dead-bearer", time.Hour),
		testSession("tok-2", "liga2", "dead-bearer", time.Hour),
		testSession("tok-3", "liga3", "live-bearer", time.Hour),
	} {
		if err := database.CreateSession(ctx, s); err != nil {
			t.Fatalf("create %s: %v", s.Token, err)
		}
	}

	if err := database.DeleteSessionsByBearer(ctx, "dead-bearer"); err != nil {
		t.Fatalf("delete by bearer: %v", err)
	}

	for _, token := range []string{"tok-1", "tok-2"} {
		if _, err := database.GetSession(ctx, token); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("%s: expected deletion, got %v", token, err)
		}
	}
	if _, err := database.GetSession(ctx, "tok-3"); err != nil {
		t.Errorf("tok-3 should survive, got %v", err)
	}
}

func TestDeleteSessionsForUser(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	if err := database.CreateSession(ctx, testSession("tok-1", "liga", "b1", time.Hour)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := database.DeleteSessionsForUser(ctx, "liga"); err != nil {
		t.Fatalf("delete for user: %v", err)
	}
	if _, err := database.GetSession(ctx, "tok-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected deletion, got %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	if err := database.CreateSession(ctx, testSession("old", "liga", "b1", -time.Minute)); err != nil {
		t.Fatalf("create expired: %v", err)
	}
	if err := database.CreateSession(ctx, testSession("fresh", "liga2", "b2", time.Hour)); err != nil {
		t.Fatalf("create fresh: %v", err)
	}

	removed, err := database.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if _, err := database.GetSession(ctx, "fresh"); err != nil {
		t.Errorf("fresh session should survive the sweep, got %v", err)
	}
}
