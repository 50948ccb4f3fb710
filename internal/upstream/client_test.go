package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := WithToken(context.Background(), "abc123")
	if _, err := client.ListTournaments(ctx); err != nil {
		t.Fatalf("list tournaments: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestClientOmitsAuthWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.ListTournaments(context.Background()); err != nil {
		t.Fatalf("list tournaments: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClientUnauthorizedHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"token expired"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	var invalidated string
	client := NewClient(server.URL, WithUnauthorizedHook(func(ctx context.Context, token string) {
		invalidated = token
	}))

	ctx := WithToken(context.Background(), "stale-token")
	_, err := client.ListTournaments(ctx)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if apiErr.Message != "token expired" {
		t.Errorf("expected message from error field, got %q", apiErr.Message)
	}
	if invalidated != "stale-token" {
		t.Errorf("expected hook to receive the rejected token, got %q", invalidated)
	}
}

func TestClientNoHookWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	called := false
	client := NewClient(server.URL, WithUnauthorizedHook(func(context.Context, string) {
		called = true
	}))

	if _, err := client.ListTournaments(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	if called {
		t.Error("hook must not run for anonymous requests")
	}
}

func TestIsConflict(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"409", &APIError{Status: http.StatusConflict}, true},
		{"500 treated as duplicate", &APIError{Status: http.StatusInternalServerError}, true},
		{"404", &APIError{Status: http.StatusNotFound}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		if got := IsConflict(tc.err); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestUpstreamMessageFallsBackToMessageField(t *testing.T) {
	if got := upstreamMessage([]byte(`{"message":"duplicate range"}`)); got != "duplicate range" {
		t.Errorf("expected message field, got %q", got)
	}
	if got := upstreamMessage([]byte(`not json`)); got != "" {
		t.Errorf("expected empty message for junk body, got %q", got)
	}
}
