package standings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golazoapp/golazo/internal/league"
	"github.com/golazoapp/golazo/internal/upstream"
)

func setupHandlers(t *testing.T, upstreamHandler http.Handler) {
	t.Helper()
	server := httptest.NewServer(upstreamHandler)
	t.Cleanup(server.Close)

	c := upstream.NewClient(server.URL)
	tctx := league.NewContext(c)
	if err := tctx.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize tournaments: %v", err)
	}
	InitHandlers(c, tctx)
}

func stubHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tournaments", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Clausura","season":"2026"}]`))
	})
	mux.HandleFunc("GET /tournaments/1/matchdays", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("GET /tournaments/1/standings", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"position":1,"teamId":4,"teamName":"Tigres","played":3,"won":3,"points":9,"goalsFor":7,"goalsAgainst":2,"goalDiff":5},
			{"position":2,"teamId":5,"teamName":"Leones","played":3,"won":2,"lost":1,"points":6,"goalsFor":4,"goalsAgainst":3,"goalDiff":1}
		]`))
	})
	return mux
}

func TestHandleStandingsRendersTable(t *testing.T) {
	setupHandlers(t, stubHandler())

	request := httptest.NewRequest(http.MethodGet, "/posiciones", nil)
	recorder := httptest.NewRecorder()
	HandleStandings(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	body := recorder.Body.String()
	for _, want := range []string{"Tabla de Posiciones", "Tigres", "Leones", `href="/equipos/4"`} {
		if !strings.Contains(body, want) {
			t.Errorf("response missing %q", want)
		}
	}
	if got := recorder.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("unexpected content type %q", got)
	}
}

func TestHandleStandingsUpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tournaments", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Clausura"}]`))
	})
	mux.HandleFunc("GET /tournaments/1/matchdays", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("GET /tournaments/1/standings", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	})
	setupHandlers(t, mux)

	request := httptest.NewRequest(http.MethodGet, "/posiciones", nil)
	recorder := httptest.NewRecorder()
	HandleStandings(recorder, request)

	if recorder.Code != http.StatusBadGateway {
		t.Errorf("expected 502 when the upstream fails, got %d", recorder.Code)
	}
}
