package league

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golazoapp/golazo/internal/models"
	"github.com/golazoapp/golazo/internal/upstream"
)

// stubUpstream serves canned tournament and match-day lists.
type stubUpstream struct {
	tournaments []models.Tournament
	matchDays   map[int64][]models.MatchDay

	// onMatchDays runs inside the handler before replying, while the
	// client is still blocked on the request.
	onMatchDays func(tournamentID int64)
}

func (s *stubUpstream) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tournaments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(s.tournaments)
	})
	mux.HandleFunc("GET /tournaments/{id}/matchdays", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			t.Errorf("bad tournament id %q", r.PathValue("id"))
		}
		if s.onMatchDays != nil {
			s.onMatchDays(id)
		}
		json.NewEncoder(w).Encode(s.matchDays[id])
	})
	return mux
}

func newTestContext(t *testing.T, stub *stubUpstream) *Context {
	t.Helper()
	server := httptest.NewServer(stub.handler(t))
	t.Cleanup(server.Close)
	c := NewContext(upstream.NewClient(server.URL))
	c.today = func() models.Date { return models.NewDate(2026, time.January, 14) }
	return c
}

func TestInitializeSelectsNewestTournament(t *testing.T) {
	stub := &stubUpstream{
		tournaments: []models.Tournament{
			{ID: 1, Name: "Clausura", Season: "2025"},
			{ID: 3, Name: "Clausura", Season: "2026"},
			{ID: 2, Name: "Apertura", Season: "2025"},
		},
		matchDays: map[int64][]models.MatchDay{
			3: {
				{ID: 10, StartDate: models.NewDate(2026, time.January, 12), EndDate: models.NewDate(2026, time.January, 18)},
				{ID: 11, StartDate: models.NewDate(2026, time.January, 19), EndDate: models.NewDate(2026, time.January, 25)},
			},
		},
	}
	c := newTestContext(t, stub)

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	state := c.Snapshot()
	if state.SelectedID != 3 {
		t.Errorf("expected newest tournament 3 selected, got %d", state.SelectedID)
	}
	if state.Tournaments[0].ID != 3 || state.Tournaments[2].ID != 1 {
		t.Errorf("expected tournaments sorted newest first, got %+v", state.Tournaments)
	}
	if state.CurrentMatchDayID != 10 {
		t.Errorf("expected match day 10 current, got %d", state.CurrentMatchDayID)
	}
}

func TestInitializeKeepsExistingSelection(t *testing.T) {
	stub := &stubUpstream{
		tournaments: []models.Tournament{{ID: 1}, {ID: 2}},
		matchDays:   map[int64][]models.MatchDay{1: nil, 2: nil},
	}
	c := newTestContext(t, stub)

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := c.Select(context.Background(), 1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("re-initialize: %v", err)
	}

	if got := c.SelectedID(); got != 1 {
		t.Errorf("expected selection 1 to survive re-initialize, got %d", got)
	}
}

func TestRefreshDiscardsStaleResponse(t *testing.T) {
	stub := &stubUpstream{
		tournaments: []models.Tournament{{ID: 1}},
		matchDays: map[int64][]models.MatchDay{
			1: {{ID: 10, StartDate: models.NewDate(2026, time.January, 12), EndDate: models.NewDate(2026, time.January, 18)}},
		},
	}
	c := newTestContext(t, stub)

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	before := c.Snapshot()

	// Invalidate the in-flight generation while the refresh request is
	// still being served; the reply must be dropped.
	stub.onMatchDays = func(int64) {
		c.mu.Lock()
		c.gen++
		c.mu.Unlock()
	}
	stub.matchDays[1] = nil

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	after := c.Snapshot()
	if len(after.MatchDays) != len(before.MatchDays) {
		t.Errorf("stale refresh overwrote state: before %d match days, after %d",
			len(before.MatchDays), len(after.MatchDays))
	}
}

func TestSelectSwitchesMatchDays(t *testing.T) {
	stub := &stubUpstream{
		tournaments: []models.Tournament{{ID: 1}, {ID: 2}},
		matchDays: map[int64][]models.MatchDay{
			2: {{ID: 20}},
			1: {{ID: 30}, {ID: 31}},
		},
	}
	c := newTestContext(t, stub)

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := c.Select(context.Background(), 1); err != nil {
		t.Fatalf("select: %v", err)
	}

	state := c.Snapshot()
	if state.SelectedID != 1 {
		t.Errorf("expected tournament 1 selected, got %d", state.SelectedID)
	}
	if len(state.MatchDays) != 2 {
		t.Errorf("expected 2 match days, got %d", len(state.MatchDays))
	}
	if _, ok := state.MatchDay(20); ok {
		t.Error("match days of the previous tournament should be gone")
	}
}
