package league

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/golazoapp/golazo/internal/models"
	"github.com/golazoapp/golazo/internal/upstream"
)

// TournamentState is a point-in-time snapshot of the shared tournament
// selection: the known tournaments (newest first), the active tournament,
// its match-days, and the derived current match-day.
type TournamentState struct {
	Tournaments       []models.Tournament
	SelectedID        int64
	MatchDays         []models.MatchDay
	CurrentMatchDayID int64
}

// MatchDay looks up a match-day of the snapshot by id.
func (s TournamentState) MatchDay(id int64) (models.MatchDay, bool) {
	for _, day := range s.MatchDays {
		if day.ID == id {
			return day, true
		}
	}
	return models.MatchDay{}, false
}

// CurrentMatchDay returns the snapshot's derived current match-day.
func (s TournamentState) CurrentMatchDay() (models.MatchDay, bool) {
	return s.MatchDay(s.CurrentMatchDayID)
}

// Context owns the tournament selection shared by every page. Refreshes are
// keyed by a generation counter: a response whose originating selection is no
// longer current is discarded instead of overwriting fresher data.
type Context struct {
	client *upstream.Client
	today  func() models.Date

	mu    sync.RWMutex
	state TournamentState
	gen   uint64
}

func NewContext(client *upstream.Client) *Context {
	return &Context{
		client: client,
		today:  models.Today,
	}
}

// Initialize loads the tournament list, sorts it newest first, keeps the
// previously selected tournament when it still exists (else picks the
// newest), and loads that tournament's match-days.
func (c *Context) Initialize(ctx context.Context) error {
	tournaments, err := c.client.ListTournaments(ctx)
	if err != nil {
		return err
	}
	sort.Slice(tournaments, func(i, j int) bool {
		return tournaments[i].ID > tournaments[j].ID
	})

	c.mu.Lock()
	c.state.Tournaments = tournaments
	selected := c.state.SelectedID
	if !tournamentExists(tournaments, selected) {
		selected = 0
		if len(tournaments) > 0 {
			selected = tournaments[0].ID
		}
	}
	c.state.SelectedID = selected
	c.mu.Unlock()

	if selected == 0 {
		return nil
	}
	return c.Refresh(ctx)
}

// Select switches the active tournament and reloads its match-days. A no-op
// when id is already selected.
func (c *Context) Select(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.state.SelectedID == id {
		c.mu.Unlock()
		return nil
	}
	c.state.SelectedID = id
	c.state.MatchDays = nil
	c.state.CurrentMatchDayID = 0
	c.gen++
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh re-fetches the active tournament's match-days and re-derives the
// current one. Components call it after mutating match-days. If the
// selection changes while the fetch is in flight, the stale response is
// dropped.
func (c *Context) Refresh(ctx context.Context) error {
	c.mu.RLock()
	id := c.state.SelectedID
	gen := c.gen
	c.mu.RUnlock()

	if id == 0 {
		return nil
	}

	days, err := c.client.ListMatchDays(ctx, id)
	if err != nil {
		return err
	}

	currentID := int64(0)
	if current, ok := CurrentMatchDay(c.today(), days); ok {
		currentID = current.ID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.state.SelectedID != id {
		log.Ctx(ctx).Debug().Int64("tournament_id", id).Msg("Discarding stale match-day refresh")
		return nil
	}
	c.state.MatchDays = days
	c.state.CurrentMatchDayID = currentID
	return nil
}

// Snapshot returns a copy of the current state safe to read without locks.
func (c *Context) Snapshot() TournamentState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state := c.state
	state.Tournaments = append([]models.Tournament(nil), c.state.Tournaments...)
	state.MatchDays = append([]models.MatchDay(nil), c.state.MatchDays...)
	return state
}

// SelectedID returns the active tournament id, 0 when none is known yet.
func (c *Context) SelectedID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.SelectedID
}

func tournamentExists(tournaments []models.Tournament, id int64) bool {
	if id == 0 {
		return false
	}
	for _, t := range tournaments {
		if t.ID == id {
			return true
		}
	}
	return false
}
