// internal/api/matchdays/handlers.go
package matchdays

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/golazoapp/golazo/internal/api/apiutil"
	"github.com/golazoapp/golazo/internal/league"
	"github.com/golazoapp/golazo/internal/models"
	"github.com/golazoapp/golazo/internal/templates/layouts"
	"github.com/golazoapp/golazo/internal/templates/views"
	"github.com/golazoapp/golazo/internal/upstream"
)

var (
	client      *upstream.Client
	tournaments *league.Context
)

func InitHandlers(c *upstream.Client, t *league.Context) {
	client = c
	tournaments = t
}

// GET /jornadas — every match-day of the active tournament, current one
// highlighted.
func HandleMatchDays(w http.ResponseWriter, r *http.Request) {
	state := tournaments.Snapshot()
	page := layouts.Public("Jornadas - Golazo", matchDayListComponent(state))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render match-day list", "Failed to render page")
}

// GET /jornadas/{id} — one match-day: its matches in calendar order plus the
// teams resting that round. Matches and teams load in parallel.
func HandleMatchDayDetail(w http.ResponseWriter, r *http.Request) {
	dayID, err := apiutil.PathID(r, "/jornadas/")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	state := tournaments.Snapshot()
	day, ok := state.MatchDay(dayID)
	if !ok {
		// The snapshot may be stale; reload once before giving up.
		if err := tournaments.Refresh(r.Context()); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to refresh match-days")
		}
		state = tournaments.Snapshot()
		if day, ok = state.MatchDay(dayID); !ok {
			http.NotFound(w, r)
			return
		}
	}

	var (
		matches []models.Match
		teams   []models.Team
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		list, err := client.ListMatches(gctx, dayID)
		if err != nil {
			return err
		}
		matches = list
		return nil
	})
	g.Go(func() error {
		list, err := client.ListTeams(gctx, state.SelectedID)
		if err != nil {
			return err
		}
		teams = list
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("match_day_id", dayID).Msg("Failed to load match-day detail")
		http.Error(w, "No se pudo cargar la jornada", http.StatusBadGateway)
		return
	}

	resting := league.RestingTeams(teams, matches)
	page := layouts.Public(day.Label+" - Golazo", matchDayDetailComponent(day, league.SortMatches(matches), resting))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render match-day", "Failed to render page")
}

func matchDayListComponent(state league.TournamentState) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="matchdays"><h1>Jornadas</h1>`)
		views.WriteTournamentSelector(&b, state.Tournaments, state.SelectedID, "/jornadas")
		if len(state.MatchDays) == 0 {
			b.WriteString(`<p class="empty">No hay jornadas registradas.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}
		b.WriteString(`<ul class="matchday-list">`)
		for _, day := range state.MatchDays {
			class := ""
			if day.ID == state.CurrentMatchDayID {
				class = ` class="current"`
			}
			fmt.Fprintf(&b, `<li%s><a href="/jornadas/%d">%s</a> <span class="range">%s — %s</span></li>`,
				class, day.ID, html.EscapeString(day.Label),
				html.EscapeString(day.StartDate.String()), html.EscapeString(day.EndDate.String()))
		}
		b.WriteString(`</ul></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func matchDayDetailComponent(day models.MatchDay, matches []models.Match, resting []models.Team) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<section class="matchday-detail"><h1>%s</h1>`, html.EscapeString(day.Label))
		fmt.Fprintf(&b, `<p class="range">%s — %s</p>`,
			html.EscapeString(day.StartDate.String()), html.EscapeString(day.EndDate.String()))
		views.WriteMatchTable(&b, matches)
		if len(resting) > 0 {
			b.WriteString(`<h2>Descansan</h2><ul class="resting">`)
			for _, t := range resting {
				fmt.Fprintf(&b, `<li><a href="/equipos/%d">%s</a></li>`, t.ID, html.EscapeString(t.Name))
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`<p><a href="/jornadas">Volver a jornadas</a></p></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
