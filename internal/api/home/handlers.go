// internal/api/home/handlers.go
package home

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

// homeData is the landing-page content: the current jornada's matches plus
// the top of the standings and scorers tables.
type homeData struct {
	state     league.TournamentState
	current   models.MatchDay
	matches   []models.Match
	standings []models.Standing
	scorers   []models.Scorer
}

const homeCardRows = 5

// GET / — the landing page. The three blocks load in parallel; a failed
// block renders as its empty state rather than failing the page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	state := tournaments.Snapshot()
	if state.SelectedID == 0 {
		// Upstream may have been unreachable at startup; retry lazily.
		if err := tournaments.Initialize(r.Context()); err != nil {
			logger.Error().Err(err).Msg("Failed to load tournaments")
		}
		state = tournaments.Snapshot()
	}

	data := homeData{state: state}
	if state.SelectedID != 0 {
		g, gctx := errgroup.WithContext(r.Context())
		if day, ok := state.CurrentMatchDay(); ok {
			data.current = day
			g.Go(func() error {
				list, err := client.ListMatches(gctx, day.ID)
				if err != nil {
					logger.Error().Err(err).Int64("match_day_id", day.ID).Msg("Failed to load matches")
					return nil
				}
				data.matches = league.SortMatches(list)
				return nil
			})
		}
		g.Go(func() error {
			table, err := client.Standings(gctx, state.SelectedID)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to load standings card")
				return nil
			}
			data.standings = table
			return nil
		})
		g.Go(func() error {
			table, err := client.Scorers(gctx, state.SelectedID)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to load scorers card")
				return nil
			}
			data.scorers = table
			return nil
		})
		g.Wait()
	}

	page := layouts.Public("Golazo", homeComponent(data))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render home page", "Failed to render page")
}

func homeComponent(data homeData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="home">`)
		if name, ok := selectedName(data.state); ok {
			fmt.Fprintf(&b, `<h1>%s</h1>`, html.EscapeString(name))
		} else {
			b.WriteString(`<h1>Golazo</h1><p class="empty">No hay torneos disponibles todavía.</p>`)
		}
		views.WriteTournamentSelector(&b, data.state.Tournaments, data.state.SelectedID, "/")

		if data.current.ID != 0 {
			fmt.Fprintf(&b, `<h2>%s <small>%s — %s</small></h2>`,
				html.EscapeString(data.current.Label),
				html.EscapeString(data.current.StartDate.String()),
				html.EscapeString(data.current.EndDate.String()))
			views.WriteMatchTable(&b, data.matches)
			fmt.Fprintf(&b, `<p><a href="/jornadas/%d">Ver jornada completa</a></p>`, data.current.ID)
		}

		writeStandingsCard(&b, data.standings)
		writeScorersCard(&b, data.scorers)

		b.WriteString(`<div class="home-links">` +
			`<a href="/jornadas">Jornadas</a>` +
			`<a href="/equipos">Equipos</a>` +
			`</div></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeStandingsCard(b *strings.Builder, table []models.Standing) {
	if len(table) == 0 {
		return
	}
	b.WriteString(`<div class="card"><h2>Posiciones</h2><table><tbody>`)
	for i, row := range table {
		if i == homeCardRows {
			break
		}
		fmt.Fprintf(b, `<tr><td>%d</td><td>%s</td><td>%d pts</td></tr>`,
			row.Position, html.EscapeString(row.TeamName), row.Points)
	}
	b.WriteString(`</tbody></table><a href="/posiciones">Tabla completa</a></div>`)
}

func writeScorersCard(b *strings.Builder, table []models.Scorer) {
	if len(table) == 0 {
		return
	}
	b.WriteString(`<div class="card"><h2>Goleo</h2><table><tbody>`)
	for i, row := range table {
		if i == homeCardRows {
			break
		}
		fmt.Fprintf(b, `<tr><td>%d</td><td>%s</td><td>%d</td></tr>`,
			row.Rank, html.EscapeString(row.PlayerName), row.Goals)
	}
	b.WriteString(`</tbody></table><a href="/goleo">Tabla completa</a></div>`)
}

func selectedName(state league.TournamentState) (string, bool) {
	for _, t := range state.Tournaments {
		if t.ID == state.SelectedID {
			name := t.Name
			if t.Season != "" {
				name = fmt.Sprintf("%s %s", t.Name, t.Season)
			}
			return name, true
		}
	}
	return "", false
}
