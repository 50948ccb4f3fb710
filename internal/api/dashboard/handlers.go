// internal/api/dashboard/handlers.go
package dashboard

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/golazoapp/golazo/internal/api/apiutil"
	"github.com/golazoapp/golazo/internal/api/auth"
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

// GET /admin/dashboard — the admin landing page: the current jornada at a
// glance plus shortcuts into each manager.
func HandleDashboard(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	state := tournaments.Snapshot()
	if state.SelectedID == 0 {
		if err := tournaments.Initialize(r.Context()); err != nil {
			logger.Error().Err(err).Msg("Failed to load tournaments")
		}
		state = tournaments.Snapshot()
	}

	var (
		current models.MatchDay
		matches []models.Match
	)
	if day, ok := state.CurrentMatchDay(); ok {
		current = day
		list, err := client.ListMatches(r.Context(), day.ID)
		if err != nil {
			logger.Error().Err(err).Int64("match_day_id", day.ID).Msg("Failed to load matches")
		} else {
			matches = list
		}
	}

	username := ""
	if session, ok := auth.SessionFromContext(r.Context()); ok {
		username = session.Username
	}

	page := layouts.Admin("Admin - Golazo", dashboardComponent(username, state, current, matches))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render dashboard", "Failed to render page")
}

func dashboardComponent(username string, state league.TournamentState, current models.MatchDay, matches []models.Match) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		views.WriteAdminNav(&b, "dashboard")
		b.WriteString(`<section class="dashboard">`)
		if username != "" {
			fmt.Fprintf(&b, `<h1>Hola, %s</h1>`, html.EscapeString(username))
		} else {
			b.WriteString(`<h1>Panel de Administración</h1>`)
		}
		views.WriteTournamentSelector(&b, state.Tournaments, state.SelectedID, "/admin/dashboard")

		if current.ID != 0 {
			pending, played := 0, 0
			for _, m := range matches {
				if m.Status == models.StatusFinal {
					played++
				} else if m.Status == models.StatusScheduled || m.Status == models.StatusInProgress {
					pending++
				}
			}
			fmt.Fprintf(&b, `<div class="summary"><h2>%s</h2>`, html.EscapeString(current.Label))
			fmt.Fprintf(&b, `<p>%d partidos · %d jugados · %d pendientes</p>`, len(matches), played, pending)
			fmt.Fprintf(&b, `<p><a href="/admin/jornadas/%d/partidos">Administrar partidos</a> · `+
				`<a href="/admin/jornadas/%d/disponibilidad">Disponibilidad</a></p></div>`, current.ID, current.ID)
		} else {
			b.WriteString(`<p class="empty">No hay jornada actual. <a href="/admin/jornadas">Crea una jornada</a> para empezar.</p>`)
		}

		b.WriteString(`<div class="shortcuts">` +
			`<a href="/admin/jornadas">Jornadas</a>` +
			`<a href="/admin/equipos">Equipos</a>` +
			`<a href="/admin/permisos">Permisos</a>` +
			`<a href="/" target="_blank">Ver sitio público</a>` +
			`</div></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
