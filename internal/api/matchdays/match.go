// internal/api/matchdays/match.go
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

	"github.com/golazoapp/golazo/internal/api/apiutil"
	"github.com/golazoapp/golazo/internal/league"
	"github.com/golazoapp/golazo/internal/models"
	"github.com/golazoapp/golazo/internal/templates/layouts"
	"github.com/golazoapp/golazo/internal/templates/views"
	"github.com/golazoapp/golazo/internal/upstream"
)

// GET /partidos/{id} — a single match with its goal timeline. The score
// shown is re-derived from the goals when any exist; the stored pair is
// only a cache.
func HandleMatchDetail(w http.ResponseWriter, r *http.Request) {
	matchID, err := apiutil.PathID(r, "/partidos/")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	match, err := client.GetMatch(r.Context(), matchID)
	if err != nil {
		if upstream.StatusOf(err) == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("match_id", matchID).Msg("Failed to load match")
		http.Error(w, "No se pudo cargar el partido", http.StatusBadGateway)
		return
	}

	goals, err := client.ListGoals(r.Context(), matchID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("match_id", matchID).Msg("Failed to load goals")
		http.Error(w, "No se pudo cargar el partido", http.StatusBadGateway)
		return
	}

	title := fmt.Sprintf("%s vs %s - Golazo", match.HomeTeam.Name, match.AwayTeam.Name)
	page := layouts.Public(title, matchDetailComponent(match, goals))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render match page", "Failed to render page")
}

func matchDetailComponent(match models.Match, goals []models.Goal) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		home, away := match.HomeScore, match.AwayScore
		if len(goals) > 0 {
			home, away = league.DeriveScore(match, goals)
		}

		b.WriteString(`<section class="match-detail">`)
		fmt.Fprintf(&b, `<h1><a href="/equipos/%d">%s</a> <span class="score">%d - %d</span> <a href="/equipos/%d">%s</a></h1>`,
			match.HomeTeam.ID, html.EscapeString(match.HomeTeam.Name), home, away,
			match.AwayTeam.ID, html.EscapeString(match.AwayTeam.Name))
		fmt.Fprintf(&b, `<p>%s %s · %s · <span class="status">%s</span></p>`,
			html.EscapeString(match.Date.String()), html.EscapeString(match.ScheduledTime),
			html.EscapeString(match.Venue), html.EscapeString(views.StatusLabel(match.Status)))

		if len(goals) == 0 {
			b.WriteString(`<p class="empty">Sin goles registrados.</p>`)
		} else {
			b.WriteString(`<h2>Goles</h2><ul class="timeline">`)
			for _, g := range goals {
				fmt.Fprintf(&b, `<li><span class="minute">%d'</span> %s <small>(%s)</small></li>`,
					g.Minute, html.EscapeString(g.Player.Name), html.EscapeString(g.Team.Name))
			}
			b.WriteString(`</ul>`)
		}

		if !match.MatchDay.IsZero() {
			fmt.Fprintf(&b, `<p><a href="/jornadas/%d">Volver a la jornada</a></p>`, match.MatchDay.ID)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
