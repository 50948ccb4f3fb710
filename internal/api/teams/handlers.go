// internal/api/teams/handlers.go
package teams

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

// GET /equipos — the public team directory. Banned teams are shown with a
// badge rather than hidden; their history stays visible.
func HandleTeams(w http.ResponseWriter, r *http.Request) {
	tournamentID := tournaments.SelectedID()
	var list []models.Team
	if tournamentID != 0 {
		teams, err := client.ListTeams(r.Context(), tournamentID)
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Int64("tournament_id", tournamentID).Msg("Failed to load teams")
			http.Error(w, "No se pudo cargar el directorio de equipos", http.StatusBadGateway)
			return
		}
		list = teams
	}

	page := layouts.Public("Equipos - Golazo", teamListComponent(list))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render team list", "Failed to render page")
}

// GET /equipos/{id} — a team's page with its roster.
func HandleTeamDetail(w http.ResponseWriter, r *http.Request) {
	teamID, err := apiutil.PathID(r, "/equipos/")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	team, err := client.GetTeam(r.Context(), teamID)
	if err != nil {
		if upstream.StatusOf(err) == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("team_id", teamID).Msg("Failed to load team")
		http.Error(w, "No se pudo cargar el equipo", http.StatusBadGateway)
		return
	}

	roster, err := client.ListPlayers(r.Context(), teamID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("team_id", teamID).Msg("Failed to load roster")
		http.Error(w, "No se pudo cargar la plantilla", http.StatusBadGateway)
		return
	}

	page := layouts.Public(team.Name+" - Golazo", teamDetailComponent(team, roster))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render team page", "Failed to render page")
}

func teamListComponent(teams []models.Team) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="teams"><h1>Equipos</h1>`)
		if len(teams) == 0 {
			b.WriteString(`<p class="empty">No hay equipos registrados.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}
		b.WriteString(`<ul class="team-grid">`)
		for _, t := range teams {
			fmt.Fprintf(&b, `<li><a href="/equipos/%d">`, t.ID)
			if t.LogoURL != "" {
				fmt.Fprintf(&b, `<img src="%s" alt="" class="team-logo">`, html.EscapeString(t.LogoURL))
			}
			fmt.Fprintf(&b, `<span>%s</span>`, html.EscapeString(t.Name))
			writeTeamBadges(&b, t)
			b.WriteString(`</a></li>`)
		}
		b.WriteString(`</ul></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func teamDetailComponent(team models.Team, roster []models.Player) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="team-detail">`)
		fmt.Fprintf(&b, `<h1>%s`, html.EscapeString(team.Name))
		writeTeamBadges(&b, team)
		b.WriteString(`</h1>`)
		if team.ShortName != "" {
			fmt.Fprintf(&b, `<p class="short-name">%s</p>`, html.EscapeString(team.ShortName))
		}
		b.WriteString(`<h2>Plantilla</h2>`)
		if len(roster) == 0 {
			b.WriteString(`<p class="empty">Sin jugadores registrados.</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>#</th><th>Jugador</th><th>Posición</th></tr></thead><tbody>`)
			for _, p := range roster {
				fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td><td>%s</td></tr>`,
					p.Number, html.EscapeString(p.Name), html.EscapeString(p.Position))
			}
			b.WriteString(`</tbody></table>`)
		}
		b.WriteString(`<p><a href="/equipos">Volver a equipos</a></p></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeTeamBadges(b *strings.Builder, t models.Team) {
	if t.Banned {
		b.WriteString(` <span class="badge badge-banned">Expulsado</span>`)
	} else if !t.Active {
		b.WriteString(` <span class="badge badge-inactive">Inactivo</span>`)
	}
}
