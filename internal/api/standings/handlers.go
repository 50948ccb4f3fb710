// internal/api/standings/handlers.go
package standings

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

// GET /posiciones — the standings table, as computed upstream.
func HandleStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID := tournaments.SelectedID()
	if tournamentID == 0 {
		page := layouts.Public("Posiciones - Golazo", emptyComponent())
		apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render standings", "Failed to render page")
		return
	}

	table, err := client.Standings(r.Context(), tournamentID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("tournament_id", tournamentID).Msg("Failed to load standings")
		http.Error(w, "No se pudo cargar la tabla de posiciones", http.StatusBadGateway)
		return
	}

	page := layouts.Public("Posiciones - Golazo", standingsComponent(table))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render standings", "Failed to render page")
}

func standingsComponent(table []models.Standing) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="standings"><h1>Tabla de Posiciones</h1>`)
		if len(table) == 0 {
			b.WriteString(`<p class="empty">Aún no hay resultados registrados.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}
		b.WriteString(`<table><thead><tr>` +
			`<th>#</th><th>Equipo</th><th>JJ</th><th>JG</th><th>JE</th><th>JP</th>` +
			`<th>GF</th><th>GC</th><th>DG</th><th>Pts</th>` +
			`</tr></thead><tbody>`)
		for _, row := range table {
			fmt.Fprintf(&b, `<tr><td>%d</td><td><a href="/equipos/%d">%s</a></td>`,
				row.Position, row.TeamID, html.EscapeString(row.TeamName))
			fmt.Fprintf(&b, `<td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%+d</td><td>%d</td></tr>`,
				row.Played, row.Won, row.Drawn, row.Lost, row.GoalsFor, row.GoalsAgainst, row.GoalDiff, row.Points)
		}
		b.WriteString(`</tbody></table></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func emptyComponent() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="standings"><h1>Tabla de Posiciones</h1><p class="empty">No hay torneos disponibles todavía.</p></section>`)
		return err
	})
}
