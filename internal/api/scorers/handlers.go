// internal/api/scorers/handlers.go
package scorers

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

// GET /goleo — the top-scorers table, as aggregated upstream.
func HandleScorers(w http.ResponseWriter, r *http.Request) {
	tournamentID := tournaments.SelectedID()
	if tournamentID == 0 {
		page := layouts.Public("Goleo - Golazo", scorersComponent(nil))
		apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render scorers", "Failed to render page")
		return
	}

	table, err := client.Scorers(r.Context(), tournamentID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("tournament_id", tournamentID).Msg("Failed to load scorers")
		http.Error(w, "No se pudo cargar la tabla de goleo", http.StatusBadGateway)
		return
	}

	page := layouts.Public("Goleo - Golazo", scorersComponent(table))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render scorers", "Failed to render page")
}

func scorersComponent(table []models.Scorer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="scorers"><h1>Tabla de Goleo</h1>`)
		if len(table) == 0 {
			b.WriteString(`<p class="empty">Aún no hay goles registrados.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}
		b.WriteString(`<table><thead><tr><th>#</th><th>Jugador</th><th>Equipo</th><th>Goles</th></tr></thead><tbody>`)
		for _, row := range table {
			fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td><td>%s</td><td>%d</td></tr>`,
				row.Rank, html.EscapeString(row.PlayerName), html.EscapeString(row.TeamName), row.Goals)
		}
		b.WriteString(`</tbody></table></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
