// internal/api/matchdays/admin.go
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
	"github.com/golazoapp/golazo/internal/api/htmx"
	"github.com/golazoapp/golazo/internal/league"
	"github.com/golazoapp/golazo/internal/models"
	"github.com/golazoapp/golazo/internal/templates/layouts"
	"github.com/golazoapp/golazo/internal/templates/views"
	"github.com/golazoapp/golazo/internal/upstream"
)

// GET /admin/jornadas — the match-day manager: existing jornadas with links
// to their scheduling pages, plus the creation form.
func HandleAdminMatchDays(w http.ResponseWriter, r *http.Request) {
	renderAdminMatchDays(w, r, "")
}

// POST /admin/jornadas — create a match-day. The upstream rejects
// overlapping date ranges; some deployments answer 409, older ones 500, so
// both map to the duplicate message.
func HandleAdminCreateMatchDay(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	tournamentID := tournaments.SelectedID()
	if tournamentID == 0 {
		renderAdminMatchDays(w, r, "Selecciona un torneo antes de crear jornadas.")
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	label := strings.TrimSpace(r.FormValue("label"))
	startDate, startErr := models.ParseDate(r.FormValue("start_date"))
	endDate, endErr := models.ParseDate(r.FormValue("end_date"))
	switch {
	case label == "":
		renderAdminMatchDays(w, r, "El nombre de la jornada es obligatorio.")
		return
	case startErr != nil || endErr != nil:
		renderAdminMatchDays(w, r, "Las fechas de inicio y fin son obligatorias.")
		return
	case endDate.Before(startDate):
		renderAdminMatchDays(w, r, "La fecha de fin no puede ser anterior a la de inicio.")
		return
	}

	payload := upstream.MatchDayPayload{
		TournamentID: tournamentID,
		Label:        label,
		StartDate:    startDate,
		EndDate:      endDate,
	}
	day, err := client.CreateMatchDay(r.Context(), payload)
	if err != nil {
		logger.Error().Err(err).Str("label", label).Msg("Failed to create match day")
		if upstream.IsConflict(err) {
			renderAdminMatchDays(w, r, "Ya existe una jornada con esas fechas.")
			return
		}
		renderAdminMatchDays(w, r, "No se pudo crear la jornada.")
		return
	}

	if err := tournaments.Refresh(r.Context()); err != nil {
		logger.Error().Err(err).Msg("Failed to refresh match-days after create")
	}

	logger.Info().Int64("match_day_id", day.ID).Str("label", day.Label).Msg("Match day created")
	htmx.Redirect(w, r, fmt.Sprintf("/admin/jornadas/%d/partidos", day.ID))
}

func renderAdminMatchDays(w http.ResponseWriter, r *http.Request, errorMessage string) {
	state := tournaments.Snapshot()
	page := layouts.Admin("Jornadas - Admin", adminMatchDaysComponent(state, errorMessage))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render admin match-days", "Failed to render page")
}

func adminMatchDaysComponent(state league.TournamentState, errorMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		views.WriteAdminNav(&b, "jornadas")
		b.WriteString(`<section class="admin-matchdays"><h1>Jornadas</h1>`)
		views.WriteTournamentSelector(&b, state.Tournaments, state.SelectedID, "/admin/jornadas")
		views.WriteErrorBanner(&b, errorMessage)

		b.WriteString(`<form method="post" action="/admin/jornadas" class="inline-form">` +
			`<input type="text" name="label" placeholder="Jornada 1" required>` +
			`<label>Inicio<input type="date" name="start_date" required></label>` +
			`<label>Fin<input type="date" name="end_date" required></label>` +
			`<button type="submit">Crear jornada</button></form>`)

		if len(state.MatchDays) == 0 {
			b.WriteString(`<p class="empty">No hay jornadas registradas.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}

		b.WriteString(`<table><thead><tr><th>Jornada</th><th>Inicio</th><th>Fin</th><th></th></tr></thead><tbody>`)
		for _, day := range state.MatchDays {
			label := html.EscapeString(day.Label)
			if day.ID == state.CurrentMatchDayID {
				label += ` <span class="badge">Actual</span>`
			}
			fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td>`,
				label, html.EscapeString(day.StartDate.String()), html.EscapeString(day.EndDate.String()))
			fmt.Fprintf(&b, `<td><a href="/admin/jornadas/%d/partidos">Partidos</a> `+
				`<a href="/admin/jornadas/%d/disponibilidad">Disponibilidad</a></td></tr>`, day.ID, day.ID)
		}
		b.WriteString(`</tbody></table></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
