// internal/api/teams/admin.go
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
	"github.com/golazoapp/golazo/internal/api/htmx"
	"github.com/golazoapp/golazo/internal/models"
	"github.com/golazoapp/golazo/internal/templates/layouts"
	"github.com/golazoapp/golazo/internal/templates/views"
	"github.com/golazoapp/golazo/internal/upstream"
)

// GET /admin/equipos — the team roster manager: every team of the active
// tournament, including inactive and banned ones, plus the create form.
func HandleAdminTeams(w http.ResponseWriter, r *http.Request) {
	renderAdminTeams(w, r, "")
}

// POST /admin/equipos — create a team.
func HandleAdminCreateTeam(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	tournamentID := tournaments.SelectedID()
	if tournamentID == 0 {
		renderAdminTeams(w, r, "Selecciona un torneo antes de registrar equipos.")
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		renderAdminTeams(w, r, "El nombre del equipo es obligatorio.")
		return
	}

	payload := upstream.TeamPayload{
		TournamentID: tournamentID,
		Name:         name,
		ShortName:    strings.TrimSpace(r.FormValue("short_name")),
		Active:       true,
	}
	team, err := client.CreateTeam(r.Context(), payload)
	if err != nil {
		logger.Error().Err(err).Str("name", name).Msg("Failed to create team")
		if upstream.IsConflict(err) {
			renderAdminTeams(w, r, "Ya existe un equipo con ese nombre.")
			return
		}
		renderAdminTeams(w, r, "No se pudo registrar el equipo.")
		return
	}

	logger.Info().Int64("team_id", team.ID).Str("name", team.Name).Msg("Team created")
	htmx.Redirect(w, r, "/admin/equipos")
}

// POST /admin/equipos/{id} — update a team's name, status, or ban flag.
func HandleAdminUpdateTeam(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	teamID, err := apiutil.PathID(r, "/admin/equipos/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		renderAdminTeams(w, r, "El nombre del equipo es obligatorio.")
		return
	}

	payload := upstream.TeamPayload{
		TournamentID: tournaments.SelectedID(),
		Name:         name,
		ShortName:    strings.TrimSpace(r.FormValue("short_name")),
		Active:       r.FormValue("active") == "on",
		Banned:       r.FormValue("banned") == "on",
	}
	if _, err := client.UpdateTeam(r.Context(), teamID, payload); err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to update team")
		renderAdminTeams(w, r, "No se pudo actualizar el equipo.")
		return
	}

	logger.Info().Int64("team_id", teamID).Msg("Team updated")
	htmx.Redirect(w, r, "/admin/equipos")
}

// POST /admin/equipos/{id}/delete
func HandleAdminDeleteTeam(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	teamID, err := apiutil.PathID(r, "/admin/equipos/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := client.DeleteTeam(r.Context(), teamID); err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to delete team")
		if upstream.IsConflict(err) {
			renderAdminTeams(w, r, "El equipo tiene partidos registrados y no puede eliminarse.")
			return
		}
		renderAdminTeams(w, r, "No se pudo eliminar el equipo.")
		return
	}

	logger.Info().Int64("team_id", teamID).Msg("Team deleted")
	htmx.Redirect(w, r, "/admin/equipos")
}

func renderAdminTeams(w http.ResponseWriter, r *http.Request, errorMessage string) {
	tournamentID := tournaments.SelectedID()
	var list []models.Team
	if tournamentID != 0 {
		teams, err := client.ListTeams(r.Context(), tournamentID)
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to load teams")
			http.Error(w, "No se pudo cargar los equipos", http.StatusBadGateway)
			return
		}
		list = teams
	}

	page := layouts.Admin("Equipos - Admin", adminTeamsComponent(list, errorMessage))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render admin teams", "Failed to render page")
}

func adminTeamsComponent(teams []models.Team, errorMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		views.WriteAdminNav(&b, "equipos")
		b.WriteString(`<section class="admin-teams"><h1>Equipos</h1>`)
		views.WriteErrorBanner(&b, errorMessage)

		b.WriteString(`<form method="post" action="/admin/equipos" class="inline-form">` +
			`<input type="text" name="name" placeholder="Nombre del equipo" required>` +
			`<input type="text" name="short_name" placeholder="Abreviatura">` +
			`<button type="submit">Registrar equipo</button></form>`)

		if len(teams) == 0 {
			b.WriteString(`<p class="empty">No hay equipos registrados.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}

		// Row inputs belong to per-team forms declared after the table; a
		// form element cannot sit inside a table row.
		b.WriteString(`<table><thead><tr><th>Equipo</th><th>Abreviatura</th><th>Activo</th><th>Expulsado</th><th>Permisos</th><th></th></tr></thead><tbody>`)
		for _, t := range teams {
			formID := fmt.Sprintf("team-form-%d", t.ID)
			b.WriteString(`<tr>`)
			fmt.Fprintf(&b, `<td><input type="text" name="name" value="%s" form="%s" required></td>`, html.EscapeString(t.Name), formID)
			fmt.Fprintf(&b, `<td><input type="text" name="short_name" value="%s" form="%s"></td>`, html.EscapeString(t.ShortName), formID)
			fmt.Fprintf(&b, `<td><input type="checkbox" name="active" form="%s"%s></td>`, formID, checked(t.Active))
			fmt.Fprintf(&b, `<td><input type="checkbox" name="banned" form="%s"%s></td>`, formID, checked(t.Banned))
			fmt.Fprintf(&b, `<td>%d/%d</td>`, t.PermissionsUsed, models.MaxPermissionsPerTeam)
			fmt.Fprintf(&b, `<td><button type="submit" form="%s">Guardar</button> `, formID)
			fmt.Fprintf(&b, `<a href="/admin/equipos/%d/jugadores">Jugadores</a> `, t.ID)
			fmt.Fprintf(&b, `<button type="submit" form="team-delete-%d" class="danger">Eliminar</button></td>`, t.ID)
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</tbody></table>`)
		for _, t := range teams {
			fmt.Fprintf(&b, `<form id="team-form-%d" method="post" action="/admin/equipos/%d"></form>`, t.ID, t.ID)
			fmt.Fprintf(&b, `<form id="team-delete-%d" method="post" action="/admin/equipos/%d/delete" hx-post="/admin/equipos/%d/delete" hx-confirm="¿Eliminar el equipo %s?"></form>`,
				t.ID, t.ID, t.ID, html.EscapeString(t.Name))
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func checked(v bool) string {
	if v {
		return " checked"
	}
	return ""
}
