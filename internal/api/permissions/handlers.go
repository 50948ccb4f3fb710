// internal/api/permissions/handlers.go
package permissions

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
	"github.com/golazoapp/golazo/internal/api/htmx"
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

// GET /admin/permisos — absence permissions. The 0-2 per-team cap is
// enforced upstream; this page only displays each team's usage.
func HandleAdminPermissions(w http.ResponseWriter, r *http.Request) {
	renderPermissions(w, r, "")
}

// POST /admin/permisos — justify a team's absence on a match-day.
func HandleAdminCreatePermission(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	teamID, teamErr := apiutil.FormID(r, "team_id")
	dayID, dayErr := apiutil.FormID(r, "match_day_id")
	if teamErr != nil || dayErr != nil {
		renderPermissions(w, r, "Elige el equipo y la jornada.")
		return
	}
	reason := strings.TrimSpace(r.FormValue("reason"))
	if reason == "" {
		renderPermissions(w, r, "El motivo es obligatorio.")
		return
	}

	payload := upstream.PermissionPayload{
		TeamID:     teamID,
		MatchDayID: dayID,
		Reason:     reason,
	}
	permission, err := client.CreatePermission(r.Context(), payload)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Int64("match_day_id", dayID).Msg("Failed to create permission")
		if upstream.IsConflict(err) {
			renderPermissions(w, r, fmt.Sprintf("El equipo ya agotó sus %d permisos de la temporada.", models.MaxPermissionsPerTeam))
			return
		}
		renderPermissions(w, r, "No se pudo registrar el permiso.")
		return
	}

	logger.Info().Int64("permission_id", permission.ID).Int64("team_id", teamID).Msg("Permission created")
	htmx.Redirect(w, r, "/admin/permisos")
}

// POST /admin/permisos/{id}/delete — revoke a permission, freeing the slot
// in the team's seasonal count.
func HandleAdminDeletePermission(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	permissionID, err := apiutil.PathID(r, "/admin/permisos/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := client.DeletePermission(r.Context(), permissionID); err != nil {
		logger.Error().Err(err).Int64("permission_id", permissionID).Msg("Failed to delete permission")
		renderPermissions(w, r, "No se pudo eliminar el permiso.")
		return
	}

	logger.Info().Int64("permission_id", permissionID).Msg("Permission deleted")
	htmx.Redirect(w, r, "/admin/permisos")
}

func renderPermissions(w http.ResponseWriter, r *http.Request, errorMessage string) {
	state := tournaments.Snapshot()

	var (
		permissions []models.Permission
		teams       []models.Team
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		list, err := client.ListPermissions(gctx)
		if err != nil {
			return err
		}
		permissions = list
		return nil
	})
	if state.SelectedID != 0 {
		g.Go(func() error {
			list, err := client.ListTeams(gctx, state.SelectedID)
			if err != nil {
				return err
			}
			teams = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to load permissions")
		http.Error(w, "No se pudo cargar los permisos", http.StatusBadGateway)
		return
	}

	page := layouts.Admin("Permisos - Admin", permissionsComponent(state, permissions, teams, errorMessage))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render permissions", "Failed to render page")
}

func permissionsComponent(state league.TournamentState, permissions []models.Permission, teams []models.Team, errorMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		views.WriteAdminNav(&b, "permisos")
		b.WriteString(`<section class="admin-permissions"><h1>Permisos</h1>`)
		views.WriteErrorBanner(&b, errorMessage)

		b.WriteString(`<form method="post" action="/admin/permisos" class="inline-form">` +
			`<select name="team_id" required><option value="">-- Equipo --</option>`)
		for _, t := range teams {
			warn := ""
			if t.PermissionsUsed >= models.MaxPermissionsPerTeam {
				warn = " (sin permisos restantes)"
			}
			fmt.Fprintf(&b, `<option value="%d">%s — %d/%d%s</option>`,
				t.ID, html.EscapeString(t.Name), t.PermissionsUsed, models.MaxPermissionsPerTeam, warn)
		}
		b.WriteString(`</select><select name="match_day_id" required><option value="">-- Jornada --</option>`)
		for _, day := range state.MatchDays {
			fmt.Fprintf(&b, `<option value="%d">%s</option>`, day.ID, html.EscapeString(day.Label))
		}
		b.WriteString(`</select>` +
			`<input type="text" name="reason" placeholder="Motivo" required>` +
			`<button type="submit">Registrar permiso</button></form>`)

		if len(permissions) == 0 {
			b.WriteString(`<p class="empty">No hay permisos registrados.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}

		b.WriteString(`<table><thead><tr><th>Equipo</th><th>Jornada</th><th>Motivo</th><th>Registrado</th><th></th></tr></thead><tbody>`)
		for _, p := range permissions {
			fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td>`,
				html.EscapeString(p.Team.Name), html.EscapeString(p.MatchDay.Name),
				html.EscapeString(p.Reason), html.EscapeString(p.CreatedAt.Format("2006-01-02")))
			fmt.Fprintf(&b, `<td><button type="submit" form="permission-delete-%d" class="danger">Eliminar</button></td></tr>`, p.ID)
		}
		b.WriteString(`</tbody></table>`)
		for _, p := range permissions {
			fmt.Fprintf(&b, `<form id="permission-delete-%d" method="post" action="/admin/permisos/%d/delete" hx-post="/admin/permisos/%d/delete" hx-confirm="¿Eliminar el permiso de %s?"></form>`,
				p.ID, p.ID, p.ID, html.EscapeString(p.Team.Name))
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
