// internal/api/players/handlers.go
package players

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
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

var client *upstream.Client

func InitHandlers(c *upstream.Client) {
	client = c
}

// GET /admin/equipos/{id}/jugadores — the roster editor for one team.
func HandleAdminRoster(w http.ResponseWriter, r *http.Request) {
	teamID, err := apiutil.PathID(r, "/admin/equipos/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	renderRoster(w, r, teamID, "")
}

// POST /admin/equipos/{id}/jugadores — add a player to the roster.
func HandleAdminCreatePlayer(w http.ResponseWriter, r *http.Request) {
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

	payload, err := playerPayloadFromForm(r, teamID)
	if err != nil {
		renderRoster(w, r, teamID, err.Error())
		return
	}

	player, err := client.CreatePlayer(r.Context(), payload)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to create player")
		if upstream.IsConflict(err) {
			renderRoster(w, r, teamID, "Ese número de camiseta ya está ocupado.")
			return
		}
		renderRoster(w, r, teamID, "No se pudo registrar al jugador.")
		return
	}

	logger.Info().Int64("player_id", player.ID).Int64("team_id", teamID).Msg("Player created")
	htmx.Redirect(w, r, rosterPath(teamID))
}

// POST /admin/jugadores/{id} — update a roster entry.
func HandleAdminUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	playerID, err := apiutil.PathID(r, "/admin/jugadores/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	teamID, err := apiutil.FormID(r, "team_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payload, err := playerPayloadFromForm(r, teamID)
	if err != nil {
		renderRoster(w, r, teamID, err.Error())
		return
	}

	if _, err := client.UpdatePlayer(r.Context(), playerID, payload); err != nil {
		logger.Error().Err(err).Int64("player_id", playerID).Msg("Failed to update player")
		renderRoster(w, r, teamID, "No se pudo actualizar al jugador.")
		return
	}

	logger.Info().Int64("player_id", playerID).Msg("Player updated")
	htmx.Redirect(w, r, rosterPath(teamID))
}

// POST /admin/jugadores/{id}/delete
func HandleAdminDeletePlayer(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	playerID, err := apiutil.PathID(r, "/admin/jugadores/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	teamID, err := apiutil.FormID(r, "team_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := client.DeletePlayer(r.Context(), playerID); err != nil {
		logger.Error().Err(err).Int64("player_id", playerID).Msg("Failed to delete player")
		if upstream.IsConflict(err) {
			renderRoster(w, r, teamID, "El jugador tiene goles registrados y no puede eliminarse.")
			return
		}
		renderRoster(w, r, teamID, "No se pudo eliminar al jugador.")
		return
	}

	logger.Info().Int64("player_id", playerID).Msg("Player deleted")
	htmx.Redirect(w, r, rosterPath(teamID))
}

func playerPayloadFromForm(r *http.Request, teamID int64) (upstream.PlayerPayload, error) {
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		return upstream.PlayerPayload{}, fmt.Errorf("el nombre del jugador es obligatorio")
	}
	number, err := strconv.Atoi(strings.TrimSpace(r.FormValue("number")))
	if err != nil || number < 0 {
		return upstream.PlayerPayload{}, fmt.Errorf("el número de camiseta no es válido")
	}
	return upstream.PlayerPayload{
		TeamID:   teamID,
		Name:     name,
		Number:   number,
		Position: strings.TrimSpace(r.FormValue("position")),
	}, nil
}

func rosterPath(teamID int64) string {
	return fmt.Sprintf("/admin/equipos/%d/jugadores", teamID)
}

func renderRoster(w http.ResponseWriter, r *http.Request, teamID int64, errorMessage string) {
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

	page := layouts.Admin("Jugadores - Admin", rosterComponent(team, roster, errorMessage))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render roster", "Failed to render page")
}

func rosterComponent(team models.Team, roster []models.Player, errorMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		views.WriteAdminNav(&b, "equipos")
		fmt.Fprintf(&b, `<section class="admin-roster"><h1>Plantilla de %s</h1>`, html.EscapeString(team.Name))
		views.WriteErrorBanner(&b, errorMessage)

		fmt.Fprintf(&b, `<form method="post" action="%s" class="inline-form">`, rosterPath(team.ID))
		b.WriteString(`<input type="text" name="name" placeholder="Nombre" required>` +
			`<input type="number" name="number" placeholder="#" min="0" required>` +
			`<input type="text" name="position" placeholder="Posición">` +
			`<button type="submit">Agregar jugador</button></form>`)

		if len(roster) == 0 {
			b.WriteString(`<p class="empty">Sin jugadores registrados.</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>#</th><th>Jugador</th><th>Posición</th><th></th></tr></thead><tbody>`)
			for _, p := range roster {
				formID := fmt.Sprintf("player-form-%d", p.ID)
				b.WriteString(`<tr>`)
				fmt.Fprintf(&b, `<td><input type="number" name="number" value="%d" min="0" form="%s" required></td>`, p.Number, formID)
				fmt.Fprintf(&b, `<td><input type="text" name="name" value="%s" form="%s" required></td>`, html.EscapeString(p.Name), formID)
				fmt.Fprintf(&b, `<td><input type="text" name="position" value="%s" form="%s"></td>`, html.EscapeString(p.Position), formID)
				fmt.Fprintf(&b, `<td><button type="submit" form="%s">Guardar</button> `, formID)
				fmt.Fprintf(&b, `<button type="submit" form="player-delete-%d" class="danger">Eliminar</button></td>`, p.ID)
				b.WriteString(`</tr>`)
			}
			b.WriteString(`</tbody></table>`)
			for _, p := range roster {
				fmt.Fprintf(&b, `<form id="player-form-%d" method="post" action="/admin/jugadores/%d">`+
					`<input type="hidden" name="team_id" value="%d"></form>`, p.ID, p.ID, team.ID)
				fmt.Fprintf(&b, `<form id="player-delete-%d" method="post" action="/admin/jugadores/%d/delete" hx-post="/admin/jugadores/%d/delete" hx-confirm="¿Eliminar a %s?">`+
					`<input type="hidden" name="team_id" value="%d"></form>`,
					p.ID, p.ID, p.ID, html.EscapeString(p.Name), team.ID)
			}
		}
		fmt.Fprintf(&b, `<p><a href="/admin/equipos">Volver a equipos</a></p></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
