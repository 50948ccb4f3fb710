// internal/api/results/handlers.go
//
// Result capture. The goals list is the source of truth for the score; the
// stored homeScore/awayScore pair is a cached copy refreshed after every
// goal change. A manual override path exists for matches recorded on paper.
package results

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
	"golang.org/x/sync/errgroup"

	"github.com/golazoapp/golazo/internal/api/apiutil"
	"github.com/golazoapp/golazo/internal/api/htmx"
	"github.com/golazoapp/golazo/internal/league"
	"github.com/golazoapp/golazo/internal/models"
	"github.com/golazoapp/golazo/internal/templates/layouts"
	"github.com/golazoapp/golazo/internal/templates/views"
	"github.com/golazoapp/golazo/internal/upstream"
)

var client *upstream.Client

func InitHandlers(c *upstream.Client) {
	client = c
}

// resultData is everything the result page needs, fetched in parallel once
// the match itself is known.
type resultData struct {
	match      models.Match
	goals      []models.Goal
	homeRoster []models.Player
	awayRoster []models.Player
}

func loadResultData(ctx context.Context, matchID int64) (resultData, error) {
	match, err := client.GetMatch(ctx, matchID)
	if err != nil {
		return resultData{}, err
	}

	data := resultData{match: match}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		goals, err := client.ListGoals(gctx, matchID)
		if err != nil {
			return fmt.Errorf("goals: %w", err)
		}
		data.goals = goals
		return nil
	})
	g.Go(func() error {
		roster, err := client.ListPlayers(gctx, match.HomeTeam.ID)
		if err != nil {
			return fmt.Errorf("home roster: %w", err)
		}
		data.homeRoster = roster
		return nil
	})
	g.Go(func() error {
		roster, err := client.ListPlayers(gctx, match.AwayTeam.ID)
		if err != nil {
			return fmt.Errorf("away roster: %w", err)
		}
		data.awayRoster = roster
		return nil
	})
	if err := g.Wait(); err != nil {
		return resultData{}, err
	}
	return data, nil
}

// GET /admin/partidos/{id}/resultado
func HandleAdminResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := apiutil.PathID(r, "/admin/partidos/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	renderResult(w, r, matchID, "")
}

// POST /admin/partidos/{id}/goles — record a goal and refresh the cached
// score. A first goal on a SCHEDULED match moves it to IN_PROGRESS.
func HandleAdminAddGoal(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.PathID(r, "/admin/partidos/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	teamID, playerID, err := parseScorer(r.FormValue("scorer"))
	if err != nil {
		renderResult(w, r, matchID, "Elige al jugador que anotó.")
		return
	}
	minute, err := strconv.Atoi(strings.TrimSpace(r.FormValue("minute")))
	if err != nil || minute < 0 {
		renderResult(w, r, matchID, "El minuto no es válido.")
		return
	}

	match, err := client.GetMatch(r.Context(), matchID)
	if err != nil {
		renderLoadError(w, r, matchID, err)
		return
	}
	if match.Status.Terminal() {
		renderResult(w, r, matchID, "El partido ya está cerrado; no se pueden capturar goles.")
		return
	}
	if !match.Involves(teamID) {
		renderResult(w, r, matchID, "El jugador no pertenece a ninguno de los dos equipos.")
		return
	}

	payload := upstream.GoalPayload{
		MatchID:  matchID,
		TeamID:   teamID,
		PlayerID: playerID,
		Minute:   minute,
	}
	if _, err := client.CreateGoal(r.Context(), payload); err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to record goal")
		renderResult(w, r, matchID, "No se pudo registrar el gol.")
		return
	}

	if err := syncScore(r.Context(), match); err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to refresh cached score")
	}

	logger.Info().Int64("match_id", matchID).Int64("player_id", playerID).Int("minute", minute).Msg("Goal recorded")
	htmx.Redirect(w, r, resultPath(matchID))
}

// POST /admin/goles/{id}/delete — remove a wrongly captured goal and refresh
// the cached score.
func HandleAdminDeleteGoal(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	goalID, err := apiutil.PathID(r, "/admin/goles/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	matchID, err := apiutil.FormID(r, "match_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	match, err := client.GetMatch(r.Context(), matchID)
	if err != nil {
		renderLoadError(w, r, matchID, err)
		return
	}
	if match.Status.Terminal() {
		renderResult(w, r, matchID, "El partido ya está cerrado; no se pueden quitar goles.")
		return
	}

	if err := client.DeleteGoal(r.Context(), goalID); err != nil {
		logger.Error().Err(err).Int64("goal_id", goalID).Msg("Failed to delete goal")
		renderResult(w, r, matchID, "No se pudo quitar el gol.")
		return
	}

	if err := syncScore(r.Context(), match); err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to refresh cached score")
	}

	logger.Info().Int64("goal_id", goalID).Int64("match_id", matchID).Msg("Goal removed")
	htmx.Redirect(w, r, resultPath(matchID))
}

// POST /admin/partidos/{id}/estado — move the match through its lifecycle.
func HandleAdminSetStatus(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.PathID(r, "/admin/partidos/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	target, err := models.ParseMatchStatus(r.FormValue("status"))
	if err != nil {
		renderResult(w, r, matchID, "Estado no válido.")
		return
	}

	match, err := client.GetMatch(r.Context(), matchID)
	if err != nil {
		renderLoadError(w, r, matchID, err)
		return
	}
	if !match.Status.CanTransitionTo(target) {
		renderResult(w, r, matchID, fmt.Sprintf("No se puede pasar de %s a %s.",
			views.StatusLabel(match.Status), views.StatusLabel(target)))
		return
	}

	goals, err := client.ListGoals(r.Context(), matchID)
	if err != nil {
		renderLoadError(w, r, matchID, err)
		return
	}
	home, away := league.DeriveScore(match, goals)

	payload := upstream.ResultPayload{HomeScore: home, AwayScore: away, Status: target}
	if _, err := client.SaveResult(r.Context(), matchID, payload); err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Str("status", string(target)).Msg("Failed to change match status")
		renderResult(w, r, matchID, "No se pudo cambiar el estado del partido.")
		return
	}

	logger.Info().Int64("match_id", matchID).Str("from", string(match.Status)).Str("to", string(target)).Msg("Match status changed")
	htmx.Redirect(w, r, resultPath(matchID))
}

// POST /admin/partidos/{id}/resultado — the manual override: save a score
// typed by hand, for matches whose goals were never captured one by one.
func HandleAdminSaveResult(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.PathID(r, "/admin/partidos/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	home, homeErr := strconv.Atoi(strings.TrimSpace(r.FormValue("home_score")))
	away, awayErr := strconv.Atoi(strings.TrimSpace(r.FormValue("away_score")))
	if homeErr != nil || awayErr != nil || home < 0 || away < 0 {
		renderResult(w, r, matchID, "El marcador no es válido.")
		return
	}

	match, err := client.GetMatch(r.Context(), matchID)
	if err != nil {
		renderLoadError(w, r, matchID, err)
		return
	}
	if !match.Status.CanTransitionTo(models.StatusFinal) {
		renderResult(w, r, matchID, "El partido no puede finalizarse desde su estado actual.")
		return
	}

	payload := upstream.ResultPayload{HomeScore: home, AwayScore: away, Status: models.StatusFinal}
	if _, err := client.SaveResult(r.Context(), matchID, payload); err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to save result")
		renderResult(w, r, matchID, "No se pudo guardar el resultado.")
		return
	}

	logger.Info().Int64("match_id", matchID).Int("home", home).Int("away", away).Msg("Result saved")
	htmx.Redirect(w, r, resultPath(matchID))
}

// syncScore re-derives the score from the goals list and pushes the cached
// copy upstream. A SCHEDULED match with goals moves to IN_PROGRESS.
func syncScore(ctx context.Context, match models.Match) error {
	goals, err := client.ListGoals(ctx, match.ID)
	if err != nil {
		return err
	}
	home, away := league.DeriveScore(match, goals)

	status := match.Status
	if status == models.StatusScheduled {
		status = models.StatusInProgress
	}
	_, err = client.SaveResult(ctx, match.ID, upstream.ResultPayload{
		HomeScore: home,
		AwayScore: away,
		Status:    status,
	})
	return err
}

func parseScorer(raw string) (teamID, playerID int64, err error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid scorer %q", raw)
	}
	teamID, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil || teamID <= 0 {
		return 0, 0, fmt.Errorf("invalid scorer team %q", raw)
	}
	playerID, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil || playerID <= 0 {
		return 0, 0, fmt.Errorf("invalid scorer player %q", raw)
	}
	return teamID, playerID, nil
}

func resultPath(matchID int64) string {
	return fmt.Sprintf("/admin/partidos/%d/resultado", matchID)
}

func renderLoadError(w http.ResponseWriter, r *http.Request, matchID int64, err error) {
	if upstream.StatusOf(err) == http.StatusNotFound {
		http.NotFound(w, r)
		return
	}
	log.Ctx(r.Context()).Error().Err(err).Int64("match_id", matchID).Msg("Failed to load result data")
	http.Error(w, "No se pudo cargar el partido", http.StatusBadGateway)
}

func renderResult(w http.ResponseWriter, r *http.Request, matchID int64, errorMessage string) {
	data, err := loadResultData(r.Context(), matchID)
	if err != nil {
		renderLoadError(w, r, matchID, err)
		return
	}

	page := layouts.Admin("Resultado - Admin", resultComponent(data, errorMessage))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render result page", "Failed to render page")
}

func resultComponent(data resultData, errorMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		views.WriteAdminNav(&b, "jornadas")
		m := data.match
		home, away := league.DeriveScore(m, data.goals)

		fmt.Fprintf(&b, `<section class="admin-result"><h1>%s %d - %d %s</h1>`,
			html.EscapeString(m.HomeTeam.Name), home, away, html.EscapeString(m.AwayTeam.Name))
		fmt.Fprintf(&b, `<p>%s %s · %s · <span class="status">%s</span></p>`,
			html.EscapeString(m.Date.String()), html.EscapeString(m.ScheduledTime),
			html.EscapeString(m.Venue), html.EscapeString(views.StatusLabel(m.Status)))
		views.WriteErrorBanner(&b, errorMessage)

		writeStatusControls(&b, m)
		if !m.Status.Terminal() {
			writeGoalForm(&b, data)
		}
		writeGoalList(&b, data)
		if !m.Status.Terminal() {
			writeManualResultForm(&b, m, home, away)
		}

		matchDayID := m.MatchDay.ID
		fmt.Fprintf(&b, `<p><a href="/admin/jornadas/%d/partidos">Volver a la jornada</a></p></section>`, matchDayID)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeStatusControls(b *strings.Builder, m models.Match) {
	targets := []models.MatchStatus{
		models.StatusInProgress,
		models.StatusFinal,
		models.StatusPostponed,
		models.StatusCancelled,
	}
	b.WriteString(`<div class="status-controls">`)
	for _, target := range targets {
		if target == m.Status || !m.Status.CanTransitionTo(target) {
			continue
		}
		confirm := ""
		if target.Terminal() || target == models.StatusFinal {
			confirm = fmt.Sprintf(` hx-confirm="¿Marcar el partido como %s?"`, html.EscapeString(views.StatusLabel(target)))
		}
		fmt.Fprintf(b, `<form method="post" action="/admin/partidos/%d/estado" hx-post="/admin/partidos/%d/estado"%s>`+
			`<input type="hidden" name="status" value="%s">`+
			`<button type="submit">%s</button></form>`,
			m.ID, m.ID, confirm, target, html.EscapeString(views.StatusLabel(target)))
	}
	b.WriteString(`</div>`)
}

func writeGoalForm(b *strings.Builder, data resultData) {
	m := data.match
	fmt.Fprintf(b, `<form method="post" action="/admin/partidos/%d/goles" class="inline-form">`, m.ID)
	b.WriteString(`<select name="scorer" required><option value="">-- Anotador --</option>`)
	writeScorerGroup(b, m.HomeTeam, data.homeRoster)
	writeScorerGroup(b, m.AwayTeam, data.awayRoster)
	b.WriteString(`</select>` +
		`<input type="number" name="minute" placeholder="Minuto" min="0" max="130" required>` +
		`<button type="submit">Registrar gol</button></form>`)
}

func writeScorerGroup(b *strings.Builder, team models.Ref, roster []models.Player) {
	fmt.Fprintf(b, `<optgroup label="%s">`, html.EscapeString(team.Name))
	for _, p := range roster {
		fmt.Fprintf(b, `<option value="%d-%d">%d · %s</option>`, team.ID, p.ID, p.Number, html.EscapeString(p.Name))
	}
	b.WriteString(`</optgroup>`)
}

func writeGoalList(b *strings.Builder, data resultData) {
	if len(data.goals) == 0 {
		b.WriteString(`<p class="empty">Sin goles registrados.</p>`)
		return
	}
	b.WriteString(`<table><thead><tr><th>Minuto</th><th>Jugador</th><th>Equipo</th><th></th></tr></thead><tbody>`)
	for _, g := range data.goals {
		fmt.Fprintf(b, `<tr><td>%d'</td><td>%s</td><td>%s</td><td>`,
			g.Minute, html.EscapeString(g.Player.Name), html.EscapeString(g.Team.Name))
		if !data.match.Status.Terminal() {
			fmt.Fprintf(b, `<button type="submit" form="goal-delete-%d" class="danger">Quitar</button>`, g.ID)
		}
		b.WriteString(`</td></tr>`)
	}
	b.WriteString(`</tbody></table>`)
	if !data.match.Status.Terminal() {
		for _, g := range data.goals {
			fmt.Fprintf(b, `<form id="goal-delete-%d" method="post" action="/admin/goles/%d/delete" hx-post="/admin/goles/%d/delete" hx-confirm="¿Quitar este gol?">`+
				`<input type="hidden" name="match_id" value="%d"></form>`, g.ID, g.ID, g.ID, data.match.ID)
		}
	}
}

func writeManualResultForm(b *strings.Builder, m models.Match, home, away int) {
	fmt.Fprintf(b, `<details class="manual-result"><summary>Capturar marcador manual</summary>`+
		`<form method="post" action="/admin/partidos/%d/resultado" hx-post="/admin/partidos/%d/resultado" hx-confirm="El marcador manual finaliza el partido. ¿Continuar?">`,
		m.ID, m.ID)
	fmt.Fprintf(b, `<label>%s<input type="number" name="home_score" value="%d" min="0" required></label>`,
		html.EscapeString(m.HomeTeam.Name), home)
	fmt.Fprintf(b, `<label>%s<input type="number" name="away_score" value="%d" min="0" required></label>`,
		html.EscapeString(m.AwayTeam.Name), away)
	b.WriteString(`<button type="submit">Guardar y finalizar</button></form></details>`)
}
