// internal/api/matches/handlers.go
//
// The scheduling page. Every date, time, and venue a match gets here comes
// from a declared availability slot; the form never accepts them as free
// text.
package matches

import (
	"context"
	"errors"
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

// matchDayData is everything the scheduling page needs, fetched in parallel.
type matchDayData struct {
	day     models.MatchDay
	matches []models.Match
	slots   []models.AvailabilitySlot
	teams   []models.Team
}

func loadMatchDayData(ctx context.Context, dayID int64) (matchDayData, error) {
	state := tournaments.Snapshot()
	day, ok := state.MatchDay(dayID)
	if !ok {
		return matchDayData{}, errUnknownMatchDay
	}

	data := matchDayData{day: day}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := client.ListMatches(gctx, dayID)
		if err != nil {
			return fmt.Errorf("matches: %w", err)
		}
		data.matches = list
		return nil
	})
	g.Go(func() error {
		list, err := client.ListAvailability(gctx, dayID)
		if err != nil {
			return fmt.Errorf("availability: %w", err)
		}
		data.slots = list
		return nil
	})
	g.Go(func() error {
		list, err := client.ListTeams(gctx, state.SelectedID)
		if err != nil {
			return fmt.Errorf("teams: %w", err)
		}
		data.teams = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return matchDayData{}, err
	}
	return data, nil
}

var errUnknownMatchDay = errors.New("unknown match day")

// GET /admin/jornadas/{id}/partidos
func HandleAdminMatches(w http.ResponseWriter, r *http.Request) {
	dayID, err := apiutil.PathID(r, "/admin/jornadas/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	renderMatches(w, r, dayID, "")
}

// POST /admin/jornadas/{id}/partidos — schedule a match by hand.
func HandleAdminCreateMatch(w http.ResponseWriter, r *http.Request) {
	dayID, err := apiutil.PathID(r, "/admin/jornadas/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	scheduleMatch(w, r, dayID, 0)
}

// POST /admin/partidos/{id} — move an existing match to another slot or
// change its teams. The match being edited is excluded from the conflict
// and occupancy checks so it can keep its own slot.
func HandleAdminUpdateMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := apiutil.PathID(r, "/admin/partidos/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	dayID, err := apiutil.FormID(r, "match_day_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	scheduleMatch(w, r, dayID, matchID)
}

// scheduleMatch runs the shared create/update path: resolve the chosen slot
// to a concrete date, validate the submission, then call upstream.
func scheduleMatch(w http.ResponseWriter, r *http.Request, dayID, matchID int64) {
	logger := log.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	data, err := loadMatchDayData(r.Context(), dayID)
	if err != nil {
		renderLoadError(w, r, dayID, err)
		return
	}

	homeTeamID, homeErr := apiutil.FormID(r, "home_team_id")
	awayTeamID, awayErr := apiutil.FormID(r, "away_team_id")
	slotID, slotErr := apiutil.FormID(r, "slot_id")
	if homeErr != nil || awayErr != nil {
		renderMatches(w, r, dayID, "Elige el equipo local y el visitante.")
		return
	}
	if slotErr != nil {
		renderMatches(w, r, dayID, "Elige un horario disponible.")
		return
	}

	slot, ok := findSlot(data.slots, slotID)
	if !ok {
		renderMatches(w, r, dayID, "Ese horario ya no existe; recarga la página.")
		return
	}
	date, ok := league.ResolveSlotDate(data.day, slot.DayOfWeek)
	if !ok {
		renderMatches(w, r, dayID, "El horario elegido no cae dentro de las fechas de la jornada.")
		return
	}

	submission := league.Submission{
		TournamentID:   tournaments.SelectedID(),
		MatchDayID:     dayID,
		HomeTeamID:     homeTeamID,
		AwayTeamID:     awayTeamID,
		Date:           date,
		Time:           slot.StartTime,
		Venue:          slot.Field,
		ExcludeMatchID: matchID,
	}
	if err := submission.Validate(data.matches, data.teams); err != nil {
		renderMatches(w, r, dayID, submissionMessage(err))
		return
	}

	payload := upstream.MatchPayload{
		TournamentID:  submission.TournamentID,
		MatchDayID:    dayID,
		HomeTeamID:    homeTeamID,
		AwayTeamID:    awayTeamID,
		Date:          date,
		ScheduledTime: slot.StartTime,
		Venue:         slot.Field,
		Status:        models.StatusScheduled,
	}

	if matchID == 0 {
		match, err := client.CreateMatch(r.Context(), payload)
		if err != nil {
			logger.Error().Err(err).Int64("match_day_id", dayID).Msg("Failed to create match")
			renderMatches(w, r, dayID, "No se pudo programar el partido.")
			return
		}
		logger.Info().Int64("match_id", match.ID).Int64("match_day_id", dayID).Msg("Match scheduled")
	} else {
		// Keep the current status on reschedule; only the draw resets it.
		if current, ok := findMatch(data.matches, matchID); ok {
			payload.Status = current.Status
		}
		if _, err := client.UpdateMatch(r.Context(), matchID, payload); err != nil {
			logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to update match")
			renderMatches(w, r, dayID, "No se pudo reprogramar el partido.")
			return
		}
		logger.Info().Int64("match_id", matchID).Msg("Match rescheduled")
	}
	htmx.Redirect(w, r, matchesPath(dayID))
}

// POST /admin/partidos/{id}/delete
func HandleAdminDeleteMatch(w http.ResponseWriter, r *http.Request) {
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
	dayID, err := apiutil.FormID(r, "match_day_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := client.DeleteMatch(r.Context(), matchID); err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to delete match")
		renderMatches(w, r, dayID, "No se pudo eliminar el partido.")
		return
	}
	logger.Info().Int64("match_id", matchID).Msg("Match deleted")
	htmx.Redirect(w, r, matchesPath(dayID))
}

// POST /admin/jornadas/{id}/generar — ask the upstream for a random draw.
// When matches already exist the draw is a regeneration and is blocked as
// soon as any match has progress.
func HandleAdminGenerate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	dayID, err := apiutil.PathID(r, "/admin/jornadas/")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data, err := loadMatchDayData(r.Context(), dayID)
	if err != nil {
		renderLoadError(w, r, dayID, err)
		return
	}

	if err := league.CheckGenerationPreconditions(data.teams, data.slots); err != nil {
		renderMatches(w, r, dayID, generationMessage(err, data))
		return
	}

	force := len(data.matches) > 0
	if force && !league.CanRegenerate(data.matches) {
		renderMatches(w, r, dayID, "La jornada ya tiene partidos con avance; no se puede sortear de nuevo.")
		return
	}

	generated, err := client.GenerateMatches(r.Context(), dayID, force)
	if err != nil {
		logger.Error().Err(err).Int64("match_day_id", dayID).Msg("Failed to generate matches")
		renderMatches(w, r, dayID, "No se pudo generar el sorteo.")
		return
	}

	logger.Info().Int64("match_day_id", dayID).Int("matches", len(generated)).Bool("force", force).Msg("Matches generated")
	htmx.Redirect(w, r, matchesPath(dayID))
}

func matchesPath(dayID int64) string {
	return fmt.Sprintf("/admin/jornadas/%d/partidos", dayID)
}

func findSlot(slots []models.AvailabilitySlot, id int64) (models.AvailabilitySlot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return models.AvailabilitySlot{}, false
}

func findMatch(matches []models.Match, id int64) (models.Match, bool) {
	for _, m := range matches {
		if m.ID == id {
			return m, true
		}
	}
	return models.Match{}, false
}

// submissionMessage maps validation errors to the messages the form shows.
func submissionMessage(err error) string {
	var conflict league.ConflictError
	if errors.As(err, &conflict) {
		team := conflict.Team.Name
		opponent := conflict.Opponent.Name
		if team == "" {
			team = fmt.Sprintf("El equipo %d", conflict.Team.ID)
		}
		if opponent == "" {
			opponent = fmt.Sprintf("el equipo %d", conflict.Opponent.ID)
		}
		return fmt.Sprintf("%s ya juega contra %s en esta jornada.", team, opponent)
	}
	switch {
	case errors.Is(err, league.ErrSameTeam):
		return "El equipo local y el visitante deben ser distintos."
	case errors.Is(err, league.ErrSlotOccupied):
		return "Ese horario ya está ocupado por otro partido."
	case errors.Is(err, league.ErrMissingDate), errors.Is(err, league.ErrMissingTime), errors.Is(err, league.ErrMissingVenue):
		return "Elige un horario disponible."
	}
	return "No se pudo programar el partido."
}

func generationMessage(err error, data matchDayData) string {
	switch {
	case errors.Is(err, league.ErrNotEnoughTeams):
		return "Se necesitan al menos dos equipos elegibles para sortear."
	case errors.Is(err, league.ErrNotEnoughSlots):
		eligible := len(league.EligibleTeams(data.teams))
		return fmt.Sprintf("Faltan horarios: se necesitan %d y hay %d.", eligible/2, len(data.slots))
	}
	return "No se pudo generar el sorteo."
}

func renderLoadError(w http.ResponseWriter, r *http.Request, dayID int64, err error) {
	if errors.Is(err, errUnknownMatchDay) {
		http.NotFound(w, r)
		return
	}
	log.Ctx(r.Context()).Error().Err(err).Int64("match_day_id", dayID).Msg("Failed to load scheduling data")
	http.Error(w, "No se pudo cargar la jornada", http.StatusBadGateway)
}

func renderMatches(w http.ResponseWriter, r *http.Request, dayID int64, errorMessage string) {
	data, err := loadMatchDayData(r.Context(), dayID)
	if err != nil {
		renderLoadError(w, r, dayID, err)
		return
	}

	page := layouts.Admin("Partidos - Admin", schedulingComponent(data, errorMessage))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render scheduling page", "Failed to render page")
}

func schedulingComponent(data matchDayData, errorMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		views.WriteAdminNav(&b, "jornadas")
		fmt.Fprintf(&b, `<section class="admin-matches"><h1>Partidos — %s</h1>`, html.EscapeString(data.day.Label))
		fmt.Fprintf(&b, `<p class="range">%s — %s</p>`,
			html.EscapeString(data.day.StartDate.String()), html.EscapeString(data.day.EndDate.String()))
		views.WriteErrorBanner(&b, errorMessage)

		writeScheduleForm(&b, data)
		writeGenerateControls(&b, data)
		writeMatchRows(&b, data)
		writeRestingPanel(&b, data)

		fmt.Fprintf(&b, `<p><a href="/admin/jornadas/%d/disponibilidad">Editar disponibilidad</a> · <a href="/admin/jornadas">Volver a jornadas</a></p></section>`, data.day.ID)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeScheduleForm(b *strings.Builder, data matchDayData) {
	free := league.FreeSlots(data.slots, data.matches, 0)
	fmt.Fprintf(b, `<form method="post" action="%s" class="inline-form">`, matchesPath(data.day.ID))
	b.WriteString(`<select name="home_team_id" required>`)
	views.WriteTeamOptions(b, data.teams, 0)
	b.WriteString(`</select><span>vs</span><select name="away_team_id" required>`)
	views.WriteTeamOptions(b, data.teams, 0)
	b.WriteString(`</select>`)
	writeSlotOptions(b, data.day, free, 0)
	b.WriteString(`<button type="submit">Programar partido</button></form>`)
	if len(free) == 0 && len(data.slots) > 0 {
		b.WriteString(`<p class="empty">Todos los horarios están ocupados.</p>`)
	}
}

func writeSlotOptions(b *strings.Builder, day models.MatchDay, slots []models.AvailabilitySlot, selectedID int64) {
	b.WriteString(`<select name="slot_id" required><option value="">-- Horario --</option>`)
	for _, slot := range slots {
		date := "?"
		if d, ok := league.ResolveSlotDate(day, slot.DayOfWeek); ok {
			date = d.String()
		}
		selected := ""
		if slot.ID == selectedID {
			selected = ` selected`
		}
		fmt.Fprintf(b, `<option value="%d"%s>%s %s %s (%s)</option>`,
			slot.ID, selected, html.EscapeString(views.WeekdayLabel(slot.DayOfWeek)),
			html.EscapeString(date), html.EscapeString(slot.StartTime), html.EscapeString(slot.Field))
	}
	b.WriteString(`</select>`)
}

func writeGenerateControls(b *strings.Builder, data matchDayData) {
	label := "Sortear jornada"
	confirm := ""
	if len(data.matches) > 0 {
		if !league.CanRegenerate(data.matches) {
			return
		}
		label = "Sortear de nuevo"
		confirm = ` hx-confirm="El sorteo reemplaza todos los partidos de la jornada. ¿Continuar?"`
	}
	fmt.Fprintf(b, `<form method="post" action="/admin/jornadas/%d/generar" hx-post="/admin/jornadas/%d/generar"%s>`+
		`<button type="submit">%s</button></form>`, data.day.ID, data.day.ID, confirm, label)
}

func writeMatchRows(b *strings.Builder, data matchDayData) {
	matches := league.SortMatches(data.matches)
	if len(matches) == 0 {
		b.WriteString(`<p class="empty">No hay partidos programados.</p>`)
		return
	}
	b.WriteString(`<table><thead><tr><th>Fecha</th><th>Local</th><th></th><th>Visitante</th><th>Horario</th><th>Estado</th><th></th></tr></thead><tbody>`)
	for _, m := range matches {
		formID := fmt.Sprintf("match-form-%d", m.ID)
		free := league.FreeSlots(data.slots, data.matches, m.ID)
		b.WriteString(`<tr>`)
		if m.Date.IsZero() {
			b.WriteString(`<td>Por definir</td>`)
		} else {
			fmt.Fprintf(b, `<td>%s %s</td>`, html.EscapeString(m.Date.String()), html.EscapeString(m.ScheduledTime))
		}
		fmt.Fprintf(b, `<td>%s</td>`, html.EscapeString(m.HomeTeam.Name))
		b.WriteString(`<td class="score">`)
		if m.Status == models.StatusFinal || m.Status == models.StatusInProgress {
			fmt.Fprintf(b, `%d - %d`, m.HomeScore, m.AwayScore)
		} else {
			b.WriteString(`vs`)
		}
		b.WriteString(`</td>`)
		fmt.Fprintf(b, `<td>%s</td><td>`, html.EscapeString(m.AwayTeam.Name))
		if m.Status == models.StatusScheduled {
			writeSlotOptionsInto(b, data.day, free, currentSlotID(data.slots, m), formID)
		} else {
			fmt.Fprintf(b, `%s`, html.EscapeString(m.Venue))
		}
		fmt.Fprintf(b, `</td><td>%s</td><td>`, html.EscapeString(views.StatusLabel(m.Status)))
		if m.Status == models.StatusScheduled {
			fmt.Fprintf(b, `<button type="submit" form="%s">Mover</button> `, formID)
		}
		fmt.Fprintf(b, `<a href="/admin/partidos/%d/resultado">Resultado</a> `, m.ID)
		fmt.Fprintf(b, `<button type="submit" form="match-delete-%d" class="danger">Eliminar</button></td></tr>`, m.ID)
	}
	b.WriteString(`</tbody></table>`)
	for _, m := range matches {
		fmt.Fprintf(b, `<form id="match-form-%d" method="post" action="/admin/partidos/%d">`+
			`<input type="hidden" name="match_day_id" value="%d">`+
			`<input type="hidden" name="home_team_id" value="%d">`+
			`<input type="hidden" name="away_team_id" value="%d"></form>`,
			m.ID, m.ID, data.day.ID, m.HomeTeam.ID, m.AwayTeam.ID)
		fmt.Fprintf(b, `<form id="match-delete-%d" method="post" action="/admin/partidos/%d/delete" hx-post="/admin/partidos/%d/delete" hx-confirm="¿Eliminar el partido?">`+
			`<input type="hidden" name="match_day_id" value="%d"></form>`,
			m.ID, m.ID, m.ID, data.day.ID)
	}
}

// writeSlotOptionsInto renders a slot picker whose select belongs to formID,
// so it can live inside a table cell while submitting with the row's form.
func writeSlotOptionsInto(b *strings.Builder, day models.MatchDay, slots []models.AvailabilitySlot, selectedID int64, formID string) {
	fmt.Fprintf(b, `<select name="slot_id" form="%s" required>`, formID)
	for _, slot := range slots {
		date := "?"
		if d, ok := league.ResolveSlotDate(day, slot.DayOfWeek); ok {
			date = d.String()
		}
		selected := ""
		if slot.ID == selectedID {
			selected = ` selected`
		}
		fmt.Fprintf(b, `<option value="%d"%s>%s %s %s (%s)</option>`,
			slot.ID, selected, html.EscapeString(views.WeekdayLabel(slot.DayOfWeek)),
			html.EscapeString(date), html.EscapeString(slot.StartTime), html.EscapeString(slot.Field))
	}
	b.WriteString(`</select>`)
}

// currentSlotID finds the slot a match currently occupies, matching on the
// (weekday, start time, field) triple.
func currentSlotID(slots []models.AvailabilitySlot, m models.Match) int64 {
	if m.Date.IsZero() {
		return 0
	}
	weekday := models.WeekdayOf(m.Date.Weekday())
	for _, slot := range slots {
		if slot.DayOfWeek == weekday && slot.StartTime == m.ScheduledTime && slot.Field == m.Venue {
			return slot.ID
		}
	}
	return 0
}

func writeRestingPanel(b *strings.Builder, data matchDayData) {
	resting := league.RestingTeams(data.teams, data.matches)
	if len(resting) == 0 {
		return
	}
	b.WriteString(`<h2>Descansan</h2><ul class="resting">`)
	for _, t := range resting {
		fmt.Fprintf(b, `<li>%s</li>`, html.EscapeString(t.Name))
	}
	b.WriteString(`</ul>`)
}
