// internal/api/availability/handlers.go
package availability

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

var (
	client      *upstream.Client
	tournaments *league.Context
)

func InitHandlers(c *upstream.Client, t *league.Context) {
	client = c
	tournaments = t
}

// GET /admin/jornadas/{id}/disponibilidad — the slot editor for a match-day.
// Only weekdays that occur inside the jornada's date range are offered.
func HandleAdminSlots(w http.ResponseWriter, r *http.Request) {
	dayID, err := apiutil.PathID(r, "/admin/jornadas/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	renderSlots(w, r, dayID, "")
}

// POST /admin/jornadas/{id}/disponibilidad — declare a new slot.
func HandleAdminCreateSlot(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	dayID, err := apiutil.PathID(r, "/admin/jornadas/")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	day, ok := tournaments.Snapshot().MatchDay(dayID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	weekday, err := models.ParseWeekday(r.FormValue("day_of_week"))
	if err != nil {
		renderSlots(w, r, dayID, "Elige un día de la semana.")
		return
	}
	if _, ok := league.ResolveSlotDate(day, weekday); !ok {
		renderSlots(w, r, dayID, "Ese día no cae dentro de las fechas de la jornada.")
		return
	}
	startTime := strings.TrimSpace(r.FormValue("start_time"))
	endTime := strings.TrimSpace(r.FormValue("end_time"))
	field := strings.TrimSpace(r.FormValue("field"))
	switch {
	case startTime == "" || endTime == "":
		renderSlots(w, r, dayID, "La hora de inicio y fin son obligatorias.")
		return
	case endTime <= startTime:
		renderSlots(w, r, dayID, "La hora de fin debe ser posterior a la de inicio.")
		return
	case field == "":
		renderSlots(w, r, dayID, "La cancha es obligatoria.")
		return
	}

	payload := upstream.SlotPayload{
		DayOfWeek: weekday,
		StartTime: startTime,
		EndTime:   endTime,
		Field:     field,
	}
	slot, err := client.CreateAvailability(r.Context(), dayID, payload)
	if err != nil {
		logger.Error().Err(err).Int64("match_day_id", dayID).Msg("Failed to create slot")
		if upstream.IsConflict(err) {
			renderSlots(w, r, dayID, "Ya existe un horario igual en esta jornada.")
			return
		}
		renderSlots(w, r, dayID, "No se pudo guardar el horario.")
		return
	}

	logger.Info().Int64("slot_id", slot.ID).Int64("match_day_id", dayID).Msg("Availability slot created")
	htmx.Redirect(w, r, slotsPath(dayID))
}

// POST /admin/disponibilidad/{id}/delete — remove a slot. The removal is
// optimistic: a failed upstream delete is logged and the list re-renders
// from whatever the upstream still has.
func HandleAdminDeleteSlot(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	slotID, err := apiutil.PathID(r, "/admin/disponibilidad/")
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

	if err := client.DeleteAvailability(r.Context(), slotID); err != nil {
		logger.Error().Err(err).Int64("slot_id", slotID).Msg("Failed to delete slot")
	}
	htmx.Redirect(w, r, slotsPath(dayID))
}

func slotsPath(dayID int64) string {
	return fmt.Sprintf("/admin/jornadas/%d/disponibilidad", dayID)
}

func renderSlots(w http.ResponseWriter, r *http.Request, dayID int64, errorMessage string) {
	day, ok := tournaments.Snapshot().MatchDay(dayID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	slots, err := client.ListAvailability(r.Context(), dayID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("match_day_id", dayID).Msg("Failed to load slots")
		http.Error(w, "No se pudo cargar la disponibilidad", http.StatusBadGateway)
		return
	}

	page := layouts.Admin("Disponibilidad - Admin", slotsComponent(day, slots, errorMessage))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render slots", "Failed to render page")
}

func slotsComponent(day models.MatchDay, slots []models.AvailabilitySlot, errorMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		views.WriteAdminNav(&b, "jornadas")
		fmt.Fprintf(&b, `<section class="admin-slots"><h1>Disponibilidad — %s</h1>`, html.EscapeString(day.Label))
		fmt.Fprintf(&b, `<p class="range">%s — %s</p>`,
			html.EscapeString(day.StartDate.String()), html.EscapeString(day.EndDate.String()))
		views.WriteErrorBanner(&b, errorMessage)

		fmt.Fprintf(&b, `<form method="post" action="%s" class="inline-form">`, slotsPath(day.ID))
		b.WriteString(`<select name="day_of_week" required><option value="">-- Día --</option>`)
		for _, wd := range league.WeekdayOptions(day) {
			fmt.Fprintf(&b, `<option value="%s">%s</option>`, wd, html.EscapeString(views.WeekdayLabel(wd)))
		}
		b.WriteString(`</select>` +
			`<label>Inicio<input type="time" name="start_time" required></label>` +
			`<label>Fin<input type="time" name="end_time" required></label>` +
			`<input type="text" name="field" placeholder="Cancha" required>` +
			`<button type="submit">Agregar horario</button></form>`)

		if len(slots) == 0 {
			b.WriteString(`<p class="empty">Sin horarios declarados.</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>Día</th><th>Fecha</th><th>Inicio</th><th>Fin</th><th>Cancha</th><th></th></tr></thead><tbody>`)
			for _, slot := range slots {
				resolved := "—"
				if date, ok := league.ResolveSlotDate(day, slot.DayOfWeek); ok {
					resolved = date.String()
				}
				fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td>`,
					html.EscapeString(views.WeekdayLabel(slot.DayOfWeek)), html.EscapeString(resolved),
					html.EscapeString(slot.StartTime), html.EscapeString(slot.EndTime), html.EscapeString(slot.Field))
				fmt.Fprintf(&b, `<td><button type="submit" form="slot-delete-%d" class="danger">Eliminar</button></td></tr>`, slot.ID)
			}
			b.WriteString(`</tbody></table>`)
			for _, slot := range slots {
				fmt.Fprintf(&b, `<form id="slot-delete-%d" method="post" action="/admin/disponibilidad/%d/delete">`+
					`<input type="hidden" name="match_day_id" value="%d"></form>`, slot.ID, slot.ID, day.ID)
			}
		}
		fmt.Fprintf(&b, `<p><a href="/admin/jornadas/%d/partidos">Ir a partidos</a> · <a href="/admin/jornadas">Volver a jornadas</a></p></section>`, day.ID)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
