// internal/templates/views/views.go
//
// Shared HTML fragments used by more than one page. Single-page fragments
// live next to their handlers.
package views

import (
	"fmt"
	"html"
	"strings"

	"github.com/golazoapp/golazo/internal/models"
)

// StatusLabel maps a match status to its display label.
func StatusLabel(status models.MatchStatus) string {
	switch status {
	case models.StatusScheduled:
		return "Programado"
	case models.StatusInProgress:
		return "En juego"
	case models.StatusFinal:
		return "Final"
	case models.StatusPostponed:
		return "Pospuesto"
	case models.StatusCancelled:
		return "Cancelado"
	}
	return string(status)
}

// WeekdayLabel maps a symbolic weekday to its display label.
func WeekdayLabel(w models.Weekday) string {
	switch w {
	case models.Monday:
		return "Lunes"
	case models.Tuesday:
		return "Martes"
	case models.Wednesday:
		return "Miércoles"
	case models.Thursday:
		return "Jueves"
	case models.Friday:
		return "Viernes"
	case models.Saturday:
		return "Sábado"
	case models.Sunday:
		return "Domingo"
	}
	return string(w)
}

// WriteMatchTable renders the match list shared by the public jornada page
// and the home page. Unscheduled matches show "Por definir" in place of a
// date.
func WriteMatchTable(b *strings.Builder, matches []models.Match) {
	if len(matches) == 0 {
		b.WriteString(`<p class="empty">No hay partidos programados.</p>`)
		return
	}
	b.WriteString(`<table class="matches"><thead><tr>` +
		`<th>Fecha</th><th>Hora</th><th>Cancha</th><th>Local</th><th></th><th>Visitante</th><th>Estado</th>` +
		`</tr></thead><tbody>`)
	for _, m := range matches {
		b.WriteString(`<tr>`)
		if m.Date.IsZero() {
			b.WriteString(`<td>Por definir</td><td></td>`)
		} else {
			fmt.Fprintf(b, `<td>%s</td><td>%s</td>`, html.EscapeString(m.Date.String()), html.EscapeString(m.ScheduledTime))
		}
		fmt.Fprintf(b, `<td>%s</td>`, html.EscapeString(m.Venue))
		fmt.Fprintf(b, `<td class="home">%s</td>`, html.EscapeString(m.HomeTeam.Name))
		fmt.Fprintf(b, `<td class="score"><a href="/partidos/%d">`, m.ID)
		if m.Status == models.StatusFinal || m.Status == models.StatusInProgress {
			fmt.Fprintf(b, `%d - %d`, m.HomeScore, m.AwayScore)
		} else {
			b.WriteString(`vs`)
		}
		b.WriteString(`</a></td>`)
		fmt.Fprintf(b, `<td class="away">%s</td>`, html.EscapeString(m.AwayTeam.Name))
		fmt.Fprintf(b, `<td><span class="status status-%s">%s</span></td>`,
			strings.ToLower(string(m.Status)), html.EscapeString(StatusLabel(m.Status)))
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
}

// WriteTeamOptions renders <option> elements for a team picker. Only
// eligible teams are offered.
func WriteTeamOptions(b *strings.Builder, teams []models.Team, selectedID int64) {
	b.WriteString(`<option value="">-- Equipo --</option>`)
	for _, t := range teams {
		if !t.Eligible() {
			continue
		}
		selected := ""
		if t.ID == selectedID {
			selected = ` selected`
		}
		fmt.Fprintf(b, `<option value="%d"%s>%s</option>`, t.ID, selected, html.EscapeString(t.Name))
	}
}

// WriteTournamentSelector renders the shared tournament picker. returnTo is
// the page to come back to after switching.
func WriteTournamentSelector(b *strings.Builder, tournaments []models.Tournament, selectedID int64, returnTo string) {
	if len(tournaments) < 2 {
		return
	}
	b.WriteString(`<form method="post" action="/torneo" class="tournament-selector">`)
	fmt.Fprintf(b, `<input type="hidden" name="return_to" value="%s">`, html.EscapeString(returnTo))
	b.WriteString(`<select name="tournament_id" onchange="this.form.submit()">`)
	for _, t := range tournaments {
		selected := ""
		if t.ID == selectedID {
			selected = ` selected`
		}
		label := t.Name
		if t.Season != "" {
			label += " " + t.Season
		}
		fmt.Fprintf(b, `<option value="%d"%s>%s</option>`, t.ID, selected, html.EscapeString(label))
	}
	b.WriteString(`</select></form>`)
}

// WriteAdminNav renders the admin header shared by every admin page.
func WriteAdminNav(b *strings.Builder, active string) {
	b.WriteString(`<header class="admin-nav"><span class="admin-brand">Golazo Admin</span><nav>`)
	links := []struct{ href, key, label string }{
		{"/admin/dashboard", "dashboard", "Inicio"},
		{"/admin/jornadas", "jornadas", "Jornadas"},
		{"/admin/equipos", "equipos", "Equipos"},
		{"/admin/permisos", "permisos", "Permisos"},
	}
	for _, l := range links {
		class := ""
		if l.key == active {
			class = ` class="active"`
		}
		fmt.Fprintf(b, `<a href="%s"%s>%s</a>`, l.href, class, l.label)
	}
	b.WriteString(`</nav>` +
		`<form method="post" action="/admin/logout" hx-post="/admin/logout"><button type="submit" class="link">Salir</button></form>` +
		`</header>`)
}

// WriteErrorBanner renders the inline error banner used by admin forms.
func WriteErrorBanner(b *strings.Builder, message string) {
	if message == "" {
		return
	}
	fmt.Fprintf(b, `<p class="form-error">%s</p>`, html.EscapeString(message))
}
