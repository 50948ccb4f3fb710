package layouts

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

const htmxScript = `<script src="/static/js/htmx.min.js" defer></script>`

// Base wraps content in the shared HTML shell.
func Base(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="es"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, fmt.Sprintf(`<title>%s</title>`, html.EscapeString(title))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<link rel="stylesheet" href="/static/css/app.css">`+htmxScript+`</head><body>`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// Public wraps content in the shell plus the public navbar.
func Public(title string, content templ.Component) templ.Component {
	return Base(title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, publicNavHTML); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main class="page">`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main>`)
		return err
	}))
}

// Admin wraps content in the shell without the public navbar; admin pages
// bring their own header.
func Admin(title string, content templ.Component) templ.Component {
	return Base(title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<main class="admin">`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main>`)
		return err
	}))
}

const publicNavHTML = `<nav class="navbar">` +
	`<a href="/" class="navbar-brand">Golazo</a>` +
	`<div class="navbar-links">` +
	`<a href="/jornadas">Jornadas</a>` +
	`<a href="/posiciones">Posiciones</a>` +
	`<a href="/goleo">Goleo</a>` +
	`<a href="/equipos">Equipos</a>` +
	`</div></nav>`
