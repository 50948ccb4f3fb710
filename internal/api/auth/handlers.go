// internal/api/auth/handlers.go
package auth

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
	"github.com/golazoapp/golazo/internal/templates/layouts"
	"github.com/golazoapp/golazo/internal/upstream"
)

var client *upstream.Client

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(c *upstream.Client) {
	client = c
}

// GET /admin — the login page. Already-authenticated admins go straight to
// the dashboard.
func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := SessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}

	page := layouts.Admin("Admin - Golazo", loginFormComponent(""))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render login page", "Failed to render page")
}

// POST /admin/login — exchanges credentials with the upstream API and opens
// a local session holding the returned bearer token.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if client == nil {
		logger.Error().Msg("Upstream client not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		renderLoginError(w, r, "Usuario y contraseña son obligatorios.")
		return
	}

	result, err := client.Login(r.Context(), username, password)
	if err != nil {
		logger.Warn().Err(err).Str("username", username).Msg("Login failed")
		if upstream.StatusOf(err) == http.StatusUnauthorized {
			renderLoginError(w, r, "Credenciales inválidas.")
			return
		}
		renderLoginError(w, r, "No se pudo iniciar sesión. Inténtalo de nuevo.")
		return
	}

	if err := CreateSession(r.Context(), w, result.Username, result.Token); err != nil {
		logger.Error().Err(err).Msg("Failed to create session")
		renderLoginError(w, r, "No se pudo iniciar sesión. Inténtalo de nuevo.")
		return
	}

	logger.Info().Str("username", result.Username).Msg("Admin logged in")
	htmx.Redirect(w, r, "/admin/dashboard")
}

// POST /admin/logout
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ClearSession(w, r)
	htmx.Redirect(w, r, "/admin")
}

func renderLoginError(w http.ResponseWriter, r *http.Request, message string) {
	if htmx.IsRequest(r) {
		component := loginFormComponent(message)
		apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render login form", "Failed to render form")
		return
	}
	page := layouts.Admin("Admin - Golazo", loginFormComponent(message))
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render login page", "Failed to render page")
}

func loginFormComponent(errorMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="login" id="login-form">`)
		b.WriteString(`<h1>Panel de Administración</h1>`)
		b.WriteString(`<form method="post" action="/admin/login" hx-post="/admin/login" hx-target="#login-form" hx-swap="outerHTML">`)
		b.WriteString(`<label>Usuario<input type="text" name="username" required></label>`)
		b.WriteString(`<label>Contraseña<input type="password" name="password" required></label>`)
		if errorMessage != "" {
			b.WriteString(fmt.Sprintf(`<p class="form-error">%s</p>`, html.EscapeString(errorMessage)))
		}
		b.WriteString(`<button type="submit">Entrar</button>`)
		b.WriteString(`</form></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
