// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golazoapp/golazo/internal/api"
	"github.com/golazoapp/golazo/internal/api/apiutil"
	"github.com/golazoapp/golazo/internal/api/auth"
	"github.com/golazoapp/golazo/internal/api/availability"
	"github.com/golazoapp/golazo/internal/api/dashboard"
	"github.com/golazoapp/golazo/internal/api/home"
	"github.com/golazoapp/golazo/internal/api/matchdays"
	"github.com/golazoapp/golazo/internal/api/matches"
	"github.com/golazoapp/golazo/internal/api/nav"
	"github.com/golazoapp/golazo/internal/api/permissions"
	"github.com/golazoapp/golazo/internal/api/players"
	"github.com/golazoapp/golazo/internal/api/results"
	"github.com/golazoapp/golazo/internal/api/scorers"
	"github.com/golazoapp/golazo/internal/api/standings"
	"github.com/golazoapp/golazo/internal/api/teams"
	"github.com/golazoapp/golazo/internal/config"
	"github.com/golazoapp/golazo/internal/league"
	"github.com/golazoapp/golazo/internal/upstream"
)

func newServer(cfg *config.Config, client *upstream.Client, tournaments *league.Context) *http.Server {
	initHandlers(client, tournaments)

	router := http.NewServeMux()
	registerRoutes(router)

	handler := api.ChainMiddleware(
		router,
		api.WithSession,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func initHandlers(client *upstream.Client, tournaments *league.Context) {
	auth.InitHandlers(client)
	nav.InitHandlers(tournaments)
	home.InitHandlers(client, tournaments)
	standings.InitHandlers(client, tournaments)
	scorers.InitHandlers(client, tournaments)
	teams.InitHandlers(client, tournaments)
	players.InitHandlers(client)
	matchdays.InitHandlers(client, tournaments)
	matches.InitHandlers(client, tournaments)
	availability.InitHandlers(client, tournaments)
	results.InitHandlers(client)
	permissions.InitHandlers(client, tournaments)
	dashboard.InitHandlers(client, tournaments)
}

func registerRoutes(mux *http.ServeMux) {
	// Public pages
	mux.HandleFunc("GET /{$}", home.HandleHome)
	mux.HandleFunc("GET /posiciones", standings.HandleStandings)
	mux.HandleFunc("GET /goleo", scorers.HandleScorers)
	mux.HandleFunc("GET /jornadas", matchdays.HandleMatchDays)
	mux.HandleFunc("GET /jornadas/{id}", matchdays.HandleMatchDayDetail)
	mux.HandleFunc("GET /partidos/{id}", matchdays.HandleMatchDetail)
	mux.HandleFunc("GET /equipos", teams.HandleTeams)
	mux.HandleFunc("GET /equipos/{id}", teams.HandleTeamDetail)
	mux.HandleFunc("POST /torneo", nav.HandleSelectTournament)

	// Login
	mux.HandleFunc("GET /admin", auth.HandleLoginPage)
	mux.HandleFunc("POST /admin/login", auth.HandleLogin)
	mux.HandleFunc("POST /admin/logout", auth.HandleLogout)

	// Admin panel, behind the session guard
	admin := http.NewServeMux()
	admin.HandleFunc("GET /admin/dashboard", dashboard.HandleDashboard)

	admin.HandleFunc("GET /admin/jornadas", matchdays.HandleAdminMatchDays)
	admin.HandleFunc("POST /admin/jornadas", matchdays.HandleAdminCreateMatchDay)
	admin.HandleFunc("GET /admin/jornadas/{id}/partidos", matches.HandleAdminMatches)
	admin.HandleFunc("POST /admin/jornadas/{id}/partidos", matches.HandleAdminCreateMatch)
	admin.HandleFunc("POST /admin/jornadas/{id}/generar", matches.HandleAdminGenerate)
	admin.HandleFunc("GET /admin/jornadas/{id}/disponibilidad", availability.HandleAdminSlots)
	admin.HandleFunc("POST /admin/jornadas/{id}/disponibilidad", availability.HandleAdminCreateSlot)
	admin.HandleFunc("POST /admin/disponibilidad/{id}/delete", availability.HandleAdminDeleteSlot)

	admin.HandleFunc("POST /admin/partidos/{id}", matches.HandleAdminUpdateMatch)
	admin.HandleFunc("POST /admin/partidos/{id}/delete", matches.HandleAdminDeleteMatch)
	admin.HandleFunc("GET /admin/partidos/{id}/resultado", results.HandleAdminResult)
	admin.HandleFunc("POST /admin/partidos/{id}/resultado", results.HandleAdminSaveResult)
	admin.HandleFunc("POST /admin/partidos/{id}/estado", results.HandleAdminSetStatus)
	admin.HandleFunc("POST /admin/partidos/{id}/goles", results.HandleAdminAddGoal)
	admin.HandleFunc("POST /admin/goles/{id}/delete", results.HandleAdminDeleteGoal)

	admin.HandleFunc("GET /admin/equipos", teams.HandleAdminTeams)
	admin.HandleFunc("POST /admin/equipos", teams.HandleAdminCreateTeam)
	admin.HandleFunc("POST /admin/equipos/{id}", teams.HandleAdminUpdateTeam)
	admin.HandleFunc("POST /admin/equipos/{id}/delete", teams.HandleAdminDeleteTeam)
	admin.HandleFunc("GET /admin/equipos/{id}/jugadores", players.HandleAdminRoster)
	admin.HandleFunc("POST /admin/equipos/{id}/jugadores", players.HandleAdminCreatePlayer)
	admin.HandleFunc("POST /admin/jugadores/{id}", players.HandleAdminUpdatePlayer)
	admin.HandleFunc("POST /admin/jugadores/{id}/delete", players.HandleAdminDeletePlayer)

	admin.HandleFunc("GET /admin/permisos", permissions.HandleAdminPermissions)
	admin.HandleFunc("POST /admin/permisos", permissions.HandleAdminCreatePermission)
	admin.HandleFunc("POST /admin/permisos/{id}/delete", permissions.HandleAdminDeletePermission)

	mux.Handle("/admin/", api.RequireAdmin(admin))

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		apiutil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Static assets
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "static"
	}
	fs := http.FileServer(http.Dir(staticDir))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
}
