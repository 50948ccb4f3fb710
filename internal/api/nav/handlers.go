// internal/api/nav/handlers.go
package nav

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/golazoapp/golazo/internal/api/apiutil"
	"github.com/golazoapp/golazo/internal/api/htmx"
	"github.com/golazoapp/golazo/internal/league"
)

var tournaments *league.Context

func InitHandlers(t *league.Context) {
	tournaments = t
}

// POST /torneo — switch the shared tournament selection and send the caller
// back where it came from. Both the public header and the admin pages post
// here.
func HandleSelectTournament(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	id, err := apiutil.FormID(r, "tournament_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := tournaments.Select(r.Context(), id); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("tournament_id", id).Msg("Failed to switch tournament")
		http.Error(w, "No se pudo cambiar de torneo", http.StatusBadGateway)
		return
	}

	target := r.FormValue("return_to")
	if target == "" || target[0] != '/' {
		target = "/"
	}
	htmx.Redirect(w, r, target)
}
