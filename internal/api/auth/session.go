package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/golazoapp/golazo/internal/db"
)

const (
	sessionCookieName = "golazo_session"
	sessionTokenBytes = 32
)

var errNotInitialized = errors.New("auth not initialized")

var (
	database     *db.DB
	sessionTTL   time.Duration
	secureCookie bool
)

// Init wires the session database. Must run during server startup before any
// request is handled.
func Init(sessions *db.DB, ttl time.Duration, environment string) {
	database = sessions
	sessionTTL = ttl
	secureCookie = environment != "development"
}

type sessionContextKey struct{}

func ContextWithSession(ctx context.Context, session db.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFromContext returns the admin session the middleware attached, if
// any.
func SessionFromContext(ctx context.Context) (db.Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(db.Session)
	return session, ok
}

// CreateSession stores the upstream bearer token under a fresh opaque token
// and sets the session cookie. Earlier sessions of the same user are
// dropped.
func CreateSession(ctx context.Context, w http.ResponseWriter, username, bearerToken string) error {
	if database == nil {
		return errNotInitialized
	}

	if err := database.DeleteSessionsForUser(ctx, username); err != nil {
		return err
	}

	token, err := newSessionToken()
	if err != nil {
		return err
	}

	now := time.Now()
	session := db.Session{
		Token:       token,
		Username:    username,
		BearerToken: bearerToken,
		CreatedAt:   now,
		ExpiresAt:   now.Add(sessionTTL),
	}
	if err := database.CreateSession(ctx, session); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secureCookie,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
		MaxAge:   int(sessionTTL.Seconds()),
	})
	return nil
}

// SessionFromRequest resolves the cookie to a stored, unexpired session.
func SessionFromRequest(r *http.Request) (db.Session, bool) {
	if database == nil || r == nil {
		return db.Session{}, false
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return db.Session{}, false
	}

	session, err := database.GetSession(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, db.ErrSessionNotFound) {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to load session")
		}
		return db.Session{}, false
	}

	if session.Expired(time.Now()) {
		if err := database.DeleteSession(r.Context(), session.Token); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to delete expired session")
		}
		return db.Session{}, false
	}

	return session, true
}

// ClearSession deletes the stored session and expires the cookie.
func ClearSession(w http.ResponseWriter, r *http.Request) {
	if r != nil && database != nil {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if err := database.DeleteSession(r.Context(), cookie.Value); err != nil {
				log.Ctx(r.Context()).Error().Err(err).Msg("Failed to delete session")
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secureCookie,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// InvalidateBearer drops every session backed by a bearer token the upstream
// rejected with 401. It clears stored state only; page-level guards decide
// about navigation.
func InvalidateBearer(ctx context.Context, bearerToken string) {
	if database == nil || bearerToken == "" {
		return
	}
	if err := database.DeleteSessionsByBearer(ctx, bearerToken); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to invalidate sessions for rejected token")
	}
}

// SweepExpired prunes expired sessions; wired as a periodic job.
func SweepExpired(ctx context.Context) {
	if database == nil {
		return
	}
	removed, err := database.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Session sweep failed")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Msg("Swept expired sessions")
	}
}

func newSessionToken() (string, error) {
	token := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(token), nil
}
