// internal/httpserver/routes_auth.go
//
// Accounts, cookies and request identity.
//   - POST /auth/signup, /auth/login, /auth/logout
//   - GET  /auth/me, /stats/me, /games/mine (require a signed-in user)
//
// Optional auth decorates requests with the user when a valid token is
// present; guests get a stable anonymous cookie instead.

package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/auth"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/store"
)

const anonCookieName = "wordle_anon"

// ctxUserKey is the context key type for storing the signed-in *store.User.
type ctxUserKey struct{}

func currentUser(r *http.Request) *store.User {
	u, _ := r.Context().Value(ctxUserKey{}).(*store.User)
	return u
}

func (s *Server) mountAuth(r chi.Router) {
	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/auth/me", s.handleMe)
		r.Get("/stats/me", s.handleStats)
		r.Get("/games/mine", s.handleMyGames)
	})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleSignup creates a user, signs a token, sets the cookie, and claims guest history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decode(r, &body); err != nil {
		fail(w, r, err)
		return
	}
	username := auth.NormalizeUsername(body.Username)
	if err := auth.ValidateSignup(username, body.Password); err != nil {
		fail(w, r, err)
		return
	}
	if s.repo == nil {
		fail(w, r, errUnauthorized)
		return
	}
	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	u, err := s.repo.CreateUser(r.Context(), username, hash)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := s.signIn(w, r, u); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates a user, sets the cookie, and claims guest history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decode(r, &body); err != nil {
		fail(w, r, err)
		return
	}
	if s.repo == nil {
		fail(w, r, auth.ErrInvalidCredentials)
		return
	}
	u, err := s.repo.UserByName(r.Context(), auth.NormalizeUsername(body.Username))
	if err != nil || !auth.CheckPassword(u.PasswordHash, body.Password) {
		fail(w, r, auth.ErrInvalidCredentials)
		return
	}
	if err := s.signIn(w, r, u); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setAuthCookie(w, "", time.Time{}, -1)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	writeJSON(w, http.StatusOK, map[string]string{"id": u.ID, "username": u.Username})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          u.ID,
		"gamesPlayed": u.GamesPlayed,
		"wins":        u.Wins,
		"streak":      u.Streak,
	})
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.repo.RecentGames(r.Context(), currentUser(r).ID, 50)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// signIn issues the auth cookie and moves any guest games onto the account.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, u *store.User) error {
	tok, exp, err := s.tokens.Sign(u.ID, u.Username)
	if err != nil {
		return err
	}
	s.setAuthCookie(w, tok, exp, 0)

	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		n, err := s.repo.ClaimAnonGames(r.Context(), c.Value, u.ID)
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("claim anon games")
		} else if n > 0 {
			hlog.FromRequest(r).Info().Int64("games", n).Str("user", u.ID).Msg("claimed guest games")
		}
	}
	return nil
}

// --------------------------- optional auth ---------------------------------

// withOptionalAuth decorates requests with the user if a valid token is present.
// It never rejects; guests pass through undecorated.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := auth.BearerOrCookie(r, s.cfg.CookieName); tok != "" && s.repo != nil {
			if c, err := s.tokens.Parse(tok); err == nil {
				// the user must still exist
				if u, err := s.repo.UserByID(r.Context(), c.ID); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests withOptionalAuth did not decorate.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			fail(w, r, errUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// whoami returns the signed-in user ID, or else a guest ID (set as a cookie if new).
func (s *Server) whoami(w http.ResponseWriter, r *http.Request) (userID, anonID string) {
	if u := currentUser(r); u != nil {
		return u.ID, ""
	}
	return "", s.ensureAnonID(w, r)
}

// identify stamps the requester onto a new session.
func (s *Server) identify(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	sess.UserID, sess.AnonID = s.whoami(w, r)
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := store.RandomID()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: s.sameSite(),
		Expires:  s.now().Add(180 * 24 * time.Hour),
	})
	return id
}

// setAuthCookie writes (or with maxAge < 0, deletes) the auth token cookie.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: s.sameSite(),
		Expires:  exp,
		MaxAge:   maxAge,
	})
}

// sameSite is None in production (required for cross-site cookies when Secure).
func (s *Server) sameSite() http.SameSite {
	if s.cfg.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
