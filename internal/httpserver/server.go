// internal/httpserver/server.go
//
// HTTP server wiring for the Wordle backend.
// Responsibilities:
//   - Router + middleware (request logging, JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess, GET /game/{id}.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//   - Mapping of core and collaborator error kinds to status codes.
//
// Notes:
//   - Scoring and turn limits live in package game; dictionary checks in package words.
//   - Every guess on a session runs inside Session.Do, so one session never
//     sees two guesses at once.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/oops"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/auth"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/config"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/game"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/store"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/words"
)

// Dictionary is the word-list collaborator the server needs.
type Dictionary interface {
	words.Checker
	Validate(word string) error
	RandomAnswer() string
	Answers() []string
	Stats() (answers, allowed int)
}

// Server bundles router, session store, dictionary and DB repository.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	dict     Dictionary
	sessions store.Store
	repo     *store.Repo
	tokens   *auth.Issuer
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, dict Dictionary, sessions store.Store, repo *store.Repo) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		dict:     dict,
		sessions: sessions,
		repo:     repo,
		tokens:   auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL),
		now:      time.Now,
	}

	// --- middleware ---
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(chimw.RequestID)
	s.r.Use(requestLogger)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "wordle-core",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/guess", "GET /game/{id}", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := s.dict.Stats()
		writeJSON(w, http.StatusOK, map[string]int{"answers": a, "allowed": g})
	})

	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth)

		// guests can play
		s.mountGame(r)
		s.mountDaily(r)
		s.mountAuth(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, apiError{Error: "not_found: " + r.URL.Path, Code: "NOT_FOUND"})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// requestLogger writes one access log line per request, tagged with chi's request ID.
func requestLogger(next http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("req_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(next)
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- errors ------------------------------------

var (
	errBadRequest    = errors.New("bad request")
	errUnauthorized  = errors.New("unauthorized")
	errGameFinished  = errors.New("game finished")
	errNoDailyAnswer = errors.New("no daily answer available")
)

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps an error kind to an HTTP status and a stable code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrInvalidLength):
		return http.StatusBadRequest, game.CodeInvalidLength
	case errors.Is(err, game.ErrInvalidTurns):
		return http.StatusBadRequest, game.CodeInvalidTurns
	case errors.Is(err, game.ErrTurnsExhausted):
		return http.StatusConflict, game.CodeTurnsExhausted
	case errors.Is(err, words.ErrNotAcceptableWord):
		return http.StatusUnprocessableEntity, words.CodeNotAcceptableWord
	case errors.Is(err, errGameFinished):
		return http.StatusConflict, "GAME_FINISHED"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, store.ErrUsernameTaken):
		return http.StatusConflict, "USERNAME_TAKEN"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, errNoDailyAnswer):
		return http.StatusServiceUnavailable, "NO_DAILY_ANSWER"
	}
	if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Code() == auth.CodeInvalidSignup {
		return http.StatusBadRequest, auth.CodeInvalidSignup
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// fail logs err with its oops context and writes a JSON error body.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)

	logger := hlog.FromRequest(r)
	var ev *zerolog.Event
	if status >= http.StatusInternalServerError {
		ev = logger.Error()
	} else {
		ev = logger.Debug()
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		ev = ev.Fields(oopsErr.Context())
	}
	ev.Err(err).Str("code", code).Int("status", status).Msg("request failed")

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, apiError{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return oops.Wrap(errors.Join(errBadRequest, err))
	}
	return nil
}
