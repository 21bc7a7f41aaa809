// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player can win once per day (enforced by the DB) and holds at most one
// in-memory session per day. Wins are persisted; the secret comes from
// daily.For so every player gets the same word.

package httpserver

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/daily"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/game"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/store"
)

// dailyServer tracks which session belongs to which owner on which date.
type dailyServer struct {
	srv   *Server
	mu    sync.Mutex        // guards byKey
	byKey map[string]string // owner|date → session ID
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	d := &dailyServer{srv: s, byKey: make(map[string]string)}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", d.handleNew)
		r.Post("/guess", d.handleGuess)
		r.Get("/leaderboard", d.handleLeaderboard)
	})
}

func (d *dailyServer) puzzle() daily.Puzzle {
	return daily.For(d.srv.now(), d.srv.cfg.DailySalt, d.srv.dict.Answers())
}

type dailyNewRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
	Turns  int    `json:"turns,omitempty"`
}

// handleNew creates or reuses today's session.
//   - Already has a DB result for today → Played=true, no session.
//   - Otherwise reuse the in-memory session or create one.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	s := d.srv
	p := d.puzzle()
	if p.Answer == "" {
		fail(w, r, errNoDailyAnswer)
		return
	}

	userID, anonID := s.whoami(w, r)
	owner := userID
	if owner == "" {
		owner = anonID
	}

	if s.repo != nil {
		played, err := s.repo.DailyPlayed(r.Context(), owner, p.Date)
		if err != nil {
			fail(w, r, err)
			return
		}
		if played {
			writeJSON(w, http.StatusOK, dailyNewRes{Date: p.Date, Played: true})
			return
		}
	}

	key := owner + "|" + p.Date
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.byKey[key]; ok {
		if existing, err := s.sessions.Get(r.Context(), id); err == nil {
			var turns int
			_ = existing.Do(func(g *game.Game) error { turns = g.Turns(); return nil })
			writeJSON(w, http.StatusOK, dailyNewRes{GameID: existing.ID, Date: p.Date, Turns: turns})
			return
		}
	}

	g, err := game.New(p.Answer, game.WithTurns(s.cfg.MaxTurns), game.WithWordLength(s.cfg.WordLength))
	if err != nil {
		fail(w, r, err)
		return
	}
	sess := store.NewSession(g, store.ModeDaily)
	sess.UserID, sess.AnonID = userID, anonID
	sess.Date, sess.WordIndex = p.Date, p.WordIndex
	if err := s.startSession(r.Context(), sess); err != nil {
		fail(w, r, err)
		return
	}
	d.byKey[key] = sess.ID

	writeJSON(w, http.StatusOK, dailyNewRes{GameID: sess.ID, Date: p.Date, Turns: g.Turns()})
}

type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}

// handleGuess scores a guess in today's session and persists a win.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	s := d.srv
	var req dailyGuessReq
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	sess, err := s.sessions.Get(r.Context(), req.GameID)
	if err != nil {
		fail(w, r, err)
		return
	}
	if sess.Mode != store.ModeDaily || sess.Date != d.puzzle().Date {
		fail(w, r, store.ErrNotFound)
		return
	}
	// only the player who opened today's session may guess in it
	userID, anonID := s.whoami(w, r)
	if owner := sess.Owner(); owner != userID && owner != anonID {
		fail(w, r, store.ErrNotFound)
		return
	}

	res, err := s.applyGuess(r.Context(), sess, req.Word)
	if err != nil {
		fail(w, r, err)
		return
	}

	if res.State == game.StateWon && s.repo != nil {
		elapsed := int(s.now().Sub(sess.StartedAt).Milliseconds())
		if err := s.repo.InsertDaily(r.Context(), store.DailyResult{
			UserID: sess.Owner(), Date: sess.Date, WordIndex: sess.WordIndex, Guesses: res.Guesses, ElapsedMs: elapsed,
		}); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("gameId", sess.ID).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

type leaderboardRes struct {
	Date string                 `json:"date"`
	Top  []store.LeaderboardRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	top := []store.LeaderboardRow{}
	if d.srv.repo != nil {
		rows, err := d.srv.repo.Leaderboard(r.Context(), date, 20)
		if err != nil {
			fail(w, r, err)
			return
		}
		top = rows
	}
	writeJSON(w, http.StatusOK, leaderboardRes{Date: date, Top: top})
}
