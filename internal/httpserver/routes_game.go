// internal/httpserver/routes_game.go
//
// Free-play game routes:
//   - POST /game/new    → start a round (random secret unless one is supplied)
//   - POST /game/guess  → score a guess
//   - GET  /game/{id}   → snapshot of a round; the secret is revealed once it ends
//
// A guess goes through three gates before it costs a turn: the session must
// not be won, the word must have the game's length, and it must be in the
// dictionary. Turn exhaustion is reported by the game core itself.

package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/game"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/store"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/words"
)

// maxClientTurns bounds the turn limit a client may request.
const maxClientTurns = 100

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess", s.handleGuess)
	r.Get("/game/{id}", s.handleGetGame)
}

type newGameReq struct {
	Answer string `json:"answer"` // optional fixed answer (testing); must be an acceptable word
	Turns  int    `json:"turns"`  // optional; defaults to MAX_TURNS
}

type newGameRes struct {
	GameID     string `json:"gameId"`
	Turns      int    `json:"turns"`
	WordLength int    `json:"wordLength"`
}

// handleNewGame creates a session and persists its owner row (best effort).
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			fail(w, r, err)
			return
		}
	}

	answer := req.Answer
	if answer == "" {
		answer = s.dict.RandomAnswer()
	} else if err := s.dict.Validate(answer); err != nil {
		fail(w, r, err)
		return
	}
	turns := req.Turns
	if turns == 0 {
		turns = s.cfg.MaxTurns
	}
	if turns > maxClientTurns {
		fail(w, r, oops.
			Code(game.CodeInvalidTurns).
			With("turns", turns).
			Wrapf(game.ErrInvalidTurns, "turns must be at most %d, got %d", maxClientTurns, turns))
		return
	}

	g, err := game.New(answer, game.WithTurns(turns), game.WithWordLength(s.cfg.WordLength))
	if err != nil {
		fail(w, r, err)
		return
	}
	sess := store.NewSession(g, store.ModeNormal)
	s.identify(w, r, sess)
	if err := s.startSession(r.Context(), sess); err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGameRes{GameID: sess.ID, Turns: g.Turns(), WordLength: g.WordLength()})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type guessRes struct {
	Marks     []game.Mark `json:"marks"`
	State     game.State  `json:"state"`
	Remaining int         `json:"remaining"`
	Guesses   int         `json:"guesses"`
	Answer    string      `json:"answer,omitempty"` // set once the round is over
}

// handleGuess applies a guess to a free-play session and records progress.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	sess, err := s.sessions.Get(r.Context(), req.GameID)
	if err != nil {
		fail(w, r, err)
		return
	}
	res, err := s.applyGuess(r.Context(), sess, req.Guess)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type guessView struct {
	Word  string      `json:"word"`
	Marks []game.Mark `json:"marks"`
}

type gameView struct {
	GameID     string      `json:"gameId"`
	Mode       store.Mode  `json:"mode"`
	State      game.State  `json:"state"`
	Turns      int         `json:"turns"`
	Remaining  int         `json:"remaining"`
	WordLength int         `json:"wordLength"`
	Guesses    []guessView `json:"guesses"`
	Answer     string      `json:"answer,omitempty"`
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	var view gameView
	_ = sess.Do(func(g *game.Game) error {
		view = gameView{
			GameID:     sess.ID,
			Mode:       sess.Mode,
			State:      g.State(),
			Turns:      g.Turns(),
			Remaining:  g.Remaining(),
			WordLength: g.WordLength(),
			Guesses:    []guessView{},
		}
		for _, h := range g.History() {
			view.Guesses = append(view.Guesses, guessView{Word: h.Word, Marks: h.Marks})
		}
		if view.State != game.StatePlaying {
			view.Answer = g.Secret()
		}
		return nil
	})
	writeJSON(w, http.StatusOK, view)
}

// applyGuess runs one guess under the session lock and records it.
func (s *Server) applyGuess(ctx context.Context, sess *store.Session, word string) (guessRes, error) {
	var res guessRes
	err := sess.Do(func(g *game.Game) error {
		if g.Solved() {
			return errGameFinished
		}
		guess, err := words.Submit(g, s.dict, word)
		if err != nil {
			return err
		}
		res = guessRes{
			Marks:     guess.Marks,
			State:     g.State(),
			Remaining: g.Remaining(),
			Guesses:   len(g.History()),
		}
		if res.State != game.StatePlaying {
			res.Answer = g.Secret()
		}
		return nil
	})
	if err != nil {
		return guessRes{}, err
	}

	if s.repo != nil {
		if err := s.repo.RecordGuess(ctx, sess.ID, res.State, sess.UserID); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("gameId", sess.ID).Msg("record guess")
		}
	}
	return res, nil
}

// startSession stores a session in memory and its owner row in the DB.
func (s *Server) startSession(ctx context.Context, sess *store.Session) error {
	sess.StartedAt = s.now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return err
	}
	if s.repo != nil {
		if err := s.repo.RecordSession(ctx, sess); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("gameId", sess.ID).Msg("record session")
		}
	}
	return nil
}
