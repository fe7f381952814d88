// internal/httpserver/routes_game.go
//
// Free-play word game endpoints.
//   - POST /game/new   → start an in-memory game, record its owner row
//   - POST /game/guess → apply a guess, persist counters/history
//
// The answer lives only in memory; history rows never store it.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/JoaquimColacilli/bloxmision-sub001/internal/game"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/store"
)

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Answer string `json:"answer"` // fixed answer, honored outside production (testing)
}
type newGameRes struct {
	GameID string `json:"gameId"`
	Rows   int    `json:"rows"`
}

// handleNewGame creates a new in-memory game and persists a DB owner row
// (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if s.cfg.Production {
		req.Answer = ""
	}

	g := game.New(req.Answer)
	if err := s.games.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	if err := s.history.Start(r.Context(), g.ID, s.owner(w, r), s.now()); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}
	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Rows: g.Rows})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Feedback game.Feedback `json:"feedback"`
	State    string        `json:"state"` // "playing" | "won" | "lost"
	Answer   string        `json:"answer,omitempty"`
}

// handleGuess applies a guess to an in-memory game and persists progress
// (best effort, non-fatal if it fails).
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var res guessRes
	err := s.games.Update(r.Context(), req.GameID, func(g *game.Game) error {
		f, state, err := g.ApplyGuess(req.Guess)
		if err != nil {
			return err
		}
		res = guessRes{Feedback: f, State: state}
		if state == game.StatusLost {
			res.Answer = g.Answer
		}
		return nil
	})

	var inv *game.InvalidGuessError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case errors.As(err, &inv):
		writeError(w, http.StatusBadRequest, inv.Reason)
		return
	case errors.Is(err, game.ErrNotInList):
		writeError(w, http.StatusBadRequest, "not_in_list")
		return
	case errors.Is(err, game.ErrGameFinished):
		writeError(w, http.StatusConflict, "game_finished")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	if err := s.history.Guess(r.Context(), req.GameID, s.owner(w, r), res.State, s.now()); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", req.GameID).Msg("record guess")
	}
	writeJSON(w, http.StatusOK, res)
}
