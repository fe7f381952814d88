// internal/httpserver/routes_levels.go
//
// HTTP routes for the block-programming levels.
//   - GET  /levels          → level catalog in play order
//   - GET  /levels/{id}     → one level definition
//   - POST /levels/{id}/run → validate a program against the level
//
// Runs by signed-in players are also submitted to the progress service;
// guests get the validation result only.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/JoaquimColacilli/bloxmision-sub001/internal/auth"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/blocks"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/levels"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/progress"
)

func (s *Server) mountLevels(r chi.Router) {
	r.Route("/levels", func(r chi.Router) {
		r.Get("/", s.handleListLevels)
		r.Get("/{id}", s.handleGetLevel)
		r.Post("/{id}/run", s.handleRun)
	})
}

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.levels.List())
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	lvl, err := s.levels.Get(chi.URLParam(r, "id"))
	if errors.Is(err, levels.ErrNotFound) {
		writeError(w, http.StatusNotFound, "level_not_found")
		return
	}
	writeJSON(w, http.StatusOK, lvl)
}

// runReq carries the program as the UI sends it.
type runReq struct {
	Blocks json.RawMessage `json:"blocks"`
}

// runRes is the validation result plus, for signed-in players, what the run earned.
type runRes struct {
	blocks.ValidationResult
	Progress *progress.Outcome `json:"progress,omitempty"`
}

// unavailableRes is returned when a program uses blocks outside the level palette.
type unavailableRes struct {
	Error string           `json:"error"`
	Index int              `json:"index"`
	Type  blocks.BlockType `json:"type"`
}

// handleRun decodes the program, checks it against the level palette,
// validates it, and records progress when the player is signed in.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	lvl, err := s.levels.Get(chi.URLParam(r, "id"))
	if errors.Is(err, levels.ErrNotFound) {
		writeError(w, http.StatusNotFound, "level_not_found")
		return
	}

	var req runReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	program, err := blocks.Translate(req.Blocks)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_program")
		return
	}

	var ue *blocks.UnavailableBlockError
	if err := blocks.CheckAvailable(lvl, program); errors.As(err, &ue) {
		writeJSON(w, http.StatusBadRequest, unavailableRes{Error: "block_unavailable", Index: ue.Index, Type: ue.Type})
		return
	}

	res := blocks.NewValidator(lvl).Validate(program)
	logger := hlog.FromRequest(r)
	logger.Debug().
		Str("level", lvl.ID).
		Int("blocks", len(program)).
		Int("nodes", blocks.CountBlocks(program)).
		Bool("success", res.Success).
		Msg("program run")

	out := runRes{ValidationResult: res}
	if me, ok := auth.UserFrom(r.Context()); ok {
		outcome, err := s.progress.Submit(r.Context(), me.ID, lvl, res, len(program))
		if err != nil {
			logger.Warn().Err(err).Str("user", me.ID).Str("level", lvl.ID).Msg("submit progress")
		} else {
			out.Progress = &outcome
		}
	}
	writeJSON(w, http.StatusOK, out)
}
