// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today’s daily game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player gets one game per day with at most daily.MaxAttempts guesses
// (enforced by DB + in-memory session). Sessions are held in memory for active
// play; finished games (won or lost) are persisted. After the third failed
// guess a prefix of the answer is revealed as a hint.
// Deterministic word selection is based on date + salt.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/JoaquimColacilli/bloxmision-sub001/internal/daily"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/game"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/words"
)

// Daily session states.
const (
	dailyInProgress = "in_progress"
	dailyWon        = "won"
	dailyLost       = "lost"
	dailyLocked     = "locked"
)

var errNoDailyWord = errors.New("no daily word available")

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	epoch    time.Time
	sessions map[string]*dailySession // active sessions keyed by owner|date
	mu       sync.Mutex               // guards sessions and their fields
}

// dailySession holds transient in-memory state for a daily game.
type dailySession struct {
	GameID    string
	OwnerID   string
	Date      string
	DayNumber int
	WordIndex int
	Answer    string
	Start     time.Time
	Guesses   int
	Finished  bool
	Won       bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		epoch:    s.cfg.DailyEpoch,
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// today returns today's date key, day number, word index, and answer.
func (d *dailyServer) today() (date string, day, idx int, answer string, err error) {
	now := d.srv.now().UTC()
	date = daily.DateKey(now)
	day = daily.DayNumber(now, d.epoch)
	answers := words.Answers()
	if len(answers) == 0 {
		return date, day, 0, "", errNoDailyWord
	}
	idx = daily.WordIndex(now, d.salt, len(answers))
	return date, day, idx, answers[idx], nil
}

// ownerID returns the signed-in user id, or the guest's anon id.
func (d *dailyServer) ownerID(w http.ResponseWriter, r *http.Request) string {
	o := d.srv.owner(w, r)
	if o.UserID != "" {
		return o.UserID
	}
	return o.AnonID
}

// -----------------------------------------------------------------------------
// /daily/new

// newRes is returned by /daily/new.
type newRes struct {
	GameID      string `json:"gameId"`
	Date        string `json:"date"`
	DayNumber   int    `json:"dayNumber"`
	Played      bool   `json:"played"`
	MaxAttempts int    `json:"maxAttempts"`
	Guesses     int    `json:"guesses"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the player already has a DB row for today → return Played=true.
// - Otherwise create/reuse an in-memory session and return GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.ownerID(w, r)
	date, day, idx, answer, err := d.today()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "no_daily_word")
		return
	}

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, newRes{Date: date, DayNumber: day, Played: true, MaxAttempts: daily.MaxAttempts})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	sess, ok := d.sessions[key]
	if !ok {
		sess = &dailySession{
			GameID:    uuid.NewString(),
			OwnerID:   uid,
			Date:      date,
			DayNumber: day,
			WordIndex: idx,
			Answer:    answer,
			Start:     d.srv.now(),
		}
		d.sessions[key] = sess
	}
	writeJSON(w, http.StatusOK, newRes{
		GameID:      sess.GameID,
		Date:        date,
		DayNumber:   day,
		Played:      sess.Finished,
		MaxAttempts: daily.MaxAttempts,
		Guesses:     sess.Guesses,
	})
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	Feedback  *game.Feedback `json:"feedback,omitempty"`
	State     string         `json:"state"` // in_progress | won | lost | locked
	Guesses   int            `json:"guesses"`
	Remaining int            `json:"remaining"`
	Hint      string         `json:"hint,omitempty"`
	Answer    string         `json:"answer,omitempty"` // revealed once lost
}

// handleGuess validates and applies a guess for today's daily session.
// - Rejects if no session; answers "locked" if the session is finished.
// - Validates shape (IsValidGuess), then the allowed word list.
// - Scores the guess with ProcessGuess.
// - Persists the result once the game is won or attempts run out.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.ownerID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if v := game.IsValidGuess(p.Word); !v.Valid {
		writeError(w, http.StatusBadRequest, v.Error)
		return
	}
	if !words.IsAllowed(p.Word) {
		writeError(w, http.StatusBadRequest, "not_in_list")
		return
	}

	date := daily.DateKey(d.srv.now())
	key := uid + "|" + date

	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok || sess.GameID != p.GameID {
		d.mu.Unlock()
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	if sess.Finished {
		res := dailyGuessRes{State: dailyLocked, Guesses: sess.Guesses}
		d.mu.Unlock()
		writeJSON(w, http.StatusOK, res)
		return
	}

	gr := game.ProcessGuess(p.Word, sess.Answer)
	sess.Guesses++
	res := dailyGuessRes{
		Feedback:  &gr.Feedback,
		State:     dailyInProgress,
		Guesses:   sess.Guesses,
		Remaining: daily.MaxAttempts - sess.Guesses,
	}
	switch {
	case gr.IsCorrect:
		sess.Finished, sess.Won = true, true
		res.State = dailyWon
	case sess.Guesses >= daily.MaxAttempts:
		sess.Finished = true
		res.State = dailyLost
		res.Answer = sess.Answer
	default:
		res.Hint = daily.Hint(sess.Answer, sess.Guesses)
	}
	result := daily.Result{
		UserID:    sess.OwnerID,
		Date:      sess.Date,
		DayNumber: sess.DayNumber,
		WordIndex: sess.WordIndex,
		Guesses:   sess.Guesses,
		Won:       sess.Won,
		ElapsedMs: int(d.srv.now().Sub(sess.Start).Milliseconds()),
	}
	finished := sess.Finished
	d.mu.Unlock()

	if finished {
		if err := d.store.InsertResult(r.Context(), result); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("owner", uid).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
