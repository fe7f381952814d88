// internal/httpserver/server.go
//
// HTTP server wiring for the BloxMision backend.
// Responsibilities:
//   - Router + middleware (request IDs, access logs, panic recovery, timeouts, JSON, CORS).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Level catalog and program runs: mounted under /levels (optional auth).
//   - Free-play word game (optional auth): POST /game/new, POST /game/guess.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile endpoints: /auth/*, /stats/me, /games/mine, /progress/me.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is present;
//     routes can still run for guests.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/JoaquimColacilli/bloxmision-sub001/internal/auth"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/config"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/levels"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/progress"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/store"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/words"
)

// Deps are the collaborators a Server is built from.
type Deps struct {
	Config config.Config
	DB     *sql.DB
	Games  store.Store
	Levels *levels.Catalog
	Logger zerolog.Logger
}

// Server bundles the router and the services behind it.
type Server struct {
	r   *chi.Mux
	cfg config.Config
	db  *sql.DB
	now func() time.Time

	games    store.Store
	history  *store.History
	levels   *levels.Catalog
	progress *progress.Service
	users    *auth.Users
	tokens   *auth.Tokens
	authmw   *auth.Middleware
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	tokens := auth.NewTokens(auth.Options{
		Secret:      d.Config.JWTSecret,
		ExpiresDays: d.Config.JWTExpiresDays,
		CookieName:  d.Config.CookieName,
		Production:  d.Config.Production,
	})
	users := auth.NewUsers(d.DB)
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		db:       d.DB,
		now:      time.Now,
		games:    d.Games,
		history:  store.NewHistory(d.DB),
		levels:   d.Levels,
		progress: progress.NewService(d.DB),
		users:    users,
		tokens:   tokens,
		authmw:   auth.NewMiddleware(tokens, users),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(d.Logger))       // per-request logger
	s.r.Use(requestIDLogger)                 // tag logs with the request id
	s.r.Use(hlog.AccessHandler(accessLog))   // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(d.Config.ClientOrigin))     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "bloxmision",
			"endpoints": []string{
				"/health", "GET /levels", "POST /levels/{id}/run",
				"POST /game/new", "POST /game/guess", "/daily/*", "/auth/*",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := words.Stats()
		writeJSON(w, http.StatusOK, map[string]int{"answers": a, "allowed": g})
	})

	optional := s.r.With(s.authmw.Optional)

	// Levels: guests can run programs; signed-in runs also record progress.
	s.mountLevels(optional)

	// Free-play word game: guests can play.
	optional.Post("/game/new", s.handleNewGame)
	optional.Post("/game/guess", s.handleGuess)

	// Daily Challenge: guests can play; results keyed by user or anon id.
	s.mountDaily(optional)

	// Auth + profile (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router as an http.Handler.
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
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
}

// requestIDLogger copies chi's request id into the request logger.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// owner returns the signed-in user id, or a guest id from the anon cookie.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) store.Owner {
	if me, ok := auth.UserFrom(r.Context()); ok {
		return store.Owner{UserID: me.ID}
	}
	return store.Owner{AnonID: s.tokens.EnsureAnonID(w, r)}
}
