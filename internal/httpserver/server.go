// internal/httpserver/server.go
//
// HTTP server wiring for the Battleship backend.
// Responsibilities:
//   - Router + middleware (request IDs, request logging, panic recovery, timeouts, CORS, JSON).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): mounted in routes_game.go.
//   - Daily Challenge endpoints (optional auth): mounted in routes_daily.go.
//   - Auth + profile/stat endpoints: mounted in routes_auth.go.
//
// Notes:
//   - Game state lives in a store.Store; every load → mutate → save cycle runs
//     under one mutex so two shots on the same game cannot interleave.
//   - The shared random source is wrapped in a lock; *rand.Rand is not safe for
//     concurrent use.

package httpserver

import (
	"crypto/rand"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	mrand "math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/schema"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/internal/auth"
	"github.com/robalobadob/battleship/internal/config"
	"github.com/robalobadob/battleship/internal/history"
	"github.com/robalobadob/battleship/internal/store"
)

// Server bundles the router, the game store and the SQL-backed services.
type Server struct {
	r       *chi.Mux
	cfg     *config.Config
	store   store.Store
	db      *sql.DB
	users   *auth.Users
	tokens  *auth.Tokens
	authmw  *auth.Middleware
	history *history.Store
	rnd     *lockedRand
	dec     *schema.Decoder
	now     func() time.Time

	mu sync.Mutex // serializes game mutations
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, st store.Store, db *sql.DB) *Server {
	tokens := &auth.Tokens{
		Secret:     []byte(cfg.Auth.JWTSecret),
		TTL:        time.Duration(cfg.Auth.ExpireDays) * 24 * time.Hour,
		CookieName: cfg.Auth.CookieName,
		Secure:     cfg.Production,
	}
	users := auth.NewUsers(db)

	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		store:   st,
		db:      db,
		users:   users,
		tokens:  tokens,
		authmw:  &auth.Middleware{Tokens: tokens, Users: users},
		history: history.NewStore(db),
		rnd:     newLockedRand(),
		dec:     dec,
		now:     time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(corsFor(cfg.ClientOrigin))
	s.r.Use(jsonContentType)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "battleship-go",
			"endpoints": []string{
				"/health", "POST /game/new", "GET /game/{id}", "POST /game/shoot", "POST /game/reset",
				"/daily/*", "/auth/*",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Group(func(r chi.Router) {
		r.Use(s.authmw.Optional)
		s.mountGame(r)
		s.mountDaily(r)
	})
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router, for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.r }

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

const anonCookieName = "battleship_anon"

// anonID returns the anonymous cookie value, or "" when the client has none.
func anonID(r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil {
		return c.Value
	}
	return ""
}

// ensureAnonID returns an existing anon cookie or sets a new one.
// Used to associate guest games with a stable identifier.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if id := anonID(r); id != "" {
		return id
	}
	id := auth.GenID()
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// owner resolves who a game row belongs to: the signed-in user, else the anon cookie.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) history.Owner {
	if me := auth.FromContext(r.Context()); me != nil {
		return history.Owner{UserID: me.ID}
	}
	return history.Owner{AnonymousID: s.ensureAnonID(w, r)}
}

// lockedRand guards a *rand.Rand shared by all requests.
type lockedRand struct {
	mu sync.Mutex
	r  *mrand.Rand
}

func newLockedRand() *lockedRand {
	var seed [16]byte
	_, _ = rand.Read(seed[:])
	return &lockedRand{r: mrand.New(mrand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	))}
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}
