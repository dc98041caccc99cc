// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game (creates or reuses the session)
//   - POST /daily/shoot       → fire at today's board
//   - GET  /daily/leaderboard → top results for today (or ?date=YYYY-MM-DD)
//
// Each player gets one attempt per day: the daily_sessions table pins the
// player's game for the date, so the slot survives restarts and is shared by
// every replica. The board itself lives in the game store. Results are
// persisted on win.

package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/internal/auth"
	"github.com/robalobadob/battleship/internal/daily"
	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv   *Server
	store *daily.Store
	salt  string
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:   s,
		store: daily.NewStore(s.db),
		salt:  s.cfg.Daily.Salt,
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/shoot", dd.handleShoot)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// player returns the signed-in user id, or the anon cookie id for guests.
func (d *dailyServer) player(w http.ResponseWriter, r *http.Request) string {
	if me := auth.FromContext(r.Context()); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	Date   string `json:"date"`
	Played bool   `json:"played"`
	*gameView
}

// handleNew creates or reuses today's session.
// A player with a stored result for today gets Played=true and no board.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.player(w, r)
	now := d.srv.now()
	date := daily.DateKey(now)

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		log.Error().Err(err).Str("player", uid).Msg("check daily result")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	sess, err := d.store.FindSession(r.Context(), uid, date)
	if err != nil {
		log.Error().Err(err).Str("player", uid).Msg("load daily session")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if sess == nil {
		if sess, err = d.startSession(r, uid, now); err != nil {
			log.Error().Err(err).Str("player", uid).Str("date", date).Msg("start daily session")
			writeError(w, http.StatusInternalServerError, "start_failed")
			return
		}
	}

	g, err := d.srv.store.Get(r.Context(), sess.GameID)
	if errors.Is(err, store.ErrNotFound) {
		// the board expired from the session store; the attempt is spent
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("gameId", sess.GameID).Msg("load daily game")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}

	v := viewOf(g, false)
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, gameView: &v})
}

// startSession deals today's board and claims the player's slot for it. The
// game is saved before the claim so a recorded session always has a board; if
// another request claimed the slot first, its session wins and the new game is
// left to expire.
func (d *dailyServer) startSession(r *http.Request, uid string, now time.Time) (*daily.Session, error) {
	g, err := daily.NewGame(now, d.salt)
	if err != nil {
		return nil, err
	}
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		return nil, fmt.Errorf("save daily game: %w", err)
	}
	date := daily.DateKey(now)
	sess, created, err := d.store.ClaimSession(r.Context(), uid, date, g.ID, now)
	if err != nil {
		return nil, err
	}
	if created {
		if n, err := d.store.PruneSessions(r.Context(), date); err != nil {
			log.Warn().Err(err).Msg("prune daily sessions")
		} else if n > 0 {
			log.Debug().Int64("sessions", n).Msg("pruned daily sessions")
		}
	}
	return sess, nil
}

// -----------------------------------------------------------------------------
// /daily/shoot

type dailyShootRes struct {
	Date    string           `json:"date"`
	Outcome game.ShotOutcome `json:"outcome"`
	gameView
}

// handleShoot applies a shot to today's board and stores the result on win.
func (d *dailyServer) handleShoot(w http.ResponseWriter, r *http.Request) {
	var req shootReq
	if !decodeBody(r, &req) || req.GameID == "" || req.Row == nil || req.Col == nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	if !game.InBounds(*req.Row, *req.Col) {
		writeError(w, http.StatusBadRequest, "out_of_range")
		return
	}

	uid := d.player(w, r)
	date := daily.DateKey(d.srv.now())
	sess, err := d.store.FindSession(r.Context(), uid, date)
	if err != nil {
		log.Error().Err(err).Str("player", uid).Msg("load daily session")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if sess == nil || sess.GameID != req.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	d.srv.mu.Lock()
	defer d.srv.mu.Unlock()

	g, ok := d.srv.loadGame(w, r, sess.GameID)
	if !ok {
		return
	}
	wasOver := g.Session.GameOver
	out := g.Shoot(*req.Row, *req.Col)
	if out.Accepted() {
		if err := d.srv.store.Save(r.Context(), g); err != nil {
			log.Error().Err(err).Str("gameId", g.ID).Msg("save daily game")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}
	}
	if !wasOver && g.Session.GameOver {
		res := daily.Result{
			UserID:    uid,
			Date:      date,
			Shots:     g.Session.Shots,
			ElapsedMs: int(d.srv.now().Sub(sess.Start).Milliseconds()),
		}
		if err := d.store.InsertResult(r.Context(), res); err != nil {
			log.Error().Err(err).Str("player", uid).Msg("store daily result")
		}
	}
	writeJSON(w, http.StatusOK, dailyShootRes{Date: date, Outcome: out, gameView: viewOf(g, g.Session.GameOver)})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbQuery struct {
	Date  string `schema:"date"`
	Limit int    `schema:"limit"`
}

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	var q lbQuery
	if err := d.srv.dec.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "bad_query")
		return
	}
	if q.Date == "" {
		q.Date = daily.DateKey(d.srv.now())
	}
	if _, err := time.Parse(time.DateOnly, q.Date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	rows, err := d.store.Leaderboard(r.Context(), q.Date, q.Limit)
	if err != nil {
		log.Error().Err(err).Str("date", q.Date).Msg("load leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: q.Date, Top: rows})
}
