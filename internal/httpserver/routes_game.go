// internal/httpserver/routes_game.go
//
// Free-play game endpoints (optional auth; guests play under an anon cookie):
//   - POST /game/new           → deal a fresh board
//   - GET  /game/{id}?reveal=  → current view (ships shown when reveal=true)
//   - POST /game/shoot         → fire one shot
//   - POST /game/reset         → redeal under the same id
//
// Accepted shots are mirrored into the games table; the win is credited to the
// user's stats exactly once.

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/internal/daily"
	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Get("/game/{id}", s.handleGetGame)
	r.Post("/game/shoot", s.handleShoot)
	r.Post("/game/reset", s.handleReset)
}

// gameView is the JSON shape of a game as the client sees it.
type gameView struct {
	GameID  string            `json:"gameId"`
	Board   [][]game.CellView `json:"board"`
	Session game.Session      `json:"session"`
	State   game.State        `json:"state"`
	Status  string            `json:"status"`
}

func viewOf(g *game.Game, reveal bool) gameView {
	return gameView{
		GameID:  g.ID,
		Board:   g.Board.View(reveal),
		Session: g.Session,
		State:   g.Session.State(),
		Status:  g.Status(),
	}
}

type viewQuery struct {
	Reveal bool `schema:"reveal"`
}

type shootReq struct {
	GameID string `json:"gameId"`
	Row    *int   `json:"row"`
	Col    *int   `json:"col"`
}

type shootRes struct {
	Outcome game.ShotOutcome `json:"outcome"`
	gameView
}

type resetReq struct {
	GameID string `json:"gameId"`
}

// handleNewGame deals a board, stores the game and records its owner row.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	g, err := game.New(s.rnd)
	if err != nil {
		log.Error().Err(err).Msg("generate board")
		writeError(w, http.StatusInternalServerError, "generate_failed")
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.startHistory(w, r, g.ID)
	writeJSON(w, http.StatusOK, viewOf(g, false))
}

// handleGetGame returns the current view. Daily boards are only revealed once won.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var q viewQuery
	if err := s.dec.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "bad_query")
		return
	}
	g, ok := s.loadGame(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	reveal := q.Reveal
	if daily.IsDailyID(g.ID) && !g.Session.GameOver {
		reveal = false
	}
	writeJSON(w, http.StatusOK, viewOf(g, reveal))
}

// handleShoot validates coordinates, applies the shot and persists progress.
func (s *Server) handleShoot(w http.ResponseWriter, r *http.Request) {
	var req shootReq
	if !decodeBody(r, &req) || req.GameID == "" || req.Row == nil || req.Col == nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	if !game.InBounds(*req.Row, *req.Col) {
		writeError(w, http.StatusBadRequest, "out_of_range")
		return
	}
	if daily.IsDailyID(req.GameID) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.loadGame(w, r, req.GameID)
	if !ok {
		return
	}
	out := g.Shoot(*req.Row, *req.Col)
	if out.Accepted() {
		if err := s.store.Save(r.Context(), g); err != nil {
			log.Error().Err(err).Str("gameId", g.ID).Msg("save game")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}
		s.recordProgress(w, r, g)
	}
	writeJSON(w, http.StatusOK, shootRes{Outcome: out, gameView: viewOf(g, false)})
}

// handleReset redeals the board; the id and owner row are kept, counters rewound.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if !decodeBody(r, &req) || req.GameID == "" {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	if daily.IsDailyID(req.GameID) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.loadGame(w, r, req.GameID)
	if !ok {
		return
	}
	if err := g.Reset(s.rnd); err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("reset game")
		writeError(w, http.StatusInternalServerError, "generate_failed")
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.startHistory(w, r, g.ID)
	writeJSON(w, http.StatusOK, viewOf(g, false))
}

// loadGame fetches a game, writing 404/500 on failure.
func (s *Server) loadGame(w http.ResponseWriter, r *http.Request, id string) (*game.Game, bool) {
	g, err := s.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	case err != nil:
		log.Error().Err(err).Str("gameId", id).Msg("load game")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return nil, false
	}
	return g, true
}

// startHistory writes (or rewinds) the owner row. Best effort: failures are logged.
func (s *Server) startHistory(w http.ResponseWriter, r *http.Request, id string) {
	owner := s.owner(w, r)
	if err := s.history.Start(r.Context(), id, owner); err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("insert game row")
	}
	if owner.UserID != "" {
		if err := s.users.RecordGameStarted(r.Context(), owner.UserID); err != nil {
			log.Warn().Err(err).Str("user", owner.UserID).Msg("bump games played")
		}
	}
}

// recordProgress mirrors the session into the games table and credits a win once.
func (s *Server) recordProgress(w http.ResponseWriter, r *http.Request, g *game.Game) {
	owner := s.owner(w, r)
	finished, err := s.history.Update(r.Context(), g.ID, owner, g.Session)
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("update game row")
		return
	}
	if finished && owner.UserID != "" {
		if err := s.users.RecordWin(r.Context(), owner.UserID, g.Session.Shots); err != nil {
			log.Warn().Err(err).Str("user", owner.UserID).Msg("record win")
		}
	}
}
