// Package gametest provides an in-process fake of the brains-and-bets game
// server for tests. It serves the same routes under /api/v1/game/, keeps a
// minimal registry of games and players, answers with the server's
// {"error", "message"} bodies and records every request it receives.
package gametest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultQuestion is the question of the first round of every new game.
const DefaultQuestion = "How many moons does Jupiter have?"

// Request is a request as received by the fake server.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into a generic map.
func (r Request) JSON() (map[string]any, error) {
	var out map[string]any
	err := json.Unmarshal(r.Body, &out)
	return out, err
}

type answer struct {
	Player string `json:"player"`
	Answer string `json:"answer"`
}

type game struct {
	players     map[string]bool
	answers     []answer
	guesses     []json.RawMessage
	scores      map[string]float64
	roundScores map[string]float64
}

// Server is a running fake game server. Close it when done.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	games    map[string]*game
	requests []Request
}

// New starts a fake server.
func New() *Server {
	s := &Server{games: make(map[string]*game)}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Route("/api/v1/game", func(r chi.Router) {
		r.Put("/{game}", s.handleCreate)
		r.Post("/{game}", s.handleJoin)
		r.Get("/{game}", s.handleGame)
		r.Delete("/{game}", s.handleDelete)
		r.Post("/{game}/answer", s.handleAnswer)
		r.Post("/{game}/guess", s.handleGuess)
		r.Post("/{game}/wager", s.handleGuess)
		r.Delete("/{game}/exit", s.handleExit)
		r.Get("/{game}/score", s.handleScore)
		r.Get("/{game}/round_score", s.handleRoundScore)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL returns the value a client should use as its base path.
func (s *Server) BaseURL() string {
	return s.URL + "/api/v1/game/"
}

// Requests returns a copy of all recorded requests in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request. ok is false if none arrived.
func (s *Server) LastRequest() (req Request, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// SetScores installs the cumulative scores returned for a game, creating
// the game if needed.
func (s *Server) SetScores(gameID string, scores map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameLocked(gameID).scores = scores
}

// SetRoundScores installs the round deltas returned for a game.
func (s *Server) SetRoundScores(gameID string, scores map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameLocked(gameID).roundScores = scores
}

// AddPlayer registers a player directly, bypassing the HTTP API.
func (s *Server) AddPlayer(gameID, player string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameLocked(gameID).players[player] = true
}

func (s *Server) gameLocked(gameID string) *game {
	g, ok := s.games[gameID]
	if !ok {
		g = &game{players: make(map[string]bool)}
		s.games[gameID] = g
	}
	return g
}

// ========== Middleware ==========

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// ========== Handlers ==========

// PUT /api/v1/game/{game}
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Player string `json:"player"`
	}
	if !decode(w, r, &p) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "game")
	if _, exists := s.games[id]; exists {
		writeBadRequest(w, "GameConflict", "game conflict")
		return
	}
	s.gameLocked(id).players[p.Player] = true
	w.WriteHeader(http.StatusOK)
}

// POST /api/v1/game/{game}
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Player string `json:"player"`
	}
	if !decode(w, r, &p) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[chi.URLParam(r, "game")]
	if !ok {
		writeBadRequest(w, "GameNotFound", "game not found")
		return
	}
	if g.players[p.Player] {
		writeBadRequest(w, "PlayerConflict", "player conflict")
		return
	}
	g.players[p.Player] = true
	w.WriteHeader(http.StatusOK)
}

// GET /api/v1/game/{game}
func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[chi.URLParam(r, "game")]
	if !ok {
		writeBadRequest(w, "GameNotFound", "game not found")
		return
	}

	players := make([]string, 0, len(g.players))
	for p := range g.players {
		players = append(players, p)
	}
	sort.Strings(players)

	answers := g.answers
	if answers == nil {
		answers = []answer{}
	}
	guesses := g.guesses
	if guesses == nil {
		guesses = []json.RawMessage{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"players": players,
		"rounds": []map[string]any{{
			"question": DefaultQuestion,
			"answers":  answers,
			"guesses":  guesses,
		}},
	})
}

// DELETE /api/v1/game/{game}
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, chi.URLParam(r, "game"))
	w.WriteHeader(http.StatusOK)
}

// POST /api/v1/game/{game}/answer
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var a answer
	if !decode(w, r, &a) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.playerGameLocked(w, chi.URLParam(r, "game"), a.Player)
	if !ok {
		return
	}
	g.answers = append(g.answers, a)
	w.WriteHeader(http.StatusOK)
}

// POST /api/v1/game/{game}/guess and /wager
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !decode(w, r, &raw) {
		return
	}
	var p struct {
		Player string `json:"player"`
	}
	_ = json.Unmarshal(raw, &p)

	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.playerGameLocked(w, chi.URLParam(r, "game"), p.Player)
	if !ok {
		return
	}
	g.guesses = append(g.guesses, raw)
	w.WriteHeader(http.StatusOK)
}

// DELETE /api/v1/game/{game}/exit
func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Player string `json:"player"`
	}
	if !decode(w, r, &p) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[chi.URLParam(r, "game")]
	if !ok {
		writeBadRequest(w, "GameNotFound", "game not found")
		return
	}
	delete(g.players, p.Player)
	w.WriteHeader(http.StatusOK)
}

// GET /api/v1/game/{game}/score
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	s.writeScores(w, chi.URLParam(r, "game"), func(g *game) map[string]float64 { return g.scores })
}

// GET /api/v1/game/{game}/round_score
func (s *Server) handleRoundScore(w http.ResponseWriter, r *http.Request) {
	s.writeScores(w, chi.URLParam(r, "game"), func(g *game) map[string]float64 { return g.roundScores })
}

func (s *Server) writeScores(w http.ResponseWriter, gameID string, pick func(*game) map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		writeBadRequest(w, "GameNotFound", "game not found")
		return
	}
	scores := pick(g)
	if scores == nil {
		scores = map[string]float64{}
	}
	writeJSON(w, http.StatusOK, scores)
}

func (s *Server) playerGameLocked(w http.ResponseWriter, gameID, player string) (*game, bool) {
	g, ok := s.games[gameID]
	if !ok {
		writeBadRequest(w, "GameNotFound", "game not found")
		return nil, false
	}
	if !g.players[player] {
		writeBadRequest(w, "PlayerNotFound", "player not found")
		return nil, false
	}
	return g, true
}

// ========== Helpers ==========

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid JSON body", http.StatusUnprocessableEntity)
		return false
	}
	return true
}

func writeBadRequest(w http.ResponseWriter, name, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": name, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
