package server

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/togatoga/codevs-reborn/engine"
)

// Session guards the live Solver so the game loop and HTTP handlers can share
// it. Solver is nil when serving without a live game.
type Session struct {
	mu     sync.Mutex
	solver *engine.Solver
	store  *engine.ConfigStore
	hub    *AnalyticsHub
	turn   int
	last   *engine.SearchResult
	thinks int
}

func NewSession(solver *engine.Solver, store *engine.ConfigStore, hub *AnalyticsHub) *Session {
	return &Session{solver: solver, store: store, hub: hub, turn: -1}
}

// Think runs one turn on the live Solver and broadcasts the outcome.
func (s *Session) Think(turn int, player, enemy engine.GameStatus) engine.SearchResult {
	s.mu.Lock()
	s.solver.SetGameStatus(player, enemy)
	result := s.solver.Think(turn)
	s.turn = turn
	s.last = &result
	s.thinks++
	cacheLen := s.solver.CacheLen()
	s.mu.Unlock()

	s.publish("think", turn, result, cacheLen)
	return result
}

func (s *Session) publish(event string, turn int, result engine.SearchResult, cacheLen int) {
	if s.hub == nil {
		return
	}
	dto := newSearchResultDTO(result)
	s.hub.Publish(analyticsPayload{
		Event:     event,
		Turn:      turn,
		Result:    &dto,
		CacheLen:  cacheLen,
		UpdatedAt: time.Now().UnixMilli(),
	})
}

func (s *Session) Config() engine.Config {
	return s.store.Get()
}

// UpdateConfig validates and stores config; the live Solver picks it up
// before its next turn.
func (s *Session) UpdateConfig(config engine.Config) error {
	if err := s.store.Update(config); err != nil {
		return err
	}
	s.mu.Lock()
	if s.solver != nil {
		s.solver.SetConfig(config)
	}
	s.mu.Unlock()
	log.Info().Str("component", "server").Int("depth", config.BeamDepth).Int("width", config.BeamWidth).Msg("config updated")
	return nil
}

// ClearCache empties the live evaluation cache and returns how many entries
// were dropped.
func (s *Session) ClearCache() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.solver == nil {
		return 0
	}
	n := s.solver.CacheLen()
	s.solver.ClearCache()
	return n
}

func (s *Session) CacheLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.solver == nil {
		return 0
	}
	return s.solver.CacheLen()
}

func (s *Session) LastResult() (int, *searchResultDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return s.turn, nil
	}
	dto := newSearchResultDTO(*s.last)
	return s.turn, &dto
}

func (s *Session) status() statusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := statusResponse{
		Config: s.store.Get(),
		Live:   s.solver != nil,
		Turn:   s.turn,
		Thinks: s.thinks,
	}
	if s.solver != nil {
		resp.CacheEntries = s.solver.CacheLen()
		resp.Stats = newStatsDTO(s.solver.LastStats())
	}
	if s.last != nil {
		dto := newSearchResultDTO(*s.last)
		resp.Last = &dto
	}
	if s.hub != nil {
		resp.Clients = s.hub.ClientCount()
	}
	return resp
}
