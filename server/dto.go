package server

import (
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/togatoga/codevs-reborn/engine"
	"github.com/togatoga/codevs-reborn/protocol"
)

type gameStatusDTO struct {
	RestTimeMs          int     `json:"rest_time_ms"`
	ObstacleBlockCount  int     `json:"obstacle_block_count"`
	SkillPoint          int     `json:"skill_point"`
	CumulativeGameScore int     `json:"cumulative_game_score"`
	Board               [][]int `json:"board"`
}

type searchResultDTO struct {
	Command             string  `json:"command"`
	SearchScore         float64 `json:"search_score"`
	LastChainCount      int     `json:"last_chain_count"`
	CumulativeGameScore int     `json:"cumulative_game_score"`
	GainGameScore       int     `json:"gain_game_score"`
	SearchDepth         int     `json:"search_depth"`
	FireRightNow        bool    `json:"fire_right_now"`
	KillBomber          bool    `json:"kill_bomber"`
	EnemyMaxChainCount  int     `json:"enemy_max_chain_count"`
	NeedKillChainCount  int     `json:"need_kill_chain_count"`
	Board               [][]int `json:"board"`
}

type statsDTO struct {
	Nodes      int64   `json:"nodes"`
	Children   int64   `json:"children"`
	Duplicates int64   `json:"duplicates"`
	GameOvers  int64   `json:"game_overs"`
	CacheProbe int64   `json:"cache_probes"`
	CacheHit   int64   `json:"cache_hits"`
	Depth      int     `json:"depth"`
	Width      int     `json:"width"`
	DepthMs    []int64 `json:"depth_ms"`
}

type statusResponse struct {
	Config       engine.Config    `json:"config"`
	Live         bool             `json:"live"`
	Turn         int              `json:"turn"`
	Thinks       int              `json:"thinks"`
	CacheEntries int              `json:"cache_entries"`
	Clients      int              `json:"clients"`
	Stats        statsDTO         `json:"stats"`
	Last         *searchResultDTO `json:"last,omitempty"`
}

type thinkRequest struct {
	Turn   int            `json:"turn"`
	Packs  [][4]int       `json:"packs"`
	Player gameStatusDTO  `json:"player"`
	Enemy  gameStatusDTO  `json:"enemy"`
	Config *engine.Config `json:"config,omitempty"`
}

func newSearchResultDTO(r engine.SearchResult) searchResultDTO {
	score := r.SearchResultScore
	if math.IsInf(score, 0) || math.IsNaN(score) {
		score = 0
	}
	return searchResultDTO{
		Command:             r.Command.String(),
		SearchScore:         score,
		LastChainCount:      r.LastChainCount,
		CumulativeGameScore: r.CumulativeGameScore,
		GainGameScore:       r.GainGameScore,
		SearchDepth:         r.SearchDepth,
		FireRightNow:        r.FireRightNow,
		KillBomber:          r.KillBomber,
		EnemyMaxChainCount:  r.EnemyMaxChainCount,
		NeedKillChainCount:  r.NeedKillChainCount,
		Board:               r.Board.Rows(),
	}
}

func newStatsDTO(s engine.SearchStats) statsDTO {
	return statsDTO{
		Nodes:      s.Nodes,
		Children:   s.Children,
		Duplicates: s.Duplicates,
		GameOvers:  s.GameOvers,
		CacheProbe: s.EvalCacheProbes,
		CacheHit:   s.EvalCacheHits,
		Depth:      s.BeamDepth,
		Width:      s.BeamWidth,
		DepthMs:    lo.Map(s.DepthDurations, func(d time.Duration, _ int) int64 { return d.Milliseconds() }),
	}
}

// toGameStatus converts a top-row-first board into engine coordinates.
func (dto gameStatusDTO) toGameStatus() (engine.GameStatus, error) {
	if len(dto.Board) != engine.InputFieldHeight {
		return engine.GameStatus{}, fmt.Errorf("%w: board has %d rows, want %d", protocol.ErrMalformedInput, len(dto.Board), engine.InputFieldHeight)
	}
	var grid [engine.InputFieldHeight][engine.FieldWidth]engine.Block
	for i, row := range dto.Board {
		if len(row) != engine.FieldWidth {
			return engine.GameStatus{}, fmt.Errorf("%w: row %d has %d cells, want %d", protocol.ErrMalformedInput, i, len(row), engine.FieldWidth)
		}
		for x, v := range row {
			if v < 0 || v > int(engine.ObstacleBlock) {
				return engine.GameStatus{}, fmt.Errorf("%w: cell value %d at row %d", protocol.ErrMalformedInput, v, i)
			}
			grid[engine.InputFieldHeight-1-i][x] = engine.Block(v)
		}
	}
	return engine.GameStatus{
		RestTimeMs:          dto.RestTimeMs,
		ObstacleBlockCount:  dto.ObstacleBlockCount,
		SkillPoint:          dto.SkillPoint,
		CumulativeGameScore: dto.CumulativeGameScore,
		Board:               engine.NewBoard(grid),
	}, nil
}

func packsFromRequest(raw [][4]int) ([][]engine.PackVariant, error) {
	bad := lo.SomeBy(raw, func(p [4]int) bool {
		return lo.SomeBy(p[:], func(v int) bool { return v < 0 || v > 9 })
	})
	if bad {
		return nil, fmt.Errorf("%w: pack values must be in [0, 9]", protocol.ErrMalformedInput)
	}
	return lo.Map(raw, func(p [4]int, _ int) []engine.PackVariant {
		return engine.Variants([4]engine.Block{engine.Block(p[0]), engine.Block(p[1]), engine.Block(p[2]), engine.Block(p[3])})
	}), nil
}
