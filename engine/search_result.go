package engine

import (
	"github.com/rs/zerolog"
)

// SearchResult is what Think hands back: the chosen command plus the line
// of play that justified it.
type SearchResult struct {
	SearchResultScore   float64
	LastChainCount      int
	CumulativeGameScore int
	GainGameScore       int
	SearchDepth         int
	Board               Board
	Command             Command
	FireRightNow        bool

	EnemyMaxChainCount int
	NeedKillChainCount int
	KillBomber         bool
}

func (r SearchResult) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("search_score", r.SearchResultScore).
		Int("cumulative_game_score", r.CumulativeGameScore).
		Int("gain_game_score", r.GainGameScore).
		Int("last_chain_count", r.LastChainCount).
		Int("search_depth", r.SearchDepth).
		Bool("fire_right_now", r.FireRightNow).
		Bool("kill_bomber", r.KillBomber).
		Int("enemy_max_chain", r.EnemyMaxChainCount).
		Int("need_kill_chain", r.NeedKillChainCount).
		Stringer("command", r.Command)
}
