package engine

import (
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
)

type SearchStats struct {
	Nodes           int64
	Children        int64
	Duplicates      int64
	GameOvers       int64
	EvalCacheProbes int64
	EvalCacheHits   int64
	Start           time.Time
	DepthDurations  []time.Duration
	CompletedDepths int
	BeamDepth       int
	BeamWidth       int
}

func logSearchStats(tag string, stats *SearchStats, cacheEntries int) {
	if stats == nil {
		return
	}
	elapsed := time.Duration(0)
	if !stats.Start.IsZero() {
		elapsed = time.Since(stats.Start)
	} else {
		for _, d := range stats.DepthDurations {
			elapsed += d
		}
	}
	nps := 0.0
	if elapsed > 0 {
		nps = float64(stats.Children) / elapsed.Seconds()
	}
	evalHitRate := 0.0
	if stats.EvalCacheProbes > 0 {
		evalHitRate = float64(stats.EvalCacheHits) * 100.0 / float64(stats.EvalCacheProbes)
	}
	depthMs := make([]int64, 0, len(stats.DepthDurations))
	for _, d := range stats.DepthDurations {
		depthMs = append(depthMs, d.Milliseconds())
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	log.Debug().
		Str("component", "solver").
		Str("tag", tag).
		Int64("t_ms", elapsed.Milliseconds()).
		Int("depth", stats.BeamDepth).
		Int("width", stats.BeamWidth).
		Int("completed", stats.CompletedDepths).
		Int64("nodes", stats.Nodes).
		Int64("children", stats.Children).
		Float64("nps", nps).
		Int64("duplicates", stats.Duplicates).
		Int64("game_overs", stats.GameOvers).
		Int64("eval_probe", stats.EvalCacheProbes).
		Int64("eval_hit", stats.EvalCacheHits).
		Float64("eval_hit_rate", evalHitRate).
		Int("cache_entries", cacheEntries).
		Uint64("mem_heap", mem.HeapAlloc).
		Ints64("depth_times_ms", depthMs).
		Msg("search stats")
}
