package engine

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// Solver picks one command per turn. It owns the evaluation caches, which
// survive across turns until the board gets disturbed or they grow too big.
type Solver struct {
	packs  [][]PackVariant
	player GameStatus
	enemy  GameStatus
	config Config
	sim    *Simulator
	cache  *EvaluateCache
	last   *thinkRecord
	stats  SearchStats
}

type thinkRecord struct {
	turn   int
	result SearchResult
}

func NewSolver(packs [][]PackVariant, config Config) *Solver {
	s := &Solver{
		config: config,
		sim:    NewSimulator(),
		cache:  NewEvaluateCache(config),
	}
	s.SetPacks(packs)
	return s
}

func (s *Solver) SetPacks(packs [][]PackVariant) {
	s.packs = packs
}

func (s *Solver) SetConfig(config Config) {
	s.config = config
	s.cache.SetWeights(config)
}

func (s *Solver) SetGameStatus(player, enemy GameStatus) {
	s.clearCacheIfNeeded(&player)
	s.player = player
	s.enemy = enemy
}

func (s *Solver) ClearCache() {
	s.cache.Clear()
}

func (s *Solver) CacheLen() int {
	return s.cache.Len()
}

func (s *Solver) LastStats() SearchStats {
	return s.stats
}

func (s *Solver) clearCacheIfNeeded(player *GameStatus) {
	log.Debug().Str("component", "cache").Int("entries", s.cache.Len()).Msg("cache size")
	if s.player.ObstacleBlockCount == 0 && ObstacleLines(player.ObstacleBlockCount) > 0 {
		log.Debug().Str("component", "cache").Msg("clearing cache: board got dirty")
		s.cache.Clear()
	}
	if s.cache.ApproxBytes() > s.config.CacheMaxBytes {
		log.Info().
			Str("component", "cache").
			Int64("bytes", s.cache.ApproxBytes()).
			Int64("limit", s.config.CacheMaxBytes).
			Msg("clearing cache: over size ceiling")
		s.cache.Clear()
	}
}

// BeamSearchConfig picks beam depth and width from the remaining time.
func (s *Solver) BeamSearchConfig() (int, int) {
	rest := s.player.RestTimeMs
	if rest >= s.config.HighTimeMs {
		return s.config.BeamDepth, s.config.BeamWidth
	}
	if rest >= s.config.MidTimeMs {
		return s.config.MidBeamDepth, s.config.MidBeamWidth
	}
	return s.config.LowBeamDepth, s.config.LowBeamWidth
}

func (s *Solver) beamForTurn(turn int) (int, int) {
	depth, width := s.BeamSearchConfig()
	// A big chain found last turn is one move closer now.
	if s.last != nil && s.last.turn == turn-1 {
		prev := s.last.result
		if !prev.FireRightNow && prev.LastChainCount >= s.config.FireMaxChainCount && prev.SearchDepth >= 1 {
			depth = min(depth, prev.SearchDepth+2)
		}
	}
	depth = min(depth, len(s.packs)-turn, MaxSearchDepth)
	return max(depth, 1), max(width, 1)
}

func (s *Solver) isKillBomber() bool {
	if s.enemy.SkillPoint < s.config.KillBomberSkillPoint {
		return false
	}
	return s.player.CumulativeGameScore-s.enemy.CumulativeGameScore >= s.config.KillBomberScoreLead
}

func (s *Solver) shouldFireRightNow(chain, maxEnemyChain, needKillChain int) bool {
	if chain >= needKillChain {
		log.Debug().Str("component", "solver").Int("chain", chain).Int("need_kill", needKillChain).Msg("fire: chain kills enemy")
		return true
	}
	if s.enemy.ObstacleBlockCount >= FieldWidth || chain < maxEnemyChain {
		return false
	}
	enemyObstacle := ObstacleCount(maxEnemyChain) + s.enemy.ObstacleBlockCount
	playerObstacle := ObstacleCount(chain)
	if playerObstacle <= s.player.ObstacleBlockCount {
		return false
	}
	spawned := playerObstacle - s.player.ObstacleBlockCount
	if spawned <= enemyObstacle {
		return false
	}
	if ObstacleLines(spawned-enemyObstacle) >= s.config.FireSpawnLines {
		log.Debug().Str("component", "solver").Int("chain", chain).Int("spawned", spawned).Msg("fire: out-races enemy")
		return true
	}
	return false
}

// gazeEnemyNeedKillChainCount is the shortest chain whose attack lines fill
// the enemy board above its highest obstacle.
func (s *Solver) gazeEnemyNeedKillChainCount() int {
	board := &s.enemy.Board
	spawned := 0
	for x := 0; x < FieldWidth; x++ {
		for y := board.Height(x) - 1; y >= 0; y-- {
			if board.Get(y, x) == ObstacleBlock {
				spawned = max(spawned, y+1)
				break
			}
		}
	}
	needLine := DangerLineHeight - spawned
	fatal := s.config.FatalFireMaxChainCount
	for chain := 0; chain < fatal; chain++ {
		if ObstacleLines(ObstacleCount(chain)) >= needLine {
			return chain
		}
	}
	return fatal
}

// gazeEnemyMaxChainCount is the best chain the enemy can fire this turn
// with the real piece, or with a single well placed cell. An enemy able to
// cast a spell can also blow a hole anywhere in its stack.
func (s *Solver) gazeEnemyMaxChainCount(turn int) int {
	maxChain := 0
	for _, variant := range s.packs[turn] {
		for point := 0; point <= FieldWidth-2; point++ {
			board := s.enemy.Board
			maxChain = max(maxChain, s.sim.Simulate(&board, point, variant.Pack))
		}
	}
	board := s.enemy.Board
	estimated, _ := s.cache.EstimateMaxChainCount(&board)
	maxChain = max(maxChain, estimated)
	if s.enemy.SkillPoint >= s.config.SpellSkillPoint && board.Contains(5) {
		maxChain = max(maxChain, s.cache.EstimateWithErasingAllMaxChainCount(&board))
	}
	return maxChain
}

func (s *Solver) targetScore(killBomber bool, chain, gain int, searchScore float64, depth int) float64 {
	if killBomber {
		return EvaluateGameScoreForBomber(chain, depth) + math.Log10(searchScore)*depthRate(depth)
	}
	return EvaluateGameScoreByDepth(gain, depth, s.config.FatalFireMaxChainCount) + math.Log10(searchScore)*depthRate(depth)
}

// Think runs the beam search for the given turn and returns the best line.
func (s *Solver) Think(turn int) SearchResult {
	assertf(turn >= 0 && turn < len(s.packs), "turn %d outside pack feed of %d", turn, len(s.packs))
	var result SearchResult

	s.stats = SearchStats{Start: time.Now()}
	killBomber := s.isKillBomber()
	if killBomber {
		log.Debug().Str("component", "solver").Int("turn", turn).Msg("kill bomber")
	}
	if !killBomber && s.player.SkillPoint >= s.config.SpellSkillPoint && s.player.Board.Contains(5) {
		log.Debug().Str("component", "solver").Int("turn", turn).Int("skill", s.player.SkillPoint).Msg("spell")
		result.Command = SpellCommand()
		result.Board = s.player.Board
		result.CumulativeGameScore = s.player.CumulativeGameScore
		s.last = &thinkRecord{turn: turn, result: result}
		return result
	}

	depth, width := s.beamForTurn(turn)
	s.stats.BeamDepth, s.stats.BeamWidth = depth, width
	probesBefore, hitsBefore := s.cache.Stats()
	log.Debug().
		Str("component", "solver").
		Int("turn", turn).
		Int("rest_ms", s.player.RestTimeMs).
		Int("depth", depth).
		Int("width", width).
		Msg("think")

	beams := make([]*beam, depth+1)
	for i := range beams {
		beams[i] = newBeam(width)
	}
	beams[0].Push(SearchState{
		Board:                   s.player.Board,
		ObstacleBlockCount:      s.player.ObstacleBlockCount,
		SpawnObstacleBlockCount: s.enemy.ObstacleBlockCount,
		CumulativeGameScore:     s.player.CumulativeGameScore,
	})
	searched := make(map[uint64]struct{})
	rnd := NewXorshiftWithSeed(uint64(turn) + s.config.Seed)

	maxEnemyChain := s.gazeEnemyMaxChainCount(turn)
	needKillChain := s.gazeEnemyNeedKillChainCount()

	var (
		fired         bool
		fireResult    SearchResult
		recorded      bool
		bestScore     = math.Inf(-1)
		fallback      SearchState
		fallbackDepth = -1
	)

	for d := 0; d < depth && !fired; d++ {
		levelStart := time.Now()
		states := beams[d].Drain()
		if d > 0 && len(states) > 0 {
			fallback, fallbackDepth = states[0], d-1
		}
		variants := s.packs[turn+d]
		for i := range states {
			state := &states[i]
			state.UpdateObstacleBlockAndDrop()
			s.stats.Nodes++
			for _, variant := range variants {
				for point := 0; point <= FieldWidth-2; point++ {
					board := state.Board
					chain := s.sim.Simulate(&board, point, variant.Pack)
					if board.IsGameOver() {
						s.stats.GameOvers++
						continue
					}
					gain := ChainScore(chain)

					if d == 0 && s.shouldFireRightNow(chain, maxEnemyChain, needKillChain) {
						if !fired || chain > fireResult.LastChainCount {
							fireResult = SearchResult{
								LastChainCount:      chain,
								CumulativeGameScore: state.CumulativeGameScore + gain,
								GainGameScore:       gain,
								Board:               board,
								Command:             DropCommand(point, variant.Rotation),
								FireRightNow:        true,
							}
						}
						fired = true
					}

					child := SearchState{
						Board:                   board,
						ObstacleBlockCount:      state.ObstacleBlockCount,
						SpawnObstacleBlockCount: state.SpawnObstacleBlockCount + ObstacleCount(chain),
						CumulativeGameScore:     state.CumulativeGameScore + gain,
						Command:                 state.Command,
						ChainCount:              chain,
					}
					if d == 0 {
						child.Command = DropCommand(point, variant.Rotation)
					}
					key := child.Hash()
					if _, ok := searched[key]; ok {
						s.stats.Duplicates++
						continue
					}
					searched[key] = struct{}{}
					s.stats.Children++

					// jitter in [0, 1) keeps equal boards from crowding the beam
					child.SearchScore = s.cache.EvaluateSearchScore(&child) + rnd.Float64()
					if chain <= s.config.PruneChainCount {
						beams[d+1].Push(child)
					}

					target := s.targetScore(killBomber, chain, gain, child.SearchScore, d)
					if target > bestScore {
						bestScore = target
						recorded = true
						result = SearchResult{
							SearchResultScore:   target,
							LastChainCount:      chain,
							CumulativeGameScore: child.CumulativeGameScore,
							GainGameScore:       gain,
							SearchDepth:         d,
							Board:               child.Board,
							Command:             child.Command,
						}
						log.Debug().
							Str("component", "solver").
							Int("depth", d).
							Int("chain", chain).
							Float64("target", target).
							Msg("best updated")
					}
				}
			}
		}
		s.stats.DepthDurations = append(s.stats.DepthDurations, time.Since(levelStart))
		s.stats.CompletedDepths++
	}

	switch {
	case fired:
		result = fireResult
	case recorded:
	default:
		if last := beams[depth].Drain(); len(last) > 0 {
			fallback, fallbackDepth = last[0], depth-1
		}
		if fallbackDepth >= 0 {
			result = SearchResult{
				LastChainCount:      fallback.ChainCount,
				CumulativeGameScore: fallback.CumulativeGameScore,
				SearchDepth:         fallbackDepth,
				Board:               fallback.Board,
				Command:             fallback.Command,
			}
		} else {
			log.Warn().Str("component", "solver").Int("turn", turn).Msg("no surviving move, falling back to 0 0")
			result = SearchResult{Board: s.player.Board, Command: DropCommand(0, 0)}
		}
	}
	result.EnemyMaxChainCount = maxEnemyChain
	result.NeedKillChainCount = needKillChain
	result.KillBomber = killBomber

	probesAfter, hitsAfter := s.cache.Stats()
	s.stats.EvalCacheProbes = probesAfter - probesBefore
	s.stats.EvalCacheHits = hitsAfter - hitsBefore
	if s.config.LogStats {
		logSearchStats("think", &s.stats, s.cache.Len())
	}
	log.Debug().Str("component", "solver").Int("turn", turn).Object("result", result).Msg("search result")
	s.last = &thinkRecord{turn: turn, result: result}
	return result
}
