package engine

const approxCacheEntryBytes = 48

type chainEstimate struct {
	chain int
	count int
}

// EvaluateCache memoizes the expensive chain look-ahead by board hash. It
// never evicts on its own; the Solver decides when to Clear it.
type EvaluateCache struct {
	maxChain   map[uint64]chainEstimate
	erasingAll map[uint64]int
	sim        *Simulator
	weights    HeuristicConfig

	probes int64
	hits   int64
}

func NewEvaluateCache(config Config) *EvaluateCache {
	return &EvaluateCache{
		maxChain:   make(map[uint64]chainEstimate),
		erasingAll: make(map[uint64]int),
		sim:        NewSimulator(),
		weights:    resolvedHeuristicConfig(config),
	}
}

func (c *EvaluateCache) SetWeights(config Config) {
	c.weights = resolvedHeuristicConfig(config)
}

func (c *EvaluateCache) Len() int {
	return len(c.maxChain) + len(c.erasingAll)
}

func (c *EvaluateCache) Empty() bool {
	return c.Len() == 0
}

func (c *EvaluateCache) ApproxBytes() int64 {
	return int64(c.Len()) * approxCacheEntryBytes
}

func (c *EvaluateCache) Clear() {
	c.maxChain = make(map[uint64]chainEstimate)
	c.erasingAll = make(map[uint64]int)
}

// Stats returns probe and hit counts since the cache was created.
func (c *EvaluateCache) Stats() (probes int64, hits int64) {
	return c.probes, c.hits
}

// EstimateMaxChainCount drops a single numbered cell next to every column top
// that completes a pair with a neighbour and reports the longest chain found
// and how many of those drops reach it.
func (c *EvaluateCache) EstimateMaxChainCount(board *Board) (int, int) {
	c.probes++
	if cached, ok := c.maxChain[board.Hash()]; ok {
		c.hits++
		return cached.chain, cached.count
	}
	var best chainEstimate
	for x := 0; x < FieldWidth; x++ {
		y := board.heights[x]
		if y >= FieldHeight {
			continue
		}
		prune := true
		if x > 0 && y <= board.heights[x-1]+1 {
			prune = false
		}
		if x < FieldWidth-1 && y <= board.heights[x+1]+1 {
			prune = false
		}
		if prune {
			continue
		}
		var tried uint16
		for _, d := range directions {
			if d.y == 1 && d.x == 0 {
				continue
			}
			ny, nx := y+d.y, x+d.x
			if !onBoard(ny, nx) {
				continue
			}
			neighbor := board.Get(ny, nx)
			if !neighbor.IsNumbered() {
				continue
			}
			num := Block(ErasingSum) - neighbor
			if tried&(1<<num) != 0 {
				continue
			}
			tried |= 1 << num

			var pack Pack
			point := x
			if x == FieldWidth-1 {
				point--
				pack.Set(3, num)
			} else {
				pack.Set(2, num)
			}
			scratch := *board
			chain := c.sim.Simulate(&scratch, point, pack)
			switch {
			case chain > best.chain:
				best = chainEstimate{chain: chain, count: 1}
			case chain == best.chain && chain > 0:
				best.count++
			}
		}
	}
	c.maxChain[board.Hash()] = best
	return best.chain, best.count
}

// EstimateWithErasingAllMaxChainCount erases every exposed numbered cell in
// turn and reports the longest chain that follows.
func (c *EvaluateCache) EstimateWithErasingAllMaxChainCount(board *Board) int {
	c.probes++
	if cached, ok := c.erasingAll[board.Hash()]; ok {
		c.hits++
		return cached
	}
	best := 0
	for x := 0; x < FieldWidth; x++ {
		for y := 0; y < board.heights[x]; y++ {
			if !board.Get(y, x).IsNumbered() || !hasEmptyNeighbor(board, y, x) {
				continue
			}
			scratch := *board
			if chain := c.sim.EraseAndCascade(&scratch, y, x); chain > best {
				best = chain
			}
		}
	}
	c.erasingAll[board.Hash()] = best
	return best
}

func hasEmptyNeighbor(board *Board, y, x int) bool {
	for _, d := range directions {
		ny, nx := y+d.y, x+d.x
		if onBoard(ny, nx) && board.Get(ny, nx) == EmptyBlock {
			return true
		}
	}
	return false
}

// EvaluateSearchScore ranks a beam node. The chain look-ahead dominates;
// the other terms break ties between boards with the same potential.
func (c *EvaluateCache) EvaluateSearchScore(state *SearchState) float64 {
	w := c.weights
	board := state.Board
	if obstacle, _ := netObstacles(state.ObstacleBlockCount, state.SpawnObstacleBlockCount); obstacle >= FieldWidth {
		board.DropObstacles()
	}

	score := 0.0
	chain, count := c.EstimateMaxChainCount(&board)
	score += float64(chain) * w.MaxChain
	score += float64(count) * w.MaxChainCount

	live, _ := board.CountBlocks()
	score += float64(live) * w.LiveBlock

	keima, jump := EvaluatePatternMatchCount(&board)
	score += float64(keima) * w.Keima
	score += float64(jump) * w.Jump

	for x := 0; x < FieldWidth; x++ {
		score += w.Height * float64(board.heights[x])
		for y := 0; y < board.heights[x]; y++ {
			if board.Get(y, x) == ObstacleBlock {
				continue
			}
			if y >= 1 && x+1 < FieldWidth && board.Get(y-1, x+1).IsNumbered() {
				score += w.Adjacency
			}
			if x+1 < FieldWidth && board.Get(y, x+1).IsNumbered() {
				score += w.Adjacency
			}
			if y+1 < FieldHeight && x+1 < FieldWidth && board.Get(y+1, x+1).IsNumbered() {
				score += w.Adjacency
			}
			if y+1 < FieldHeight && board.Get(y+1, x).IsNumbered() {
				score += w.Adjacency
			}
		}
	}
	return score
}

// EvaluatePatternMatchCount counts numbered cells that pair up to ten with a
// cell a knight's move above (keima) or two rows above (jump).
func EvaluatePatternMatchCount(board *Board) (keima int, jump int) {
	for x := 0; x < FieldWidth; x++ {
		for y := 0; y < board.heights[x]; y++ {
			block := board.Get(y, x)
			if !block.IsNumbered() || y+2 >= FieldHeight {
				continue
			}
			if block+board.Get(y+2, x) == ErasingSum {
				jump++
			}
			if x+1 < FieldWidth && block+board.Get(y+2, x+1) == ErasingSum {
				keima++
			}
			if x >= 1 && block+board.Get(y+2, x-1) == ErasingSum {
				keima++
			}
		}
	}
	return keima, jump
}
