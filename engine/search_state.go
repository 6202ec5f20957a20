package engine

// SearchState is a node of the beam. ObstacleBlockCount is what the enemy has
// sent me, SpawnObstacleBlockCount what I have sent back; the two are netted
// before the node is expanded.
type SearchState struct {
	Board                   Board
	ObstacleBlockCount      int
	SpawnObstacleBlockCount int
	CumulativeGameScore     int
	Command                 Command
	ChainCount              int
	SearchScore             float64
}

func netObstacles(obstacle, spawn int) (int, int) {
	if spawn >= obstacle {
		return 0, spawn - obstacle
	}
	return obstacle - spawn, 0
}

func (s *SearchState) UpdateObstacleBlock() {
	s.ObstacleBlockCount, s.SpawnObstacleBlockCount = netObstacles(s.ObstacleBlockCount, s.SpawnObstacleBlockCount)
}

// UpdateObstacleBlockAndDrop nets the counters and lands one obstacle row
// when at least a full row is owed.
func (s *SearchState) UpdateObstacleBlockAndDrop() {
	s.UpdateObstacleBlock()
	if s.ObstacleBlockCount >= FieldWidth {
		s.Board.DropObstacles()
		s.ObstacleBlockCount -= FieldWidth
	}
}

// Hash identifies a state for transposition detection.
func (s *SearchState) Hash() uint64 {
	return s.Board.Hash() ^ GetZobrist().ScoreKey(s.CumulativeGameScore)
}
