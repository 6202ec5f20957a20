package engine

// GameStatus is one player's view of the game at the start of a turn.
type GameStatus struct {
	RestTimeMs          int
	ObstacleBlockCount  int
	SkillPoint          int
	CumulativeGameScore int
	Board               Board
}
