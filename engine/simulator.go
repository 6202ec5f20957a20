package engine

type cellPos struct {
	y, x int
}

// directions in (dy, dx); dy grows upward.
var directions = [8]cellPos{
	{0, 1},
	{-1, 1},
	{-1, 0},
	{-1, -1},
	{0, -1},
	{1, -1},
	{1, 0},
	{1, 1},
}

func onBoard(y, x int) bool {
	return y >= 0 && y < FieldHeight && x >= 0 && x < FieldWidth
}

// Simulator resolves drops and chain cascades. It keeps scratch buffers
// between calls, so one instance must not be shared across goroutines.
type Simulator struct {
	modified []cellPos
	next     []cellPos
	erase    []cellPos
	marks    [FieldHeight][FieldWidth]bool
}

func NewSimulator() *Simulator {
	return &Simulator{
		modified: make([]cellPos, 0, FieldWidth*FieldHeight),
		next:     make([]cellPos, 0, FieldWidth*FieldHeight),
		erase:    make([]cellPos, 0, FieldWidth*FieldHeight),
	}
}

// Simulate drops pack with its left column at point and returns the chain count.
func Simulate(board *Board, point int, pack Pack) int {
	return NewSimulator().Simulate(board, point, pack)
}

func (s *Simulator) Simulate(board *Board, point int, pack Pack) int {
	s.dropPack(board, point, pack)
	return s.cascade(board)
}

// EraseAndCascade removes the cell at (y, x) as if it were erased by a chain
// and resolves what follows. The removal itself counts as the first chain.
func (s *Simulator) EraseAndCascade(board *Board, y, x int) int {
	s.erase = append(s.erase[:0], cellPos{y, x})
	s.applyErase(board)
	return 1 + s.cascade(board)
}

// dropPack places the bottom row first, right column first.
func (s *Simulator) dropPack(board *Board, point int, pack Pack) {
	assertf(point >= 0 && point <= FieldWidth-2, "drop point %d out of range", point)
	s.modified = s.modified[:0]
	for y := 1; y >= 0; y-- {
		for x := 1; x >= 0; x-- {
			block := pack.Get(2*y + x)
			if block == EmptyBlock {
				continue
			}
			nx := point + x
			ny := board.heights[nx]
			assertf(ny < FieldHeight, "column %d overflows", nx)
			board.writeCell(ny, nx, block)
			board.heights[nx]++
			s.modified = append(s.modified, cellPos{ny, nx})
		}
	}
}

func (s *Simulator) cascade(board *Board) int {
	chain := 0
	for len(s.modified) > 0 {
		s.collectErase(board)
		if len(s.erase) == 0 {
			break
		}
		chain++
		s.applyErase(board)
	}
	return chain
}

func (s *Simulator) mark(y, x int) {
	if s.marks[y][x] {
		return
	}
	s.marks[y][x] = true
	s.erase = append(s.erase, cellPos{y, x})
}

func (s *Simulator) collectErase(board *Board) {
	s.erase = s.erase[:0]
	for _, cell := range s.modified {
		block := board.Get(cell.y, cell.x)
		assertf(block.IsNumbered(), "modified cell (%d,%d) holds %d", cell.y, cell.x, block)
		for _, d := range directions {
			ny, nx := cell.y+d.y, cell.x+d.x
			if !onBoard(ny, nx) {
				continue
			}
			neighbor := board.Get(ny, nx)
			if !neighbor.IsNumbered() {
				continue
			}
			if block+neighbor == ErasingSum {
				s.mark(cell.y, cell.x)
				s.mark(ny, nx)
			}
		}
	}
}

// applyErase clears the erase set, lets every column fall and records the
// numbered cells that moved as the next modified set.
func (s *Simulator) applyErase(board *Board) {
	assertf(len(s.erase) > 0, "empty erase set")
	oldHeights := board.heights
	for _, cell := range s.erase {
		s.marks[cell.y][cell.x] = false
		board.writeCell(cell.y, cell.x, EmptyBlock)
		if cell.y < board.heights[cell.x] {
			board.heights[cell.x] = cell.y
		}
	}

	s.next = s.next[:0]
	for x := 0; x < FieldWidth; x++ {
		for y := board.heights[x]; y < oldHeights[x]; y++ {
			block := board.Get(y, x)
			if block == EmptyBlock {
				continue
			}
			ny := board.heights[x]
			board.writeCell(y, x, EmptyBlock)
			board.writeCell(ny, x, block)
			if block != ObstacleBlock {
				s.next = append(s.next, cellPos{ny, x})
			}
			board.heights[x]++
		}
	}
	s.modified, s.next = s.next, s.modified
}
