package engine

import "sync"

const scoreKeyCount = 2000

// ZobristTable holds one random key per (row, packed byte, byte value).
// Keys for byte value 0 are zero so an empty board hashes to 0.
type ZobristTable struct {
	cells [FieldHeight][bitFieldWidth][256]uint64
	score [scoreKeyCount]uint64
}

var (
	zobristOnce  sync.Once
	zobristTable *ZobristTable
)

func GetZobrist() *ZobristTable {
	zobristOnce.Do(func() {
		rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(FieldWidth*FieldHeight)}
		table := &ZobristTable{}
		for y := 0; y < FieldHeight; y++ {
			for idx := 0; idx < bitFieldWidth; idx++ {
				for value := 1; value < 256; value++ {
					table.cells[y][idx][value] = rng.next()
				}
			}
		}
		for i := range table.score {
			table.score[i] = rng.next()
		}
		zobristTable = table
	})
	return zobristTable
}

func (z *ZobristTable) packed(y, idx int, value uint8) uint64 {
	return z.cells[y][idx][value]
}

// ScoreKey folds a cumulative game score into a state hash.
func (z *ZobristTable) ScoreKey(score int) uint64 {
	if score < 0 {
		score = 0
	}
	if score >= scoreKeyCount {
		score = scoreKeyCount - 1
	}
	return z.score[score]
}

// ComputeHash rebuilds the structural hash of a board from scratch.
func ComputeHash(b *Board) uint64 {
	z := GetZobrist()
	var hash uint64
	for y := 0; y < FieldHeight; y++ {
		for idx := 0; idx < bitFieldWidth; idx++ {
			hash ^= z.packed(y, idx, b.bits[y][idx])
		}
	}
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
