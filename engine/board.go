package engine

import (
	"fmt"
	"strings"
)

type Block uint8

const (
	FieldWidth       = 10
	InputFieldHeight = 16
	FieldHeight      = 19
	DangerLineHeight = InputFieldHeight + 1

	EmptyBlock    Block = 0
	ObstacleBlock Block = 11
	ErasingSum          = 10

	bitFieldWidth = FieldWidth / 2
	baseBit       = 4
)

func (b Block) IsNumbered() bool {
	return b != EmptyBlock && b != ObstacleBlock
}

// Board is a value type: assignment copies it. Row 0 is the bottom row and
// heights[x] is the first empty row of column x.
type Board struct {
	bits    [FieldHeight][bitFieldWidth]uint8
	heights [FieldWidth]int
	hash    uint64
}

// NewBoard builds a board from a visible grid stored bottom row first.
func NewBoard(grid [InputFieldHeight][FieldWidth]Block) Board {
	var b Board
	for y := 0; y < InputFieldHeight; y++ {
		for x := 0; x < FieldWidth; x++ {
			b.Set(y, x, grid[y][x])
		}
	}
	return b
}

func (b *Board) Get(y, x int) Block {
	assertf(y >= 0 && y < FieldHeight && x >= 0 && x < FieldWidth, "cell (%d,%d) out of range", y, x)
	packed := b.bits[y][x/2]
	if x%2 == 0 {
		return Block(packed >> baseBit)
	}
	return Block(packed & 0x0f)
}

// Set writes a cell and moves heights[x] to the first empty row at or above
// min(y, heights[x]). A block written over a gap stays outside the stack.
func (b *Board) Set(y, x int, value Block) {
	assertf(value <= ObstacleBlock, "invalid block value %d", value)
	assertf(y >= 0 && y < FieldHeight && x >= 0 && x < FieldWidth, "cell (%d,%d) out of range", y, x)
	b.writeCell(y, x, value&0x0f)
	h := min(y, b.heights[x])
	for h < FieldHeight && b.Get(h, x) != EmptyBlock {
		h++
	}
	b.heights[x] = h
}

// writeCell is the only place packed bytes change, so the hash stays in sync.
func (b *Board) writeCell(y, x int, value Block) {
	idx := x / 2
	old := b.bits[y][idx]
	next := old
	if x%2 == 0 {
		next = (old & 0x0f) | uint8(value)<<baseBit
	} else {
		next = (old & 0xf0) | uint8(value)
	}
	if next == old {
		return
	}
	z := GetZobrist()
	b.hash ^= z.packed(y, idx, old) ^ z.packed(y, idx, next)
	b.bits[y][idx] = next
}

func (b *Board) Height(x int) int {
	return b.heights[x]
}

func (b *Board) Heights() [FieldWidth]int {
	return b.heights
}

func (b *Board) Hash() uint64 {
	return b.hash
}

func (b *Board) Equal(other *Board) bool {
	return b.hash == other.hash && b.bits == other.bits
}

// DropObstacles stacks one obstacle on top of every column.
func (b *Board) DropObstacles() {
	for x := 0; x < FieldWidth; x++ {
		assertf(b.heights[x] < FieldHeight, "column %d is full", x)
		b.writeCell(b.heights[x], x, ObstacleBlock)
		b.heights[x]++
	}
}

func (b *Board) CountBlocks() (live int, obstacle int) {
	for x := 0; x < FieldWidth; x++ {
		for y := 0; y < b.heights[x]; y++ {
			block := b.Get(y, x)
			assertf(block != EmptyBlock, "hole below height at (%d,%d)", y, x)
			if block == ObstacleBlock {
				obstacle++
			} else {
				live++
			}
		}
	}
	return live, obstacle
}

func (b *Board) IsGameOver() bool {
	for _, h := range b.heights {
		if h >= DangerLineHeight {
			return true
		}
	}
	return false
}

func (b *Board) Contains(value Block) bool {
	for x := 0; x < FieldWidth; x++ {
		for y := 0; y < b.heights[x]; y++ {
			if b.Get(y, x) == value {
				return true
			}
		}
	}
	return false
}

// Rows returns the visible grid top row first, the way the game prints it.
func (b *Board) Rows() [][]int {
	rows := make([][]int, InputFieldHeight)
	for i := 0; i < InputFieldHeight; i++ {
		y := InputFieldHeight - 1 - i
		row := make([]int, FieldWidth)
		for x := 0; x < FieldWidth; x++ {
			row[x] = int(b.Get(y, x))
		}
		rows[i] = row
	}
	return rows
}

func (b Board) String() string {
	var sb strings.Builder
	for y := FieldHeight - 1; y >= 0; y-- {
		for x := 0; x < FieldWidth; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%2d", b.Get(y, x)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
