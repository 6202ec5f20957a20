package engine

import (
	"fmt"

	"github.com/samber/lo"
)

// Pack is a 2x2 piece laid out as top-left, top-right, bottom-left, bottom-right.
type Pack struct {
	blocks [4]Block
}

// PackVariant is a settled rotation of a pack together with the rotation
// count the game expects in the command.
type PackVariant struct {
	Pack     Pack
	Rotation int
}

func NewPack(blocks [4]Block) Pack {
	return Pack{blocks: blocks}
}

func (p Pack) Get(idx int) Block {
	return p.blocks[idx]
}

func (p *Pack) Set(idx int, value Block) {
	assertf(value <= 9, "invalid pack block %d", value)
	p.blocks[idx] = value
}

func (p Pack) Blocks() [4]Block {
	return p.blocks
}

// Rotate turns the pack a quarter clockwise.
func (p *Pack) Rotate() {
	b := p.blocks
	p.blocks = [4]Block{b[2], b[0], b[3], b[1]}
}

func (p *Pack) Rotates(count int) {
	for i := 0; i < count%4; i++ {
		p.Rotate()
	}
}

// Settle lets a top cell fall into an empty bottom slot of its column.
func (p *Pack) Settle() {
	for c := 0; c < 2; c++ {
		if p.blocks[2+c] == EmptyBlock && p.blocks[c] != EmptyBlock {
			p.blocks[2+c] = p.blocks[c]
			p.blocks[c] = EmptyBlock
		}
	}
}

func (p Pack) String() string {
	return fmt.Sprintf("[%d %d / %d %d]", p.blocks[0], p.blocks[1], p.blocks[2], p.blocks[3])
}

// Variants expands a pack into its distinct settled rotations. The first
// rotation producing a shape wins.
func Variants(blocks [4]Block) []PackVariant {
	all := make([]PackVariant, 0, 4)
	for rotation := 0; rotation < 4; rotation++ {
		pack := NewPack(blocks)
		pack.Rotates(rotation)
		pack.Settle()
		all = append(all, PackVariant{Pack: pack, Rotation: rotation})
	}
	return lo.UniqBy(all, func(v PackVariant) [4]Block {
		return v.Pack.blocks
	})
}
