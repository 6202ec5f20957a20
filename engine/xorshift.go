package engine

import "math"

type Xorshift struct {
	seed uint64
}

func NewXorshiftWithSeed(seed uint64) *Xorshift {
	return &Xorshift{seed: seed}
}

func (r *Xorshift) Next() uint64 {
	r.seed ^= r.seed << 13
	r.seed ^= r.seed >> 7
	r.seed ^= r.seed << 17
	return r.seed
}

// Float64 returns a value in [0, 1) built from the low 52 bits.
func (r *Xorshift) Float64() float64 {
	const upperMask = 0x3ff0000000000000
	const lowerMask = 0x000fffffffffffff
	return math.Float64frombits(upperMask|(r.Next()&lowerMask)) - 1.0
}
