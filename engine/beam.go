package engine

import (
	"container/heap"
	"sort"
)

type stateHeap []SearchState

func (h stateHeap) Len() int           { return len(h) }
func (h stateHeap) Less(i, j int) bool { return h[i].SearchScore < h[j].SearchScore }
func (h stateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *stateHeap) Push(x any)        { *h = append(*h, x.(SearchState)) }
func (h *stateHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// beam keeps the width best states of one depth; the lowest score is evicted.
type beam struct {
	width  int
	states stateHeap
}

func newBeam(width int) *beam {
	return &beam{width: width, states: make(stateHeap, 0, width)}
}

func (b *beam) Len() int {
	return len(b.states)
}

func (b *beam) Push(state SearchState) {
	if len(b.states) < b.width {
		heap.Push(&b.states, state)
		return
	}
	if state.SearchScore <= b.states[0].SearchScore {
		return
	}
	b.states[0] = state
	heap.Fix(&b.states, 0)
}

// Drain empties the beam and returns its states best first.
func (b *beam) Drain() []SearchState {
	states := b.states
	b.states = make(stateHeap, 0, b.width)
	sort.SliceStable(states, func(i, j int) bool {
		return states[i].SearchScore > states[j].SearchScore
	})
	return states
}
