package engine

import "testing"

func TestSimulateThirteenChain(t *testing.T) {
	board := boardFromTop([InputFieldHeight][FieldWidth]Block{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 2, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 4, 0, 0, 0, 0, 0},
		{0, 0, 0, 7, 4, 0, 0, 0, 0, 0},
		{0, 0, 0, 4, 4, 8, 0, 0, 0, 0},
		{0, 0, 0, 9, 8, 4, 0, 0, 0, 0},
		{0, 0, 0, 3, 4, 8, 9, 0, 0, 0},
		{0, 0, 0, 5, 9, 4, 8, 0, 0, 0},
		{0, 0, 1, 6, 3, 4, 1, 0, 0, 0},
		{0, 0, 6, 5, 1, 2, 3, 4, 0, 0},
		{0, 0, 1, 3, 6, 2, 2, 1, 0, 0},
	})
	chain := Simulate(&board, 6, NewPack([4]Block{7, 6, 6, 9}))
	if chain != 13 {
		t.Fatalf("expected 13 chains, got %d", chain)
	}
	if score := ChainScore(chain); score != 120 {
		t.Fatalf("expected score 120, got %d", score)
	}
	expected := boardFromTop([InputFieldHeight][FieldWidth]Block{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 4, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 4, 0, 0, 0, 0, 0},
		{0, 0, 1, 3, 4, 4, 0, 0, 0, 0},
	})
	if !board.Equal(&expected) {
		t.Fatalf("unexpected board after chain:\n%s\nwant:\n%s", board, expected)
	}
	if board.Heights() != expected.Heights() {
		t.Fatalf("expected heights %v, got %v", expected.Heights(), board.Heights())
	}
	if board.Hash() != ComputeHash(&board) {
		t.Fatalf("incremental hash drifted from recomputed hash")
	}
}

func TestSimulateFifteenChainWithObstacles(t *testing.T) {
	board := boardFromTop([InputFieldHeight][FieldWidth]Block{
		{0, 0, 0, 11, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 11, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 11, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 7, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 2, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 7, 0, 0, 0, 0, 0, 0},
		{0, 0, 11, 4, 11, 0, 0, 0, 0, 0},
		{0, 0, 11, 9, 11, 11, 7, 0, 0, 0},
		{0, 0, 11, 6, 11, 11, 11, 7, 0, 0},
		{0, 0, 3, 1, 8, 11, 11, 9, 0, 0},
		{0, 0, 8, 6, 1, 3, 5, 11, 0, 0},
		{0, 0, 6, 5, 8, 8, 1, 11, 0, 0},
		{0, 11, 7, 7, 7, 5, 11, 3, 0, 0},
		{11, 6, 9, 2, 1, 6, 2, 11, 11, 11},
		{11, 11, 3, 2, 5, 6, 2, 9, 11, 11},
		{11, 11, 3, 9, 3, 9, 2, 6, 11, 11},
	})
	board.DropObstacles()
	chain := Simulate(&board, 7, NewPack([4]Block{6, 7, 2, 0}))
	if chain != 15 {
		t.Fatalf("expected 15 chains, got %d", chain)
	}
	if score := ChainScore(chain); score != 210 {
		t.Fatalf("expected score 210, got %d", score)
	}
	expected := boardFromTop([InputFieldHeight][FieldWidth]Block{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 6, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 2, 0, 0},
		{0, 0, 0, 0, 0, 0, 11, 11, 0, 0},
		{0, 0, 0, 0, 0, 11, 7, 7, 0, 0},
		{0, 11, 11, 11, 0, 11, 11, 11, 0, 0},
		{11, 11, 11, 11, 11, 11, 11, 11, 11, 11},
		{11, 6, 11, 11, 11, 11, 11, 11, 11, 11},
		{11, 11, 11, 11, 11, 6, 2, 9, 11, 11},
		{11, 11, 6, 6, 11, 6, 2, 6, 11, 11},
	})
	if !board.Equal(&expected) {
		t.Fatalf("unexpected board after chain:\n%s\nwant:\n%s", board, expected)
	}
}

func TestSimulateSameBoard(t *testing.T) {
	rows := [InputFieldHeight][FieldWidth]Block{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 8, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 4, 0, 8, 0, 0, 0, 0, 0, 0},
		{0, 8, 0, 1, 0, 0, 0, 0, 0, 0},
		{7, 7, 0, 1, 0, 0, 0, 0, 0, 0},
		{6, 5, 0, 2, 0, 0, 0, 0, 0, 0},
		{2, 9, 4, 7, 1, 0, 0, 7, 2, 0},
		{6, 7, 2, 4, 8, 0, 0, 2, 1, 0},
		{2, 2, 7, 9, 9, 0, 0, 6, 3, 0},
		{7, 6, 6, 9, 4, 9, 3, 9, 3, 6},
	}
	initial := boardFromTop(rows)
	board := boardFromTop(rows)
	// both 9s pair with the 1 and all three vanish in one step.
	Simulate(&board, 7, NewPack([4]Block{0, 9, 1, 9}))
	if !board.Equal(&initial) {
		t.Fatalf("expected board to be restored:\n%s\nwant:\n%s", board, initial)
	}
	if board.Heights() != initial.Heights() {
		t.Fatalf("expected heights %v, got %v", initial.Heights(), board.Heights())
	}
}

func TestDropPackOrder(t *testing.T) {
	board := boardFromTop([InputFieldHeight][FieldWidth]Block{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 5, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 8, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 8, 4, 0, 0, 0, 0},
		{0, 0, 0, 0, 8, 5, 0, 0, 0, 0},
		{0, 0, 0, 3, 6, 7, 0, 7, 0, 0},
		{0, 0, 6, 9, 9, 2, 0, 1, 0, 0},
		{0, 0, 8, 3, 3, 3, 0, 1, 3, 0},
		{0, 4, 1, 1, 8, 5, 3, 1, 6, 0},
	})
	sim := NewSimulator()
	sim.dropPack(&board, 1, NewPack([4]Block{0, 9, 1, 2}))
	expectedCells := []cellPos{{3, 2}, {1, 1}, {4, 2}}
	if len(sim.modified) != len(expectedCells) {
		t.Fatalf("expected %d placed cells, got %v", len(expectedCells), sim.modified)
	}
	for i, cell := range expectedCells {
		if sim.modified[i] != cell {
			t.Fatalf("placed cell %d: expected %v, got %v", i, cell, sim.modified[i])
		}
	}
	expected := boardFromTop([InputFieldHeight][FieldWidth]Block{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 5, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 8, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 8, 4, 0, 0, 0, 0},
		{0, 0, 9, 0, 8, 5, 0, 0, 0, 0},
		{0, 0, 2, 3, 6, 7, 0, 7, 0, 0},
		{0, 0, 6, 9, 9, 2, 0, 1, 0, 0},
		{0, 1, 8, 3, 3, 3, 0, 1, 3, 0},
		{0, 4, 1, 1, 8, 5, 3, 1, 6, 0},
	})
	if !board.Equal(&expected) {
		t.Fatalf("unexpected board after drop:\n%s\nwant:\n%s", board, expected)
	}
}

func TestNoOpDropLeavesOnlyPlacedCells(t *testing.T) {
	var board Board
	board.Set(0, 0, 1)
	board.Set(0, 1, 1)
	before := board
	chain := Simulate(&board, 4, NewPack([4]Block{2, 3, 4, 2}))
	if chain != 0 {
		t.Fatalf("expected no chain, got %d", chain)
	}
	live, _ := board.CountBlocks()
	if live != 6 {
		t.Fatalf("expected 6 live blocks, got %d", live)
	}
	for x := 0; x < FieldWidth; x++ {
		if x == 4 || x == 5 {
			continue
		}
		if board.Height(x) != before.Height(x) {
			t.Fatalf("column %d height changed from %d to %d", x, before.Height(x), board.Height(x))
		}
	}
	if board.Get(0, 4) != 4 || board.Get(1, 4) != 2 || board.Get(0, 5) != 2 || board.Get(1, 5) != 3 {
		t.Fatalf("unexpected placement:\n%s", board)
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	rows := [InputFieldHeight][FieldWidth]Block{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 2, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 4, 0, 0, 0, 0, 0},
		{0, 0, 0, 7, 4, 0, 0, 0, 0, 0},
		{0, 0, 0, 4, 4, 8, 0, 0, 0, 0},
		{0, 0, 0, 9, 8, 4, 0, 0, 0, 0},
		{0, 0, 0, 3, 4, 8, 9, 0, 0, 0},
		{0, 0, 0, 5, 9, 4, 8, 0, 0, 0},
		{0, 0, 1, 6, 3, 4, 1, 0, 0, 0},
		{0, 0, 6, 5, 1, 2, 3, 4, 0, 0},
		{0, 0, 1, 3, 6, 2, 2, 1, 0, 0},
	}
	sim := NewSimulator()
	for _, variant := range Variants([4]Block{3, 7, 5, 5}) {
		for point := 0; point <= FieldWidth-2; point++ {
			a := boardFromTop(rows)
			b := boardFromTop(rows)
			chainA := sim.Simulate(&a, point, variant.Pack)
			chainB := Simulate(&b, point, variant.Pack)
			if chainA != chainB || !a.Equal(&b) {
				t.Fatalf("point %d rotation %d: results differ (%d vs %d)", point, variant.Rotation, chainA, chainB)
			}
			if a.Hash() != ComputeHash(&a) {
				t.Fatalf("point %d rotation %d: hash drifted", point, variant.Rotation)
			}
		}
	}
}

func TestEraseAndCascadeCountsRemoval(t *testing.T) {
	var board Board
	board.Set(0, 0, 4)
	board.Set(1, 0, 9)
	board.Set(2, 0, 7)
	board.Set(0, 1, 8)
	sim := NewSimulator()
	if chain := sim.EraseAndCascade(&board, 1, 0); chain != 1 {
		t.Fatalf("expected only the removal to count, got %d", chain)
	}
	if board.Get(1, 0) != 7 || board.Height(0) != 2 {
		t.Fatalf("expected 7 to fall to row 1, got\n%s", board)
	}

	var second Board
	second.Set(0, 0, 4)
	second.Set(1, 0, 5)
	second.Set(2, 0, 7)
	second.Set(0, 1, 3)
	// the fallen 7 lands diagonal to the 3
	if chain := sim.EraseAndCascade(&second, 0, 0); chain != 2 {
		t.Fatalf("expected removal plus one chain, got %d", chain)
	}
	if second.Height(0) != 1 || second.Get(0, 0) != 5 || second.Height(1) != 0 {
		t.Fatalf("unexpected board after cascade:\n%s", second)
	}
	if second.Hash() != ComputeHash(&second) {
		t.Fatalf("hash drifted after cascade")
	}
}
