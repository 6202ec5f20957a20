package engine

import "testing"

func TestRotateCycles(t *testing.T) {
	pack := NewPack([4]Block{9, 5, 0, 3})
	steps := [][4]Block{
		{0, 9, 3, 5},
		{3, 0, 5, 9},
		{5, 3, 9, 0},
		{9, 5, 0, 3},
	}
	for i, expected := range steps {
		pack.Rotate()
		if pack.Blocks() != expected {
			t.Fatalf("rotation %d: expected %v, got %v", i+1, expected, pack.Blocks())
		}
	}
	pack.Rotates(6)
	if pack.Blocks() != steps[1] {
		t.Fatalf("expected Rotates(6) to equal two turns, got %v", pack.Blocks())
	}
}

func TestSettle(t *testing.T) {
	pack := NewPack([4]Block{4, 7, 0, 2})
	pack.Settle()
	if expected := [4]Block{0, 7, 4, 2}; pack.Blocks() != expected {
		t.Fatalf("expected %v, got %v", expected, pack.Blocks())
	}
	full := NewPack([4]Block{1, 2, 3, 4})
	full.Settle()
	if expected := [4]Block{1, 2, 3, 4}; full.Blocks() != expected {
		t.Fatalf("expected a full pack to stay put, got %v", full.Blocks())
	}
}

func TestVariantsDeduplicate(t *testing.T) {
	if got := Variants([4]Block{5, 5, 5, 5}); len(got) != 1 {
		t.Fatalf("expected 1 variant for a uniform pack, got %d", len(got))
	}

	single := Variants([4]Block{5, 0, 0, 0})
	if len(single) != 2 {
		t.Fatalf("expected 2 variants, got %d: %v", len(single), single)
	}
	if single[0].Rotation != 0 || single[0].Pack.Blocks() != [4]Block{0, 0, 5, 0} {
		t.Fatalf("unexpected first variant %v", single[0])
	}
	if single[1].Rotation != 1 || single[1].Pack.Blocks() != [4]Block{0, 0, 0, 5} {
		t.Fatalf("unexpected second variant %v", single[1])
	}

	mixed := Variants([4]Block{9, 5, 0, 3})
	if len(mixed) != 4 {
		t.Fatalf("expected 4 variants, got %d", len(mixed))
	}
	for i, v := range mixed {
		if v.Rotation != i {
			t.Fatalf("expected rotation %d at index %d, got %d", i, i, v.Rotation)
		}
	}
}

func TestPackSetRejectsObstacle(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for obstacle in pack")
		}
	}()
	var pack Pack
	pack.Set(0, ObstacleBlock)
}
