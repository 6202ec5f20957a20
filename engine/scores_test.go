package engine

import (
	"math"
	"testing"
)

func TestChainScoresAreIncreasing(t *testing.T) {
	for chain := 1; chain <= MaxChainCount; chain++ {
		if ChainScore(chain) <= ChainScore(chain-1) {
			t.Fatalf("expected score of chain %d to exceed chain %d", chain, chain-1)
		}
	}
	if ChainScore(0) != 0 {
		t.Fatalf("expected 0 for no chain, got %d", ChainScore(0))
	}
}

func TestObstacleCounts(t *testing.T) {
	if got := ObstacleCount(13); got != 60 {
		t.Fatalf("expected 60, got %d", got)
	}
	if got := ObstacleLines(59); got != 5 {
		t.Fatalf("expected 5 lines, got %d", got)
	}
}

func TestEvaluateGameScoreByDepth(t *testing.T) {
	cases := []struct {
		chain, depth int
		expected     float64
	}{
		{10, 0, 51.69897000433602},
		{11, 0, 68.82607480270083},
		{12, 2, 76.33440779869551},
		{13, 2, 88.85604075017984},
		{14, 3, 81.0894512189861},
	}
	for _, c := range cases {
		got := EvaluateGameScoreByDepth(ChainScore(c.chain), c.depth, DefaultFatalFireMaxChainCount)
		if math.Abs(got-c.expected) > 1e-9 {
			t.Fatalf("chain %d depth %d: expected %v, got %v", c.chain, c.depth, c.expected, got)
		}
	}
	if got := EvaluateGameScoreByDepth(0, 0, DefaultFatalFireMaxChainCount); !math.IsInf(got, -1) {
		t.Fatalf("expected -Inf for zero score, got %v", got)
	}
	deep := EvaluateGameScoreByDepth(ChainScore(20), 0, DefaultFatalFireMaxChainCount)
	if math.Abs(deep-(105+math.Log10(810))) > 1e-9 {
		t.Fatalf("expected the score to be capped, got %v", deep)
	}
	// a lower fatal chain lowers the cap
	lowered := EvaluateGameScoreByDepth(ChainScore(20), 0, 13)
	if math.Abs(lowered-(60+math.Log10(810))) > 1e-9 {
		t.Fatalf("expected the score to be capped at a 13 chain, got %v", lowered)
	}
}

func TestEvaluateGameScoreForBomber(t *testing.T) {
	if got := EvaluateGameScoreForBomber(1, 0); got != -100 {
		t.Fatalf("expected -100, got %v", got)
	}
	if got := EvaluateGameScoreForBomber(2, 0); got != -200 {
		t.Fatalf("expected -200, got %v", got)
	}
	if got := EvaluateGameScoreForBomber(3, 0); got != 2 {
		t.Fatalf("expected 2, got %v", got)
	}
	if got := EvaluateGameScoreForBomber(10, 1); math.Abs(got-2*0.9090909090909091) > 1e-12 {
		t.Fatalf("expected capped bomber score, got %v", got)
	}
}
