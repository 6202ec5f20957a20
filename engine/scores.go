package engine

import "math"

const MaxChainCount = 49

var chainCumulativeScores = [MaxChainCount + 1]int{
	0, 1, 2, 4, 6, 9, 13, 19, 27, 37,
	50, 67, 90, 120, 159, 210, 276, 362, 474, 620,
	810, 1057, 1378, 1795, 2337, 3042, 3959, 5151, 6701, 8716,
	11335, 14740, 19167, 24923, 32405, 42132, 54778, 71218, 92590, 120373,
	156491, 203445, 264485, 343838, 446997, 581103, 755441, 982081, 1276713, 1659735,
}

// gameScoreDepthRates[d] = (1/1.1)^d
var gameScoreDepthRates = [20]float64{
	1.0,
	0.9090909090909091,
	0.8264462809917354,
	0.7513148009015777,
	0.6830134553650706,
	0.620921323059155,
	0.5644739300537773,
	0.5131581182307067,
	0.4665073802097333,
	0.4240976183724848,
	0.38554328942953164,
	0.35049389948139237,
	0.3186308177103567,
	0.2896643797366879,
	0.2633312543060799,
	0.23939204936916353,
	0.21762913579014864,
	0.19784466890013513,
	0.17985878990921375,
	0.16350799082655795,
}

const MaxSearchDepth = len(gameScoreDepthRates)

func ChainScore(chain int) int {
	assertf(chain >= 0 && chain <= MaxChainCount, "chain %d out of range", chain)
	if chain > MaxChainCount {
		chain = MaxChainCount
	}
	return chainCumulativeScores[chain]
}

func ObstacleCount(chain int) int {
	return ChainScore(chain) / 2
}

func ObstacleLines(count int) int {
	return count / FieldWidth
}

func depthRate(depth int) float64 {
	assertf(depth >= 0 && depth < MaxSearchDepth, "depth %d out of range", depth)
	if depth >= MaxSearchDepth {
		depth = MaxSearchDepth - 1
	}
	return gameScoreDepthRates[depth]
}

// EvaluateGameScoreByDepth discounts a chain score by depth, capped at what a
// chain of fatalChain would send. A zero score yields -Inf.
func EvaluateGameScoreByDepth(score int, depth int, fatalChain int) float64 {
	capped := ObstacleCount(fatalChain)
	if score < capped {
		capped = score
	}
	return float64(capped)*depthRate(depth) + math.Log10(float64(score))
}

// EvaluateGameScoreForBomber punishes small chains and caps the reward at a
// three-chain attack.
func EvaluateGameScoreForBomber(chain int, depth int) float64 {
	switch chain {
	case 1:
		return -100.0
	case 2:
		return -200.0
	}
	score := ChainScore(chain)
	capped := ObstacleCount(3)
	if score < capped {
		capped = score
	}
	return float64(capped) * depthRate(depth)
}
