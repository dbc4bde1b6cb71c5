package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateAdjustmentNoHistory(t *testing.T) {
	adj := CalculateAdjustment(f(14.0), BiasStatistics{}, 0, 1)

	assert.Equal(t, 0.0, adj.BiasAdjustment)
	assert.Equal(t, 14.0, adj.EstimatedPoints)
	assert.Contains(t, adj.Reasoning, "No historical data")
}

func TestCalculateAdjustmentMissingProjection(t *testing.T) {
	adj := CalculateAdjustment(nil, BiasStatistics{MeanDelta: 5, StdDev: 1, N: 4}, 0.8, 1)

	assert.Equal(t, 0.0, adj.BiasAdjustment)
	assert.Equal(t, 0.0, adj.EstimatedPoints)
	assert.Contains(t, adj.Reasoning, "No ESPN projection")
}

func TestCalculateAdjustmentNeverNegative(t *testing.T) {
	adj := CalculateAdjustment(f(3.0), BiasStatistics{MeanDelta: -12, StdDev: 0, N: 5}, 1, 2)

	assert.Equal(t, -24.0, adj.BiasAdjustment)
	assert.Equal(t, 0.0, adj.EstimatedPoints)
}

func TestCalculateAdjustmentStrengthMonotonic(t *testing.T) {
	stats := BiasStatistics{MeanDelta: -3.5, StdDev: 1.2, N: 4}
	conf := Confidence(stats)

	zero := CalculateAdjustment(f(10), stats, conf, 0)
	assert.Equal(t, 0.0, zero.BiasAdjustment)
	assert.Contains(t, zero.Reasoning, "adjustment +0.00 pts")

	prev := 0.0
	for _, s := range []float64{0, 0.25, 0.5, 1, 1.5, 2, 3} {
		adj := CalculateAdjustment(f(10), stats, conf, s)
		mag := adj.BiasAdjustment
		if mag < 0 {
			mag = -mag
		}
		assert.GreaterOrEqual(t, mag, prev, "strength %v", s)
		prev = mag
	}
}

func TestReasoning(t *testing.T) {
	under := CalculateAdjustment(f(10), BiasStatistics{MeanDelta: 4, StdDev: 0.5, N: 3}, 0.9, 1)
	assert.Equal(t, "ESPN underestimates by 4.00 pts avg over 3 games (σ 0.50); adjustment +3.60 pts at 90% confidence", under.Reasoning)

	over := CalculateAdjustment(f(10), BiasStatistics{MeanDelta: -2, StdDev: 0, N: 1}, 0.3, 1)
	assert.Equal(t, "ESPN overestimates by 2.00 pts avg over 1 game (σ 0.00); adjustment -0.60 pts at 30% confidence", over.Reasoning)

	none := CalculateAdjustment(f(10), BiasStatistics{MeanDelta: 0, StdDev: 2, N: 2}, 0.6, 1)
	assert.Contains(t, none.Reasoning, "no bias")
}

func TestReasoningBelowDisplayPrecision(t *testing.T) {
	adj := CalculateAdjustment(f(10), BiasStatistics{MeanDelta: -0.004, StdDev: 0.1, N: 4}, 0.9, 1)

	assert.Equal(t, "ESPN shows no bias over 4 games (σ 0.10); adjustment +0.00 pts at 90% confidence", adj.Reasoning)
	assert.NotContains(t, adj.Reasoning, "-0.00")
	assert.InDelta(t, 9.9964, adj.EstimatedPoints, 1e-9)
}
