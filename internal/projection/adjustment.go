package projection

import (
	"fmt"
	"math"
)

// displayPrecision is the smallest magnitude the reasoning text can show
// at two decimals.
const displayPrecision = 0.005

type Adjustment struct {
	BiasAdjustment  float64
	EstimatedPoints float64
	Reasoning       string
}

// CalculateAdjustment applies mean_delta * confidence * strength to the
// ESPN projection. A nil projection yields a neutral result.
func CalculateAdjustment(espnProjection *float64, stats BiasStatistics, confidence, strength float64) Adjustment {
	if espnProjection == nil {
		return Adjustment{Reasoning: "No ESPN projection for target week; no adjustment applied"}
	}
	projected := *espnProjection

	if stats.N == 0 {
		return Adjustment{
			EstimatedPoints: math.Max(0, projected),
			Reasoning:       "No historical data available; adjustment +0.00 pts",
		}
	}

	adj := stats.MeanDelta * confidence * strength
	if adj == 0 || math.IsNaN(adj) || math.IsInf(adj, 0) {
		adj = 0
	}

	return Adjustment{
		BiasAdjustment:  adj,
		EstimatedPoints: math.Max(0, projected+adj),
		Reasoning:       reasoning(stats, confidence, adj),
	}
}

func reasoning(stats BiasStatistics, confidence, adj float64) string {
	games := "games"
	if stats.N == 1 {
		games = "game"
	}
	pct := int(math.Round(confidence * 100))
	if math.Abs(adj) < displayPrecision {
		adj = 0
	}

	if math.Abs(stats.MeanDelta) < displayPrecision {
		return fmt.Sprintf("ESPN shows no bias over %d %s (σ %.2f); adjustment %+.2f pts at %d%% confidence",
			stats.N, games, stats.StdDev, adj, pct)
	}

	direction := "underestimates"
	if stats.MeanDelta < 0 {
		direction = "overestimates"
	}
	return fmt.Sprintf("ESPN %s by %.2f pts avg over %d %s (σ %.2f); adjustment %+.2f pts at %d%% confidence",
		direction, math.Abs(stats.MeanDelta), stats.N, games, stats.StdDev, adj, pct)
}
