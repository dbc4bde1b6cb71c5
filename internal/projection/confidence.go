package projection

import "math"

const (
	// sampleScale controls how fast added games approach full trust.
	sampleScale = 1.0
	// dispersionScale is the std dev (points) at which consistency halves.
	dispersionScale = 8.0
	// singleGameCeiling caps confidence when only one game is known.
	singleGameCeiling = 0.3
)

// Confidence grows with the number of games (saturating) and falls as the
// deltas spread out. The result is always within [0, 1].
func Confidence(stats BiasStatistics) float64 {
	if stats.N <= 0 {
		return 0
	}

	std := stats.StdDev
	if math.IsNaN(std) || std < 0 {
		return 0
	}

	sampleFactor := 1 - math.Exp(-float64(stats.N)/sampleScale)
	consistency := 1 / (1 + std/dispersionScale)

	c := clamp01(sampleFactor * consistency)
	if stats.N == 1 && c > singleGameCeiling {
		c = singleGameCeiling
	}
	return c
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
