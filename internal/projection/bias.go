package projection

import "math"

// BiasSample holds actual - projected per included week, in week order.
type BiasSample struct {
	Deltas []float64
}

type BiasStatistics struct {
	MeanDelta float64 `json:"mean_delta"`
	StdDev    float64 `json:"std_dev"`
	N         int     `json:"n"`
}

func NewBiasSample(points []HistoricalPoint) BiasSample {
	deltas := make([]float64, len(points))
	for i, p := range points {
		deltas[i] = p.Actual - p.Projected
	}
	return BiasSample{Deltas: deltas}
}

// Statistics uses the population standard deviation: the history is the
// whole record for the player, not a sample of it.
func (s BiasSample) Statistics() BiasStatistics {
	n := len(s.Deltas)
	if n == 0 {
		return BiasStatistics{}
	}

	var sum float64
	for _, d := range s.Deltas {
		sum += d
	}
	mean := sum / float64(n)

	stats := BiasStatistics{MeanDelta: mean, N: n}
	if n < 2 {
		return stats
	}

	var sq float64
	for _, d := range s.Deltas {
		sq += (d - mean) * (d - mean)
	}
	stats.StdDev = math.Sqrt(sq / float64(n))
	return stats
}

func EstimateBias(points []HistoricalPoint) BiasStatistics {
	return NewBiasSample(points).Statistics()
}
