package projection

import (
	"context"
	"espn-ffl/internal/domain"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Candidate is one already-filtered player to analyze. History may hold
// rows for other players or seasons; only matching rows are used.
type Candidate struct {
	PlayerID   int64
	Name       string
	Position   string
	Team       *string
	Projection *float64
	History    []domain.WeeklyStats
}

type AdjustmentResult struct {
	PlayerID        int64   `json:"player_id"`
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	Team            *string `json:"team"`
	ESPNProjection  float64 `json:"espn_projection"`
	BiasAdjustment  float64 `json:"bias_adjustment"`
	EstimatedPoints float64 `json:"estimated_points"`
	Confidence      float64 `json:"confidence"`
	Reasoning       string  `json:"reasoning"`
}

type Request struct {
	Season       int
	Week         int
	BiasStrength float64
}

func (r Request) Validate() error {
	if math.IsNaN(r.BiasStrength) || math.IsInf(r.BiasStrength, 0) || r.BiasStrength < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidStrength, r.BiasStrength)
	}
	if r.Week < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWeek, r.Week)
	}
	return nil
}

// AnalyzePlayer runs extraction, estimation, confidence and adjustment for
// one candidate.
func AnalyzePlayer(c Candidate, req Request) AdjustmentResult {
	history := ExtractHistory(c.History, c.PlayerID, req.Season, req.Week)
	stats := EstimateBias(history)
	conf := Confidence(stats)
	adj := CalculateAdjustment(c.Projection, stats, conf, req.BiasStrength)

	result := AdjustmentResult{
		PlayerID:        c.PlayerID,
		Name:            c.Name,
		Position:        c.Position,
		Team:            c.Team,
		BiasAdjustment:  adj.BiasAdjustment,
		EstimatedPoints: adj.EstimatedPoints,
		Confidence:      conf,
		Reasoning:       adj.Reasoning,
	}
	if c.Projection != nil {
		result.ESPNProjection = *c.Projection
	} else {
		result.Confidence = 0
	}
	return result
}

// Analyze validates the request, analyzes every candidate concurrently and
// returns results ranked by estimated points (desc), then name, then id.
func Analyze(ctx context.Context, candidates []Candidate, req Request) ([]AdjustmentResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	results := make([]AdjustmentResult, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range candidates {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = AnalyzePlayer(candidates[i], req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	Rank(results)
	return results, nil
}

func Rank(results []AdjustmentResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.EstimatedPoints != b.EstimatedPoints {
			return a.EstimatedPoints > b.EstimatedPoints
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.PlayerID < b.PlayerID
	})
}
