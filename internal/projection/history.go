package projection

import (
	"espn-ffl/internal/domain"
	"sort"
)

// HistoricalPoint is one played week for one player.
type HistoricalPoint struct {
	Week      int     `json:"week"`
	Projected float64 `json:"projected"`
	Actual    float64 `json:"actual"`
}

// ExtractHistory returns the player's weeks 1..targetWeek-1 of season in
// week order. Weeks without both values, and BYE weeks (projected == 0),
// are left out.
func ExtractHistory(records []domain.WeeklyStats, playerID int64, season, targetWeek int) []HistoricalPoint {
	if targetWeek <= 1 {
		return nil
	}

	points := make([]HistoricalPoint, 0, targetWeek-1)
	for _, r := range records {
		if r.PlayerID != playerID || r.Season != season {
			continue
		}
		if r.Week < 1 || r.Week >= targetWeek {
			continue
		}
		if r.ProjectedPoints == nil || r.ActualPoints == nil {
			continue
		}
		if *r.ProjectedPoints == 0 {
			continue
		}
		points = append(points, HistoricalPoint{
			Week:      r.Week,
			Projected: *r.ProjectedPoints,
			Actual:    *r.ActualPoints,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Week < points[j].Week
	})
	return points
}
