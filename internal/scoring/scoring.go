// Package scoring turns raw ESPN stat blocks into fantasy points using a
// league's scoring settings.
package scoring

import (
	"espn-ffl/internal/api"
	"espn-ffl/internal/domain"
	"strconv"
)

// splitWeekly is the statSplitTypeId of a single scoring period.
const splitWeekly = 1

type rule struct {
	points    float64
	overrides map[int]float64
}

type Index map[int]rule

func BuildIndex(settings *api.LeagueSettings) Index {
	idx := make(Index, len(settings.ScoringSettings.ScoringItems))
	for _, item := range settings.ScoringSettings.ScoringItems {
		idx[item.StatID] = rule{points: item.Points, overrides: item.PointsOverrides}
	}
	return idx
}

// SelectWeeklyStats finds the stat block for one season, week and source.
func SelectWeeklyStats(p api.Player, season, week int, source domain.StatSource) (map[string]float64, bool) {
	for _, s := range p.Stats {
		if s.SeasonID == season &&
			s.ScoringPeriodID == week &&
			s.StatSourceID == source.ESPNID() &&
			s.StatSplitTypeID == splitWeekly {
			return s.Stats, true
		}
	}
	return nil, false
}

// Points sums value * (slot override, else base points) over scored stats.
// Stat ids missing from the index score nothing.
func (idx Index) Points(stats map[string]float64, slot int) float64 {
	var total float64
	for k, v := range stats {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		r, ok := idx[id]
		if !ok {
			continue
		}
		pts := r.points
		if o, ok := r.overrides[slot]; ok {
			pts = o
		}
		total += v * pts
	}
	return total
}

// PlayerPoints scores a player for one week. ok is false when ESPN has no
// stat block for that week and source.
func (idx Index) PlayerPoints(p api.Player, season, week int, source domain.StatSource) (float64, bool) {
	stats, ok := SelectWeeklyStats(p, season, week, source)
	if !ok {
		return 0, false
	}
	return idx.Points(stats, p.DefaultPositionID), true
}
