package filter

import (
	"espn-ffl/internal/api"
	"espn-ffl/internal/domain"
	"strings"
)

// Players keeps eligible players whose name contains any of names and whose
// position satisfies any of positions. Empty lists match everything.
func Players(players []api.Player, names []string, positions []domain.Position) []api.Player {
	out := make([]api.Player, 0, len(players))
	for _, p := range players {
		if !p.Eligible() {
			continue
		}
		if !MatchesName(p.DisplayName(), names) {
			continue
		}
		if len(positions) > 0 {
			pos, ok := p.Position()
			if !ok || !MatchesPosition(pos, positions) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func MatchesName(name string, names []string) bool {
	if len(names) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, n := range names {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func MatchesPosition(pos domain.Position, positions []domain.Position) bool {
	if len(positions) == 0 {
		return true
	}
	for _, f := range positions {
		if f.Matches(pos) {
			return true
		}
	}
	return false
}

func MatchesInjury(p domain.PlayerPoints, f domain.InjuryFilter) bool {
	status := p.InjuryStatus
	switch f {
	case domain.FilterActive:
		if status != nil {
			return *status == domain.InjuryActive
		}
		return p.Injured == nil || !*p.Injured
	case domain.FilterInjured:
		if p.Injured != nil && *p.Injured {
			return true
		}
		return status != nil && *status != domain.InjuryActive
	case domain.FilterOut:
		return status != nil && *status == domain.InjuryOut
	case domain.FilterDoubtful:
		return status != nil && *status == domain.InjuryDoubtful
	case domain.FilterQuestionable:
		return status != nil && *status == domain.InjuryQuestionable
	case domain.FilterProbable:
		return status != nil && *status == domain.InjuryProbable
	case domain.FilterDayToDay:
		return status != nil && *status == domain.InjuryDayToDay
	case domain.FilterIR:
		return status != nil && *status == domain.InjuryReserve
	}
	return true
}

// MatchesRoster treats unknown roster state as neither rostered nor FA.
func MatchesRoster(p domain.PlayerPoints, f domain.RosterFilter) bool {
	switch f {
	case domain.FilterRostered:
		return p.IsRostered != nil && *p.IsRostered
	case domain.FilterFA:
		return p.IsRostered != nil && !*p.IsRostered
	}
	return true
}

func MatchesTeam(p domain.PlayerPoints, f domain.TeamFilter) bool {
	if f.ID != nil {
		return p.TeamID != nil && *p.TeamID == *f.ID
	}
	if p.TeamName == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*p.TeamName), strings.ToLower(f.Name))
}

func ApplyStatus(points []domain.PlayerPoints, f domain.StatusFilters) []domain.PlayerPoints {
	if f.Empty() {
		return points
	}
	out := points[:0:0]
	for _, p := range points {
		if f.Injury != nil && !MatchesInjury(p, *f.Injury) {
			continue
		}
		if f.Roster != nil && !MatchesRoster(p, *f.Roster) {
			continue
		}
		if f.Team != nil && !MatchesTeam(p, *f.Team) {
			continue
		}
		out = append(out, p)
	}
	return out
}
