package api

import (
	"encoding/json"
	"espn-ffl/internal/domain"
)

type value[T any] struct {
	Value T `json:"value"`
}

type PlayersFilter struct {
	FilterActive  *value[bool]   `json:"filterActive,omitempty"`
	FilterName    *value[string] `json:"filterName,omitempty"`
	FilterSlotIDs *value[[]int]  `json:"filterSlotIds,omitempty"`
	Limit         *int           `json:"limit,omitempty"`
}

// PlayersQuery describes one kona_player_info request.
type PlayersQuery struct {
	LeagueID  string
	Season    int
	Week      int
	Names     []string
	Positions []domain.Position
	Limit     int
	Active    *bool
}

// Filter builds the x-fantasy-filter payload. ESPN only supports a single
// name, so several names are filtered locally instead.
func (q PlayersQuery) Filter() PlayersFilter {
	var f PlayersFilter
	if q.Limit > 0 {
		limit := q.Limit
		f.Limit = &limit
	}
	if len(q.Names) == 1 {
		f.FilterName = &value[string]{Value: q.Names[0]}
	}
	if len(q.Positions) > 0 {
		slots := make([]int, 0, len(q.Positions))
		for _, p := range q.Positions {
			slots = append(slots, p.SlotID())
		}
		f.FilterSlotIDs = &value[[]int]{Value: slots}
	}
	if q.Active != nil {
		f.FilterActive = &value[bool]{Value: *q.Active}
	}
	return f
}

func (q PlayersQuery) HeaderValue() (string, error) {
	b, err := json.Marshal(struct {
		Players PlayersFilter `json:"players"`
	}{Players: q.Filter()})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
