package domain

import (
	"time"
)

type Player struct {
	PlayerID  int64
	Name      string
	Position  string
	Team      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeeklyStats is one stored week for one player. Projected and actual
// values arrive from separate fetches, so either may still be missing.
type WeeklyStats struct {
	PlayerID        int64
	Season          int
	Week            int
	ProjectedPoints *float64
	ActualPoints    *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type FetchLog struct {
	ID          string // nanoid
	Season      int
	Week        int
	Source      StatSource
	PlayerCount int
	FetchedAt   time.Time
}

type StatSource string

const (
	SourceActual    StatSource = "actual"
	SourceProjected StatSource = "projected"
)

func SourceFor(projected bool) StatSource {
	if projected {
		return SourceProjected
	}
	return SourceActual
}

// ESPNID is the statSourceId used in ESPN stat blocks.
func (s StatSource) ESPNID() int {
	if s == SourceProjected {
		return 1
	}
	return 0
}

type PlayerPoints struct {
	PlayerID     int64         `json:"id"`
	Name         string        `json:"name"`
	Position     string        `json:"position"`
	ProTeam      *string       `json:"pro_team,omitempty"`
	Week         int           `json:"week"`
	Projected    bool          `json:"projected"`
	Points       float64       `json:"points"`
	Active       *bool         `json:"active,omitempty"`
	Injured      *bool         `json:"injured,omitempty"`
	InjuryStatus *InjuryStatus `json:"injury_status,omitempty"`
	IsRostered   *bool         `json:"is_rostered,omitempty"`
	TeamID       *int          `json:"team_id,omitempty"`
	TeamName     *string       `json:"team_name,omitempty"`
}
