package api

import (
	"encoding/json"
	"errors"
	"espn-ffl/internal/domain"
	"fmt"
	"sort"
	"strconv"
)

type ScoringItem struct {
	StatID int     `json:"statId"`
	Points float64 `json:"points"`
	// Keyed by lineup slot id.
	PointsOverrides map[int]float64 `json:"pointsOverrides,omitempty"`
}

func (s *ScoringItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		StatID          int                `json:"statId"`
		Points          float64            `json:"points"`
		PointsOverrides map[string]float64 `json:"pointsOverrides"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.StatID = raw.StatID
	s.Points = raw.Points
	s.PointsOverrides = nil
	for k, v := range raw.PointsOverrides {
		slot, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("invalid pointsOverrides slot %q: %w", k, err)
		}
		if s.PointsOverrides == nil {
			s.PointsOverrides = make(map[int]float64, len(raw.PointsOverrides))
		}
		s.PointsOverrides[slot] = v
	}
	return nil
}

type ScoringSettings struct {
	ScoringItems []ScoringItem `json:"scoringItems"`
}

type RosterSettings struct {
	LineupSlotCounts map[string]int `json:"lineupSlotCounts,omitempty"`
}

type LeagueSettings struct {
	ScoringSettings ScoringSettings `json:"scoringSettings"`
	RosterSettings  *RosterSettings `json:"rosterSettings,omitempty"`
}

// AllowedPositions lists positions with at least one lineup slot. Nil means
// the league did not report slot counts and every position is allowed.
func (s *LeagueSettings) AllowedPositions() []domain.Position {
	if s.RosterSettings == nil || len(s.RosterSettings.LineupSlotCounts) == 0 {
		return nil
	}

	seen := make(map[domain.Position]bool)
	for k, count := range s.RosterSettings.LineupSlotCounts {
		if count <= 0 {
			continue
		}
		slot, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		for _, p := range domain.LineupSlotPositions(slot) {
			seen[p] = true
		}
	}

	out := make([]domain.Position, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type leagueEnvelope struct {
	Settings *LeagueSettings `json:"settings"`
}

var ErrNoScoringSettings = errors.New("league settings contain no scoring items")

// ParseLeagueSettings accepts both the mSettings envelope ({"settings": {...}})
// and a bare settings object.
func ParseLeagueSettings(data []byte) (*LeagueSettings, error) {
	var env leagueEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Settings != nil && len(env.Settings.ScoringSettings.ScoringItems) > 0 {
		return env.Settings, nil
	}

	var direct LeagueSettings
	if err := json.Unmarshal(data, &direct); err != nil {
		return nil, fmt.Errorf("failed to decode league settings: %w", err)
	}
	if len(direct.ScoringSettings.ScoringItems) == 0 {
		return nil, ErrNoScoringSettings
	}
	return &direct, nil
}

type PlayerStats struct {
	SeasonID        int                `json:"seasonId"`
	ScoringPeriodID int                `json:"scoringPeriodId"`
	StatSourceID    int                `json:"statSourceId"`
	StatSplitTypeID int                `json:"statSplitTypeId"`
	Stats           map[string]float64 `json:"stats"`
	AppliedTotal    *float64           `json:"appliedTotal,omitempty"`
}

type Player struct {
	ID                int64                `json:"id"`
	FullName          string               `json:"fullName"`
	DefaultPositionID int                  `json:"defaultPositionId"`
	ProTeamID         int                  `json:"proTeamId,omitempty"`
	Stats             []PlayerStats        `json:"stats"`
	Active            *bool                `json:"active,omitempty"`
	Injured           *bool                `json:"injured,omitempty"`
	InjuryStatus      *domain.InjuryStatus `json:"injuryStatus,omitempty"`
}

func (p Player) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return fmt.Sprintf("Player %d", p.ID)
}

// Eligible reports whether the player is kept at all: IDP positions (8-15)
// and negative ids other than team defenses are dropped.
func (p Player) Eligible() bool {
	if p.DefaultPositionID >= 8 && p.DefaultPositionID <= 15 {
		return false
	}
	return p.ID >= 0 || p.DefaultPositionID == domain.DefensePositionID
}

// NormalizedID folds team defense ids (negative) to positive.
func (p Player) NormalizedID() int64 {
	if p.ID < 0 {
		return -p.ID
	}
	return p.ID
}

func (p Player) Position() (domain.Position, bool) {
	return domain.PositionFromID(p.DefaultPositionID)
}

type RosterEntry struct {
	PlayerID     int64   `json:"playerId"`
	LineupSlotID int     `json:"lineupSlotId"`
	InjuryStatus *string `json:"injuryStatus,omitempty"`
}

type TeamRoster struct {
	Entries []RosterEntry `json:"entries"`
}

type Team struct {
	ID     int         `json:"id"`
	Name   *string     `json:"name,omitempty"`
	Abbrev *string     `json:"abbrev,omitempty"`
	Roster *TeamRoster `json:"roster,omitempty"`
}

type LeagueData struct {
	Teams []Team `json:"teams"`
}

type RosterInfo struct {
	TeamID   int
	TeamName *string
	Abbrev   *string
}

func (l *LeagueData) RosterMap() map[int64]RosterInfo {
	out := make(map[int64]RosterInfo)
	for _, t := range l.Teams {
		if t.Roster == nil {
			continue
		}
		for _, e := range t.Roster.Entries {
			out[e.PlayerID] = RosterInfo{TeamID: t.ID, TeamName: t.Name, Abbrev: t.Abbrev}
		}
	}
	return out
}

// ApplyRoster fills roster fields on every entry. Rosters may carry team
// defenses under the negated id, so both signs are tried.
func (l *LeagueData) ApplyRoster(points []domain.PlayerPoints) {
	roster := l.RosterMap()
	for i := range points {
		info, ok := roster[points[i].PlayerID]
		if !ok {
			info, ok = roster[-points[i].PlayerID]
		}
		rostered := ok
		points[i].IsRostered = &rostered
		if !ok {
			points[i].TeamID = nil
			points[i].TeamName = nil
			continue
		}
		teamID := info.TeamID
		points[i].TeamID = &teamID
		points[i].TeamName = info.TeamName
	}
}
