package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidInjuryFilter = errors.New("invalid injury status filter")
	ErrInvalidRosterFilter = errors.New("invalid roster status filter")
)

type InjuryStatus string

const (
	InjuryActive        InjuryStatus = "ACTIVE"
	InjuryReserve       InjuryStatus = "INJURY_RESERVE"
	InjuryOut           InjuryStatus = "OUT"
	InjuryDoubtful      InjuryStatus = "DOUBTFUL"
	InjuryQuestionable  InjuryStatus = "QUESTIONABLE"
	InjuryProbable      InjuryStatus = "PROBABLE"
	InjuryDayToDay      InjuryStatus = "DAY_TO_DAY"
	InjuryUnknownStatus InjuryStatus = "UNKNOWN"
)

func ParseInjuryStatus(s string) InjuryStatus {
	switch st := InjuryStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case InjuryActive, InjuryReserve, InjuryOut, InjuryDoubtful,
		InjuryQuestionable, InjuryProbable, InjuryDayToDay:
		return st
	}
	return InjuryUnknownStatus
}

func (s *InjuryStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseInjuryStatus(raw)
	return nil
}

type InjuryFilter string

const (
	FilterActive       InjuryFilter = "active"
	FilterInjured      InjuryFilter = "injured"
	FilterOut          InjuryFilter = "out"
	FilterDoubtful     InjuryFilter = "doubtful"
	FilterQuestionable InjuryFilter = "questionable"
	FilterProbable     InjuryFilter = "probable"
	FilterDayToDay     InjuryFilter = "day-to-day"
	FilterIR           InjuryFilter = "ir"
)

func ParseInjuryFilter(s string) (InjuryFilter, error) {
	switch f := InjuryFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterActive, FilterInjured, FilterOut, FilterDoubtful,
		FilterQuestionable, FilterProbable, FilterDayToDay, FilterIR:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidInjuryFilter, s)
}

type RosterFilter string

const (
	FilterRostered RosterFilter = "rostered"
	FilterFA       RosterFilter = "fa"
)

func ParseRosterFilter(s string) (RosterFilter, error) {
	switch f := RosterFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterRostered, FilterFA:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRosterFilter, s)
}

// TeamFilter selects players on a fantasy team by id, or by a
// case-insensitive substring of the team name when ID is nil.
type TeamFilter struct {
	ID   *int
	Name string
}

func NewTeamFilter(name string, id int) *TeamFilter {
	if id > 0 {
		return &TeamFilter{ID: &id}
	}
	if name == "" {
		return nil
	}
	if n, err := strconv.Atoi(name); err == nil && n > 0 {
		return &TeamFilter{ID: &n}
	}
	return &TeamFilter{Name: name}
}

// StatusFilters are applied after roster information is merged in.
type StatusFilters struct {
	Injury *InjuryFilter
	Roster *RosterFilter
	Team   *TeamFilter
}

func (f StatusFilters) Empty() bool {
	return f.Injury == nil && f.Roster == nil && f.Team == nil
}

// ParseStatusFilters builds filters from raw flag or query values; empty
// values leave the filter unset.
func ParseStatusFilters(injury, roster, team string, teamID int) (StatusFilters, error) {
	var f StatusFilters
	if injury != "" {
		v, err := ParseInjuryFilter(injury)
		if err != nil {
			return f, err
		}
		f.Injury = &v
	}
	if roster != "" {
		v, err := ParseRosterFilter(roster)
		if err != nil {
			return f, err
		}
		f.Roster = &v
	}
	f.Team = NewTeamFilter(team, teamID)
	return f, nil
}
