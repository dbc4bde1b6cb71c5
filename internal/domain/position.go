package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPosition = errors.New("unknown position")

type Position string

const (
	PositionQB   Position = "QB"
	PositionRB   Position = "RB"
	PositionWR   Position = "WR"
	PositionTE   Position = "TE"
	PositionK    Position = "K"
	PositionDST  Position = "D/ST"
	PositionFLEX Position = "FLEX"
)

// DefensePositionID is the ESPN default position id for team defenses,
// whose player ids come back negated.
const DefensePositionID = 16

func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "QB":
		return PositionQB, nil
	case "RB":
		return PositionRB, nil
	case "WR":
		return PositionWR, nil
	case "TE":
		return PositionTE, nil
	case "K":
		return PositionK, nil
	case "D/ST", "DST", "DEF", "D":
		return PositionDST, nil
	case "FLEX":
		return PositionFLEX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPosition, s)
}

func ParsePositions(values []string) ([]Position, error) {
	out := make([]Position, 0, len(values))
	for _, v := range values {
		p, err := ParsePosition(v)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// PositionFromID maps an ESPN defaultPositionId.
func PositionFromID(id int) (Position, bool) {
	switch id {
	case 0, 1:
		return PositionQB, true
	case 2:
		return PositionRB, true
	case 3:
		return PositionWR, true
	case 4, 6:
		return PositionTE, true
	case 5, 17:
		return PositionK, true
	case DefensePositionID:
		return PositionDST, true
	}
	return "", false
}

// LineupSlotPositions maps an ESPN lineup slot id to the positions that
// can fill it.
func LineupSlotPositions(slot int) []Position {
	switch slot {
	case 0:
		return []Position{PositionQB}
	case 2:
		return []Position{PositionRB}
	case 4:
		return []Position{PositionWR}
	case 6:
		return []Position{PositionTE}
	case 16:
		return []Position{PositionDST}
	case 17:
		return []Position{PositionK}
	case 23:
		return PositionFLEX.Expand()
	}
	return nil
}

// SlotID is the lineup slot id used in the players filter header.
func (p Position) SlotID() int {
	switch p {
	case PositionQB:
		return 0
	case PositionRB:
		return 2
	case PositionWR:
		return 4
	case PositionTE:
		return 6
	case PositionDST:
		return 16
	case PositionK:
		return 17
	case PositionFLEX:
		return 23
	}
	return -1
}

// Expand returns the concrete positions a filter position covers.
func (p Position) Expand() []Position {
	if p == PositionFLEX {
		return []Position{PositionRB, PositionWR, PositionTE}
	}
	return []Position{p}
}

// Matches reports whether a player at position other satisfies p as a filter.
func (p Position) Matches(other Position) bool {
	for _, e := range p.Expand() {
		if e == other {
			return true
		}
	}
	return false
}

func (p Position) String() string {
	return string(p)
}
