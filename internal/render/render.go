package render

import (
	"encoding/json"
	"espn-ffl/internal/constants"
	"espn-ffl/internal/domain"
	"espn-ffl/internal/projection"
	"fmt"
	"io"
	"math"
	"strings"
)

func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ProjectionTable writes the fixed-width analysis table. Adjustments under
// 0.1 points print as "--".
func ProjectionTable(w io.Writer, results []projection.AdjustmentResult, season, week int) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Projection analysis for season %d, week %d\n\n", season, week)
	fmt.Fprintf(&b, "%-20s %-5s %6s %6s %6s %5s  %s\n", "Name", "Pos", "ESPN", "Adj", "Final", "Conf%", "Reasoning")
	b.WriteString(strings.Repeat("-", 20+1+5+1+6+1+6+1+6+1+5+2+9))
	b.WriteByte('\n')

	for _, r := range results {
		fmt.Fprintf(&b, "%-20s %-5s %6.1f %6s %6.1f %4d%%  %s\n",
			truncate(r.Name, constants.NameColumnWidth),
			r.Position,
			r.ESPNProjection,
			formatAdjustment(r.BiasAdjustment),
			r.EstimatedPoints,
			int(math.Round(r.Confidence*100)),
			r.Reasoning,
		)
	}

	if len(results) == 0 {
		b.WriteString("No players matched the given filters.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// PlayerPoints writes one line per player: id, name, position, points.
func PlayerPoints(w io.Writer, points []domain.PlayerPoints) error {
	var b strings.Builder
	for _, p := range points {
		fmt.Fprintf(&b, "%s %-22s %-5s %-18s %7.2f", kindLabel(p.Projected), truncate(p.Name, 22), p.Position, statusLabel(p), p.Points)
		if p.TeamName != nil {
			fmt.Fprintf(&b, "  [%s]", *p.TeamName)
		}
		fmt.Fprintf(&b, "  (id %d)\n", p.PlayerID)
	}
	if len(points) == 0 {
		b.WriteString("No players matched the given filters.\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatAdjustment(adj float64) string {
	if math.Abs(adj) < 0.1 {
		return "--"
	}
	return fmt.Sprintf("%+.1f", adj)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func kindLabel(projected bool) string {
	if projected {
		return "proj"
	}
	return "act "
}

func statusLabel(p domain.PlayerPoints) string {
	if p.InjuryStatus != nil {
		return string(*p.InjuryStatus)
	}
	if p.Injured != nil && *p.Injured {
		return "INJURED"
	}
	return ""
}
