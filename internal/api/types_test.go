package api

import (
	"espn-ffl/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeagueSettingsFormats(t *testing.T) {
	envelope := []byte(`{"settings":{"scoringSettings":{"scoringItems":[{"statId":25,"points":6.0,"pointsOverrides":{}}]}}}`)
	direct := []byte(`{"scoringSettings":{"scoringItems":[{"statId":20,"points":-2.0}]},"rosterSettings":{"lineupSlotCounts":{}}}`)

	s, err := ParseLeagueSettings(envelope)
	require.NoError(t, err)
	assert.Equal(t, 25, s.ScoringSettings.ScoringItems[0].StatID)
	assert.Nil(t, s.AllowedPositions())

	s, err = ParseLeagueSettings(direct)
	require.NoError(t, err)
	assert.Equal(t, -2.0, s.ScoringSettings.ScoringItems[0].Points)
	assert.Nil(t, s.AllowedPositions())

	_, err = ParseLeagueSettings([]byte(`{"settings":{}}`))
	assert.ErrorIs(t, err, ErrNoScoringSettings)

	_, err = ParseLeagueSettings([]byte(`not json`))
	assert.Error(t, err)
}

func TestPlayerEligibility(t *testing.T) {
	assert.True(t, Player{ID: 100, DefaultPositionID: 2}.Eligible())
	assert.True(t, Player{ID: -16001, DefaultPositionID: 16}.Eligible())
	assert.False(t, Player{ID: -5, DefaultPositionID: 2}.Eligible())
	assert.False(t, Player{ID: 100, DefaultPositionID: 9}.Eligible())
	assert.Equal(t, int64(16001), Player{ID: -16001}.NormalizedID())
	assert.Equal(t, "Player 7", Player{ID: 7}.DisplayName())
}

func TestApplyRoster(t *testing.T) {
	name := "Gridiron Gang"
	league := &LeagueData{Teams: []Team{{
		ID:   4,
		Name: &name,
		Roster: &TeamRoster{Entries: []RosterEntry{
			{PlayerID: 10},
			{PlayerID: -16002},
		}},
	}, {ID: 5}}}

	points := []domain.PlayerPoints{{PlayerID: 10}, {PlayerID: 16002}, {PlayerID: 99}}
	league.ApplyRoster(points)

	require.NotNil(t, points[0].IsRostered)
	assert.True(t, *points[0].IsRostered)
	assert.Equal(t, 4, *points[0].TeamID)
	assert.Equal(t, name, *points[0].TeamName)
	assert.True(t, *points[1].IsRostered)
	assert.False(t, *points[2].IsRostered)
	assert.Nil(t, points[2].TeamID)
}

func TestPlayersQueryFilter(t *testing.T) {
	active := true
	q := PlayersQuery{
		Names:     []string{"a", "b"},
		Positions: []domain.Position{domain.PositionFLEX, domain.PositionK},
		Limit:     50,
		Active:    &active,
	}

	h, err := q.HeaderValue()
	require.NoError(t, err)
	assert.JSONEq(t, `{"players":{"filterActive":{"value":true},"filterSlotIds":{"value":[23,17]},"limit":50}}`, h)

	h, err = PlayersQuery{}.HeaderValue()
	require.NoError(t, err)
	assert.JSONEq(t, `{"players":{}}`, h)
}
