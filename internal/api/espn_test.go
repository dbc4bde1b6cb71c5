package api

import (
	"context"
	"encoding/json"
	"espn-ffl/internal/config"
	"espn-ffl/internal/domain"
	"espn-ffl/internal/metrics"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, creds bool) *ESPNClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{BaseURL: srv.URL, RateLimit: 1000}
	if creds {
		cfg.SWID = "{ABC}"
		cfg.ESPNS2 = "s2token"
	}
	return NewESPNClient(cfg, metrics.New(), zerolog.Nop())
}

func TestGetLeagueSettings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seasons/2025/segments/0/leagues/12345", r.URL.Path)
		assert.Equal(t, "mSettings", r.URL.Query().Get("view"))
		assert.Equal(t, "SWID={ABC}; espn_s2=s2token", r.Header.Get("Cookie"))
		_, _ = w.Write([]byte(`{"settings":{"scoringSettings":{"scoringItems":[{"statId":53,"points":1,"pointsOverrides":{"16":2}}]},"rosterSettings":{"lineupSlotCounts":{"0":1,"23":1,"20":6}}}}`))
	}, true)

	settings, raw, err := client.GetLeagueSettings(context.Background(), 2025, "12345")
	require.NoError(t, err)
	require.Len(t, settings.ScoringSettings.ScoringItems, 1)
	assert.Equal(t, 53, settings.ScoringSettings.ScoringItems[0].StatID)
	assert.Equal(t, map[int]float64{16: 2}, settings.ScoringSettings.ScoringItems[0].PointsOverrides)
	assert.NotEmpty(t, raw)
	assert.Equal(t, []domain.Position{domain.PositionQB, domain.PositionRB, domain.PositionTE, domain.PositionWR}, settings.AllowedPositions())
}

func TestGetLeagueSettingsRequiresCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, false)

	_, _, err := client.GetLeagueSettings(context.Background(), 2025, "1")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = client.GetLeagueRosters(context.Background(), 2025, "1", nil)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestGetLeagueRosters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"mRoster", "mTeam"}, r.URL.Query()["view"])
		assert.Equal(t, "3", r.URL.Query().Get("scoringPeriodId"))
		_, _ = w.Write([]byte(`{"teams":[{"id":4,"name":"Gridiron Gang","roster":{"entries":[{"playerId":15847,"lineupSlotId":0},{"playerId":-16002,"lineupSlotId":16}]}}]}`))
	}, true)

	week := 3
	league, err := client.GetLeagueRosters(context.Background(), 2025, "9", &week)
	require.NoError(t, err)
	require.Len(t, league.Teams, 1)
	assert.Len(t, league.RosterMap(), 2)
}

func TestGetPlayers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seasons/2025/players", r.URL.Path)
		assert.Equal(t, "kona_player_info", r.URL.Query().Get("view"))
		assert.Equal(t, "4", r.URL.Query().Get("scoringPeriodId"))
		assert.Equal(t, "77", r.URL.Query().Get("forLeagueId"))

		var filter map[string]map[string]json.RawMessage
		assert.NoError(t, json.Unmarshal([]byte(r.Header.Get("x-fantasy-filter")), &filter))
		assert.JSONEq(t, `{"value":"Allen"}`, string(filter["players"]["filterName"]))
		assert.JSONEq(t, `{"value":[0]}`, string(filter["players"]["filterSlotIds"]))

		_, _ = w.Write([]byte(`[{"id":3918298,"fullName":"Josh Allen","defaultPositionId":1,"injuryStatus":"ACTIVE","stats":[{"seasonId":2025,"scoringPeriodId":4,"statSourceId":1,"statSplitTypeId":1,"stats":{"3":250}}]}]`))
	}, false)

	players, err := client.GetPlayers(context.Background(), PlayersQuery{
		LeagueID:  "77",
		Season:    2025,
		Week:      4,
		Names:     []string{"Allen"},
		Positions: []domain.Position{domain.PositionQB},
	})
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Josh Allen", players[0].DisplayName())
	require.NotNil(t, players[0].InjuryStatus)
	assert.Equal(t, domain.InjuryActive, *players[0].InjuryStatus)
}

func TestGetPlayersUnexpectedStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, true)

	_, err := client.GetPlayers(context.Background(), PlayersQuery{LeagueID: "1", Season: 2025, Week: 1})
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}
