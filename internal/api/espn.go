package api

import (
	"context"
	"encoding/json"
	"errors"
	"espn-ffl/internal/config"
	"espn-ffl/internal/constants"
	"espn-ffl/internal/metrics"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

var (
	ErrMissingCredentials = errors.New("ESPN_SWID and ESPN_S2 must both be set for league endpoints")
	ErrUnexpectedStatus   = errors.New("unexpected ESPN status")
)

const (
	endpointSettings = "league_settings"
	endpointRosters  = "league_rosters"
	endpointPlayers  = "players"
)

type ESPNClient struct {
	baseURL string
	swid    string
	espnS2  string
	client  *fasthttp.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewESPNClient(cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *ESPNClient {
	logger = logger.With().Str("component", "espn_client").Logger()

	settings := gobreaker.Settings{
		Name:        "espn",
		MaxRequests: constants.BreakerMaxRequests,
		Interval:    constants.BreakerInterval,
		Timeout:     constants.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= constants.BreakerMinRequests && failureRatio >= constants.BreakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &ESPNClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		swid:    cfg.SWID,
		espnS2:  cfg.ESPNS2,
		client: &fasthttp.Client{
			Name:                "espn-ffl",
			MaxConnsPerHost:     16,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		breaker: gobreaker.NewCircuitBreaker(settings),
		metrics: m,
		logger:  logger,
	}
}

// GetLeagueSettings returns the raw mSettings payload so callers can cache
// exactly what ESPN sent.
func (c *ESPNClient) GetLeagueSettings(ctx context.Context, season int, leagueID string) (*LeagueSettings, []byte, error) {
	if err := c.requireCredentials(); err != nil {
		return nil, nil, err
	}
	u := fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%s?view=mSettings", c.baseURL, season, url.PathEscape(leagueID))

	body, err := c.get(ctx, endpointSettings, u, nil)
	if err != nil {
		return nil, nil, err
	}
	settings, err := ParseLeagueSettings(body)
	if err != nil {
		return nil, nil, err
	}
	return settings, body, nil
}

func (c *ESPNClient) GetLeagueRosters(ctx context.Context, season int, leagueID string, week *int) (*LeagueData, error) {
	if err := c.requireCredentials(); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%s?view=mRoster&view=mTeam", c.baseURL, season, url.PathEscape(leagueID))
	if week != nil {
		u += fmt.Sprintf("&scoringPeriodId=%d", *week)
	}
	return doRequest[LeagueData](ctx, c, endpointRosters, u, nil)
}

func (c *ESPNClient) GetPlayers(ctx context.Context, q PlayersQuery) ([]Player, error) {
	filter, err := q.HeaderValue()
	if err != nil {
		return nil, fmt.Errorf("failed to build players filter: %w", err)
	}
	u := fmt.Sprintf("%s/seasons/%d/players?forLeagueId=%s&view=kona_player_info&scoringPeriodId=%d",
		c.baseURL, q.Season, url.QueryEscape(q.LeagueID), q.Week)

	c.logger.Debug().
		Str("url", u).
		Str("x-fantasy-filter", filter).
		Msg("requesting players")

	players, err := doRequest[[]Player](ctx, c, endpointPlayers, u, map[string]string{"x-fantasy-filter": filter})
	if err != nil {
		return nil, err
	}
	return *players, nil
}

func (c *ESPNClient) requireCredentials() error {
	if c.swid == "" || c.espnS2 == "" {
		return ErrMissingCredentials
	}
	return nil
}

func (c *ESPNClient) get(ctx context.Context, endpoint, u string, headers map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, u, headers)
	})

	outcome := "ok"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "breaker_open"
	case err != nil:
		outcome = "error"
	}
	c.metrics.ObserveESPNRequest(endpoint, outcome, time.Since(start))

	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("ESPN request failed")
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	return out.([]byte), nil
}

func (c *ESPNClient) do(ctx context.Context, u string, headers map[string]string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(u)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.swid != "" && c.espnS2 != "" {
		req.Header.Set("Cookie", fmt.Sprintf("SWID=%s; espn_s2=%s", c.swid, c.espnS2))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.ExternalAPITimeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, err
	}

	if status := resp.StatusCode(); status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)
	}

	// resp is released on return, so the body must be copied out.
	return append([]byte(nil), resp.Body()...), nil
}

func doRequest[T any](ctx context.Context, c *ESPNClient, endpoint, u string, headers map[string]string) (*T, error) {
	body, err := c.get(ctx, endpoint, u, headers)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return &result, nil
}
