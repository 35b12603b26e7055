package sportmonks

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
	"github.com/riskibarqy/matchday-alerts/internal/platform/resilience"
	"github.com/riskibarqy/matchday-alerts/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.sportmonks.com/v3/football"
	fixtureInclude  = "participants;scores;venue;state"
	fixturesPerPage = 50
	maxFixturePages = 40
	maxBodyBytes    = 6 << 20
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errSportMonksTransient = crerr.New("sportmonks transient failure")

type ClientConfig struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	// LeagueIDByLeague maps the league label stored on matches to its SportMonks league id.
	LeagueIDByLeague map[string]int64
	Logger           *logging.Logger
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// Client reads fixtures from the SportMonks football API.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	leagueByID     map[int64]string
	logger         *logging.Logger
	guard          *resilience.Guard
	flight         resilience.Flight[[]byte]
	retryBackoff   time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	leagueByID := make(map[int64]string, len(cfg.LeagueIDByLeague))
	for league, id := range cfg.LeagueIDByLeague {
		league = strings.TrimSpace(league)
		if league == "" || id <= 0 {
			continue
		}
		leagueByID[id] = league
	}

	return &Client{
		httpClient: &fasthttp.Client{
			Name:                "matchday-alerts",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
			MaxResponseBodySize: maxBodyBytes,
		},
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		leagueByID:     leagueByID,
		logger:         logger,
		guard:          resilience.NewGuard("sportmonks", cfg.CircuitBreaker, isSportMonksCircuitFailure, logger),
		retryBackoff:   time.Second,
	}
}

// FetchFixtures returns fixtures of the configured leagues kicking off between from and to.
// Fixtures of unmapped leagues are dropped.
func (c *Client) FetchFixtures(ctx context.Context, from, to time.Time) ([]usecase.ExternalFixture, error) {
	if len(c.leagueByID) == 0 {
		return nil, nil
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: fixture window end before start", usecase.ErrInvalidInput)
	}

	path := fmt.Sprintf("/fixtures/between/%s/%s", from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))
	query := map[string]string{
		"include":  fixtureInclude,
		"filters":  "fixtureLeagues:" + c.leagueFilter(),
		"per_page": strconv.Itoa(fixturesPerPage),
	}

	out := make([]usecase.ExternalFixture, 0, fixturesPerPage)
	for page := 1; page <= maxFixturePages; page++ {
		query["page"] = strconv.Itoa(page)

		var envelope fixturesEnvelope
		if err := c.doJSON(ctx, path, query, &envelope); err != nil {
			return nil, err
		}
		for _, item := range envelope.Data {
			fixture, ok := c.mapFixture(item)
			if !ok {
				continue
			}
			if fixture.KickoffAt.Before(from) || fixture.KickoffAt.After(to) {
				continue
			}
			out = append(out, fixture)
		}
		if !envelope.Pagination.HasMore {
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ExternalID < out[j].ExternalID
	})
	return out, nil
}

func (c *Client) leagueFilter() string {
	ids := make([]int64, 0, len(c.leagueByID))
	for id := range c.leagueByID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func (c *Client) mapFixture(item fixtureItem) (usecase.ExternalFixture, bool) {
	league, ok := c.leagueByID[item.LeagueID]
	if !ok || item.ID <= 0 {
		return usecase.ExternalFixture{}, false
	}
	kickoffAt := parseProviderDateTime(item.StartingAt)
	if kickoffAt == nil {
		return usecase.ExternalFixture{}, false
	}

	fixture := usecase.ExternalFixture{
		ExternalID: item.ID,
		League:     league,
		KickoffAt:  *kickoffAt,
		Status:     mapFixtureStatus(item.StateID, item.ResultInfo),
	}
	if item.Venue.Set {
		fixture.Venue = strings.TrimSpace(item.Venue.Data.Name)
	}
	for _, participant := range item.Participants {
		switch strings.ToLower(strings.TrimSpace(participant.Meta.Location)) {
		case "home":
			fixture.HomeTeamExternalID = participant.ID
			fixture.HomeTeamName = strings.TrimSpace(participant.Name)
			fixture.HomeTeamLogo = strings.TrimSpace(participant.ImagePath)
		case "away":
			fixture.AwayTeamExternalID = participant.ID
			fixture.AwayTeamName = strings.TrimSpace(participant.Name)
			fixture.AwayTeamLogo = strings.TrimSpace(participant.ImagePath)
		}
	}
	if fixture.HomeTeamExternalID == 0 || fixture.AwayTeamExternalID == 0 {
		return usecase.ExternalFixture{}, false
	}
	if fixture.Status != match.StatusScheduled {
		fixture.HomeScore, fixture.AwayScore = resolveFixtureScores(item.Scores, fixture.HomeTeamExternalID, fixture.AwayTeamExternalID)
	}
	return fixture, true
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if err := c.guard.Allow(); err != nil {
		c.logger.WarnContext(ctx, "sportmonks request shed", "path", path, "error", err)
		return fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	fullURL := c.buildURL(path, query)
	raw, _, err := c.flight.Do(ctx, fullURL, func() ([]byte, error) {
		body, reqErr := c.executeRequest(ctx, fullURL)
		c.guard.Record(reqErr)
		return body, reqErr
	})
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode provider payload")
	}
	return nil
}

func (c *Client) buildURL(path string, query map[string]string) string {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("api_token", c.token)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString(path)
	_, _ = buf.WriteString("?")
	_, _ = buf.WriteString(values.Encode())
	return buf.String()
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, status, err := c.get(ctx, fullURL)
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			lastErr = fmt.Errorf("%w: send request: %s", errSportMonksTransient, sanitizeSensitiveText(err.Error(), c.token))
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", errSportMonksTransient, status, abbreviateBody(raw))
		default:
			return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "sportmonks request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, lastErr)
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, err
	}

	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

func parseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
		time.RFC3339,
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}

func resolveFixtureScores(scores []fixtureScoreItem, homeID, awayID int64) (*int, *int) {
	bestWeight := 0
	var home, away *int
	for _, score := range scores {
		value, ok := score.numericScore()
		if !ok {
			continue
		}

		weight := scoreDescriptionWeight(score.Description)
		if weight > bestWeight {
			bestWeight = weight
			home, away = nil, nil
		}
		if weight < bestWeight {
			continue
		}

		switch score.ParticipantID {
		case homeID:
			home = &value
		case awayID:
			away = &value
		}
	}
	return home, away
}

func scoreDescriptionWeight(raw string) int {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case value == "current":
		return 6
	case strings.Contains(value, "normal_time"), strings.Contains(value, "90"):
		return 5
	case strings.Contains(value, "extra_time"):
		return 4
	case strings.Contains(value, "penalt"):
		return 3
	case value == "1st_half", value == "2nd_half":
		return 2
	default:
		return 1
	}
}

func mapFixtureStatus(stateID int64, resultInfo string) string {
	switch stateID {
	case 2, 3, 4, 6, 7, 8, 9:
		return match.StatusLive
	case 5, 13, 14:
		return match.StatusFinished
	case 10:
		return "postponed"
	case 11, 12:
		return "cancelled"
	case 1:
		return match.StatusScheduled
	}

	info := strings.ToLower(strings.TrimSpace(resultInfo))
	switch {
	case strings.Contains(info, "postpon"):
		return "postponed"
	case strings.Contains(info, "cancel"), strings.Contains(info, "abandon"):
		return "cancelled"
	case strings.Contains(info, "finish"), strings.Contains(info, "full time"):
		return match.StatusFinished
	default:
		return match.StatusScheduled
	}
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
}

func isSportMonksCircuitFailure(err error) bool {
	return stderrors.Is(err, errSportMonksTransient)
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusTooManyRequests || code >= fasthttp.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return sanitizeSensitiveText(rawURL, "")
	}
	query := parsed.Query()
	if query.Has("api_token") {
		query.Set("api_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
