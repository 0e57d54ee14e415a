package livescore

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/standings-sync/internal/platform/logging"
	"github.com/riskibarqy/standings-sync/internal/platform/resilience"
	"github.com/riskibarqy/standings-sync/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://livescore-api.com/api-client"
	standingsPath  = "/leagues/table.json"
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 6 << 20
)

var credentialParamRegex = regexp.MustCompile(`(key|secret)=[^&\s"']+`)
var errLiveScoreTransient = crerr.New("livescore transient failure")

// decoder keeps numbers as json.Number so large ids survive decoding intact.
var decoder = sonic.Config{UseNumber: true}.Froze()

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Key            string
	Secret         string
	Timeout        time.Duration
	MaxRetries     int
	IncludeForm    bool
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads league tables from the livescore-api.com REST API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	key          string
	secret       string
	maxRetries   int
	includeForm  bool
	retryBackoff time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = time.Second
	}

	breakerCfg := cfg.CircuitBreaker
	breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
		logger.Warn("livescore circuit breaker state changed", "from", from, "to", to)
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		key:          strings.TrimSpace(cfg.Key),
		secret:       strings.TrimSpace(cfg.Secret),
		maxRetries:   max(cfg.MaxRetries, 0),
		includeForm:  cfg.IncludeForm,
		retryBackoff: retryBackoff,
		logger:       logger,
		breaker:      resilience.NewCircuitBreaker(breakerCfg),
	}
}

// FetchStandings returns the raw table rows of a competition. Every failure
// wraps usecase.ErrSourceUnavailable.
func (c *Client) FetchStandings(ctx context.Context, competitionID int64) ([]usecase.RawStanding, error) {
	query := map[string]string{
		"competition_id": strconv.FormatInt(competitionID, 10),
	}
	if c.includeForm {
		query["include_form"] = "1"
	}

	var envelope tableEnvelope
	if err := c.doJSON(ctx, standingsPath, query, &envelope); err != nil {
		return nil, fmt.Errorf("%w: livescore competition=%d: %w", usecase.ErrSourceUnavailable, competitionID, err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("%w: livescore competition=%d: api error: %s",
			usecase.ErrSourceUnavailable, competitionID, c.sanitize(fmt.Sprint(envelope.Error)))
	}

	out := make([]usecase.RawStanding, 0, len(envelope.Data.Table))
	for _, row := range envelope.Data.Table {
		out = append(out, usecase.RawStanding(row))
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("key", c.key)
	values.Set("secret", c.secret)
	fullURL := c.baseURL + path + "?" + values.Encode()

	err := c.breaker.Execute(func() error {
		return c.executeRequest(ctx, fullURL, target)
	}, isLiveScoreCircuitFailure)
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "livescore circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("livescore is temporarily unavailable: %w", err)
	}
	return err
}

func (c *Client) executeRequest(ctx context.Context, fullURL string, target any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("build request: %s", c.sanitize(err.Error()))
		}
		req.Header.Set("accept", "application/json")

		lastErr = c.roundTrip(req, target)
		if lastErr == nil {
			return nil
		}
		if !stderrors.Is(lastErr, errLiveScoreTransient) {
			break
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * c.retryBackoff
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "livescore request failed", "url", c.redactURL(fullURL), "error", lastErr)
	return lastErr
}

func (c *Client) roundTrip(req *http.Request, target any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: send request: %s", errLiveScoreTransient, c.sanitize(err.Error()))
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return fmt.Errorf("%w: read response body: %v", errLiveScoreTransient, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isRetryableStatus(resp.StatusCode) {
			return fmt.Errorf("%w: provider status=%d body=%s", errLiveScoreTransient, resp.StatusCode, c.abbreviateBody(buf.B))
		}
		return crerr.Newf("provider status=%d body=%s", resp.StatusCode, c.abbreviateBody(buf.B))
	}

	if err := decoder.Unmarshal(buf.B, target); err != nil {
		return crerr.Wrap(err, "decode provider payload")
	}
	return nil
}

func isLiveScoreCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errLiveScoreTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	for _, secret := range []string{c.key, c.secret} {
		if secret != "" {
			value = strings.ReplaceAll(value, secret, "REDACTED")
		}
	}
	return credentialParamRegex.ReplaceAllString(value, "$1=REDACTED")
}

func (c *Client) redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return c.sanitize(rawURL)
	}
	query := parsed.Query()
	for _, param := range []string{"key", "secret"} {
		if query.Has(param) {
			query.Set(param, "REDACTED")
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func (c *Client) abbreviateBody(body []byte) string {
	text := c.sanitize(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

type tableEnvelope struct {
	Success bool `json:"success"`
	Error   any  `json:"error"`
	Data    struct {
		Table []map[string]any `json:"table"`
	} `json:"data"`
}
