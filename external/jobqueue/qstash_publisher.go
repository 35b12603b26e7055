package jobqueue

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
	"github.com/riskibarqy/matchday-alerts/internal/platform/resilience"
	"github.com/riskibarqy/matchday-alerts/internal/usecase"
)

var errQStashTransient = crerr.New("qstash transient failure")

// internalPathPrefix bounds the routes QStash may call back into.
const internalPathPrefix = "/v1/internal/"

const (
	headerRetries       = "Upstash-Retries"
	headerDelay         = "Upstash-Delay"
	headerDeduplication = "Upstash-Deduplication-Id"
	headerMethod        = "Upstash-Method"
	headerForwardToken  = "Upstash-Forward-X-Internal-Job-Token"

	maxLoggedBody = 2048
)

type QStashPublisherConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStashPublisher delivers change triggers and job payloads to this service's own
// internal routes through QStash, which owns retries and deduplication.
type QStashPublisher struct {
	client           *fasthttp.Client
	timeout          time.Duration
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	logger           *logging.Logger
	guard            *resilience.Guard
}

// delivery is one publish call, resolved before any network work.
type delivery struct {
	path            string
	targetURL       string
	publishURL      string
	body            []byte
	delay           time.Duration
	deduplicationID string
}

type publishResponse struct {
	MessageID    string `json:"messageId"`
	Deduplicated bool   `json:"deduplicated"`
}

func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) *QStashPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &QStashPublisher{
		client: &fasthttp.Client{
			ReadTimeout:            timeout,
			WriteTimeout:           timeout,
			// The destination URL rides in the path and must keep its "//".
			DisablePathNormalizing: true,
		},
		timeout:          timeout,
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
		guard:            resilience.NewGuard("qstash", cfg.CircuitBreaker, isQStashTransient, logger),
	}
}

func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	d, err := p.prepare(path, payload, delay, deduplicationID)
	if err != nil {
		return err
	}

	if err := p.guard.Allow(); err != nil {
		p.logger.WarnContext(ctx, "qstash publish shed", "path", d.path, "error", err)
		return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.target_url", d.targetURL),
			attribute.String("qstash.path", d.path),
			attribute.String("qstash.deduplication_id", d.deduplicationID),
			attribute.String("qstash.request_body", truncateForLog(string(d.body), maxLoggedBody)),
		)
	}

	resp, err := p.publish(ctx, d)
	p.guard.Record(err)
	if err != nil {
		p.logger.WarnContext(ctx, "qstash publish failed",
			"path", d.path,
			"request", describeDelivery(d, p.retries, p.internalJobToken != ""),
			"error", err,
		)
		return err
	}

	p.logger.InfoContext(ctx, "qstash message published",
		"path", d.path,
		"message_id", resp.MessageID,
		"deduplicated", resp.Deduplicated,
		"delay", normalizeDelay(d.delay),
		"deduplication_id", d.deduplicationID,
	)
	return nil
}

func (p *QStashPublisher) prepare(path string, payload any, delay time.Duration, deduplicationID string) (delivery, error) {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return delivery{}, crerr.New("job path is required")
	}
	if !strings.HasPrefix(path, internalPathPrefix) {
		return delivery{}, crerr.Newf("job path %q must be under %s", path, internalPathPrefix)
	}

	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return delivery{}, crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(p.targetBaseURL)
	if err != nil {
		return delivery{}, crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	if payload == nil {
		payload = map[string]any{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return delivery{}, crerr.Wrap(err, "marshal job payload")
	}

	targetURL := targetBaseURL + path
	return delivery{
		path:            path,
		targetURL:       targetURL,
		publishURL:      baseURL + "/v2/publish/" + targetURL,
		body:            body,
		delay:           delay,
		deduplicationID: strings.TrimSpace(deduplicationID),
	}, nil
}

func (p *QStashPublisher) publish(ctx context.Context, d delivery) (publishResponse, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.URI().DisablePathNormalizing = true
	req.SetRequestURI(d.publishURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set(headerMethod, fasthttp.MethodPost)
	if p.retries > 0 {
		req.Header.Set(headerRetries, strconv.Itoa(p.retries))
	}
	if d.delay > 0 {
		req.Header.Set(headerDelay, normalizeDelay(d.delay))
	}
	if d.deduplicationID != "" {
		req.Header.Set(headerDeduplication, d.deduplicationID)
	}
	if p.internalJobToken != "" {
		req.Header.Set(headerForwardToken, p.internalJobToken)
	}
	req.SetBodyRaw(d.body)

	deadline := time.Now().Add(p.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := p.client.DoDeadline(req, resp, deadline); err != nil {
		return publishResponse{}, fmt.Errorf("%w: %w: publish to %s: %v", usecase.ErrDependencyUnavailable, errQStashTransient, d.targetURL, err)
	}

	status := resp.StatusCode()
	raw := strings.TrimSpace(string(resp.Body()))
	if status/100 != 2 {
		if isQStashRetryableStatus(status) {
			return publishResponse{}, fmt.Errorf("%w: %w: publish to %s status=%d body=%s",
				usecase.ErrDependencyUnavailable, errQStashTransient, d.targetURL, status, truncateForLog(raw, maxLoggedBody))
		}
		return publishResponse{}, crerr.Newf("qstash rejected publish to %s status=%d body=%s", d.targetURL, status, truncateForLog(raw, maxLoggedBody))
	}

	var out publishResponse
	if raw != "" {
		// Batch-style publishes answer with an array; the message id is informational only.
		if err := sonic.UnmarshalString(raw, &out); err != nil {
			p.logger.DebugContext(ctx, "qstash response not decoded", "error", err)
		}
	}
	return out, nil
}

func normalizeDelay(delay time.Duration) string {
	if delay <= 0 {
		return "0s"
	}
	return strconv.Itoa(int(delay.Round(time.Second).Seconds())) + "s"
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	uri := fasthttp.AcquireURI()
	defer fasthttp.ReleaseURI(uri)
	if err := uri.Parse(nil, []byte(candidate)); err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	scheme := string(uri.Scheme())
	if !strings.HasPrefix(candidate, scheme+"://") || (scheme != "http" && scheme != "https") {
		return "", crerr.Newf("%q uses unsupported scheme; expected http or https", candidate)
	}
	if len(uri.Host()) == 0 {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

// describeDelivery renders the publish headers for logs with secrets masked.
func describeDelivery(d delivery, retries int, withForwardToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	write := func(key, value string) {
		if buf.Len() > 0 {
			_, _ = buf.WriteString("; ")
		}
		_, _ = buf.WriteString(key)
		_, _ = buf.WriteString("=")
		_, _ = buf.WriteString(value)
	}

	write("target", d.targetURL)
	write(headerMethod, fasthttp.MethodPost)
	if retries > 0 {
		write(headerRetries, strconv.Itoa(retries))
	}
	if d.delay > 0 {
		write(headerDelay, normalizeDelay(d.delay))
	}
	if d.deduplicationID != "" {
		write(headerDeduplication, d.deduplicationID)
	}
	if withForwardToken {
		write(headerForwardToken, "***")
	}
	write("body", truncateForLog(string(d.body), 256))

	return buf.String()
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

// isQStashTransient keeps rejected payloads from tripping the circuit.
func isQStashTransient(err error) bool {
	return stderrors.Is(err, errQStashTransient)
}

func isQStashRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}
