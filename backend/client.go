package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/octabyte/bm-talentportal/otel"
	"github.com/octabyte/bm-talentportal/otel/metrics"
	"github.com/octabyte/bm-talentportal/utils"
)

const (
	clientName     = "marketplace"
	maxErrorBody   = 256
	defaultTimeout = 15 * time.Second
)

type Options struct {
	BaseURL     string
	ServiceName string
	Timeout     time.Duration
	// RateLimit caps outbound requests per second; zero disables the limit.
	RateLimit float64
	Burst     int
}

// Client talks to the marketplace REST API. Every call is bound to the
// caller's context and is never retried.
type Client struct {
	http        *resty.Client
	limiter     *rate.Limiter
	baseURL     string
	serviceName string
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	burst := opts.Burst
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
		if burst <= 0 {
			burst = 1
		}
	}

	httpClient := otel.NewTracedRestyClient(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &Client{
		http:        httpClient,
		limiter:     rate.NewLimiter(limit, burst),
		baseURL:     baseURL,
		serviceName: opts.ServiceName,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// call issues one request. configure may add a body, params or files.
func (c *Client) call(ctx context.Context, operation, method, path, token string, configure func(*resty.Request)) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", operation, ErrTransport, err)
	}

	ctx, finish := otel.StartHTTPSpan(ctx, c.serviceName, clientName, operation, method, c.baseURL, path)
	start := time.Now()

	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetHeader("Authorization", utils.BearerHeader(token))
	}
	if configure != nil {
		configure(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		finish(0, err)
		metrics.RecordDownstreamCall(ctx, operation, time.Since(start), false)
		return nil, fmt.Errorf("%s: %w: %w", operation, ErrTransport, err)
	}

	finish(resp.StatusCode(), nil)
	metrics.RecordDownstreamCall(ctx, operation, time.Since(start), resp.IsSuccess())

	if !resp.IsSuccess() {
		return resp, &StatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode(),
			Body:       truncate(resp.String(), maxErrorBody),
		}
	}
	return resp, nil
}

// raw performs a call and returns the response body untouched.
func (c *Client) raw(ctx context.Context, operation, method, path, token string, configure func(*resty.Request)) (json.RawMessage, error) {
	resp, err := c.call(ctx, operation, method, path, token, configure)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body()), nil
}

func (c *Client) get(ctx context.Context, operation, path, token string, configure func(*resty.Request)) (json.RawMessage, error) {
	return c.raw(ctx, operation, http.MethodGet, path, token, configure)
}

func withBody(body interface{}) func(*resty.Request) {
	return func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}
}

func withPathParams(params map[string]string) func(*resty.Request) {
	return func(r *resty.Request) {
		r.SetPathParams(params)
	}
}

func chain(fns ...func(*resty.Request)) func(*resty.Request) {
	return func(r *resty.Request) {
		for _, fn := range fns {
			fn(r)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
