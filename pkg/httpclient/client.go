package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/ninja0404/old-runners/pkg/logger"
)

const maxBodyBytes = 8 << 20

var (
	ErrBreakerOpen = errors.New("upstream circuit open")
)

// Doer is satisfied by *http.Client
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type BackOff = backoff.BackOff

// StatusError non-2xx upstream response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Retryable 5xx and 429 are worth another attempt, other statuses are final.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type partitionKey struct{}

// WithPartition scopes the circuit breaker of calls made with ctx to key, so
// one failing partition (a network) cannot open the circuit for the others.
func WithPartition(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, partitionKey{}, key)
}

func partitionFrom(ctx context.Context) string {
	key, _ := ctx.Value(partitionKey{}).(string)
	return key
}

// Client rate limited GET client with retry and optional per-partition circuit breakers.
type Client struct {
	name       string
	cfg        Config
	hc         Doer
	limiter    *rate.Limiter
	newBackOff func() BackOff
	log        *logger.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func New(name string, cfg Config, opts ...Option) *Client {
	c := &Client{
		name:     name,
		cfg:      cfg,
		hc:       &http.Client{Timeout: cfg.timeout()},
		limiter:  rate.NewLimiter(rate.Limit(cfg.rps()), cfg.burst()),
		log:      logger.With(logger.FieldMod("httpclient"), logger.String("upstream", name)),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
	c.newBackOff = func() BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 200 * time.Millisecond
		b.MaxInterval = 2 * time.Second
		b.MaxElapsedTime = 0
		return b
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// breaker returns the breaker of ctx's partition, nil when breakers are disabled
func (c *Client) breaker(ctx context.Context) *gobreaker.CircuitBreaker {
	if c.cfg.BreakerFailures == 0 {
		return nil
	}
	key := partitionFrom(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cb, ok := c.breakers[key]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        c.name + "/" + key,
		MaxRequests: 1,
		Timeout:     c.cfg.cooldown(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.cfg.BreakerFailures
		},
		IsSuccessful: upstreamHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("circuit breaker state changed", logger.String("breaker", name),
				logger.String("from", from.String()), logger.String("to", to.String()))
		},
	})
	c.breakers[key] = cb
	return cb
}

// upstreamHealthy reports whether err says nothing bad about the upstream:
// final client errors (404 for an unknown network, 400) and caller
// cancellation do not count towards opening the circuit.
func upstreamHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && !se.Retryable()
}

func (c *Client) Name() string {
	return c.name
}

// BaseURL configured upstream root, without trailing slash handling
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// GetJSON fetches url and returns the raw body of a 2xx response.
func (c *Client) GetJSON(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	attempt := 0

	operation := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		var err error
		body, err = c.execute(ctx, url)
		if err == nil {
			return nil
		}

		var se *StatusError
		switch {
		case errors.Is(err, ErrBreakerOpen):
			return backoff.Permanent(err)
		case errors.As(err, &se) && !se.Retryable():
			return backoff.Permanent(err)
		case ctx.Err() != nil:
			return backoff.Permanent(err)
		}
		c.log.Debug("upstream attempt failed", logger.Int("attempt", attempt), logger.FieldErr(err))
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(max(c.cfg.MaxRetries, 0))), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) execute(ctx context.Context, url string) ([]byte, error) {
	cb := c.breaker(ctx)
	if cb == nil {
		return c.do(ctx, url)
	}
	res, err := cb.Execute(func() (interface{}, error) {
		return c.do(ctx, url)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errors.Wrap(ErrBreakerOpen, c.name)
		}
		return nil, err
	}
	return res.([]byte), nil
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.userAgent())

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", url)
	}
	return body, nil
}
