// Package client is the typed HTTP client for the clinic REST API. The
// backend exposes flat single-resource CRUD only; everything relational
// (joins, cascades, trustworthy filtering) is layered on top of this
// package by the aggregator and cascade services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-client/internal/session"
	apperrors "github.com/jwalitptl/clinic-client/pkg/errors"
	"github.com/jwalitptl/clinic-client/pkg/logger"
	"github.com/jwalitptl/clinic-client/pkg/metrics"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Store
	log      *logger.Logger
	validate *validator.Validate
	breaker  *gobreaker.CircuitBreaker
	limiter  *rate.Limiter
	cache    *gocache.Cache
	metrics  *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRateLimit paces outgoing requests; cascade deletes fan out one DELETE
// per dependent record and should not hammer the backend.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithLookupCache caches the anonymous doctor/patient list reads that back
// name resolution. The TTL is short: the cache only needs to hold a lookup
// table steady for the duration of one derived view.
func WithLookupCache(ttl time.Duration) Option {
	return func(c *Client) { c.cache = gocache.New(ttl, 2*ttl) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func New(baseURL string, sessions *session.Store, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		sessions: sessions,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "clinic-api",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return c
}

type rawResponse struct {
	status int
	body   []byte
}

// apiErrorBody is the error envelope the backend uses for 4xx responses.
// Field names vary between endpoints, so both spellings are read.
type apiErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Issues  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"issues"`
}

// do performs one authenticated request and maps the response onto the
// client error taxonomy. It never retries; retry policy belongs to the
// caller (the cascade orchestrator relies on that for its idempotent-retry
// semantics).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, anonymous bool) error {
	start := time.Now()
	outcome := "success"
	resource := resourceOf(path)
	defer func() {
		if c.metrics != nil {
			c.metrics.APIRequests.WithLabelValues(resource, method, outcome).Inc()
			c.metrics.APILatency.WithLabelValues(resource, method).Observe(time.Since(start).Seconds())
		}
	}()

	err := c.roundTrip(ctx, method, path, query, body, out, anonymous)
	if err != nil {
		outcome = outcomeOf(err)
		c.log.Debug("request failed", "method", method, "path", path, "error", err.Error())
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out interface{}, anonymous bool) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apperrors.NewNetwork(err)
		}
	}

	var token string
	if !anonymous {
		token = c.sessions.Token()
		if token == "" {
			return apperrors.NewAuth(stderrors.New("no active session"))
		}
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	requestID := uuid.NewString()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(resp.Body); err != nil {
			return nil, err
		}
		return &rawResponse{status: resp.StatusCode, body: buf.Bytes()}, nil
	})
	if err != nil {
		if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
			if c.metrics != nil {
				c.metrics.BreakerOpen.Inc()
			}
		}
		return apperrors.NewNetwork(err)
	}

	raw := result.(*rawResponse)
	if raw.status >= 200 && raw.status < 300 {
		if out == nil || len(raw.body) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw.body, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", path, err)
		}
		return nil
	}

	return c.mapStatus(raw, method, path)
}

func (c *Client) mapStatus(raw *rawResponse, method, path string) error {
	var errBody apiErrorBody
	_ = json.Unmarshal(raw.body, &errBody)
	message := errBody.Message
	if message == "" {
		message = errBody.Error
	}

	switch raw.status {
	case http.StatusUnauthorized:
		// One 401 invalidates the session for every caller sharing the store.
		c.sessions.Invalidate()
		return apperrors.NewAuth(fmt.Errorf("%s %s: %s", method, path, message))
	case http.StatusNotFound:
		return apperrors.NewNotFound(resourceOf(path), fmt.Errorf("%s %s", method, path))
	case http.StatusConflict:
		return apperrors.NewConflict(resourceOf(path), fmt.Errorf("%s %s: %s", method, path, message))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		issues := make([]apperrors.FieldIssue, 0, len(errBody.Issues))
		for _, issue := range errBody.Issues {
			issues = append(issues, apperrors.FieldIssue{Field: issue.Field, Message: issue.Message})
		}
		if message == "" {
			message = "request rejected by server validation"
		}
		return apperrors.NewValidation(message, raw.status, issues)
	default:
		return apperrors.NewInternal(fmt.Errorf("%s %s: unexpected status %d", method, path, raw.status))
	}
}

// validateRequest runs DTO tag validation before anything touches the wire
func (c *Client) validateRequest(req interface{}) error {
	err := c.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		issues := make([]apperrors.FieldIssue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, apperrors.FieldIssue{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed %q validation", fe.Tag()),
			})
		}
		return apperrors.NewValidation("request failed validation", 0, issues)
	}
	return err
}

func resourceOf(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.Index(trimmed, "/"); i > 0 {
		return trimmed[:i]
	}
	return trimmed
}

func outcomeOf(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrNetwork:
		return "network"
	case apperrors.ErrAuth:
		return "auth"
	case apperrors.ErrNotFound:
		return "not_found"
	case apperrors.ErrConflict:
		return "conflict"
	case apperrors.ErrValidation:
		return "validation"
	default:
		return "error"
	}
}

func (c *Client) cacheGet(key string) (interface{}, bool) {
	if c.cache == nil {
		return nil, false
	}
	v, ok := c.cache.Get(key)
	if c.metrics != nil {
		if ok {
			c.metrics.CacheHits.Inc()
		} else {
			c.metrics.CacheMisses.Inc()
		}
	}
	return v, ok
}

func (c *Client) cacheSet(key string, v interface{}) {
	if c.cache != nil {
		c.cache.Set(key, v, gocache.DefaultExpiration)
	}
}

func (c *Client) cacheDrop(keys ...string) {
	if c.cache == nil {
		return
	}
	for _, key := range keys {
		c.cache.Delete(key)
	}
}
