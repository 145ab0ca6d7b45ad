package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Request carries the optional body and query parameters of a call.
type Request struct {
	Body  any
	Query map[string]string
}

// Executor performs one remote call and returns the 2xx response body.
type Executor interface {
	Execute(ctx context.Context, method, path string, req Request) ([]byte, error)
}

// CredentialSource yields the bearer token to attach, or "" for none.
type CredentialSource interface {
	Token() string
}

// UnauthorizedHandler is notified when the server answers 401.
type UnauthorizedHandler func(ctx context.Context)

// HTTPExecutor implements Executor over net/http.
type HTTPExecutor struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logging.Logger

	mu           sync.RWMutex
	creds        CredentialSource
	unauthorized []UnauthorizedHandler
}

// Option configures an HTTPExecutor.
type Option func(*HTTPExecutor)

// WithHTTPClient replaces the default client. The timeout passed to
// NewHTTPExecutor is ignored in that case.
func WithHTTPClient(c *http.Client) Option {
	return func(e *HTTPExecutor) { e.httpClient = c }
}

// WithRateLimit throttles outbound calls to rps per second. rps <= 0 disables it.
func WithRateLimit(rps float64) Option {
	return func(e *HTTPExecutor) {
		if rps <= 0 {
			e.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		e.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for per-call diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(e *HTTPExecutor) { e.logger = l }
}

// NewHTTPExecutor returns an executor rooted at baseURL.
func NewHTTPExecutor(baseURL string, timeout time.Duration, opts ...Option) *HTTPExecutor {
	e := &HTTPExecutor{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetCredentials installs the token source consulted on every call.
func (e *HTTPExecutor) SetCredentials(src CredentialSource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.creds = src
}

// OnUnauthorized subscribes fn to 401 responses.
func (e *HTTPExecutor) OnUnauthorized(fn UnauthorizedHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unauthorized = append(e.unauthorized, fn)
}

func (e *HTTPExecutor) token() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.creds == nil {
		return ""
	}
	return e.creds.Token()
}

func (e *HTTPExecutor) notifyUnauthorized(ctx context.Context) {
	e.mu.RLock()
	handlers := append([]UnauthorizedHandler(nil), e.unauthorized...)
	e.mu.RUnlock()

	for _, h := range handlers {
		h(ctx)
	}
}

func (e *HTTPExecutor) buildURL(path string, query map[string]string) string {
	u := e.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) == 0 {
		return u
	}
	v := url.Values{}
	for k, val := range query {
		v.Set(k, val)
	}
	return u + "?" + v.Encode()
}

// Execute sends method path and returns the response body on 2xx. Any other
// outcome is returned as *Error.
func (e *HTTPExecutor) Execute(ctx context.Context, method, path string, req Request) ([]byte, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, newTransportError(err)
		}
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, e.buildURL(path, req.Query), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(common.RequestIDHeaderName, requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if tok := e.token(); tok != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	}

	log := e.logger.With("method", method, "path", path, "request_id", requestID)
	start := time.Now()

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		log.Warn(ctx, "api call failed", "duration", time.Since(start), "error", err)
		return nil, newTransportError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn(ctx, "api response read failed", "status", resp.StatusCode, "error", err)
		return nil, newTransportError(err)
	}

	log.Debug(ctx, "api call", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return payload, nil
	}

	apiErr := newHTTPError(resp.StatusCode, payload)
	log.Warn(ctx, "api error", "status", resp.StatusCode, "message", apiErr.Message)

	if resp.StatusCode == http.StatusUnauthorized {
		e.notifyUnauthorized(ctx)
	}

	return nil, apiErr
}
