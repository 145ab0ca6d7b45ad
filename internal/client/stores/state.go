package stores

import (
	"errors"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/skillswap/internal/client/api"
)

// ErrMalformedResponse is returned when a 2xx body lacks a required field.
var ErrMalformedResponse = errors.New("malformed server response")

// ErrorInfo is the recorded form of the last failure.
type ErrorInfo struct {
	Message    string
	HTTPStatus int
	RawPayload []byte
}

func newErrorInfo(err error) *ErrorInfo {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return &ErrorInfo{
			Message:    apiErr.Message,
			HTTPStatus: apiErr.HTTPStatus,
			RawPayload: append([]byte(nil), apiErr.RawPayload...),
		}
	}
	return &ErrorInfo{Message: err.Error()}
}

func (e *ErrorInfo) clone() *ErrorInfo {
	if e == nil {
		return nil
	}
	c := *e
	c.RawPayload = append([]byte(nil), e.RawPayload...)
	return &c
}

// tracker is the busy/last-error pair shared by all stores. Its mutex also
// guards the embedding store's entities.
type tracker struct {
	mu      sync.RWMutex
	busy    bool
	lastErr *ErrorInfo
}

func (t *tracker) start() {
	t.mu.Lock()
	t.busy = true
	t.lastErr = nil
	t.mu.Unlock()
}

// fail records err, clears busy and returns err unchanged.
func (t *tracker) fail(err error) error {
	t.mu.Lock()
	t.busy = false
	t.lastErr = newErrorInfo(err)
	t.mu.Unlock()
	return err
}

// reject records err from a check that ran before any call. Busy is left
// alone since nothing was started.
func (t *tracker) reject(err error) error {
	t.mu.Lock()
	t.lastErr = newErrorInfo(err)
	t.mu.Unlock()
	return err
}

// reset drops the recorded failure and lets fn clear the store's entities.
func (t *tracker) reset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn()
	t.lastErr = nil
}

// succeed applies fn to the store state and clears busy, atomically.
func (t *tracker) succeed(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if fn != nil {
		fn()
	}
	t.busy = false
}

// Busy reports whether an operation is in flight.
func (t *tracker) Busy() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.busy
}

// LastError returns a copy of the last recorded failure, or nil.
func (t *tracker) LastError() *ErrorInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastErr.clone()
}

// ClearError drops the recorded failure.
func (t *tracker) ClearError() {
	t.mu.Lock()
	t.lastErr = nil
	t.mu.Unlock()
}

func pathID(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, it := range items {
		if idOf(it) == id {
			return i
		}
	}
	return -1
}

// upsert replaces the item with the same id in place or appends it.
func upsert[T any](items []T, item T, idOf func(T) string) []T {
	if i := indexOf(items, idOf(item), idOf); i >= 0 {
		items[i] = item
		return items
	}
	return append(items, item)
}

func remove[T any](items []T, id string, idOf func(T) string) []T {
	if i := indexOf(items, id, idOf); i >= 0 {
		return append(items[:i], items[i+1:]...)
	}
	return items
}
