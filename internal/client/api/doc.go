// Package api is the client's Request Executor: the only component that talks
// to the SkillSwap REST backend.
//
// # Overview
//
// HTTPExecutor sends JSON requests relative to a base URL and returns the raw
// response body of any 2xx reply. For every call it:
//  1. waits on an optional token-bucket limiter;
//  2. attaches "Authorization: Bearer <token>" when the credential source
//     has a token, plus a fresh X-Request-ID;
//  3. normalizes failures into *Error, which unwraps to one of the sentinel
//     kinds below;
//  4. on HTTP 401 notifies every OnUnauthorized subscriber before returning.
//
// # Error Handling
//
// Match kinds with errors.Is: ErrValidation, ErrUnauthorized, ErrForbidden,
// ErrNotFound, ErrUnavailable, ErrServer. Use errors.As to reach the *Error
// carrying the message, HTTP status and raw payload.
//
// Concurrency & Contexts
//
// HTTPExecutor is safe for concurrent use. Execute honors ctx cancellation
// for both the limiter wait and the HTTP round trip.
package api
