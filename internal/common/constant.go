// Package common contains shared constants and small helpers used across
// SkillSwap client packages.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the credential token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName carries a per-call correlation id.
	RequestIDHeaderName = "X-Request-ID"
)
