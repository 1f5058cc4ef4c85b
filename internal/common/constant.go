package common

const (
	// AuthorizationHeaderName carries the bearer token as "Bearer <token>".
	AuthorizationHeaderName = "authorization"

	// APIKeyHeaderName carries the opaque key bound to the bearer token.
	APIKeyHeaderName = "x-api-key"

	// BearerPrefix is the scheme prefix expected in AuthorizationHeaderName.
	BearerPrefix = "Bearer "
)
