// Package common contains shared constants and sentinel errors used across
// Collabpack components.
package common

// AuthHeaderName is the HTTP header used to carry the bearer token on
// inbound and outbound requests.
const AuthHeaderName = "Authorization"

// BearerPrefix precedes the token value in AuthHeaderName.
const BearerPrefix = "Bearer "
