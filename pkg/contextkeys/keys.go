// Package contextkeys holds the request-scoped context keys shared by
// middleware and handlers.
package contextkeys

type contextKey string

const (
	IdentityKey  contextKey = "identity"
	ClientIPKey  contextKey = "client_ip"
	RequestIDKey contextKey = "request_id"
)
