package utils

// contextKey is a type used for context keys to avoid conflicts with other packages' context keys.
type contextKey struct {
	name string
}

// Returns string representation of the context key.
func (c *contextKey) String() string {
	return c.name
}

// PrincipalKey is the context key used for storing the authenticated user in a request context.
var PrincipalKey = &contextKey{"principal"}

// AuthSourceKey stores whether the principal was resolved from a session or a bearer credential.
var AuthSourceKey = &contextKey{"authSource"}

// CredentialKey stores the raw bearer credential of the request, if any.
var CredentialKey = &contextKey{"credential"}

// SessionIdKey stores the session id of the request, if any.
var SessionIdKey = &contextKey{"sessionId"}

var TraceIdKey = &contextKey{"traceId"}
var SanitizedPayloadKey = &contextKey{"sanitizedPayload"}
