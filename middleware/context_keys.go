package middleware

// contextKey defines a type for context keys to avoid collisions.
type contextKey string

// Defines context keys used within the application middleware and handlers.
const (
	// UserIDKey is the context key for the authenticated user's Discord ID (string).
	UserIDKey contextKey = "userID"
	// IdentityKey is the context key for the full identity snapshot
	// (types.IdentityContext) decoded from the session token.
	IdentityKey contextKey = "identity"
	// CapabilitiesKey is the context key for the resolved capability set
	// (types.CapabilitySet) of the current user on the guild in the route.
	CapabilitiesKey contextKey = "capabilities"
)
