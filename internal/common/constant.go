// Package common contains shared constants, sentinel errors and small helpers
// used across GameHub client components.
package common

// RequestIDHeaderName is the HTTP header carrying a per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// AuthorizationHeaderName carries the bearer credential on authenticated calls.
const AuthorizationHeaderName = "Authorization"

// Metadata keys used in the local key/value store.
const (
	MetaSessionUser          = "session.user"
	MetaSessionToken         = "session.token"
	MetaNotificationsEnabled = "prefs.notifications"
)
