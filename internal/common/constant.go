// Package common contains shared constants, sentinel errors and small helpers
// used across petadopt client components.
package common

const (
	// AuthorizationHeader carries the bearer credential on outbound requests.
	AuthorizationHeader = "Authorization"
	// BearerPrefix precedes the session token in AuthorizationHeader.
	BearerPrefix = "Bearer "
	// RequestIDHeader tags every outbound request with a fresh uuid.
	RequestIDHeader = "X-Request-ID"
)

// Durable client storage keys.
const (
	StorageKeyToken     = "authToken"
	StorageKeyUser      = "user"
	StorageKeyPushToken = "pushToken"
)
