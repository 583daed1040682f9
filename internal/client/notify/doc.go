// Package notify registers a push-notification device token with the
// backend after every non-admin sign-in.
package notify
