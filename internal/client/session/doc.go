// Package session holds the signed-in user and their bearer token.
//
// A Session is created once at start-up, hydrated from durable storage and
// handed to every component that needs it: the gateway reads the token from
// it and invalidates it on 401, the stores establish and clear it. Durable
// storage is the sqlite metadata table, under the keys common.StorageKeyToken
// and common.StorageKeyUser.
package session
