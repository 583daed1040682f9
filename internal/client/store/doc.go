// Package store holds the client-side state of petadopt in three independent
// containers: AuthStore, PetStore and AdoptionStore.
//
// Each store owns one entity's data plus a request lifecycle
// (idle, pending, fulfilled, rejected). Operations block until the backend
// answers and return the outcome to the caller; the store only records an
// outcome when it belongs to the most recently dispatched request of that
// store. Older outcomes are dropped, so out-of-order replies never overwrite
// newer state. Snapshot returns a deep copy that callers may keep.
package store
