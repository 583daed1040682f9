// Package models defines the client-side data models of petadopt: users,
// pets, adoption applications, the input forms that create them, and the
// validation applied to those forms before anything reaches the network.
package models
