// Package queue defines message payloads exchanged over the message broker.
package queue

// UserRegisteredEvent is published after a successful registration.
// It carries enough information for downstream consumers (welcome
// mail, analytics) without querying the primary database. It never
// includes credentials or tokens.
type UserRegisteredEvent struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	RegisteredAt string `json:"registered_at"`
}
