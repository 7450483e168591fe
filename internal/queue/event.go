// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer around the password-reset notification queue.
package queue

// ResetRequestedEvent is published when a password reset is requested. It
// carries everything a downstream mailer or audit consumer needs without
// querying the primary database. The reset URL embeds the signed token.
type ResetRequestedEvent struct {
	Email       string `json:"email"`
	ResetURL    string `json:"reset_url"`
	RequestedAt string `json:"requested_at"`
}
