package notify

import (
	"context"
	"log"
)

// LogNotifier writes the reset link to the server log instead of delivering
// it. Default driver in local development, where neither SES credentials
// nor a broker are available.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

// SendResetLink logs the link and always succeeds.
func (n *LogNotifier) SendResetLink(_ context.Context, email, resetURL string) error {
	log.Printf("notify: password reset for %s: %s", email, resetURL)
	return nil
}
