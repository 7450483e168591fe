package notify

import (
	"context"
	"time"

	"github.com/martinsedd/user-service/internal/queue"
)

// QueueNotifier hands the reset link to the message broker instead of
// sending mail itself. A downstream consumer (see queue.StartResetConsumer)
// picks the event up; in production that consumer would be a dedicated
// mailer service.
type QueueNotifier struct{}

func NewQueueNotifier() *QueueNotifier { return &QueueNotifier{} }

// SendResetLink publishes a ResetRequestedEvent for the recipient.
func (n *QueueNotifier) SendResetLink(ctx context.Context, email, resetURL string) error {
	return queue.PublishResetRequested(ctx, queue.ResetRequestedEvent{
		Email:       email,
		ResetURL:    resetURL,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
