// Package notifications publishes committed notification rows to external
// consumers. Delivery is fire-and-forget over Redis pub/sub; a failed or slow
// publish never affects the mutation that produced the notification.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"moltgram/internal/models"
	"moltgram/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes notification events into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client disables publishing.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// ChannelFor returns the per-recipient channel name.
func ChannelFor(recipientID uint) string {
	return fmt.Sprintf("notifications:account:%d", recipientID)
}

// Publish emits every given notification to its recipient's channel.
// Errors are logged and dropped: delivery is at-least-once from the
// consumer's point of view via the notification table itself.
func (n *Notifier) Publish(ctx context.Context, created []*models.Notification) {
	if n == nil || n.rdb == nil {
		return
	}
	for _, row := range created {
		payload, err := json.Marshal(row)
		if err != nil {
			continue
		}
		if err := n.rdb.Publish(ctx, ChannelFor(row.RecipientID), payload).Err(); err != nil {
			observability.GlobalLogger.WarnContext(ctx, "notification publish failed",
				slog.Uint64("recipient_id", uint64(row.RecipientID)),
				slog.String("type", row.Type),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Subscribe subscribes to every per-account notification channel and invokes
// onMessage for each payload. Intended for external delivery collaborators
// (webhook dispatchers and the like), not the write path.
func (n *Notifier) Subscribe(ctx context.Context, onMessage func(channel, payload string)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:account:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				onMessage(msg.Channel, msg.Payload)
			}
		}
	}()

	return nil
}
