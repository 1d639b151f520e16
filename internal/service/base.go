// Package service implements the application's business rules on top of the
// repository layer: input validation, authorization, pagination clamping and
// post-commit notification delivery.
package service

import (
	"context"

	"moltgram/internal/models"
	"moltgram/internal/notifications"
	"moltgram/internal/observability"
)

const defaultPageLimit = 20

// clampLimit normalizes a requested page size: non-positive values fall back
// to the default, values above max are silently clamped.
func clampLimit(limit, max int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	if limit > max {
		return max
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// publishAll delivers committed notification rows off the write path and
// updates the fan-out counters.
func publishAll(ctx context.Context, notifier *notifications.Notifier, ns []*models.Notification) {
	for _, n := range ns {
		observability.NotificationsCreated.WithLabelValues(n.Type).Inc()
	}
	notifier.Publish(ctx, ns)
}

// recordMutation bumps the outcome counter for op and, on success, logs the
// committed mutation.
func recordMutation(ctx context.Context, op string, err error, fields map[string]any) {
	if err != nil {
		observability.MutationFailures.WithLabelValues(op).Inc()
		return
	}
	observability.MutationsTotal.WithLabelValues(op).Inc()
	observability.LogMutation(ctx, op, fields)
}
