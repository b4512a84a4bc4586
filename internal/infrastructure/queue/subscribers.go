package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// LogSubscriber writes every lifecycle event to the structured log.
func LogSubscriber(log zerolog.Logger) Subscriber {
	return func(_ context.Context, e domain.LifecycleEvent) {
		ev := log.Info().
			Str("event_id", e.ID).
			Str("type", string(e.Type)).
			Time("occurred_at", e.OccurredAt)
		if e.User != nil {
			ev = ev.Str("user_id", e.User.ID).Str("status", string(e.User.Status))
		}
		ev.Msg("user lifecycle event")
	}
}
