package ports

import "github.com/99minutos/user-directory/internal/core/domain"

// EventPublisher receives lifecycle notifications. Publish must not block the
// caller and gives no delivery guarantee.
type EventPublisher interface {
	Publish(event domain.LifecycleEvent)
}
