package ports

import (
	"context"

	"github.com/aretw0/devcraft/pkg/domain"
)

// Notifier shows a one-shot toast to the visitor owning sessionID.
// Nothing is returned; a toast that cannot be shown is dropped.
type Notifier interface {
	Notify(ctx context.Context, sessionID string, n domain.Notification)
}

// Publisher receives the diff of every persisted transition.
type Publisher interface {
	Publish(ctx context.Context, diff *domain.StateDiff)
}

// MultiNotifier fans a notification out to several notifiers in order.
type MultiNotifier []Notifier

// Notify forwards n to every notifier.
func (m MultiNotifier) Notify(ctx context.Context, sessionID string, n domain.Notification) {
	for _, notifier := range m {
		notifier.Notify(ctx, sessionID, n)
	}
}
