package memory

import (
	"context"
	"sync"

	"github.com/jsamuelsen/quote-manager/internal/domain"
)

// Subscriber receives published events.
type Subscriber func(ctx context.Context, event domain.Event)

// Broadcaster is an in-process ports.EventPublisher that calls every
// subscriber synchronously, in subscription order.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewBroadcaster creates a broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers fn for all future events.
func (b *Broadcaster) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers = append(b.subscribers, fn)
}

// Publish delivers the event. The subscriber list is snapshotted first so a
// subscriber may itself subscribe without deadlocking.
func (b *Broadcaster) Publish(ctx context.Context, event domain.Event) error {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ctx, event)
	}

	return nil
}
