package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-manager/internal/domain"
)

func TestBroadcaster_PublishInOrder(t *testing.T) {
	b := NewBroadcaster()

	var got []string

	b.Subscribe(func(_ context.Context, e domain.Event) {
		got = append(got, "first:"+e.EventType())
	})
	b.Subscribe(func(_ context.Context, e domain.Event) {
		got = append(got, "second:"+e.EventType())
	})

	err := b.Publish(context.Background(), domain.Event{Kind: domain.EventQuoteAdded})

	require.NoError(t, err)
	assert.Equal(t, []string{"first:quote.added", "second:quote.added"}, got)
}

func TestBroadcaster_NoSubscribers(t *testing.T) {
	err := NewBroadcaster().Publish(context.Background(), domain.Event{Kind: domain.EventSearchChanged})

	assert.NoError(t, err)
}

func TestBroadcaster_SubscribeFromSubscriber(t *testing.T) {
	b := NewBroadcaster()
	calls := 0

	b.Subscribe(func(context.Context, domain.Event) {
		calls++
		b.Subscribe(func(context.Context, domain.Event) { calls++ })
	})

	require.NoError(t, b.Publish(context.Background(), domain.Event{}))
	assert.Equal(t, 1, calls)

	require.NoError(t, b.Publish(context.Background(), domain.Event{}))
	assert.Equal(t, 3, calls)
}
