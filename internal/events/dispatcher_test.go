package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToAllSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var first, second int
	dispatcher.Subscribe(EventComplaintCreated, func(context.Context, Event) error {
		first++
		return nil
	})
	dispatcher.Subscribe(EventComplaintCreated, func(context.Context, Event) error {
		second++
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventComplaintCreated}))
	require.Equal(t, 1, first)
	require.Equal(t, 1, second)
}

func TestDispatcher_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var delivered bool
	dispatcher.Subscribe(EventComplaintDeleted, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventComplaintDeleted, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventComplaintDeleted}))
	require.True(t, delivered)
}

func TestDispatcher_IgnoresUnrelatedEventTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var called bool
	dispatcher.Subscribe(EventComplaintCreated, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventComplaintAssigned}))
	require.False(t, called)
}
