package events

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishBookingChange(t *testing.T) {
	pubSub := NewPubSub(watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, TopicBookingsChanged)
	require.NoError(t, err)

	publisher := NewPublisher(pubSub)
	err = publisher.PublishBookingChange(ctx, BookingChange{Action: ActionCreated, BookingID: 42})
	require.NoError(t, err)

	select {
	case msg := <-messages:
		change, err := UnmarshalBookingChange(msg)
		require.NoError(t, err)
		assert.Equal(t, ActionCreated, change.Action)
		assert.Equal(t, uint(42), change.BookingID)
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for booking change message")
	}
}
