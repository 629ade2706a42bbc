// Package events carries change notifications for the Booking entity over an
// in-process watermill pub/sub. Consumers treat every message as a hint to
// re-fetch the booking list, so duplicates and reordering are harmless.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const TopicBookingsChanged = "bookings.changed"

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

type BookingChange struct {
	Action    string `json:"action"`
	BookingID uint   `json:"booking_id"`
}

// NewPubSub builds the in-process channel both the HTTP mutation handlers and
// the SSE stream share.
func NewPubSub(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, logger)
}

type Publisher struct {
	pub message.Publisher
}

func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

func (p *Publisher) PublishBookingChange(ctx context.Context, change BookingChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal booking change: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.pub.Publish(TopicBookingsChanged, msg)
}

func UnmarshalBookingChange(msg *message.Message) (BookingChange, error) {
	var change BookingChange
	if err := json.Unmarshal(msg.Payload, &change); err != nil {
		return BookingChange{}, fmt.Errorf("unmarshal booking change: %w", err)
	}
	return change, nil
}
