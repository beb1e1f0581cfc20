package events

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/dmitrijs2005/assignhub/internal/logging"
)

// Handler receives decoded status change events.
type Handler func(ctx context.Context, ev StatusChanged) error

// Consume subscribes to TopicStatusChanged and feeds every message to h
// until ctx is done. Messages that fail to decode are acked and dropped;
// handler errors nack the message so it is redelivered.
func Consume(ctx context.Context, sub message.Subscriber, log logging.Logger, h Handler) error {
	msgs, err := sub.Subscribe(ctx, TopicStatusChanged)
	if err != nil {
		return err
	}

	for msg := range msgs {
		var ev StatusChanged
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			log.Warn(ctx, "dropping malformed event", "uuid", msg.UUID, "error", err)
			msg.Ack()
			continue
		}
		if err := h(msg.Context(), ev); err != nil {
			log.Error(ctx, "event handler failed", "uuid", msg.UUID, "error", err)
			msg.Nack()
			continue
		}
		msg.Ack()
	}
	return nil
}

// LogNotifications is the default in-process handler: it records the
// notification each recipient would receive.
func LogNotifications(log logging.Logger) Handler {
	return func(ctx context.Context, ev StatusChanged) error {
		log.Info(ctx, "notification",
			"assignment_id", ev.AssignmentID,
			"status", ev.Status,
			"title", ev.Title,
			"recipients", ev.UserIDs,
		)
		return nil
	}
}
