// Package events publishes assignment status changes. Each message carries
// the push notification payload (title, body, url) and the users to notify.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/logging"
)

// TopicStatusChanged is the topic status change events are published on.
const TopicStatusChanged = "assignment.status_changed"

// StatusChanged is the event payload.
type StatusChanged struct {
	AssignmentID string        `json:"assignmentId"`
	Status       domain.Status `json:"status"`
	Title        string        `json:"title"`
	Body         string        `json:"body"`
	URL          string        `json:"url"`
	UserIDs      []string      `json:"userIds"`
}

// Publisher announces status changes.
type Publisher interface {
	StatusChanged(ctx context.Context, a domain.Assignment, prev domain.Status) error
	Close() error
}

// NewStatusChanged builds the event for a moving from prev to its current
// status. The owner and the helper (when there is one) are notified.
func NewStatusChanged(a domain.Assignment, prev domain.Status) StatusChanged {
	users := make([]string, 0, 2)
	if !a.Owner.Empty() {
		users = append(users, a.Owner.ID)
	}
	if !a.Helper.Empty() && a.Helper.ID != a.Owner.ID {
		users = append(users, a.Helper.ID)
	}

	return StatusChanged{
		AssignmentID: a.ID,
		Status:       a.Status,
		Title:        "Assignment " + a.Status.Label(),
		Body:         body(a, prev),
		URL:          "/assignments/" + a.ID,
		UserIDs:      users,
	}
}

func body(a domain.Assignment, prev domain.Status) string {
	switch a.Status {
	case domain.StatusAccepted:
		if prev == domain.StatusPendingClientReview {
			return fmt.Sprintf("Changes were requested on %q.", a.Title)
		}
		return fmt.Sprintf("%q was accepted by %s.", a.Title, a.Helper.Name())
	case domain.StatusDue:
		return fmt.Sprintf("%q is past its deadline.", a.Title)
	case domain.StatusPendingClientReview:
		return fmt.Sprintf("Work on %q was submitted and awaits review.", a.Title)
	case domain.StatusReadyForPayout:
		return fmt.Sprintf("%q was approved and is ready for payout.", a.Title)
	case domain.StatusPaid:
		return fmt.Sprintf("The payout for %q was sent.", a.Title)
	case domain.StatusCancelled:
		return fmt.Sprintf("%q was cancelled.", a.Title)
	}
	return fmt.Sprintf("%q is now %s.", a.Title, a.Status.Label())
}

// WatermillPublisher publishes StatusChanged events as JSON messages.
type WatermillPublisher struct {
	pub message.Publisher
}

func NewWatermillPublisher(pub message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{pub: pub}
}

func (p *WatermillPublisher) StatusChanged(ctx context.Context, a domain.Assignment, prev domain.Status) error {
	payload, err := json.Marshal(NewStatusChanged(a, prev))
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("assignment_id", a.ID)
	msg.Metadata.Set("status", string(a.Status))

	if err := p.pub.Publish(TopicStatusChanged, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicStatusChanged, err)
	}
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.pub.Close()
}

// NewPublisher returns a Kafka publisher when brokers are given and an
// in-process channel otherwise. The channel is returned too so in-process
// consumers can subscribe to it; it is nil for Kafka.
func NewPublisher(brokers []string, log logging.Logger) (*WatermillPublisher, *gochannel.GoChannel, error) {
	logger := NewLoggerAdapter(log)

	if len(brokers) == 0 {
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
		return NewWatermillPublisher(ch), ch, nil
	}

	pub, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka publisher: %w", err)
	}
	return NewWatermillPublisher(pub), nil, nil
}
