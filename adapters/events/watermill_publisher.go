package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/layer-3/anteroom/core"
	"github.com/layer-3/anteroom/ports"
)

// LoginResultTopic is the channel the external real-time layer consumes to
// correlate a completed login back to the browser session that started it.
const LoginResultTopic = "login_result"

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     LoginResultTopic,
	}
}

// PublishLoginResult publishes a login-completed event
func (p *WatermillPublisher) PublishLoginResult(ctx context.Context, sessionID, address, name string) error {
	event := core.LoginResult{
		Session: sessionID,
		Address: core.CanonicalAddress(address),
		Name:    name,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
