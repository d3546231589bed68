package ports

import "context"

// EventPublisher notifies the external real-time layer about completed logins
type EventPublisher interface {
	PublishLoginResult(ctx context.Context, sessionID, address, name string) error
}
