package handlers

import (
	"context"
	"encoding/json"
)

// MessageHandler processes one live message payload for a session
type MessageHandler interface {
	// Handle processes the raw JSON payload and returns the reply result
	Handle(ctx context.Context, session string, payload json.RawMessage) (interface{}, error)

	// GetMessageType returns the message type this handler accepts
	GetMessageType() string
}
