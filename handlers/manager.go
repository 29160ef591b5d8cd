package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ErrUnknownType is returned for messages no handler is registered for
var ErrUnknownType = errors.New("unknown message type")

// HandlerManager routes live messages to handlers by type
type HandlerManager struct {
	handlers map[string]MessageHandler
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewHandlerManager creates an empty HandlerManager
func NewHandlerManager(logger *zap.Logger) *HandlerManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HandlerManager{
		handlers: make(map[string]MessageHandler),
		logger:   logger,
	}
}

// RegisterHandler registers handler under its message type
func (hm *HandlerManager) RegisterHandler(handler MessageHandler) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	hm.handlers[handler.GetMessageType()] = handler
	hm.logger.Info("registered live handler", zap.String("type", handler.GetMessageType()))
}

// UnregisterHandler removes the handler for a message type
func (hm *HandlerManager) UnregisterHandler(messageType string) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	delete(hm.handlers, messageType)
}

// GetHandler returns the handler for a message type
func (hm *HandlerManager) GetHandler(messageType string) (MessageHandler, bool) {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	handler, exists := hm.handlers[messageType]
	return handler, exists
}

// HandleMessage processes a message with the handler for its type
func (hm *HandlerManager) HandleMessage(ctx context.Context, messageType, session string, payload json.RawMessage) (interface{}, error) {
	handler, exists := hm.GetHandler(messageType)
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, messageType)
	}
	return handler.Handle(ctx, session, payload)
}

// ListHandlers returns the registered message types in sorted order
func (hm *HandlerManager) ListHandlers() []string {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	names := make([]string, 0, len(hm.handlers))
	for name := range hm.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
