package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventReadingCreated is broadcast after a reading is stored
const EventReadingCreated = "reading.created"

// relayChannel is the Redis channel instances share events on
const relayChannel = "bazi:events"

// Relay fans events out across instances. *cache.RedisClient implements it.
type Relay interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) *redis.PubSub
}

// Event is the JSON body of one SSE message
type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Broker handles Server-Sent Events (SSE) clients and broadcasting
type Broker struct {
	clients    map[chan []byte]bool
	register   chan chan []byte
	unregister chan chan []byte
	broadcast  chan []byte
	done       chan struct{}

	relay  Relay
	logger *zap.Logger
}

// NewBroker creates a new SSE broker. relay may be nil.
func NewBroker(relay Relay, logger *zap.Logger) *Broker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broker{
		clients:    make(map[chan []byte]bool),
		register:   make(chan chan []byte),
		unregister: make(chan chan []byte),
		broadcast:  make(chan []byte, 100),
		done:       make(chan struct{}),
		relay:      relay,
		logger:     logger,
	}
}

// Run starts the broker loop and blocks until ctx is cancelled. Connected
// clients are released when it returns.
func (b *Broker) Run(ctx context.Context) {
	defer func() {
		for client := range b.clients {
			delete(b.clients, client)
			close(client)
		}
		close(b.done)
	}()

	var relayed <-chan *redis.Message
	if b.relay != nil {
		if sub := b.relay.Subscribe(ctx, relayChannel); sub != nil {
			defer sub.Close()
			relayed = sub.Channel()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-b.register:
			b.clients[client] = true
			b.logger.Debug("SSE client connected", zap.Int("total", len(b.clients)))

		case client := <-b.unregister:
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client)
				b.logger.Debug("SSE client disconnected", zap.Int("total", len(b.clients)))
			}

		case msg := <-b.broadcast:
			b.fanOut(msg)

		case msg, ok := <-relayed:
			if !ok {
				relayed = nil
				continue
			}
			b.fanOut([]byte(msg.Payload))
		}
	}
}

func (b *Broker) fanOut(msg []byte) {
	for client := range b.clients {
		select {
		case client <- msg:
		default:
			// Skip if client buffer is full to prevent blocking
		}
	}
}

// ServeHTTP handles the SSE endpoint
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan []byte, 10)
	select {
	case b.register <- clientChan:
	case <-b.done:
		http.Error(w, "event stream closed", http.StatusServiceUnavailable)
		return
	case <-r.Context().Done():
		return
	}

	// Comment line so clients see the stream open immediately
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			select {
			case b.unregister <- clientChan:
			case <-b.done:
			}
			return
		case msg, ok := <-clientChan:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// Broadcast sends an event to all connected clients, through the relay
// when one is configured.
func (b *Broker) Broadcast(event string, payload interface{}) {
	jsonBytes, err := json.Marshal(Event{Event: event, Payload: payload})
	if err != nil {
		b.logger.Error("failed to marshal broadcast message", zap.String("event", event), zap.Error(err))
		return
	}

	if b.relay != nil {
		err := b.relay.Publish(context.Background(), relayChannel, json.RawMessage(jsonBytes))
		if err == nil {
			return
		}
		b.logger.Warn("event relay failed, broadcasting locally", zap.Error(err))
	}

	select {
	case b.broadcast <- jsonBytes:
	default:
		b.logger.Warn("broadcast buffer full, dropping event", zap.String("event", event))
	}
}
