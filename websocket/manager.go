package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"bazi-fengshui/advisor"
	"bazi-fengshui/bazi"
	"bazi-fengshui/handlers"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 25 * time.Second
	maxMessageSize = 8 << 20 // camera frames arrive as base64
	maxInFlight    = 2
)

// Reply error codes
const (
	CodeInvalidInput = "invalid_input"
	CodeCooldown     = "cooldown"
	CodeUnknownType  = "unknown_type"
	CodeBusy         = "busy"
	CodeInternal     = "internal"
)

var errMalformed = errors.New("malformed message")

// Dispatcher routes a message to its handler. *handlers.HandlerManager
// implements it.
type Dispatcher interface {
	HandleMessage(ctx context.Context, messageType, session string, payload json.RawMessage) (interface{}, error)
	ListHandlers() []string
}

// ConnectionManager accepts live sessions and dispatches their messages.
type ConnectionManager struct {
	upgrader     websocket.Upgrader
	dispatcher   Dispatcher
	logger       *zap.Logger
	pingInterval time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// NewConnectionManager creates a new ConnectionManager.
func NewConnectionManager(dispatcher Dispatcher, logger *zap.Logger) *ConnectionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectionManager{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		dispatcher:   dispatcher,
		logger:       logger,
		pingInterval: pingInterval,
		sessions:     make(map[string]*Session),
	}
}

// Count returns the number of open sessions.
func (cm *ConnectionManager) Count() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return len(cm.sessions)
}

// ServeHTTP upgrades the request and serves the session until it closes.
func (cm *ConnectionManager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cm.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s := newSession(conn)
	cm.add(s)
	defer cm.remove(s)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	s.StartPing(cm.pingInterval)

	cm.logger.Info("live session opened", zap.String("session", s.ID()), zap.String("remote", r.RemoteAddr))
	_ = s.WriteJSON(Reply{Type: "welcome", Result: map[string]interface{}{
		"session":  s.ID(),
		"handlers": cm.dispatcher.ListHandlers(),
	}})

	ctx, cancel := context.WithCancel(r.Context())
	cm.readLoop(ctx, cancel, s)
}

// readLoop reads until the connection fails, then cancels in-flight
// analyses and waits for them.
func (cm *ConnectionManager) readLoop(ctx context.Context, cancel context.CancelFunc, s *Session) {
	inFlight := make(chan struct{}, maxInFlight)
	var pending sync.WaitGroup
	defer pending.Wait()
	defer cancel()

	for {
		msg, err := s.ReadMessage()
		if errors.Is(err, errMalformed) {
			_ = s.WriteJSON(Reply{Type: "error", Error: "message must be a JSON object", Code: CodeInvalidInput})
			continue
		}
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				cm.logger.Debug("live session read failed", zap.String("session", s.ID()), zap.Error(err))
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		if msg.Type == "ping" {
			_ = s.WriteJSON(Reply{Type: "pong", ID: msg.ID})
			continue
		}

		select {
		case inFlight <- struct{}{}:
		default:
			_ = s.WriteJSON(Reply{Type: msg.Type, ID: msg.ID, Error: "too many frames in flight", Code: CodeBusy})
			continue
		}

		pending.Add(1)
		go func(msg *Message) {
			defer pending.Done()
			defer func() { <-inFlight }()
			_ = s.WriteJSON(cm.dispatch(ctx, s, msg))
		}(msg)
	}
}

func (cm *ConnectionManager) dispatch(ctx context.Context, s *Session, msg *Message) Reply {
	reply := Reply{Type: msg.Type, ID: msg.ID}
	result, err := cm.dispatcher.HandleMessage(ctx, msg.Type, s.ID(), msg.Payload)
	switch {
	case err == nil:
		reply.Result = result
	case errors.Is(err, bazi.ErrInvalidInput), errors.Is(err, bazi.ErrUnsupportedDate):
		reply.Error, reply.Code = err.Error(), CodeInvalidInput
	case errors.Is(err, advisor.ErrCooldown):
		reply.Error, reply.Code = err.Error(), CodeCooldown
	case errors.Is(err, handlers.ErrUnknownType):
		reply.Error, reply.Code = err.Error(), CodeUnknownType
	default:
		cm.logger.Error("live analysis failed",
			zap.String("session", s.ID()),
			zap.String("type", msg.Type),
			zap.Error(err),
		)
		reply.Error, reply.Code = "analysis failed", CodeInternal
	}
	return reply
}

func (cm *ConnectionManager) add(s *Session) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.sessions[s.ID()] = s
	cm.wg.Add(1)
}

func (cm *ConnectionManager) remove(s *Session) {
	_ = s.Close()
	cm.mu.Lock()
	delete(cm.sessions, s.ID())
	cm.mu.Unlock()
	cm.wg.Done()
	cm.logger.Info("live session closed", zap.String("session", s.ID()))
}

// Shutdown closes every session and waits for their handlers until ctx ends.
func (cm *ConnectionManager) Shutdown(ctx context.Context) error {
	cm.mu.Lock()
	for _, s := range cm.sessions {
		_ = s.Close()
	}
	cm.mu.Unlock()

	done := make(chan struct{})
	go func() {
		cm.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
