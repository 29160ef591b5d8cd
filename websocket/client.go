package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Message is a client request on the live channel
type Message struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Reply answers one Message, echoing its type and id
type Reply struct {
	Type   string      `json:"type"`
	ID     string      `json:"id,omitempty"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
	Code   string      `json:"code,omitempty"`
}

// Session is one accepted live connection
type Session struct {
	id         string
	conn       *websocket.Conn
	writeMu    sync.Mutex
	pingCancel context.CancelFunc // Cancel function for ping goroutine
	closeOnce  sync.Once
}

func newSession(conn *websocket.Conn) *Session {
	return &Session{
		id:   uuid.NewString(),
		conn: conn,
	}
}

// ID returns the session id used for cooldowns and logs
func (s *Session) ID() string {
	return s.id
}

// StartPing sends ping control frames every interval until the session closes
func (s *Session) StartPing(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	s.pingCancel = cancel

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.writeControl(websocket.PingMessage); err != nil {
					return
				}
			}
		}
	}()
}

func (s *Session) writeControl(messageType int) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteControl(messageType, nil, time.Now().Add(writeWait))
}

// WriteJSON sends v as a text message thread-safely
func (s *Session) WriteJSON(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("connection is nil")
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(v)
}

// ReadMessage reads and decodes the next client message
func (s *Session) ReadMessage() (*Message, error) {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return &msg, nil
}

// Close stops the pinger and closes the connection
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.pingCancel != nil {
			s.pingCancel()
		}
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}
