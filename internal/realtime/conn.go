package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cs2stats/cs2stats/internal/logging"
	"github.com/cs2stats/cs2stats/internal/models"
	"github.com/cs2stats/cs2stats/internal/storage"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // 512 KB

	commandTimeout = 10 * time.Second
	sendBuffer     = 256
)

// subscriberIDCounter hands out stable IDs so broadcast order is consistent.
var subscriberIDCounter atomic.Uint64

// Subscriber is the middleman between one websocket connection and the hub.
// Role carries the authenticated user's role, or empty for anonymous
// subscribers; mutating commands require an admin role.
type Subscriber struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn
	send chan Message

	// done signals shutdown to the pumps. The send channel itself is never
	// closed: the read pump keeps calling reply after the hub may have
	// dropped this subscriber, and a send on a closed channel would panic.
	done     chan struct{}
	doneOnce sync.Once

	commands *Commands
	role     models.Role
}

// NewSubscriber creates a subscriber for conn. commands may be nil for
// receive-only subscribers.
func NewSubscriber(hub *Hub, conn *websocket.Conn, commands *Commands, role models.Role) *Subscriber {
	return &Subscriber{
		id:       subscriberIDCounter.Add(1),
		hub:      hub,
		conn:     conn,
		send:     make(chan Message, sendBuffer),
		done:     make(chan struct{}),
		commands: commands,
		role:     role,
	}
}

// Start registers the subscriber, sends the welcome frame and begins the
// read/write pumps.
func (s *Subscriber) Start() {
	s.hub.Register(s)
	s.reply(Message{Type: MessageTypeConnected, Data: map[string]string{"message": "Connected to live updates"}})
	go s.writePump()
	go s.readPump()
}

// shutdown stops the pumps. Safe to call from any goroutine, any number of
// times.
func (s *Subscriber) shutdown() {
	s.doneOnce.Do(func() { close(s.done) })
}

// reply queues a frame for this subscriber only. Drops the frame when the
// buffer is full or the subscriber is shutting down; the write pump notices
// a dead connection soon enough.
func (s *Subscriber) reply(msg Message) {
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.send <- msg:
	case <-s.done:
	default:
	}
}

func (s *Subscriber) readPump() {
	defer func() {
		s.hub.Unregister(s)
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Msg("unexpected websocket close error")
			}
			break
		}
		s.dispatch(raw)
	}
}

// dispatch routes one inbound frame. Frames that fail to parse, carry an
// unknown type or arrive without a command service are dropped silently so a
// misbehaving client cannot disturb the connection.
func (s *Subscriber) dispatch(raw []byte) {
	var frame struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &frame); err != nil {
		logging.Debug().Err(err).Msg("ignoring unparseable websocket frame")
		return
	}
	if s.commands == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch frame.Type {
	case CommandCreateMatchEvent:
		s.handleCreateMatchEvent(ctx, frame.Data)
	case CommandGetMatchEvents:
		s.handleGetMatchEvents(ctx, frame.Data)
	default:
		logging.Debug().Str("type", frame.Type).Msg("ignoring unknown websocket command")
	}
}

func (s *Subscriber) handleCreateMatchEvent(ctx context.Context, data json.RawMessage) {
	if s.role != models.RoleAdmin {
		s.reply(Message{Type: ReplyMatchEventError, Data: map[string]string{"message": "Admin access required"}})
		return
	}

	var payload models.InsertMatchEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		s.reply(Message{Type: ReplyMatchEventError, Data: map[string]string{"message": "Invalid event data"}})
		return
	}

	event, err := s.commands.CreateMatchEvent(ctx, payload)
	if err != nil {
		msg := "Failed to create event"
		if errors.Is(err, ErrInvalidPayload) || errors.Is(err, storage.ErrNotFound) {
			msg = err.Error()
		}
		s.reply(Message{Type: ReplyMatchEventError, Data: map[string]string{"message": msg}})
		return
	}
	s.reply(Message{Type: ReplyMatchEventOK, Data: event})
}

func (s *Subscriber) handleGetMatchEvents(ctx context.Context, data json.RawMessage) {
	var payload struct {
		MatchID string `json:"matchId"`
		Limit   int    `json:"limit"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.MatchID == "" {
		s.reply(Message{Type: ReplyMatchEventsError, Data: map[string]string{"message": "matchId is required"}})
		return
	}

	events, err := s.commands.GetMatchEvents(ctx, payload.MatchID, payload.Limit)
	if err != nil {
		s.reply(Message{Type: ReplyMatchEventsError, Data: map[string]string{"message": "Failed to load events"}})
		return
	}
	s.reply(Message{Type: ReplyMatchEvents, Data: map[string]interface{}{
		"matchId": payload.MatchID,
		"events":  events,
	}})
}

func (s *Subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case message := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if err := s.conn.WriteJSON(message); err != nil {
				logging.Error().Err(err).Msg("failed to write websocket message")
				return
			}

		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
