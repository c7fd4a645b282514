package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgResponseSubmitted MessageType = "response_submitted"
	MsgFeedbackSubmitted MessageType = "feedback_submitted"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Topic names what a connection is subscribed to
type Topic struct {
	Kind string // "form" or "event"
	ID   string
}

func FormTopic(formID string) Topic { return Topic{Kind: "form", ID: formID} }

func EventTopic(eventID string) Topic { return Topic{Kind: "event", ID: eventID} }

// Connection represents a WebSocket connection
type Connection struct {
	Topic  Topic
	UserID string
	Send   chan []byte
}

// NewConnection creates a connection with a buffered send queue
func NewConnection(topic Topic, userID string) *Connection {
	return &Connection{
		Topic:  topic,
		UserID: userID,
		Send:   make(chan []byte, 256),
	}
}

type broadcastMessage struct {
	topic Topic
	data  []byte
}

// Hub fans out notifications to the owners subscribed to a form or event.
// Its maps are owned by the run goroutine.
type Hub struct {
	subs map[Topic]map[*Connection]struct{}

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan broadcastMessage
	done       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub and starts its loop
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		subs:       make(map[Topic]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan broadcastMessage, 256),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.stopped)
	for {
		select {
		case conn := <-h.register:
			conns := h.subs[conn.Topic]
			if conns == nil {
				conns = make(map[*Connection]struct{})
				h.subs[conn.Topic] = conns
			}
			conns[conn] = struct{}{}
			h.logger.Debug("subscriber connected",
				zap.String("topic", conn.Topic.Kind),
				zap.String("id", conn.Topic.ID),
				zap.String("userId", conn.UserID))

		case conn := <-h.unregister:
			h.remove(conn)

		case msg := <-h.broadcast:
			for conn := range h.subs[msg.topic] {
				select {
				case conn.Send <- msg.data:
				default:
					// slow consumer, drop
				}
			}

		case <-h.done:
			for _, conns := range h.subs {
				for conn := range conns {
					close(conn.Send)
				}
			}
			h.subs = nil
			return
		}
	}
}

func (h *Hub) remove(conn *Connection) {
	conns, ok := h.subs[conn.Topic]
	if !ok {
		return
	}
	if _, ok := conns[conn]; !ok {
		return
	}
	delete(conns, conn)
	close(conn.Send)
	if len(conns) == 0 {
		delete(h.subs, conn.Topic)
	}
	h.logger.Debug("subscriber disconnected",
		zap.String("topic", conn.Topic.Kind),
		zap.String("id", conn.Topic.ID))
}

// Register adds a connection. It reports false once the hub is stopped.
func (h *Hub) Register(conn *Connection) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a connection and closes its send queue
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

func (h *Hub) publish(topic Topic, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("marshal ws payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	envelope, err := json.Marshal(&Message{Type: MessageType(msgType), Payload: data})
	if err != nil {
		h.logger.Error("marshal ws message", zap.String("type", msgType), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- broadcastMessage{topic: topic, data: envelope}:
	case <-h.done:
	}
}

// BroadcastToForm notifies the owners watching a form (implements service.Broadcaster)
func (h *Hub) BroadcastToForm(formID string, msgType string, payload interface{}) {
	h.publish(FormTopic(formID), msgType, payload)
}

// BroadcastToEvent notifies the owners watching an event (implements service.Broadcaster)
func (h *Hub) BroadcastToEvent(eventID string, msgType string, payload interface{}) {
	h.publish(EventTopic(eventID), msgType, payload)
}

// Stop closes every connection's send queue and ends the hub loop.
// It is safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
	<-h.stopped
}
