package stream

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	// writeWait bounds a single write to one connection so a dead peer
	// cannot stall its write pump.
	writeWait = 10 * time.Second

	// sendBuffer is the per-connection queue of outbound messages. A
	// connection that falls this far behind starts losing broadcasts, which
	// best-effort delivery allows.
	sendBuffer = 64
)

// Conn is one open streaming connection. driverID is zero until the client
// binds with ConnectDriver; it is read and written only by the connection's
// own receive loop and its disconnect path.
type Conn struct {
	id       string
	driverID int
	sock     *websocket.Conn
	send     chan []byte
}

// enqueue hands a message to the connection's write pump without blocking.
// When the buffer is full the message is dropped for this connection only;
// the connection is left open for its own receive loop to reap if it is
// actually dead.
func (c *Conn) enqueue(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Hub tracks every open streaming connection and fans events out to all of
// them. It is shared by reference between the gateway and the location
// service, so both ingress paths trigger the same fan-out.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Conn
	log   echo.Logger
}

// NewHub creates an empty hub.
func NewHub(log echo.Logger) *Hub {
	return &Hub{
		conns: make(map[string]*Conn),
		log:   log,
	}
}

func (h *Hub) register(sock *websocket.Conn) *Conn {
	c := &Conn{
		id:   uuid.NewString(),
		sock: sock,
		send: make(chan []byte, sendBuffer),
	}
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(c *Conn) {
	h.mu.Lock()
	if _, ok := h.conns[c.id]; ok {
		delete(h.conns, c.id)
		close(c.send)
	}
	h.mu.Unlock()
}

// ConnCount reports how many connections are currently open.
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// BroadcastEvent sends one event to every open connection. The envelope is
// marshalled once; each target either takes it or drops it, and a failure on
// one target never blocks the rest.
func (h *Hub) BroadcastEvent(action string, data interface{}) {
	msg, err := marshalEnvelope(action, data)
	if err != nil {
		h.log.Error("stream: marshal broadcast: ", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.conns {
		if !c.enqueue(msg) {
			h.log.Warn("stream: dropping broadcast for slow connection ", c.id)
		}
	}
}

// reply sends an event to a single connection.
func (h *Hub) reply(c *Conn, action string, data interface{}) {
	msg, err := marshalEnvelope(action, data)
	if err != nil {
		h.log.Error("stream: marshal reply: ", err)
		return
	}
	if !c.enqueue(msg) {
		h.log.Warn("stream: dropping reply for slow connection ", c.id)
	}
}

// writePump drains the connection's send queue onto the socket. It exits when
// the queue is closed by unregister or when a write fails, and it is the only
// goroutine writing to the socket.
func (c *Conn) writePump() {
	defer c.sock.Close()
	for msg := range c.send {
		_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.sock.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.sock.WriteMessage(websocket.CloseMessage, []byte{})
}
