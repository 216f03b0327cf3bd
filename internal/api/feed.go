package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"brewcart/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The admin dashboard is served from the cart device itself.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event types sent on the order feed.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
)

// Event is one message on the order feed.
type Event struct {
	Type  string       `json:"type"`
	Order models.Order `json:"order"`
	Time  time.Time    `json:"time"`
}

// Feed fans order events out to every connected websocket client.
type Feed struct {
	mu      sync.Mutex
	clients map[*feedClient]struct{}
	closed  bool
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{clients: make(map[*feedClient]struct{})}
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Clients returns the number of connected clients.
func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Broadcast sends ev to every client. Clients whose buffer is full miss
// the event.
func (f *Feed) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Errorf("encoding feed event: %v", err)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c.send <- data:
		default:
			logger.Warningf("feed buffer full for %s, dropping %s", c.conn.RemoteAddr(), ev.Type)
		}
	}
}

// Close disconnects every client. Later connections are refused.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for c := range f.clients {
		close(c.send)
		delete(f.clients, c)
	}
}

func (f *Feed) add(c *feedClient) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.clients[c] = struct{}{}
	return true
}

func (f *Feed) remove(c *feedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
}

func (f *Feed) handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warningf("upgrading feed connection: %v", err)
		return
	}
	client := &feedClient{conn: conn, send: make(chan []byte, sendBuffer)}
	if !f.add(client) {
		_ = conn.Close()
		return
	}
	logger.Debugf("feed client %s connected", conn.RemoteAddr())

	go client.writePump()
	go f.readPump(client)
}

// readPump only watches for the client going away; the feed is one-way.
func (f *Feed) readPump(c *feedClient) {
	defer func() {
		f.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warningf("feed client %s: %v", c.conn.RemoteAddr(), err)
			}
			return
		}
	}
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
