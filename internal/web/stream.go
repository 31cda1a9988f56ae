/*

This file contains the websocket stream that pushes catalog refresh events
to dashboard clients. The hub fans one event out to every connected client;
a client that cannot keep up is dropped rather than blocking the refresh
path.

*/

package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/defiscope/yoe/internal/types"
)

const (
	streamWriteTimeout = 10 * time.Second
	streamSendBuffer   = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from arbitrary origins behind the CORS policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// refreshEvent is one message pushed to stream subscribers.
type refreshEvent struct {
	Type             string        `json:"type"`
	ChainID          types.ChainID `json:"chain_id"`
	OpportunityCount int           `json:"opportunity_count"`
	Timestamp        time.Time     `json:"timestamp"`
}

// streamHub tracks connected websocket clients.
type streamHub struct {
	mu      sync.Mutex
	clients map[*streamClient]struct{}
}

type streamClient struct {
	conn *websocket.Conn
	send chan refreshEvent
}

func newStreamHub() *streamHub {
	return &streamHub{
		clients: make(map[*streamClient]struct{}),
	}
}

// broadcast queues an event for every connected client. Full send buffers
// drop the client.
func (h *streamHub) broadcast(event refreshEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- event:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *streamHub) register(client *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *streamHub) unregister(client *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *streamHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// handleStream upgrades the connection and streams refresh events until the
// client disconnects.
func (ws *WebServer) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		webLogger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	client := &streamClient{
		conn: conn,
		send: make(chan refreshEvent, streamSendBuffer),
	}
	ws.stream.register(client)

	webLogger.Debug().Str("remote_addr", r.RemoteAddr).Msg("Stream client connected")

	go client.writeLoop()
	client.readLoop(ws.stream)
}

// writeLoop drains the send channel onto the connection.
func (c *streamClient) writeLoop() {
	defer c.conn.Close()
	for event := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := c.conn.WriteJSON(event); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readLoop consumes control frames until the peer goes away, then cleans up.
func (c *streamClient) readLoop(hub *streamHub) {
	defer hub.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
