package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lingomap/lingomap/internal/logging"
	"github.com/lingomap/lingomap/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type feedEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed fans accepted submissions out to connected map clients so they
// can add markers without polling. New clients first receive the
// existing submissions as a history event. Markers are add-only; there
// is no removal or update event.
type Feed struct {
	clients    map[*feedClient]bool
	broadcast  chan []byte
	register   chan *feedClient
	unregister chan *feedClient
	done       chan struct{}
	history    func() ([]*services.Submission, error)
	log        logging.Logger
}

func NewFeed(history func() ([]*services.Submission, error), log logging.Logger) *Feed {
	f := &Feed{
		clients:    make(map[*feedClient]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		done:       make(chan struct{}),
		history:    history,
		log:        log,
	}
	go f.run()
	return f
}

func (f *Feed) run() {
	for {
		select {
		case client := <-f.register:
			f.clients[client] = true
			subs, err := f.history()
			if err != nil {
				f.log.Warn(context.Background(), "load feed history", "err", err)
				continue
			}
			if len(subs) > 0 {
				if msg, err := json.Marshal(feedEvent{Type: "history", Data: subs}); err == nil {
					client.send <- msg
				}
			}
		case client := <-f.unregister:
			if _, ok := f.clients[client]; ok {
				delete(f.clients, client)
				close(client.send)
			}
		case message := <-f.broadcast:
			for client := range f.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(f.clients, client)
				}
			}
		case <-f.done:
			for client := range f.clients {
				close(client.send)
				delete(f.clients, client)
			}
			return
		}
	}
}

// Publish queues one accepted submission for broadcast.
func (f *Feed) Publish(sub *services.Submission) {
	msg, err := json.Marshal(feedEvent{Type: "submission", Data: sub})
	if err != nil {
		return
	}
	select {
	case f.broadcast <- msg:
	case <-f.done:
	}
}

func (f *Feed) Close() {
	close(f.done)
}

// ServeHTTP upgrades the connection and registers the client.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.log.Warn(r.Context(), "websocket upgrade", "err", err)
		return
	}
	client := &feedClient{conn: conn, send: make(chan []byte, 256)}
	select {
	case f.register <- client:
	case <-f.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(f)
}

// readPump discards inbound frames; it exists to detect disconnects.
func (c *feedClient) readPump(f *Feed) {
	defer func() {
		select {
		case f.unregister <- c:
		case <-f.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *feedClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
