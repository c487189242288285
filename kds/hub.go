package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ordermenu/utils"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// writeWait bounds a single write so a stalled display cannot hold up
// publishers.
const writeWait = 5 * time.Second

// Conn is the write side of a websocket connection.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type client struct {
	conn Conn
	role string
	mu   sync.Mutex // serialises writes; websocket allows one writer
}

// Hub keeps the connected kitchen displays and fans order events out to them.
type Hub struct {
	clients   map[Conn]*client
	mutex     sync.Mutex
	writeWait time.Duration
}

func NewHub() *Hub {
	return &Hub{clients: make(map[Conn]*client), writeWait: writeWait}
}

func (h *Hub) Register(conn Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = &client{conn: conn, role: role}

	utils.Info(logrus.Fields{"role": role, "clients": len(h.clients)}).Info("KDS client connected")
}

func (h *Hub) Unregister(conn Conn) {
	h.mutex.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mutex.Unlock()

	if ok {
		_ = conn.Close()
	}
}

func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) snapshot() []*client {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	out := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, c)
	}
	return out
}

// Publish sends {event, data} to every client. Writes run concurrently and
// outside the hub lock, each bounded by the write deadline. Clients whose
// write fails or times out are dropped.
func (h *Hub) Publish(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.Error(logrus.Fields{"event": event, "error": err}).Error("Failed to marshal KDS message")
		return
	}

	var wg sync.WaitGroup
	for _, c := range h.snapshot() {
		wg.Add(1)
		go func(c *client) {
			defer wg.Done()
			if err := h.write(c, payload); err != nil {
				utils.Info(logrus.Fields{"event": event, "role": c.role, "error": err}).Warn("Dropping KDS client")
				h.Unregister(c.conn)
			}
		}(c)
	}
	wg.Wait()
}

func (h *Hub) write(c *client, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(h.writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}
