package services

import (
	"encoding/json"
	"log"
	"sync"
)

const clientBuffer = 16

// Client is one open notification stream of a user.
type Client struct {
	userID uint
	send   chan []byte
}

func (c *Client) UserID() uint {
	return c.userID
}

// Messages yields the encoded notifications for this client. It is closed
// on Unregister.
func (c *Client) Messages() <-chan []byte {
	return c.send
}

// Hub tracks the open streams per user.
type Hub struct {
	mu      sync.Mutex
	clients map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) Register(userID uint) *Client {
	c := &Client{userID: userID, send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	return c
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}
}

// Push encodes v once and hands it to every stream of userID. Slow clients
// whose buffer is full miss the message. It returns the number of streams
// reached.
func (h *Hub) Push(userID uint, v interface{}) int {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("hub: encode message for user %d: %v", userID, err)
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	sent := 0
	for c := range h.clients[userID] {
		select {
		case c.send <- data:
			sent++
		default:
			log.Printf("hub: dropping message for user %d, buffer full", userID)
		}
	}
	return sent
}
