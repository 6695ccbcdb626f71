package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/fuelroute/planner/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// EventSubscribed is the first message every client receives.
const EventSubscribed = "subscribed"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the JSON frame sent to clients
type Message struct {
	Network   string        `json:"network"`
	Event     string        `json:"event"`
	Plan      *service.Plan `json:"plan,omitempty"`
	Data      any           `json:"data,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Client is one subscriber connection
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	network string
}

type countRequest struct {
	network string
	reply   chan int
}

// Hub maintains the set of active clients per network and broadcasts to them.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	// Registered clients by network
	networks map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	counts     chan countRequest

	// closed when Run returns
	done chan struct{}
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		networks:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		counts:     make(chan countRequest),
		done:       make(chan struct{}),
	}
}

// Run processes hub events until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.networks {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case req := <-h.counts:
			req.reply <- len(h.networks[req.network])
		}
	}
}

// ServeWS upgrades the request and subscribes the client to network
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, network string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, 256),
		network: network,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// PublishPlanEvent queues a plan event for the subscribers of its network
func (h *Hub) PublishPlanEvent(event service.PlanEvent) {
	h.enqueue(&Message{
		Network:   event.Network,
		Event:     event.Type,
		Plan:      event.Plan,
		Timestamp: event.Timestamp,
	})
}

// BroadcastEvent queues a custom event for the subscribers of network
func (h *Hub) BroadcastEvent(network, event string, data any) {
	h.enqueue(&Message{
		Network:   network,
		Event:     event,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// enqueue never blocks the publisher. Messages are dropped when the queue is
// full or Run has exited.
func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	default:
		log.Printf("WebSocket queue full, dropping %s event for network %s", message.Event, message.Network)
	}
}

// ClientCount reports how many clients are subscribed to network. It blocks
// until Run is active and returns 0 once Run has stopped.
func (h *Hub) ClientCount(network string) int {
	reply := make(chan int, 1)
	select {
	case h.counts <- countRequest{network: network, reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}

// registerClient adds a client to its network and greets it
func (h *Hub) registerClient(client *Client) {
	if h.networks[client.network] == nil {
		h.networks[client.network] = make(map[*Client]bool)
	}
	h.networks[client.network][client] = true

	if data, err := json.Marshal(&Message{
		Network:   client.network,
		Event:     EventSubscribed,
		Timestamp: time.Now(),
	}); err == nil {
		client.send <- data
	}

	log.Printf("Client subscribed to network %s (total clients: %d)",
		client.network, len(h.networks[client.network]))
}

// unregisterClient removes a client from its network
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.networks[client.network]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.networks, client.network)
			}

			log.Printf("Client unsubscribed from network %s (remaining clients: %d)",
				client.network, len(clients))
		}
	}
}

// broadcastMessage sends a message to all clients of its network
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	for client := range h.networks[message.Network] {
		select {
		case client.send <- data:
		default:
			// slow consumer
			h.unregisterClient(client)
		}
	}
}

// readPump only watches for close and pong frames; clients do not send commands
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

// writePump sends one WebSocket frame per message, plus periodic pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
