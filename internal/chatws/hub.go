package chatws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/gym-manager/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 32
)

// Event is pushed to every subscriber of a chat.
type Event struct {
	Type   string `json:"type"`
	ChatID uint   `json:"chat_id"`
	Data   any    `json:"data"`
}

type delivery struct {
	chatID  uint
	payload []byte
}

// Hub fans chat events out to websocket subscribers. The subscriber
// registry is owned by the Run goroutine.
type Hub struct {
	clients    map[uint]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan delivery
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan delivery, 64),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx ends, then closes every subscriber.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = map[uint]map[*Client]struct{}{}
			return

		case c := <-h.register:
			set, ok := h.clients[c.chatID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[c.chatID] = set
			}
			set[c] = struct{}{}

		case c := <-h.unregister:
			h.drop(c)

		case d := <-h.broadcast:
			for c := range h.clients[d.chatID] {
				select {
				case c.send <- d.payload:
				default:
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	set, ok := h.clients[c.chatID]
	if !ok {
		return
	}
	if _, exists := set[c]; exists {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.clients, c.chatID)
	}
}

// Publish queues ev for the chat's subscribers. It never blocks the caller.
func (h *Hub) Publish(chatID uint, ev Event) {
	if h == nil {
		return
	}
	ev.ChatID = chatID
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.L().Warn("chat event encode failed", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- delivery{chatID: chatID, payload: payload}:
	case <-h.done:
	default:
		logger.L().Warn("chat hub busy, dropping event", zap.Uint("chat_id", chatID))
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// ======================================================
// CLIENT
// ======================================================

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	chatID uint
	userID uint
	send   chan []byte
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Serve upgrades the request and subscribes the caller to chatID.
// Access to the chat must be checked before calling it.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, chatID, userID uint) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &Client{
		hub:    h,
		conn:   conn,
		chatID: chatID,
		userID: userID,
		send:   make(chan []byte, sendBuffer),
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return nil
	}

	go c.writePump()
	go c.readPump()
	return nil
}

// readPump only watches for the peer going away; messages are sent over HTTP.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
