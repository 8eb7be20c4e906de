package server

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JackieChiles/Cinch/internal/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

const (
	writeWait     = 10 * time.Second
	sendQueueSize = 32
)

// Hub maps user IDs to live connections and implements Notifier.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*client
	log   *slog.Logger
}

// client decouples senders from the socket: messages go through a
// bounded queue drained by one writer goroutine, so a stalled peer
// can never block a table's critical section. Overflow drops the
// message; the peer resyncs from the next full state push.
type client struct {
	conn *websocket.Conn
	out  chan ServerMessage
	done chan struct{}
	log  *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{conns: map[string]*client{}, log: log}
}

func (h *Hub) register(userID string, conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		out:  make(chan ServerMessage, sendQueueSize),
		done: make(chan struct{}),
		log:  h.log.With("user", userID),
	}
	go c.writePump()
	h.mu.Lock()
	h.conns[userID] = c
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(userID string) {
	h.mu.Lock()
	c, ok := h.conns[userID]
	delete(h.conns, userID)
	h.mu.Unlock()
	if ok {
		close(c.done)
	}
}

// Send queues one message, dropping it when the user has no live
// connection or their queue is full.
func (h *Hub) Send(userID string, msg ServerMessage) {
	h.mu.RLock()
	c, ok := h.conns[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	c.send(msg)
}

func (c *client) send(msg ServerMessage) {
	select {
	case c.out <- msg:
	case <-c.done:
	default:
		c.log.Debug("send queue full, dropping message", "type", msg.Type)
	}
}

func (c *client) writePump() {
	for {
		select {
		case msg := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Debug("write failed", "err", err)
				return
			}
		case <-c.done:
			return
		}
	}
}

// WSHandler upgrades each connection, mints an identity, and serves
// the message loop until the client goes away.
type WSHandler struct {
	hub      *Hub
	users    *UserManager
	registry *Registry
	log      *slog.Logger
}

func NewWSHandler(hub *Hub, users *UserManager, registry *Registry, log *slog.Logger) *WSHandler {
	return &WSHandler{hub: hub, users: users, registry: registry, log: log}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	user := h.users.NewUser(r.URL.Query().Get("name"))
	c := h.hub.register(user.ID, conn)
	h.log.Info("client connected", "user", user.ID, "name", user.Name)

	c.send(ServerMessage{Type: "welcome", User: &UserView{ID: user.ID, Name: user.Name}})

	defer func() {
		conn.Close()
		h.hub.unregister(user.ID)
		h.registry.Disconnect(user.ID)
		h.users.Remove(user.ID)
		h.log.Info("client disconnected", "user", user.ID)
	}()

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("read failed", "user", user.ID, "err", err)
			}
			return
		}
		h.dispatch(c, user.ID, msg)
	}
}

func (h *WSHandler) dispatch(c *client, userID string, msg ClientMessage) {
	switch msg.Type {
	case "new":
		view, err := h.registry.StartNew(h.currentUser(userID))
		if err != nil {
			c.sendError("new_failed", err)
			return
		}
		c.send(ServerMessage{Type: "joined", Game: view})

	case "join":
		view, err := h.registry.Join(msg.GameID, engine.Seat(msg.Seat), h.currentUser(userID))
		if err != nil {
			c.sendError("join_failed", err)
			return
		}
		c.send(ServerMessage{Type: "joined", Game: view})

	case "leave":
		if err := h.registry.Leave(msg.GameID, userID); err != nil {
			c.sendError("leave_failed", err)
			return
		}
		c.send(ServerMessage{Type: "left"})

	case "bid":
		if msg.Value == nil {
			c.sendError("bad_request", errors.New("bid requires a value"))
			return
		}
		if err := h.registry.Bid(msg.GameID, userID, *msg.Value); err != nil {
			c.sendError("bid_rejected", err)
		}

	case "play":
		if msg.Card == nil {
			c.sendError("bad_request", errors.New("play requires a card"))
			return
		}
		card, err := msg.Card.toEngine()
		if err != nil {
			c.sendError("bad_request", err)
			return
		}
		if err := h.registry.Play(msg.GameID, userID, card); err != nil {
			c.sendError("play_rejected", err)
		}

	case "add_bot":
		if err := h.registry.AddBot(msg.GameID, engine.Seat(msg.Seat)); err != nil {
			c.sendError("add_bot_failed", err)
		}

	case "list":
		c.send(ServerMessage{Type: "games", Games: h.registry.GameList()})

	case "set_name":
		if msg.Name == "" {
			c.sendError("bad_request", errors.New("set_name requires a name"))
			return
		}
		if u, ok := h.users.Rename(userID, msg.Name); ok {
			c.send(ServerMessage{Type: "welcome", User: &UserView{ID: u.ID, Name: u.Name}})
		}

	default:
		c.sendError("unknown_type", errors.New("unknown message type "+msg.Type))
	}
}

func (h *WSHandler) currentUser(userID string) engine.User {
	if u, ok := h.users.Get(userID); ok {
		return u
	}
	return engine.User{ID: userID}
}

func (c *client) sendError(code string, err error) {
	c.send(ServerMessage{Type: "error", Error: &ErrorView{Code: code, Message: err.Error()}})
}
