package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/fadedpez/carddeck/internal/logging"
	"github.com/fadedpez/carddeck/pkg/entities"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// EventDraw is the only event type sent today
const EventDraw = "draw"

// Event is one message pushed to watchers of a table
type Event struct {
	Type string               `json:"type"`
	Draw *entities.DrawRecord `json:"draw,omitempty"`
}

type client struct {
	id      string
	tableID string
	conn    *websocket.Conn
	send    chan []byte
}

type message struct {
	tableID string
	data    []byte
}

// Hub fans draws out to websocket clients watching a table
type Hub struct {
	upgrader   websocket.Upgrader
	logger     *logging.Logger
	register   chan *client
	unregister chan *client
	broadcast  chan message
	done       chan struct{}

	mu     sync.RWMutex
	tables map[string]map[string]*client
}

// NewHub creates a hub; call Run to start delivering events
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:     logger,
		register:   make(chan *client, 16),
		unregister: make(chan *client, 16),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
		tables:     make(map[string]map[string]*client),
	}
}

// Run delivers events until ctx is done, then disconnects every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.tables[c.tableID] == nil {
				h.tables[c.tableID] = make(map[string]*client)
			}
			h.tables[c.tableID][c.id] = c
			h.mu.Unlock()
			h.logger.Debug("Feed client %s watching table %s", c.id, c.tableID)

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*client
			for _, c := range h.tables[msg.tableID] {
				select {
				case c.send <- msg.data:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()

			for _, c := range slow {
				h.logger.Warn("Dropping slow feed client %s", c.id)
				h.remove(c)
			}
		}
	}
}

// Publish queues a draw for everyone watching its table
func (h *Hub) Publish(draw *entities.DrawRecord) {
	data, err := json.Marshal(Event{Type: EventDraw, Draw: draw})
	if err != nil {
		h.logger.Error("Failed to encode draw %s: %v", draw.ID, err)
		return
	}

	select {
	case h.broadcast <- message{tableID: draw.TableID, data: data}:
	default:
		h.logger.Warn("Feed backlog full, dropping draw %s", draw.ID)
	}
}

// Watchers returns how many clients are watching a table
func (h *Hub) Watchers(tableID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.tables[tableID])
}

// ServeHTTP upgrades /feed?table=ID requests to a websocket
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tableID := r.URL.Query().Get("table")
	if tableID == "" {
		http.Error(w, "table is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade feed connection: %v", err)
		return
	}

	c := &client{
		id:      uuid.NewString(),
		tableID: tableID,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers, ok := h.tables[c.tableID]
	if !ok {
		return
	}
	if _, ok := watchers[c.id]; !ok {
		return
	}
	delete(watchers, c.id)
	close(c.send)
	if len(watchers) == 0 {
		delete(h.tables, c.tableID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for tableID, watchers := range h.tables {
		for _, c := range watchers {
			close(c.send)
		}
		delete(h.tables, tableID)
	}
}

// readPump only watches for pongs and the close; watchers never send data
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("Feed client %s read error: %v", c.id, err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
