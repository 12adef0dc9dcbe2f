package ws

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Vishnukant2275/easyorderin/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

// OrderHub pushes committed order events to the staff dashboards of a restaurant.
type OrderHub struct {
	clients    map[uint]map[*websocket.Conn]bool // restaurantID -> dashboards
	broadcast  chan services.OrderEvent
	register   chan Subscription
	unregister chan Subscription
	done       chan struct{}
	mu         sync.Mutex
	log        *zap.Logger
}

// Subscription is one dashboard connection.
type Subscription struct {
	Conn         *websocket.Conn
	RestaurantID uint
	UserID       uint
}

func NewOrderHub(log *zap.Logger) *OrderHub {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan services.OrderEvent, 256),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
		done:       make(chan struct{}),
		log:        log.Named("ws"),
	}
}

// Run serves register/unregister/broadcast until ctx is done, then closes every connection.
func (h *OrderHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for rid, conns := range h.clients {
				for conn := range conns {
					_ = conn.Close()
				}
				delete(h.clients, rid)
			}
			h.mu.Unlock()
			return

		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.RestaurantID] == nil {
				h.clients[sub.RestaurantID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.RestaurantID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.RestaurantID][sub.Conn]; ok {
				delete(h.clients[sub.RestaurantID], sub.Conn)
				_ = sub.Conn.Close()
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[ev.RestaurantID] {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(ev); err != nil {
					h.log.Debug("ws write failed", zap.Error(err))
					_ = conn.Close()
					delete(h.clients[ev.RestaurantID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues ev for delivery. A full queue drops the event; dashboards
// resync from the list endpoint.
func (h *OrderHub) Publish(_ context.Context, ev services.OrderEvent) {
	select {
	case h.broadcast <- ev:
	default:
		h.log.Warn("ws broadcast queue full, dropping event", zap.String("order_id", ev.OrderID))
	}
}

// ClientCount is the number of dashboards connected for a restaurant.
func (h *OrderHub) ClientCount(restID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[restID])
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket serves /ws/restaurants/:rid/orders. Auth runs before it.
func (h *OrderHub) HandleWebSocket(c *gin.Context) {
	rid, err := strconv.ParseUint(c.Param("rid"), 10, 64)
	if err != nil || rid == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid restaurant id"})
		return
	}
	var userID uint
	if v, ok := c.Get("userId"); ok {
		userID, _ = v.(uint)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug("ws upgrade failed", zap.Error(err))
		return
	}

	sub := Subscription{Conn: conn, RestaurantID: uint(rid), UserID: userID}
	select {
	case h.register <- sub:
		go h.listen(sub)
	case <-h.done:
		_ = conn.Close()
	}
}

// listen drains client frames so pings and close frames are processed.
func (h *OrderHub) listen(sub Subscription) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
