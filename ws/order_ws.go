package ws

import (
	"net/http"
	"sync"

	"github.com/ahmadnurfadilah/chattable/entity"
	"github.com/ahmadnurfadilah/chattable/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// OrderHub fans order events out to the kitchen displays of each
// organization. Ingestion and status updates publish here; connected staff
// clients see new tickets without polling.
type OrderHub struct {
	clients    map[string]map[*websocket.Conn]bool // organizationID -> connections
	broadcast  chan orderEvent
	register   chan subscription
	unregister chan subscription
	mu         sync.Mutex
	log        *zap.Logger
}

type subscription struct {
	Conn           *websocket.Conn
	OrganizationID string
}

type orderEvent struct {
	OrganizationID string
	Payload        eventPayload
}

type eventPayload struct {
	Event string        `json:"event"`
	Order *entity.Order `json:"order"`
}

func NewOrderHub(log *zap.Logger) *OrderHub {
	return &OrderHub{
		clients:    make(map[string]map[*websocket.Conn]bool),
		broadcast:  make(chan orderEvent, 16),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		log:        log,
	}
}

// Run pumps register/unregister/broadcast until the process exits.
func (h *OrderHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.OrganizationID] == nil {
				h.clients[sub.OrganizationID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.OrganizationID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[sub.OrganizationID]; ok {
				if conns[sub.Conn] {
					delete(conns, sub.Conn)
					sub.Conn.Close()
				}
				if len(conns) == 0 {
					delete(h.clients, sub.OrganizationID)
				}
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[ev.OrganizationID] {
				if err := conn.WriteJSON(ev.Payload); err != nil {
					h.log.Warn("dropping slow ws client", zap.Error(err))
					conn.Close()
					delete(h.clients[ev.OrganizationID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastOrder implements services.OrderFeed.
func (h *OrderHub) BroadcastOrder(organizationID, event string, order *entity.Order) {
	select {
	case h.broadcast <- orderEvent{
		OrganizationID: organizationID,
		Payload:        eventPayload{Event: event, Order: order},
	}:
	default:
		h.log.Warn("order feed backlogged, event dropped",
			zap.String("organizationId", organizationID),
			zap.String("event", event))
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades an authenticated request to a feed subscription for the
// caller's active organization.
func (h *OrderHub) ServeWS(c *gin.Context) {
	orgID := utils.CurrentOrganizationID(c)
	if orgID == "" {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "no active organization"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	sub := subscription{Conn: conn, OrganizationID: orgID}
	h.register <- sub

	// reader goroutine only watches for close; the feed is one-way
	go func() {
		defer func() { h.unregister <- sub }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
