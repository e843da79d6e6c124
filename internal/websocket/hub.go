// Package websocket pushes project and task change events to the
// connections of the user who owns them; one user's mutations are never
// visible on another user's feed. Delivery is best effort: a client
// whose connection errors is dropped.
package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Event describes a mutation on a project or a task. UtilisateurID is
// the owner the event is scoped to; it routes delivery and is not part
// of the payload.
type Event struct {
	Type          string `json:"type"`
	ProjetID      int    `json:"projet_id"`
	TacheID       int    `json:"tache_id,omitempty"`
	UtilisateurID int    `json:"-"`
}

const (
	EventProjetCree     = "projet_cree"
	EventProjetModifie  = "projet_modifie"
	EventProjetSupprime = "projet_supprime"
	EventTacheCreee     = "tache_creee"
	EventTacheModifiee  = "tache_modifiee"
	EventTacheSupprimee = "tache_supprimee"
)

// Client is one websocket connection, bound at registration to the
// user id carried by the verified token.
type Client struct {
	Conn          *websocket.Conn
	UtilisateurID int
	Mu            sync.Mutex
}

type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan Event
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan Event, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Publish queues an event for delivery. A nil hub or a full queue drops
// the event; the feed is advisory, not a source of truth.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	select {
	case h.Broadcast <- ev:
	default:
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.Conn.Close()
			}
		case ev := <-h.Broadcast:
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			for client := range h.Clients {
				// Only the owner's connections see the event.
				if client.UtilisateurID != ev.UtilisateurID {
					continue
				}
				client.Mu.Lock()
				writeErr := client.Conn.WriteMessage(websocket.TextMessage, payload)
				client.Mu.Unlock()
				if writeErr != nil {
					delete(h.Clients, client)
					client.Conn.Close()
				}
			}
		}
	}
}
