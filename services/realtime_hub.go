package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Celebration kinds surfaced to clients. Burst fires when the streak count
// strictly increases, shower when the water goal is crossed.
const (
	CelebrationBurst  = "burst"
	CelebrationShower = "shower"
)

// CelebrationSink receives celebration signals from the core services.
type CelebrationSink interface {
	Celebrate(userID uint, kind string)
}

// Event is one message pushed to a user's websocket clients: either a
// document change notification (the push-based "latest snapshot" signal) or
// a celebration.
type Event struct {
	Type string `json:"type"` // "change" | "celebration"
	Kind string `json:"kind"` // document kind, or celebration kind
	Key  string `json:"key,omitempty"`
}

type WSClient struct {
	UserID uint
	Conn   *websocket.Conn
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *RealtimeHub) Broadcast(userID uint, ev Event) {
	msg, _ := json.Marshal(ev)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// NotifyChange mirrors store writes out to connected clients so they can
// refetch the latest snapshot instead of polling.
func (h *RealtimeHub) NotifyChange(userID uint, kind, key string) {
	h.Broadcast(userID, Event{Type: "change", Kind: kind, Key: key})
}

func (h *RealtimeHub) Celebrate(userID uint, kind string) {
	h.Broadcast(userID, Event{Type: "celebration", Kind: kind})
}
