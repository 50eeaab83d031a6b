package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans notification events out to connected websocket clients, keyed by
// the receiving user. Redis pub/sub bridges events across instances.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	UserID string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(userID string) *Client {
	client := &Client{
		UserID: userID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if userClients, ok := h.clients[client.UserID]; ok {
		delete(userClients, client)
		if len(userClients) == 0 {
			delete(h.clients, client.UserID)
		}
	}
	close(client.Send)
}

// Broadcast publishes a payload for the user. With Redis configured the
// publish is the only delivery path; the subscription loop hands it to local
// clients, same as on every other instance. Without Redis it goes straight to
// the local clients, as it does when the publish fails.
func (h *Hub) Broadcast(userID string, payload []byte) {
	if h.redis == nil {
		h.deliverLocal(userID, payload)
		return
	}

	if err := h.redis.Publish(context.Background(), redisChannel(userID), payload).Err(); err != nil {
		log.Printf("redis publish error: %v", err)
		h.deliverLocal(userID, payload)
	}
}

// deliverLocal holds the read lock for the whole iteration so Unregister
// cannot mutate the map or close a Send channel mid-delivery. Slow clients
// are skipped, not blocked on.
func (h *Hub) deliverLocal(userID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "notifications:*:events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		userID := userIDFromChannel(msg.Channel)
		if userID == "" {
			continue
		}
		h.deliverLocal(userID, []byte(msg.Payload))
	}
}

func redisChannel(userID string) string {
	return "notifications:" + userID + ":events"
}

func userIDFromChannel(ch string) string {
	// notifications:{user}:events
	const prefix = "notifications:"
	const suffix = ":events"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
