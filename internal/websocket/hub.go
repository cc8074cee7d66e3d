package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Envelope is the wire frame for every event pushed to presentation
// clients.
type Envelope struct {
	GuildID   string      `json:"guildId"`
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type broadcast struct {
	guildID string
	data    []byte
}

// Hub fans guild events out to subscribed clients. One client
// subscribes to one guild feed.
type Hub struct {
	clients    map[*Client]bool
	guilds     map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan broadcast
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		guilds:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan broadcast, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.guilds = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
				if h.guilds[client.guildID] == nil {
					h.guilds[client.guildID] = make(map[*Client]bool)
				}
				h.guilds[client.guildID][client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					if subs := h.guilds[client.guildID]; subs != nil {
						delete(subs, client)
						if len(subs) == 0 {
							delete(h.guilds, client.guildID)
						}
					}
					client.Close()
				}
			}
			h.mu.Unlock()

		case msg := <-h.events:
			h.mu.RLock()
			for client := range h.guilds[msg.guildID] {
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer; drop the frame rather than block
					// the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish implements the services' event publisher. It never blocks
// the caller: if the hub is draining or stopped the event is dropped.
func (h *Hub) Publish(guildID, event string, payload interface{}) {
	data, err := json.Marshal(Envelope{
		GuildID:   guildID,
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("ERROR [Hub.Publish] marshal %s: %v", event, err)
		return
	}

	select {
	case h.events <- broadcast{guildID: guildID, data: data}:
	case <-h.done:
	default:
		log.Printf("ERROR [Hub.Publish] event queue full, dropping %s for guild %s", event, guildID)
	}
}

// Stop gracefully shuts down the hub.
func (h *Hub) Stop() {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}
	close(h.stop)
	<-h.done
}

// Register queues a client for registration.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister queues a client for removal.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
