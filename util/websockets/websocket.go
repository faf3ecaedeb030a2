package websockets

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocketManager struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (manager *WebSocketManager) Run() {
	for {
		select {
		case conn := <-manager.register:
			manager.clients[conn] = true
		case conn := <-manager.unregister:
			if _, ok := manager.clients[conn]; ok {
				delete(manager.clients, conn)
				conn.Close()
			}
		case message := <-manager.broadcast:
			for conn := range manager.clients {
				err := conn.WriteMessage(websocket.TextMessage, message)
				if err != nil {
					conn.Close()
					delete(manager.clients, conn)
				}
			}
		}
	}
}

func (manager *WebSocketManager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	manager.register <- conn

	go func() {
		defer func() {
			manager.unregister <- conn
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// LocationDeleted announces a cascade delete so clients can drop
// markers for a place that no longer exists.
func (manager *WebSocketManager) LocationDeleted(locationID int64, placeID string) {
	manager.publish(Event{
		Type:       EventLocationDeleted,
		LocationID: locationID,
		PlaceID:    placeID,
		At:         time.Now().UTC(),
	})
}

// SaveRemoved announces a detach; the shared location survives.
func (manager *WebSocketManager) SaveRemoved(saveID, locationID int64) {
	manager.publish(Event{
		Type:       EventSaveRemoved,
		SaveID:     saveID,
		LocationID: locationID,
		At:         time.Now().UTC(),
	})
}

func (manager *WebSocketManager) publish(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Println("failed to marshal websocket event", err)
		return
	}
	// Drop the event if the broadcaster is saturated; lifecycle
	// operations must never block on slow websocket clients.
	select {
	case manager.broadcast <- message:
	default:
	}
}
