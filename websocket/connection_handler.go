// websocket/connection_handler.go
package websocket

import (
	"log"
	"net/http"

	"github.com/google/uuid"
)

// HandleConnections подключает клиента к ленте запусков
func (manager *Manager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	// Устанавливаем WebSocket-соединение
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Ошибка при установке WebSocket-соединения:", err)
		return
	}

	client := &Client{
		ID:     uuid.NewString(),
		Socket: conn,
		Send:   make(chan []byte, 16),
	}

	// Регистрируем клиента в менеджере
	select {
	case manager.Register <- client:
	case <-manager.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(manager)
}
