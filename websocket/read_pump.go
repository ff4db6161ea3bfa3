// websocket/read_pump.go
package websocket

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// readPump держит соединение открытым и обрабатывает pong-кадры.
// Лента только отправляет данные, входящие сообщения игнорируются.
func (c *Client) readPump(manager *Manager) {
	defer func() {
		// Отправляем сигнал отключения, если менеджер еще работает
		select {
		case manager.Unregister <- c:
		case <-manager.done:
		}
		c.Socket.Close()
	}()

	// Устанавливаем параметры подключения
	c.Socket.SetReadLimit(maxMessageSize)
	c.Socket.SetReadDeadline(time.Now().Add(pongWait))
	c.Socket.SetPongHandler(func(string) error {
		c.Socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Socket.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Ошибка соединения клиента %s: %v", c.ID, err)
			}
			return
		}
	}
}
