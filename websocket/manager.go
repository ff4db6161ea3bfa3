// websocket/manager.go
package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/LilVoxy/tourism_etl/ETL/models"
)

// NewManager создает менеджер ленты запусков, опрашивающий runs раз в pollInterval
func NewManager(runs RunSource, pollInterval time.Duration) *Manager {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Manager{
		Broadcast:    make(chan []byte),
		Register:     make(chan *Client),
		Unregister:   make(chan *Client),
		done:         make(chan struct{}),
		Clients:      make(map[string]*Client),
		runs:         runs,
		pollInterval: pollInterval,
	}
}

// Run запускает работу менеджера до отмены ctx
func (manager *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(manager.pollInterval)
	defer ticker.Stop()
	defer close(manager.done)

	manager.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			for id, client := range manager.Clients {
				close(client.Send)
				delete(manager.Clients, id)
			}
			return

		case client := <-manager.Register:
			manager.Clients[client.ID] = client
			log.Printf("👤 Клиент %s подписался на ленту запусков", client.ID)

			// Новый клиент сразу получает последний известный запуск
			if manager.lastPayload != nil {
				manager.send(client, manager.lastPayload)
			}

		case client := <-manager.Unregister:
			if _, ok := manager.Clients[client.ID]; ok {
				delete(manager.Clients, client.ID)
				close(client.Send)
				log.Printf("👤 Клиент %s отключился", client.ID)
			}

		case message := <-manager.Broadcast:
			// Рассылаем сообщение всем подключенным клиентам
			manager.broadcast(message)

		case <-ticker.C:
			manager.poll(ctx)
		}
	}
}

// Notify рассылает событие всем клиентам ленты
func (manager *Manager) Notify(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ Ошибка при кодировании JSON: %v", err)
		return
	}
	select {
	case manager.Broadcast <- data:
	case <-manager.done:
	}
}

// poll читает последний запуск и рассылает его, если он изменился
func (manager *Manager) poll(ctx context.Context) {
	runs, err := manager.runs.GetRecentRuns(ctx, 1)
	if err != nil {
		log.Printf("❌ Ошибка чтения журнала запусков: %v", err)
		return
	}
	if len(runs) == 0 {
		return
	}

	latest := runs[0]
	if !runChanged(manager.lastRun, &latest) {
		return
	}

	data, err := json.Marshal(Message{Type: "run", Run: &latest})
	if err != nil {
		log.Printf("❌ Ошибка при кодировании JSON: %v", err)
		return
	}
	manager.lastRun = &latest
	manager.lastPayload = data
	manager.broadcast(data)
}

func runChanged(prev, next *models.ETLRunLog) bool {
	if prev == nil {
		return true
	}
	return prev.ID != next.ID || prev.Status != next.Status || !prev.EndTime.Equal(next.EndTime)
}

// broadcast отправляет сообщение всем подключенным клиентам
func (manager *Manager) broadcast(message []byte) {
	for _, client := range manager.Clients {
		manager.send(client, message)
	}
}

// send ставит сообщение в очередь клиента; медленный клиент отключается
func (manager *Manager) send(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		close(client.Send)
		delete(manager.Clients, client.ID)
	}
}
