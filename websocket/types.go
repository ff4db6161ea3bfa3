// websocket/types.go
package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/LilVoxy/tourism_etl/ETL/models"
)

// Message - сообщение, отправляемое клиентам ленты запусков
type Message struct {
	Type   string            `json:"type"` // run или staged
	Run    *models.ETLRunLog `json:"run,omitempty"`
	Family string            `json:"family,omitempty"`
	Key    string            `json:"key,omitempty"`
}

// RunSource - источник последних запусков ETL
type RunSource interface {
	GetRecentRuns(ctx context.Context, limit int) ([]models.ETLRunLog, error)
}

// Клиент WebSocket
type Client struct {
	ID     string
	Socket *websocket.Conn
	Send   chan []byte
}

// Менеджер WebSocket-соединений
type Manager struct {
	Clients    map[string]*Client
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}

	runs         RunSource
	pollInterval time.Duration
	lastRun      *models.ETLRunLog
	lastPayload  []byte
}

// Конфигурация WebSocket-соединения
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Лента только читает журнал, источник не проверяется
	},
}
