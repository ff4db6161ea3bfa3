// routes/api_routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/LilVoxy/tourism_etl/middleware"
	"github.com/LilVoxy/tourism_etl/websocket"
)

// SetupRoutes настраивает все маршруты API и WebSocket
func SetupRoutes(router *mux.Router, journal RunJournal, stager RecordStager, wsManager *websocket.Manager) {
	// Применяем CORS middleware
	router.Use(middleware.CORSMiddleware)

	// Лента запусков ETL
	router.HandleFunc("/ws/runs", wsManager.HandleConnections)

	// API ручного ввода финансовых транзакций
	router.HandleFunc("/api/finance/income", StageIncomeHandler(stager, wsManager)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/finance/expense", StageExpenseHandler(stager, wsManager)).Methods("POST", "OPTIONS")

	// API журнала запусков
	router.HandleFunc("/api/etl/runs", GetRunsHandler(journal)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/etl/stats", GetStatsHandler(journal)).Methods("GET", "OPTIONS")

	// Статические файлы
	router.PathPrefix("/").Handler(http.FileServer(http.Dir("public")))
}
