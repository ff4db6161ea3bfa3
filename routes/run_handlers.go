// routes/run_handlers.go
package routes

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/LilVoxy/tourism_etl/ETL/models"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
	defaultStatsDays = 7
)

// RunJournal - журнал запусков ETL глазами API
type RunJournal interface {
	GetRecentRuns(ctx context.Context, limit int) ([]models.ETLRunLog, error)
	GetETLStateMonitor(ctx context.Context, days int) (*models.ETLStateMonitor, error)
}

// RunsResponse структура ответа API для списка запусков
type RunsResponse struct {
	Runs []models.ETLRunLog `json:"runs"`
}

// GetRunsHandler возвращает последние запуски ETL
func GetRunsHandler(journal RunJournal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := intParam(w, r, "limit", defaultRunsLimit)
		if !ok {
			return
		}
		if limit > maxRunsLimit {
			limit = maxRunsLimit
		}

		runs, err := journal.GetRecentRuns(r.Context(), limit)
		if err != nil {
			log.Printf("❌ Ошибка при запросе журнала запусков: %v", err)
			http.Error(w, "Ошибка при получении журнала запусков", http.StatusInternalServerError)
			return
		}
		if runs == nil {
			runs = []models.ETLRunLog{}
		}

		writeJSON(w, RunsResponse{Runs: runs})
	}
}

// GetStatsHandler возвращает сводку о запусках за days дней
func GetStatsHandler(journal RunJournal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, ok := intParam(w, r, "days", defaultStatsDays)
		if !ok {
			return
		}

		monitor, err := journal.GetETLStateMonitor(r.Context(), days)
		if err != nil {
			log.Printf("❌ Ошибка при получении статистики запусков: %v", err)
			http.Error(w, "Ошибка при получении статистики запусков", http.StatusInternalServerError)
			return
		}

		writeJSON(w, monitor)
	}
}

// intParam читает положительный целый параметр запроса; при ошибке отвечает 400
func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		http.Error(w, "Неверное значение параметра "+name, http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Ошибка при кодировании JSON: %v", err)
	}
}
