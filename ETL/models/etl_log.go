package models

import (
	"context"
	"time"
)

// Статусы запуска ETL
const (
	RunStatusInProgress = "in_progress"
	RunStatusSuccess    = "success"
	RunStatusPartial    = "partial"
	RunStatusFailed     = "failed"
)

// ETLRunLog представляет запись о запуске ETL процесса
type ETLRunLog struct {
	ID                   int       `json:"id"`
	RunID                string    `json:"run_id"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Status               string    `json:"status"` // "success", "partial", "failed", "in_progress"
	PlacesInserted       int       `json:"places_inserted"`
	ReviewsInserted      int       `json:"reviews_inserted"`
	TweetsInserted       int       `json:"tweets_inserted"`
	IncomeInserted       int       `json:"income_inserted"`
	ExpenseInserted      int       `json:"expense_inserted"`
	MartTablesWritten    int       `json:"mart_tables_written"`
	MartTablesFailed     int       `json:"mart_tables_failed"`
	ErrorMessage         string    `json:"error_message,omitempty"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
}

// TotalInserted возвращает общее число строк, добавленных в операционную БД
func (l ETLRunLog) TotalInserted() int {
	return l.PlacesInserted + l.ReviewsInserted + l.TweetsInserted + l.IncomeInserted + l.ExpenseInserted
}

// ETLLogRepository представляет репозиторий для работы с журналом запусков ETL
type ETLLogRepository interface {
	// CreateETLLogTable создает таблицу журнала, если она не существует
	CreateETLLogTable(ctx context.Context) error

	// CreateLogEntry создает новую запись о запуске ETL
	CreateLogEntry(ctx context.Context, runID string, startTime time.Time) (int, error)

	// UpdateLogEntry фиксирует итог запуска
	UpdateLogEntry(ctx context.Context, runLog *ETLRunLog) error

	// GetRecentRuns возвращает последние запуски, начиная с самого свежего
	GetRecentRuns(ctx context.Context, limit int) ([]ETLRunLog, error)

	// GetETLStateMonitor собирает сводку о запусках за период
	GetETLStateMonitor(ctx context.Context, days int) (*ETLStateMonitor, error)
}

// ETLStateMonitor предоставляет информацию о текущем состоянии ETL процесса
type ETLStateMonitor struct {
	LastSuccessfulRun       *ETLRunLog `json:"last_successful_run"`
	LastFailedRun           *ETLRunLog `json:"last_failed_run,omitempty"`
	CurrentRun              *ETLRunLog `json:"current_run,omitempty"`
	TotalSuccessfulRuns     int        `json:"total_successful_runs"`
	TotalPartialRuns        int        `json:"total_partial_runs"`
	TotalFailedRuns         int        `json:"total_failed_runs"`
	AvgExecutionTimeSeconds float64    `json:"avg_execution_time_seconds"`
	TotalRowsInserted       int        `json:"total_rows_inserted"`
}
