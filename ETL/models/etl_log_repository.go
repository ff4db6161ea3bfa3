package models

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// SQLETLLogRepository реализация ETLLogRepository для MySQL и PostgreSQL
type SQLETLLogRepository struct {
	db     *sql.DB
	driver string
}

// NewSQLETLLogRepository создает новый экземпляр SQLETLLogRepository
func NewSQLETLLogRepository(db *sql.DB, driver string) *SQLETLLogRepository {
	return &SQLETLLogRepository{
		db:     db,
		driver: driver,
	}
}

const runColumns = `id, run_id, start_time, end_time, status,
		places_inserted, reviews_inserted, tweets_inserted, income_inserted, expense_inserted,
		mart_tables_written, mart_tables_failed, COALESCE(error_message, ''), COALESCE(execution_time_seconds, 0)`

// ETLLogTableSQL возвращает DDL таблицы журнала для драйвера
func ETLLogTableSQL(driver string) string {
	id := "id INT AUTO_INCREMENT PRIMARY KEY"
	if driver == utils.DriverPostgres {
		id = "id SERIAL PRIMARY KEY"
	}
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS etl_run_log (
		%s,
		run_id VARCHAR(64) NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'in_progress',
		places_inserted INT DEFAULT 0,
		reviews_inserted INT DEFAULT 0,
		tweets_inserted INT DEFAULT 0,
		income_inserted INT DEFAULT 0,
		expense_inserted INT DEFAULT 0,
		mart_tables_written INT DEFAULT 0,
		mart_tables_failed INT DEFAULT 0,
		error_message TEXT,
		execution_time_seconds DOUBLE PRECISION
	)`, id)
}

// CreateETLLogTable создает таблицу для логирования ETL процесса, если она не существует
func (r *SQLETLLogRepository) CreateETLLogTable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, ETLLogTableSQL(r.driver)); err != nil {
		return fmt.Errorf("ошибка при создании таблицы etl_run_log: %w", err)
	}
	return nil
}

// CreateLogEntry создает новую запись о запуске ETL
func (r *SQLETLLogRepository) CreateLogEntry(ctx context.Context, runID string, startTime time.Time) (int, error) {
	query := `INSERT INTO etl_run_log (run_id, start_time, status) VALUES (?, ?, 'in_progress')`

	if r.driver == utils.DriverPostgres {
		var id int
		err := r.db.QueryRowContext(ctx, utils.Rebind(r.driver, query+" RETURNING id"), runID, startTime.UTC()).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("ошибка при создании записи о запуске ETL: %w", err)
		}
		return id, nil
	}

	result, err := r.db.ExecContext(ctx, query, runID, startTime.UTC())
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании записи о запуске ETL: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении ID созданной записи: %w", err)
	}
	return int(id), nil
}

// UpdateLogEntry фиксирует итог запуска
func (r *SQLETLLogRepository) UpdateLogEntry(ctx context.Context, runLog *ETLRunLog) error {
	query := `
	UPDATE etl_run_log
	SET
		end_time = ?,
		status = ?,
		places_inserted = ?,
		reviews_inserted = ?,
		tweets_inserted = ?,
		income_inserted = ?,
		expense_inserted = ?,
		mart_tables_written = ?,
		mart_tables_failed = ?,
		error_message = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	var errorMessage sql.NullString
	if runLog.ErrorMessage != "" {
		errorMessage = sql.NullString{String: runLog.ErrorMessage, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, utils.Rebind(r.driver, query),
		runLog.EndTime.UTC(),
		runLog.Status,
		runLog.PlacesInserted,
		runLog.ReviewsInserted,
		runLog.TweetsInserted,
		runLog.IncomeInserted,
		runLog.ExpenseInserted,
		runLog.MartTablesWritten,
		runLog.MartTablesFailed,
		errorMessage,
		runLog.ExecutionTimeSeconds,
		runLog.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске ETL: %w", err)
	}
	return nil
}

// GetRecentRuns возвращает последние limit запусков, начиная с самого свежего
func (r *SQLETLLogRepository) GetRecentRuns(ctx context.Context, limit int) ([]ETLRunLog, error) {
	query := fmt.Sprintf("SELECT %s FROM etl_run_log ORDER BY start_time DESC LIMIT ?", runColumns)
	return r.queryRuns(ctx, query, limit)
}

// GetETLStateMonitor собирает сводку о запусках за последние days дней
func (r *SQLETLLogRepository) GetETLStateMonitor(ctx context.Context, days int) (*ETLStateMonitor, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	query := fmt.Sprintf("SELECT %s FROM etl_run_log WHERE start_time >= ? ORDER BY start_time DESC", runColumns)

	runs, err := r.queryRuns(ctx, query, since)
	if err != nil {
		return nil, err
	}
	return SummarizeRuns(runs), nil
}

func (r *SQLETLLogRepository) queryRuns(ctx context.Context, query string, args ...any) ([]ETLRunLog, error) {
	rows, err := r.db.QueryContext(ctx, utils.Rebind(r.driver, query), args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении запусков ETL: %w", err)
	}
	defer rows.Close()

	var logs []ETLRunLog
	for rows.Next() {
		var log ETLRunLog
		var endTime sql.NullTime
		err := rows.Scan(
			&log.ID, &log.RunID, &log.StartTime, &endTime, &log.Status,
			&log.PlacesInserted, &log.ReviewsInserted, &log.TweetsInserted, &log.IncomeInserted, &log.ExpenseInserted,
			&log.MartTablesWritten, &log.MartTablesFailed, &log.ErrorMessage, &log.ExecutionTimeSeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании записи о запуске ETL: %w", err)
		}
		if endTime.Valid {
			log.EndTime = endTime.Time
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по записям о запусках ETL: %w", err)
	}
	return logs, nil
}

// SummarizeRuns строит сводку по запускам, отсортированным от нового к старому
func SummarizeRuns(runs []ETLRunLog) *ETLStateMonitor {
	monitor := &ETLStateMonitor{}
	var totalTime float64

	for i := range runs {
		run := &runs[i]
		switch run.Status {
		case RunStatusSuccess:
			if monitor.LastSuccessfulRun == nil {
				monitor.LastSuccessfulRun = run
			}
			monitor.TotalSuccessfulRuns++
			totalTime += run.ExecutionTimeSeconds
		case RunStatusPartial:
			monitor.TotalPartialRuns++
		case RunStatusFailed:
			if monitor.LastFailedRun == nil {
				monitor.LastFailedRun = run
			}
			monitor.TotalFailedRuns++
		case RunStatusInProgress:
			if monitor.CurrentRun == nil {
				monitor.CurrentRun = run
			}
		}
		if run.Status != RunStatusInProgress {
			monitor.TotalRowsInserted += run.TotalInserted()
		}
	}

	if monitor.TotalSuccessfulRuns > 0 {
		monitor.AvgExecutionTimeSeconds = totalTime / float64(monitor.TotalSuccessfulRuns)
	}
	return monitor
}
