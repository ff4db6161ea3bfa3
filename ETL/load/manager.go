package load

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// LoadReport - итог записи витрины
type LoadReport struct {
	Written []string
	Failed  map[string]error
	Rows    map[string]int
}

// Err объединяет ошибки отдельных таблиц
func (r LoadReport) Err() error {
	var errs []error
	for _, t := range AllMartTables {
		if err, ok := r.Failed[t.Name]; ok {
			errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
		}
	}
	return errors.Join(errs...)
}

// LoadManager отвечает за запись построенных таблиц в витрину
type LoadManager struct {
	store  MartStore
	logger *utils.ETLLogger
}

// NewLoadManager создает новый экземпляр LoadManager
func NewLoadManager(store MartStore, logger *utils.ETLLogger) *LoadManager {
	return &LoadManager{
		store:  store,
		logger: logger,
	}
}

// Load выполняет фазу загрузки. Измерения полностью заменяются,
// факты дописываются. Ошибка одной таблицы не останавливает запись остальных.
func (m *LoadManager) Load(ctx context.Context, tables *models.MartTables) LoadReport {
	startTime := time.Now()
	m.logger.Info("Начало фазы Load (Загрузка данных)")

	report := LoadReport{
		Failed: make(map[string]error),
		Rows:   make(map[string]int),
	}

	for _, b := range Batches(tables) {
		var err error
		if b.Table.Dimension {
			err = m.store.ReplaceAll(ctx, b.Table.Name, b.Table.ColumnNames(), b.Rows)
		} else {
			err = m.store.Append(ctx, b.Table.Name, b.Table.ColumnNames(), b.Rows)
		}
		if err != nil {
			m.logger.Error("Ошибка при загрузке %s: %v", b.Table.Name, err)
			report.Failed[b.Table.Name] = err
			continue
		}
		report.Written = append(report.Written, b.Table.Name)
		report.Rows[b.Table.Name] = len(b.Rows)
		m.logger.Info("Таблица %s: %d строк", b.Table.Name, len(b.Rows))
	}

	m.logger.Info("Фаза Load завершена. Таблиц записано: %d, с ошибками: %d. Длительность: %v",
		len(report.Written), len(report.Failed), time.Since(startTime))
	return report
}
