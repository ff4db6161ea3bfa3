package operational

import (
	"context"
	"errors"
	"fmt"

	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// Merge добавляет в таблицу только записи с новыми ключами и возвращает их количество.
// Дубликаты внутри пакета отбрасываются, побеждает первое вхождение.
// Повторное слияние того же пакета ничего не добавляет.
func Merge[T any](ctx context.Context, store KeyStore, table Table[T], batch []T) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	seen := make(map[string]struct{}, len(batch))
	unique := make([]T, 0, len(batch))
	for _, item := range batch {
		k := table.Key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, item)
	}

	existing, err := store.ExistingKeys(ctx, table.Name, table.KeyColumn)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", table.Name, err)
	}

	rows := make([][]any, 0, len(unique))
	for _, item := range unique {
		if _, ok := existing[table.Key(item)]; ok {
			continue
		}
		rows = append(rows, table.Values(item))
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if err := store.Append(ctx, table.Name, table.ColumnNames(), rows); err != nil {
		return 0, fmt.Errorf("%s: %w", table.Name, err)
	}
	return len(rows), nil
}

// MergeReport - итог слияния всех сущностей
type MergeReport struct {
	Inserted map[string]int
	Errors   []error
}

// Total возвращает общее количество добавленных строк
func (r MergeReport) Total() int {
	total := 0
	for _, n := range r.Inserted {
		total += n
	}
	return total
}

// Err объединяет ошибки отдельных таблиц
func (r MergeReport) Err() error {
	return errors.Join(r.Errors...)
}

// MergeAll сливает все пять сущностей независимо друг от друга:
// ошибка одной таблицы логируется и не мешает остальным
func MergeAll(ctx context.Context, store KeyStore, staged *models.StagedData, logger *utils.ETLLogger) MergeReport {
	report := MergeReport{Inserted: make(map[string]int)}

	record := func(table string, n int, err error) {
		if err != nil {
			logger.Error("Ошибка слияния таблицы %s: %v", table, err)
			report.Errors = append(report.Errors, err)
			return
		}
		report.Inserted[table] = n
		if n > 0 {
			logger.Info("Добавлено %d новых записей в %s", n, table)
		} else {
			logger.Info("Нет новых записей для %s", table)
		}
	}

	n, err := Merge(ctx, store, PlacesTable, staged.Places)
	record(PlacesTable.Name, n, err)

	n, err = Merge(ctx, store, ReviewsTable, staged.Reviews)
	record(ReviewsTable.Name, n, err)

	n, err = Merge(ctx, store, TweetsTable, staged.Tweets)
	record(TweetsTable.Name, n, err)

	n, err = Merge(ctx, store, IncomeTable, staged.Incomes)
	record(IncomeTable.Name, n, err)

	n, err = Merge(ctx, store, ExpenseTable, staged.Expenses)
	record(ExpenseTable.Name, n, err)

	return report
}
