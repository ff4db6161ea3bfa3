package operational

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// KeyStore - то, что нужно слиянию от операционного хранилища
type KeyStore interface {
	// ExistingKeys возвращает множество ключей, уже сохраненных в таблице
	ExistingKeys(ctx context.Context, table, keyColumn string) (map[string]struct{}, error)
	// Append добавляет строки; значения в каждой строке идут в порядке columns
	Append(ctx context.Context, table string, columns []string, rows [][]any) error
}

// RowScanner - строка результата запроса
type RowScanner interface {
	Scan(dest ...any) error
}

// Reader читает все строки таблицы в порядке колонки orderBy
type Reader interface {
	ReadRows(ctx context.Context, table string, columns []string, orderBy string, fn func(RowScanner) error) error
}

// Store - операционное хранилище поверх MySQL или PostgreSQL
type Store struct {
	db        *sql.DB
	driver    string
	batchSize int
	logger    *utils.ETLLogger
}

// NewStore создает новый экземпляр Store
func NewStore(db *sql.DB, driver string, batchSize int, logger *utils.ETLLogger) *Store {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Store{
		db:        db,
		driver:    driver,
		batchSize: batchSize,
		logger:    logger,
	}
}

// CreateSchema создает операционные таблицы, если их нет
func (s *Store) CreateSchema(ctx context.Context) error {
	for _, def := range AllTables {
		if _, err := s.db.ExecContext(ctx, CreateTableSQL(s.driver, def)); err != nil {
			return fmt.Errorf("ошибка при создании таблицы %s: %w", def.Name, err)
		}
	}
	s.logger.Info("Схема операционной БД создана/проверена")
	return nil
}

// ExistingKeys возвращает множество ключей таблицы
func (s *Store) ExistingKeys(ctx context.Context, table, keyColumn string) (map[string]struct{}, error) {
	query := fmt.Sprintf("SELECT %s FROM %s",
		utils.QuoteIdent(s.driver, keyColumn), utils.QuoteIdent(s.driver, table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса ключей %s: %w", table, err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("ошибка чтения ключа %s: %w", table, err)
		}
		keys[k] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по ключам %s: %w", table, err)
	}
	return keys, nil
}

// Append добавляет строки в одной транзакции, многострочными INSERT по batchSize строк.
// При ошибке транзакция откатывается целиком.
func (s *Store) Append(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	startTime := time.Now()

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = utils.QuoteIdent(s.driver, c)
	}
	head := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", utils.QuoteIdent(s.driver, table), strings.Join(quoted, ", "))
	tuple := utils.Placeholders(len(columns))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	for start := 0; start < len(rows); start += s.batchSize {
		end := start + s.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		tuples := make([]string, len(batch))
		args := make([]any, 0, len(batch)*len(columns))
		for i, row := range batch {
			if len(row) != len(columns) {
				tx.Rollback()
				return fmt.Errorf("строка %d таблицы %s: %d значений при %d колонках", start+i, table, len(row), len(columns))
			}
			tuples[i] = tuple
			args = append(args, row...)
		}

		query := utils.Rebind(s.driver, head+strings.Join(tuples, ", "))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка вставки в %s: %w", table, err)
		}
		s.logger.Debug("Добавлено %d из %d строк в %s...", end, len(rows), table)
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	s.logger.Debug("Добавление в %s завершено: %d строк за %v", table, len(rows), time.Since(startTime))
	return nil
}

// ReadRows выполняет SELECT колонок таблицы и передает каждую строку в fn
func (s *Store) ReadRows(ctx context.Context, table string, columns []string, orderBy string, fn func(RowScanner) error) error {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = utils.QuoteIdent(s.driver, c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(quoted, ", "), utils.QuoteIdent(s.driver, table), utils.QuoteIdent(s.driver, orderBy))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("ошибка запроса %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return fmt.Errorf("ошибка чтения строки %s: %w", table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("ошибка после итерации по %s: %w", table, err)
	}
	return nil
}

// Snapshot читает полное содержимое операционных таблиц
func (s *Store) Snapshot(ctx context.Context) (*models.OperationalSnapshot, error) {
	return ReadSnapshot(ctx, s)
}

// ReadAll читает всю таблицу в порядке естественного ключа
func ReadAll[T any](ctx context.Context, r Reader, table Table[T]) ([]T, error) {
	var out []T
	err := r.ReadRows(ctx, table.Name, table.ColumnNames(), table.KeyColumn, func(row RowScanner) error {
		var item T
		if err := row.Scan(table.Fields(&item)...); err != nil {
			return err
		}
		out = append(out, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadSnapshot читает все пять операционных таблиц. Любая ошибка прерывает чтение:
// построение витрины по неполному снимку обрезало бы измерения.
func ReadSnapshot(ctx context.Context, r Reader) (*models.OperationalSnapshot, error) {
	var snap models.OperationalSnapshot
	var err error

	if snap.Places, err = ReadAll(ctx, r, PlacesTable); err != nil {
		return nil, err
	}
	if snap.Reviews, err = ReadAll(ctx, r, ReviewsTable); err != nil {
		return nil, err
	}
	if snap.Tweets, err = ReadAll(ctx, r, TweetsTable); err != nil {
		return nil, err
	}
	if snap.Incomes, err = ReadAll(ctx, r, IncomeTable); err != nil {
		return nil, err
	}
	if snap.Expenses, err = ReadAll(ctx, r, ExpenseTable); err != nil {
		return nil, err
	}
	return &snap, nil
}
