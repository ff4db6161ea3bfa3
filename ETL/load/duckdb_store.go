package load

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// DuckDBStore - витрина данных в файле DuckDB
type DuckDBStore struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewDuckDBStore создает новый экземпляр DuckDBStore
func NewDuckDBStore(db *sql.DB, logger *utils.ETLLogger) *DuckDBStore {
	return &DuckDBStore{
		db:     db,
		logger: logger,
	}
}

// CreateSchema создает таблицы витрины, если их нет
func (s *DuckDBStore) CreateSchema(ctx context.Context) error {
	for _, t := range AllMartTables {
		if _, err := s.db.ExecContext(ctx, t.CreateSQL()); err != nil {
			return fmt.Errorf("ошибка при создании таблицы %s: %w", t.Name, err)
		}
	}
	s.logger.Info("Схема витрины создана/проверена")
	return nil
}

// ReplaceAll удаляет все строки таблицы и вставляет новые в одной транзакции
func (s *DuckDBStore) ReplaceAll(ctx context.Context, table string, columns []string, rows [][]any) error {
	return s.write(ctx, table, columns, rows, true)
}

// Append дописывает строки в одной транзакции
func (s *DuckDBStore) Append(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	return s.write(ctx, table, columns, rows, false)
}

// Count возвращает количество строк в таблице
func (s *DuckDBStore) Count(ctx context.Context, table string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quote(table)).Scan(&n)
	return n, err
}

func (s *DuckDBStore) write(ctx context.Context, table string, columns []string, rows [][]any, truncate bool) error {
	startTime := time.Now()

	query, types, err := insertSQL(table, columns)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	if truncate {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+quote(table)); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка очистки %s: %w", table, err)
		}
	}

	if len(rows) > 0 {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка при подготовке запроса: %w", err)
		}
		for i, row := range rows {
			args, err := textArgs(row, types)
			if err == nil {
				_, err = stmt.ExecContext(ctx, args...)
			}
			if err != nil {
				stmt.Close()
				tx.Rollback()
				return fmt.Errorf("ошибка вставки строки %d в %s: %w", i, table, err)
			}
		}
		stmt.Close()
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	s.logger.Debug("Таблица %s: записано %d строк за %v", table, len(rows), time.Since(startTime))
	return nil
}

// insertSQL строит INSERT, в котором каждый параметр передается текстом
// и приводится к типу колонки на стороне DuckDB
func insertSQL(table string, columns []string) (string, []string, error) {
	def, ok := LookupMartTable(table)
	if !ok {
		return "", nil, fmt.Errorf("неизвестная таблица витрины: %s", table)
	}
	byName := make(map[string]string, len(def.Columns))
	for _, c := range def.Columns {
		byName[c.Name] = c.Type
	}

	quoted := make([]string, len(columns))
	params := make([]string, len(columns))
	types := make([]string, len(columns))
	for i, c := range columns {
		t, ok := byName[c]
		if !ok {
			return "", nil, fmt.Errorf("колонка %s отсутствует в таблице %s", c, table)
		}
		quoted[i] = quote(c)
		params[i] = fmt.Sprintf("CAST(CAST(? AS VARCHAR) AS %s)", t)
		types[i] = t
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(table), strings.Join(quoted, ", "), strings.Join(params, ", "))
	return query, types, nil
}

// textArgs переводит значения строки в текст, который DuckDB приводит к типу колонки
func textArgs(row []any, types []string) ([]any, error) {
	if len(row) != len(types) {
		return nil, fmt.Errorf("%d значений при %d колонках", len(row), len(types))
	}
	args := make([]any, len(row))
	for i, v := range row {
		text, err := toText(v, types[i])
		if err != nil {
			return nil, err
		}
		args[i] = text
	}
	return args, nil
}

func toText(v any, colType string) (any, error) {
	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil {
			return nil, err
		}
		v = dv
	}
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case time.Time:
		x = x.UTC()
		switch colType {
		case "DATE":
			return x.Format("2006-01-02"), nil
		case "TIME":
			return x.Format("15:04:05.999999"), nil
		}
		return x.Format("2006-01-02 15:04:05.999999"), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case bool:
		return strconv.FormatBool(x), nil
	}
	return nil, fmt.Errorf("неподдерживаемый тип значения %T", v)
}
