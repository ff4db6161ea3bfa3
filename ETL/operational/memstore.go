package operational

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sort"
	"sync"

	"github.com/LilVoxy/tourism_etl/ETL/models"
)

// MemoryStore - операционное хранилище в памяти для тестов и пробных запусков
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string]*memTable

	// Ошибки, которые хранилище вернет вместо выполнения операции
	AppendErr map[string]error
	ReadErr   map[string]error
}

type memTable struct {
	columns []string
	rows    [][]any
}

// NewMemoryStore создает пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:    make(map[string]*memTable),
		AppendErr: make(map[string]error),
		ReadErr:   make(map[string]error),
	}
}

// ExistingKeys возвращает множество ключей таблицы
func (m *MemoryStore) ExistingKeys(ctx context.Context, table, keyColumn string) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ReadErr[table]; err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	t, ok := m.tables[table]
	if !ok {
		return keys, nil
	}
	idx, err := t.index(keyColumn)
	if err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		if k, ok := row[idx].(string); ok {
			keys[k] = struct{}{}
		}
	}
	return keys, nil
}

// Append добавляет строки целиком или не добавляет ничего
func (m *MemoryStore) Append(ctx context.Context, table string, columns []string, rows [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.AppendErr[table]; err != nil {
		return err
	}

	converted := make([][]any, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("строка %d таблицы %s: %d значений при %d колонках", i, table, len(row), len(columns))
		}
		values := make([]any, len(row))
		for j, v := range row {
			if valuer, ok := v.(driver.Valuer); ok {
				dv, err := valuer.Value()
				if err != nil {
					return err
				}
				v = dv
			}
			values[j] = v
		}
		converted = append(converted, values)
	}

	t, ok := m.tables[table]
	if !ok {
		t = &memTable{columns: append([]string(nil), columns...)}
		m.tables[table] = t
	}
	t.rows = append(t.rows, converted...)
	return nil
}

// ReadRows передает строки таблицы в fn, отсортировав их по колонке orderBy
func (m *MemoryStore) ReadRows(ctx context.Context, table string, columns []string, orderBy string, fn func(RowScanner) error) error {
	m.mu.Lock()
	if err := m.ReadErr[table]; err != nil {
		m.mu.Unlock()
		return err
	}
	t, ok := m.tables[table]
	if !ok {
		m.mu.Unlock()
		return nil
	}

	orderIdx, err := t.index(orderBy)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	projection := make([]int, len(columns))
	for i, c := range columns {
		if projection[i], err = t.index(c); err != nil {
			m.mu.Unlock()
			return err
		}
	}

	rows := make([][]any, len(t.rows))
	copy(rows, t.rows)
	m.mu.Unlock()

	sort.SliceStable(rows, func(i, j int) bool {
		return fmt.Sprint(rows[i][orderIdx]) < fmt.Sprint(rows[j][orderIdx])
	})

	for _, row := range rows {
		projected := make(memRow, len(projection))
		for i, idx := range projection {
			projected[i] = row[idx]
		}
		if err := fn(projected); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot читает полное содержимое операционных таблиц
func (m *MemoryStore) Snapshot(ctx context.Context) (*models.OperationalSnapshot, error) {
	return ReadSnapshot(ctx, m)
}

// Len возвращает количество строк в таблице
func (m *MemoryStore) Len(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[table]; ok {
		return len(t.rows)
	}
	return 0
}

func (t *memTable) index(column string) (int, error) {
	for i, c := range t.columns {
		if c == column {
			return i, nil
		}
	}
	return 0, fmt.Errorf("колонка %s не найдена", column)
}

type memRow []any

func (r memRow) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return fmt.Errorf("ожидалось %d колонок, передано %d", len(r), len(dest))
	}
	for i, d := range dest {
		switch d := d.(type) {
		case sql.Scanner:
			if err := d.Scan(r[i]); err != nil {
				return fmt.Errorf("колонка %d: %w", i, err)
			}
		case *string:
			s, ok := r[i].(string)
			if !ok {
				return fmt.Errorf("колонка %d: ожидалась строка, получено %T", i, r[i])
			}
			*d = s
		default:
			return fmt.Errorf("колонка %d: неподдерживаемый тип %T", i, d)
		}
	}
	return nil
}
