package load

import (
	"context"
)

// MartStore - аналитическое хранилище с двумя разными примитивами записи
type MartStore interface {
	// ReplaceAll полностью заменяет содержимое таблицы (измерения)
	ReplaceAll(ctx context.Context, table string, columns []string, rows [][]any) error

	// Append дописывает строки без проверки дубликатов (факты)
	Append(ctx context.Context, table string, columns []string, rows [][]any) error
}
