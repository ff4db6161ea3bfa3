package transform

import (
	"fmt"

	"github.com/LilVoxy/tourism_etl/ETL/models"
)

// ConflictPolicy определяет, какая версия атрибутов остается в измерении,
// если один ключ встречается с разными атрибутами
type ConflictPolicy string

const (
	// PolicyFirstSeen оставляет первое вхождение ключа
	PolicyFirstSeen ConflictPolicy = "first_seen"
	// PolicyLastSeen оставляет последнее вхождение ключа
	PolicyLastSeen ConflictPolicy = "last_seen"
)

// ParseConflictPolicy разбирает значение из конфигурации; пустое значение - first_seen
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch ConflictPolicy(s) {
	case "", PolicyFirstSeen:
		return PolicyFirstSeen, nil
	case PolicyLastSeen:
		return PolicyLastSeen, nil
	}
	return "", fmt.Errorf("неизвестная политика конфликтов измерений: %q", s)
}

// dedupe оставляет одну строку на ключ, сохраняя позицию первого вхождения.
// Какая версия атрибутов побеждает, решает policy; каждое расхождение
// атрибутов записывается в conflicts.
func dedupe[T comparable](table string, rows []T, key func(T) string, policy ConflictPolicy, conflicts *[]models.DimensionConflict) []T {
	index := make(map[string]int, len(rows))
	out := make([]T, 0, len(rows))

	for _, row := range rows {
		k := key(row)
		i, seen := index[k]
		if !seen {
			index[k] = len(out)
			out = append(out, row)
			continue
		}
		if out[i] == row {
			continue
		}

		kept, other := out[i], row
		if policy == PolicyLastSeen {
			kept, other = row, out[i]
			out[i] = row
		}
		*conflicts = append(*conflicts, models.DimensionConflict{
			Table: table,
			Key:   k,
			Kept:  fmt.Sprintf("%+v", kept),
			Other: fmt.Sprintf("%+v", other),
		})
	}
	return out
}

// dedupeValid сначала оставляет одну строку на ключ, затем исключает строки без
// обязательных полей. Ключ, чья оставшаяся версия неполна, в измерение не попадает,
// даже если в других строках он заполнен. Строки без ключа отбрасываются сразу.
// Второе значение - число отброшенных строк без ключа и исключенных ключей.
func dedupeValid[T comparable](table string, rows []T, key func(T) string, valid func(T) bool, policy ConflictPolicy, conflicts *[]models.DimensionConflict) ([]T, int) {
	dropped := 0
	keyed := make([]T, 0, len(rows))
	for _, row := range rows {
		if key(row) == "" {
			dropped++
			continue
		}
		keyed = append(keyed, row)
	}

	unique := dedupe(table, keyed, key, policy, conflicts)
	out := unique[:0]
	for _, row := range unique {
		if !valid(row) {
			dropped++
			continue
		}
		out = append(out, row)
	}
	return out, dropped
}
