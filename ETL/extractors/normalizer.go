package extractors

import (
	"strings"

	"github.com/LilVoxy/tourism_etl/ETL/staging"
)

// ColumnMapping описывает приведение исходных колонок к каноническим именам
type ColumnMapping struct {
	// Renames: исходное имя -> каноническое имя
	Renames map[string]string
	// Keep - канонические колонки, которые остаются в записи; остальные отбрасываются
	Keep []string
}

// Normalize приводит записи к каноническому виду: переименовывает колонки,
// отбрасывает неизвестные и пустые значения. Отсутствующие колонки остаются отсутствующими.
// Если заполнены и исходная, и каноническая колонка, побеждает каноническая.
func Normalize(records []staging.Record, m ColumnMapping) []staging.Record {
	keep := make(map[string]struct{}, len(m.Keep))
	for _, col := range m.Keep {
		keep[col] = struct{}{}
	}

	out := make([]staging.Record, 0, len(records))
	for _, rec := range records {
		norm := make(staging.Record, len(m.Keep))

		for col, value := range rec {
			if strings.TrimSpace(value) == "" {
				continue
			}
			if _, renamed := m.Renames[col]; renamed {
				continue
			}
			if _, ok := keep[col]; ok {
				norm[col] = value
			}
		}

		for from, to := range m.Renames {
			value := strings.TrimSpace(rec[from])
			if value == "" {
				continue
			}
			if _, ok := keep[to]; !ok {
				continue
			}
			if _, exists := norm[to]; !exists {
				norm[to] = rec[from]
			}
		}

		out = append(out, norm)
	}
	return out
}
