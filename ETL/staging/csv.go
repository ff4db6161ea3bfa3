package staging

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

// DecodeCSV разбирает CSV с заголовком в список записей.
// Пустые ячейки опускаются, чтобы отсутствующее значение не отличалось от отсутствующей колонки.
func DecodeCSV(data []byte) ([]Record, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения заголовка: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(headers[i], "\ufeff"))
	}

	var out []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения строки: %w", err)
		}

		rec := make(Record, len(headers))
		for i, value := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			if strings.TrimSpace(value) == "" {
				continue
			}
			rec[headers[i]] = value
		}
		out = append(out, rec)
	}
	return out, nil
}

// EncodeCSV записывает записи в CSV. Колонки: columns, если задан, иначе
// объединение ключей всех записей в алфавитном порядке.
func EncodeCSV(records []Record, columns []string) ([]byte, error) {
	if len(columns) == 0 {
		seen := map[string]struct{}{}
		for _, rec := range records {
			for k := range rec {
				if _, ok := seen[k]; !ok {
					seen[k] = struct{}{}
					columns = append(columns, k)
				}
			}
		}
		sort.Strings(columns)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = rec[col]
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("ошибка записи CSV: %w", err)
	}
	return buf.Bytes(), nil
}
