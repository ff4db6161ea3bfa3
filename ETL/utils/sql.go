package utils

import (
	"strconv"
	"strings"
)

// Поддерживаемые драйверы операционной БД
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
)

// Rebind переписывает плейсхолдеры "?" в "$1, $2, ..." для PostgreSQL
func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Placeholders возвращает строку вида "(?, ?, ?)" для n колонок
func Placeholders(n int) string {
	if n <= 0 {
		return "()"
	}
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}

// QuoteIdent экранирует имя таблицы или колонки для указанного драйвера
func QuoteIdent(driver, ident string) string {
	if driver == DriverMySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
