package utils

import (
	"strconv"
	"strings"
	"time"
)

// Поддерживаемые форматы временных меток. Значения без зоны считаются UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp разбирает временную метку в формате ISO-8601 и возвращает ее в UTC.
// Второе значение false, если строка пуста или не распознана.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseUnixSeconds разбирает целое число секунд Unix
func ParseUnixSeconds(s string) (time.Time, bool) {
	sec, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}
