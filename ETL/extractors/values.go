package extractors

import (
	"database/sql"
	"math"
	"strconv"
	"strings"

	"github.com/LilVoxy/tourism_etl/ETL/staging"
)

// Нераспознанное значение превращается в NULL, а не в ошибку:
// такие записи потом отсекает фильтр построителя витрины.

func nullString(rec staging.Record, col string) sql.NullString {
	v := strings.TrimSpace(rec[col])
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func nullFloat(rec staging.Record, col string) sql.NullFloat64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// nullInt принимает и "42", и "42.0": CSV, выгруженный из таблиц с пропусками,
// часто хранит целые как числа с плавающей точкой
func nullInt(rec staging.Record, col string) sql.NullInt64 {
	v := strings.TrimSpace(rec[col])
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return sql.NullInt64{Int64: n, Valid: true}
	}
	f, err := strconv.ParseFloat(v, 64)
	// float64(math.MaxInt64) равен 2^63 и в int64 уже не помещается
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(f), Valid: true}
}

func nullBool(rec staging.Record, col string) sql.NullBool {
	switch strings.ToLower(strings.TrimSpace(rec[col])) {
	case "true", "1", "yes":
		return sql.NullBool{Bool: true, Valid: true}
	case "false", "0", "no":
		return sql.NullBool{Bool: false, Valid: true}
	}
	return sql.NullBool{}
}

func key(rec staging.Record, col string) string {
	return strings.TrimSpace(rec[col])
}
