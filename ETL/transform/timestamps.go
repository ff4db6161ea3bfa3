package transform

import (
	"database/sql"
	"time"

	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// parseInstant разбирает временную метку операционной таблицы
func parseInstant(v sql.NullString) (time.Time, bool) {
	if !v.Valid {
		return time.Time{}, false
	}
	return utils.ParseTimestamp(v.String)
}

// present сообщает, что обязательное текстовое поле заполнено
func present(v sql.NullString) bool {
	return v.Valid && v.String != ""
}

// filled сообщает, что все текстовые поля строки измерения заполнены
func filled(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return false
		}
	}
	return true
}
