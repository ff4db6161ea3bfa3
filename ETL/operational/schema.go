package operational

import (
	"fmt"
	"strings"

	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// mysqlKeyLength - самый длинный VARCHAR utf8mb4, который InnoDB еще индексирует (3072 байта)
const mysqlKeyLength = 768

// sqlType возвращает тип колонки для драйвера. Ключ в PostgreSQL - TEXT без ограничения длины,
// в MySQL TEXT не может быть первичным ключом целиком, поэтому VARCHAR(768).
func sqlType(driver string, t ColumnType) string {
	switch t {
	case TypeKey:
		if driver == utils.DriverMySQL {
			return fmt.Sprintf("VARCHAR(%d) NOT NULL PRIMARY KEY", mysqlKeyLength)
		}
		return "TEXT NOT NULL PRIMARY KEY"
	case TypeFloat:
		return "DOUBLE PRECISION"
	case TypeInt:
		return "BIGINT"
	case TypeBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// CreateTableSQL формирует идемпотентный CREATE TABLE для операционной таблицы
func CreateTableSQL(driver string, def TableDef) string {
	cols := make([]string, len(def.Columns))
	for i, c := range def.Columns {
		cols[i] = fmt.Sprintf("\t%s %s", utils.QuoteIdent(driver, c.Name), sqlType(driver, c.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)",
		utils.QuoteIdent(driver, def.Name), strings.Join(cols, ",\n"))
}
