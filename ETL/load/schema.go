package load

import (
	"fmt"
	"strings"
)

// MartColumn описывает колонку таблицы витрины
type MartColumn struct {
	Name     string
	Type     string
	Nullable bool
}

// MartTable описывает таблицу витрины
type MartTable struct {
	Name      string
	Columns   []MartColumn
	Dimension bool
}

// ColumnNames возвращает имена колонок в порядке объявления
func (t MartTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// CreateSQL формирует идемпотентный CREATE TABLE
func (t MartTable) CreateSQL() string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		null := " NOT NULL"
		if c.Nullable {
			null = ""
		}
		cols[i] = fmt.Sprintf("\t%s %s%s", quote(c.Name), c.Type, null)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", quote(t.Name), strings.Join(cols, ",\n"))
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// Таблицы витрины. Первичные ключи не объявляются: измерения уникальны
// после дедупликации, а факты дописываются без проверки дубликатов.
var (
	DimTime = MartTable{Name: "dim_time", Dimension: true, Columns: []MartColumn{
		{Name: "timestamp_datetime", Type: "TIMESTAMP"},
		{Name: "jam", Type: "TIME"},
		{Name: "hari", Type: "VARCHAR"},
		{Name: "tanggal", Type: "DATE"},
		{Name: "bulan", Type: "VARCHAR"},
		{Name: "tahun", Type: "INTEGER"},
	}}

	DimPlace = MartTable{Name: "dim_place", Dimension: true, Columns: []MartColumn{
		{Name: "place_id", Type: "VARCHAR"},
		{Name: "nama_tempat", Type: "VARCHAR"},
		{Name: "latitude", Type: "DOUBLE"},
		{Name: "longitude", Type: "DOUBLE"},
		{Name: "tipe_tempat", Type: "VARCHAR"},
		{Name: "kontak", Type: "VARCHAR", Nullable: true},
		{Name: "jam_operasional", Type: "VARCHAR", Nullable: true},
	}}

	DimUser = MartTable{Name: "dim_user", Dimension: true, Columns: []MartColumn{
		{Name: "id_user", Type: "VARCHAR"},
		{Name: "lokasi_user", Type: "VARCHAR", Nullable: true},
	}}

	DimVendor = MartTable{Name: "dim_vendor", Dimension: true, Columns: []MartColumn{
		{Name: "id_vendor", Type: "VARCHAR"},
		{Name: "nama_vendor", Type: "VARCHAR"},
	}}

	DimDepartment = MartTable{Name: "dim_department", Dimension: true, Columns: []MartColumn{
		{Name: "id_departemen", Type: "VARCHAR"},
		{Name: "nama_departemen", Type: "VARCHAR"},
	}}

	DimProject = MartTable{Name: "dim_project", Dimension: true, Columns: []MartColumn{
		{Name: "id_proyek", Type: "VARCHAR"},
		{Name: "nama_proyek", Type: "VARCHAR"},
		{Name: "sektor_pariwisata", Type: "VARCHAR"},
	}}

	DimContributor = MartTable{Name: "dim_contributor", Dimension: true, Columns: []MartColumn{
		{Name: "id_penyumbang", Type: "VARCHAR"},
		{Name: "nama_penyumbang", Type: "VARCHAR"},
		{Name: "jenis_penyumbang", Type: "VARCHAR"},
	}}

	FactReview = MartTable{Name: "fact_review", Columns: []MartColumn{
		{Name: "id_review", Type: "VARCHAR"},
		{Name: "timestamp_datetime", Type: "TIMESTAMP"},
		{Name: "place_id", Type: "VARCHAR"},
		{Name: "author_url", Type: "VARCHAR"},
		{Name: "review_longtext", Type: "VARCHAR"},
		{Name: "rating", Type: "DOUBLE"},
	}}

	FactSocial = MartTable{Name: "fact_social", Columns: []MartColumn{
		{Name: "id_tweet", Type: "VARCHAR"},
		{Name: "created_at_datetime", Type: "TIMESTAMP"},
		{Name: "id_user", Type: "VARCHAR"},
		{Name: "nama_lokasi", Type: "VARCHAR"},
		{Name: "text_tweet", Type: "VARCHAR"},
	}}

	FactExpense = MartTable{Name: "fact_expense", Columns: []MartColumn{
		{Name: "id_transaksi", Type: "VARCHAR"},
		{Name: "timestamp_datetime", Type: "TIMESTAMP"},
		{Name: "jenis_kebutuhan", Type: "VARCHAR"},
		{Name: "id_vendor", Type: "VARCHAR"},
		{Name: "id_departemen", Type: "VARCHAR"},
		{Name: "jumlah_pengeluaran", Type: "DECIMAL(38,0)"},
		{Name: "bukti_pengeluaran", Type: "VARCHAR", Nullable: true},
		{Name: "id_proyek", Type: "VARCHAR"},
	}}

	FactIncome = MartTable{Name: "fact_income", Columns: []MartColumn{
		{Name: "id_transaksi_income", Type: "VARCHAR"},
		{Name: "timestamp_datetime", Type: "TIMESTAMP"},
		{Name: "jenis_pemasukan", Type: "VARCHAR"},
		{Name: "id_penyumbang", Type: "VARCHAR"},
		{Name: "jumlah_pemasukan", Type: "DECIMAL(38,0)"},
		{Name: "bukti_pemasukan", Type: "VARCHAR", Nullable: true},
		{Name: "id_proyek", Type: "VARCHAR"},
	}}
)

// AllMartTables перечисляет таблицы витрины: сначала измерения, затем факты
var AllMartTables = []MartTable{
	DimTime, DimPlace, DimUser, DimVendor, DimDepartment, DimProject, DimContributor,
	FactReview, FactSocial, FactExpense, FactIncome,
}

// LookupMartTable ищет описание таблицы по имени
func LookupMartTable(name string) (MartTable, bool) {
	for _, t := range AllMartTables {
		if t.Name == name {
			return t, true
		}
	}
	return MartTable{}, false
}
