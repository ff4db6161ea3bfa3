package load

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/shopspring/decimal"

	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

func openMart(t *testing.T) *DuckDBStore {
	t.Helper()
	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store := NewDuckDBStore(db, utils.NewNopLogger())
	if err := store.CreateSchema(context.Background()); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	return store
}

func sampleTables() *models.MartTables {
	ts := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	return &models.MartTables{
		Times: []models.TimeDimension{{
			TimestampDatetime: ts, TimeOfDay: "10:00:00", DayName: "Wednesday",
			Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Month: "2025-01", Year: 2025,
		}},
		Places: []models.PlaceDimension{{
			PlaceID: "P1", Name: "Pantai Kuta", Latitude: -8.7, Longitude: 115.1, PlaceType: "beach",
			Contact: sql.NullString{String: "0361", Valid: true},
		}},
		Vendors: []models.VendorDimension{{VendorID: "V1", VendorName: "Vendor"}},
		Expenses: []models.ExpenseFact{{
			TxnID: "E1", TimestampDatetime: ts, ExpenseNeed: "Sewa", VendorID: "V1",
			DepartmentID: "D1", Amount: decimal.NewFromInt(1500000), ProjectID: "PR1",
		}},
	}
}

func TestLoadWritesDimensionsAndFacts(t *testing.T) {
	ctx := context.Background()
	store := openMart(t)
	manager := NewLoadManager(store, utils.NewNopLogger())

	report := manager.Load(ctx, sampleTables())
	if err := report.Err(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(report.Written) != len(AllMartTables) {
		t.Fatalf("written got=%v", report.Written)
	}

	var jam, tanggal string
	if err := store.db.QueryRowContext(ctx,
		`SELECT CAST(jam AS VARCHAR), CAST(tanggal AS VARCHAR) FROM dim_time`).Scan(&jam, &tanggal); err != nil {
		t.Fatalf("select dim_time: %v", err)
	}
	if jam != "10:00:00" || tanggal != "2025-01-01" {
		t.Fatalf("dim_time got jam=%q tanggal=%q", jam, tanggal)
	}

	var amount string
	var proof sql.NullString
	if err := store.db.QueryRowContext(ctx,
		`SELECT CAST(jumlah_pengeluaran AS VARCHAR), bukti_pengeluaran FROM fact_expense`).Scan(&amount, &proof); err != nil {
		t.Fatalf("select fact_expense: %v", err)
	}
	if amount != "1500000" || proof.Valid {
		t.Fatalf("fact_expense got amount=%q proof=%v", amount, proof)
	}
}

func TestLoadTwiceReplacesDimensionsAndDuplicatesFacts(t *testing.T) {
	ctx := context.Background()
	store := openMart(t)
	manager := NewLoadManager(store, utils.NewNopLogger())

	for i := 0; i < 2; i++ {
		if err := manager.Load(ctx, sampleTables()).Err(); err != nil {
			t.Fatalf("Load #%d: %v", i, err)
		}
	}

	if n, err := store.Count(ctx, "dim_place"); err != nil || n != 1 {
		t.Fatalf("dim_place count=%d err=%v", n, err)
	}
	if n, err := store.Count(ctx, "fact_expense"); err != nil || n != 2 {
		t.Fatalf("fact_expense count=%d err=%v", n, err)
	}
}

func TestEmptyDimensionClearsTable(t *testing.T) {
	ctx := context.Background()
	store := openMart(t)
	manager := NewLoadManager(store, utils.NewNopLogger())

	if err := manager.Load(ctx, sampleTables()).Err(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := manager.Load(ctx, &models.MartTables{}).Err(); err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if n, _ := store.Count(ctx, "dim_vendor"); n != 0 {
		t.Fatalf("dim_vendor count=%d want=0", n)
	}
	if n, _ := store.Count(ctx, "fact_expense"); n != 1 {
		t.Fatalf("fact_expense count=%d want=1", n)
	}
}

type failingStore struct {
	fail   map[string]bool
	calls  []string
	tables map[string]int
}

func (f *failingStore) ReplaceAll(ctx context.Context, table string, columns []string, rows [][]any) error {
	return f.write("replace:"+table, table, rows)
}

func (f *failingStore) Append(ctx context.Context, table string, columns []string, rows [][]any) error {
	return f.write("append:"+table, table, rows)
}

func (f *failingStore) write(call, table string, rows [][]any) error {
	f.calls = append(f.calls, call)
	if f.fail[table] {
		return errors.New("disk full")
	}
	f.tables[table] = len(rows)
	return nil
}

func TestLoadIsolatesTableFailures(t *testing.T) {
	store := &failingStore{fail: map[string]bool{"dim_place": true}, tables: map[string]int{}}
	manager := NewLoadManager(store, utils.NewNopLogger())

	report := manager.Load(context.Background(), sampleTables())

	if len(store.calls) != len(AllMartTables) {
		t.Fatalf("calls got=%v", store.calls)
	}
	if store.calls[0] != "replace:dim_time" || store.calls[len(store.calls)-1] != "append:fact_income" {
		t.Fatalf("order got=%v", store.calls)
	}
	if _, ok := report.Failed["dim_place"]; !ok || len(report.Failed) != 1 {
		t.Fatalf("failed got=%v", report.Failed)
	}
	if err := report.Err(); err == nil || !strings.Contains(err.Error(), "dim_place: disk full") {
		t.Fatalf("err got=%v", err)
	}
	if report.Rows["fact_expense"] != 1 || store.tables["fact_expense"] != 1 {
		t.Fatalf("fact_expense rows got=%v", report.Rows)
	}
}

func TestInsertSQLRejectsUnknownColumn(t *testing.T) {
	if _, _, err := insertSQL("dim_user", []string{"id_user", "umur"}); err == nil {
		t.Fatalf("expected error for unknown column")
	}
	if _, _, err := insertSQL("dim_unknown", nil); err == nil {
		t.Fatalf("expected error for unknown table")
	}
	query, types, err := insertSQL("dim_user", DimUser.ColumnNames())
	if err != nil {
		t.Fatalf("insertSQL: %v", err)
	}
	want := `INSERT INTO "dim_user" ("id_user", "lokasi_user") VALUES (CAST(CAST(? AS VARCHAR) AS VARCHAR), CAST(CAST(? AS VARCHAR) AS VARCHAR))`
	if query != want || len(types) != 2 {
		t.Fatalf("query got=%q", query)
	}
}

func TestToText(t *testing.T) {
	ts := time.Date(2025, 1, 1, 10, 30, 0, 0, time.FixedZone("WITA", 8*3600))
	cases := []struct {
		value   any
		colType string
		want    any
	}{
		{ts, "TIMESTAMP", "2025-01-01 02:30:00"},
		{ts, "DATE", "2025-01-01"},
		{sql.NullString{}, "VARCHAR", nil},
		{decimal.NewFromInt(42), "DECIMAL(38,0)", "42"},
		{-8.5, "DOUBLE", "-8.5"},
		{2025, "INTEGER", "2025"},
	}
	for _, c := range cases {
		got, err := toText(c.value, c.colType)
		if err != nil {
			t.Fatalf("toText(%v): %v", c.value, err)
		}
		if got != c.want {
			t.Fatalf("toText(%v, %s) got=%v want=%v", c.value, c.colType, got, c.want)
		}
	}
}
