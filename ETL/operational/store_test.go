package operational

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// openStore открывает Store поверх DuckDB в памяти с диалектом PostgreSQL:
// двойные кавычки в именах и плейсхолдеры $n
func openStore(t *testing.T, batchSize int) *Store {
	t.Helper()
	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store := NewStore(db, utils.DriverPostgres, batchSize, utils.NewNopLogger())
	if err := store.CreateSchema(context.Background()); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	return store
}

func places(ids ...string) []models.Place {
	out := make([]models.Place, len(ids))
	for i, id := range ids {
		out[i] = place(id, "name-"+id)
	}
	return out
}

func TestStoreMergeAcrossBatches(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, 2)

	batch := append(places("P3", "P1", "P5", "P2", "P4"), place("P1", "dup"))
	n, err := Merge(ctx, store, PlacesTable, batch)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if n != 5 {
		t.Fatalf("inserted got=%d want=5", n)
	}

	got, err := ReadAll(ctx, store, PlacesTable)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("rows got=%d want=5", len(got))
	}
	for i, want := range []string{"P1", "P2", "P3", "P4", "P5"} {
		if got[i].PlaceID != want {
			t.Fatalf("row %d got=%s want=%s", i, got[i].PlaceID, want)
		}
	}
	if got[0].Name.String != "name-P1" || got[0].Lat.Float64 != 1 || got[0].PhoneNumber.Valid {
		t.Fatalf("first occurrence must win, got=%+v", got[0])
	}

	n, err = Merge(ctx, store, PlacesTable, batch)
	if err != nil || n != 0 {
		t.Fatalf("second merge n=%d err=%v", n, err)
	}
	keys, err := store.ExistingKeys(ctx, PlacesTable.Name, PlacesTable.KeyColumn)
	if err != nil || len(keys) != 5 {
		t.Fatalf("keys got=%v err=%v", keys, err)
	}
}

func TestStoreMergeIsAssociative(t *testing.T) {
	ctx := context.Background()
	b1 := places("P1", "P2")
	b2 := []models.Place{place("P2", "late"), place("P3", "C")}

	incremental := openStore(t, 1)
	if _, err := Merge(ctx, incremental, PlacesTable, b1); err != nil {
		t.Fatalf("Merge b1: %v", err)
	}
	if _, err := Merge(ctx, incremental, PlacesTable, b2); err != nil {
		t.Fatalf("Merge b2: %v", err)
	}

	single := openStore(t, 1)
	if _, err := Merge(ctx, single, PlacesTable, append(append([]models.Place{}, b1...), b2...)); err != nil {
		t.Fatalf("Merge union: %v", err)
	}

	got, _ := ReadAll(ctx, incremental, PlacesTable)
	want, _ := ReadAll(ctx, single, PlacesTable)
	if len(got) != 3 || len(got) != len(want) {
		t.Fatalf("len got=%d want=%d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("row %d got=%+v want=%+v", i, got[i], want[i])
		}
	}
}

func TestStoreAppendRollsBackWholeTable(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, 2)

	rows := [][]any{
		PlacesTable.Values(place("P1", "A")),
		PlacesTable.Values(place("P2", "B")),
		PlacesTable.Values(place("P3", "C")),
		{"P4", "short"},
	}
	err := store.Append(ctx, PlacesTable.Name, PlacesTable.ColumnNames(), rows)
	if err == nil || !strings.Contains(err.Error(), "строка 3") {
		t.Fatalf("expected row error, got=%v", err)
	}

	keys, err := store.ExistingKeys(ctx, PlacesTable.Name, PlacesTable.KeyColumn)
	if err != nil {
		t.Fatalf("ExistingKeys: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("first chunk must be rolled back, keys=%v", keys)
	}
}

func TestStoreSnapshotScansNullableColumns(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, 10)

	staged := &models.StagedData{
		Places: places("P2", "P1"),
		Reviews: []models.Review{{
			ReviewID: "r1", PlaceID: str("P1"), Rating: sql.NullInt64{Int64: 5, Valid: true},
		}},
		Tweets: []models.Tweet{
			{TweetID: "t1", AuthorVerified: sql.NullBool{Bool: true, Valid: true}, LikeCount: sql.NullInt64{Int64: 12, Valid: true}},
			{TweetID: "t2", AuthorVerified: sql.NullBool{Bool: false, Valid: true}},
			{TweetID: "t0"},
		},
		Incomes:  []models.IncomeTxn{{TxnID: "I1", Timestamp: str("2025-01-01T10:00:00Z"), Amount: sql.NullInt64{Int64: 750000, Valid: true}}},
		Expenses: []models.ExpenseTxn{{TxnID: "E1", Amount: sql.NullInt64{Int64: 1500000, Valid: true}, Proof: str("nota.pdf")}},
	}
	report := MergeAll(ctx, store, staged, utils.NewNopLogger())
	if err := report.Err(); err != nil || report.Total() != 8 {
		t.Fatalf("MergeAll total=%d err=%v", report.Total(), err)
	}

	snap, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Places) != 2 || snap.Places[0].PlaceID != "P1" {
		t.Fatalf("places got=%+v", snap.Places)
	}
	if r := snap.Reviews[0]; r.Rating.Int64 != 5 || !r.Rating.Valid || r.AuthorURL.Valid {
		t.Fatalf("review got=%+v", r)
	}

	tweets := snap.Tweets
	if len(tweets) != 3 || tweets[0].TweetID != "t0" {
		t.Fatalf("tweets got=%+v", tweets)
	}
	if tweets[0].AuthorVerified.Valid || tweets[0].LikeCount.Valid {
		t.Fatalf("NULL must stay NULL, got=%+v", tweets[0])
	}
	if !tweets[1].AuthorVerified.Bool || tweets[1].LikeCount.Int64 != 12 {
		t.Fatalf("t1 got=%+v", tweets[1])
	}
	if !tweets[2].AuthorVerified.Valid || tweets[2].AuthorVerified.Bool {
		t.Fatalf("t2 got=%+v", tweets[2])
	}

	if snap.Incomes[0].Timestamp.String != "2025-01-01T10:00:00Z" || snap.Incomes[0].Amount.Int64 != 750000 {
		t.Fatalf("income got=%+v", snap.Incomes[0])
	}
	if snap.Expenses[0].Proof.String != "nota.pdf" || snap.Expenses[0].ProjectID.Valid {
		t.Fatalf("expense got=%+v", snap.Expenses[0])
	}
}
