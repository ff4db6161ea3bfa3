package staging

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/LilVoxy/tourism_etl/ETL/config"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
	"github.com/LilVoxy/tourism_etl/processor"
)

func TestDecodeCSVDropsEmptyCells(t *testing.T) {
	data := "\ufeffplace_id,name,lat\np1,Pantai,-8.1\np2,,\n"
	recs, err := DecodeCSV([]byte(data))
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len got=%d want=2", len(recs))
	}
	if recs[0]["place_id"] != "p1" || recs[0]["lat"] != "-8.1" {
		t.Fatalf("row0 got=%v", recs[0])
	}
	if _, ok := recs[1]["name"]; ok {
		t.Fatalf("empty cell must be absent, got=%v", recs[1])
	}
}

func TestDecodeCSVEmptyInput(t *testing.T) {
	recs, err := DecodeCSV(nil)
	if err != nil || recs != nil {
		t.Fatalf("got=%v err=%v", recs, err)
	}
}

func TestEncodeDecodeKeepsColumns(t *testing.T) {
	in := []Record{{"id_transaksi_original": "T1", "jumlah": "1000", "bukti": "a,b"}}
	data, err := EncodeCSV(in, IncomeColumns)
	if err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if header != strings.Join(IncomeColumns, ",") {
		t.Fatalf("header got=%q", header)
	}
	out, err := DecodeCSV(data)
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	if out[0]["bukti"] != "a,b" || out[0]["jumlah"] != "1000" {
		t.Fatalf("roundtrip got=%v", out[0])
	}
}

func TestFSStoreListByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewFSStore(t.TempDir())
	for _, key := range []string{"source_data/places/b.csv", "source_data/places/a.csv", "source_data/reviews/r.csv"} {
		if err := store.Put(ctx, key, []byte("x")); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
	}

	keys, err := store.List(ctx, "source_data/places/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"source_data/places/a.csv", "source_data/places/b.csv"}
	if strings.Join(keys, "|") != strings.Join(want, "|") {
		t.Fatalf("keys got=%v want=%v", keys, want)
	}
}

func TestFSStoreListMissingRoot(t *testing.T) {
	store := NewFSStore(t.TempDir() + "/nope")
	keys, err := store.List(context.Background(), "")
	if err != nil || len(keys) != 0 {
		t.Fatalf("got=%v err=%v", keys, err)
	}
}

// failingStore отдает ошибку на Get для заданного ключа
type failingStore struct {
	*FSStore
	badKey string
}

func (s failingStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == s.badKey {
		return nil, io.ErrUnexpectedEOF
	}
	return s.FSStore.Get(ctx, key)
}

func TestBlobSourceSkipsBadBlobs(t *testing.T) {
	ctx := context.Background()
	fs := NewFSStore(t.TempDir())
	prefix := "source_data/places/"

	mustPut := func(key string, data []byte) {
		t.Helper()
		if err := fs.Put(ctx, key, data); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	mustPut(prefix+"1.csv", []byte("place_id,name\np1,A\n"))
	mustPut(prefix+"2.csv.sz", processor.CompressBlob([]byte("place_id,name\np2,B\n")))
	mustPut(prefix+"3.csv.sz", []byte("not snappy at all"))
	mustPut(prefix+"4.csv", []byte("place_id\np4\n"))
	mustPut(prefix+"readme.txt", []byte("ignored"))

	var logs bytes.Buffer
	store := failingStore{FSStore: fs, badKey: prefix + "4.csv"}
	src := NewBlobSource(map[Family]Location{FamilyPlaces: {Store: store, Prefix: prefix}}, utils.NewWriterLogger(&logs, false))

	recs, err := src.ListRecords(ctx, FamilyPlaces)
	var skipped *SkippedBlobsError
	if !errors.As(err, &skipped) {
		t.Fatalf("ListRecords err got=%v want *SkippedBlobsError", err)
	}
	if skipped.Family != FamilyPlaces || len(skipped.Keys) != 2 ||
		skipped.Keys[0] != prefix+"3.csv.sz" || skipped.Keys[1] != prefix+"4.csv" {
		t.Fatalf("skipped got=%+v", skipped)
	}
	if len(recs) != 2 || recs[0]["place_id"] != "p1" || recs[1]["place_id"] != "p2" {
		t.Fatalf("records got=%v", recs)
	}
	if !strings.Contains(logs.String(), "3.csv.sz") || !strings.Contains(logs.String(), "4.csv") {
		t.Fatalf("bad blobs must be logged, got=%s", logs.String())
	}
}

func TestBlobSourceUnknownFamily(t *testing.T) {
	src := NewBlobSource(map[Family]Location{}, utils.NewNopLogger())
	if _, err := src.ListRecords(context.Background(), FamilyTweets); err == nil {
		t.Fatalf("expected error for unconfigured family")
	}
}

func TestWriterStageRecord(t *testing.T) {
	ctx := context.Background()
	api := NewFSStore(t.TempDir())
	manual := NewFSStore(t.TempDir())
	src := NewBlobSourceFromConfig(api, manual, config.DefaultStagingConfig, utils.NewNopLogger())

	for _, compress := range []bool{false, true} {
		w := NewWriter(src, compress)
		ts := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
		key, err := w.StageRecord(ctx, FamilyExpense, "E/1", ts, Record{
			"id_transaksi_original": "E/1",
			"jumlah":                "250000",
		})
		if err != nil {
			t.Fatalf("StageRecord: %v", err)
		}
		wantPrefix := "manual_input/pengeluaran/pengeluaran_E-1_20240501_103000_"
		if !strings.HasPrefix(key, wantPrefix) {
			t.Fatalf("key got=%q want prefix %q", key, wantPrefix)
		}
		if compress != strings.HasSuffix(key, processor.SnappyCSVExt) {
			t.Fatalf("compress=%v key=%q", compress, key)
		}
	}

	recs, err := src.ListRecords(ctx, FamilyExpense)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len got=%d want=2", len(recs))
	}
	for _, r := range recs {
		if r["id_transaksi_original"] != "E/1" || r["jumlah"] != "250000" {
			t.Fatalf("record got=%v", r)
		}
	}
}

func TestWriterRejectsAPIFamilyAndEmptyID(t *testing.T) {
	src := NewBlobSourceFromConfig(NewFSStore(t.TempDir()), NewFSStore(t.TempDir()), config.DefaultStagingConfig, utils.NewNopLogger())
	w := NewWriter(src, false)
	if _, err := w.StageRecord(context.Background(), FamilyPlaces, "p1", time.Now(), Record{}); err == nil {
		t.Fatalf("expected error for API family")
	}
	if _, err := w.StageRecord(context.Background(), FamilyIncome, " ", time.Now(), Record{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}
