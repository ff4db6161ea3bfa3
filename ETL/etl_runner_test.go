package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LilVoxy/tourism_etl/ETL/config"
	"github.com/LilVoxy/tourism_etl/ETL/extractors"
	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/operational"
	"github.com/LilVoxy/tourism_etl/ETL/staging"
	"github.com/LilVoxy/tourism_etl/ETL/transform"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

type memJournal struct {
	mu        sync.Mutex
	runs      []models.ETLRunLog
	createErr error
	updates   int
}

func (j *memJournal) CreateETLLogTable(ctx context.Context) error { return nil }

func (j *memJournal) CreateLogEntry(ctx context.Context, runID string, startTime time.Time) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.createErr != nil {
		return 0, j.createErr
	}
	j.runs = append(j.runs, models.ETLRunLog{ID: len(j.runs) + 1, RunID: runID, StartTime: startTime, Status: models.RunStatusInProgress})
	return len(j.runs), nil
}

func (j *memJournal) UpdateLogEntry(ctx context.Context, runLog *models.ETLRunLog) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.updates++
	j.runs[runLog.ID-1] = *runLog
	return nil
}

func (j *memJournal) GetRecentRuns(ctx context.Context, limit int) ([]models.ETLRunLog, error) {
	return nil, nil
}

func (j *memJournal) GetETLStateMonitor(ctx context.Context, days int) (*models.ETLStateMonitor, error) {
	return models.SummarizeRuns(j.runs), nil
}

type recordingMart struct {
	writes map[string]int
}

func (m *recordingMart) ReplaceAll(ctx context.Context, table string, columns []string, rows [][]any) error {
	m.writes[table] = len(rows)
	return nil
}

func (m *recordingMart) Append(ctx context.Context, table string, columns []string, rows [][]any) error {
	m.writes[table] += len(rows)
	return nil
}

type fixture struct {
	runner  *ETLRunner
	store   *operational.MemoryStore
	mart    *recordingMart
	journal *memJournal
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, "api", name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	logger := utils.NewNopLogger()
	source := staging.NewBlobSourceFromConfig(
		staging.NewFSStore(filepath.Join(root, "api")),
		staging.NewFSStore(filepath.Join(root, "manual")),
		config.DefaultStagingConfig, logger)

	f := &fixture{
		store:   operational.NewMemoryStore(),
		mart:    &recordingMart{writes: map[string]int{}},
		journal: &memJournal{},
	}
	f.runner = newRunner(config.DefaultETLConfig, logger, extractors.NewExtractor(source, logger),
		f.store, f.mart, transform.NewTransformer(transform.PolicyFirstSeen, logger), f.journal)
	return f
}

var placesCSV = "place_id,name_detail,lat_detail,lng_detail,types_detail\n" +
	"P1,Pantai Kuta,-8.71,115.16,beach\n" +
	"P2,Pura Besakih,-8.37,115.45,temple\n"

func TestExecuteSuccess(t *testing.T) {
	f := newFixture(t, map[string]string{"source_data/places/places_1.csv": placesCSV})

	runLog, err := f.runner.ExecuteETL(context.Background())
	if err != nil {
		t.Fatalf("ExecuteETL: %v", err)
	}
	if runLog.Status != models.RunStatusSuccess {
		t.Fatalf("status got=%s err=%s", runLog.Status, runLog.ErrorMessage)
	}
	if runLog.PlacesInserted != 2 || runLog.MartTablesWritten != 11 {
		t.Fatalf("run log got=%+v", runLog)
	}
	if f.mart.writes["dim_place"] != 2 {
		t.Fatalf("dim_place rows got=%d want=2", f.mart.writes["dim_place"])
	}
	if got := f.journal.runs[0]; got.Status != models.RunStatusSuccess || got.RunID == "" {
		t.Fatalf("journal got=%+v", got)
	}

	// Повторный запуск ничего не добавляет в операционную БД
	runLog, err = f.runner.ExecuteETL(context.Background())
	if err != nil || runLog.TotalInserted() != 0 {
		t.Fatalf("second run inserted=%d err=%v", runLog.TotalInserted(), err)
	}
	if f.mart.writes["dim_place"] != 2 {
		t.Fatalf("dim_place after rerun got=%d want=2", f.mart.writes["dim_place"])
	}
}

func TestExecutePartialOnTableFailure(t *testing.T) {
	f := newFixture(t, map[string]string{"source_data/places/places_1.csv": placesCSV})
	f.store.AppendErr["places"] = errors.New("disk full")

	runLog, err := f.runner.ExecuteETL(context.Background())
	if err != nil {
		t.Fatalf("ExecuteETL: %v", err)
	}
	if runLog.Status != models.RunStatusPartial || !strings.Contains(runLog.ErrorMessage, "disk full") {
		t.Fatalf("status=%s message=%q", runLog.Status, runLog.ErrorMessage)
	}
	if runLog.MartTablesWritten != 11 {
		t.Fatalf("mart must still be rebuilt, written=%d", runLog.MartTablesWritten)
	}
}

func TestSnapshotFailureSkipsMart(t *testing.T) {
	f := newFixture(t, map[string]string{"source_data/places/places_1.csv": placesCSV})
	f.store.ReadErr["pengeluaran"] = errors.New("timeout")

	runLog, err := f.runner.ExecuteETL(context.Background())
	if err == nil {
		t.Fatalf("expected snapshot error")
	}
	if runLog.Status != models.RunStatusFailed {
		t.Fatalf("status got=%s", runLog.Status)
	}
	if len(f.mart.writes) != 0 {
		t.Fatalf("mart must not be written, got=%v", f.mart.writes)
	}
	if runLog.PlacesInserted != 2 {
		t.Fatalf("merge stage must still run, places=%d", runLog.PlacesInserted)
	}
}

func TestMergeOnlyStage(t *testing.T) {
	f := newFixture(t, map[string]string{"source_data/places/places_1.csv": placesCSV})

	runLog, err := f.runner.Execute(context.Background(), Stages{Merge: true})
	if err != nil || runLog.Status != models.RunStatusSuccess {
		t.Fatalf("status=%v err=%v", runLog, err)
	}
	if len(f.mart.writes) != 0 || f.store.Len("places") != 2 {
		t.Fatalf("mart=%v places=%d", f.mart.writes, f.store.Len("places"))
	}
}

func TestJournalFailureDoesNotBlockStages(t *testing.T) {
	f := newFixture(t, map[string]string{"source_data/places/places_1.csv": placesCSV})
	f.journal.createErr = errors.New("journal table locked")

	runLog, err := f.runner.ExecuteETL(context.Background())
	if err != nil {
		t.Fatalf("ExecuteETL: %v", err)
	}
	if runLog.Status != models.RunStatusPartial || !strings.Contains(runLog.ErrorMessage, "journal table locked") {
		t.Fatalf("status=%s message=%q", runLog.Status, runLog.ErrorMessage)
	}
	if f.store.Len("places") != 2 || f.mart.writes["dim_place"] != 2 {
		t.Fatalf("places=%d dim_place=%d", f.store.Len("places"), f.mart.writes["dim_place"])
	}
	if runLog.ID != 0 || f.journal.updates != 0 {
		t.Fatalf("journal must not be updated without an entry, id=%d updates=%d", runLog.ID, f.journal.updates)
	}
}

func TestSkippedBlobMarksRunPartial(t *testing.T) {
	f := newFixture(t, map[string]string{
		"source_data/places/places_1.csv":    placesCSV,
		"source_data/places/places_2.csv.sz": "not snappy",
	})

	runLog, err := f.runner.ExecuteETL(context.Background())
	if err != nil {
		t.Fatalf("ExecuteETL: %v", err)
	}
	if runLog.Status != models.RunStatusPartial || !strings.Contains(runLog.ErrorMessage, "places_2.csv.sz") {
		t.Fatalf("status=%s message=%q", runLog.Status, runLog.ErrorMessage)
	}
	if runLog.PlacesInserted != 2 {
		t.Fatalf("readable blob must still load, places=%d", runLog.PlacesInserted)
	}
}
