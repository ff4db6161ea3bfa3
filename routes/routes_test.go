package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/LilVoxy/tourism_etl/ETL/config"
	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/staging"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
	"github.com/LilVoxy/tourism_etl/websocket"
)

type stubJournal struct {
	runs      []models.ETLRunLog
	err       error
	lastLimit int
	lastDays  int
}

func (j *stubJournal) GetRecentRuns(ctx context.Context, limit int) ([]models.ETLRunLog, error) {
	j.lastLimit = limit
	return j.runs, j.err
}

func (j *stubJournal) GetETLStateMonitor(ctx context.Context, days int) (*models.ETLStateMonitor, error) {
	j.lastDays = days
	if j.err != nil {
		return nil, j.err
	}
	return models.SummarizeRuns(j.runs), nil
}

type recordingNotifier struct {
	messages []websocket.Message
}

func (n *recordingNotifier) Notify(msg websocket.Message) {
	n.messages = append(n.messages, msg)
}

func newSource(t *testing.T) *staging.BlobSource {
	t.Helper()
	root := t.TempDir()
	return staging.NewBlobSourceFromConfig(
		staging.NewFSStore(filepath.Join(root, "api")),
		staging.NewFSStore(filepath.Join(root, "manual")),
		config.DefaultStagingConfig, utils.NewNopLogger())
}

func TestStageIncome(t *testing.T) {
	source := newSource(t)
	notifier := &recordingNotifier{}
	handler := StageIncomeHandler(staging.NewWriter(source, false), notifier)

	body := `{"id_transaksi_original":"I-1","timestamp":"2024-05-01 10:30:00","id_proyek":"PR1",
		"nama_proyek":"Festival","sektor_pariwisata":"Event","id_penyumbang":"C1",
		"nama_penyumbang":"Dinas","jenis_penyumbang":"Pemerintah","jenis_pemasukan":"Hibah","jumlah":750000}`
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/finance/income", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status got=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp StageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(resp.Key, "manual_input/pemasukan/pemasukan_I-1_20240501_103000_") {
		t.Fatalf("key got=%q", resp.Key)
	}
	if len(notifier.messages) != 1 || notifier.messages[0].Key != resp.Key {
		t.Fatalf("notifications got=%+v", notifier.messages)
	}

	records, err := source.ListRecords(context.Background(), staging.FamilyIncome)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records got=%d want=1", len(records))
	}
	got := records[0]
	if got["timestamp"] != "2024-05-01T10:30:00" || got["jumlah"] != "750000" || got["id_penyumbang"] != "C1" {
		t.Fatalf("record got=%v", got)
	}
	if _, ok := got["bukti"]; ok {
		t.Fatalf("empty proof must stay empty, got=%v", got)
	}
}

func TestStageExpenseDefaultsTimestamp(t *testing.T) {
	source := newSource(t)
	handler := StageExpenseHandler(staging.NewWriter(source, true), nil)

	body := `{"id_transaksi_original":"E-1","id_vendor":"V1","jumlah":1500000}`
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/finance/expense", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status got=%d body=%s", rec.Code, rec.Body.String())
	}

	records, err := source.ListRecords(context.Background(), staging.FamilyExpense)
	if err != nil || len(records) != 1 {
		t.Fatalf("records=%v err=%v", records, err)
	}
	if _, ok := utils.ParseTimestamp(records[0]["timestamp"]); !ok {
		t.Fatalf("timestamp got=%q", records[0]["timestamp"])
	}
}

func TestStageValidation(t *testing.T) {
	handler := StageExpenseHandler(staging.NewWriter(newSource(t), false), nil)

	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing id", `{"jumlah":1}`},
		{"missing amount", `{"id_transaksi_original":"E-1"}`},
		{"bad timestamp", `{"id_transaksi_original":"E-1","jumlah":1,"timestamp":"kemarin"}`},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/api/finance/expense", strings.NewReader(c.body)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status got=%d want=400", c.name, rec.Code)
		}
	}
}

func TestGetRuns(t *testing.T) {
	journal := &stubJournal{runs: []models.ETLRunLog{{ID: 2, RunID: "b", Status: models.RunStatusPartial}}}

	rec := httptest.NewRecorder()
	GetRunsHandler(journal)(rec, httptest.NewRequest(http.MethodGet, "/api/etl/runs?limit=1000", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status got=%d", rec.Code)
	}
	if journal.lastLimit != maxRunsLimit {
		t.Fatalf("limit got=%d want=%d", journal.lastLimit, maxRunsLimit)
	}
	var resp RunsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Runs) != 1 || resp.Runs[0].Status != models.RunStatusPartial {
		t.Fatalf("runs got=%+v", resp.Runs)
	}

	rec = httptest.NewRecorder()
	GetRunsHandler(journal)(rec, httptest.NewRequest(http.MethodGet, "/api/etl/runs?limit=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status got=%d", rec.Code)
	}
}

func TestGetRunsEmptyAndFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	GetRunsHandler(&stubJournal{})(rec, httptest.NewRequest(http.MethodGet, "/api/etl/runs", nil))
	if strings.TrimSpace(rec.Body.String()) != `{"runs":[]}` {
		t.Fatalf("empty body got=%s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	GetStatsHandler(&stubJournal{err: errors.New("down")})(rec, httptest.NewRequest(http.MethodGet, "/api/etl/stats", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status got=%d want=500", rec.Code)
	}
}

func TestRouterWiring(t *testing.T) {
	journal := &stubJournal{runs: []models.ETLRunLog{{ID: 1, Status: models.RunStatusSuccess, ExecutionTimeSeconds: 4}}}
	router := mux.NewRouter()
	SetupRoutes(router, journal, staging.NewWriter(newSource(t), false), websocket.NewManager(journal, 0))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/etl/stats?days=30", nil))
	if rec.Code != http.StatusOK || journal.lastDays != 30 {
		t.Fatalf("status=%d days=%d", rec.Code, journal.lastDays)
	}
	var monitor models.ETLStateMonitor
	if err := json.NewDecoder(rec.Body).Decode(&monitor); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if monitor.TotalSuccessfulRuns != 1 || monitor.AvgExecutionTimeSeconds != 4 {
		t.Fatalf("monitor got=%+v", monitor)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/finance/income", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("preflight status=%d headers=%v", rec.Code, rec.Header())
	}
}
