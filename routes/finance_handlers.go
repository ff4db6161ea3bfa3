// routes/finance_handlers.go
package routes

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LilVoxy/tourism_etl/ETL/staging"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
	"github.com/LilVoxy/tourism_etl/websocket"
)

// RecordStager сохраняет одну транзакцию ручного ввода в staging-область
type RecordStager interface {
	StageRecord(ctx context.Context, family staging.Family, id string, ts time.Time, rec staging.Record) (string, error)
}

// StageNotifier получает событие о новой записи в staging-области
type StageNotifier interface {
	Notify(msg websocket.Message)
}

// IncomeRequest - транзакция поступления
type IncomeRequest struct {
	TxnID           string `json:"id_transaksi_original"`
	Timestamp       string `json:"timestamp"`
	ProjectID       string `json:"id_proyek"`
	ProjectName     string `json:"nama_proyek"`
	TourismSector   string `json:"sektor_pariwisata"`
	ContributorID   string `json:"id_penyumbang"`
	ContributorName string `json:"nama_penyumbang"`
	ContributorType string `json:"jenis_penyumbang"`
	IncomeCategory  string `json:"jenis_pemasukan"`
	Amount          *int64 `json:"jumlah"`
	Proof           string `json:"bukti"`
}

// ExpenseRequest - транзакция расхода
type ExpenseRequest struct {
	TxnID          string `json:"id_transaksi_original"`
	Timestamp      string `json:"timestamp"`
	ProjectID      string `json:"id_proyek"`
	ProjectName    string `json:"nama_proyek"`
	TourismSector  string `json:"sektor_pariwisata"`
	VendorID       string `json:"id_vendor"`
	VendorName     string `json:"nama_vendor"`
	DepartmentID   string `json:"id_departemen"`
	DepartmentName string `json:"nama_departemen"`
	ExpenseNeed    string `json:"jenis_kebutuhan"`
	Amount         *int64 `json:"jumlah"`
	Proof          string `json:"bukti"`
}

// StageResponse структура ответа API ручного ввода
type StageResponse struct {
	Key string `json:"key"`
}

// StageIncomeHandler принимает транзакцию поступления
func StageIncomeHandler(stager RecordStager, notifier StageNotifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req IncomeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Неверный формат JSON", http.StatusBadRequest)
			return
		}

		stage(w, r, stager, notifier, staging.FamilyIncome, req.TxnID, req.Timestamp, req.Amount, func(ts string, amount int64) staging.Record {
			return staging.Record{
				"id_transaksi_original": req.TxnID,
				"timestamp":             ts,
				"id_proyek":             req.ProjectID,
				"nama_proyek":           req.ProjectName,
				"sektor_pariwisata":     req.TourismSector,
				"id_penyumbang":         req.ContributorID,
				"nama_penyumbang":       req.ContributorName,
				"jenis_penyumbang":      req.ContributorType,
				"jenis_pemasukan":       req.IncomeCategory,
				"jumlah":                strconv.FormatInt(amount, 10),
				"bukti":                 req.Proof,
			}
		})
	}
}

// StageExpenseHandler принимает транзакцию расхода
func StageExpenseHandler(stager RecordStager, notifier StageNotifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExpenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Неверный формат JSON", http.StatusBadRequest)
			return
		}

		stage(w, r, stager, notifier, staging.FamilyExpense, req.TxnID, req.Timestamp, req.Amount, func(ts string, amount int64) staging.Record {
			return staging.Record{
				"id_transaksi_original": req.TxnID,
				"timestamp":             ts,
				"id_proyek":             req.ProjectID,
				"nama_proyek":           req.ProjectName,
				"sektor_pariwisata":     req.TourismSector,
				"id_vendor":             req.VendorID,
				"nama_vendor":           req.VendorName,
				"id_departemen":         req.DepartmentID,
				"nama_departemen":       req.DepartmentName,
				"jenis_kebutuhan":       req.ExpenseNeed,
				"jumlah":                strconv.FormatInt(amount, 10),
				"bukti":                 req.Proof,
			}
		})
	}
}

// stage проверяет общие поля, сохраняет запись и отвечает ключом файла
func stage(
	w http.ResponseWriter,
	r *http.Request,
	stager RecordStager,
	notifier StageNotifier,
	family staging.Family,
	txnID, timestamp string,
	amount *int64,
	build func(ts string, amount int64) staging.Record,
) {
	if strings.TrimSpace(txnID) == "" {
		http.Error(w, "Отсутствует обязательное поле id_transaksi_original", http.StatusBadRequest)
		return
	}
	if amount == nil {
		http.Error(w, "Отсутствует обязательное поле jumlah", http.StatusBadRequest)
		return
	}

	// Пустое время означает момент приема транзакции
	ts := time.Now().UTC()
	if timestamp != "" {
		parsed, ok := utils.ParseTimestamp(timestamp)
		if !ok {
			http.Error(w, "Неверный формат timestamp, ожидается YYYY-MM-DD HH:MM:SS", http.StatusBadRequest)
			return
		}
		ts = parsed
	}

	key, err := stager.StageRecord(r.Context(), family, txnID, ts, build(ts.Format("2006-01-02T15:04:05"), *amount))
	if err != nil {
		log.Printf("❌ Ошибка сохранения транзакции %s: %v", txnID, err)
		http.Error(w, "Ошибка сохранения транзакции", http.StatusInternalServerError)
		return
	}

	if notifier != nil {
		notifier.Notify(websocket.Message{Type: "staged", Family: string(family), Key: key})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(StageResponse{Key: key}); err != nil {
		log.Printf("❌ Ошибка при кодировании JSON: %v", err)
		return
	}

	log.Printf("✅ Транзакция %s сохранена: %s", txnID, key)
}
