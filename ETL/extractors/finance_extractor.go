package extractors

import (
	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/staging"
)

// DecodeIncome преобразует канонические записи в поступления
func DecodeIncome(records []staging.Record) []models.IncomeTxn {
	txns := make([]models.IncomeTxn, 0, len(records))
	for _, rec := range records {
		id := key(rec, "id_transaksi_original")
		if id == "" {
			continue
		}
		txns = append(txns, models.IncomeTxn{
			TxnID:           id,
			Timestamp:       nullString(rec, "timestamp"),
			ProjectID:       nullString(rec, "id_proyek"),
			ProjectName:     nullString(rec, "nama_proyek"),
			TourismSector:   nullString(rec, "sektor_pariwisata"),
			ContributorID:   nullString(rec, "id_penyumbang"),
			ContributorName: nullString(rec, "nama_penyumbang"),
			ContributorType: nullString(rec, "jenis_penyumbang"),
			IncomeCategory:  nullString(rec, "jenis_pemasukan"),
			Amount:          nullInt(rec, "jumlah"),
			Proof:           nullString(rec, "bukti"),
		})
	}
	return txns
}

// DecodeExpense преобразует канонические записи в расходы
func DecodeExpense(records []staging.Record) []models.ExpenseTxn {
	txns := make([]models.ExpenseTxn, 0, len(records))
	for _, rec := range records {
		id := key(rec, "id_transaksi_original")
		if id == "" {
			continue
		}
		txns = append(txns, models.ExpenseTxn{
			TxnID:          id,
			Timestamp:      nullString(rec, "timestamp"),
			ProjectID:      nullString(rec, "id_proyek"),
			ProjectName:    nullString(rec, "nama_proyek"),
			TourismSector:  nullString(rec, "sektor_pariwisata"),
			VendorID:       nullString(rec, "id_vendor"),
			VendorName:     nullString(rec, "nama_vendor"),
			DepartmentID:   nullString(rec, "id_departemen"),
			DepartmentName: nullString(rec, "nama_departemen"),
			ExpenseNeed:    nullString(rec, "jenis_kebutuhan"),
			Amount:         nullInt(rec, "jumlah"),
			Proof:          nullString(rec, "bukti"),
		})
	}
	return txns
}
