package staging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LilVoxy/tourism_etl/processor"
)

// Колонки файлов ручного ввода в порядке записи
var (
	IncomeColumns = []string{
		"id_transaksi_original", "timestamp", "id_proyek", "nama_proyek", "sektor_pariwisata",
		"id_penyumbang", "nama_penyumbang", "jenis_penyumbang", "jenis_pemasukan", "jumlah", "bukti",
	}
	ExpenseColumns = []string{
		"id_transaksi_original", "timestamp", "id_proyek", "nama_proyek", "sektor_pariwisata",
		"id_vendor", "nama_vendor", "id_departemen", "nama_departemen", "jenis_kebutuhan", "jumlah", "bukti",
	}
)

// Writer сохраняет одиночные записи ручного ввода в staging-область
type Writer struct {
	source   *BlobSource
	compress bool
	now      func() time.Time
}

// NewWriter создает Writer, который пишет туда же, откуда читает source
func NewWriter(source *BlobSource, compress bool) *Writer {
	return &Writer{
		source:   source,
		compress: compress,
		now:      time.Now,
	}
}

// StageRecord записывает одну транзакцию отдельным файлом
// <prefix><семейство>_<id>_<YYYYMMDD_HHMMSS>_<суффикс>.csv и возвращает ключ файла.
// Уникальный суффикс не дает двум записям с одинаковым id и секундой перезаписать друг друга.
func (w *Writer) StageRecord(ctx context.Context, family Family, id string, ts time.Time, rec Record) (string, error) {
	if !family.IsManual() {
		return "", fmt.Errorf("семейство %s не поддерживает ручной ввод", family)
	}
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("пустой идентификатор транзакции")
	}
	loc, ok := w.source.Location(family)
	if !ok {
		return "", fmt.Errorf("для семейства %s не настроено расположение", family)
	}

	columns := IncomeColumns
	if family == FamilyExpense {
		columns = ExpenseColumns
	}
	csvData, err := EncodeCSV([]Record{rec}, columns)
	if err != nil {
		return "", err
	}

	if ts.IsZero() {
		ts = w.now()
	}
	baseKey := fmt.Sprintf("%s%s_%s_%s_%s",
		loc.Prefix, family, sanitizeKeyPart(id), ts.Format("20060102_150405"), uuid.NewString()[:8])

	key, payload := processor.ProcessOutboundBlob(baseKey, csvData, w.compress)
	if err := loc.Store.Put(ctx, key, payload); err != nil {
		return "", fmt.Errorf("ошибка сохранения %s: %w", key, err)
	}
	return key, nil
}

// sanitizeKeyPart заменяет символы, недопустимые в имени файла
func sanitizeKeyPart(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '-'
		}
		return r
	}, s)
}
