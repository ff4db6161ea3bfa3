package staging

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/LilVoxy/tourism_etl/ETL/config"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
	"github.com/LilVoxy/tourism_etl/processor"
)

// Family определяет семейство исходных записей в staging-области
type Family string

const (
	FamilyPlaces  Family = "places"
	FamilyReviews Family = "reviews"
	FamilyTweets  Family = "tweets"
	FamilyIncome  Family = "pemasukan"
	FamilyExpense Family = "pengeluaran"
)

// AllFamilies перечисляет семейства в порядке обработки
var AllFamilies = []Family{FamilyPlaces, FamilyReviews, FamilyTweets, FamilyIncome, FamilyExpense}

// IsManual сообщает, относится ли семейство к ручному вводу финансовых данных
func (f Family) IsManual() bool {
	return f == FamilyIncome || f == FamilyExpense
}

// Record - одна строка исходного файла: имя колонки -> значение.
// Пустые ячейки в Record не попадают.
type Record map[string]string

// Source отдает сырые записи для семейства
type Source interface {
	ListRecords(ctx context.Context, family Family) ([]Record, error)
}

// BlobStore - минимальный интерфейс хранилища файлов
type BlobStore interface {
	// List возвращает ключи с указанным префиксом в лексикографическом порядке
	List(ctx context.Context, prefix string) ([]string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Location указывает, где лежат файлы семейства
type Location struct {
	Store  BlobStore
	Prefix string
}

// BlobSource читает CSV-файлы семейств из BlobStore
type BlobSource struct {
	locations map[Family]Location
	logger    *utils.ETLLogger
}

// NewBlobSource создает источник по явной таблице расположений
func NewBlobSource(locations map[Family]Location, logger *utils.ETLLogger) *BlobSource {
	return &BlobSource{
		locations: locations,
		logger:    logger,
	}
}

// NewBlobSourceFromConfig создает источник по конфигурации: данные API и ручной ввод
// лежат в разных хранилищах (бакетах)
func NewBlobSourceFromConfig(apiStore, manualStore BlobStore, c config.StagingConfig, logger *utils.ETLLogger) *BlobSource {
	return NewBlobSource(map[Family]Location{
		FamilyPlaces:  {Store: apiStore, Prefix: c.PlacesPrefix},
		FamilyReviews: {Store: apiStore, Prefix: c.ReviewsPrefix},
		FamilyTweets:  {Store: apiStore, Prefix: c.TweetsPrefix},
		FamilyIncome:  {Store: manualStore, Prefix: c.IncomePrefix},
		FamilyExpense: {Store: manualStore, Prefix: c.ExpensePrefix},
	}, logger)
}

// Location возвращает расположение семейства
func (s *BlobSource) Location(family Family) (Location, bool) {
	loc, ok := s.locations[family]
	return loc, ok
}

// SkippedBlobsError перечисляет файлы семейства, которые не удалось прочитать или разобрать.
// ListRecords возвращает ее вместе с записями остальных файлов.
type SkippedBlobsError struct {
	Family Family
	Keys   []string
}

func (e *SkippedBlobsError) Error() string {
	return fmt.Sprintf("пропущено файлов семейства %s: %d (%s)", e.Family, len(e.Keys), strings.Join(e.Keys, ", "))
}

// ListRecords читает все файлы семейства и объединяет их строки.
// Файл, который не удалось прочитать или разобрать, пропускается с записью в лог;
// такие файлы перечисляются в *SkippedBlobsError, а записи остальных файлов возвращаются.
// Ошибка листинга возвращается без записей.
func (s *BlobSource) ListRecords(ctx context.Context, family Family) ([]Record, error) {
	loc, ok := s.locations[family]
	if !ok {
		return nil, fmt.Errorf("для семейства %s не настроено расположение", family)
	}

	keys, err := loc.Store.List(ctx, loc.Prefix)
	if err != nil {
		return nil, fmt.Errorf("ошибка листинга %s: %w", loc.Prefix, err)
	}
	sort.Strings(keys)

	var records []Record
	var skipped []string
	for _, key := range keys {
		if !processor.IsStagedBlob(key) {
			continue
		}

		rows, err := s.readBlob(ctx, loc.Store, key)
		if err != nil {
			s.logger.Error("Не удалось прочитать %s: %v", key, err)
			skipped = append(skipped, key)
			continue
		}
		s.logger.Debug("Прочитано %d строк из %s", len(rows), key)
		records = append(records, rows...)
	}
	if len(skipped) > 0 {
		return records, &SkippedBlobsError{Family: family, Keys: skipped}
	}
	return records, nil
}

func (s *BlobSource) readBlob(ctx context.Context, store BlobStore, key string) ([]Record, error) {
	body, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	payload, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения: %w", err)
	}

	csvData, err := processor.ProcessInboundBlob(key, payload)
	if err != nil {
		return nil, err
	}
	return DecodeCSV(csvData)
}
