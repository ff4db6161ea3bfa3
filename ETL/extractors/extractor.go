package extractors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/staging"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// Extractor координирует чтение staging-области и нормализацию записей
type Extractor struct {
	source staging.Source
	logger *utils.ETLLogger
}

// NewExtractor создает новый экземпляр Extractor
func NewExtractor(source staging.Source, logger *utils.ETLLogger) *Extractor {
	return &Extractor{
		source: source,
		logger: logger,
	}
}

// Extract читает все семейства записей. Ошибка одного семейства логируется
// и возвращается в списке ошибок, остальные семейства обрабатываются дальше.
func (e *Extractor) Extract(ctx context.Context) (*models.StagedData, []error) {
	startTime := time.Now()
	e.logger.LogExtractStart()

	var staged models.StagedData
	var errs []error

	for _, family := range staging.AllFamilies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		records, err := e.source.ListRecords(ctx, family)
		if err != nil {
			e.logger.Error("Ошибка при чтении семейства %s: %v", family, err)
			errs = append(errs, fmt.Errorf("извлечение %s: %w", family, err))
			// Пропущенные файлы не мешают загрузить прочитанные
			var skipped *staging.SkippedBlobsError
			if !errors.As(err, &skipped) {
				continue
			}
		}

		switch family {
		case staging.FamilyPlaces:
			staged.Places = DecodePlaces(Normalize(records, PlaceMapping))
		case staging.FamilyReviews:
			staged.Reviews = DecodeReviews(Normalize(records, ReviewMapping))
		case staging.FamilyTweets:
			staged.Tweets = DecodeTweets(Normalize(records, TweetMapping))
		case staging.FamilyIncome:
			staged.Incomes = DecodeIncome(Normalize(records, IncomeMapping))
		case staging.FamilyExpense:
			staged.Expenses = DecodeExpense(Normalize(records, ExpenseMapping))
		}
		e.logger.Debug("Семейство %s: прочитано %d записей", family, len(records))
	}

	e.logger.LogExtractComplete(
		len(staged.Places),
		len(staged.Reviews),
		len(staged.Tweets),
		len(staged.Incomes),
		len(staged.Expenses),
		time.Since(startTime),
	)

	return &staged, errs
}
