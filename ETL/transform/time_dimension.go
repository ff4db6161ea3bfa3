package transform

import (
	"database/sql"
	"sort"
	"time"

	"github.com/LilVoxy/tourism_etl/ETL/models"
)

// BuildTimeDimension собирает dim_time из всех временных меток снимка:
// отзывов, публикаций, поступлений и расходов. Одинаковые моменты схлопываются,
// нераспознанные и пустые метки отбрасываются. Возвращает строки, отсортированные
// по времени, и количество отброшенных меток.
func BuildTimeDimension(snap *models.OperationalSnapshot) ([]models.TimeDimension, int) {
	var stamps []sql.NullString
	for _, r := range snap.Reviews {
		stamps = append(stamps, r.TimestampReview)
	}
	for _, t := range snap.Tweets {
		stamps = append(stamps, t.CreatedAtTweet)
	}
	for _, t := range snap.Incomes {
		stamps = append(stamps, t.Timestamp)
	}
	for _, t := range snap.Expenses {
		stamps = append(stamps, t.Timestamp)
	}

	seen := make(map[int64]struct{}, len(stamps))
	var instants []time.Time
	dropped := 0
	for _, s := range stamps {
		ts, ok := parseInstant(s)
		if !ok {
			dropped++
			continue
		}
		k := ts.UnixNano()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		instants = append(instants, ts)
	}

	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })

	rows := make([]models.TimeDimension, len(instants))
	for i, ts := range instants {
		rows[i] = decomposeInstant(ts)
	}
	return rows, dropped
}

// decomposeInstant раскладывает момент времени на атрибуты измерения (в UTC)
func decomposeInstant(ts time.Time) models.TimeDimension {
	ts = ts.UTC()
	return models.TimeDimension{
		TimestampDatetime: ts,
		TimeOfDay:         ts.Format("15:04:05"),
		DayName:           ts.Weekday().String(),
		Date:              time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
		Month:             ts.Format("2006-01"),
		Year:              ts.Year(),
	}
}
