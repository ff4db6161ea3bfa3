package extractors

import (
	"fmt"

	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/staging"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// DecodeReviews преобразует канонические записи в отзывы.
// Если id_review отсутствует, он выводится из place_id, author_url и времени отзыва;
// записи, для которых ключ получить не удалось, пропускаются.
func DecodeReviews(records []staging.Record) []models.Review {
	reviews := make([]models.Review, 0, len(records))
	for _, rec := range records {
		id := key(rec, "id_review")
		if id == "" {
			id = deriveReviewID(rec)
		}
		if id == "" {
			continue
		}
		reviews = append(reviews, models.Review{
			ReviewID:                id,
			TimestampReview:         nullString(rec, "timestamp_review"),
			PlaceID:                 nullString(rec, "place_id"),
			AuthorName:              nullString(rec, "author_name"),
			AuthorURL:               nullString(rec, "author_url"),
			ReviewText:              nullString(rec, "review_text"),
			Rating:                  nullInt(rec, "rating"),
			Language:                nullString(rec, "language"),
			RelativeTimeDescription: nullString(rec, "relative_time_description"),
		})
	}
	return reviews
}

// deriveReviewID строит ключ <place_id>_<author_url>_<unix-секунды>,
// стабильный между повторными выгрузками одного и того же отзыва
func deriveReviewID(rec staging.Record) string {
	placeID := key(rec, "place_id")
	authorURL := key(rec, "author_url")
	if placeID == "" || authorURL == "" {
		return ""
	}

	raw := rec["timestamp_review"]
	ts, ok := utils.ParseTimestamp(raw)
	if !ok {
		ts, ok = utils.ParseUnixSeconds(raw)
	}
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s_%s_%d", placeID, authorURL, ts.Unix())
}
