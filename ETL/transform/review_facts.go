package transform

import (
	"github.com/LilVoxy/tourism_etl/ETL/models"
)

// BuildReviewFacts строит fact_review. Отзыв без id, разбираемого времени,
// ссылки на место, автора, текста или оценки отбрасывается.
func BuildReviewFacts(reviews []models.Review) ([]models.ReviewFact, int) {
	facts := make([]models.ReviewFact, 0, len(reviews))
	dropped := 0
	for _, r := range reviews {
		ts, ok := parseInstant(r.TimestampReview)
		if r.ReviewID == "" || !ok || !present(r.PlaceID) || !present(r.AuthorURL) ||
			!present(r.ReviewText) || !r.Rating.Valid {
			dropped++
			continue
		}
		facts = append(facts, models.ReviewFact{
			ReviewID:          r.ReviewID,
			TimestampDatetime: ts,
			PlaceID:           r.PlaceID.String,
			AuthorURL:         r.AuthorURL.String,
			ReviewLongtext:    r.ReviewText.String,
			Rating:            float64(r.Rating.Int64),
		})
	}
	return facts, dropped
}
