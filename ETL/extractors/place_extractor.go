package extractors

import (
	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/staging"
)

// DecodePlaces преобразует канонические записи в места.
// Записи без place_id пропускаются.
func DecodePlaces(records []staging.Record) []models.Place {
	places := make([]models.Place, 0, len(records))
	for _, rec := range records {
		id := key(rec, "place_id")
		if id == "" {
			continue
		}
		places = append(places, models.Place{
			PlaceID:                id,
			Name:                   nullString(rec, "name"),
			PhoneNumber:            nullString(rec, "phone_number"),
			OpeningHoursText:       nullString(rec, "opening_hours_text"),
			Types:                  nullString(rec, "types"),
			Address:                nullString(rec, "address"),
			Lat:                    nullFloat(rec, "lat"),
			Lng:                    nullFloat(rec, "lng"),
			RatingSearch:           nullFloat(rec, "rating_search"),
			UserRatingsTotalSearch: nullInt(rec, "user_ratings_total_search"),
		})
	}
	return places
}
