package transform

import (
	"github.com/LilVoxy/tourism_etl/ETL/models"
)

// BuildUserDimension строит dim_user из авторов публикаций.
// Публикации без id автора не дают строк измерения.
func BuildUserDimension(tweets []models.Tweet, policy ConflictPolicy, conflicts *[]models.DimensionConflict) ([]models.UserDimension, int) {
	rows := make([]models.UserDimension, 0, len(tweets))
	for _, t := range tweets {
		rows = append(rows, models.UserDimension{
			UserID:       t.AuthorID.String,
			UserLocation: t.AuthorLocation,
		})
	}
	return dedupeValid("dim_user", rows,
		func(d models.UserDimension) string { return d.UserID },
		func(d models.UserDimension) bool { return d.UserID != "" },
		policy, conflicts)
}
