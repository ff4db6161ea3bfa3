package transform

import (
	"github.com/LilVoxy/tourism_etl/ETL/models"
)

// BuildPlaceDimension строит dim_place. Места без названия, координат или типа
// исключаются; контакт и часы работы необязательны.
func BuildPlaceDimension(places []models.Place, policy ConflictPolicy, conflicts *[]models.DimensionConflict) ([]models.PlaceDimension, int) {
	rows := make([]models.PlaceDimension, 0, len(places))
	dropped := 0
	for _, p := range places {
		if p.PlaceID == "" || !present(p.Name) || !p.Lat.Valid || !p.Lng.Valid || !present(p.Types) {
			dropped++
			continue
		}
		rows = append(rows, models.PlaceDimension{
			PlaceID:      p.PlaceID,
			Name:         p.Name.String,
			Latitude:     p.Lat.Float64,
			Longitude:    p.Lng.Float64,
			PlaceType:    p.Types.String,
			Contact:      p.PhoneNumber,
			OpeningHours: p.OpeningHoursText,
		})
	}
	rows = dedupe("dim_place", rows, func(d models.PlaceDimension) string { return d.PlaceID }, policy, conflicts)
	return rows, dropped
}
