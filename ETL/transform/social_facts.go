package transform

import (
	"github.com/LilVoxy/tourism_etl/ETL/models"
)

// BuildSocialFacts строит fact_social: публикации соединяются с местами
// по place_id_source, чтобы получить название места. Публикации, для которых
// название не нашлось, отбрасываются вместе с неполными.
func BuildSocialFacts(tweets []models.Tweet, places []models.Place) ([]models.SocialFact, int) {
	names := make(map[string]string, len(places))
	for _, p := range places {
		if !present(p.Name) {
			continue
		}
		if _, ok := names[p.PlaceID]; !ok {
			names[p.PlaceID] = p.Name.String
		}
	}

	facts := make([]models.SocialFact, 0, len(tweets))
	dropped := 0
	for _, t := range tweets {
		var location string
		if t.PlaceIDSource.Valid {
			location = names[t.PlaceIDSource.String]
		}
		ts, ok := parseInstant(t.CreatedAtTweet)
		if t.TweetID == "" || !ok || !present(t.AuthorID) || location == "" || !present(t.TextTweet) {
			dropped++
			continue
		}
		facts = append(facts, models.SocialFact{
			TweetID:           t.TweetID,
			CreatedAtDatetime: ts,
			UserID:            t.AuthorID.String,
			LocationName:      location,
			TextTweet:         t.TextTweet.String,
		})
	}
	return facts, dropped
}
