package extractors

import (
	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/staging"
)

// DecodeTweets преобразует канонические записи в публикации.
// Записи без id_tweet пропускаются.
func DecodeTweets(records []staging.Record) []models.Tweet {
	tweets := make([]models.Tweet, 0, len(records))
	for _, rec := range records {
		id := key(rec, "id_tweet")
		if id == "" {
			continue
		}
		tweets = append(tweets, models.Tweet{
			TweetID:         id,
			PlaceIDSource:   nullString(rec, "place_id_source"),
			KeywordSearch:   nullString(rec, "keyword_search"),
			CreatedAtTweet:  nullString(rec, "created_at_tweet"),
			TextTweet:       nullString(rec, "text_tweet"),
			LangTweet:       nullString(rec, "lang_tweet"),
			RetweetCount:    nullInt(rec, "retweet_count"),
			ReplyCount:      nullInt(rec, "reply_count"),
			LikeCount:       nullInt(rec, "like_count"),
			QuoteCount:      nullInt(rec, "quote_count"),
			ImpressionCount: nullInt(rec, "impression_count"),
			AuthorID:        nullString(rec, "id_author_twitter"),
			AuthorUsername:  nullString(rec, "author_username"),
			AuthorName:      nullString(rec, "author_name"),
			AuthorLocation:  nullString(rec, "author_location"),
			AuthorVerified:  nullBool(rec, "author_verified"),
			TweetGeoPlaceID: nullString(rec, "tweet_geo_place_id"),
		})
	}
	return tweets
}
