package extractors

// Канонические колонки операционных таблиц
var (
	PlaceMapping = ColumnMapping{
		Renames: map[string]string{
			"name_detail":    "name",
			"types_detail":   "types",
			"address_detail": "address",
			"lat_detail":     "lat",
			"lng_detail":     "lng",
		},
		Keep: []string{
			"place_id", "name", "phone_number", "opening_hours_text", "types",
			"address", "lat", "lng", "rating_search", "user_ratings_total_search",
		},
	}

	ReviewMapping = ColumnMapping{
		Keep: []string{
			"id_review", "timestamp_review", "place_id", "author_name", "author_url",
			"review_text", "rating", "language", "relative_time_description",
		},
	}

	TweetMapping = ColumnMapping{
		Keep: []string{
			"id_tweet", "place_id_source", "keyword_search", "created_at_tweet", "text_tweet",
			"lang_tweet", "retweet_count", "reply_count", "like_count", "quote_count",
			"impression_count", "id_author_twitter", "author_username", "author_name",
			"author_location", "author_verified", "tweet_geo_place_id",
		},
	}

	IncomeMapping = ColumnMapping{
		Keep: []string{
			"id_transaksi_original", "timestamp", "id_proyek", "nama_proyek", "sektor_pariwisata",
			"id_penyumbang", "nama_penyumbang", "jenis_penyumbang", "jenis_pemasukan", "jumlah", "bukti",
		},
	}

	ExpenseMapping = ColumnMapping{
		Keep: []string{
			"id_transaksi_original", "timestamp", "id_proyek", "nama_proyek", "sektor_pariwisata",
			"id_vendor", "nama_vendor", "id_departemen", "nama_departemen", "jenis_kebutuhan", "jumlah", "bukti",
		},
	}
)
