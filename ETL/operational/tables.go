package operational

import (
	"github.com/LilVoxy/tourism_etl/ETL/models"
)

// ColumnType - логический тип колонки операционной таблицы
type ColumnType int

const (
	TypeKey ColumnType = iota
	TypeText
	TypeFloat
	TypeInt
	TypeBool
)

// Column описывает колонку операционной таблицы
type Column struct {
	Name string
	Type ColumnType
}

// Table связывает сущность с ее таблицей: имя, ключ, колонки и доступ к значениям.
// Первая колонка - естественный ключ; Values и Fields возвращают значения в порядке Columns.
type Table[T any] struct {
	Name      string
	KeyColumn string
	Columns   []Column
	Key       func(T) string
	Values    func(T) []any
	Fields    func(*T) []any
}

// ColumnNames возвращает имена колонок в порядке объявления
func (t Table[T]) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

var PlacesTable = Table[models.Place]{
	Name:      "places",
	KeyColumn: "place_id",
	Columns: []Column{
		{"place_id", TypeKey},
		{"name", TypeText},
		{"phone_number", TypeText},
		{"opening_hours_text", TypeText},
		{"types", TypeText},
		{"address", TypeText},
		{"lat", TypeFloat},
		{"lng", TypeFloat},
		{"rating_search", TypeFloat},
		{"user_ratings_total_search", TypeInt},
	},
	Key: func(p models.Place) string { return p.PlaceID },
	Values: func(p models.Place) []any {
		return []any{p.PlaceID, p.Name, p.PhoneNumber, p.OpeningHoursText, p.Types,
			p.Address, p.Lat, p.Lng, p.RatingSearch, p.UserRatingsTotalSearch}
	},
	Fields: func(p *models.Place) []any {
		return []any{&p.PlaceID, &p.Name, &p.PhoneNumber, &p.OpeningHoursText, &p.Types,
			&p.Address, &p.Lat, &p.Lng, &p.RatingSearch, &p.UserRatingsTotalSearch}
	},
}

var ReviewsTable = Table[models.Review]{
	Name:      "reviews",
	KeyColumn: "id_review",
	Columns: []Column{
		{"id_review", TypeKey},
		{"timestamp_review", TypeText},
		{"place_id", TypeText},
		{"author_name", TypeText},
		{"author_url", TypeText},
		{"review_text", TypeText},
		{"rating", TypeInt},
		{"language", TypeText},
		{"relative_time_description", TypeText},
	},
	Key: func(r models.Review) string { return r.ReviewID },
	Values: func(r models.Review) []any {
		return []any{r.ReviewID, r.TimestampReview, r.PlaceID, r.AuthorName, r.AuthorURL,
			r.ReviewText, r.Rating, r.Language, r.RelativeTimeDescription}
	},
	Fields: func(r *models.Review) []any {
		return []any{&r.ReviewID, &r.TimestampReview, &r.PlaceID, &r.AuthorName, &r.AuthorURL,
			&r.ReviewText, &r.Rating, &r.Language, &r.RelativeTimeDescription}
	},
}

var TweetsTable = Table[models.Tweet]{
	Name:      "tweets",
	KeyColumn: "id_tweet",
	Columns: []Column{
		{"id_tweet", TypeKey},
		{"place_id_source", TypeText},
		{"keyword_search", TypeText},
		{"created_at_tweet", TypeText},
		{"text_tweet", TypeText},
		{"lang_tweet", TypeText},
		{"retweet_count", TypeInt},
		{"reply_count", TypeInt},
		{"like_count", TypeInt},
		{"quote_count", TypeInt},
		{"impression_count", TypeInt},
		{"id_author_twitter", TypeText},
		{"author_username", TypeText},
		{"author_name", TypeText},
		{"author_location", TypeText},
		{"author_verified", TypeBool},
		{"tweet_geo_place_id", TypeText},
	},
	Key: func(t models.Tweet) string { return t.TweetID },
	Values: func(t models.Tweet) []any {
		return []any{t.TweetID, t.PlaceIDSource, t.KeywordSearch, t.CreatedAtTweet, t.TextTweet,
			t.LangTweet, t.RetweetCount, t.ReplyCount, t.LikeCount, t.QuoteCount,
			t.ImpressionCount, t.AuthorID, t.AuthorUsername, t.AuthorName,
			t.AuthorLocation, t.AuthorVerified, t.TweetGeoPlaceID}
	},
	Fields: func(t *models.Tweet) []any {
		return []any{&t.TweetID, &t.PlaceIDSource, &t.KeywordSearch, &t.CreatedAtTweet, &t.TextTweet,
			&t.LangTweet, &t.RetweetCount, &t.ReplyCount, &t.LikeCount, &t.QuoteCount,
			&t.ImpressionCount, &t.AuthorID, &t.AuthorUsername, &t.AuthorName,
			&t.AuthorLocation, &t.AuthorVerified, &t.TweetGeoPlaceID}
	},
}

var IncomeTable = Table[models.IncomeTxn]{
	Name:      "pemasukan",
	KeyColumn: "id_transaksi_original",
	Columns: []Column{
		{"id_transaksi_original", TypeKey},
		{"timestamp", TypeText},
		{"id_proyek", TypeText},
		{"nama_proyek", TypeText},
		{"sektor_pariwisata", TypeText},
		{"id_penyumbang", TypeText},
		{"nama_penyumbang", TypeText},
		{"jenis_penyumbang", TypeText},
		{"jenis_pemasukan", TypeText},
		{"jumlah", TypeInt},
		{"bukti", TypeText},
	},
	Key: func(t models.IncomeTxn) string { return t.TxnID },
	Values: func(t models.IncomeTxn) []any {
		return []any{t.TxnID, t.Timestamp, t.ProjectID, t.ProjectName, t.TourismSector,
			t.ContributorID, t.ContributorName, t.ContributorType, t.IncomeCategory, t.Amount, t.Proof}
	},
	Fields: func(t *models.IncomeTxn) []any {
		return []any{&t.TxnID, &t.Timestamp, &t.ProjectID, &t.ProjectName, &t.TourismSector,
			&t.ContributorID, &t.ContributorName, &t.ContributorType, &t.IncomeCategory, &t.Amount, &t.Proof}
	},
}

var ExpenseTable = Table[models.ExpenseTxn]{
	Name:      "pengeluaran",
	KeyColumn: "id_transaksi_original",
	Columns: []Column{
		{"id_transaksi_original", TypeKey},
		{"timestamp", TypeText},
		{"id_proyek", TypeText},
		{"nama_proyek", TypeText},
		{"sektor_pariwisata", TypeText},
		{"id_vendor", TypeText},
		{"nama_vendor", TypeText},
		{"id_departemen", TypeText},
		{"nama_departemen", TypeText},
		{"jenis_kebutuhan", TypeText},
		{"jumlah", TypeInt},
		{"bukti", TypeText},
	},
	Key: func(t models.ExpenseTxn) string { return t.TxnID },
	Values: func(t models.ExpenseTxn) []any {
		return []any{t.TxnID, t.Timestamp, t.ProjectID, t.ProjectName, t.TourismSector,
			t.VendorID, t.VendorName, t.DepartmentID, t.DepartmentName, t.ExpenseNeed, t.Amount, t.Proof}
	},
	Fields: func(t *models.ExpenseTxn) []any {
		return []any{&t.TxnID, &t.Timestamp, &t.ProjectID, &t.ProjectName, &t.TourismSector,
			&t.VendorID, &t.VendorName, &t.DepartmentID, &t.DepartmentName, &t.ExpenseNeed, &t.Amount, &t.Proof}
	},
}

// TableDef - описание таблицы без привязки к типу сущности, для DDL
type TableDef struct {
	Name    string
	Columns []Column
}

// AllTables перечисляет операционные таблицы в порядке создания
var AllTables = []TableDef{
	{PlacesTable.Name, PlacesTable.Columns},
	{ReviewsTable.Name, ReviewsTable.Columns},
	{TweetsTable.Name, TweetsTable.Columns},
	{IncomeTable.Name, IncomeTable.Columns},
	{ExpenseTable.Name, ExpenseTable.Columns},
}
