package models

import (
	"database/sql"
)

// Place представляет место (объект туризма) в операционной базе данных
type Place struct {
	PlaceID                string
	Name                   sql.NullString
	PhoneNumber            sql.NullString
	OpeningHoursText       sql.NullString
	Types                  sql.NullString
	Address                sql.NullString
	Lat                    sql.NullFloat64
	Lng                    sql.NullFloat64
	RatingSearch           sql.NullFloat64
	UserRatingsTotalSearch sql.NullInt64
}

// Review представляет отзыв о месте
type Review struct {
	ReviewID                string
	TimestampReview         sql.NullString
	PlaceID                 sql.NullString
	AuthorName              sql.NullString
	AuthorURL               sql.NullString
	ReviewText              sql.NullString
	Rating                  sql.NullInt64
	Language                sql.NullString
	RelativeTimeDescription sql.NullString
}

// Tweet представляет публикацию из социальной сети
type Tweet struct {
	TweetID         string
	PlaceIDSource   sql.NullString
	KeywordSearch   sql.NullString
	CreatedAtTweet  sql.NullString
	TextTweet       sql.NullString
	LangTweet       sql.NullString
	RetweetCount    sql.NullInt64
	ReplyCount      sql.NullInt64
	LikeCount       sql.NullInt64
	QuoteCount      sql.NullInt64
	ImpressionCount sql.NullInt64
	AuthorID        sql.NullString
	AuthorUsername  sql.NullString
	AuthorName      sql.NullString
	AuthorLocation  sql.NullString
	AuthorVerified  sql.NullBool
	TweetGeoPlaceID sql.NullString
}

// IncomeTxn представляет ручную запись о поступлении (pemasukan)
type IncomeTxn struct {
	TxnID           string
	Timestamp       sql.NullString
	ProjectID       sql.NullString
	ProjectName     sql.NullString
	TourismSector   sql.NullString
	ContributorID   sql.NullString
	ContributorName sql.NullString
	ContributorType sql.NullString
	IncomeCategory  sql.NullString
	Amount          sql.NullInt64
	Proof           sql.NullString
}

// ExpenseTxn представляет ручную запись о расходе (pengeluaran)
type ExpenseTxn struct {
	TxnID          string
	Timestamp      sql.NullString
	ProjectID      sql.NullString
	ProjectName    sql.NullString
	TourismSector  sql.NullString
	VendorID       sql.NullString
	VendorName     sql.NullString
	DepartmentID   sql.NullString
	DepartmentName sql.NullString
	ExpenseNeed    sql.NullString
	Amount         sql.NullInt64
	Proof          sql.NullString
}

// StagedData содержит нормализованные записи, извлечённые из staging-области
type StagedData struct {
	Places   []Place
	Reviews  []Review
	Tweets   []Tweet
	Incomes  []IncomeTxn
	Expenses []ExpenseTxn
}

// OperationalSnapshot содержит полное содержимое операционных таблиц
type OperationalSnapshot struct {
	Places   []Place
	Reviews  []Review
	Tweets   []Tweet
	Incomes  []IncomeTxn
	Expenses []ExpenseTxn
}
