package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// TimeDimension представляет временное измерение (dim_time)
type TimeDimension struct {
	TimestampDatetime time.Time
	TimeOfDay         string // HH:MM:SS
	DayName           string
	Date              time.Time
	Month             string // YYYY-MM
	Year              int
}

// PlaceDimension представляет измерение мест (dim_place)
type PlaceDimension struct {
	PlaceID      string
	Name         string
	Latitude     float64
	Longitude    float64
	PlaceType    string
	Contact      sql.NullString
	OpeningHours sql.NullString
}

// UserDimension представляет измерение авторов публикаций (dim_user)
type UserDimension struct {
	UserID       string
	UserLocation sql.NullString
}

// VendorDimension представляет измерение поставщиков (dim_vendor)
type VendorDimension struct {
	VendorID   string
	VendorName string
}

// DepartmentDimension представляет измерение отделов (dim_department)
type DepartmentDimension struct {
	DepartmentID   string
	DepartmentName string
}

// ProjectDimension представляет измерение проектов (dim_project)
type ProjectDimension struct {
	ProjectID     string
	ProjectName   string
	TourismSector string
}

// ContributorDimension представляет измерение источников поступлений (dim_contributor)
type ContributorDimension struct {
	ContributorID   string
	ContributorName string
	ContributorType string
}

// ReviewFact представляет факт отзыва (fact_review)
type ReviewFact struct {
	ReviewID          string
	TimestampDatetime time.Time
	PlaceID           string
	AuthorURL         string
	ReviewLongtext    string
	Rating            float64
}

// SocialFact представляет факт публикации (fact_social)
type SocialFact struct {
	TweetID           string
	CreatedAtDatetime time.Time
	UserID            string
	LocationName      string
	TextTweet         string
}

// ExpenseFact представляет факт расхода (fact_expense)
type ExpenseFact struct {
	TxnID             string
	TimestampDatetime time.Time
	ExpenseNeed       string
	VendorID          string
	DepartmentID      string
	Amount            decimal.Decimal
	Proof             sql.NullString
	ProjectID         string
}

// IncomeFact представляет факт поступления (fact_income)
type IncomeFact struct {
	TxnID             string
	TimestampDatetime time.Time
	IncomeCategory    string
	ContributorID     string
	Amount            decimal.Decimal
	Proof             sql.NullString
	ProjectID         string
}

// DimensionConflict описывает ключ измерения, встреченный с разными атрибутами
type DimensionConflict struct {
	Table string
	Key   string
	Kept  string
	Other string
}
