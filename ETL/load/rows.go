package load

import (
	"github.com/LilVoxy/tourism_etl/ETL/models"
)

// Batch - строки одной таблицы витрины, готовые к записи
type Batch struct {
	Table MartTable
	Rows  [][]any
}

func timeRows(dims []models.TimeDimension) [][]any {
	rows := make([][]any, len(dims))
	for i, d := range dims {
		rows[i] = []any{d.TimestampDatetime, d.TimeOfDay, d.DayName, d.Date, d.Month, d.Year}
	}
	return rows
}

func placeRows(dims []models.PlaceDimension) [][]any {
	rows := make([][]any, len(dims))
	for i, d := range dims {
		rows[i] = []any{d.PlaceID, d.Name, d.Latitude, d.Longitude, d.PlaceType, d.Contact, d.OpeningHours}
	}
	return rows
}

func userRows(dims []models.UserDimension) [][]any {
	rows := make([][]any, len(dims))
	for i, d := range dims {
		rows[i] = []any{d.UserID, d.UserLocation}
	}
	return rows
}

func vendorRows(dims []models.VendorDimension) [][]any {
	rows := make([][]any, len(dims))
	for i, d := range dims {
		rows[i] = []any{d.VendorID, d.VendorName}
	}
	return rows
}

func departmentRows(dims []models.DepartmentDimension) [][]any {
	rows := make([][]any, len(dims))
	for i, d := range dims {
		rows[i] = []any{d.DepartmentID, d.DepartmentName}
	}
	return rows
}

func projectRows(dims []models.ProjectDimension) [][]any {
	rows := make([][]any, len(dims))
	for i, d := range dims {
		rows[i] = []any{d.ProjectID, d.ProjectName, d.TourismSector}
	}
	return rows
}

func contributorRows(dims []models.ContributorDimension) [][]any {
	rows := make([][]any, len(dims))
	for i, d := range dims {
		rows[i] = []any{d.ContributorID, d.ContributorName, d.ContributorType}
	}
	return rows
}

func reviewRows(facts []models.ReviewFact) [][]any {
	rows := make([][]any, len(facts))
	for i, f := range facts {
		rows[i] = []any{f.ReviewID, f.TimestampDatetime, f.PlaceID, f.AuthorURL, f.ReviewLongtext, f.Rating}
	}
	return rows
}

func socialRows(facts []models.SocialFact) [][]any {
	rows := make([][]any, len(facts))
	for i, f := range facts {
		rows[i] = []any{f.TweetID, f.CreatedAtDatetime, f.UserID, f.LocationName, f.TextTweet}
	}
	return rows
}

func expenseRows(facts []models.ExpenseFact) [][]any {
	rows := make([][]any, len(facts))
	for i, f := range facts {
		rows[i] = []any{f.TxnID, f.TimestampDatetime, f.ExpenseNeed, f.VendorID, f.DepartmentID, f.Amount, f.Proof, f.ProjectID}
	}
	return rows
}

func incomeRows(facts []models.IncomeFact) [][]any {
	rows := make([][]any, len(facts))
	for i, f := range facts {
		rows[i] = []any{f.TxnID, f.TimestampDatetime, f.IncomeCategory, f.ContributorID, f.Amount, f.Proof, f.ProjectID}
	}
	return rows
}

// Batches раскладывает таблицы витрины по порядку записи: сначала измерения, затем факты
func Batches(tables *models.MartTables) []Batch {
	return []Batch{
		{DimTime, timeRows(tables.Times)},
		{DimPlace, placeRows(tables.Places)},
		{DimUser, userRows(tables.Users)},
		{DimVendor, vendorRows(tables.Vendors)},
		{DimDepartment, departmentRows(tables.Departments)},
		{DimProject, projectRows(tables.Projects)},
		{DimContributor, contributorRows(tables.Contributors)},
		{FactReview, reviewRows(tables.Reviews)},
		{FactSocial, socialRows(tables.Socials)},
		{FactExpense, expenseRows(tables.Expenses)},
		{FactIncome, incomeRows(tables.Incomes)},
	}
}
