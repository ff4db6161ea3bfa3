package transform

import (
	"github.com/LilVoxy/tourism_etl/ETL/models"
)

// BuildVendorDimension строит dim_vendor из расходов
func BuildVendorDimension(expenses []models.ExpenseTxn, policy ConflictPolicy, conflicts *[]models.DimensionConflict) ([]models.VendorDimension, int) {
	rows := make([]models.VendorDimension, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, models.VendorDimension{VendorID: e.VendorID.String, VendorName: e.VendorName.String})
	}
	return dedupeValid("dim_vendor", rows,
		func(d models.VendorDimension) string { return d.VendorID },
		func(d models.VendorDimension) bool { return filled(d.VendorID, d.VendorName) },
		policy, conflicts)
}

// BuildDepartmentDimension строит dim_department из расходов
func BuildDepartmentDimension(expenses []models.ExpenseTxn, policy ConflictPolicy, conflicts *[]models.DimensionConflict) ([]models.DepartmentDimension, int) {
	rows := make([]models.DepartmentDimension, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, models.DepartmentDimension{DepartmentID: e.DepartmentID.String, DepartmentName: e.DepartmentName.String})
	}
	return dedupeValid("dim_department", rows,
		func(d models.DepartmentDimension) string { return d.DepartmentID },
		func(d models.DepartmentDimension) bool { return filled(d.DepartmentID, d.DepartmentName) },
		policy, conflicts)
}

// BuildContributorDimension строит dim_contributor из поступлений
func BuildContributorDimension(incomes []models.IncomeTxn, policy ConflictPolicy, conflicts *[]models.DimensionConflict) ([]models.ContributorDimension, int) {
	rows := make([]models.ContributorDimension, 0, len(incomes))
	for _, i := range incomes {
		rows = append(rows, models.ContributorDimension{
			ContributorID:   i.ContributorID.String,
			ContributorName: i.ContributorName.String,
			ContributorType: i.ContributorType.String,
		})
	}
	return dedupeValid("dim_contributor", rows,
		func(d models.ContributorDimension) string { return d.ContributorID },
		func(d models.ContributorDimension) bool {
			return filled(d.ContributorID, d.ContributorName, d.ContributorType)
		},
		policy, conflicts)
}

// BuildProjectDimension строит dim_project из поступлений и расходов:
// сначала строки поступлений, затем расходов, каждая группа в порядке снимка
func BuildProjectDimension(incomes []models.IncomeTxn, expenses []models.ExpenseTxn, policy ConflictPolicy, conflicts *[]models.DimensionConflict) ([]models.ProjectDimension, int) {
	rows := make([]models.ProjectDimension, 0, len(incomes)+len(expenses))
	for _, i := range incomes {
		rows = append(rows, models.ProjectDimension{
			ProjectID: i.ProjectID.String, ProjectName: i.ProjectName.String, TourismSector: i.TourismSector.String,
		})
	}
	for _, e := range expenses {
		rows = append(rows, models.ProjectDimension{
			ProjectID: e.ProjectID.String, ProjectName: e.ProjectName.String, TourismSector: e.TourismSector.String,
		})
	}
	return dedupeValid("dim_project", rows,
		func(d models.ProjectDimension) string { return d.ProjectID },
		func(d models.ProjectDimension) bool { return filled(d.ProjectID, d.ProjectName, d.TourismSector) },
		policy, conflicts)
}
