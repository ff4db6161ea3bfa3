package models

// MartTables содержит все таблицы витрины, построенные за один запуск
type MartTables struct {
	// Измерения
	Times        []TimeDimension
	Places       []PlaceDimension
	Users        []UserDimension
	Vendors      []VendorDimension
	Departments  []DepartmentDimension
	Projects     []ProjectDimension
	Contributors []ContributorDimension

	// Факты
	Reviews  []ReviewFact
	Socials  []SocialFact
	Expenses []ExpenseFact
	Incomes  []IncomeFact

	// Конфликты атрибутов измерений, обнаруженные при дедупликации
	Conflicts []DimensionConflict

	// Количество строк, отброшенных фильтром обязательных полей, по таблицам
	Dropped map[string]int
}
