package transform

import (
	"time"

	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// Transformer строит таблицы витрины из снимка операционной БД
type Transformer struct {
	policy ConflictPolicy
	logger *utils.ETLLogger
}

// NewTransformer создает новый экземпляр Transformer
func NewTransformer(policy ConflictPolicy, logger *utils.ETLLogger) *Transformer {
	return &Transformer{
		policy: policy,
		logger: logger,
	}
}

// Build выполняет проход по измерениям, затем по фактам. Результат зависит
// только от снимка и политики конфликтов.
func (t *Transformer) Build(snap *models.OperationalSnapshot) *models.MartTables {
	startTime := time.Now()
	t.logger.Info("Начало фазы Transform (построение витрины)")

	mart := &models.MartTables{Dropped: make(map[string]int)}
	var dropped int

	// Измерения
	mart.Times, dropped = BuildTimeDimension(snap)
	t.countDropped(mart, "dim_time", dropped)
	mart.Places, dropped = BuildPlaceDimension(snap.Places, t.policy, &mart.Conflicts)
	t.countDropped(mart, "dim_place", dropped)
	mart.Users, dropped = BuildUserDimension(snap.Tweets, t.policy, &mart.Conflicts)
	t.countDropped(mart, "dim_user", dropped)
	mart.Vendors, dropped = BuildVendorDimension(snap.Expenses, t.policy, &mart.Conflicts)
	t.countDropped(mart, "dim_vendor", dropped)
	mart.Departments, dropped = BuildDepartmentDimension(snap.Expenses, t.policy, &mart.Conflicts)
	t.countDropped(mart, "dim_department", dropped)
	mart.Projects, dropped = BuildProjectDimension(snap.Incomes, snap.Expenses, t.policy, &mart.Conflicts)
	t.countDropped(mart, "dim_project", dropped)
	mart.Contributors, dropped = BuildContributorDimension(snap.Incomes, t.policy, &mart.Conflicts)
	t.countDropped(mart, "dim_contributor", dropped)

	// Факты
	mart.Reviews, dropped = BuildReviewFacts(snap.Reviews)
	t.countDropped(mart, "fact_review", dropped)
	mart.Socials, dropped = BuildSocialFacts(snap.Tweets, snap.Places)
	t.countDropped(mart, "fact_social", dropped)
	mart.Expenses, dropped = BuildExpenseFacts(snap.Expenses)
	t.countDropped(mart, "fact_expense", dropped)
	mart.Incomes, dropped = BuildIncomeFacts(snap.Incomes)
	t.countDropped(mart, "fact_income", dropped)

	for _, c := range mart.Conflicts {
		t.logger.Warn("Конфликт атрибутов в %s для ключа %s (политика %s): оставлено %s, отброшено %s",
			c.Table, c.Key, t.policy, c.Kept, c.Other)
	}

	t.logger.Info("Фаза Transform завершена. Измерений: время %d, места %d, пользователи %d, поставщики %d, отделы %d, проекты %d, источники %d",
		len(mart.Times), len(mart.Places), len(mart.Users), len(mart.Vendors),
		len(mart.Departments), len(mart.Projects), len(mart.Contributors))
	t.logger.Info("Фактов: отзывы %d, публикации %d, расходы %d, поступления %d. Конфликтов: %d. Длительность: %v",
		len(mart.Reviews), len(mart.Socials), len(mart.Expenses), len(mart.Incomes),
		len(mart.Conflicts), time.Since(startTime))

	return mart
}

func (t *Transformer) countDropped(mart *models.MartTables, table string, n int) {
	if n == 0 {
		return
	}
	mart.Dropped[table] = n
	t.logger.Debug("%s: отброшено %d строк без обязательных полей", table, n)
}
