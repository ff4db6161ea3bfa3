package transform

import (
	"github.com/shopspring/decimal"

	"github.com/LilVoxy/tourism_etl/ETL/models"
)

// BuildExpenseFacts строит fact_expense; подтверждение расхода необязательно
func BuildExpenseFacts(expenses []models.ExpenseTxn) ([]models.ExpenseFact, int) {
	facts := make([]models.ExpenseFact, 0, len(expenses))
	dropped := 0
	for _, e := range expenses {
		ts, ok := parseInstant(e.Timestamp)
		if e.TxnID == "" || !ok || !present(e.ExpenseNeed) || !present(e.VendorID) ||
			!present(e.DepartmentID) || !e.Amount.Valid || !present(e.ProjectID) {
			dropped++
			continue
		}
		facts = append(facts, models.ExpenseFact{
			TxnID:             e.TxnID,
			TimestampDatetime: ts,
			ExpenseNeed:       e.ExpenseNeed.String,
			VendorID:          e.VendorID.String,
			DepartmentID:      e.DepartmentID.String,
			Amount:            decimal.NewFromInt(e.Amount.Int64),
			Proof:             e.Proof,
			ProjectID:         e.ProjectID.String,
		})
	}
	return facts, dropped
}

// BuildIncomeFacts строит fact_income; подтверждение поступления необязательно
func BuildIncomeFacts(incomes []models.IncomeTxn) ([]models.IncomeFact, int) {
	facts := make([]models.IncomeFact, 0, len(incomes))
	dropped := 0
	for _, i := range incomes {
		ts, ok := parseInstant(i.Timestamp)
		if i.TxnID == "" || !ok || !present(i.IncomeCategory) || !present(i.ContributorID) ||
			!i.Amount.Valid || !present(i.ProjectID) {
			dropped++
			continue
		}
		facts = append(facts, models.IncomeFact{
			TxnID:             i.TxnID,
			TimestampDatetime: ts,
			IncomeCategory:    i.IncomeCategory.String,
			ContributorID:     i.ContributorID.String,
			Amount:            decimal.NewFromInt(i.Amount.Int64),
			Proof:             i.Proof,
			ProjectID:         i.ProjectID.String,
		})
	}
	return facts, dropped
}
