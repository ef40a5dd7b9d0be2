package reports

import (
	"context"

	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/shopspring/decimal"
)

// LedgerRow is the derived per-student balance view. Nothing here is
// stored: total_due comes from the plan (0 when the plan was deleted),
// total_paid is the payment sum, balance is their difference. Negative
// balances (overpayment) are surfaced as-is.
type LedgerRow struct {
	StudentId int             `json:"id"`
	Name      string          `json:"name"`
	RollNo    string          `json:"roll_no"`
	PlanName  *string         `json:"plan_name"`
	TotalDue  decimal.Decimal `json:"total_due"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Balance   decimal.Decimal `json:"balance"`
}

const ledgerSQL = `
SELECT
    s.id AS student_id,
    s.name,
    s.roll_no,
    fp.name AS plan_name,
    COALESCE(fp.total_amount, 0) AS total_due,
    COALESCE(tp.total_paid, 0) AS total_paid,
    COALESCE(fp.total_amount, 0) - COALESCE(tp.total_paid, 0) AS balance
FROM students s
    LEFT JOIN fee_plans fp ON fp.id = s.plan_id
    LEFT JOIN (
        SELECT student_id, SUM(amount) AS total_paid
        FROM transactions
        GROUP BY student_id
    ) tp ON tp.student_id = s.id
ORDER BY s.roll_no`

func GetLedger(ctx context.Context) ([]*LedgerRow, error) {

	db := config.GetDB()
	var rows []*LedgerRow
	if err := db.WithContext(ctx).Raw(ledgerSQL).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*LedgerRow{}
	}
	return rows, nil
}
