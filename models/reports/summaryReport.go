package reports

import (
	"context"

	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/models"
	"github.com/shopspring/decimal"
)

// SummaryResponse is the dashboard payload. It is recomputed from the DB
// on every call; the dataset (one institution's fee records) is far too
// small to justify a cache.
type SummaryResponse struct {
	TotalCollections   decimal.Decimal          `json:"totalCollections"`
	StudentCount       int64                    `json:"studentCount"`
	PlanCount          int64                    `json:"planCount"`
	RecentTransactions []*models.TransactionRow `json:"recentTransactions"`
}

func GetSummary(ctx context.Context) (*SummaryResponse, error) {

	db := config.GetDB()

	var response SummaryResponse

	err := db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&response.TotalCollections).Error
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Model(&models.Student{}).Count(&response.StudentCount).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&models.FeePlan{}).Count(&response.PlanCount).Error; err != nil {
		return nil, err
	}

	recentSQL := `
SELECT
    t.*,
    s.name AS student_name,
    s.roll_no AS roll_no
FROM transactions t
    LEFT JOIN students s ON s.id = t.student_id
ORDER BY t.created_at DESC, t.id DESC
LIMIT 5`
	if err := db.WithContext(ctx).Raw(recentSQL).Scan(&response.RecentTransactions).Error; err != nil {
		return nil, err
	}
	if response.RecentTransactions == nil {
		response.RecentTransactions = []*models.TransactionRow{}
	}

	return &response, nil
}
