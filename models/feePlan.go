package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/utils"
	"github.com/shopspring/decimal"
)

// FeeHead is a named line item of a plan. Heads have no identity outside
// their plan: every edit replaces the plan's whole head list.
type FeeHead struct {
	ID        int             `gorm:"primary_key" json:"id"`
	PlanId    int             `gorm:"index;not null" json:"plan_id"`
	Name      string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type FeePlan struct {
	ID        int             `gorm:"primary_key" json:"id"`
	Name      string          `gorm:"uniqueIndex;size:100;not null" json:"name" binding:"required"`
	Frequency PayFrequency    `gorm:"size:20;not null" json:"frequency"`
	// TotalAmount is derived: always sum(heads.amount), recomputed and
	// persisted whenever the head list is replaced.
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Heads       []FeeHead       `gorm:"foreignKey:PlanId" json:"heads"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewFeeHead struct {
	Name   string          `json:"name" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type NewFeePlan struct {
	Name      string       `json:"name" binding:"required"`
	Frequency PayFrequency `json:"frequency" binding:"required"`
	Heads     []NewFeeHead `json:"heads" binding:"required"`
}

// SumHeads is the plan total: the exact decimal sum of head amounts.
func SumHeads(heads []NewFeeHead) decimal.Decimal {
	total := decimal.Zero
	for _, h := range heads {
		total = total.Add(h.Amount)
	}
	return total
}

// validateShape checks everything that does not need the database.
func (input *NewFeePlan) validateShape() error {
	if strings.TrimSpace(input.Name) == "" {
		return utils.NewValidationError("plan name is required")
	}
	if !input.Frequency.IsValid() {
		return utils.NewValidationError("invalid frequency")
	}
	if len(input.Heads) == 0 {
		return utils.NewValidationError("at least one fee head is required")
	}
	for _, h := range input.Heads {
		if strings.TrimSpace(h.Name) == "" {
			return utils.NewValidationError("fee head name is required")
		}
		if h.Amount.IsNegative() {
			return utils.NewValidationError("fee head amount cannot be negative")
		}
	}
	return nil
}

func (input *NewFeePlan) validate(ctx context.Context, id int) error {
	if err := input.validateShape(); err != nil {
		return err
	}
	if id > 0 {
		if err := utils.ValidateResourceId[FeePlan](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[FeePlan](ctx, "name", input.Name, id); err != nil {
		return err
	}
	return nil
}

func mapNewHeads(planId int, heads []NewFeeHead) []FeeHead {
	result := make([]FeeHead, 0, len(heads))
	for _, h := range heads {
		result = append(result, FeeHead{
			PlanId: planId,
			Name:   h.Name,
			Amount: h.Amount,
		})
	}
	return result
}

func CreateFeePlan(ctx context.Context, input *NewFeePlan) (*FeePlan, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	plan := FeePlan{
		Name:        input.Name,
		Frequency:   input.Frequency,
		TotalAmount: SumHeads(input.Heads),
		Heads:       mapNewHeads(0, input.Heads),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&plan).Error; err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return nil, &utils.DuplicateError{Field: "name"}
		}
		return nil, err
	}

	return &plan, nil
}

// UpdateFeePlan replaces the plan's entire head list in one transaction:
// old heads are discarded, new ones inserted, total recomputed. Partial
// head edits are not supported; callers resend the full set.
func UpdateFeePlan(ctx context.Context, id int, input *NewFeePlan) (*FeePlan, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	plan, err := utils.FetchModel[FeePlan](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Model(plan).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Frequency":   input.Frequency,
		"TotalAmount": SumHeads(input.Heads),
	}).Error
	if err != nil {
		tx.Rollback()
		if utils.IsDuplicateKeyErr(err) {
			return nil, &utils.DuplicateError{Field: "name"}
		}
		return nil, err
	}

	if err := tx.WithContext(ctx).Where("plan_id = ?", id).Delete(&FeeHead{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	heads := mapNewHeads(id, input.Heads)
	if err := tx.WithContext(ctx).Create(&heads).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	plan.Heads = heads
	return plan, nil
}

// DeleteFeePlan removes the plan and its heads. Enrollments referencing
// the plan are left alone: their ledger rows fall back to total_due = 0.
func DeleteFeePlan(ctx context.Context, id int) (*FeePlan, error) {

	plan, err := utils.FetchModel[FeePlan](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("plan_id = ?", id).Delete(&FeeHead{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(plan).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return plan, nil
}

func GetFeePlan(ctx context.Context, id int) (*FeePlan, error) {
	return utils.FetchModel[FeePlan](ctx, id, "Heads")
}

func GetFeePlans(ctx context.Context) ([]*FeePlan, error) {

	db := config.GetDB()
	var results []*FeePlan
	err := db.WithContext(ctx).Preload("Heads").Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
