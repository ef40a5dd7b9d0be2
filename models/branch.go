package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/utils"
)

type Branch struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBranch struct {
	Name string `json:"name" binding:"required"`
}

func CreateBranch(ctx context.Context, input *NewBranch) (*Branch, error) {

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, utils.NewValidationError("branch name is required")
	}
	if err := utils.ValidateUnique[Branch](ctx, "name", name, 0); err != nil {
		return nil, err
	}

	branch := Branch{
		Name: name,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&branch).Error; err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return nil, &utils.DuplicateError{Field: "name"}
		}
		return nil, err
	}

	// invalidate list cache
	if err := utils.RemoveRedisList[Branch](); err != nil {
		return nil, err
	}

	return &branch, nil
}

// DeleteBranch removes the branch unconditionally. Students pointing at it
// keep their branch_id; reads resolve the missing name to absent.
func DeleteBranch(ctx context.Context, id int) (*Branch, error) {
	result, err := utils.DeleteModel[Branch](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisList[Branch](); err != nil {
		return nil, err
	}
	return result, nil
}

func GetBranches(ctx context.Context) ([]*Branch, error) {
	results, err := utils.RetrieveRedisList[Branch]()
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[Branch](ctx, "id")
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[Branch](results); err != nil {
			return nil, err
		}
	}
	return results, nil
}
