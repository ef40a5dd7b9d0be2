package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/utils"
)

type Semester struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSemester struct {
	Name string `json:"name" binding:"required"`
}

func CreateSemester(ctx context.Context, input *NewSemester) (*Semester, error) {

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, utils.NewValidationError("semester name is required")
	}
	if err := utils.ValidateUnique[Semester](ctx, "name", name, 0); err != nil {
		return nil, err
	}

	semester := Semester{
		Name: name,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&semester).Error; err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return nil, &utils.DuplicateError{Field: "name"}
		}
		return nil, err
	}

	if err := utils.RemoveRedisList[Semester](); err != nil {
		return nil, err
	}

	return &semester, nil
}

func DeleteSemester(ctx context.Context, id int) (*Semester, error) {
	result, err := utils.DeleteModel[Semester](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisList[Semester](); err != nil {
		return nil, err
	}
	return result, nil
}

func GetSemesters(ctx context.Context) ([]*Semester, error) {
	results, err := utils.RetrieveRedisList[Semester]()
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[Semester](ctx, "id")
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[Semester](results); err != nil {
			return nil, err
		}
	}
	return results, nil
}
