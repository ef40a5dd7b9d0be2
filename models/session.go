package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/utils"
)

// AcademicSession is a named academic year/session ("2025-26").
// The table keeps the original "sessions" name.
type AcademicSession struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AcademicSession) TableName() string {
	return "sessions"
}

type NewAcademicSession struct {
	Name string `json:"name" binding:"required"`
}

func CreateAcademicSession(ctx context.Context, input *NewAcademicSession) (*AcademicSession, error) {

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, utils.NewValidationError("session name is required")
	}
	if err := utils.ValidateUnique[AcademicSession](ctx, "name", name, 0); err != nil {
		return nil, err
	}

	session := AcademicSession{
		Name: name,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&session).Error; err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return nil, &utils.DuplicateError{Field: "name"}
		}
		return nil, err
	}

	if err := utils.RemoveRedisList[AcademicSession](); err != nil {
		return nil, err
	}

	return &session, nil
}

func DeleteAcademicSession(ctx context.Context, id int) (*AcademicSession, error) {
	result, err := utils.DeleteModel[AcademicSession](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisList[AcademicSession](); err != nil {
		return nil, err
	}
	return result, nil
}

func GetAcademicSessions(ctx context.Context) ([]*AcademicSession, error) {
	results, err := utils.RetrieveRedisList[AcademicSession]()
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[AcademicSession](ctx, "id")
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[AcademicSession](results); err != nil {
			return nil, err
		}
	}
	return results, nil
}
