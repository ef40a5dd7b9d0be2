package models

import (
	"context"
	"time"

	"github.com/mmsoftworks/campusfees_backend/config"
	"gorm.io/gorm/clause"
)

// OrgSettings is a singleton row (id = 1) holding the institution's
// letterhead data for receipts and reports.
type OrgSettings struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	LogoUrl   string    `gorm:"size:512" json:"logo"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"size:20" json:"phone"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewOrgSettings struct {
	Name    string `json:"name"`
	LogoUrl string `json:"logo"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

const orgSettingsId = 1

func UpsertOrgSettings(ctx context.Context, input *NewOrgSettings) (*OrgSettings, error) {

	settings := OrgSettings{
		ID:      orgSettingsId,
		Name:    input.Name,
		LogoUrl: input.LogoUrl,
		Address: input.Address,
		Phone:   input.Phone,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&settings).Error
	if err != nil {
		return nil, err
	}

	return &settings, nil
}

// GetOrgSettings returns the singleton row, or an empty value before the
// first upsert.
func GetOrgSettings(ctx context.Context) (*OrgSettings, error) {

	db := config.GetDB()
	var settings OrgSettings
	err := db.WithContext(ctx).Where("id = ?", orgSettingsId).Limit(1).Find(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SetOrgLogo stores the uploaded logo URL on the singleton row.
func SetOrgLogo(ctx context.Context, logoUrl string) error {
	db := config.GetDB()
	settings := OrgSettings{ID: orgSettingsId, LogoUrl: logoUrl}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"logo_url"}),
	}).Create(&settings).Error
}
