package models

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Staff struct {
	ID        int       `gorm:"primary_key" json:"id"`
	StaffId   string    `gorm:"uniqueIndex;size:100;not null" json:"staff_id" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Password  string    `gorm:"size:255;not null" json:"password,omitempty"`
	Role      StaffRole `gorm:"size:20;not null;default:staff" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewStaff struct {
	StaffId  string `json:"staff_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PrepareGive strips the password hash before serialization.
func (s *Staff) PrepareGive() {
	s.Password = ""
}

type StaffSession struct {
	StaffId string `json:"staff_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
}

type LoginInfo struct {
	Token   string    `json:"token"`
	Id      int       `json:"id"`
	StaffId string    `json:"staff_id"`
	Name    string    `json:"name"`
	Role    StaffRole `json:"role"`
}

func tokenLifespan() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil || hours <= 0 {
		hours = 12
	}
	return time.Duration(hours) * time.Hour
}

// Login checks credentials and issues a session token stored in Redis.
// The default admin is NOT created here; run cmd/seed-admin once instead.
func Login(ctx context.Context, staffId string, password string) (*LoginInfo, error) {

	db := config.GetDB()

	staff := Staff{}
	err := db.WithContext(ctx).Model(&Staff{}).Where("staff_id = ?", staffId).Take(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewValidationError("invalid staff id or password")
	}
	if err != nil {
		return nil, err
	}

	err = utils.ComparePassword(staff.Password, password)
	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return nil, utils.NewValidationError("invalid staff id or password")
	}
	if err != nil {
		return nil, err
	}

	token := uuid.New().String()
	session := StaffSession{
		StaffId: staff.StaffId,
		Name:    staff.Name,
		Role:    string(staff.Role),
	}
	if err := config.SetRedisObject("Session:"+token, &session, tokenLifespan()); err != nil {
		return nil, err
	}

	return &LoginInfo{
		Token:   token,
		Id:      staff.ID,
		StaffId: staff.StaffId,
		Name:    staff.Name,
		Role:    staff.Role,
	}, nil
}

// GetSession resolves a session token. Missing/expired tokens report exists=false.
func GetSession(token string) (*StaffSession, bool, error) {
	var session StaffSession
	exists, err := config.GetRedisObject("Session:"+token, &session)
	if err != nil || !exists {
		return nil, false, err
	}
	return &session, true, nil
}

// Logout drops the current session token.
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	if err := config.RemoveRedisKey("Session:" + token); err != nil {
		return false, err
	}
	return true, nil
}

func CreateStaff(ctx context.Context, input *NewStaff) (*Staff, error) {

	if strings.TrimSpace(input.StaffId) == "" {
		return nil, utils.NewValidationError("staff id is required")
	}
	if err := utils.ValidateUnique[Staff](ctx, "staff_id", input.StaffId, 0); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	staff := Staff{
		StaffId:  input.StaffId,
		Name:     input.Name,
		Password: string(hashedPassword),
		Role:     StaffRoleStaff,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&staff).Error; err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return nil, &utils.DuplicateError{Field: "staff_id"}
		}
		return nil, err
	}

	staff.PrepareGive()
	return &staff, nil
}

func UpdateStaff(ctx context.Context, id int, input *NewStaff) (*Staff, error) {

	if err := utils.ValidateUnique[Staff](ctx, "staff_id", input.StaffId, id); err != nil {
		return nil, err
	}

	staff, err := utils.FetchModel[Staff](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"StaffId": input.StaffId,
		"Name":    input.Name,
	}
	// blank password keeps the current one
	if strings.TrimSpace(input.Password) != "" {
		hashedPassword, err := utils.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		updates["Password"] = string(hashedPassword)
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(staff).Updates(updates).Error; err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return nil, &utils.DuplicateError{Field: "staff_id"}
		}
		return nil, err
	}

	staff.PrepareGive()
	return staff, nil
}

// DeleteStaff removes a staff account. Admin accounts cannot be deleted.
func DeleteStaff(ctx context.Context, id int) (*Staff, error) {

	staff, err := utils.FetchModel[Staff](ctx, id)
	if err != nil {
		return nil, err
	}
	if staff.Role == StaffRoleAdmin {
		return nil, utils.NewValidationError("cannot delete admin")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(staff).Error; err != nil {
		return nil, err
	}

	staff.PrepareGive()
	return staff, nil
}

func GetAllStaff(ctx context.Context) ([]*Staff, error) {
	results, err := utils.FetchAllModels[Staff](ctx, "id")
	if err != nil {
		return nil, err
	}
	for _, s := range results {
		s.PrepareGive()
	}
	return results, nil
}

// SeedDefaultAdmin creates the bootstrap admin account (admin / 12345)
// if no staff exist yet. Safe to run repeatedly.
func SeedDefaultAdmin(ctx context.Context, db *gorm.DB) (created bool, err error) {

	var count int64
	if err := db.WithContext(ctx).Model(&Staff{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hashedPassword, err := utils.HashPassword("12345")
	if err != nil {
		return false, err
	}

	admin := Staff{
		StaffId:  "admin",
		Name:     "Administrator",
		Password: string(hashedPassword),
		Role:     StaffRoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		// a concurrent seed already created it
		if utils.IsDuplicateKeyErr(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
