package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/utils"
	"github.com/shopspring/decimal"
)

// Student is an enrollment: one student tied to one fee plan, branch,
// semester and session. The references are plain ids with no FK
// constraints; deleting the target leaves the id dangling and reads
// resolve the missing name to absent.
type Student struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name" binding:"required"`
	GuardianName string    `gorm:"size:100" json:"guardian_name"`
	RollNo       string    `gorm:"type:varchar(50) COLLATE utf8mb4_bin;uniqueIndex;not null" json:"roll_no" binding:"required"`
	Phone        string    `gorm:"size:20" json:"phone"`
	PlanId       int       `gorm:"index" json:"plan_id"`
	BranchId     int       `gorm:"index" json:"branch_id"`
	SemesterId   int       `gorm:"index" json:"semester_id"`
	SessionId    int       `gorm:"index" json:"session_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewStudent struct {
	Name         string `json:"name" binding:"required"`
	GuardianName string `json:"guardian_name"`
	RollNo       string `json:"roll_no" binding:"required"`
	Phone        string `json:"phone"`
	PlanId       int    `json:"plan_id" binding:"required"`
	BranchId     int    `json:"branch_id" binding:"required"`
	SemesterId   int    `json:"semester_id" binding:"required"`
	SessionId    int    `json:"session_id" binding:"required"`
}

// StudentRow is the list/detail shape the UI consumes: the enrollment
// plus resolved reference names (nil when the target row is gone) and
// the running paid total.
type StudentRow struct {
	Student
	PlanName     *string          `json:"plan_name"`
	PlanTotal    *decimal.Decimal `json:"plan_total"`
	BranchName   *string          `json:"branch_name"`
	SemesterName *string          `json:"semester_name"`
	SessionName  *string          `json:"session_name"`
	TotalPaid    decimal.Decimal  `json:"total_paid"`
}

type StudentFilter struct {
	Search     string `form:"search"`
	PlanId     int    `form:"plan_id"`
	BranchId   int    `form:"branch_id"`
	SemesterId int    `form:"semester_id"`
}

func (input *NewStudent) validate(ctx context.Context, id int) error {
	if strings.TrimSpace(input.RollNo) == "" {
		return utils.NewValidationError("roll no is required")
	}
	if err := utils.ValidateUnique[Student](ctx, "roll_no", input.RollNo, id); err != nil {
		return err
	}
	if strings.TrimSpace(input.Phone) != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.NewValidationError("invalid phone number")
		}
	}
	// Reference ids are advisory unless strict mode is on.
	if config.StrictReferentialChecks() {
		if err := utils.ValidateResourceId[FeePlan](ctx, input.PlanId); err != nil {
			return utils.NewValidationError("fee plan not found")
		}
		if err := utils.ValidateResourceId[Branch](ctx, input.BranchId); err != nil {
			return utils.NewValidationError("branch not found")
		}
		if err := utils.ValidateResourceId[Semester](ctx, input.SemesterId); err != nil {
			return utils.NewValidationError("semester not found")
		}
		if err := utils.ValidateResourceId[AcademicSession](ctx, input.SessionId); err != nil {
			return utils.NewValidationError("session not found")
		}
	}
	return nil
}

func EnrollStudent(ctx context.Context, input *NewStudent) (*Student, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	student := Student{
		Name:         input.Name,
		GuardianName: input.GuardianName,
		RollNo:       input.RollNo,
		Phone:        input.Phone,
		PlanId:       input.PlanId,
		BranchId:     input.BranchId,
		SemesterId:   input.SemesterId,
		SessionId:    input.SessionId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&student).Error; err != nil {
		// the unique index is the authority under concurrent enrolls
		if utils.IsDuplicateKeyErr(err) {
			return nil, &utils.DuplicateError{Field: "roll_no"}
		}
		return nil, err
	}

	return &student, nil
}

func UpdateStudent(ctx context.Context, id int, input *NewStudent) (*Student, error) {

	student, err := utils.FetchModel[Student](ctx, id)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(student).Updates(map[string]interface{}{
		"Name":         input.Name,
		"GuardianName": input.GuardianName,
		"RollNo":       input.RollNo,
		"Phone":        input.Phone,
		"PlanId":       input.PlanId,
		"BranchId":     input.BranchId,
		"SemesterId":   input.SemesterId,
		"SessionId":    input.SessionId,
	}).Error
	if err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return nil, &utils.DuplicateError{Field: "roll_no"}
		}
		return nil, err
	}

	return student, nil
}

// DeleteStudent removes the enrollment only. Payments stay: the ledger is
// append-only, so the student's transactions become orphaned rows whose
// student_name resolves to absent in listings.
func DeleteStudent(ctx context.Context, id int) (*Student, error) {
	return utils.DeleteModel[Student](ctx, id)
}

const studentRowSelect = `
SELECT
    s.*,
    fp.name AS plan_name,
    fp.total_amount AS plan_total,
    b.name AS branch_name,
    sem.name AS semester_name,
    ses.name AS session_name,
    COALESCE(tp.total_paid, 0) AS total_paid
FROM students s
    LEFT JOIN fee_plans fp ON fp.id = s.plan_id
    LEFT JOIN branches b ON b.id = s.branch_id
    LEFT JOIN semesters sem ON sem.id = s.semester_id
    LEFT JOIN sessions ses ON ses.id = s.session_id
    LEFT JOIN (
        SELECT student_id, SUM(amount) AS total_paid
        FROM transactions
        GROUP BY student_id
    ) tp ON tp.student_id = s.id
`

func GetStudent(ctx context.Context, id int) (*StudentRow, error) {

	db := config.GetDB()
	var result StudentRow
	err := db.WithContext(ctx).Raw(studentRowSelect+" WHERE s.id = ?", id).Scan(&result).Error
	if err != nil {
		return nil, err
	}
	if result.ID == 0 {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

// GetStudents lists enrollments with resolved names and paid totals.
// Search matches name/roll_no/phone substrings (text fields
// case-insensitively); plan/branch/semester filters are exact.
func GetStudents(ctx context.Context, filter *StudentFilter) ([]*StudentRow, error) {

	db := config.GetDB()

	query := studentRowSelect
	conditions := []string{}
	args := []interface{}{}

	if filter != nil {
		if s := strings.TrimSpace(filter.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			conditions = append(conditions,
				"(LOWER(s.name) LIKE ? OR LOWER(s.roll_no) LIKE ? OR LOWER(s.phone) LIKE ?)")
			args = append(args, like, like, like)
		}
		if filter.PlanId > 0 {
			conditions = append(conditions, "s.plan_id = ?")
			args = append(args, filter.PlanId)
		}
		if filter.BranchId > 0 {
			conditions = append(conditions, "s.branch_id = ?")
			args = append(args, filter.BranchId)
		}
		if filter.SemesterId > 0 {
			conditions = append(conditions, "s.semester_id = ?")
			args = append(args, filter.SemesterId)
		}
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY s.id"

	var results []*StudentRow
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
