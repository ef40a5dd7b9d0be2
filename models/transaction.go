package models

import (
	"context"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/utils"
	"github.com/shopspring/decimal"
)

// Transaction is one payment received from a student. Rows are append-only:
// there is no update or delete path, matching financial-record expectations.
//
// ExternalTransactionId (bank/UPI reference) is globally unique when
// present. NULL is stored for cash payments without a reference, so any
// number of them coexist under the unique index.
type Transaction struct {
	ID                    int             `gorm:"primary_key" json:"id"`
	StudentId             int             `gorm:"index;not null" json:"student_id"`
	Amount                decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	PaymentMode           PaymentMode     `gorm:"size:20;not null" json:"payment_mode"`
	ExternalTransactionId *string         `gorm:"uniqueIndex;size:100" json:"transaction_id"`
	AcademicTerm          string          `gorm:"size:100" json:"academic_term"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewTransaction struct {
	StudentId             int             `json:"student_id" binding:"required"`
	Amount                decimal.Decimal `json:"amount" binding:"required"`
	PaymentMode           PaymentMode     `json:"payment_mode" binding:"required"`
	ExternalTransactionId string          `json:"transaction_id"`
	AcademicTerm          string          `json:"academic_term"`
}

// TransactionRow joins the payer for listings and receipts. StudentName
// and RollNo are nil when the enrollment was deleted after payment.
type TransactionRow struct {
	Transaction
	StudentName *string `json:"student_name"`
	RollNo      *string `json:"roll_no"`
}

type TransactionFilter struct {
	StudentId int    `form:"student_id"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
	Search    string `form:"search"`
}

func (input *NewTransaction) validate(ctx context.Context) error {
	if !input.Amount.IsPositive() {
		return utils.NewValidationError("amount must be greater than zero")
	}
	if !input.PaymentMode.IsValid() {
		return utils.NewValidationError("invalid payment mode")
	}
	if config.StrictReferentialChecks() {
		if err := utils.ValidateResourceId[Student](ctx, input.StudentId); err != nil {
			return err
		}
	}
	return nil
}

// CreateTransaction records a payment. When an external reference id is
// present, no two payments may ever carry the same one: the pre-check
// catches ordinary duplicates with a specific error, and the unique index
// settles concurrent races as one success plus one DuplicateTransactionError.
// The Redis lock only narrows the race window; correctness never depends
// on it.
func CreateTransaction(ctx context.Context, input *NewTransaction) (*Transaction, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	txId := strings.TrimSpace(input.ExternalTransactionId)

	if txId != "" {
		if locker := config.GetRedisLock(); locker != nil {
			lock, err := locker.Obtain(ctx, "txid:"+txId, 5*time.Second, nil)
			if err == nil {
				defer lock.Release(ctx)
			} else if err != redislock.ErrNotObtained {
				// lock is best-effort; the unique index settles races
				config.LogError(config.GetLogger(), "transaction.go", "CreateTransaction", "redis lock", txId, err)
			}
		}

		count, err := utils.ResourceCountWhere[Transaction](ctx, "external_transaction_id = ?", txId)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, &utils.DuplicateTransactionError{TransactionId: txId}
		}
	}

	transaction := Transaction{
		StudentId:    input.StudentId,
		Amount:       input.Amount,
		PaymentMode:  input.PaymentMode,
		AcademicTerm: input.AcademicTerm,
	}
	if txId != "" {
		transaction.ExternalTransactionId = &txId
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&transaction).Error; err != nil {
		if utils.IsDuplicateKeyErr(err) {
			return nil, &utils.DuplicateTransactionError{TransactionId: txId}
		}
		return nil, err
	}

	return &transaction, nil
}

const transactionRowSelect = `
SELECT
    t.*,
    s.name AS student_name,
    s.roll_no AS roll_no
FROM transactions t
    LEFT JOIN students s ON s.id = t.student_id
`

// GetTransaction returns one payment with payer details, for receipts.
func GetTransaction(ctx context.Context, id int) (*TransactionRow, error) {

	db := config.GetDB()
	var result TransactionRow
	err := db.WithContext(ctx).Raw(transactionRowSelect+" WHERE t.id = ?", id).Scan(&result).Error
	if err != nil {
		return nil, err
	}
	if result.ID == 0 {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

// GetTransactions lists payments newest first. Search matches the payer
// name, roll no and external reference substrings case-insensitively.
func GetTransactions(ctx context.Context, filter *TransactionFilter) ([]*TransactionRow, error) {

	db := config.GetDB()

	query := transactionRowSelect
	conditions := []string{}
	args := []interface{}{}

	if filter != nil {
		if filter.StudentId > 0 {
			conditions = append(conditions, "t.student_id = ?")
			args = append(args, filter.StudentId)
		}
		if d := strings.TrimSpace(filter.DateFrom); d != "" {
			conditions = append(conditions, "t.created_at >= ?")
			args = append(args, d)
		}
		if d := strings.TrimSpace(filter.DateTo); d != "" {
			conditions = append(conditions, "t.created_at < DATE_ADD(?, INTERVAL 1 DAY)")
			args = append(args, d)
		}
		if s := strings.TrimSpace(filter.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			conditions = append(conditions,
				"(LOWER(s.name) LIKE ? OR LOWER(s.roll_no) LIKE ? OR LOWER(t.external_transaction_id) LIKE ?)")
			args = append(args, like, like, like)
		}
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.created_at DESC, t.id DESC"

	var results []*TransactionRow
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
