package utils_test

import (
	"errors"
	"fmt"
	"testing"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/mmsoftworks/campusfees_backend/utils"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	dup := &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry 'UTR-1' for key 'transactions.idx_external_transaction_id'"}

	if !utils.IsDuplicateKeyErr(dup) {
		t.Fatal("expected 1062 to be a duplicate key error")
	}
	if !utils.IsDuplicateKeyErr(fmt.Errorf("create transaction: %w", dup)) {
		t.Fatal("expected wrapped 1062 to be a duplicate key error")
	}
	if utils.IsDuplicateKeyErr(&mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}) {
		t.Fatal("1213 is not a duplicate key error")
	}
	if utils.IsDuplicateKeyErr(errors.New("duplicate entry")) {
		t.Fatal("plain errors must not match")
	}
	if utils.IsDuplicateKeyErr(nil) {
		t.Fatal("nil must not match")
	}
}

func TestErrorTaxonomyUnwrapsThroughWrapping(t *testing.T) {
	base := &utils.DuplicateTransactionError{TransactionId: "UTR-1"}
	wrapped := fmt.Errorf("record payment: %w", base)

	var dupTx *utils.DuplicateTransactionError
	if !errors.As(wrapped, &dupTx) {
		t.Fatal("expected DuplicateTransactionError through wrapping")
	}
	if dupTx.TransactionId != "UTR-1" {
		t.Fatalf("TransactionId = %q, want UTR-1", dupTx.TransactionId)
	}

	var dup *utils.DuplicateError
	if errors.As(wrapped, &dup) {
		t.Fatal("DuplicateTransactionError must not match DuplicateError")
	}
}

func TestErrorMessages(t *testing.T) {
	if got := utils.NewValidationError("amount must be greater than zero").Error(); got != "amount must be greater than zero" {
		t.Fatalf("ValidationError message = %q", got)
	}
	if got := (&utils.DuplicateError{Field: "roll_no"}).Error(); got != "duplicate roll_no" {
		t.Fatalf("DuplicateError message = %q", got)
	}
	if got := (&utils.DuplicateTransactionError{TransactionId: "UTR-9"}).Error(); got != "transaction id UTR-9 has already been used" {
		t.Fatalf("DuplicateTransactionError message = %q", got)
	}
}
