package reports_test

import (
	"testing"

	"github.com/mmsoftworks/campusfees_backend/models/reports"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestBuildLedgerWorkbook(t *testing.T) {
	plan := "BSc Semester 1"
	rows := []*reports.LedgerRow{
		{
			StudentId: 1,
			Name:      "Asha Verma",
			RollNo:    "R-101",
			PlanName:  &plan,
			TotalDue:  decimal.NewFromInt(55000),
			TotalPaid: decimal.NewFromInt(20000),
			Balance:   decimal.NewFromInt(35000),
		},
		{
			StudentId: 2,
			Name:      "Rohan Gupta",
			RollNo:    "R-102",
			PlanName:  nil,
			TotalDue:  decimal.Zero,
			TotalPaid: decimal.NewFromInt(5000),
			Balance:   decimal.NewFromInt(-5000),
		},
	}

	f, err := reports.BuildLedgerWorkbook(rows)
	if err != nil {
		t.Fatalf("BuildLedgerWorkbook: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	reopened, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer reopened.Close()

	cell := func(ref string) string {
		t.Helper()
		v, err := reopened.GetCellValue("Ledger", ref)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", ref, err)
		}
		return v
	}

	if got := cell("A1"); got != "Roll No" {
		t.Fatalf("A1 = %q, want Roll No", got)
	}
	if got := cell("F1"); got != "Balance" {
		t.Fatalf("F1 = %q, want Balance", got)
	}
	if got := cell("A2"); got != "R-101" {
		t.Fatalf("A2 = %q, want R-101", got)
	}
	if got := cell("B2"); got != "Asha Verma" {
		t.Fatalf("B2 = %q, want Asha Verma", got)
	}
	if got := cell("C2"); got != plan {
		t.Fatalf("C2 = %q, want %q", got, plan)
	}
	if got := cell("D2"); got != "55000" {
		t.Fatalf("D2 = %q, want 55000", got)
	}
	// Deleted plan renders as blank, not a literal nil.
	if got := cell("C3"); got != "" {
		t.Fatalf("C3 = %q, want empty", got)
	}
	if got := cell("F3"); got != "-5000" {
		t.Fatalf("F3 = %q, want -5000", got)
	}

	rowsInSheet, err := reopened.GetRows("Ledger")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rowsInSheet) != 3 {
		t.Fatalf("sheet has %d rows, want 3", len(rowsInSheet))
	}
}

func TestLedgerExportFilename(t *testing.T) {
	if got := reports.LedgerExportFilename(42); got != "fee_ledger_42_students.xlsx" {
		t.Fatalf("LedgerExportFilename = %q", got)
	}
}
