package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildLedgerWorkbook renders ledger rows into a spreadsheet. The caller
// decides where the file goes (HTTP response, disk).
func BuildLedgerWorkbook(rows []*LedgerRow) (*excelize.File, error) {

	f := excelize.NewFile()
	sheetName := "Ledger"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headings := []string{"Roll No", "Student", "Fee Plan", "Total Due", "Total Paid", "Balance"}
	for i, h := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		planName := ""
		if row.PlanName != nil {
			planName = *row.PlanName
		}
		values := []interface{}{
			row.RollNo,
			row.Name,
			planName,
			row.TotalDue.InexactFloat64(),
			row.TotalPaid.InexactFloat64(),
			row.Balance.InexactFloat64(),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// LedgerExportFilename names the attachment with the row count to make
// partial downloads obvious in audits.
func LedgerExportFilename(rowCount int) string {
	return fmt.Sprintf("fee_ledger_%d_students.xlsx", rowCount)
}
