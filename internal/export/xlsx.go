// Package export writes the normalized transaction table to a spreadsheet
// for download. Rows whose deposit or withdrawal crosses the highlight
// threshold get a single fill mark; anything fancier is deliberately out.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sejin-dev/statement-converter/internal/domain"
)

// SheetName is the single sheet the transaction table lands on.
const SheetName = "거래내역"

var columnTitles = []string{
	"날짜", "시간", "구분", "내용", "거래처",
	"입금", "출금", "잔액",
	"메모", "취급점", "계좌번호", "분류",
}

// Summary is what the audit trail records about one export.
type Summary struct {
	RowCount         int
	HighlightedCount int
}

// Workbook renders the transactions into a new workbook. highlighted holds
// zero-based indexes into txns, as produced by the conversion service.
func Workbook(txns []domain.TransactionRow, highlighted []int) (*excelize.File, Summary, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, Summary{}, fmt.Errorf("Workbook: renaming sheet: %w", err)
	}

	for col, title := range columnTitles {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, Summary{}, fmt.Errorf("Workbook: header cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, title); err != nil {
			return nil, Summary{}, fmt.Errorf("Workbook: header cell: %w", err)
		}
	}

	for i, t := range txns {
		values := []interface{}{
			t.DateString(), t.Time, t.TransactionType, t.Description, t.Counterparty,
			t.Deposit.String(), t.Withdrawal.String(), t.Balance.String(),
			t.Memo, t.Branch, t.AccountNo, t.Category,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, Summary{}, fmt.Errorf("Workbook: cell for row %d: %w", i, err)
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, Summary{}, fmt.Errorf("Workbook: cell for row %d: %w", i, err)
			}
		}
	}

	if len(highlighted) > 0 {
		styleID, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{"FFF2CC"}, Pattern: 1},
		})
		if err != nil {
			return nil, Summary{}, fmt.Errorf("Workbook: highlight style: %w", err)
		}
		for _, idx := range highlighted {
			if idx < 0 || idx >= len(txns) {
				continue
			}
			first, err := excelize.CoordinatesToCellName(1, idx+2)
			if err != nil {
				return nil, Summary{}, fmt.Errorf("Workbook: highlight range: %w", err)
			}
			last, err := excelize.CoordinatesToCellName(len(columnTitles), idx+2)
			if err != nil {
				return nil, Summary{}, fmt.Errorf("Workbook: highlight range: %w", err)
			}
			if err := f.SetCellStyle(SheetName, first, last, styleID); err != nil {
				return nil, Summary{}, fmt.Errorf("Workbook: applying highlight: %w", err)
			}
		}
	}

	return f, Summary{RowCount: len(txns), HighlightedCount: len(highlighted)}, nil
}
