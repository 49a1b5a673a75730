// Package balance verifies the arithmetic continuity of a normalized
// transaction sequence: each row's stated balance must equal the previous
// balance plus its deposit minus its withdrawal.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/sejin-dev/statement-converter/internal/domain"
)

// Finding is one detected discontinuity. It usually means the extraction
// misread a digit, occasionally a genuine anomaly in the statement; either
// way deciding what to do with it belongs to the caller.
type Finding struct {
	RowIndex        int             `json:"row_index"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
	ActualBalance   decimal.Decimal `json:"actual_balance"`
}

// CheckContinuity flags every row i>0 where
//
//	balance[i] != balance[i-1] + deposit[i] - withdrawal[i]
//
// using exact decimal equality; statement amounts are integer-denominated in
// the target currency, so there is no epsilon. Row 0 is never flagged (no
// prior balance to compare against). Rows must already be in statement
// chronological order; this check never sorts and never mutates its input.
func CheckContinuity(rows []domain.TransactionRow) []Finding {
	var findings []Finding
	for i := 1; i < len(rows); i++ {
		expected := rows[i-1].Balance.Add(rows[i].Deposit).Sub(rows[i].Withdrawal)
		if !rows[i].Balance.Equal(expected) {
			findings = append(findings, Finding{
				RowIndex:        i,
				ExpectedBalance: expected,
				ActualBalance:   rows[i].Balance,
			})
		}
	}
	return findings
}
