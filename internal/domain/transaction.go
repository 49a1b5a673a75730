package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRow is one normalized line of a bank statement. Amounts are
// exact decimals; a field the source statement does not carry stays at its
// zero value.
type TransactionRow struct {
	Date            time.Time       `json:"date"`
	Time            string          `json:"time,omitempty"`
	TransactionType string          `json:"transaction_type,omitempty"`
	Description     string          `json:"description"`
	Counterparty    string          `json:"counterparty,omitempty"`
	Deposit         decimal.Decimal `json:"deposit"`
	Withdrawal      decimal.Decimal `json:"withdrawal"`
	Balance         decimal.Decimal `json:"balance"`
	Memo            string          `json:"memo,omitempty"`
	Branch          string          `json:"branch,omitempty"`
	AccountNo       string          `json:"account_no,omitempty"`
	Category        string          `json:"category,omitempty"`
}

// Amount returns the magnitude of the row, the larger of deposit and
// withdrawal. Statements record one or the other, never both.
func (t TransactionRow) Amount() decimal.Decimal {
	if t.Deposit.GreaterThan(t.Withdrawal) {
		return t.Deposit
	}
	return t.Withdrawal
}

// DateString formats the transaction date as YYYY-MM-DD, or "" when the
// source row had no parseable date.
func (t TransactionRow) DateString() string {
	if t.Date.IsZero() {
		return ""
	}
	return t.Date.Format("2006-01-02")
}
