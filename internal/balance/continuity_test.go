package balance

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sejin-dev/statement-converter/internal/domain"
)

func row(deposit, withdrawal, balance int64) domain.TransactionRow {
	return domain.TransactionRow{
		Deposit:    decimal.NewFromInt(deposit),
		Withdrawal: decimal.NewFromInt(withdrawal),
		Balance:    decimal.NewFromInt(balance),
	}
}

func TestCheckContinuityClean(t *testing.T) {
	rows := []domain.TransactionRow{
		row(0, 0, 1000),
		row(500, 0, 1500),
		row(0, 200, 1300),
	}
	if findings := CheckContinuity(rows); len(findings) != 0 {
		t.Errorf("CheckContinuity() = %v, want none", findings)
	}
}

func TestCheckContinuityDetectsBreak(t *testing.T) {
	rows := []domain.TransactionRow{
		row(0, 0, 1000),
		row(500, 0, 1500),
		row(0, 200, 1400), // should be 1300
	}

	findings := CheckContinuity(rows)
	if len(findings) != 1 {
		t.Fatalf("CheckContinuity() returned %d findings, want 1", len(findings))
	}
	f := findings[0]
	if f.RowIndex != 2 {
		t.Errorf("RowIndex = %d, want 2", f.RowIndex)
	}
	if f.ExpectedBalance.String() != "1300" {
		t.Errorf("ExpectedBalance = %s, want 1300", f.ExpectedBalance)
	}
	if f.ActualBalance.String() != "1400" {
		t.Errorf("ActualBalance = %s, want 1400", f.ActualBalance)
	}
}

func TestCheckContinuityRowZeroNeverFlagged(t *testing.T) {
	// an arbitrary opening balance is fine; there is nothing to compare it to
	rows := []domain.TransactionRow{
		row(0, 0, 987654),
	}
	if findings := CheckContinuity(rows); findings != nil {
		t.Errorf("CheckContinuity() = %v, want nil", findings)
	}
}

func TestCheckContinuityEmptyAndSingle(t *testing.T) {
	if findings := CheckContinuity(nil); findings != nil {
		t.Errorf("CheckContinuity(nil) = %v", findings)
	}
	if findings := CheckContinuity([]domain.TransactionRow{row(100, 0, 100)}); findings != nil {
		t.Errorf("CheckContinuity(single) = %v", findings)
	}
}

func TestCheckContinuityExactEquality(t *testing.T) {
	// one won off is a finding; there is no tolerance
	rows := []domain.TransactionRow{
		row(0, 0, 1000),
		row(1, 0, 1000),
	}
	findings := CheckContinuity(rows)
	if len(findings) != 1 {
		t.Fatalf("CheckContinuity() returned %d findings, want 1", len(findings))
	}
	if findings[0].ExpectedBalance.String() != "1001" {
		t.Errorf("ExpectedBalance = %s, want 1001", findings[0].ExpectedBalance)
	}
}

func TestCheckContinuityMultipleBreaks(t *testing.T) {
	// a single misread row produces findings at the break and at the
	// recovery, since the following row is checked against the bad balance
	rows := []domain.TransactionRow{
		row(0, 0, 1000),
		row(500, 0, 9500), // extraction misread 1500 as 9500
		row(0, 200, 1300),
	}
	findings := CheckContinuity(rows)
	if len(findings) != 2 {
		t.Fatalf("CheckContinuity() returned %d findings, want 2", len(findings))
	}
	if findings[0].RowIndex != 1 || findings[1].RowIndex != 2 {
		t.Errorf("finding indexes = %d, %d, want 1, 2", findings[0].RowIndex, findings[1].RowIndex)
	}
}
