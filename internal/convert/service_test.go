package convert

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sejin-dev/statement-converter/internal/normalize"
	"github.com/sejin-dev/statement-converter/internal/rules"
)

var testNow = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(rules.NewRegistry(), decimal.Zero, zerolog.Nop())
	return svc.WithNow(func() time.Time { return testNow })
}

func kookminRows() ([]string, []normalize.RawRow) {
	headers := []string{"거래일시", "적요", "출금액", "입금액", "잔액"}
	rows := []normalize.RawRow{
		{"거래일시": "2026-08-01", "적요": "이월", "출금액": "", "입금액": "", "잔액": "1,000"},
		{"거래일시": "2026-08-02", "적요": "급여", "출금액": "", "입금액": "500", "잔액": "1,500"},
		{"거래일시": "2026-08-03", "적요": "이체", "출금액": "200", "입금액": "", "잔액": "1,300"},
	}
	return headers, rows
}

func TestConvertHappyPath(t *testing.T) {
	svc := newTestService(t)
	headers, rows := kookminRows()

	result, err := svc.Convert(context.Background(), Request{
		BankID:  "kookmin",
		Headers: headers,
		Rows:    rows,
	})
	require.NoError(t, err)

	assert.Equal(t, "kookmin", result.Diagnostics.BankID)
	assert.Equal(t, rules.StatusValid, result.Diagnostics.RuleStatus)
	assert.False(t, result.Diagnostics.GenericFallback)
	assert.Empty(t, result.Diagnostics.Match.UnmatchedRequired)
	assert.Empty(t, result.Diagnostics.ContinuityIssues)
	require.Len(t, result.Transactions, 3)
	assert.Equal(t, "1300", result.Transactions[2].Balance.String())
}

func TestConvertIsDeterministic(t *testing.T) {
	svc := newTestService(t)
	headers, rows := kookminRows()
	req := Request{BankID: "kookmin", Headers: headers, Rows: rows}

	first, err := svc.Convert(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Convert(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestConvertUnknownBankFallsBack(t *testing.T) {
	svc := newTestService(t)
	headers, rows := kookminRows()

	for _, bankID := range []string{"", "no-such-bank"} {
		result, err := svc.Convert(context.Background(), Request{
			BankID:  bankID,
			Headers: headers,
			Rows:    rows,
		})
		require.NoError(t, err)
		assert.True(t, result.Diagnostics.GenericFallback, "bankID=%q", bankID)
		assert.Equal(t, rules.GenericBankID, result.Diagnostics.BankID)
		// the generic rule's alias vocabulary still matches these headers
		assert.Empty(t, result.Diagnostics.Match.UnmatchedRequired)
	}
}

func TestConvertStaleRuleStillConverts(t *testing.T) {
	svc := newTestService(t)
	headers := []string{"거래일시", "적요", "입금(원)", "출금(원)", "거래후잔액"}
	rows := []normalize.RawRow{
		{"거래일시": "2026-08-01", "적요": "이월", "입금(원)": "", "출금(원)": "", "거래후잔액": "5,000"},
	}

	result, err := svc.Convert(context.Background(), Request{
		BankID:  "woori",
		Headers: headers,
		Rows:    rows,
	})
	require.NoError(t, err)

	assert.Equal(t, rules.StatusStale, result.Diagnostics.RuleStatus)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "5000", result.Transactions[0].Balance.String())
}

func TestConvertLenientMissingColumn(t *testing.T) {
	svc := newTestService(t)
	headers := []string{"거래일시", "적요", "입금액", "잔액"}
	rows := []normalize.RawRow{
		{"거래일시": "2026-08-01", "적요": "이자", "입금액": "100", "잔액": "100"},
	}

	result, err := svc.Convert(context.Background(), Request{
		BankID:  "kookmin",
		Headers: headers,
		Rows:    rows,
	})
	require.NoError(t, err)
	assert.Equal(t, []rules.Field{rules.FieldWithdrawal}, result.Diagnostics.Match.UnmatchedRequired)
	assert.Len(t, result.Transactions, 1)
}

func TestConvertStrictMissingColumn(t *testing.T) {
	svc := newTestService(t)
	headers := []string{"거래일시", "적요", "입금액", "잔액"}
	rows := []normalize.RawRow{
		{"거래일시": "2026-08-01", "적요": "이자", "입금액": "100", "잔액": "100"},
	}

	result, err := svc.Convert(context.Background(), Request{
		BankID:  "kookmin",
		Headers: headers,
		Rows:    rows,
		Strict:  true,
	})

	var matchErr *ColumnMatchError
	require.ErrorAs(t, err, &matchErr)
	assert.Equal(t, []rules.Field{rules.FieldWithdrawal}, matchErr.Missing)
	// the result still comes back fully populated for diagnostics display
	require.NotNil(t, result)
	assert.Len(t, result.Transactions, 1)
}

func TestConvertFlagsDualAmountRows(t *testing.T) {
	svc := newTestService(t)
	headers := []string{"거래일시", "적요", "출금액", "입금액", "잔액"}
	rows := []normalize.RawRow{
		{"거래일시": "2026-08-01", "적요": "이월", "출금액": "", "입금액": "", "잔액": "1,000"},
		{"거래일시": "2026-08-02", "적요": "양쪽기재", "출금액": "500", "입금액": "1,000", "잔액": "1,500"},
	}

	result, err := svc.Convert(context.Background(), Request{
		BankID:  "kookmin",
		Headers: headers,
		Rows:    rows,
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1}, result.Diagnostics.Match.DualAmountRows)
	assert.Equal(t, "1000", result.Transactions[1].Deposit.String())
	assert.Equal(t, "500", result.Transactions[1].Withdrawal.String())
}

func TestConvertEmptyRows(t *testing.T) {
	svc := newTestService(t)
	headers, _ := kookminRows()

	result, err := svc.Convert(context.Background(), Request{
		BankID:  "kookmin",
		Headers: headers,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Transactions)
	assert.Empty(t, result.Diagnostics.ContinuityIssues)
	assert.Empty(t, result.HighlightedRows)
}

func TestConvertContinuityResetsPerSection(t *testing.T) {
	svc := newTestService(t)
	headers := []string{"거래일자", "거래내용", "입금금액", "출금금액", "거래후잔액"}
	rows := []normalize.RawRow{
		{"거래일자": "[2026년 6월]"},
		{"거래일자": "2026-06-01", "거래내용": "이월", "입금금액": "", "출금금액": "", "거래후잔액": "1,000"},
		{"거래일자": "2026-06-02", "거래내용": "급여", "입금금액": "500", "출금금액": "", "거래후잔액": "1,500"},
		{"거래일자": "[2026년 7월]"},
		// the running balance restarts here; no finding across the boundary
		{"거래일자": "2026-07-01", "거래내용": "이월", "입금금액": "", "출금금액": "", "거래후잔액": "50,000"},
		{"거래일자": "2026-07-02", "거래내용": "이체", "입금금액": "", "출금금액": "10,000", "거래후잔액": "40,000"},
	}

	result, err := svc.Convert(context.Background(), Request{
		BankID:  "nonghyup",
		Headers: headers,
		Rows:    rows,
	})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 4)
	assert.Empty(t, result.Diagnostics.ContinuityIssues)
}

func TestConvertContinuityFindingKeepsGlobalIndex(t *testing.T) {
	svc := newTestService(t)
	headers := []string{"거래일자", "거래내용", "입금금액", "출금금액", "거래후잔액"}
	rows := []normalize.RawRow{
		{"거래일자": "[2026년 6월]"},
		{"거래일자": "2026-06-01", "거래내용": "이월", "입금금액": "", "출금금액": "", "거래후잔액": "1,000"},
		{"거래일자": "2026-06-02", "거래내용": "급여", "입금금액": "500", "출금금액": "", "거래후잔액": "1,500"},
		{"거래일자": "[2026년 7월]"},
		{"거래일자": "2026-07-01", "거래내용": "이월", "입금금액": "", "출금금액": "", "거래후잔액": "50,000"},
		{"거래일자": "2026-07-02", "거래내용": "이체", "입금금액": "", "출금금액": "10,000", "거래후잔액": "41,000"},
	}

	result, err := svc.Convert(context.Background(), Request{
		BankID:  "nonghyup",
		Headers: headers,
		Rows:    rows,
	})
	require.NoError(t, err)
	require.Len(t, result.Diagnostics.ContinuityIssues, 1)

	f := result.Diagnostics.ContinuityIssues[0]
	assert.Equal(t, 3, f.RowIndex)
	assert.Equal(t, "40000", f.ExpectedBalance.String())
	assert.Equal(t, "41000", f.ActualBalance.String())
}

func TestConvertHighlightsLargeAmounts(t *testing.T) {
	svc := newTestService(t)
	headers := []string{"거래일시", "적요", "출금액", "입금액", "잔액"}
	rows := []normalize.RawRow{
		{"거래일시": "2026-08-01", "적요": "커피", "출금액": "4,500", "입금액": "", "잔액": "995,500"},
		{"거래일시": "2026-08-02", "적요": "전세보증금", "출금액": "", "입금액": "1,000,000", "잔액": "1,995,500"},
		{"거래일시": "2026-08-03", "적요": "송금", "출금액": "1,500,000", "입금액": "", "잔액": "495,500"},
	}

	result, err := svc.Convert(context.Background(), Request{
		BankID:  "kookmin",
		Headers: headers,
		Rows:    rows,
	})
	require.NoError(t, err)
	// threshold is inclusive: the exactly-1,000,000 deposit counts
	assert.Equal(t, []int{1, 2}, result.HighlightedRows)
}

func TestConvertCustomThreshold(t *testing.T) {
	svc := NewService(rules.NewRegistry(), decimal.NewFromInt(5000), zerolog.Nop()).
		WithNow(func() time.Time { return testNow })
	headers := []string{"거래일시", "적요", "출금액", "입금액", "잔액"}
	rows := []normalize.RawRow{
		{"거래일시": "2026-08-01", "적요": "커피", "출금액": "4,500", "입금액": "", "잔액": "5,500"},
		{"거래일시": "2026-08-02", "적요": "식비", "출금액": "5,000", "입금액": "", "잔액": "500"},
	}

	result, err := svc.Convert(context.Background(), Request{
		BankID:  "kookmin",
		Headers: headers,
		Rows:    rows,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, result.HighlightedRows)
}
