package normalize

import (
	"github.com/shopspring/decimal"

	"github.com/sejin-dev/statement-converter/internal/domain"
	"github.com/sejin-dev/statement-converter/internal/rules"
)

func setAmount(row *domain.TransactionRow, field rules.Field, amount decimal.Decimal) {
	switch field {
	case rules.FieldDeposit:
		row.Deposit = amount
	case rules.FieldWithdrawal:
		row.Withdrawal = amount
	case rules.FieldBalance:
		row.Balance = amount
	}
}

func setText(row *domain.TransactionRow, field rules.Field, value string) {
	switch field {
	case rules.FieldDescription:
		row.Description = value
	case rules.FieldCounterparty:
		row.Counterparty = value
	case rules.FieldMemo:
		row.Memo = value
	case rules.FieldBranch:
		row.Branch = value
	case rules.FieldAccountNo:
		row.AccountNo = value
	case rules.FieldCategory:
		row.Category = value
	}
}
