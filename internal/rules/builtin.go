package rules

import (
	"time"
)

// GenericBankID is the fallback rule used when the caller declares no bank
// or an unknown one. Its aliases cover the header vocabulary shared across
// Korean retail banks.
const GenericBankID = "generic"

func col(name Field, required bool, dataType DataType, position int, aliases ...string) ColumnDefinition {
	return ColumnDefinition{
		Name:     name,
		Aliases:  aliases,
		Required: required,
		DataType: dataType,
		Position: position,
	}
}

// builtinRules is the authored per-institution rule set. It is package data
// on purpose: rule definitions change via redeployment, not at runtime.
var builtinRules = []BankRule{
	{
		BankID:      "kookmin",
		BankName:    "KB국민은행",
		Version:     4,
		LastUpdated: time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC),
		Structure:   Structure{Type: StructureSingleTable},
		Columns: []ColumnDefinition{
			col(FieldDate, true, DataTypeDate, 0, "거래일시", "거래일자", "날짜"),
			col(FieldDescription, true, DataTypeText, 1, "적요", "내용", "거래내용"),
			col(FieldWithdrawal, true, DataTypeCurrency, 2, "출금액", "찾으신금액", "출금"),
			col(FieldDeposit, true, DataTypeCurrency, 3, "입금액", "맡기신금액", "입금"),
			col(FieldBalance, true, DataTypeCurrency, 4, "잔액", "거래후잔액"),
			col(FieldCounterparty, false, DataTypeText, 5, "거래처", "보낸분/받는분"),
			col(FieldBranch, false, DataTypeText, 6, "거래점", "취급점"),
		},
	},
	{
		BankID:      "shinhan",
		BankName:    "신한은행",
		Version:     3,
		LastUpdated: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		Structure:   Structure{Type: StructureSingleTable},
		Columns: []ColumnDefinition{
			col(FieldDate, true, DataTypeDate, 0, "거래일자", "거래일", "날짜"),
			col(FieldDescription, true, DataTypeText, 2, "적요", "내용"),
			col(FieldDeposit, true, DataTypeCurrency, 3, "입금", "입금액"),
			col(FieldWithdrawal, true, DataTypeCurrency, 4, "출금", "출금액"),
			col(FieldBalance, true, DataTypeCurrency, 5, "잔액", "잔고"),
			col(FieldCounterparty, false, DataTypeText, 6, "의뢰인/수취인", "거래처"),
			col(FieldMemo, false, DataTypeText, 7, "메모", "비고"),
		},
	},
	{
		BankID:      "woori",
		BankName:    "우리은행",
		Version:     2,
		LastUpdated: time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
		Structure:   Structure{Type: StructureSingleTable},
		Columns: []ColumnDefinition{
			col(FieldDate, true, DataTypeDate, 0, "거래일시", "거래일자"),
			col(FieldDescription, true, DataTypeText, 1, "적요", "거래내용", "내용"),
			col(FieldDeposit, true, DataTypeCurrency, 2, "입금(원)", "입금액", "입금"),
			col(FieldWithdrawal, true, DataTypeCurrency, 3, "출금(원)", "출금액", "출금"),
			col(FieldBalance, true, DataTypeCurrency, 4, "거래후잔액", "잔액"),
			col(FieldBranch, false, DataTypeText, 5, "취급기관", "거래점"),
		},
	},
	{
		BankID:      "hana",
		BankName:    "하나은행",
		Version:     3,
		LastUpdated: time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC),
		Structure:   Structure{Type: StructureSingleTable},
		Columns: []ColumnDefinition{
			col(FieldDate, true, DataTypeDate, 0, "거래일시", "거래일자", "날짜"),
			col(FieldDescription, true, DataTypeText, 1, "적요", "내용"),
			col(FieldDeposit, true, DataTypeCurrency, 2, "입금액", "입금"),
			col(FieldWithdrawal, true, DataTypeCurrency, 3, "출금액", "출금"),
			col(FieldBalance, true, DataTypeCurrency, 4, "잔액"),
			col(FieldCounterparty, false, DataTypeText, 5, "의뢰인", "거래처"),
			col(FieldBranch, false, DataTypeText, 6, "거래점"),
		},
	},
	{
		// 농협 통장 사본은 월 단위 구역 머리글("[2026년 06월]" 꼴)로
		// 나뉘어 추출된다.
		BankID:      "nonghyup",
		BankName:    "NH농협은행",
		Version:     5,
		LastUpdated: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Structure: Structure{
			Type:           StructureMultiSection,
			SectionPattern: `^\s*\[?\s*(\d{4}년\s*\d{1,2}월)\s*\]?\s*$`,
		},
		Columns: []ColumnDefinition{
			col(FieldDate, true, DataTypeDate, 0, "거래일자", "거래일"),
			col(FieldDescription, true, DataTypeText, 1, "거래내용", "적요", "내용"),
			col(FieldDeposit, true, DataTypeCurrency, 2, "입금금액", "입금액", "입금"),
			col(FieldWithdrawal, true, DataTypeCurrency, 3, "출금금액", "출금액", "출금"),
			col(FieldBalance, true, DataTypeCurrency, 4, "거래후잔액", "잔액"),
			col(FieldBranch, false, DataTypeText, 5, "거래점", "취급점"),
			col(FieldMemo, false, DataTypeText, 6, "비고", "메모"),
		},
	},
	{
		// 기업은행 법인 내역은 한 파일에 여러 계좌가 붙어 나오고, 구역
		// 머리글이 계좌번호다.
		BankID:      "ibk",
		BankName:    "IBK기업은행",
		Version:     2,
		LastUpdated: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		Structure: Structure{
			Type:           StructureSectionedByAccount,
			SectionPattern: `(\d{3}-?\d{2,6}-?\d{2,6}-?\d{0,3})`,
		},
		Columns: []ColumnDefinition{
			col(FieldDate, true, DataTypeDate, 0, "거래일시", "거래일자"),
			col(FieldDescription, true, DataTypeText, 1, "적요", "내용"),
			col(FieldDeposit, true, DataTypeCurrency, 2, "입금액", "입금"),
			col(FieldWithdrawal, true, DataTypeCurrency, 3, "출금액", "출금"),
			col(FieldBalance, true, DataTypeCurrency, 4, "잔액", "거래후잔액"),
			col(FieldCounterparty, false, DataTypeText, 5, "거래처", "받는분"),
			col(FieldAccountNo, false, DataTypeText, 6, "계좌번호"),
		},
	},
	{
		BankID:      "kakaobank",
		BankName:    "카카오뱅크",
		Version:     3,
		LastUpdated: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
		Structure:   Structure{Type: StructureSingleTable},
		Columns: []ColumnDefinition{
			col(FieldDate, true, DataTypeDate, 0, "거래일시", "날짜"),
			col(FieldDescription, true, DataTypeText, 1, "내용", "거래구분"),
			col(FieldDeposit, true, DataTypeCurrency, 2, "입금액", "입금"),
			col(FieldWithdrawal, true, DataTypeCurrency, 3, "출금액", "출금"),
			col(FieldBalance, true, DataTypeCurrency, 4, "잔액"),
			col(FieldCategory, false, DataTypeText, 5, "분류", "카테고리"),
			col(FieldMemo, false, DataTypeText, 6, "메모"),
		},
	},
	{
		BankID:      "tossbank",
		BankName:    "토스뱅크",
		Version:     2,
		LastUpdated: time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		Structure:   Structure{Type: StructureSingleTable},
		Columns: []ColumnDefinition{
			col(FieldDate, true, DataTypeDate, 0, "거래 일시", "거래일시", "날짜"),
			col(FieldDescription, true, DataTypeText, 1, "적요", "내용"),
			col(FieldDeposit, true, DataTypeCurrency, 2, "입금", "입금액"),
			col(FieldWithdrawal, true, DataTypeCurrency, 3, "출금", "출금액"),
			col(FieldBalance, true, DataTypeCurrency, 4, "거래 후 잔액", "잔액"),
			col(FieldCategory, false, DataTypeText, 5, "카테고리", "분류"),
		},
	},
	{
		BankID:      GenericBankID,
		BankName:    "일반 양식",
		Version:     6,
		LastUpdated: time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC),
		Structure:   Structure{Type: StructureSingleTable},
		Columns: []ColumnDefinition{
			col(FieldDate, true, DataTypeDate, 0, "거래일시", "거래일자", "거래일", "날짜", "일자", "date"),
			col(FieldDescription, true, DataTypeText, 1, "적요", "거래내용", "내용", "description"),
			col(FieldDeposit, true, DataTypeCurrency, 2, "입금금액", "입금액", "맡기신금액", "입금", "deposit"),
			col(FieldWithdrawal, true, DataTypeCurrency, 3, "출금금액", "출금액", "찾으신금액", "출금", "withdrawal"),
			col(FieldBalance, true, DataTypeCurrency, 4, "거래후잔액", "잔액", "잔고", "balance"),
			col(FieldCounterparty, false, DataTypeText, 5, "거래처", "의뢰인", "보낸분/받는분"),
			col(FieldBranch, false, DataTypeText, 6, "거래점", "취급점", "점포"),
			col(FieldMemo, false, DataTypeText, 7, "메모", "비고"),
			col(FieldAccountNo, false, DataTypeText, 8, "계좌번호"),
			col(FieldCategory, false, DataTypeText, 9, "분류", "카테고리", "구분"),
		},
	},
}
