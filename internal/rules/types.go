package rules

import (
	"time"
)

// Field is a canonical transaction attribute that statement columns
// normalize into.
type Field string

const (
	FieldDate         Field = "date"
	FieldDescription  Field = "description"
	FieldDeposit      Field = "deposit"
	FieldWithdrawal   Field = "withdrawal"
	FieldBalance      Field = "balance"
	FieldCounterparty Field = "counterparty"
	FieldMemo         Field = "memo"
	FieldBranch       Field = "branch"
	FieldAccountNo    Field = "accountNo"
	FieldCategory     Field = "category"
)

// MandatoryFields are the canonical fields every usable rule must declare as
// required columns.
var MandatoryFields = []Field{
	FieldDate,
	FieldDescription,
	FieldDeposit,
	FieldWithdrawal,
	FieldBalance,
}

// DataType describes how a column's cells are parsed.
type DataType string

const (
	DataTypeDate     DataType = "date"
	DataTypeCurrency DataType = "currency"
	DataTypeText     DataType = "text"
)

// ColumnDefinition maps one canonical field onto the raw header strings a
// bank uses for it. Aliases are tried in order after the canonical name
// itself. Position is the ordinal index the column usually appears at; it is
// advisory only and never overrides a header match.
type ColumnDefinition struct {
	Name     Field    `json:"name"`
	Aliases  []string `json:"aliases"`
	Required bool     `json:"required"`
	DataType DataType `json:"data_type"`
	Position int      `json:"position"`
}

// StructureType is the closed set of statement layouts. A rule's parsing
// behavior is fully determined by its structure type plus its column set.
type StructureType string

const (
	// StructureSingleTable is one contiguous transaction table.
	StructureSingleTable StructureType = "single-table"
	// StructureMultiSection is a statement split into dated or per-topic
	// sections, each independently parseable.
	StructureMultiSection StructureType = "multi-section"
	// StructureSectionedByAccount is one statement covering multiple
	// accounts; rows must carry an account identifier.
	StructureSectionedByAccount StructureType = "sectioned-by-account"
)

// Structure couples a layout type with its parameters. SectionPattern is a
// regular expression matching section boundary rows; it is required for the
// two sectioned layouts and ignored for single-table.
type Structure struct {
	Type           StructureType `json:"type"`
	SectionPattern string        `json:"section_pattern,omitempty"`
}

// NeedsSectionPattern reports whether this structure type cannot be parsed
// without a section boundary pattern.
func (s Structure) NeedsSectionPattern() bool {
	return s.Type == StructureMultiSection || s.Type == StructureSectionedByAccount
}

// BankRule is the declarative description of one institution's statement
// layout. Rules are authored out-of-band and loaded once per process; they
// are never mutated at runtime.
type BankRule struct {
	BankID      string             `json:"bank_id"`
	BankName    string             `json:"bank_name"`
	Version     int                `json:"version"`
	LastUpdated time.Time          `json:"last_updated"`
	Columns     []ColumnDefinition `json:"columns"`
	Structure   Structure          `json:"structure"`
}

// Column returns the definition for a canonical field, or false when the
// rule does not declare it.
func (r BankRule) Column(name Field) (ColumnDefinition, bool) {
	for _, col := range r.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnDefinition{}, false
}

// RuleSummary is the listing shape returned by the registry: identity plus
// the validation status computed at call time.
type RuleSummary struct {
	BankID           string           `json:"bank_id"`
	BankName         string           `json:"bank_name"`
	ColumnCount      int              `json:"column_count"`
	StructureType    StructureType    `json:"structure_type"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	Version          int              `json:"version"`
	LastUpdated      time.Time        `json:"last_updated"`
}
