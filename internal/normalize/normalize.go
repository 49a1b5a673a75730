// Package normalize maps raw extracted statement headers and rows onto the
// canonical transaction schema using a bank rule's column definitions.
package normalize

import (
	"strings"
	"unicode"

	"github.com/sejin-dev/statement-converter/internal/domain"
	"github.com/sejin-dev/statement-converter/internal/rules"
)

// RawRow is one extracted statement row keyed by raw header string, exactly
// as the extraction collaborator produced it.
type RawRow map[string]string

// ParseWarning records a cell that could not be parsed as its declared type.
// The field defaulted to zero/blank; the warning is informational and never
// blocks the batch.
type ParseWarning struct {
	Row   int         `json:"row"`
	Field rules.Field `json:"field"`
	Value string      `json:"value"`
}

// MatchReport is the diagnostics side of a normalization run.
type MatchReport struct {
	// UnmatchedRequired lists required canonical fields no raw header
	// satisfied. Strict callers treat a non-empty set as fatal.
	UnmatchedRequired []rules.Field `json:"unmatched_required"`
	// UnmappedColumns lists raw headers no column definition claimed.
	// Informational, never fatal.
	UnmappedColumns []string `json:"unmapped_columns"`
	// ParseWarnings lists cells that defaulted after a failed parse,
	// parallel to the normalized output.
	ParseWarnings []ParseWarning `json:"parse_warnings"`
	// DualAmountRows lists output row indexes carrying both a deposit and
	// a withdrawal. Both values are kept as extracted; the row is flagged,
	// never corrected.
	DualAmountRows []int `json:"dual_amount_rows"`
}

// Normalize matches raw headers against the rule's column definitions and
// converts every row into the canonical schema. It always runs to completion
// over the full input: unmatched required columns yield blank defaults and a
// report entry, unparseable cells yield zero values and a warning, and a
// single bad row never prevents the rest from being normalized.
func Normalize(headers []string, rows []RawRow, rule rules.BankRule) ([]domain.TransactionRow, MatchReport) {
	matched, report := matchColumns(headers, rule)

	sections := partition(rows, headers, rule)

	txns := make([]domain.TransactionRow, 0, len(rows))
	for _, sec := range sections {
		for _, raw := range sec.rows {
			row := normalizeRow(raw, matched, rule, len(txns), &report)
			applySectionLabel(&row, sec.label, rule.Structure.Type)
			txns = append(txns, row)
		}
	}
	return txns, report
}

// matchColumns assigns at most one raw header to each column definition.
// Columns claim headers in the rule's declared order: exact normalized
// equality against the canonical name and each alias first, then substring
// containment as a fallback. A claimed header is never reassigned.
func matchColumns(headers []string, rule rules.BankRule) (map[rules.Field]string, MatchReport) {
	normed := make([]string, len(headers))
	for i, h := range headers {
		normed[i] = normalizeHeader(h)
	}
	claimed := make([]bool, len(headers))
	matched := make(map[rules.Field]string, len(rule.Columns))

	var report MatchReport
	for _, col := range rule.Columns {
		idx := claimHeader(normed, claimed, col)
		if idx < 0 {
			if col.Required {
				report.UnmatchedRequired = append(report.UnmatchedRequired, col.Name)
			}
			continue
		}
		claimed[idx] = true
		matched[col.Name] = headers[idx]
	}

	for i, h := range headers {
		if !claimed[i] {
			report.UnmappedColumns = append(report.UnmappedColumns, h)
		}
	}
	return matched, report
}

func claimHeader(normed []string, claimed []bool, col rules.ColumnDefinition) int {
	candidates := make([]string, 0, len(col.Aliases)+1)
	candidates = append(candidates, normalizeHeader(string(col.Name)))
	for _, a := range col.Aliases {
		candidates = append(candidates, normalizeHeader(a))
	}

	// Exact pass. The advisory position is only a tie-break: when the
	// header at the expected index matches, prefer it.
	for _, cand := range candidates {
		if cand == "" {
			continue
		}
		if p := col.Position; p >= 0 && p < len(normed) && !claimed[p] && normed[p] == cand {
			return p
		}
		for i, h := range normed {
			if !claimed[i] && h == cand {
				return i
			}
		}
	}

	// Containment fallback, e.g. "입금액(원)" against alias "입금액".
	for _, cand := range candidates {
		if cand == "" {
			continue
		}
		for i, h := range normed {
			if claimed[i] || h == "" {
				continue
			}
			if strings.Contains(h, cand) || strings.Contains(cand, h) {
				return i
			}
		}
	}
	return -1
}

// normalizeHeader lowercases a header and strips every kind of whitespace,
// so "거래 일시", "거래일시" and " 거래일시 " all compare equal.
func normalizeHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func normalizeRow(raw RawRow, matched map[rules.Field]string, rule rules.BankRule, outIndex int, report *MatchReport) domain.TransactionRow {
	var row domain.TransactionRow
	for _, col := range rule.Columns {
		header, ok := matched[col.Name]
		if !ok {
			continue
		}
		cell := strings.TrimSpace(raw[header])

		switch col.DataType {
		case rules.DataTypeCurrency:
			if cell == "" {
				break // blank amount cells are normal, not a warning
			}
			amount, err := ParseCurrency(cell)
			if err != nil {
				report.ParseWarnings = append(report.ParseWarnings, ParseWarning{Row: outIndex, Field: col.Name, Value: cell})
				break
			}
			setAmount(&row, col.Name, amount)
		case rules.DataTypeDate:
			if cell == "" {
				break
			}
			day, clock, err := parseDate(cell)
			if err != nil {
				report.ParseWarnings = append(report.ParseWarnings, ParseWarning{Row: outIndex, Field: col.Name, Value: cell})
				break
			}
			row.Date = day
			row.Time = clock
		default:
			setText(&row, col.Name, cell)
		}
	}
	if !row.Deposit.IsZero() && !row.Withdrawal.IsZero() {
		report.DualAmountRows = append(report.DualAmountRows, outIndex)
	}
	return row
}

func applySectionLabel(row *domain.TransactionRow, label string, structure rules.StructureType) {
	if label == "" {
		return
	}
	switch structure {
	case rules.StructureSectionedByAccount:
		if row.AccountNo == "" {
			row.AccountNo = label
		}
	case rules.StructureMultiSection:
		if row.Category == "" {
			row.Category = label
		}
	}
}
