package normalize

import (
	"regexp"
	"strings"

	"github.com/sejin-dev/statement-converter/internal/rules"
)

type section struct {
	label string
	rows  []RawRow
}

// partition splits raw rows into sections for multi-section and
// sectioned-by-account layouts. A section boundary is a row whose only
// non-empty cell matches the rule's section pattern; the boundary row itself
// is consumed, not normalized. Single-table layouts (and sectioned rules
// whose pattern fails to compile, which the validator reports as incomplete)
// come back as one unlabeled section.
func partition(rows []RawRow, headers []string, rule rules.BankRule) []section {
	if !rule.Structure.NeedsSectionPattern() {
		return []section{{rows: rows}}
	}
	re, err := regexp.Compile(rule.Structure.SectionPattern)
	if err != nil {
		return []section{{rows: rows}}
	}

	var sections []section
	current := section{}
	for _, row := range rows {
		if label, ok := boundaryLabel(row, headers, re); ok {
			if len(current.rows) > 0 || current.label != "" {
				sections = append(sections, current)
			}
			current = section{label: label}
			continue
		}
		current.rows = append(current.rows, row)
	}
	sections = append(sections, current)
	return sections
}

// boundaryLabel reports whether a row is a section header. The label is the
// pattern's first capture group when it has one, otherwise the whole cell.
func boundaryLabel(row RawRow, headers []string, re *regexp.Regexp) (string, bool) {
	value := ""
	for _, h := range headers {
		cell := strings.TrimSpace(row[h])
		if cell == "" {
			continue
		}
		if value != "" {
			return "", false // more than one populated cell: a data row
		}
		value = cell
	}
	if value == "" {
		return "", false
	}
	m := re.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	if len(m) > 1 && m[1] != "" {
		return m[1], true
	}
	return value, true
}
