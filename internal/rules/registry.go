// Package rules holds the per-institution statement layout catalog: which
// raw headers map onto which canonical transaction fields, how the statement
// is physically structured, and whether a definition is still fit for use.
package rules

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrRuleNotFound is returned by Get for an unknown bank identifier.
// Callers either surface it as a 404 or fall back to the generic rule.
var ErrRuleNotFound = errors.New("bank rule not found")

// Registry is the process-wide read-only rule catalog. It is built once at
// startup and never mutated afterwards, so it may be shared across any
// number of concurrent requests without locking.
type Registry struct {
	byID  map[string]BankRule
	order []string
}

// NewRegistry builds a registry from the built-in rule set.
func NewRegistry() *Registry {
	r, err := newRegistry(builtinRules)
	if err != nil {
		// Built-in definitions are authored in this package; a bad one
		// is a programming error, not runtime input.
		panic(err)
	}
	return r
}

func newRegistry(ruleset []BankRule) (*Registry, error) {
	r := &Registry{byID: make(map[string]BankRule, len(ruleset))}
	for _, rule := range ruleset {
		if rule.BankID == "" {
			return nil, fmt.Errorf("rule %q: empty bank id", rule.BankName)
		}
		if _, dup := r.byID[rule.BankID]; dup {
			return nil, fmt.Errorf("duplicate rule for bank %q", rule.BankID)
		}
		seen := make(map[Field]bool, len(rule.Columns))
		for _, c := range rule.Columns {
			if seen[c.Name] {
				return nil, fmt.Errorf("rule %q: duplicate column %q", rule.BankID, c.Name)
			}
			seen[c.Name] = true
		}
		r.byID[rule.BankID] = rule
		r.order = append(r.order, rule.BankID)
	}
	sort.Strings(r.order)
	return r, nil
}

// Get returns the rule for an exact bank identifier. There is no fuzzy
// bank-name resolution here; identifying the bank from a statement is an
// upstream concern.
func (r *Registry) Get(bankID string) (BankRule, error) {
	rule, ok := r.byID[bankID]
	if !ok {
		return BankRule{}, fmt.Errorf("%w: %q", ErrRuleNotFound, bankID)
	}
	return rule, nil
}

// Generic returns the fallback rule used for undeclared or unknown banks.
func (r *Registry) Generic() BankRule {
	return r.byID[GenericBankID]
}

// List returns a summary for every rule, ordered by bank id, with each
// rule's validation status computed at the given reference time.
func (r *Registry) List(now time.Time) []RuleSummary {
	summaries := make([]RuleSummary, 0, len(r.order))
	for _, id := range r.order {
		rule := r.byID[id]
		summaries = append(summaries, RuleSummary{
			BankID:           rule.BankID,
			BankName:         rule.BankName,
			ColumnCount:      len(rule.Columns),
			StructureType:    rule.Structure.Type,
			ValidationStatus: Validate(rule, now),
			Version:          rule.Version,
			LastUpdated:      rule.LastUpdated,
		})
	}
	return summaries
}

// Len reports how many rules the registry holds.
func (r *Registry) Len() int {
	return len(r.byID)
}
