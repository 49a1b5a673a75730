package rules

import (
	"time"
)

// ValidationStatus judges a rule definition's fitness for use. It is derived
// from the rule on demand and never persisted, so it cannot drift from the
// definition it describes.
type ValidationStatus string

const (
	// StatusValid means the rule can be used as-is.
	StatusValid ValidationStatus = "valid"
	// StatusIncomplete means required canonical columns or structure
	// parameters are missing.
	StatusIncomplete ValidationStatus = "incomplete"
	// StatusStale means the rule has not been reviewed within the
	// freshness window and should be re-checked by an operator.
	StatusStale ValidationStatus = "stale"
)

// FreshnessWindow is how long a rule stays trusted after its last human
// review.
const FreshnessWindow = 180 * 24 * time.Hour

// Validate computes the validation status of a rule at the given reference
// time. Incompleteness always wins over staleness: a rule missing mandatory
// columns is incomplete even when freshly reviewed.
func Validate(rule BankRule, now time.Time) ValidationStatus {
	for _, want := range MandatoryFields {
		col, ok := rule.Column(want)
		if !ok || !col.Required {
			return StatusIncomplete
		}
	}

	if rule.Structure.NeedsSectionPattern() && rule.Structure.SectionPattern == "" {
		return StatusIncomplete
	}

	if now.Sub(rule.LastUpdated) > FreshnessWindow {
		return StatusStale
	}

	return StatusValid
}
