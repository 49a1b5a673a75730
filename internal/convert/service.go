// Package convert runs one statement through the core engine: resolve the
// bank rule, normalize the raw extraction against it, then verify balance
// continuity. The output is always the full normalized sequence plus a
// complete diagnostics bundle; nothing here aborts a batch halfway.
package convert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sejin-dev/statement-converter/internal/balance"
	"github.com/sejin-dev/statement-converter/internal/domain"
	"github.com/sejin-dev/statement-converter/internal/normalize"
	"github.com/sejin-dev/statement-converter/internal/rules"
)

// DefaultHighlightThreshold is the deposit/withdrawal size above which the
// export layer highlights a row, in KRW.
var DefaultHighlightThreshold = decimal.NewFromInt(1_000_000)

// Request is one statement's worth of raw extracted data. BankID may be
// empty or unknown; conversion then falls back to the generic rule.
type Request struct {
	BankID  string             `json:"bank_id"`
	Headers []string           `json:"headers"`
	Rows    []normalize.RawRow `json:"rows"`
	// Strict makes unmatched required columns an error instead of a
	// diagnostic. Exports run strict; previews run lenient.
	Strict bool `json:"strict,omitempty"`
}

// Diagnostics accompanies every conversion result. Every finding kind is
// advisory here; only the strict-mode column match failure is promoted
// to an error, and even then the result still carries full diagnostics.
type Diagnostics struct {
	BankID           string                 `json:"bank_id"`
	RuleStatus       rules.ValidationStatus `json:"rule_status"`
	GenericFallback  bool                   `json:"generic_fallback"`
	Match            normalize.MatchReport  `json:"match"`
	ContinuityIssues []balance.Finding      `json:"continuity_issues"`
}

// Result is the stable output shape the export and report layers consume.
type Result struct {
	Transactions    []domain.TransactionRow `json:"transactions"`
	Diagnostics     Diagnostics             `json:"diagnostics"`
	HighlightedRows []int                   `json:"highlighted_rows"`
}

// ColumnMatchError is returned by strict conversions when required canonical
// fields stayed unmatched.
type ColumnMatchError struct {
	Missing []rules.Field
}

func (e *ColumnMatchError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("required columns unmatched: %s", strings.Join(names, ", "))
}

// Service wires the registry, normalizer and checker together. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	registry  *rules.Registry
	threshold decimal.Decimal
	now       func() time.Time
	log       zerolog.Logger
}

// NewService creates a conversion service. A zero threshold falls back to
// DefaultHighlightThreshold.
func NewService(registry *rules.Registry, threshold decimal.Decimal, log zerolog.Logger) *Service {
	if threshold.IsZero() {
		threshold = DefaultHighlightThreshold
	}
	return &Service{
		registry:  registry,
		threshold: threshold,
		now:       time.Now,
		log:       log,
	}
}

// WithNow overrides the reference time used for rule validation. Tests use
// it to keep staleness judgments deterministic.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Convert normalizes one statement. On a strict run with unmatched required
// columns it returns both the full result and a *ColumnMatchError, so the
// caller can fail the request yet still show complete diagnostics.
func (s *Service) Convert(ctx context.Context, req Request) (*Result, error) {
	rule, fallback := s.resolveRule(req.BankID)
	status := rules.Validate(rule, s.now())

	txns, report := normalize.Normalize(req.Headers, req.Rows, rule)
	findings := s.continuity(txns, rule.Structure.Type)

	result := &Result{
		Transactions: txns,
		Diagnostics: Diagnostics{
			BankID:           rule.BankID,
			RuleStatus:       status,
			GenericFallback:  fallback,
			Match:            report,
			ContinuityIssues: findings,
		},
		HighlightedRows: s.highlighted(txns),
	}

	s.log.Debug().
		Str("bank_id", rule.BankID).
		Str("rule_status", string(status)).
		Bool("generic_fallback", fallback).
		Int("rows", len(txns)).
		Int("continuity_issues", len(findings)).
		Int("parse_warnings", len(report.ParseWarnings)).
		Msg("Statement converted")

	if req.Strict && len(report.UnmatchedRequired) > 0 {
		return result, &ColumnMatchError{Missing: report.UnmatchedRequired}
	}
	return result, nil
}

// Rules exposes the registry for the listing/detail API.
func (s *Service) Rules() *rules.Registry {
	return s.registry
}

// Now returns the service's reference time.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) resolveRule(bankID string) (rules.BankRule, bool) {
	if bankID == "" {
		return s.registry.Generic(), true
	}
	rule, err := s.registry.Get(bankID)
	if err != nil {
		// Recoverable: unknown banks convert under the generic rule,
		// and the fallback is surfaced in the diagnostics.
		return s.registry.Generic(), true
	}
	return rule, false
}

// continuity checks balance continuity per section group. Sectioned
// statements restart their running balance at each section boundary, so the
// check runs over each run of consecutive rows sharing a section label and
// findings keep their index into the full sequence.
func (s *Service) continuity(txns []domain.TransactionRow, structure rules.StructureType) []balance.Finding {
	if structure == rules.StructureSingleTable {
		return balance.CheckContinuity(txns)
	}

	label := func(t domain.TransactionRow) string {
		if structure == rules.StructureSectionedByAccount {
			return t.AccountNo
		}
		return t.Category
	}

	var findings []balance.Finding
	start := 0
	for i := 1; i <= len(txns); i++ {
		if i < len(txns) && label(txns[i]) == label(txns[start]) {
			continue
		}
		for _, f := range balance.CheckContinuity(txns[start:i]) {
			f.RowIndex += start
			findings = append(findings, f)
		}
		start = i
	}
	return findings
}

func (s *Service) highlighted(txns []domain.TransactionRow) []int {
	var rows []int
	for i, t := range txns {
		if t.Amount().GreaterThanOrEqual(s.threshold) {
			rows = append(rows, i)
		}
	}
	return rows
}
