// Command convert runs one extracted statement payload through the engine
// locally, without the API server or any GCP credentials. The input file is
// the same JSON shape POST /api/convert accepts.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/sejin-dev/statement-converter/internal/convert"
	"github.com/sejin-dev/statement-converter/internal/export"
	"github.com/sejin-dev/statement-converter/internal/logger"
	"github.com/sejin-dev/statement-converter/internal/rules"
)

func main() {
	_ = godotenv.Load()

	var (
		input     = flag.String("input", "", "path to the extracted statement JSON payload")
		bankID    = flag.String("bank", "", "bank rule to convert under (overrides the payload's bank_id)")
		strict    = flag.Bool("strict", false, "fail when required columns stay unmatched")
		out       = flag.String("out", "", "write the highlighted spreadsheet to this path")
		threshold = flag.String("highlight-threshold", "", "amount at or above which rows are highlighted (KRW)")
	)
	flag.Parse()

	log := logger.New()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: convert -input payload.json [-bank bankId] [-strict] [-out statement.xlsx]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatal().Err(err).Str("path", *input).Msg("Failed to read input payload")
	}

	var req convert.Request
	if err := json.Unmarshal(data, &req); err != nil {
		log.Fatal().Err(err).Msg("Failed to decode input payload")
	}
	if *bankID != "" {
		req.BankID = *bankID
	}
	req.Strict = *strict

	highlightAt := decimal.Zero
	if *threshold != "" {
		highlightAt, err = decimal.NewFromString(*threshold)
		if err != nil {
			log.Fatal().Err(err).Str("value", *threshold).Msg("Invalid highlight threshold")
		}
	}

	svc := convert.NewService(rules.NewRegistry(), highlightAt, log)

	result, convErr := svc.Convert(context.Background(), req)
	var matchErr *convert.ColumnMatchError
	if convErr != nil && !errors.As(convErr, &matchErr) {
		log.Fatal().Err(convErr).Msg("Conversion failed")
	}

	d := result.Diagnostics
	fmt.Printf("Bank:         %s (rule %s", d.BankID, d.RuleStatus)
	if d.GenericFallback {
		fmt.Print(", generic fallback")
	}
	fmt.Println(")")
	fmt.Printf("Rows:         %d (%d highlighted)\n", len(result.Transactions), len(result.HighlightedRows))

	if len(d.Match.UnmatchedRequired) > 0 {
		fmt.Printf("Unmatched:    %v\n", d.Match.UnmatchedRequired)
	}
	if len(d.Match.UnmappedColumns) > 0 {
		fmt.Printf("Unmapped:     %v\n", d.Match.UnmappedColumns)
	}
	if len(d.Match.DualAmountRows) > 0 {
		fmt.Printf("Dual amounts: rows %v\n", d.Match.DualAmountRows)
	}
	for _, w := range d.Match.ParseWarnings {
		fmt.Printf("  parse warning: row %d field %s value %q\n", w.Row, w.Field, w.Value)
	}
	for _, f := range d.ContinuityIssues {
		fmt.Printf("  continuity: row %d expected %s got %s\n", f.RowIndex, f.ExpectedBalance, f.ActualBalance)
	}

	fmt.Println()
	for i, t := range result.Transactions {
		fmt.Printf("%4d  %-10s  %-24s  +%-12s -%-12s =%s\n",
			i, t.DateString(), truncate(t.Description, 24),
			t.Deposit, t.Withdrawal, t.Balance)
	}

	if *out != "" {
		wb, summary, err := export.Workbook(result.Transactions, result.HighlightedRows)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build workbook")
		}
		if err := wb.SaveAs(*out); err != nil {
			log.Fatal().Err(err).Str("path", *out).Msg("Failed to save workbook")
		}
		fmt.Printf("\nWrote %s (%d rows, %d highlighted)\n", *out, summary.RowCount, summary.HighlightedCount)
	}

	if matchErr != nil {
		fmt.Fprintf(os.Stderr, "\nstrict conversion failed: %v\n", matchErr)
		os.Exit(1)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
