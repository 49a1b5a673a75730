package convert

import (
	"context"

	"github.com/sejin-dev/statement-converter/internal/extract"
	infra "github.com/sejin-dev/statement-converter/internal/infra/bigquery"
	"github.com/sejin-dev/statement-converter/internal/logger"
)

// FetchFunc downloads statement file bytes by storage URI.
type FetchFunc func(ctx context.Context, uri string) ([]byte, error)

// Ingestor runs the full asynchronous path for one uploaded statement:
// fetch the file, extract raw rows with the model, convert them through the
// engine, then persist the normalized transactions and the run outcome.
type Ingestor struct {
	Service   *Service
	Extractor extract.Extractor
	Repo      infra.Repository
	Fetch     FetchFunc
}

// IngestStatement processes one uploaded statement file. declaredBankID is
// the caller's claim from upload time; the extractor's reading wins only
// when the caller declared nothing.
func (ing *Ingestor) IngestStatement(ctx context.Context, documentID, fileURI, declaredBankID, mimeType string) error {
	log := logger.FromContext(ctx)

	runID, err := ing.Repo.StartConversionRun(ctx, documentID)
	if err != nil {
		return err
	}

	fileBytes, err := ing.Fetch(ctx, fileURI)
	if err != nil {
		ing.Repo.MarkConversionRunFailed(ctx, runID, err)
		return err
	}

	stmt, err := ing.Extractor.Extract(ctx, fileBytes, mimeType)
	if err != nil {
		ing.Repo.MarkConversionRunFailed(ctx, runID, err)
		return err
	}

	bankID := declaredBankID
	if bankID == "" {
		bankID = stmt.BankID
	}

	// Ingestion always runs lenient: diagnostics land in the run record
	// for operators, and the preview UI decides what blocks an export.
	result, err := ing.Service.Convert(ctx, Request{
		BankID:  bankID,
		Headers: stmt.Headers,
		Rows:    stmt.Rows,
	})
	if err != nil {
		ing.Repo.MarkConversionRunFailed(ctx, runID, err)
		return err
	}

	if err := ing.Repo.InsertTransactions(ctx, infra.ToTransactionRows(documentID, runID, result.Transactions)); err != nil {
		ing.Repo.MarkConversionRunFailed(ctx, runID, err)
		return err
	}

	summary := infra.RunSummary{
		RuleStatus:      string(result.Diagnostics.RuleStatus),
		RowCount:        len(result.Transactions),
		FindingCount:    len(result.Diagnostics.ContinuityIssues),
		GenericFallback: result.Diagnostics.GenericFallback,
	}
	if err := ing.Repo.MarkConversionRunSucceeded(ctx, runID, summary); err != nil {
		return err
	}

	log.Info().
		Str("document_id", documentID).
		Str("run_id", runID).
		Int("rows", summary.RowCount).
		Int("continuity_issues", summary.FindingCount).
		Msg("Statement ingested")

	return nil
}
