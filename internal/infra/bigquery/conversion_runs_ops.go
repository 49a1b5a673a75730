package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	"github.com/sejin-dev/statement-converter/internal/logger"
)

// StartConversionRun inserts a new row into statements.conversion_runs with
// status=RUNNING and returns the generated run_id.
func (c *Client) StartConversionRun(ctx context.Context, documentID string) (string, error) {
	runID := uuid.NewString()
	started := time.Now()

	q := c.bq.Query(fmt.Sprintf(`
		INSERT %s.%s (
			run_id,
			document_id,
			started_ts,
			extractor_type,
			extractor_version,
			status
		)
		VALUES (
			@run_id,
			@document_id,
			@started_ts,
			@extractor_type,
			@extractor_version,
			@status
		)
	`, datasetID, conversionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
		{Name: "document_id", Value: documentID},
		{Name: "started_ts", Value: started},
		{Name: "extractor_type", Value: "GEMINI_VISION"},
		{Name: "extractor_version", Value: "v1"},
		{Name: "status", Value: "RUNNING"},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("StartConversionRun: running insert query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("StartConversionRun: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return "", fmt.Errorf("StartConversionRun: job error: %w", err)
	}

	return runID, nil
}

// MarkConversionRunFailed sets status=FAILED, finished_ts and error_message.
// Failures to record a failure are logged, not propagated; the original
// error matters more than the bookkeeping.
func (c *Client) MarkConversionRunFailed(ctx context.Context, runID string, runErr error) {
	log := logger.FromContext(ctx)

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
		const maxLen = 2000
		if len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen]
		}
	}

	q := c.bq.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE run_id = @run_id
	`, datasetID, conversionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "FAILED"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "error_message", Value: errMsg},
		{Name: "run_id", Value: runID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkConversionRunFailed: running update query")
		return
	}
	status, err := job.Wait(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkConversionRunFailed: waiting for job")
		return
	}
	if err := status.Err(); err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkConversionRunFailed: job completed with error")
	}
}

// MarkConversionRunSucceeded sets status=SUCCESS and attaches the run
// summary (rule status, row and finding counts).
func (c *Client) MarkConversionRunSucceeded(ctx context.Context, runID string, summary RunSummary) error {
	q := c.bq.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = "",
		    rule_status = @rule_status,
		    row_count = @row_count,
		    finding_count = @finding_count,
		    generic_fallback = @generic_fallback
		WHERE run_id = @run_id
	`, datasetID, conversionRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "SUCCESS"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "rule_status", Value: summary.RuleStatus},
		{Name: "row_count", Value: summary.RowCount},
		{Name: "finding_count", Value: summary.FindingCount},
		{Name: "generic_fallback", Value: summary.GenericFallback},
		{Name: "run_id", Value: runID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkConversionRunSucceeded: running update query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkConversionRunSucceeded: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("MarkConversionRunSucceeded: job error: %w", err)
	}

	return nil
}
