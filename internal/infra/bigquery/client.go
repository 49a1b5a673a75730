// Package bigquery persists documents, conversion runs, normalized
// transactions and export audit entries in the analytics warehouse.
package bigquery

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/bigquery"
)

const (
	defaultProjectID = "statement-converter-prod"
	datasetID        = "statements"

	documentsTable      = "documents"
	conversionRunsTable = "conversion_runs"
	transactionsTable   = "transactions"
	auditEntriesTable   = "audit_entries"
)

// projectID resolves the GCP project, preferring the environment so staging
// and local runs do not write into production.
func projectID() string {
	if p := os.Getenv("BQ_PROJECT_ID"); p != "" {
		return p
	}
	return defaultProjectID
}

// Repository is the persistence surface the handlers and the ingest path
// depend on; tests swap in an in-memory fake.
type Repository interface {
	InsertDocument(ctx context.Context, row *DocumentRow) error
	ListAllDocuments(ctx context.Context) ([]*DocumentRow, error)

	StartConversionRun(ctx context.Context, documentID string) (string, error)
	MarkConversionRunFailed(ctx context.Context, runID string, runErr error)
	MarkConversionRunSucceeded(ctx context.Context, runID string, summary RunSummary) error

	InsertTransactions(ctx context.Context, rows []*TransactionRowBQ) error

	InsertAuditEntry(ctx context.Context, row *AuditEntryRow) error

	Close() error
}

// RunSummary is attached to a conversion run when it finishes.
type RunSummary struct {
	RuleStatus      string
	RowCount        int
	FindingCount    int
	GenericFallback bool
}

// Client implements Repository over a shared BigQuery connection, so each
// request does not pay for a fresh client.
type Client struct {
	bq *bigquery.Client
}

// NewClient creates a repository backed by BigQuery.
func NewClient(ctx context.Context) (*Client, error) {
	bq, err := bigquery.NewClient(ctx, projectID())
	if err != nil {
		return nil, fmt.Errorf("NewClient: bigquery client: %w", err)
	}
	return &Client{bq: bq}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.bq != nil {
		return c.bq.Close()
	}
	return nil
}

var _ Repository = (*Client)(nil)
