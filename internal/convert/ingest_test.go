package convert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sejin-dev/statement-converter/internal/extract"
	infra "github.com/sejin-dev/statement-converter/internal/infra/bigquery"
	"github.com/sejin-dev/statement-converter/internal/normalize"
	"github.com/sejin-dev/statement-converter/internal/rules"
)

type fakeExtractor struct {
	stmt *extract.RawStatement
	err  error
}

func (f *fakeExtractor) Extract(ctx context.Context, fileBytes []byte, mimeType string) (*extract.RawStatement, error) {
	return f.stmt, f.err
}

type recordingRepo struct {
	started      []string
	failed       []string
	succeeded    []infra.RunSummary
	transactions []*infra.TransactionRowBQ
}

func (r *recordingRepo) InsertDocument(ctx context.Context, row *infra.DocumentRow) error { return nil }
func (r *recordingRepo) ListAllDocuments(ctx context.Context) ([]*infra.DocumentRow, error) {
	return nil, nil
}
func (r *recordingRepo) StartConversionRun(ctx context.Context, documentID string) (string, error) {
	r.started = append(r.started, documentID)
	return "run-1", nil
}
func (r *recordingRepo) MarkConversionRunFailed(ctx context.Context, runID string, runErr error) {
	r.failed = append(r.failed, runID)
}
func (r *recordingRepo) MarkConversionRunSucceeded(ctx context.Context, runID string, summary infra.RunSummary) error {
	r.succeeded = append(r.succeeded, summary)
	return nil
}
func (r *recordingRepo) InsertTransactions(ctx context.Context, rows []*infra.TransactionRowBQ) error {
	r.transactions = append(r.transactions, rows...)
	return nil
}
func (r *recordingRepo) InsertAuditEntry(ctx context.Context, row *infra.AuditEntryRow) error {
	return nil
}
func (r *recordingRepo) Close() error { return nil }

var _ infra.Repository = (*recordingRepo)(nil)

func newTestIngestor(repo infra.Repository, ex extract.Extractor, fetch FetchFunc) *Ingestor {
	svc := NewService(rules.NewRegistry(), decimal.Zero, zerolog.Nop()).
		WithNow(func() time.Time { return testNow })
	return &Ingestor{Service: svc, Extractor: ex, Repo: repo, Fetch: fetch}
}

func okFetch(ctx context.Context, uri string) ([]byte, error) {
	return []byte("file-bytes"), nil
}

func TestIngestStatement(t *testing.T) {
	repo := &recordingRepo{}
	ex := &fakeExtractor{
		stmt: &extract.RawStatement{
			BankID:  "kookmin",
			Headers: []string{"거래일시", "적요", "입금액", "출금액", "잔액"},
			Rows: []normalize.RawRow{
				{"거래일시": "2026-08-01", "적요": "이월", "입금액": "", "출금액": "", "잔액": "1,000"},
				{"거래일시": "2026-08-02", "적요": "급여", "입금액": "500", "출금액": "", "잔액": "1,500"},
			},
		},
	}

	ing := newTestIngestor(repo, ex, okFetch)
	err := ing.IngestStatement(context.Background(), "doc-1", "gs://b/o.pdf", "", "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, []string{"doc-1"}, repo.started)
	assert.Empty(t, repo.failed)
	require.Len(t, repo.succeeded, 1)

	summary := repo.succeeded[0]
	assert.Equal(t, 2, summary.RowCount)
	assert.Equal(t, 0, summary.FindingCount)
	assert.False(t, summary.GenericFallback)
	assert.Equal(t, string(rules.StatusValid), summary.RuleStatus)

	require.Len(t, repo.transactions, 2)
	assert.Equal(t, "doc-1", repo.transactions[0].DocumentID)
	assert.Equal(t, "run-1", repo.transactions[0].RunID)
}

func TestIngestStatementDeclaredBankWins(t *testing.T) {
	repo := &recordingRepo{}
	ex := &fakeExtractor{
		stmt: &extract.RawStatement{
			BankID:  "shinhan",
			Headers: []string{"거래일시", "적요", "입금액", "출금액", "잔액"},
			Rows:    nil,
		},
	}

	ing := newTestIngestor(repo, ex, okFetch)
	err := ing.IngestStatement(context.Background(), "doc-1", "gs://b/o.pdf", "not-a-real-bank", "")
	require.NoError(t, err)

	// the declared bank is unknown, so conversion fell back to generic
	// instead of using the extractor's identification
	require.Len(t, repo.succeeded, 1)
	assert.True(t, repo.succeeded[0].GenericFallback)
}

func TestIngestStatementFetchFailure(t *testing.T) {
	repo := &recordingRepo{}
	ing := newTestIngestor(repo, &fakeExtractor{}, func(ctx context.Context, uri string) ([]byte, error) {
		return nil, errors.New("object not found")
	})

	err := ing.IngestStatement(context.Background(), "doc-1", "gs://b/missing.pdf", "", "")
	require.Error(t, err)
	assert.Equal(t, []string{"run-1"}, repo.failed)
	assert.Empty(t, repo.succeeded)
}

func TestIngestStatementExtractFailure(t *testing.T) {
	repo := &recordingRepo{}
	ing := newTestIngestor(repo, &fakeExtractor{err: errors.New("model returned garbage")}, okFetch)

	err := ing.IngestStatement(context.Background(), "doc-1", "gs://b/o.pdf", "", "")
	require.Error(t, err)
	assert.Equal(t, []string{"run-1"}, repo.failed)
	assert.Empty(t, repo.transactions)
}
