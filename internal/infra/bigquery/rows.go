package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
)

// DocumentRow describes one uploaded statement file.
type DocumentRow struct {
	DocumentID string `bigquery:"document_id"` // REQUIRED
	UserID     string `bigquery:"user_id"`     // NULLABLE
	GCSURI     string `bigquery:"gcs_uri"`     // REQUIRED

	BankID string `bigquery:"bank_id"` // NULLABLE, caller-declared bank

	UploadTS    time.Time              `bigquery:"upload_ts"`    // REQUIRED
	ProcessedTS bigquery.NullTimestamp `bigquery:"processed_ts"` // NULLABLE

	ConversionStatus string `bigquery:"conversion_status"` // NULLABLE

	OriginalFilename string `bigquery:"original_filename"` // NULLABLE
	FileMimeType     string `bigquery:"file_mime_type"`    // NULLABLE
}

// ConversionRunRow tracks one extraction + conversion attempt over a
// document.
type ConversionRunRow struct {
	RunID      string `bigquery:"run_id"`
	DocumentID string `bigquery:"document_id"`

	StartedTS  time.Time              `bigquery:"started_ts"`
	FinishedTS bigquery.NullTimestamp `bigquery:"finished_ts"`

	ExtractorType    string `bigquery:"extractor_type"`    // e.g. GEMINI_VISION
	ExtractorVersion string `bigquery:"extractor_version"` // e.g. v1

	Status       string `bigquery:"status"`
	ErrorMessage string `bigquery:"error_message"`

	RuleStatus      string             `bigquery:"rule_status"`
	RowCount        bigquery.NullInt64 `bigquery:"row_count"`
	FindingCount    bigquery.NullInt64 `bigquery:"finding_count"`
	GenericFallback bigquery.NullBool  `bigquery:"generic_fallback"`
	Metadata        bigquery.NullJSON  `bigquery:"metadata"`
}

// TransactionRowBQ is the warehouse shape of one normalized transaction.
// Amounts go in as NUMERIC via *big.Rat so the exact-decimal invariant
// survives storage.
type TransactionRowBQ struct {
	DocumentID string `bigquery:"document_id"`
	RunID      string `bigquery:"run_id"`
	RowIndex   int    `bigquery:"row_index"`

	TxDate bigquery.NullDate `bigquery:"tx_date"`
	TxTime string            `bigquery:"tx_time"`

	Description  string `bigquery:"description"`
	Counterparty string `bigquery:"counterparty"`

	Deposit    *big.Rat `bigquery:"deposit"`
	Withdrawal *big.Rat `bigquery:"withdrawal"`
	Balance    *big.Rat `bigquery:"balance"`

	Memo      string `bigquery:"memo"`
	Branch    string `bigquery:"branch"`
	AccountNo string `bigquery:"account_no"`
	Category  string `bigquery:"category"`
}

// AuditEntryRow records one export for the operations trail: how many rows
// went out and how many crossed the highlight threshold.
type AuditEntryRow struct {
	AuditID    string `bigquery:"audit_id"`
	DocumentID string `bigquery:"document_id"`
	BankID     string `bigquery:"bank_id"`

	RowCount         int `bigquery:"row_count"`
	HighlightedCount int `bigquery:"highlighted_count"`
	FindingCount     int `bigquery:"finding_count"`

	CreatedTS time.Time `bigquery:"created_ts"`
}
