package bigquery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InsertAuditEntry records one export in statements.audit_entries. The ID
// and timestamp are filled in here when the caller left them empty.
func (c *Client) InsertAuditEntry(ctx context.Context, row *AuditEntryRow) error {
	if row.AuditID == "" {
		row.AuditID = uuid.NewString()
	}
	if row.CreatedTS.IsZero() {
		row.CreatedTS = time.Now()
	}

	inserter := c.bq.Dataset(datasetID).Table(auditEntriesTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertAuditEntry: inserting row: %w", err)
	}
	return nil
}
