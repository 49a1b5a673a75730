package bigquery

import (
	"context"
	"fmt"

	"google.golang.org/api/iterator"
)

// InsertDocument inserts a single DocumentRow into statements.documents.
func (c *Client) InsertDocument(ctx context.Context, row *DocumentRow) error {
	inserter := c.bq.Dataset(datasetID).Table(documentsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertDocument: inserting row: %w", err)
	}
	return nil
}

// ListAllDocuments returns every uploaded statement file, newest first.
func (c *Client) ListAllDocuments(ctx context.Context) ([]*DocumentRow, error) {
	q := c.bq.Query(fmt.Sprintf(`
		SELECT *
		FROM %s.%s
		ORDER BY upload_ts DESC
	`, datasetID, documentsTable))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAllDocuments: running query: %w", err)
	}

	var docs []*DocumentRow
	for {
		var row DocumentRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListAllDocuments: reading row: %w", err)
		}
		docs = append(docs, &row)
	}
	return docs, nil
}
