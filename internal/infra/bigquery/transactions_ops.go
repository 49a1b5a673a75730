package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/sejin-dev/statement-converter/internal/domain"
)

// InsertTransactions streams a batch of normalized transactions into
// statements.transactions.
func (c *Client) InsertTransactions(ctx context.Context, rows []*TransactionRowBQ) error {
	if len(rows) == 0 {
		return nil
	}
	inserter := c.bq.Dataset(datasetID).Table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactions: inserting %d rows: %w", len(rows), err)
	}
	return nil
}

// ToTransactionRows maps canonical transactions onto the warehouse schema.
func ToTransactionRows(documentID, runID string, txns []domain.TransactionRow) []*TransactionRowBQ {
	rows := make([]*TransactionRowBQ, 0, len(txns))
	for i, t := range txns {
		row := &TransactionRowBQ{
			DocumentID:   documentID,
			RunID:        runID,
			RowIndex:     i,
			TxTime:       t.Time,
			Description:  t.Description,
			Counterparty: t.Counterparty,
			Deposit:      t.Deposit.Rat(),
			Withdrawal:   t.Withdrawal.Rat(),
			Balance:      t.Balance.Rat(),
			Memo:         t.Memo,
			Branch:       t.Branch,
			AccountNo:    t.AccountNo,
			Category:     t.Category,
		}
		if !t.Date.IsZero() {
			row.TxDate = bigquery.NullDate{Date: civil.DateOf(t.Date), Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}
