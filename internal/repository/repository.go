package repository

import (
	"context"
	"io"

	"github.com/nmishr/geo-dashboard/internal/models"
)

// SearchHistory persists completed snapshots as an append-only,
// time-ordered history. No update or delete is exposed; retention is an
// operational concern outside this store.
type SearchHistory interface {
	// Append stores the record, assigning its identifier and creation
	// timestamp. Both are written back onto the record.
	Append(ctx context.Context, rec *models.SearchRecord) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]models.SearchRecord, error)

	// DailyStats aggregates records created since the start of the current
	// day on the store's clock.
	DailyStats(ctx context.Context) (models.DailyStats, error)

	// ExportCSV writes the same rows as Recent, newest first, as CSV with a
	// fixed header.
	ExportCSV(ctx context.Context, limit int, w io.Writer) error
}
