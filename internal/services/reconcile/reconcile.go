package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/princekumarofficial/upload-service/internal/storage"
	"github.com/princekumarofficial/upload-service/internal/types"
)

// Reconciler marks ledger records whose stored file has disappeared.
type Reconciler struct {
	ledger    storage.Ledger
	batchSize int
	stat      func(name string) (fs.FileInfo, error)
}

func New(ledger storage.Ledger, batchSize int) *Reconciler {
	return &Reconciler{
		ledger:    ledger,
		batchSize: batchSize,
		stat:      os.Stat,
	}
}

// RunOnce walks every stored record, one batch at a time in ID order, and
// returns how many were marked missing.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	marked := 0
	after := ""

	for {
		records, err := r.ledger.ScanUploads(ctx, types.UploadStatusStored, after, r.batchSize)
		if err != nil {
			return marked, fmt.Errorf("failed to list stored uploads: %w", err)
		}

		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				return marked, err
			}

			_, err := r.stat(rec.Path)
			if err == nil {
				continue
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return marked, fmt.Errorf("failed to stat %s: %w", rec.Path, err)
			}

			if err := r.ledger.MarkMissing(ctx, rec.ID); err != nil {
				return marked, fmt.Errorf("failed to mark upload %s missing: %w", rec.ID, err)
			}
			marked++
		}

		if len(records) < r.batchSize {
			return marked, nil
		}
		after = records[len(records)-1].ID
	}
}
