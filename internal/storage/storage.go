package storage

import (
	"context"

	"github.com/princekumarofficial/upload-service/internal/types"
)

// Ledger keeps a record of every stored upload.
type Ledger interface {
	RecordUpload(ctx context.Context, rec types.UploadRecord) (string, error)
	// ListUploads returns the most recent records first. A nil statuses
	// slice matches every status.
	ListUploads(ctx context.Context, statuses []types.UploadStatus, limit int) ([]types.UploadRecord, error)
	// ScanUploads walks records with the given status in ID order, returning
	// up to limit records after afterID. An empty afterID starts at the
	// beginning.
	ScanUploads(ctx context.Context, status types.UploadStatus, afterID string, limit int) ([]types.UploadRecord, error)
	MarkMissing(ctx context.Context, id string) error
}
