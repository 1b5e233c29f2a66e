package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/princekumarofficial/upload-service/internal/types"
	"github.com/princekumarofficial/upload-service/internal/upload"
)

// Recorder is an upload observer that writes stored outcomes to a ledger.
type Recorder struct {
	ledger Ledger
	now    func() time.Time
}

func NewRecorder(ledger Ledger) *Recorder {
	return &Recorder{ledger: ledger, now: time.Now}
}

func (r *Recorder) Observe(ctx context.Context, attempt *upload.Attempt, outcome *upload.Outcome) error {
	if outcome.Kind != upload.OutcomeStored {
		return nil
	}

	storedAt := attempt.Origin.ReceivedAt
	if storedAt.IsZero() {
		storedAt = r.now()
	}

	_, err := r.ledger.RecordUpload(ctx, types.UploadRecord{
		FileName:     attempt.OriginalFileName,
		Path:         outcome.Path,
		MediaType:    attempt.DeclaredMediaType,
		DeclaredSize: attempt.DeclaredSizeBytes,
		ClientAddr:   attempt.Origin.ClientAddr,
		RequestID:    attempt.Origin.RequestID,
		Status:       types.UploadStatusStored,
		StoredAt:     storedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}
	return nil
}
