package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/princekumarofficial/upload-service/internal/types"
)

// fakeLedger keeps records in ID order, as the postgres ledger returns them.
type fakeLedger struct {
	records []types.UploadRecord
	missing []string
	pages   []int
}

func (l *fakeLedger) RecordUpload(context.Context, types.UploadRecord) (string, error) {
	return "", nil
}

func (l *fakeLedger) ListUploads(context.Context, []types.UploadStatus, int) ([]types.UploadRecord, error) {
	return nil, nil
}

func (l *fakeLedger) ScanUploads(_ context.Context, status types.UploadStatus, afterID string, limit int) ([]types.UploadRecord, error) {
	start := 0
	if afterID != "" {
		for i, rec := range l.records {
			if rec.ID == afterID {
				start = i + 1
				break
			}
		}
	}

	var out []types.UploadRecord
	for _, rec := range l.records[start:] {
		if len(out) == limit {
			break
		}
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	l.pages = append(l.pages, len(out))
	return out, nil
}

func (l *fakeLedger) MarkMissing(_ context.Context, id string) error {
	l.missing = append(l.missing, id)
	for i := range l.records {
		if l.records[i].ID == id {
			l.records[i].Status = types.UploadStatusMissing
		}
	}
	return nil
}

func TestRunOnce_MarksVanishedFiles(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.png")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ledger := &fakeLedger{records: []types.UploadRecord{
		{ID: "1", Path: present, Status: types.UploadStatusStored},
		{ID: "2", Path: filepath.Join(dir, "gone.png"), Status: types.UploadStatusStored},
		{ID: "3", Path: filepath.Join(dir, "old.png"), Status: types.UploadStatusMissing},
	}}

	marked, err := New(ledger, 100).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if marked != 1 {
		t.Fatalf("Expected 1 record marked, got %d", marked)
	}
	if len(ledger.missing) != 1 || ledger.missing[0] != "2" {
		t.Fatalf("Expected record 2 marked missing, got %v", ledger.missing)
	}
}

func TestRunOnce_WalksPastFullBatches(t *testing.T) {
	dir := t.TempDir()
	ledger := &fakeLedger{}

	// Every row in the first two batches still has its file.
	for _, id := range []string{"1", "2", "3", "4"} {
		path := filepath.Join(dir, id+".png")
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		ledger.records = append(ledger.records, types.UploadRecord{
			ID: id, Path: path, Status: types.UploadStatusStored,
		})
	}
	ledger.records = append(ledger.records, types.UploadRecord{
		ID: "5", Path: filepath.Join(dir, "gone.png"), Status: types.UploadStatusStored,
	})

	marked, err := New(ledger, 2).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if marked != 1 || len(ledger.missing) != 1 || ledger.missing[0] != "5" {
		t.Fatalf("Expected record 5 marked missing, got %d %v", marked, ledger.missing)
	}

	for _, n := range ledger.pages {
		if n > 2 {
			t.Fatalf("Expected every page to respect the batch size, got pages %v", ledger.pages)
		}
	}
	if len(ledger.pages) != 3 {
		t.Fatalf("Expected 3 pages for 5 rows with batch size 2, got %v", ledger.pages)
	}
}
