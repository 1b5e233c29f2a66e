package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func attemptWith(mediaType string, size int64, code TransferCode, name string, content []byte) *Attempt {
	return &Attempt{
		DeclaredMediaType: mediaType,
		DeclaredSizeBytes: size,
		TransferError:     code,
		OriginalFileName:  name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Unexpected error reading %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestHandle_NilAttempt(t *testing.T) {
	dir := t.TempDir()
	called := false
	h := NewHandler(dir, DefaultPolicy(), WithObservers(ObserverFunc(
		func(context.Context, *Attempt, *Outcome) error {
			called = true
			return nil
		})))

	outcome, err := h.Handle(context.Background(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome != nil {
		t.Fatalf("Expected no outcome, got %+v", outcome)
	}
	if called {
		t.Fatal("Expected observers not to be notified")
	}
	if names := dirEntries(t, dir); len(names) != 0 {
		t.Fatalf("Expected empty directory, got %v", names)
	}
}

func TestHandle_RejectsDisallowedMediaType(t *testing.T) {
	for _, mediaType := range []string{"", "text/plain", "image/webp", "IMAGE/PNG", "application/octet-stream"} {
		for _, size := range []int64{0, 100, 199_999, 500_000} {
			dir := t.TempDir()
			h := NewHandler(dir, DefaultPolicy())

			outcome, err := h.Handle(context.Background(), attemptWith(mediaType, size, TransferOK, "a.png", []byte("x")))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if outcome.Kind != OutcomeRejected || outcome.Reason != ReasonInvalid {
				t.Fatalf("type %q size %d: expected rejection, got %+v", mediaType, size, outcome)
			}
			if names := dirEntries(t, dir); len(names) != 0 {
				t.Fatalf("Expected no files written, got %v", names)
			}
		}
	}
}

func TestHandle_RejectsOversize(t *testing.T) {
	for _, mediaType := range DefaultAllowedMediaTypes {
		for _, size := range []int64{200_000, 200_001, 1 << 30} {
			dir := t.TempDir()
			h := NewHandler(dir, DefaultPolicy())

			outcome, err := h.Handle(context.Background(), attemptWith(mediaType, size, TransferOK, "a.png", []byte("x")))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if outcome.Kind != OutcomeRejected {
				t.Fatalf("type %q size %d: expected rejection, got %+v", mediaType, size, outcome)
			}
		}
	}
}

func TestHandle_RejectionWinsOverTransferError(t *testing.T) {
	h := NewHandler(t.TempDir(), DefaultPolicy())

	outcome, err := h.Handle(context.Background(), attemptWith("text/html", 10, TransferPartial, "a.png", nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome.Kind != OutcomeRejected {
		t.Fatalf("Expected rejection, got %+v", outcome)
	}
}

func TestHandle_TransferFailed(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(dir, DefaultPolicy())

	outcome, err := h.Handle(context.Background(), attemptWith("image/jpeg", 50, TransferNoFile, "b.jpg", []byte("jpeg")))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome.Kind != OutcomeTransferFailed || outcome.Code != 4 {
		t.Fatalf("Expected TransferFailed(4), got %+v", outcome)
	}
	if names := dirEntries(t, dir); len(names) != 0 {
		t.Fatalf("Expected no files written, got %v", names)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func TestHandle_StoresInRelativeUploadDirectory(t *testing.T) {
	chdir(t, t.TempDir())
	if err := os.Mkdir("upload", 0o755); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	h := NewHandler(DefaultDirectory, DefaultPolicy())
	outcome, err := h.Handle(context.Background(), attemptWith("image/png", 100, TransferOK, "a.png", []byte("png-bytes")))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome.Kind != OutcomeStored || outcome.Path != "upload/a.png" {
		t.Fatalf("Expected Stored(upload/a.png), got %+v", outcome)
	}

	got, err := os.ReadFile("upload/a.png")
	if err != nil {
		t.Fatalf("Expected stored file: %v", err)
	}
	if string(got) != "png-bytes" {
		t.Fatalf("Expected stored content %q, got %q", "png-bytes", got)
	}
}

func TestHandle_AlreadyExistsLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.png")
	if err := os.WriteFile(existing, []byte("original"), 0o644); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	h := NewHandler(dir, DefaultPolicy())
	outcome, err := h.Handle(context.Background(), attemptWith("image/png", 100, TransferOK, "a.png", []byte("replacement")))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome.Kind != OutcomeAlreadyExists || outcome.Name != "a.png" {
		t.Fatalf("Expected AlreadyExists(a.png), got %+v", outcome)
	}

	got, _ := os.ReadFile(existing)
	if string(got) != "original" {
		t.Fatalf("Expected existing content to be unchanged, got %q", got)
	}
}

func TestHandle_OpenFailureRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(dir, DefaultPolicy())

	attempt := attemptWith("image/gif", 10, TransferOK, "c.gif", nil)
	attempt.Open = func() (io.ReadCloser, error) {
		return nil, errors.New("temporary content gone")
	}

	outcome, err := h.Handle(context.Background(), attempt)
	if err == nil {
		t.Fatalf("Expected error, got outcome %+v", outcome)
	}
	if names := dirEntries(t, dir); len(names) != 0 {
		t.Fatalf("Expected partial file to be removed, got %v", names)
	}
}

func TestHandle_MissingDirectoryIsAnError(t *testing.T) {
	h := NewHandler(filepath.Join(t.TempDir(), "missing"), DefaultPolicy())

	_, err := h.Handle(context.Background(), attemptWith("image/png", 1, TransferOK, "a.png", []byte("x")))
	if err == nil {
		t.Fatal("Expected error when storage directory does not exist")
	}
}

func TestHandle_StrictPathRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(dir, DefaultPolicy(), WithPathResolver(StrictPath))

	outcome, err := h.Handle(context.Background(), attemptWith("image/png", 1, TransferOK, "../escape.png", []byte("x")))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome.Kind != OutcomeRejected || outcome.Reason != ReasonUnsafeName {
		t.Fatalf("Expected unsafe name rejection, got %+v", outcome)
	}
}

func TestHandle_ConcurrentSameNameStoresOnce(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(dir, DefaultPolicy())

	const workers = 8
	outcomes := make([]*Outcome, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome, err := h.Handle(context.Background(), attemptWith("image/png", 1, TransferOK, "race.png", []byte{byte(i)}))
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			outcomes[i] = outcome
		}(i)
	}
	wg.Wait()

	stored := 0
	for _, o := range outcomes {
		if o != nil && o.Kind == OutcomeStored {
			stored++
		}
	}
	if stored != 1 {
		t.Fatalf("Expected exactly one stored outcome, got %d", stored)
	}
}

func TestHandle_ObserverErrorDoesNotChangeOutcome(t *testing.T) {
	var seen []OutcomeKind
	h := NewHandler(t.TempDir(), DefaultPolicy(), WithObservers(
		ObserverFunc(func(_ context.Context, _ *Attempt, o *Outcome) error {
			seen = append(seen, o.Kind)
			return errors.New("ledger down")
		}),
	))

	outcome, err := h.Handle(context.Background(), attemptWith("image/png", 1, TransferOK, "ok.png", []byte("x")))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome.Kind != OutcomeStored {
		t.Fatalf("Expected stored outcome, got %+v", outcome)
	}
	if len(seen) != 1 || seen[0] != OutcomeStored {
		t.Fatalf("Expected observer to see one stored outcome, got %v", seen)
	}
}
