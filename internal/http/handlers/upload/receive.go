package upload

import (
	"errors"
	"io"
	"io/fs"
	"mime"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/princekumarofficial/upload-service/internal/upload"
)

type receiveOptions struct {
	field    string
	maxBytes int64
	tempDir  string
}

func noCleanup() {}

// receiveAttempt reads the request body up to the first part named
// opts.field and spools its bytes to a temporary file. It returns a nil
// attempt when the request carries no such part. cleanup removes the
// temporary file and must be called once the attempt has been handled.
func receiveAttempt(r *http.Request, opts receiveOptions) (*upload.Attempt, func()) {
	mr, err := r.MultipartReader()
	if err != nil {
		// Not a multipart body, so no file field can be present
		return nil, noCleanup
	}

	for {
		part, err := mr.NextPart()
		if err != nil {
			// End of body, or a malformed body before the file field
			return nil, noCleanup
		}

		if part.FormName() != opts.field || !isFilePart(part) {
			part.Close()
			continue
		}

		return receivePart(part, opts)
	}
}

// isFilePart reports whether the part came from a file input. A file input
// always carries a filename parameter, even an empty one when nothing was
// chosen; a plain text field never does.
func isFilePart(part *multipart.Part) bool {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}
	_, ok := params["filename"]
	return ok
}

func receivePart(part *multipart.Part, opts receiveOptions) (*upload.Attempt, func()) {
	defer part.Close()

	attempt := &upload.Attempt{
		DeclaredMediaType: part.Header.Get("Content-Type"),
		OriginalFileName:  part.FileName(),
		Open:              emptyContent,
	}

	if attempt.OriginalFileName == "" {
		attempt.TransferError = upload.TransferNoFile
		return attempt, noCleanup
	}

	tmp, err := os.CreateTemp(opts.tempDir, "upload-*")
	if err != nil {
		attempt.TransferError = upload.TransferNoTempDir
		return attempt, noCleanup
	}
	cleanup := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}

	n, err := io.Copy(tmp, io.LimitReader(part, opts.maxBytes+1))
	switch {
	case err != nil:
		attempt.TransferError = classifyCopyError(err)
	case n > opts.maxBytes:
		attempt.TransferError = upload.TransferTooLarge
	default:
		attempt.DeclaredSizeBytes = n
		attempt.Open = func() (io.ReadCloser, error) {
			return os.Open(tmp.Name())
		}
	}

	return attempt, cleanup
}

// classifyCopyError maps a failure while spooling a part to a transfer code.
// Write failures come from the temporary file, everything else from the body.
func classifyCopyError(err error) upload.TransferCode {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return upload.TransferCantWrite
	}
	return upload.TransferPartial
}

func emptyContent() (io.ReadCloser, error) {
	return http.NoBody, nil
}
