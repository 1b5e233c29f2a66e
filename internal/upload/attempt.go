package upload

import (
	"io"
	"time"
)

// TransferCode reports a transport-level failure while receiving a file.
// Zero means the file arrived intact.
type TransferCode int

const (
	TransferOK        TransferCode = 0
	TransferTooLarge  TransferCode = 1 // exceeds the server read limit
	TransferFormSize  TransferCode = 2 // exceeds the limit declared by the form
	TransferPartial   TransferCode = 3
	TransferNoFile    TransferCode = 4
	TransferNoTempDir TransferCode = 6
	TransferCantWrite TransferCode = 7
	TransferStopped   TransferCode = 8
)

// Origin describes the request an attempt arrived with.
type Origin struct {
	RequestID  string
	ClientAddr string
	ReceivedAt time.Time
}

// Attempt is a single file upload as described by the client. Every field
// except Open is client supplied and untrusted.
type Attempt struct {
	DeclaredMediaType string
	DeclaredSizeBytes int64
	TransferError     TransferCode
	OriginalFileName  string

	// Open returns the received bytes. It is only valid while the request
	// that produced the attempt is being handled.
	Open func() (io.ReadCloser, error)

	Origin Origin
}
