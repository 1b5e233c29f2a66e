package types

import "time"

type UploadStatus string

const (
	UploadStatusStored  UploadStatus = "stored"
	UploadStatusMissing UploadStatus = "missing"
)

// UploadRecord is one stored upload as kept in the ledger.
type UploadRecord struct {
	ID           string       `json:"id"`
	FileName     string       `json:"file_name"`
	Path         string       `json:"path"`
	MediaType    string       `json:"media_type"`
	DeclaredSize int64        `json:"declared_size"`
	ClientAddr   string       `json:"client_addr"`
	RequestID    string       `json:"request_id"`
	Status       UploadStatus `json:"status"`
	StoredAt     time.Time    `json:"stored_at"`
}

type UploadListQuery struct {
	Limit  int            `validate:"min=1,max=500"`
	Status []UploadStatus `validate:"dive,oneof=stored missing"`
}

// FileDetails describes one file part of an echoed request.
type FileDetails struct {
	Field     string `json:"field"`
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
}

// RequestDetails is what the echo endpoint reports back about a request.
type RequestDetails struct {
	Method     string              `json:"method"`
	URL        string              `json:"url"`
	Protocol   string              `json:"protocol"`
	Host       string              `json:"host"`
	Query      map[string][]string `json:"query,omitempty"`
	Form       map[string][]string `json:"form,omitempty"`
	Files      []FileDetails       `json:"files,omitempty"`
	Body       string              `json:"body,omitempty"`
	Headers    map[string][]string `json:"headers"`
	RemoteAddr string              `json:"remote_addr"`
	Timestamp  int64               `json:"timestamp"`
}
