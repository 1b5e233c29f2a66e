package types

import "time"

// EventType represents the type of real-time event
type EventType string

const (
	EventUploadOutcome EventType = "upload.outcome"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// UploadOutcomeEvent is published for every handled upload attempt.
type UploadOutcomeEvent struct {
	Outcome    string `json:"outcome"`
	Message    string `json:"message"`
	FileName   string `json:"file_name"`
	MediaType  string `json:"media_type"`
	Size       int64  `json:"size"`
	Code       int    `json:"code,omitempty"`
	Path       string `json:"path,omitempty"`
	ClientAddr string `json:"client_addr,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
