package events

import (
	"context"

	"github.com/princekumarofficial/upload-service/internal/types"
	"github.com/princekumarofficial/upload-service/internal/upload"
)

// WebSocketHub interface for the WebSocket hub
type WebSocketHub interface {
	BroadcastToAll(event *types.Event)
	GetClientCount() int
}

// EventPublisher turns upload outcomes into real-time events.
type EventPublisher struct {
	hub WebSocketHub
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{
		hub: hub,
	}
}

// Observe publishes an upload.outcome event to every connected watcher.
func (p *EventPublisher) Observe(_ context.Context, attempt *upload.Attempt, outcome *upload.Outcome) error {
	// Nobody is watching
	if p.hub.GetClientCount() == 0 {
		return nil
	}

	eventData := &types.UploadOutcomeEvent{
		Outcome:    string(outcome.Kind),
		Message:    outcome.String(),
		FileName:   attempt.OriginalFileName,
		MediaType:  attempt.DeclaredMediaType,
		Size:       attempt.DeclaredSizeBytes,
		Code:       int(outcome.Code),
		Path:       outcome.Path,
		ClientAddr: attempt.Origin.ClientAddr,
		RequestID:  attempt.Origin.RequestID,
	}

	p.hub.BroadcastToAll(types.NewEvent(types.EventUploadOutcome, eventData))
	return nil
}
