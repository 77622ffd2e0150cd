package events

import "time"

// Document lifecycle event codes.
const (
	DocumentUploaded = "DOCUMENT_UPLOADED"
	DocumentDeleted  = "DOCUMENT_DELETED"
)

// Event is anything that can be sent over the event bus.
type Event interface {
	// EventType returns the code used as the subject suffix, e.g. "DOCUMENT_UPLOADED".
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewDocumentEvent builds a lifecycle event for a single uploaded file.
func NewDocumentEvent(eventType, filename string, extra map[string]interface{}) BaseEvent {
	data := make(map[string]interface{}, len(extra)+1)
	for k, v := range extra {
		data[k] = v
	}
	data["filename"] = filename
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
