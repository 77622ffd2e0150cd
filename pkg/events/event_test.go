package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDocumentEvent(t *testing.T) {
	evt := NewDocumentEvent(DocumentUploaded, "report.pdf", map[string]interface{}{"size": int64(42)})

	assert.Equal(t, "DOCUMENT_UPLOADED", evt.EventType())
	assert.Equal(t, "report.pdf", evt.Payload()["filename"])
	assert.Equal(t, int64(42), evt.Payload()["size"])
	assert.WithinDuration(t, time.Now(), evt.Timestamp(), time.Second)
}

func TestNewDocumentEventFilenameWins(t *testing.T) {
	evt := NewDocumentEvent(DocumentDeleted, "a.txt", map[string]interface{}{"filename": "other.txt"})
	assert.Equal(t, map[string]interface{}{"filename": "a.txt"}, evt.Payload())
}
