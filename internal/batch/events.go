package batch

import (
	"time"

	"datasetgen/internal/domain"
)

type EventType string

const (
	EventStarted  EventType = "batch.started"
	EventImage    EventType = "batch.image"
	EventFailure  EventType = "batch.failure"
	EventStopped  EventType = "batch.stopped"
	EventFinished EventType = "batch.finished"
)

// Event reports batch progress. Image events carry the image metadata
// without its data URI.
type Event struct {
	Type      EventType              `json:"type"`
	BatchID   string                 `json:"batch_id"`
	Status    domain.TaskStatus      `json:"status"`
	Total     int                    `json:"total"`
	Current   int                    `json:"current"`
	Error     string                 `json:"error,omitempty"`
	Image     *domain.GeneratedImage `json:"image,omitempty"`
	Failure   *domain.FailedAsset    `json:"failure,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Observer receives events synchronously from the batch goroutine and must not block.
type Observer interface {
	Publish(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Publish(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Publish(Event) {}

func newEvent(kind EventType, task domain.GenerationTask, now time.Time) Event {
	return Event{
		Type:      kind,
		BatchID:   task.ID,
		Status:    task.Status,
		Total:     task.Total,
		Current:   task.Current,
		Error:     task.Error,
		Timestamp: now,
	}
}
