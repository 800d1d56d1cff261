package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SUMMARY_JOB_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

const (
	SummaryJobCompleted = "SUMMARY_JOB_COMPLETED"
	SummaryJobFailed    = "SUMMARY_JOB_FAILED"
)

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

func NewSummaryJobCompleted(jobID string, texts int, duration time.Duration) BaseEvent {
	return BaseEvent{
		Type: SummaryJobCompleted,
		Data: map[string]interface{}{
			"job_id":      jobID,
			"texts":       texts,
			"duration_ms": duration.Milliseconds(),
		},
		OccurredAt: time.Now(),
	}
}

func NewSummaryJobFailed(jobID string, reason string) BaseEvent {
	return BaseEvent{
		Type: SummaryJobFailed,
		Data: map[string]interface{}{
			"job_id": jobID,
			"error":  reason,
		},
		OccurredAt: time.Now(),
	}
}
