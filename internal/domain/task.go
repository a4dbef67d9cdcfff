package domain

// TaskStatus enumerates batch lifecycle states.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusGenerating TaskStatus = "generating"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
	TaskStatusStopped    TaskStatus = "stopped"
)

// Terminal reports whether no further transition is allowed.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusStopped:
		return true
	}
	return false
}

// GenerationTask is the progress record of one batch.
type GenerationTask struct {
	ID      string           `json:"id"`
	Status  TaskStatus       `json:"status"`
	Total   int              `json:"total"`
	Current int              `json:"current"`
	Images  []GeneratedImage `json:"images"`
	Error   string           `json:"error,omitempty"`
}

// Clone returns a copy that shares no slices with t.
func (t GenerationTask) Clone() GenerationTask {
	out := t
	out.Images = append([]GeneratedImage(nil), t.Images...)
	return out
}
