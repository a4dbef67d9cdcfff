package batch

import (
	"sync"

	"datasetgen/internal/domain"
)

// Session owns the mutable state a batch works on: the task record, the
// gallery, the failed-asset list and the selection set.
type Session struct {
	mu        sync.Mutex
	task      domain.GenerationTask
	gallery   []domain.GeneratedImage
	failed    []domain.FailedAsset
	selection *domain.Selection
}

// Snapshot is a copy of the session that shares nothing with it.
type Snapshot struct {
	Task      domain.GenerationTask   `json:"task"`
	Gallery   []domain.GeneratedImage `json:"gallery"`
	Failed    []domain.FailedAsset    `json:"failed"`
	Selection []string                `json:"selection"`
}

func NewSession() *Session {
	return &Session{
		task:      domain.GenerationTask{Status: domain.TaskStatusPending},
		selection: domain.NewSelection(),
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Task:      s.task.Clone(),
		Gallery:   append([]domain.GeneratedImage(nil), s.gallery...),
		Failed:    append([]domain.FailedAsset(nil), s.failed...),
		Selection: s.selection.IDs(),
	}
}

// Task returns a copy of the current task record.
func (s *Session) Task() domain.GenerationTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task.Clone()
}

// Select replaces the selection set. It is rejected while a batch runs.
func (s *Session) Select(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task.Status == domain.TaskStatusGenerating {
		return domain.ErrBatchRunning
	}
	s.selection = domain.NewSelection(ids...)
	return nil
}

// Selection returns a copy of the selection set.
func (s *Session) Selection() *domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Clone()
}

// Image looks a gallery entry up by id.
func (s *Session) Image(id string) (domain.GeneratedImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, img := range s.gallery {
		if img.ID == id {
			return img, true
		}
	}
	return domain.GeneratedImage{}, false
}

// ClearGallery drops every gallery entry. Task images are left alone.
func (s *Session) ClearGallery() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task.Status == domain.TaskStatusGenerating {
		return domain.ErrBatchRunning
	}
	s.gallery = nil
	return nil
}

// begin moves the session into generating for a new batch. It fails when a
// batch is already running.
func (s *Session) begin(id string) (domain.GenerationTask, *domain.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task.Status == domain.TaskStatusGenerating {
		return domain.GenerationTask{}, nil, domain.ErrBatchRunning
	}
	s.failed = nil
	s.task = domain.GenerationTask{
		ID:      id,
		Status:  domain.TaskStatusGenerating,
		Total:   s.selection.Len(),
		Current: 0,
		Images:  []domain.GeneratedImage{},
	}
	return s.task.Clone(), s.selection.Clone(), nil
}

func (s *Session) status() domain.TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task.Status
}

// recordSuccess adds img to the gallery and drops its pose from the
// selection. The task only counts it while still generating: a task that was
// stopped during the call is not mutated again.
func (s *Session) recordSuccess(img domain.GeneratedImage) domain.GenerationTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gallery = append([]domain.GeneratedImage{img}, s.gallery...)
	s.selection.Remove(img.PoseID)
	if s.task.Status == domain.TaskStatusGenerating {
		s.task.Images = append([]domain.GeneratedImage{img}, s.task.Images...)
		s.task.Current++
	}
	return s.task.Clone()
}

func (s *Session) recordFailure(asset domain.FailedAsset) domain.GenerationTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, asset)
	if s.task.Status == domain.TaskStatusGenerating {
		s.task.Current++
	}
	return s.task.Clone()
}

// fail records a fatal error on a generating task. A terminal task is left as is.
func (s *Session) fail(message string) domain.GenerationTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task.Status == domain.TaskStatusGenerating {
		s.task.Status = domain.TaskStatusFailed
		s.task.Error = message
	}
	return s.task.Clone()
}

// finish moves a still generating task to status.
func (s *Session) finish(status domain.TaskStatus) domain.GenerationTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task.Status == domain.TaskStatusGenerating {
		s.task.Status = status
	}
	return s.task.Clone()
}

// stop marks a generating task stopped and reports whether it changed.
func (s *Session) stop() (domain.GenerationTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task.Status != domain.TaskStatusGenerating {
		return s.task.Clone(), false
	}
	s.task.Status = domain.TaskStatusStopped
	return s.task.Clone(), true
}
