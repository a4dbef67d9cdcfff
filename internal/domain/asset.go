package domain

import "time"

// ReferenceImage is the uploaded portrait every pose is conditioned on.
type ReferenceImage struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// Present reports whether an image was supplied.
func (r ReferenceImage) Present() bool {
	return len(r.Data) > 0
}

// GeneratedImage is produced on synthesis success and never mutated afterwards.
type GeneratedImage struct {
	ID        string    `json:"id"`
	PoseID    string    `json:"pose_id"`
	Label     string    `json:"label"`
	URL       string    `json:"url,omitempty"`
	Prompt    string    `json:"prompt"`
	Timestamp time.Time `json:"timestamp"`
	Group     PoseGroup `json:"group"`
}

// FailedAsset records one non-fatal synthesis failure.
type FailedAsset struct {
	ID        string    `json:"id"`
	PoseID    string    `json:"pose_id"`
	Label     string    `json:"label"`
	Message   string    `json:"message"`
	Prompt    string    `json:"prompt"`
	Timestamp time.Time `json:"timestamp"`
}
