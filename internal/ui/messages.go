// Package ui provides the Bubble Tea TUI for reviewing the labeling queue.
package ui

import "github.com/quangtran/newsense/internal/labeling"

// QueueLoaded is sent when pending queue items are fetched.
type QueueLoaded struct {
	Items []labeling.Item
	Err   error
}

// LabelSubmitted is sent when a label has been written through the
// labeling engine.
type LabelSubmitted struct {
	QueueID    int64
	FeedbackID int64
	Err        error
}

// ItemSkipped is sent when a queue item has been marked skipped.
type ItemSkipped struct {
	QueueID int64
	Err     error
}
