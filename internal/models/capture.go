package models

import "time"

// CaptureType classifies a quick-capture item.
type CaptureType string

const (
	CaptureTask     CaptureType = "task"
	CaptureIdea     CaptureType = "idea"
	CaptureNote     CaptureType = "note"
	CaptureReminder CaptureType = "reminder"
)

// ValidCaptureType reports whether t is a known capture type.
func ValidCaptureType(t CaptureType) bool {
	switch t {
	case CaptureTask, CaptureIdea, CaptureNote, CaptureReminder:
		return true
	}
	return false
}

// CaptureItem is one quick-capture note, task, idea or reminder.
type CaptureItem struct {
	ID        string      `json:"id"`
	Type      CaptureType `json:"type"`
	Content   string      `json:"content"`
	Project   string      `json:"project,omitempty"`
	Completed bool        `json:"completed"`
	CreatedAt time.Time   `json:"createdAt"`
	DueDate   string      `json:"dueDate,omitempty"`
}
