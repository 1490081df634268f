package enums

import "fmt"

// TaskStatus describes the allowed values for the tasks status column.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

var validTaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
}

// taskStatusRank orders statuses; transitions may only move forward.
var taskStatusRank = map[TaskStatus]int{
	TaskStatusPending:    0,
	TaskStatusInProgress: 1,
	TaskStatusCompleted:  2,
}

// IsValid reports whether the value matches the canonical task status enum.
func (s TaskStatus) IsValid() bool {
	for _, candidate := range validTaskStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal
// forward transition. Staying on the same status is allowed.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	from, ok := taskStatusRank[s]
	if !ok {
		return false
	}
	to, ok := taskStatusRank[next]
	if !ok {
		return false
	}
	return to >= from
}

// ParseTaskStatus converts the raw string to TaskStatus.
func ParseTaskStatus(value string) (TaskStatus, error) {
	for _, candidate := range validTaskStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task status %q", value)
}
