package model

// TaskStatus represents the status of a download task
type TaskStatus string

const (
	// TaskStatusPending means the task is queued but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusDownloading means a worker is fetching the asset
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusDone means the asset was fetched and identified on disk
	TaskStatusDone TaskStatus = "Done"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if a worker currently owns the task
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusDownloading
}

// IsFinished returns true if the task is in a terminal state (done or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusDone || ts == TaskStatusError
}

// CanTransitionTo reports whether moving from ts to next is allowed.
// Downloading may repeat itself as progress updates arrive.
func (ts TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch ts {
	case TaskStatusPending:
		return next == TaskStatusDownloading
	case TaskStatusDownloading:
		return next == TaskStatusDownloading || next == TaskStatusDone || next == TaskStatusError
	default:
		return false
	}
}
