package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskIDPrefix prefixes every generated download task ID
const TaskIDPrefix = "task-"

// ErrInvalidTransition is returned when a status change violates the task lifecycle
var ErrInvalidTransition = errors.New("invalid task status transition")

// DownloadTask represents a single asset fetch
type DownloadTask struct {
	ID       string
	Name     string
	Category string
	Icon     string
	URL      string
	// TargetFilename is the catalog file name; empty for ad-hoc tasks whose
	// output name is derived from Name at execution time.
	TargetFilename string
	Status         TaskStatus
	Progress       float64 // 0 to 100
	LastError      string  // last error message if any
	OutputPath     string  // resolved path of the fetched file
	CreatedAt      time.Time
	StartedAt      time.Time
	FinishedAt     time.Time
}

// NewDownloadTask creates a pending task with a fresh ID
func NewDownloadTask(name, category, icon, url, targetFilename string) *DownloadTask {
	return &DownloadTask{
		ID:             generateTaskID(),
		Name:           name,
		Category:       category,
		Icon:           icon,
		URL:            url,
		TargetFilename: targetFilename,
		Status:         TaskStatusPending,
		CreatedAt:      time.Now(),
	}
}

// Start moves a pending task to Downloading with zero progress
func (dt *DownloadTask) Start() error {
	if err := dt.transition(TaskStatusDownloading); err != nil {
		return err
	}
	dt.Progress = 0
	dt.StartedAt = time.Now()
	return nil
}

// SetProgress records a progress update for a downloading task
func (dt *DownloadTask) SetProgress(percent float64) error {
	if dt.Status != TaskStatusDownloading {
		return fmt.Errorf("%w: progress on %s task", ErrInvalidTransition, dt.Status)
	}
	dt.Progress = percent
	return nil
}

// Complete marks the task done with the resolved output path
func (dt *DownloadTask) Complete(outputPath string) error {
	if err := dt.transition(TaskStatusDone); err != nil {
		return err
	}
	dt.OutputPath = outputPath
	dt.FinishedAt = time.Now()
	return nil
}

// Fail marks the task as failed with a human readable message
func (dt *DownloadTask) Fail(message string) error {
	if err := dt.transition(TaskStatusError); err != nil {
		return err
	}
	dt.LastError = message
	dt.FinishedAt = time.Now()
	return nil
}

func (dt *DownloadTask) transition(next TaskStatus) error {
	if !dt.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, dt.Status, next)
	}
	dt.Status = next
	return nil
}

// GetDisplayTitle returns name, output file name, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if strings.TrimSpace(dt.Name) != "" {
		return dt.Name
	}

	if dt.OutputPath != "" {
		filename := filepath.Base(dt.OutputPath)
		if idx := strings.LastIndex(filename, "."); idx > 0 {
			filename = filename[:idx]
		}
		return filename
	}

	return dt.URL
}

// GetStatusText returns a compact status label, e.g. "Downloading 42.0%"
func (dt *DownloadTask) GetStatusText() string {
	switch dt.Status {
	case TaskStatusDownloading:
		return fmt.Sprintf("%s %.1f%%", dt.Status, dt.Progress)
	case TaskStatusError:
		if dt.LastError != "" {
			return fmt.Sprintf("%s: %s", dt.Status, dt.LastError)
		}
	}
	return dt.Status.String()
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
