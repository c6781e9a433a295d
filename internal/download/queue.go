package download

import (
	"fmt"

	"github.com/ytget/soundfetch/internal/model"
)

// Queue is the ordered list of download tasks. It is owned by the
// controller's goroutine and is not safe for concurrent use.
type Queue struct {
	tasks []*model.DownloadTask
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Add appends task and returns its index
func (q *Queue) Add(task *model.DownloadTask) int {
	q.tasks = append(q.tasks, task)
	return len(q.tasks) - 1
}

// Len returns the number of queued tasks
func (q *Queue) Len() int {
	return len(q.tasks)
}

// At returns the task at index i
func (q *Queue) At(i int) (*model.DownloadTask, bool) {
	if i < 0 || i >= len(q.tasks) {
		return nil, false
	}
	return q.tasks[i], true
}

// Tasks returns a snapshot of the queued tasks in order
func (q *Queue) Tasks() []*model.DownloadTask {
	out := make([]*model.DownloadTask, len(q.tasks))
	copy(out, q.tasks)
	return out
}

// IndexOf returns the position of task, or -1
func (q *Queue) IndexOf(task *model.DownloadTask) int {
	for i, t := range q.tasks {
		if t == task {
			return i
		}
	}
	return -1
}

// NextPending returns the index of the first pending task
func (q *Queue) NextPending() (int, bool) {
	for i, t := range q.tasks {
		if t.Status == model.TaskStatusPending {
			return i, true
		}
	}
	return -1, false
}

// HasUnfinished reports whether a task for the same URL and target file is
// still pending or downloading
func (q *Queue) HasUnfinished(url, targetFilename string) bool {
	for _, t := range q.tasks {
		if t.URL == url && t.TargetFilename == targetFilename && !t.Status.IsFinished() {
			return true
		}
	}
	return false
}

// Remove deletes a finished task at index i
func (q *Queue) Remove(i int) error {
	task, ok := q.At(i)
	if !ok {
		return fmt.Errorf("%w: index %d", ErrTaskNotFound, i)
	}
	if !task.Status.IsFinished() && task.Status != model.TaskStatusPending {
		return fmt.Errorf("cannot remove task in %s state", task.Status)
	}
	q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
	return nil
}

// RemoveFinished drops Done and Error tasks and returns how many were removed
func (q *Queue) RemoveFinished() int {
	kept := q.tasks[:0]
	removed := 0
	for _, t := range q.tasks {
		if t.Status.IsFinished() {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	for i := len(kept); i < len(q.tasks); i++ {
		q.tasks[i] = nil
	}
	q.tasks = kept
	return removed
}

// Counts returns the number of tasks per status
func (q *Queue) Counts() map[model.TaskStatus]int {
	counts := make(map[model.TaskStatus]int)
	for _, t := range q.tasks {
		counts[t.Status]++
	}
	return counts
}
