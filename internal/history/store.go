// Package history keeps a journal of finished downloads in a BoltDB file.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ytget/soundfetch/internal/model"
)

// FileName is the journal database name inside the data directory
const FileName = "history.db"

var bucketDownloads = []byte("downloads")

// Entry is one journaled download
type Entry struct {
	TaskID     string    `json:"task_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	URL        string    `json:"url"`
	Status     string    `json:"status"`
	Path       string    `json:"path,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Succeeded reports whether the download produced a file
func (e Entry) Succeeded() bool {
	return e.Status == model.TaskStatusDone.String()
}

// Duration returns how long the download ran
func (e Entry) Duration() time.Duration {
	if e.StartedAt.IsZero() || e.FinishedAt.Before(e.StartedAt) {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

// EntryFromTask snapshots a finished task
func EntryFromTask(task *model.DownloadTask) Entry {
	return Entry{
		TaskID:     task.ID,
		Name:       task.Name,
		Category:   task.Category,
		URL:        task.URL,
		Status:     task.Status.String(),
		Path:       task.OutputPath,
		Error:      task.LastError,
		StartedAt:  task.StartedAt,
		FinishedAt: task.FinishedAt,
	}
}

// Store persists entries keyed by task ID
type Store struct {
	db *bolt.DB

	mu     sync.RWMutex
	memory map[string]Entry // used when no directory is given
}

// Open opens the journal in dir. An empty dir keeps entries in memory only.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return &Store{memory: make(map[string]Entry)}, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(dir, FileName), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDownloads)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordTask journals a task that reached Done or Error
func (s *Store) RecordTask(task *model.DownloadTask) error {
	if !task.Status.IsFinished() {
		return fmt.Errorf("task %s is still %s", task.ID, task.Status)
	}
	return s.Put(EntryFromTask(task))
}

// Put stores e, replacing any entry with the same task ID
func (s *Store) Put(e Entry) error {
	if s.db == nil {
		s.mu.Lock()
		s.memory[e.TaskID] = e
		s.mu.Unlock()
		return nil
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDownloads).Put([]byte(e.TaskID), data)
	})
}

// List returns up to limit entries, most recently finished first. A limit
// of zero or less returns everything.
func (s *Store) List(limit int) ([]Entry, error) {
	var entries []Entry
	if s.db == nil {
		s.mu.RLock()
		for _, e := range s.memory {
			entries = append(entries, e)
		}
		s.mu.RUnlock()
	} else {
		err := s.db.View(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketDownloads).ForEach(func(k, v []byte) error {
				var e Entry
				if err := json.Unmarshal(v, &e); err != nil {
					return fmt.Errorf("corrupt history entry %s: %w", k, err)
				}
				entries = append(entries, e)
				return nil
			})
		})
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].FinishedAt.Equal(entries[j].FinishedAt) {
			return entries[i].FinishedAt.After(entries[j].FinishedAt)
		}
		return entries[i].TaskID > entries[j].TaskID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Clear removes every entry
func (s *Store) Clear() error {
	if s.db == nil {
		s.mu.Lock()
		s.memory = make(map[string]Entry)
		s.mu.Unlock()
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketDownloads); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketDownloads)
		return err
	})
}
