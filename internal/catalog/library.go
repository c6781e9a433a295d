package catalog

import (
	"sort"
	"sync"

	"github.com/ytget/soundfetch/internal/model"
)

// Library is the in-memory set of playable sounds
type Library struct {
	mu     sync.RWMutex
	sounds []model.Sound
	index  map[string]int
}

// NewLibrary creates a library holding sounds
func NewLibrary(sounds []model.Sound) *Library {
	l := &Library{index: make(map[string]int)}
	for _, s := range sounds {
		l.Register(s)
	}
	return l
}

func libraryKey(category, id string) string {
	return category + "/" + id
}

// Register adds s or replaces the sound with the same category and ID
func (l *Library) Register(s model.Sound) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := libraryKey(s.Category, s.ID)
	if i, ok := l.index[key]; ok {
		l.sounds[i] = s
		return
	}
	l.index[key] = len(l.sounds)
	l.sounds = append(l.sounds, s)
}

// Get returns the sound with the given category and ID
func (l *Library) Get(category, id string) (model.Sound, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.index[libraryKey(category, id)]
	if !ok {
		return model.Sound{}, false
	}
	return l.sounds[i], true
}

// Sounds returns a copy of all sounds sorted by category and ID
func (l *Library) Sounds() []model.Sound {
	l.mu.RLock()
	out := make([]model.Sound, len(l.sounds))
	copy(out, l.sounds)
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of sounds
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sounds)
}
