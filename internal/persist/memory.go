package persist

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemPresetStore is an in-memory PresetStore used when the service runs
// without MongoDB.
type MemPresetStore struct {
	mu      sync.RWMutex
	presets map[string]Preset
}

// NewMemPresetStore creates an empty in-memory preset store.
func NewMemPresetStore() *MemPresetStore {
	return &MemPresetStore{presets: make(map[string]Preset)}
}

// SavePreset stores or replaces a preset by name, stamping the update time.
func (s *MemPresetStore) SavePreset(_ context.Context, p Preset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UpdatedAt = time.Now().UTC()
	s.presets[p.Name] = p
	return nil
}

// GetPreset returns the preset with the given name.
func (s *MemPresetStore) GetPreset(_ context.Context, name string) (Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presets[name]
	if !ok {
		return Preset{}, ErrNotFound
	}
	return p, nil
}

// ListPresets returns all presets sorted by name.
func (s *MemPresetStore) ListPresets(_ context.Context) ([]Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	presets := make([]Preset, 0, len(s.presets))
	for _, p := range s.presets {
		presets = append(presets, p)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets, nil
}

// DeletePreset removes the preset with the given name.
func (s *MemPresetStore) DeletePreset(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.presets[name]; !ok {
		return ErrNotFound
	}
	delete(s.presets, name)
	return nil
}
