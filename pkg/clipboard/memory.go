package clipboard

import (
	"context"
	"slices"
	"sync"
)

// MemoryBackend keeps clipboard items in memory.
type MemoryBackend struct {
	mu     sync.Mutex
	caps   Capabilities
	items  []Item
	writes int

	// ReadErr and WriteErr, when set, are returned by Read and Write.
	ReadErr  error
	WriteErr error
}

// NewMemoryBackend creates an empty in-memory clipboard with caps.
func NewMemoryBackend(caps Capabilities) *MemoryBackend {
	return &MemoryBackend{caps: caps}
}

// Probe returns the configured capabilities.
func (m *MemoryBackend) Probe() Capabilities {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.caps
}

// SetCapabilities replaces the configured capabilities.
func (m *MemoryBackend) SetCapabilities(caps Capabilities) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caps = caps
}

// Write replaces the clipboard content.
func (m *MemoryBackend) Write(ctx context.Context, items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if !m.caps.MultiItem && len(items) > 1 {
		items = items[:1]
	}
	m.items = cloneItems(items)
	m.writes++
	return nil
}

// Read returns a copy of the clipboard content.
func (m *MemoryBackend) Read(ctx context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return cloneItems(m.items), nil
}

// Items returns the current content without going through Read.
func (m *MemoryBackend) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneItems(m.items)
}

// Writes returns the number of successful writes.
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = Item{MIME: it.MIME, Data: slices.Clone(it.Data)}
	}
	return out
}

var _ Backend = (*MemoryBackend)(nil)
