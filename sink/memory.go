package sink

import (
	"context"
	"slices"
	"sync"

	"github.com/arloliu/parcel/types"
)

// Memory records emitted values grouped by sequence index.
type Memory struct {
	mu      sync.Mutex
	byIndex map[int][]int
	count   int
}

var _ types.Sink = (*Memory)(nil)

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{byIndex: make(map[int][]int)}
}

// Emit appends value to the index's list.
func (m *Memory) Emit(_ context.Context, index int, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byIndex[index] = append(m.byIndex[index], value)
	m.count++

	return nil
}

// Flush is a no-op.
func (m *Memory) Flush(_ context.Context) error {
	return nil
}

// Values returns a copy of the values emitted for index, in emission order.
func (m *Memory) Values(index int) []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.byIndex[index])
}

// All returns every emitted value sorted ascending, duplicates included.
func (m *Memory) All() []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]int, 0, m.count)
	for _, vs := range m.byIndex {
		out = append(out, vs...)
	}
	slices.Sort(out)

	return out
}

// Len returns the number of values emitted so far.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.count
}

// Reset discards all recorded values.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.byIndex)
	m.count = 0
}
