// Package registry tracks live worker records keyed by launcher-assigned identity.
package registry

import (
	"slices"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/parcel/types"
)

// Table maps worker identities to the share they were launched with.
//
// The supervisor's reaction loop is the only writer; readers such as
// Supervisor.Records may snapshot concurrently.
type Table struct {
	records  *xsync.Map[string, types.WorkerRecord]
	restarts *xsync.Map[int, int]
}

// New creates an empty table.
func New() *Table {
	return &Table{
		records:  xsync.NewMap[string, types.WorkerRecord](),
		restarts: xsync.NewMap[int, int](),
	}
}

// Store records the share launched under rec.WorkerID, replacing any previous entry.
func (t *Table) Store(rec types.WorkerRecord) {
	t.records.Store(rec.WorkerID, rec)
}

// Load returns the record for a worker identity.
func (t *Table) Load(workerID string) (types.WorkerRecord, bool) {
	return t.records.Load(workerID)
}

// Remove deletes and returns the record for a worker identity.
func (t *Table) Remove(workerID string) (types.WorkerRecord, bool) {
	return t.records.LoadAndDelete(workerID)
}

// Snapshot returns all live records ordered by sequence index, then attempt.
func (t *Table) Snapshot() []types.WorkerRecord {
	out := make([]types.WorkerRecord, 0, t.records.Size())
	t.records.Range(func(_ string, rec types.WorkerRecord) bool {
		out = append(out, rec)
		return true
	})

	slices.SortFunc(out, func(a, b types.WorkerRecord) int {
		if a.Index != b.Index {
			return a.Index - b.Index
		}

		return a.Attempt - b.Attempt
	})

	return out
}

// IncRestarts increments the restart counter for a sequence index and returns the new count.
func (t *Table) IncRestarts(index int) int {
	n, _ := t.restarts.Compute(index, func(old int, _ bool) (int, xsync.ComputeOp) {
		return old + 1, xsync.UpdateOp
	})

	return n
}

// Restarts returns how many times the share at index has been restarted.
func (t *Table) Restarts(index int) int {
	n, _ := t.restarts.Load(index)
	return n
}

// TotalRestarts returns the sum of restarts across all indexes.
func (t *Table) TotalRestarts() int {
	total := 0
	t.restarts.Range(func(_ int, n int) bool {
		total += n
		return true
	})

	return total
}
