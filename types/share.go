package types

import (
	"fmt"
	"time"
)

// Share is one worker's contiguous slice of the total work range.
//
// The range is 1-indexed and inclusive: [EndOffset-Size+1, EndOffset].
// EndOffset is the prefix sum of all share sizes up to and including this one.
type Share struct {
	// Size is the number of items in the share (may be 0).
	Size int `json:"size"`

	// EndOffset is the absolute inclusive upper bound of the share.
	EndOffset int `json:"endOffset"`
}

// Start returns the first value of the share's inclusive range.
//
// For an empty share Start is EndOffset+1, so that Start > End and the
// range yields nothing.
func (s Share) Start() int {
	return s.EndOffset - s.Size + 1
}

// Empty reports whether the share holds no items.
func (s Share) Empty() bool {
	return s.Size <= 0
}

// Contains reports whether v falls inside the share's inclusive range.
func (s Share) Contains(v int) bool {
	return !s.Empty() && v >= s.Start() && v <= s.EndOffset
}

// String returns the share as "[start,end]", or "[]" when empty.
func (s Share) String() string {
	if s.Empty() {
		return "[]"
	}

	return fmt.Sprintf("[%d,%d]", s.Start(), s.EndOffset)
}

// Assignment is the work handed to a launcher for a single worker.
//
// Share is recomputed from the original partition for every launch of the
// same Index, so restarts receive bit-identical Share values. Attempt is 0
// for the initial launch and increases by one per restart of that index.
type Assignment struct {
	Share

	// Index is the stable 1-based sequence index of the share.
	Index int `json:"index"`

	// Attempt counts restarts of this index (0 = initial launch).
	Attempt int `json:"attempt"`

	// RunID identifies the supervisor run that produced the assignment.
	RunID string `json:"runId,omitempty"`
}

// Validate checks that the assignment is well formed.
//
// Returns:
//   - error: ErrInvalidAssignment wrapped with details, nil if valid
func (a Assignment) Validate() error {
	if a.Index < 1 {
		return fmt.Errorf("%w: index must be >= 1, got %d", ErrInvalidAssignment, a.Index)
	}
	if a.Size < 0 {
		return fmt.Errorf("%w: size must be >= 0, got %d", ErrInvalidAssignment, a.Size)
	}
	if a.EndOffset < a.Size {
		return fmt.Errorf("%w: end offset %d is smaller than size %d", ErrInvalidAssignment, a.EndOffset, a.Size)
	}
	if a.Attempt < 0 {
		return fmt.Errorf("%w: attempt must be >= 0, got %d", ErrInvalidAssignment, a.Attempt)
	}

	return nil
}

// WorkerRecord maps a runtime worker identity to the sequence index it owns.
//
// Records are created at launch and never mutated. A restart stores a new
// record for the replacement identity under the same Index.
type WorkerRecord struct {
	WorkerID   string
	Index      int
	Attempt    int
	Share      Share
	LaunchedAt time.Time
}
