// Package hooks provides default hook implementations.
package hooks

import (
	"context"

	"github.com/arloliu/parcel/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, types.State, types.State) error                 = (*NopHooks)(nil).OnStateChanged
	_ func(context.Context, types.WorkerRecord) error                       = (*NopHooks)(nil).OnWorkerOnline
	_ func(context.Context, types.WorkerRecord, types.WorkerRecord) error   = (*NopHooks)(nil).OnWorkerRestarted
	_ func(context.Context, types.WorkerRecord, types.LifecycleEvent) error = (*NopHooks)(nil).OnWorkerCompleted
	_ func(context.Context, error) error                                    = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnStateChanged:    h.OnStateChanged,
		OnWorkerOnline:    h.OnWorkerOnline,
		OnWorkerRestarted: h.OnWorkerRestarted,
		OnWorkerCompleted: h.OnWorkerCompleted,
		OnError:           h.OnError,
	}
}

// Fill returns a copy of h with every nil callback replaced by a no-op.
func Fill(h *types.Hooks) *types.Hooks {
	filled := NewNop()
	if h == nil {
		return &filled
	}
	if h.OnStateChanged != nil {
		filled.OnStateChanged = h.OnStateChanged
	}
	if h.OnWorkerOnline != nil {
		filled.OnWorkerOnline = h.OnWorkerOnline
	}
	if h.OnWorkerRestarted != nil {
		filled.OnWorkerRestarted = h.OnWorkerRestarted
	}
	if h.OnWorkerCompleted != nil {
		filled.OnWorkerCompleted = h.OnWorkerCompleted
	}
	if h.OnError != nil {
		filled.OnError = h.OnError
	}

	return &filled
}

// OnStateChanged is a no-op implementation.
func (h *NopHooks) OnStateChanged(ctx context.Context, from, to types.State) error {
	return nil
}

// OnWorkerOnline is a no-op implementation.
func (h *NopHooks) OnWorkerOnline(ctx context.Context, rec types.WorkerRecord) error {
	return nil
}

// OnWorkerRestarted is a no-op implementation.
func (h *NopHooks) OnWorkerRestarted(ctx context.Context, dead, replacement types.WorkerRecord) error {
	return nil
}

// OnWorkerCompleted is a no-op implementation.
func (h *NopHooks) OnWorkerCompleted(ctx context.Context, rec types.WorkerRecord, ev types.LifecycleEvent) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}
