package launcher

import "github.com/arloliu/parcel/types"

type handle struct {
	id     string
	events chan types.LifecycleEvent
}

var _ types.Handle = (*handle)(nil)

func newHandle(id string) *handle {
	// Online + Terminated.
	return &handle{id: id, events: make(chan types.LifecycleEvent, 2)}
}

func (h *handle) ID() string {
	return h.id
}

func (h *handle) Events() <-chan types.LifecycleEvent {
	return h.events
}
