// Package mailbox provides a single-slot latest-value cell shared between
// one or more producers and a single consumer. A write overwrites any
// unconsumed value; a read clears the slot. Producers never block.
package mailbox

import "sync/atomic"

// Mailbox holds at most one pending value of type T.
type Mailbox[T any] struct {
	slot atomic.Pointer[T]
}

// Publish stores v, replacing any value that has not been consumed yet.
func (m *Mailbox[T]) Publish(v T) {
	m.slot.Store(&v)
}

// Consume removes and returns the pending value. The second return is false
// when nothing has been published since the last Consume.
func (m *Mailbox[T]) Consume() (T, bool) {
	p := m.slot.Swap(nil)
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
