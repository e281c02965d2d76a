package pose

import "sync/atomic"

// Mailbox is a single-slot handoff between one writer and any number of readers.
// Put overwrites the previous value and Latest never blocks.
type Mailbox[T any] struct {
	slot atomic.Pointer[T]
}

// Put replaces the stored value.
func (m *Mailbox[T]) Put(v T) {
	m.slot.Store(&v)
}

// Latest returns the most recently stored value. ok is false before the first Put.
func (m *Mailbox[T]) Latest() (v T, ok bool) {
	p := m.slot.Load()
	if p == nil {
		return v, false
	}
	return *p, true
}
