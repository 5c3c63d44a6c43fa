package stage

import (
	gods "github.com/Workiva/go-datastructures/queue"
)

// DefaultMailboxCapacity is the inbox size every actor, the Stage included,
// is created with. It is deliberately small: an actor
// that needs more than a few hundred messages queued up is a backpressure
// signal, not a sizing problem.
const DefaultMailboxCapacity = 420

// mailbox is a bounded, blocking FIFO queue of boxed messages. Puts block
// once the ring is full; takes block once it is empty. Both sides observe
// closure: a Put after close returns ErrMailboxClosed, and a blocked Take
// unblocks with ok=false.
//
// The ring buffer itself is Workiva's lock-free RingBuffer, the same one
// goakt's bounded mailbox wraps.
type mailbox struct {
	ring *gods.RingBuffer
}

func newMailbox(capacity int) *mailbox {
	return &mailbox{ring: gods.NewRingBuffer(uint64(capacity))}
}

// put enqueues msg, blocking while the mailbox is full.
func (m *mailbox) put(msg any) error {
	if err := m.ring.Put(msg); err != nil {
		return ErrMailboxClosed
	}
	return nil
}

// take dequeues the next message, blocking while the mailbox is empty.
// ok is false once the mailbox has been closed; messages still queued at
// that point are not returned.
func (m *mailbox) take() (any, bool) {
	v, err := m.ring.Get()
	if err != nil {
		return nil, false
	}
	return v, true
}

// close disposes the mailbox. Blocked and future puts/takes return
// immediately: puts with ErrMailboxClosed, takes with ok=false.
func (m *mailbox) close() {
	m.ring.Dispose()
}

// drainAvailable removes and returns every message currently sitting in the
// mailbox without blocking for more to arrive. It backs the ask correlator's
// replay: messages that arrived after the one being awaited must come back
// in the same relative order they were found in.
func (m *mailbox) drainAvailable() []any {
	var drained []any
	for m.ring.Len() > 0 {
		v, err := m.ring.Get()
		if err != nil {
			break
		}
		drained = append(drained, v)
	}
	return drained
}

// putAll re-enqueues msgs in order. Used to restore a mailbox's contents
// after a selective take.
func (m *mailbox) putAll(msgs []any) {
	for _, msg := range msgs {
		_ = m.ring.Put(msg)
	}
}

func (m *mailbox) len() int {
	return int(m.ring.Len())
}
