package stage

import (
	"fmt"

	"go.uber.org/atomic"

	"github.com/gostage/stage/internal/goroutine"
)

// actorRecord is the type-erased, framework-private half of an actor: the
// bookkeeping an Id points at. The type-safe half is the Behavior and the
// Scene built around it, both of which know S and M; the record does not.
type actorRecord struct {
	num     uint64
	kind    string
	state   any
	mailbox *mailbox
	minder  handle
	stg     *Stage

	// bound holds the id of the goroutine that owns this actor, or 0 before
	// the dispatcher has started. It exists to let My, MyBang, Minder, and
	// MinderBang assert single ownership rather than merely document it.
	bound atomic.Uint64
}

// bind claims this record for the calling goroutine. It must be called
// exactly once, by the goroutine that will run the actor's dispatch loop.
func (r *actorRecord) bind() {
	if !r.bound.CompareAndSwap(0, goroutine.ID()) {
		panic(fmt.Sprintf("stage: actor %d: %v", r.num, ErrAlreadyBound))
	}
}

// assertOwner panics unless the calling goroutine is the one bound to r.
func (r *actorRecord) assertOwner() {
	if r.bound.Load() != goroutine.ID() {
		panic(fmt.Sprintf("stage: actor %d: %v", r.num, ErrNotOwner))
	}
}
