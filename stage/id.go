package stage

// Id is a typed handle to an actor: S is the shape of its private state and
// M is the shape of the messages it accepts. The type parameters buy nothing
// at runtime — an Id is a number and an optional pointer — but they let the
// compiler catch a Say or Ask against the wrong message shape.
//
// A zero-value local pointer means the Id refers to an actor that does not
// live in this process. This module never resolves remote ids; Say and Ask
// reject them with ErrRemoteSend.
type Id[S any, M any] struct {
	num   uint64
	local *actorRecord
}

// Num returns the actor's process-local numeric identifier. Identifiers are
// assigned by a monotonic counter on the Stage and are never reused, even
// after the actor they named has left.
func (id Id[S, M]) Num() uint64 { return id.num }

// IsRemote reports whether id has no local binding.
func (id Id[S, M]) IsRemote() bool { return id.local == nil }

// Equals reports whether id and other name the same actor.
func (id Id[S, M]) Equals(other Id[S, M]) bool {
	return id.num == other.num && id.local == other.local
}

// Any erases id's type parameters. It is how an Id crosses into APIs, like
// Say and the minder plumbing, that only need to address an actor and don't
// care what it looks like on the inside.
func (id Id[S, M]) Any() Id[any, any] {
	return Id[any, any]{num: id.num, local: id.local}
}

// handle is the type-erased form of an Id used by internal bookkeeping
// (the Stage's children set, an actor's stored minder) where carrying two
// extra type parameters around would only get in the way.
type handle struct {
	num   uint64
	local *actorRecord
}

func (id Id[S, M]) toHandle() handle { return handle{num: id.num, local: id.local} }

func fromHandle[S, M any](h handle) Id[S, M] { return Id[S, M]{num: h.num, local: h.local} }

func (h handle) valid() bool { return h.local != nil }
