package stage

import "errors"

var (
	// ErrMailboxClosed is returned by a send when the target's inbox has
	// already been closed.
	ErrMailboxClosed = errors.New("stage: mailbox closed")

	// ErrRemoteSend is returned when a message is addressed to an Id that
	// has no local binding. Remote delivery is out of scope for this module.
	ErrRemoteSend = errors.New("stage: cannot address a remote id")

	// ErrSelfAsk is returned when an actor asks itself; the correlator would
	// deadlock waiting on its own inbox for a reply it can never send.
	ErrSelfAsk = errors.New("stage: an actor cannot ask itself")

	// ErrAskInterrupted is returned when the asking actor's own inbox closes
	// before a matching reply arrives.
	ErrAskInterrupted = errors.New("stage: ask interrupted by inbox closure")

	// ErrAlreadyBound is raised when a second task attempts to bind to an
	// actor that already has an owning task. It signals a violation of the
	// single-owner invariant, not an ordinary runtime error.
	ErrAlreadyBound = errors.New("stage: actor already bound to a task")

	// ErrNotOwner is raised when code outside an actor's owning task reaches
	// into its state, minder, or scene. Like ErrAlreadyBound, this is a
	// contract violation, surfaced as a panic rather than returned.
	ErrNotOwner = errors.New("stage: caller is not the owning task")

	// ErrUnexpectedMessage is reported to DieingBreath when a value taken
	// from an actor's inbox does not match the message type it declared.
	ErrUnexpectedMessage = errors.New("stage: unexpected message shape")

	// ErrStageShuttingDown is returned by Enter and Delegate called on the
	// Stage's own Scene once the Stage has begun its shutdown sequence and
	// is no longer accepting new actors. An Enter from any other actor at
	// that point ends with ErrAskInterrupted, because shutdown closes the
	// asking actor's inbox.
	ErrStageShuttingDown = errors.New("stage: stage is shutting down")
)
