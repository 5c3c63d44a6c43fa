package stage

import "github.com/google/uuid"

// Genesis is the first message the Stage delivers to the user's Play
// actor, once bootstrap has finished spawning the Logger and the default
// minder chain ahead of it.
type Genesis struct{}

// PreGenesis seeds the Stage itself, before it has any children. It never
// leaves this package: bootstrap runs synchronously rather than the Stage
// receiving it as an ordinary message, but it is documented here as the
// named transition §4.4 describes.
type PreGenesis struct{}

// Left is sent to an actor's minder when the actor exits cleanly: its
// inbox closed and its Epilogue ran without error.
type Left struct {
	Who uint64
}

// Died is sent to an actor's minder when the actor fails: Prologue, Hear,
// or Epilogue returned an error or panicked.
type Died struct {
	Who    uint64
	Corpse error
}

// Leave asks an actor to close its own inbox. Sent to the Stage, it begins
// the shutdown sequence for the whole tree.
type Leave struct{}

// LogDied is what PassiveMinder forwards to the Logger actor for every
// Died! it sees, tagged with a correlation id so unrelated crashes that
// land in the same log stream can still be told apart.
type LogDied struct {
	Who           uint64
	Cause         error
	CorrelationID uuid.UUID
}

// Shout is the envelope Troupe unwraps and re-sends to each of its
// members, in join order, as Msg.
type Shout struct {
	Msg any
}

// enterRequest is the non-generic face of EnterRequest[S, M]. Because Go
// cannot dispatch a generic struct through a type switch on an `any`
// mailbox value, the spawn logic itself lives on the generic type as a
// method and is reached here through an interface — the compiler
// monomorphizes spawn per S, M instantiation, so each EnterRequest value
// carries its own concrete spawning code with it.
type enterRequest interface {
	spawn(stg *Stage)
}

// EnterRequest asks a Stage to spawn a new actor. Behavior and Initial
// describe the actor to create; ReplyTo, if valid, receives an Entered[S, M]
// once it's running. Minder becomes the new actor's minder as given; Enter
// and Delegate fill it with the spawning actor's own minder. A request
// whose Minder is not valid spawns an actor with no minder to report Left!
// or Died! to. The new actor's
// execution environment is always the Stage's own captured one (see
// WithEnvironment); EnterRequest carries no per-actor override.
type EnterRequest[S any, M any] struct {
	Initial  S
	Behavior Behavior[S, M]
	Minder   Id[any, any]
	ReplyTo  Id[any, any]
}

func (e EnterRequest[S, M]) spawn(stg *Stage) {
	minder := e.Minder.toHandle()
	id, err := spawnChild[S, M](stg, e.Behavior, e.Initial, minder, stg.environment())
	if err != nil {
		if e.ReplyTo.toHandle().valid() {
			_ = e.ReplyTo.toHandle().local.mailbox.put(err)
		}
		return
	}

	target := e.ReplyTo
	if !target.toHandle().valid() {
		target = id.Any()
	}
	if h := target.toHandle(); h.valid() {
		_ = h.local.mailbox.put(Entered[S, M]{Who: id})
	}
}

// Entered is the reply to a successful EnterRequest.
type Entered[S any, M any] struct {
	Who Id[S, M]
}
