package stage

// StoogeAction is the closure a Stooge runs exactly once, then exits.
type StoogeAction func(scene *Scene[StoogeState, any], args []any) error

// StoogeState holds the action a Stooge was created to run and the
// arguments it was given. Neither is meant to be read back out by
// application code; they exist purely to survive the trip from Delegate's
// caller into the Stooge's own dispatch loop.
type StoogeState struct {
	action StoogeAction
	args   []any
}

// stoogeBehavior waits for the Entered! confirming the Stooge itself has
// joined the Stage, runs its action once, and leaves. Delegate spawns a
// Stooge without a ReplyTo, so that confirmation lands in the Stooge's own
// inbox rather than racing a reply back to the caller.
type stoogeBehavior struct {
	BaseBehavior[StoogeState, any]
}

func (stoogeBehavior) Hear(scene *Scene[StoogeState, any], msg any) error {
	if _, ok := msg.(Entered[StoogeState, any]); !ok {
		return nil
	}
	st := scene.My()
	if err := st.action(scene, st.args); err != nil {
		return err
	}
	Leave(scene)
	return nil
}

// Delegate spawns a Stooge that runs action(scene, args...) exactly once
// and exits, without the calling actor blocking on it the way Enter would.
// It is the fire-and-forget counterpart to Enter: the Stooge's own
// Entered! is what sets it running, rather than a reply the delegator
// has to wait on.
func Delegate[S any, M any](scene *Scene[S, M], action StoogeAction, args ...any) error {
	self := scene.subject
	initial := StoogeState{action: action, args: args}
	minder := scene.Minder()

	if self.num == 0 {
		id, err := spawnChild[StoogeState, any](self.local.stg, stoogeBehavior{}, initial, minder.toHandle(), self.local.stg.environment())
		if err != nil {
			return err
		}
		return id.toHandle().local.mailbox.put(Entered[StoogeState, any]{Who: id})
	}

	return Say(scene, scene.Stage().Any(), EnterRequest[StoogeState, any]{
		Initial:  initial,
		Behavior: stoogeBehavior{},
		Minder:   minder,
	})
}
