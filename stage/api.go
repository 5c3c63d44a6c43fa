package stage

// Say delivers msg to target's inbox and returns without waiting for it to
// be handled. This is the ordinary, fire-and-forget send; Ask is the rare
// exception that waits for a reply.
func Say[S any, M any](scene *Scene[S, M], target Id[any, any], msg any) error {
	h := target.toHandle()
	if !h.valid() {
		return ErrRemoteSend
	}
	return h.local.mailbox.put(msg)
}

// Enter spawns a new actor and returns its Id. Called from the Stage's own
// Scene, it registers the actor directly; called from any other actor, it
// asks the Stage to do so on its behalf and waits for the Entered! reply.
//
// The new actor's minder defaults to the spawning actor's own minder — new
// actors join the same supervision cohort as their creator rather than
// being supervised by the creator itself, which keeps the default topology
// flat (everything ultimately answers to the PassiveMinder the Stage
// installed at bootstrap) unless an application opts into something
// deeper with EnterWithMinder.
func Enter[S any, M any, T any, N any](scene *Scene[S, M], initial T, behavior Behavior[T, N]) (Id[T, N], error) {
	return EnterWithMinder(scene, initial, behavior, scene.Minder())
}

// EnterWithMinder is Enter with an explicit minder instead of the inherited
// default, for the applications that do want a deeper supervision tree.
func EnterWithMinder[S any, M any, T any, N any](
	scene *Scene[S, M], initial T, behavior Behavior[T, N], minder Id[any, any],
) (Id[T, N], error) {
	self := scene.subject

	if self.num == 0 {
		return spawnChild[T, N](self.local.stg, behavior, initial, minder.toHandle(), self.local.stg.environment())
	}

	resp, err := Ask[S, M, Entered[T, N]](scene, scene.Stage().Any(), EnterRequest[T, N]{
		Initial:  initial,
		Behavior: behavior,
		Minder:   minder,
		ReplyTo:  scene.Me().Any(),
	})
	if err != nil {
		var zero Id[T, N]
		return zero, err
	}
	return resp.Who, nil
}

// Leave closes the calling actor's own inbox, which ends its dispatch loop
// after the current Hear returns: the pending Epilogue/DieingBreath pair
// runs and it reports out to its minder as usual. Called on the Stage's
// own Scene, it instead begins the shutdown of the whole tree.
func Leave[S any, M any](scene *Scene[S, M]) {
	self := scene.subject
	if self.num == 0 {
		self.local.stg.beginShutdown()
		return
	}
	self.local.mailbox.close()
}

// Shout wraps msg in a Shout envelope and Says it to troupe, which
// re-delivers it to each of its members.
func Shout[S any, M any](scene *Scene[S, M], troupe Id[TroupeState, any], msg any) error {
	return Say(scene, troupe.Any(), Shout{Msg: msg})
}
