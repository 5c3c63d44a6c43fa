package stage

// Behavior is the code an actor runs. S is its private state shape, M is
// the message shape it declares. An instance is bound to exactly one Id for
// its whole life; the framework never runs two goroutines against the same
// Behavior value concurrently.
type Behavior[S any, M any] interface {
	// Prologue runs once, before the first message is taken from the inbox.
	// A non-nil error skips straight to DieingBreath.
	Prologue(scene *Scene[S, M], env any) error

	// Hear runs once per message. A non-nil error skips the remaining
	// inbox and goes to DieingBreath instead of Epilogue.
	Hear(scene *Scene[S, M], msg M) error

	// Epilogue runs once, after the inbox has been closed, on
	// the normal exit path only. A non-nil error is treated the same as a
	// Hear failure: it routes to DieingBreath instead of a clean exit.
	Epilogue(scene *Scene[S, M], env any) error

	// DieingBreath runs at most once, when Prologue, Hear, or Epilogue
	// fails or panics. cause is the failure. The dispatcher reports nothing
	// itself; BaseBehavior's DieingBreath is what sends Died! to the minder.
	DieingBreath(scene *Scene[S, M], cause error, env any)
}

// BaseBehavior gives every Behavior a sensible default Prologue, Epilogue,
// and DieingBreath, so implementers only have to write Hear. Embed it by
// value in a concrete behavior type.
type BaseBehavior[S any, M any] struct{}

// Prologue is a no-op by default.
func (BaseBehavior[S, M]) Prologue(*Scene[S, M], any) error { return nil }

// Epilogue reports Left! to the actor's minder.
func (BaseBehavior[S, M]) Epilogue(scene *Scene[S, M], _ any) error {
	if !scene.subject.local.minder.valid() {
		return nil
	}
	return scene.subject.local.minder.local.mailbox.put(Left{Who: scene.subject.num})
}

// DieingBreath reports Died! to the actor's minder. A failure to deliver
// that report is swallowed: the actor is already on its way out and has no
// further channel to surface a second failure through.
func (BaseBehavior[S, M]) DieingBreath(scene *Scene[S, M], cause error, _ any) {
	if !scene.subject.local.minder.valid() {
		return
	}
	_ = scene.subject.local.minder.local.mailbox.put(Died{Who: scene.subject.num, Corpse: cause})
}
