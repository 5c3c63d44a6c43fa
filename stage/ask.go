package stage

// Ask sends request to target and blocks the calling actor until a message
// of shape R arrives in its OWN inbox, then returns it. This is not a
// future or a response channel: target replies by an ordinary Say back to
// the asker, and Ask recognizes the reply by picking it out of the asker's
// inbox by type.
//
// Messages that arrive before the matching reply are not dropped. They are
// drained out of the way, in order, and replayed back onto the front of
// the inbox once the match is found — so a later, ordinary take from this
// actor's inbox sees exactly the sequence it would have seen had Ask never
// run, minus the reply itself.
//
// Asking yourself is rejected outright: there's no second task to ever put
// a reply in your own inbox while you're blocked waiting for it.
func Ask[S any, M any, R any](scene *Scene[S, M], target Id[any, any], request any) (R, error) {
	var zero R

	self := scene.subject.local
	if target.num == scene.subject.num {
		return zero, ErrSelfAsk
	}
	if !target.toHandle().valid() {
		return zero, ErrRemoteSend
	}

	if err := target.local.mailbox.put(request); err != nil {
		return zero, err
	}

	var setAside []any
	for {
		raw, ok := self.mailbox.take()
		if !ok {
			self.mailbox.putAll(setAside)
			return zero, ErrAskInterrupted
		}

		if reply, matched := raw.(R); matched {
			pending := self.mailbox.drainAvailable()
			self.mailbox.putAll(setAside)
			self.mailbox.putAll(pending)
			return reply, nil
		}

		setAside = append(setAside, raw)
	}
}
