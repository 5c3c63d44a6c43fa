package stage

// TroupeState is a Troupe's state: the ordered list of members it fans a
// Shout! out to. Order is join order; Shout delivers to members in this
// order every time.
type TroupeState struct {
	Members []Id[any, any]
}

// troupeBehavior re-sends whatever arrives wrapped in a Shout envelope to
// every member, in list order, and ignores everything else.
type troupeBehavior struct {
	BaseBehavior[TroupeState, any]
}

func (troupeBehavior) Hear(scene *Scene[TroupeState, any], msg any) error {
	s, ok := msg.(Shout)
	if !ok {
		return nil
	}
	for _, member := range scene.My().Members {
		if h := member.toHandle(); h.valid() {
			_ = h.local.mailbox.put(s.Msg)
		}
	}
	return nil
}

// NewTroupe spawns a Troupe fanning Shout! out to members, in the order
// given. Members joining or leaving after the Troupe is created are not
// tracked; a Troupe's membership is fixed at birth.
func NewTroupe[S any, M any](scene *Scene[S, M], members ...Id[any, any]) (Id[TroupeState, any], error) {
	return Enter[S, M, TroupeState, any](scene, TroupeState{Members: members}, troupeBehavior{})
}
