package stage

import (
	"github.com/google/uuid"

	"github.com/gostage/stage/log"
)

// LoggerState is the Logger actor's (empty) state shape.
type LoggerState struct{}

// loggerBehavior writes every LogDied! it hears to out. It never fails on
// its own account: a Logger crash would have nowhere useful to go except
// back to the Stage, which is exactly what its default minder wiring does
// anyway, so there is no special-casing here.
type loggerBehavior struct {
	BaseBehavior[LoggerState, any]
	out log.Logger
}

func (b *loggerBehavior) Hear(_ *Scene[LoggerState, any], msg any) error {
	ld, ok := msg.(LogDied)
	if !ok {
		return nil
	}
	b.out.WithActor(ld.Who).Errorf("crashed [%s]: %v", ld.CorrelationID, ld.Cause)
	return nil
}

// PassiveMinderState holds the Id of the Logger a PassiveMinder reports
// crashes through before escalating them.
type PassiveMinderState struct {
	Logger Id[LoggerState, any]
}

// passiveMinderBehavior is the default supervision policy: log every
// crash, then forward it to the Stage. The Stage's own Died! handler
// begins shutdown, so by default a single actor crash brings the whole
// tree down — deliberately the simplest policy that could work, meant to
// be replaced with a custom minder wherever an application needs isolation
// instead.
type passiveMinderBehavior struct {
	BaseBehavior[PassiveMinderState, any]
}

func (passiveMinderBehavior) Hear(scene *Scene[PassiveMinderState, any], msg any) error {
	switch m := msg.(type) {
	case Left:
		return nil
	case Died:
		st := scene.My()
		correlationID := uuid.New()
		if st.Logger.toHandle().valid() {
			_ = st.Logger.toHandle().local.mailbox.put(LogDied{
				Who:           m.Who,
				Cause:         m.Corpse,
				CorrelationID: correlationID,
			})
		}
		return Say(scene, scene.Stage().Any(), Died{Who: m.Who, Corpse: m.Corpse})
	default:
		return nil
	}
}
