package stage

import (
	"fmt"
	"runtime"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gostage/stage/internal/chain"
	"github.com/gostage/stage/internal/timer"
	"github.com/gostage/stage/log"
)

// shutdownGrace is how long the Stage waits for children to leave on their
// own once shutdown has begun before closing its own inbox regardless.
const shutdownGrace = 1 * time.Second

// StageState names the Stage in Id[StageState, any] signatures. The Stage
// keeps its real bookkeeping on the *Stage value itself rather than behind
// My/MyBang, since its dispatch loop is bespoke rather than the generic
// Prologue/Hear/Epilogue one every other actor runs.
type StageState struct{}

// shutdownTimerFired is the private message the shutdown timer's goroutine
// sends back into the Stage's own inbox when the grace period elapses. It
// lets the "timer vs. children drained" race be resolved entirely through
// ordinary message passing, with no second select statement in the loop.
type shutdownTimerFired struct{}

// Stage is the root of an actor tree: the one actor every other actor's
// genealogy traces back to. It owns the registry of who is alive, and it is
// the only actor that drives shutdown for the whole tree.
type Stage struct {
	record       *actorRecord
	children     mapset.Set[uint64]
	recordsByNum map[uint64]*actorRecord
	nextNum      uint64
	play         handle

	shuttingDown  bool
	shutdownTimer *timer.Timer

	logger     log.Logger
	captureEnv func(Id[StageState, any]) any
	env        any
}

// Option configures a Stage at genesis time, before bootstrap runs.
type Option interface {
	apply(*Stage)
}

type optionFunc func(*Stage)

func (f optionFunc) apply(stg *Stage) { f(stg) }

// WithEnvironment installs the hook a Stage consults exactly once, at
// bootstrap, to produce the opaque value handed to every actor's Prologue,
// Epilogue, and DieingBreath for its whole life. Absent this option, every
// actor runs with a nil environment.
func WithEnvironment(capture func(Id[StageState, any]) any) Option {
	return optionFunc(func(stg *Stage) { stg.captureEnv = capture })
}

// WithLogger redirects the bootstrap Logger actor's output away from the
// package default.
func WithLogger(logger log.Logger) Option {
	return optionFunc(func(stg *Stage) { stg.logger = logger })
}

// environment returns the Stage's captured environment value. It is safe
// to call from any task: the hook runs once, at bootstrap, and the result
// is cached on stg from then on.
func (stg *Stage) environment() any {
	return stg.env
}

func newStage(opts ...Option) *Stage {
	stg := &Stage{
		children:     mapset.NewThreadUnsafeSet[uint64](),
		recordsByNum: make(map[uint64]*actorRecord),
		logger:       log.DefaultLogger,
	}
	stg.record = &actorRecord{
		num:     0,
		kind:    "stage",
		mailbox: newMailbox(DefaultMailboxCapacity),
		stg:     stg,
	}
	stg.record.minder = handle{num: 0, local: stg.record}

	for _, opt := range opts {
		opt.apply(stg)
	}
	if stg.captureEnv != nil {
		stg.env = stg.captureEnv(Id[StageState, any]{num: 0, local: stg.record})
	}
	return stg
}

// spawnChild registers a new actor under stg and forks its dispatcher. It
// must only be called from the Stage's own task: at bootstrap, or from
// within stg.hear while handling an EnterRequest.
func spawnChild[S any, M any](stg *Stage, beh Behavior[S, M], initial S, minder handle, env any) (Id[S, M], error) {
	if stg.shuttingDown {
		var zero Id[S, M]
		return zero, ErrStageShuttingDown
	}

	stg.nextNum++
	num := stg.nextNum
	rec := &actorRecord{
		num:     num,
		mailbox: newMailbox(DefaultMailboxCapacity),
		minder:  minder,
		stg:     stg,
	}
	stg.children.Add(num)
	stg.recordsByNum[num] = rec

	go runDispatcher(rec, beh, env)
	return Id[S, M]{num: num, local: rec}, nil
}

// bootstrap runs the Stage's PreGenesis sequence: spawn the Logger, spawn
// the PassiveMinder over it, adopt the PassiveMinder as the Stage's own
// minder, spawn the user's Play under that minder, then kick it off with a
// Genesis! message. Each step depends on the one before it, so it's run as
// a fail-fast chain rather than unwound by hand.
func bootstrap[S any, M any](stg *Stage, play Behavior[S, M], initial S) error {
	self := handle{num: 0, local: stg.record}

	var loggerID Id[LoggerState, any]
	var passiveID Id[PassiveMinderState, any]
	var playID Id[S, M]

	return chain.New(chain.WithFailFast()).
		AddRunner(func() (err error) {
			loggerID, err = spawnChild[LoggerState, any](stg, &loggerBehavior{out: stg.logger}, LoggerState{}, self, stg.environment())
			return err
		}).
		AddRunner(func() (err error) {
			passiveID, err = spawnChild[PassiveMinderState, any](
				stg, &passiveMinderBehavior{}, PassiveMinderState{Logger: loggerID}, self, stg.environment(),
			)
			return err
		}).
		AddRunner(func() error {
			stg.record.minder = passiveID.toHandle()
			return nil
		}).
		AddRunner(func() (err error) {
			playID, err = spawnChild[S, M](stg, play, initial, passiveID.toHandle(), stg.environment())
			return err
		}).
		AddRunner(func() error {
			stg.play = playID.toHandle()
			return stg.play.local.mailbox.put(Genesis{})
		}).
		Run()
}

// run is the Stage's dispatch loop. Unlike runDispatcher, it never exits to
// an Epilogue/DieingBreath pair: the Stage's own exit IS the shutdown of
// the whole tree, and is complete once this function returns.
func (stg *Stage) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	stg.record.bind()

	for {
		raw, ok := stg.record.mailbox.take()
		if !ok {
			return
		}
		stg.hear(raw)
	}
}

func (stg *Stage) hear(raw any) {
	switch m := raw.(type) {
	case enterRequest:
		m.spawn(stg)
	case Left:
		stg.reap(m.Who)
		stg.maybeCloseAfterDrain()
	case Died:
		stg.logger.WithActor(m.Who).Errorf("died: %v", m.Corpse)
		stg.reap(m.Who)
		stg.beginShutdown()
		stg.maybeCloseAfterDrain()
	case Leave:
		stg.beginShutdown()
	case shutdownTimerFired:
		stg.forceCloseNow()
	default:
		if stg.play.valid() {
			_ = stg.play.local.mailbox.put(raw)
		}
	}
}

func (stg *Stage) reap(who uint64) {
	stg.children.Remove(who)
	delete(stg.recordsByNum, who)
}

// beginShutdown arms the grace timer, then notifies every living child and
// closes its inbox. Closing the inbox directly — rather than leaving it to
// the child to notice the Leave! and close its own — is what guarantees
// every child's dispatcher exits even if its Hear never looks at Leave!.
// It is idempotent: a Died! that arrives after a Leave! (or a second
// Leave!) does not re-arm the timer or re-send the notices.
//
// The timer is armed before any child is touched, and the per-child notify-
// and-close is fanned out concurrently via errgroup rather than run as a
// sequential loop on the Stage's own task: mailbox.put blocks while a ring
// is full, so a single child with an undraining inbox must never be able to
// stall every other child's shutdown, or the timer itself, behind it.
func (stg *Stage) beginShutdown() {
	if stg.shuttingDown {
		return
	}
	stg.shuttingDown = true

	stg.shutdownTimer = timer.New(shutdownGrace)
	stg.shutdownTimer.Start()
	fired := stg.shutdownTimer.C()
	stopped := stg.shutdownTimer.Stopped()
	self := stg.record
	go func() {
		select {
		case <-fired:
			_ = self.mailbox.put(shutdownTimerFired{})
		case <-stopped:
		}
	}()

	recs := make([]*actorRecord, 0, stg.children.Cardinality())
	for num := range stg.children.Iter() {
		if rec, ok := stg.recordsByNum[num]; ok {
			recs = append(recs, rec)
		}
	}

	eg := new(errgroup.Group)
	logger := stg.logger
	for _, rec := range recs {
		rec := rec
		eg.Go(func() error {
			err := rec.mailbox.put(Leave{})
			rec.mailbox.close()
			if err != nil && err != ErrMailboxClosed {
				return fmt.Errorf("actor %d: %w", rec.num, err)
			}
			return nil
		})
	}
	go func() {
		if err := eg.Wait(); err != nil {
			logger.Errorf("stage: failed to notify all children during shutdown: %v", err)
		}
	}()
}

func (stg *Stage) maybeCloseAfterDrain() {
	if stg.shuttingDown && stg.children.Cardinality() == 0 {
		stg.forceCloseNow()
	}
}

func (stg *Stage) forceCloseNow() {
	if stg.shutdownTimer != nil {
		stg.shutdownTimer.Stop()
	}
	stg.record.mailbox.close()
}

// Genesis creates a Stage, bootstraps it with play as the top-level actor,
// and drives the Stage's dispatch loop on a new goroutine. It returns as
// soon as bootstrap completes, without waiting for shutdown.
func Genesis[S any, M any](initial S, play Behavior[S, M], opts ...Option) (Id[StageState, any], error) {
	stg := newStage(opts...)
	if err := bootstrap(stg, play, initial); err != nil {
		return Id[StageState, any]{}, err
	}
	go stg.run()
	return Id[StageState, any]{num: 0, local: stg.record}, nil
}

// Play creates a Stage and drives its dispatch loop on the calling
// goroutine, returning only once the whole tree has shut down. The Stage's
// task is sticky for the run's duration: it is pinned to its OS thread so
// it never migrates mid-shutdown.
func Play[S any, M any](initial S, play Behavior[S, M], opts ...Option) error {
	stg := newStage(opts...)
	if err := bootstrap(stg, play, initial); err != nil {
		return err
	}
	stg.run()
	return nil
}
