package stage

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gostage/stage/log"
)

// syncBuffer is a bytes.Buffer safe for the Logger actor's task and the
// test's own goroutine to touch concurrently.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// eventually polls cond until it reports true or the deadline passes. Tests
// that drive a Stage with Genesis rather than Play have no single blocking
// call to hang the assertion off, so they poll state built up by actors
// running on their own tasks.
func eventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.True(t, cond(), "condition did not become true within %s", timeout)
}

// dummyScene satisfies Say's *Scene[S, M] parameter without belonging
// to any actor: Say uses it only for generic type inference, so
// a zero-value Scene is as good as a real one for a caller that lives
// outside the actor tree entirely (here, the test goroutine itself).
func dummyScene() *Scene[any, any] { return &Scene[any, any]{} }

// --- Hello scenario ----------------------------------------------------

type helloPlayState struct {
	result *string
}

type helloChildState struct{}

type askHi struct {
	ReplyTo Id[any, any]
}

type helloChildBehavior struct {
	BaseBehavior[helloChildState, any]
}

func (helloChildBehavior) Hear(scene *Scene[helloChildState, any], msg any) error {
	if m, ok := msg.(askHi); ok {
		return Say(scene, m.ReplyTo, "hi")
	}
	return nil
}

type helloPlayBehavior struct {
	BaseBehavior[helloPlayState, any]
}

func (helloPlayBehavior) Hear(scene *Scene[helloPlayState, any], msg any) error {
	if _, ok := msg.(Genesis); !ok {
		return nil
	}
	child, err := Enter[helloPlayState, any, helloChildState, any](scene, helloChildState{}, helloChildBehavior{})
	if err != nil {
		return err
	}
	reply, err := Ask[helloPlayState, any, string](scene, child.Any(), askHi{ReplyTo: scene.Me().Any()})
	if err != nil {
		return err
	}
	*scene.My().result = reply
	return Say(scene, scene.Stage().Any(), Leave{})
}

func TestHelloAskAndLeave(t *testing.T) {
	var result string
	buf := &syncBuffer{}
	err := Play[helloPlayState, any](
		helloPlayState{result: &result},
		helloPlayBehavior{},
		WithLogger(log.NewZap(log.ErrorLevel, buf)),
	)
	require.NoError(t, err)
	require.Equal(t, "hi", result)
	require.Empty(t, buf.String(), "no crash should have been logged")
}

// --- Crash bubbles scenario ----------------------------------------------

type crashPlayState struct{}

type crashChildState struct{}

type errCrashBoom struct{}

func (errCrashBoom) Error() string { return "boom" }

type crashChildBehavior struct {
	BaseBehavior[crashChildState, any]
}

func (crashChildBehavior) Hear(_ *Scene[crashChildState, any], msg any) error {
	if _, ok := msg.(Genesis); ok {
		return errCrashBoom{}
	}
	return nil
}

type crashPlayBehavior struct {
	BaseBehavior[crashPlayState, any]
}

func (crashPlayBehavior) Hear(scene *Scene[crashPlayState, any], msg any) error {
	if _, ok := msg.(Genesis); !ok {
		return nil
	}
	child, err := Enter[crashPlayState, any, crashChildState, any](scene, crashChildState{}, crashChildBehavior{})
	if err != nil {
		return err
	}
	return Say(scene, child.Any(), Genesis{})
}

func TestCrashBubblesToLoggerAndShutsDown(t *testing.T) {
	buf := &syncBuffer{}
	err := Play[crashPlayState, any](
		crashPlayState{},
		crashPlayBehavior{},
		WithLogger(log.NewZap(log.ErrorLevel, buf)),
	)
	require.NoError(t, err)
	require.True(t, strings.Contains(buf.String(), "boom"), "log output: %s", buf.String())
}

// --- Ask/reply correlator preserves FIFO around the reply (P3) -----------

type reorderMsg struct{ tag string }

type askPong struct {
	ReplyTo Id[any, any]
}

type gatedEchoState struct{}

type gatedEchoBehavior struct {
	BaseBehavior[gatedEchoState, any]
	gate chan struct{}
}

func (b gatedEchoBehavior) Hear(scene *Scene[gatedEchoState, any], msg any) error {
	if m, ok := msg.(askPong); ok {
		<-b.gate
		return Say(scene, m.ReplyTo, "pong")
	}
	return nil
}

type reorderPlayState struct {
	mu     *sync.Mutex
	seen   *[]string
	playID chan Id[any, any]
}

type reorderPlayBehavior struct {
	BaseBehavior[reorderPlayState, any]
	gate chan struct{}
}

func (b reorderPlayBehavior) Hear(scene *Scene[reorderPlayState, any], msg any) error {
	st := scene.My()
	switch m := msg.(type) {
	case Genesis:
		echo, err := Enter[reorderPlayState, any, gatedEchoState, any](scene, gatedEchoState{}, gatedEchoBehavior{gate: b.gate})
		if err != nil {
			return err
		}
		st.playID <- scene.Me().Any()

		reply, err := Ask[reorderPlayState, any, string](scene, echo.Any(), askPong{ReplyTo: scene.Me().Any()})
		if err != nil {
			return err
		}
		st.mu.Lock()
		*st.seen = append(*st.seen, "ask:"+reply)
		st.mu.Unlock()
		return Say(scene, scene.Me().Any(), reorderMsg{tag: "three"})
	case reorderMsg:
		st.mu.Lock()
		*st.seen = append(*st.seen, "msg:"+m.tag)
		st.mu.Unlock()
		if m.tag == "three" {
			return Say(scene, scene.Stage().Any(), Leave{})
		}
	}
	return nil
}

func TestAskPreservesFIFOAroundTheReply(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	gate := make(chan struct{})
	playID := make(chan Id[any, any], 1)

	_, err := Genesis[reorderPlayState, any](
		reorderPlayState{mu: &mu, seen: &seen, playID: playID},
		reorderPlayBehavior{gate: gate},
	)
	require.NoError(t, err)

	target := <-playID
	require.NoError(t, Say(dummyScene(), target, reorderMsg{tag: "one"}))
	require.NoError(t, Say(dummyScene(), target, reorderMsg{tag: "two"}))
	close(gate)

	eventually(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 4
	})

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"ask:pong", "msg:one", "msg:two", "msg:three"}, seen)
}

// --- Broadcast via Troupe ------------------------------------------------

type broadcastPayload struct{}

type troupeMemberState struct{}

type troupeMemberBehavior struct {
	BaseBehavior[troupeMemberState, any]
	play Id[any, any]
}

func (b troupeMemberBehavior) Hear(scene *Scene[troupeMemberState, any], msg any) error {
	if _, ok := msg.(broadcastPayload); ok {
		return Say(scene, b.play, msg)
	}
	return nil
}

type troupePlayState struct {
	mu      *sync.Mutex
	count   *int
	members int
}

type troupePlayBehavior struct {
	BaseBehavior[troupePlayState, any]
}

func (troupePlayBehavior) Hear(scene *Scene[troupePlayState, any], msg any) error {
	switch msg.(type) {
	case Genesis:
		st := scene.My()
		members := make([]Id[any, any], 0, st.members)
		for i := 0; i < st.members; i++ {
			mem, err := Enter[troupePlayState, any, troupeMemberState, any](
				scene, troupeMemberState{}, troupeMemberBehavior{play: scene.Me().Any()},
			)
			if err != nil {
				return err
			}
			members = append(members, mem.Any())
		}
		troupe, err := NewTroupe[troupePlayState, any](scene, members...)
		if err != nil {
			return err
		}
		return Shout(scene, troupe, broadcastPayload{})
	case broadcastPayload:
		st := scene.My()
		st.mu.Lock()
		*st.count++
		done := *st.count == st.members
		st.mu.Unlock()
		if done {
			return Say(scene, scene.Stage().Any(), Leave{})
		}
	}
	return nil
}

func TestTroupeBroadcastsToEveryMember(t *testing.T) {
	var mu sync.Mutex
	count := 0

	err := Play[troupePlayState, any](
		troupePlayState{mu: &mu, count: &count, members: 4},
		troupePlayBehavior{},
	)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 4, count)
}

// --- Delegate --------------------------------------------------------------

type delegatePlayState struct {
	ran *bool
}

type delegatePlayBehavior struct {
	BaseBehavior[delegatePlayState, any]
}

func (delegatePlayBehavior) Hear(scene *Scene[delegatePlayState, any], msg any) error {
	if _, ok := msg.(Genesis); !ok {
		return nil
	}
	ran := scene.My().ran
	return Delegate(scene, func(s *Scene[StoogeState, any], _ []any) error {
		*ran = true
		return Say(s, s.Stage().Any(), Leave{})
	})
}

func TestDelegateRunsActionThenShutsDown(t *testing.T) {
	var ran bool
	err := Play[delegatePlayState, any](delegatePlayState{ran: &ran}, delegatePlayBehavior{})
	require.NoError(t, err)
	require.True(t, ran)
}

// --- Backpressure (inbox capacity is 420) -----------------------------------

type blockState struct{}

type blockingBehavior struct {
	BaseBehavior[blockState, any]
	gate    chan struct{}
	drained chan struct{}
}

func (b blockingBehavior) Prologue(_ *Scene[blockState, any], _ any) error {
	<-b.gate
	return nil
}

func (b blockingBehavior) Hear(_ *Scene[blockState, any], msg any) error {
	if n, ok := msg.(int); ok && n == DefaultMailboxCapacity {
		close(b.drained)
	}
	return nil
}

type bpPlayState struct {
	gate    chan struct{}
	drained chan struct{}
	childID chan Id[blockState, any]
}

type bpPlayBehavior struct {
	BaseBehavior[bpPlayState, any]
}

func (bpPlayBehavior) Hear(scene *Scene[bpPlayState, any], msg any) error {
	switch msg.(type) {
	case Genesis:
		st := scene.My()
		child, err := Enter[bpPlayState, any, blockState, any](
			scene, blockState{}, blockingBehavior{gate: st.gate, drained: st.drained},
		)
		if err != nil {
			return err
		}
		st.childID <- child
	case Leave:
		Leave(scene)
	}
	return nil
}

func TestBackpressureBlocksAtCapacity(t *testing.T) {
	gate := make(chan struct{})
	drained := make(chan struct{})
	childID := make(chan Id[blockState, any], 1)

	stageID, err := Genesis[bpPlayState, any](
		bpPlayState{gate: gate, drained: drained, childID: childID},
		bpPlayBehavior{},
	)
	require.NoError(t, err)

	child := <-childID

	for i := 0; i < DefaultMailboxCapacity; i++ {
		require.NoError(t, Say(dummyScene(), child.Any(), i))
	}

	sendDone := make(chan error, 1)
	go func() {
		sendDone <- Say(dummyScene(), child.Any(), DefaultMailboxCapacity)
	}()

	select {
	case <-sendDone:
		t.Fatal("send completed before the mailbox had room")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate)
	require.NoError(t, <-sendDone)
	<-drained

	require.NoError(t, Say(dummyScene(), stageID.Any(), Leave{}))
	time.Sleep(shutdownGrace + 200*time.Millisecond)
}

// --- P1: single-owner contract violation ------------------------------------

func TestStateAccessFromWrongTaskPanics(t *testing.T) {
	rec := &actorRecord{num: 1}
	rec.bind()

	done := make(chan any, 1)
	go func() {
		defer func() { done <- recover() }()
		rec.assertOwner()
	}()
	r := <-done
	require.NotNil(t, r)
	require.Contains(t, r.(string), "not the owning task")
}

func TestDoubleBindPanics(t *testing.T) {
	rec := &actorRecord{num: 7}
	rec.bind()
	require.Panics(t, func() { rec.bind() })
}

// --- P6: self-ask rejected ---------------------------------------------------

type selfAskState struct{}

func TestSelfAskIsRejected(t *testing.T) {
	rec := &actorRecord{num: 1, mailbox: newMailbox(DefaultMailboxCapacity)}
	scene := &Scene[selfAskState, any]{subject: Id[selfAskState, any]{num: 1, local: rec}}
	_, err := Ask[selfAskState, any, string](scene, scene.Me().Any(), "hi")
	require.ErrorIs(t, err, ErrSelfAsk)
}

// --- P8: remote send rejected ------------------------------------------------

func TestRemoteSendIsRejected(t *testing.T) {
	rec := &actorRecord{num: 1, mailbox: newMailbox(1)}
	scene := &Scene[selfAskState, any]{subject: Id[selfAskState, any]{num: 1, local: rec}}
	var remote Id[any, any]

	require.ErrorIs(t, Say(scene, remote, "hi"), ErrRemoteSend)

	_, err := Ask[selfAskState, any, string](scene, remote, "hi")
	require.ErrorIs(t, err, ErrRemoteSend)
}
