/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package timer provides the one-shot, cancellable delay the Stage arms
// during shutdown. It is a thin wrapper over the go-quartz scheduling
// engine rather than a hand-rolled time.Timer shim.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
)

// Timer is a single-fire countdown backed by a go-quartz scheduler. It is
// created stopped; Start arms it. Exactly one of a fire or a Stop is ever
// observable on the channel returned by C.
type Timer struct {
	mu        sync.Mutex
	duration  time.Duration
	scheduler quartz.Scheduler
	fired     chan time.Time
	stopCh    chan struct{}
	started   bool
	stopped   bool
}

// New creates a Timer for duration. It does nothing until Start is called.
func New(duration time.Duration) *Timer {
	return &Timer{
		duration: duration,
		fired:    make(chan time.Time, 1),
		stopCh:   make(chan struct{}),
	}
}

// Start arms the timer. Calling Start more than once is a no-op; it
// reports whether this call was the one that armed it.
func (t *Timer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return false
	}
	t.started = true

	scheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	t.scheduler = scheduler
	t.scheduler.Start(context.Background())

	stopCh := t.stopCh
	fireJob := job.NewFunctionJob[bool](func(context.Context) (bool, error) {
		select {
		case t.fired <- time.Now():
		case <-stopCh:
		}
		return true, nil
	})
	detail := quartz.NewJobDetail(fireJob, quartz.NewJobKey(uuid.NewString()))
	_ = t.scheduler.ScheduleJob(detail, quartz.NewRunOnceTrigger(t.duration))
	return true
}

// Stop cancels the timer. A fire the schedule has not yet delivered is
// suppressed; one already delivered stays buffered on C. Stop on a timer
// that never started, or one stopped
// already, is a harmless no-op.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started || t.stopped {
		return false
	}
	t.stopped = true
	close(t.stopCh)
	_ = t.scheduler.Clear()
	t.scheduler.Stop()
	return true
}

// C returns the channel that receives the fire time when the timer expires.
// It never receives more than once, and never receives at all if Stop wins
// the race against the underlying schedule.
func (t *Timer) C() <-chan time.Time {
	return t.fired
}

// Stopped returns a channel that closes the moment Stop is called. A
// goroutine selecting on both C and Stopped is guaranteed to unblock
// exactly once, whichever of the two outcomes happens first.
func (t *Timer) Stopped() <-chan struct{} {
	return t.stopCh
}
