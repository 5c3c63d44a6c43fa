// Package stage is a lightweight actor runtime.
//
// Programs built with stage are trees of isolated actors that communicate
// exclusively by asynchronous messages. Every actor is owned by exactly one
// goroutine for its entire life, so handler code never needs locks to guard
// its own state. A distinguished actor, the Stage, spawns every other actor,
// tracks who is still alive, and drives the shutdown of the whole tree when
// asked to leave.
//
// The vocabulary is theatrical on purpose: a Stage hosts a Scene for every
// message an actor handles, actors enter and leave the Stage, a Play is the
// user's top-level actor, and a Minder supervises the actors it watches over.
package stage
