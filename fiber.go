// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiberchan

// FiberID is an opaque, comparable handle for a parked fiber. Two FiberID
// values compare equal iff they name the same parked call: within a single
// [Select] invocation every armed action shares one FiberID, since the
// invocation parks as a single unit.
type FiberID = *fiberHandle

// fiberHandle is the scheduler hook's concrete realization: "park the
// current fiber" is a channel receive on wake, "restore fiber F" is
// closing wake. Goroutines are the fiber runtime; a handle is created
// fresh at each blocking call (send, receive, or select) rather than
// tracked per-goroutine, since Go has no notion of "the calling
// goroutine's identity" to hang a long-lived handle off of.
type fiberHandle struct {
	wake chan struct{}
}

// newFiberHandle creates a fiber handle for one blocking call.
func newFiberHandle() *fiberHandle {
	return &fiberHandle{wake: make(chan struct{})}
}

// reschedule parks the current fiber until restore is called on this
// handle. Must be called with no channel lock held (see unsync).
func (f *fiberHandle) reschedule() {
	<-f.wake
}

// restore marks the fiber runnable. Each handle is restored at most once
// by construction: a direct send/receive waiter is always dequeued by its
// counterparty before being restored, and a select's shared handle is
// restored by at most one channel thanks to SelectContext.tryTrigger's
// compare-and-swap.
func (f *fiberHandle) restore() {
	close(f.wake)
}
