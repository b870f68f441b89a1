// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiberchan

import (
	"container/list"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

// deliveryState records how a parked waiter's blocking call resolved.
type deliveryState int32

const (
	deliveryNone deliveryState = iota
	deliveryDelivered
	deliveryClosed
)

// senderWaiter is a blocked sender's stack-local record: fiber identity,
// the value being sent, and (when part of a select) the shared
// activation token. state is written by whichever party restores fiber,
// before it does so.
type senderWaiter[T any] struct {
	fiber FiberID
	value T
	state deliveryState
	sel   *SelectContext
}

// receiverWaiter is a blocked receiver's stack-local record, symmetric to
// senderWaiter. value and state are write-once: set by the counterparty
// under the channel lock, read by the waiter after it wakes.
type receiverWaiter[T any] struct {
	fiber FiberID
	value T
	state deliveryState
	sel   *SelectContext
}

// selectState values for SelectContext.state.
const (
	selectActive uint32 = iota
	selectDone
)

// SelectContext is the per-select-invocation activation token shared by
// every action armed in one Select call. At most one channel's dequeue
// (or Close) may transition state from Active to Done; only the winner
// performs the transfer and restores fiber.
type SelectContext struct {
	state     *atomix.Uint32
	fiber     FiberID
	activated bool
}

// tryTrigger attempts to claim this select's single activation. Returns
// true at most once across every waiter sharing this context; callers
// that get false have lost the race and are stale entries left for the
// coordinator's unwait sweep.
func (c *SelectContext) tryTrigger() bool {
	if c.state.CompareAndSwap(selectActive, selectDone) {
		c.activated = true
		return true
	}
	return false
}

// Channel is a typed, fixed-capacity communication channel between
// fibers. Construct with New; the zero value is not usable.
type Channel[T any] struct {
	serial   Serial
	lock     Locker
	tracer   Tracer
	capacity int

	closed bool
	buf    *lfq.SPSC[T]
	size   int

	senders   list.List
	receivers list.List
}

// New creates a channel of the given capacity. Capacity 0 is
// rendezvous-only; capacity >0 is bounded and backed by a lock-free SPSC
// ring buffer, safe here because every buffer access is already
// serialized by the channel's own lock.
func New[T any](capacity int, opts ...Option) *Channel[T] {
	if capacity < 0 {
		panic("fiberchan: capacity must be non-negative")
	}
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	c := &Channel[T]{
		serial:   nextSerial(),
		lock:     cfg.locker,
		tracer:   cfg.tracer,
		capacity: capacity,
	}
	if capacity > 0 {
		c.buf = &lfq.SPSC[T]{}
		c.buf.Init(capacity)
	}
	return c
}

// Serial returns the monotonic identifier assigned to this channel at
// construction, useful for tracing which channel a select woke on.
func (c *Channel[T]) Serial() Serial { return c.serial }

// Cap returns the channel's capacity.
func (c *Channel[T]) Cap() int { return c.capacity }

// Len returns the number of values currently buffered. Always 0 for
// rendezvous-only (capacity 0) channels.
func (c *Channel[T]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.size
}

// dequeueReceiver pops the first eligible receiver waiter from the head
// of the queue, skipping (without removing) any select-associated waiter
// that has already lost its activation race — those are stale entries
// scrubbed later by the winning select's unwait sweep.
func (c *Channel[T]) dequeueReceiver() *receiverWaiter[T] {
	for e := c.receivers.Front(); e != nil; e = e.Next() {
		w := e.Value.(*receiverWaiter[T])
		if w.sel != nil && !w.sel.tryTrigger() {
			continue
		}
		c.receivers.Remove(e)
		return w
	}
	return nil
}

// dequeueSender is dequeueReceiver's counterpart for the sender queue.
func (c *Channel[T]) dequeueSender() *senderWaiter[T] {
	for e := c.senders.Front(); e != nil; e = e.Next() {
		w := e.Value.(*senderWaiter[T])
		if w.sel != nil && !w.sel.tryTrigger() {
			continue
		}
		c.senders.Remove(e)
		return w
	}
	return nil
}

// sendInternal attempts the non-blocking send fast path: direct
// rendezvous with a waiting receiver, or a buffer slot. Assumes the
// channel lock is already held. Returns true if v was handed off.
func (c *Channel[T]) sendInternal(v T) bool {
	if rw := c.dequeueReceiver(); rw != nil {
		rw.value = v
		rw.state = deliveryDelivered
		rw.fiber.restore()
		return true
	}
	if c.capacity > 0 && c.size < c.capacity {
		if err := c.buf.Enqueue(&v); err != nil {
			return false
		}
		c.size++
		return true
	}
	return false
}

// receiveInternal attempts the non-blocking receive fast path: a
// buffered value (unblocking one waiting sender into the freed slot), or
// direct rendezvous with a waiting sender. Assumes the channel lock is
// already held. Returns (zero, false) if nothing is available yet.
func (c *Channel[T]) receiveInternal() (T, bool) {
	if c.capacity > 0 && c.size > 0 {
		v, err := c.buf.Dequeue()
		if err != nil {
			protocolBug("buffered dequeue failed with non-empty size")
		}
		c.size--
		if sw := c.dequeueSender(); sw != nil {
			if err := c.buf.Enqueue(&sw.value); err != nil {
				protocolBug("buffered enqueue failed with room available")
			}
			c.size++
			sw.state = deliveryDelivered
			sw.fiber.restore()
		}
		return v, true
	}
	if sw := c.dequeueSender(); sw != nil {
		sw.state = deliveryDelivered
		sw.fiber.restore()
		return sw.value, true
	}
	var zero T
	return zero, false
}

// Send transfers v to a receiver, buffering it if capacity allows,
// blocking until a receiver or Close makes progress otherwise. Returns
// ErrClosed if the channel is or becomes closed before the value is
// handed off.
func (c *Channel[T]) Send(v T) error {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return ErrClosed
	}
	if c.sendInternal(v) {
		c.lock.Unlock()
		c.tracer.Debugf("fiberchan[%d]: send completed without blocking", c.serial)
		return nil
	}
	w := &senderWaiter[T]{fiber: newFiberHandle(), value: v}
	c.senders.PushBack(w)
	c.tracer.Debugf("fiberchan[%d]: send parking", c.serial)
	unsync(c.lock, w.fiber.reschedule)
	c.lock.Unlock()
	switch w.state {
	case deliveryDelivered:
		return nil
	case deliveryClosed:
		return ErrClosed
	default:
		protocolBug("sender woke with delivery state none")
		panic("unreachable")
	}
}

// Receive blocks until a value is available or the channel is closed.
func (c *Channel[T]) Receive() (T, error) {
	c.lock.Lock()
	if v, ok := c.receiveInternal(); ok {
		c.lock.Unlock()
		return v, nil
	}
	if c.closed {
		c.lock.Unlock()
		var zero T
		return zero, ErrClosed
	}
	w := &receiverWaiter[T]{fiber: newFiberHandle()}
	c.receivers.PushBack(w)
	c.tracer.Debugf("fiberchan[%d]: receive parking", c.serial)
	unsync(c.lock, w.fiber.reschedule)
	c.lock.Unlock()
	switch w.state {
	case deliveryDelivered:
		return w.value, nil
	case deliveryClosed:
		var zero T
		return zero, ErrClosed
	default:
		protocolBug("receiver woke with delivery state none")
		panic("unreachable")
	}
}

// ReceiveOptional attempts the non-blocking receive fast path only. ok is
// false both when the channel would block and when it is closed and
// empty; callers that must distinguish the two should use Receive.
func (c *Channel[T]) ReceiveOptional() (T, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.receiveInternal()
}

// Close marks the channel closed. Idempotent: closing an already-closed
// channel is a no-op. Every queued sender is woken with ErrClosed;
// every queued receiver is woken with ErrClosed. Select-associated
// waiters only wake here if Close wins their activation race — a select
// armed on this channel among others may instead be won by a real
// send/receive on a different channel.
func (c *Channel[T]) Close() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for e := c.senders.Front(); e != nil; {
		next := e.Next()
		w := e.Value.(*senderWaiter[T])
		c.senders.Remove(e)
		if w.sel == nil || w.sel.tryTrigger() {
			w.state = deliveryClosed
			w.fiber.restore()
		}
		e = next
	}
	for e := c.receivers.Front(); e != nil; {
		next := e.Next()
		w := e.Value.(*receiverWaiter[T])
		c.receivers.Remove(e)
		if w.sel == nil || w.sel.tryTrigger() {
			w.state = deliveryClosed
			w.fiber.restore()
		}
		e = next
	}
	c.tracer.Debugf("fiberchan[%d]: closed", c.serial)
}

// Closed reports whether the channel has been closed.
func (c *Channel[T]) Closed() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.closed
}
