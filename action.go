// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiberchan

import (
	"container/list"
	"unsafe"
)

// Action is a single select branch: either a pending receive or a
// pending send on some channel. ReceiveAction and SendAction are the
// only two variants.
type Action interface {
	// execute attempts the non-blocking fast path. Assumes the
	// underlying channel's lock is held. Returns true if the action
	// completed (including completing with ErrClosed).
	execute() bool
	// wait arms the channel with a waiter bound to ctx. Assumes the
	// underlying channel's lock is held.
	wait(ctx *SelectContext)
	// unwait removes this action's waiter from its channel and, if the
	// waiter was resolved while parked, records the outcome. Assumes the
	// underlying channel's lock is held.
	unwait()
	// activated reports whether this action's SelectContext won the
	// at-most-one activation race.
	activated() bool
	// result is the value to return if this action wins.
	result() any
	// lockObjectID is a stable, total-orderable identity for the
	// underlying channel, used by Select to establish a global lock
	// order across overlapping selects.
	lockObjectID() uintptr
	lock()
	unlock()
}

// ReceiveAction is the select branch built by Recv(ch).
type ReceiveAction[T any] struct {
	ch    *Channel[T]
	value T
	err   error

	ctx    *SelectContext
	waiter *receiverWaiter[T]
	el     *list.Element
}

// Recv constructs a select branch that receives from ch.
func Recv[T any](ch *Channel[T]) *ReceiveAction[T] {
	return &ReceiveAction[T]{ch: ch}
}

// Value returns the value this action received, valid only after it has
// won a Select.
func (a *ReceiveAction[T]) Value() T { return a.value }

// Err returns ErrClosed if this action resolved against a closed
// channel, nil otherwise.
func (a *ReceiveAction[T]) Err() error { return a.err }

func (a *ReceiveAction[T]) execute() bool {
	if v, ok := a.ch.receiveInternal(); ok {
		a.value = v
		return true
	}
	if a.ch.closed {
		a.err = ErrClosed
		return true
	}
	return false
}

func (a *ReceiveAction[T]) wait(ctx *SelectContext) {
	a.ctx = ctx
	a.waiter = &receiverWaiter[T]{fiber: ctx.fiber, sel: ctx}
	a.el = a.ch.receivers.PushBack(a.waiter)
}

func (a *ReceiveAction[T]) unwait() {
	if a.el != nil {
		a.ch.receivers.Remove(a.el)
	}
	if a.waiter == nil {
		return
	}
	switch a.waiter.state {
	case deliveryDelivered:
		a.value = a.waiter.value
	case deliveryClosed:
		a.err = ErrClosed
	}
}

func (a *ReceiveAction[T]) activated() bool { return a.ctx != nil && a.ctx.activated }
func (a *ReceiveAction[T]) result() any     { return a.value }
func (a *ReceiveAction[T]) lockObjectID() uintptr {
	return uintptr(unsafe.Pointer(a.ch))
}
func (a *ReceiveAction[T]) lock()   { a.ch.lock.Lock() }
func (a *ReceiveAction[T]) unlock() { a.ch.lock.Unlock() }

// SendAction is the select branch built by Send(ch, v).
type SendAction[T any] struct {
	ch    *Channel[T]
	value T
	err   error

	ctx    *SelectContext
	waiter *senderWaiter[T]
	el     *list.Element
}

// Send constructs a select branch that sends v to ch.
func Send[T any](ch *Channel[T], v T) *SendAction[T] {
	return &SendAction[T]{ch: ch, value: v}
}

// Err returns ErrClosed if this action resolved against a closed
// channel without delivering its value, nil otherwise.
func (a *SendAction[T]) Err() error { return a.err }

func (a *SendAction[T]) execute() bool {
	if a.ch.closed {
		a.err = ErrClosed
		return true
	}
	return a.ch.sendInternal(a.value)
}

func (a *SendAction[T]) wait(ctx *SelectContext) {
	a.ctx = ctx
	a.waiter = &senderWaiter[T]{fiber: ctx.fiber, value: a.value, sel: ctx}
	a.el = a.ch.senders.PushBack(a.waiter)
}

func (a *SendAction[T]) unwait() {
	if a.el != nil {
		a.ch.senders.Remove(a.el)
	}
	if a.waiter != nil && a.waiter.state == deliveryClosed {
		a.err = ErrClosed
	}
}

func (a *SendAction[T]) activated() bool { return a.ctx != nil && a.ctx.activated }
func (a *SendAction[T]) result() any     { return struct{}{} }
func (a *SendAction[T]) lockObjectID() uintptr {
	return uintptr(unsafe.Pointer(a.ch))
}
func (a *SendAction[T]) lock()   { a.ch.lock.Lock() }
func (a *SendAction[T]) unlock() { a.ch.lock.Unlock() }
