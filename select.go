// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiberchan

import (
	"sort"

	"code.hybscloud.com/atomix"
)

// Select atomically chooses the first ready action among actions, in
// input order. If none is ready and hasElse is true, it returns
// (len(actions), nil) for the else branch without blocking. Otherwise it
// arms every action and parks until exactly one fires, then returns its
// index and result.
//
// Select acquires every distinct underlying channel's lock in address
// order before inspecting any of them, so two concurrent Select calls
// whose channel sets overlap can never deadlock against each other.
func Select(actions []Action, hasElse bool) (int, any) {
	if len(actions) == 0 {
		panic("fiberchan: Select requires at least one action")
	}
	ordered := lockOrder(actions)
	lockAll(ordered)

	for i, a := range actions {
		if a.execute() {
			unlockAll(ordered)
			return i, a.result()
		}
	}

	if hasElse {
		unlockAll(ordered)
		return len(actions), nil
	}

	state := new(atomix.Uint32)
	fiber := newFiberHandle()
	for _, a := range actions {
		a.wait(&SelectContext{state: state, fiber: fiber})
	}
	unlockAll(ordered)

	fiber.reschedule()

	lockAll(ordered)
	for _, a := range actions {
		a.unwait()
	}
	unlockAll(ordered)

	for i, a := range actions {
		if a.activated() {
			return i, a.result()
		}
	}
	protocolBug("select woke with no action activated")
	panic("unreachable")
}

// ReceiveFirst returns the first value received across channels, or
// ErrClosed if the winning channel was closed.
func ReceiveFirst[T any](channels ...*Channel[T]) (T, error) {
	if len(channels) == 0 {
		panic("fiberchan: ReceiveFirst requires at least one channel")
	}
	actions := make([]Action, len(channels))
	receives := make([]*ReceiveAction[T], len(channels))
	for i, ch := range channels {
		receives[i] = Recv(ch)
		actions[i] = receives[i]
	}
	idx, _ := Select(actions, false)
	winner := receives[idx]
	return winner.Value(), winner.Err()
}

// SendFirst sends v to whichever channel accepts it first, returning
// ErrClosed if the winning channel was closed.
func SendFirst[T any](v T, channels ...*Channel[T]) error {
	if len(channels) == 0 {
		panic("fiberchan: SendFirst requires at least one channel")
	}
	actions := make([]Action, len(channels))
	sends := make([]*SendAction[T], len(channels))
	for i, ch := range channels {
		sends[i] = Send(ch, v)
		actions[i] = sends[i]
	}
	idx, _ := Select(actions, false)
	return sends[idx].Err()
}

// lockOrder deduplicates actions by their underlying channel's identity
// and sorts the survivors ascending, establishing the global lock order
// step 1 of the select algorithm requires.
func lockOrder(actions []Action) []Action {
	seen := make(map[uintptr]bool, len(actions))
	ordered := make([]Action, 0, len(actions))
	for _, a := range actions {
		id := a.lockObjectID()
		if seen[id] {
			continue
		}
		seen[id] = true
		ordered = append(ordered, a)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].lockObjectID() < ordered[j].lockObjectID()
	})
	return ordered
}

func lockAll(ordered []Action) {
	for _, a := range ordered {
		a.lock()
	}
}

func unlockAll(ordered []Action) {
	for _, a := range ordered {
		a.unlock()
	}
}
