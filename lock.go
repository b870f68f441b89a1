// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiberchan

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// Locker is the lock adapter the channel core depends on: a non-reentrant
// mutex with Lock/Unlock. [Select] acquires multiple channels' locks
// deadlock-free by ordering them on each channel's address, not on the
// Locker itself.
type Locker interface {
	Lock()
	Unlock()
}

// spinLocker is the default multi-fiber Locker. Contention backs off with
// iox.Backoff rather than hammering the CPU in a tight CAS loop.
type spinLocker struct {
	mu spin.Mutex
}

func newSpinLocker() *spinLocker { return &spinLocker{} }

func (s *spinLocker) Lock() {
	if s.mu.TryLock() {
		return
	}
	var bo iox.Backoff
	for !s.mu.TryLock() {
		bo.Wait()
	}
}

func (s *spinLocker) Unlock() { s.mu.Unlock() }

// NoopLocker is a Locker that performs no synchronization. It reduces the
// channel's lock discipline to a no-op, correct only when every fiber
// touching the channel runs on a single OS thread with no preemption
// between operations (spec.md's "single-threaded build").
type NoopLocker struct{}

func (NoopLocker) Lock()   {}
func (NoopLocker) Unlock() {}

// sync runs fn with l held.
func sync(l Locker, fn func()) {
	l.Lock()
	defer l.Unlock()
	fn()
}

// unsync releases l, runs fn, then reacquires l before returning. Callers
// must already hold l. Send and Receive suspend only through unsync, and
// Select releases every lock before it parks, so no channel lock is ever
// held across a reschedule, per the lock-during-reschedule rule.
func unsync(l Locker, fn func()) {
	l.Unlock()
	fn()
	l.Lock()
}
