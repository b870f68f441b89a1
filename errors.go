// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiberchan

import "errors"

// ErrClosed is returned by Send always, and by Receive when no value is
// ever coming, once a channel has been closed. Not retriable: a closed
// channel stays closed.
var ErrClosed = errors.New("fiberchan: channel closed")

// protocolBug panics with a consistent prefix for internal invariant
// violations that should never occur in a correct implementation (e.g. a
// parked receiver woken with a delivery state of none). These are fatal,
// not retriable errors, matching the teacher's panic-on-unhandled-effect
// convention.
func protocolBug(msg string) {
	panic("fiberchan: protocol bug: " + msg)
}
