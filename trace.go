// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiberchan

import "github.com/sirupsen/logrus"

// Tracer is the diagnostics hook for channel lifecycle events: waiter
// enqueue, rendezvous, and close. It is a minimal subset of
// leo9827-own-x-go/log's Logger interface — just the two levels this
// package's events warrant. Channels built by New use a no-op Tracer
// unless WithTracer installs one, so diagnostics output is opt-in; the
// trace calls themselves are still made on every traced event.
type Tracer interface {
	Debugf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// noopTracer discards every event.
type noopTracer struct{}

func (noopTracer) Debugf(string, ...interface{}) {}
func (noopTracer) Warnf(string, ...interface{})  {}

// LogrusTracer adapts a *logrus.Logger to Tracer, matching
// leo9827-own-x-go/log/logrus.go's choice of backend for the same
// ambient concern.
type LogrusTracer struct {
	Logger *logrus.Logger
}

func (t LogrusTracer) Debugf(format string, v ...interface{}) {
	t.Logger.Debugf(format, v...)
}

func (t LogrusTracer) Warnf(format string, v ...interface{}) {
	t.Logger.Warnf(format, v...)
}
