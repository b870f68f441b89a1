// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiberchan

// config holds the options New applies before constructing a Channel,
// following leo9827-own-x-go/gopool/config.go's small-struct-plus-
// constructor shape, extended to the functional-options idiom.
type config struct {
	locker Locker
	tracer Tracer
}

func newConfig() *config {
	return &config{
		locker: newSpinLocker(),
		tracer: noopTracer{},
	}
}

// Option configures a Channel at construction time.
type Option func(*config)

// WithLocker overrides the channel's Locker. The default is a spin-lock;
// pass NoopLocker{} for single-fiber use.
func WithLocker(l Locker) Option {
	return func(c *config) { c.locker = l }
}

// WithTracer installs a diagnostics Tracer for channel lifecycle events.
// The default is a no-op.
func WithTracer(t Tracer) Option {
	return func(c *config) { c.tracer = t }
}
