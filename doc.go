// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fiberchan provides a typed communication channel for cooperative
// lightweight tasks ("fibers"): single-value transfer via [Channel.Send]
// and [Channel.Receive], and multi-way wait across a heterogeneous set of
// pending send/receive operations via [Select].
//
// # Architecture
//
//   - Lock adapter: [Locker] abstracts the per-channel mutex. The default
//     is a spin-lock ([code.hybscloud.com/spin]) backed off with
//     [code.hybscloud.com/iox.Backoff] on contention; [NoopLocker] is
//     available for single-fiber use.
//   - Fiber handle: a fiber identity is created per blocking call and
//     parked with a real channel receive; [Channel.Close] and the
//     rendezvous partner restore it by closing its wake channel.
//   - Channel core: [New] creates a [Channel] of fixed element type and
//     capacity. Capacity 0 is rendezvous-only; capacity >0 is bounded and
//     backed by [code.hybscloud.com/lfq.SPSC].
//   - Select: [ReceiveAction] and [SendAction] are the two [Action]
//     variants. [Select] atomically arms a set of actions across channels
//     and commits to exactly one.
//
// # API
//
//   - Direct: [Channel.Send], [Channel.Receive], [Channel.ReceiveOptional],
//     [Channel.Close], [Channel.Closed].
//   - Multi-way: [Select], [ReceiveFirst], [SendFirst].
//
// # Example
//
//	ch := fiberchan.New[int](0)
//	go func() { _ = ch.Send(42) }()
//	v, err := ch.Receive()
package fiberchan
