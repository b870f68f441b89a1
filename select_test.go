// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiberchan_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/fiberchan"
)

func TestSelectReadyReceiveWinsImmediately(t *testing.T) {
	a := fiberchan.New[int](1)
	b := fiberchan.New[int](1)
	_ = b.Send(5)

	recvA := fiberchan.Recv(a)
	recvB := fiberchan.Recv(b)
	idx, _ := fiberchan.Select([]fiberchan.Action{recvA, recvB}, false)
	if idx != 1 {
		t.Fatalf("Select returned index %d, want 1", idx)
	}
	if recvB.Value() != 5 {
		t.Fatalf("recvB.Value() = %d, want 5", recvB.Value())
	}
}

func TestSelectElseBranchWhenNothingReady(t *testing.T) {
	a := fiberchan.New[int](1)
	idx, result := fiberchan.Select([]fiberchan.Action{fiberchan.Recv(a)}, true)
	if idx != 1 {
		t.Fatalf("Select returned index %d, want 1 (else branch)", idx)
	}
	if result != nil {
		t.Fatalf("else branch result = %v, want nil", result)
	}
}

func TestSelectParksThenWinsOnConcurrentSend(t *testing.T) {
	a := fiberchan.New[int](0)
	b := fiberchan.New[int](0)

	go func() {
		time.Sleep(5 * time.Millisecond)
		_ = b.Send(9)
	}()

	recvA := fiberchan.Recv(a)
	recvB := fiberchan.Recv(b)
	idx, _ := fiberchan.Select([]fiberchan.Action{recvA, recvB}, false)
	if idx != 1 {
		t.Fatalf("Select returned index %d, want 1", idx)
	}
	if recvB.Value() != 9 {
		t.Fatalf("recvB.Value() = %d, want 9", recvB.Value())
	}
}

func TestSelectResolvesToClosedChannel(t *testing.T) {
	a := fiberchan.New[int](0)
	a.Close()

	recvA := fiberchan.Recv(a)
	idx, _ := fiberchan.Select([]fiberchan.Action{recvA}, false)
	if idx != 0 {
		t.Fatalf("Select returned index %d, want 0", idx)
	}
	if !errors.Is(recvA.Err(), fiberchan.ErrClosed) {
		t.Fatalf("recvA.Err() = %v, want ErrClosed", recvA.Err())
	}
}

func TestSelectMixedSendAndReceiveActions(t *testing.T) {
	out := fiberchan.New[int](1)
	in := fiberchan.New[int](1)
	_ = in.Send(1)

	sendOut := fiberchan.Send(out, 42)
	recvIn := fiberchan.Recv(in)
	idx, _ := fiberchan.Select([]fiberchan.Action{sendOut, recvIn}, false)
	switch idx {
	case 0:
		if got, _ := out.ReceiveOptional(); got != 42 {
			t.Fatalf("sent value = %d, want 42", got)
		}
	case 1:
		if recvIn.Value() != 1 {
			t.Fatalf("received value = %d, want 1", recvIn.Value())
		}
	default:
		t.Fatalf("unexpected winner index %d", idx)
	}
}

// TestOverlappingSelectsExactlyOneWinsPerSend proves that when two
// concurrent Select calls share a channel set and only one value arrives
// per round, exactly one of them wins: no double-delivery, no double-wake.
func TestOverlappingSelectsExactlyOneWinsPerSend(t *testing.T) {
	shared := fiberchan.New[int](0)
	other1 := fiberchan.New[int](0)
	other2 := fiberchan.New[int](0)

	var wg sync.WaitGroup
	wins := make(chan int, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		idx, _ := fiberchan.Select([]fiberchan.Action{
			fiberchan.Recv(shared), fiberchan.Recv(other1),
		}, false)
		if idx == 0 {
			wins <- 1
		}
	}()
	go func() {
		defer wg.Done()
		idx, _ := fiberchan.Select([]fiberchan.Action{
			fiberchan.Recv(shared), fiberchan.Recv(other2),
		}, false)
		if idx == 0 {
			wins <- 1
		}
	}()

	time.Sleep(5 * time.Millisecond)
	if err := shared.Send(1); err != nil {
		t.Fatalf("Send: %v", err)
	}

	// Exactly one select wins on shared; the other is still parked on its
	// "other" branch. Fire both sends concurrently — whichever select
	// scrubbed its arm on that channel leaves the send parked forever,
	// harmless since only wg.Wait below is observed.
	go func() { _ = other1.Send(0) }()
	go func() { _ = other2.Send(0) }()
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	if count != 1 {
		t.Fatalf("shared channel won %d selects, want exactly 1", count)
	}
}

func TestReceiveFirstAcrossChannels(t *testing.T) {
	a := fiberchan.New[int](1)
	b := fiberchan.New[int](1)
	_ = a.Send(11)

	v, err := fiberchan.ReceiveFirst(a, b)
	if err != nil {
		t.Fatalf("ReceiveFirst: %v", err)
	}
	if v != 11 {
		t.Fatalf("ReceiveFirst() = %d, want 11", v)
	}
}

func TestSendFirstAcrossChannels(t *testing.T) {
	a := fiberchan.New[int](0)
	b := fiberchan.New[int](1)

	if err := fiberchan.SendFirst(3, a, b); err != nil {
		t.Fatalf("SendFirst: %v", err)
	}
	v, ok := b.ReceiveOptional()
	if !ok || v != 3 {
		t.Fatalf("b.ReceiveOptional() = (%d, %v), want (3, true)", v, ok)
	}
}

func TestSelectPanicsOnEmptyActionSet(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Select did not panic on an empty action set")
		}
	}()
	fiberchan.Select(nil, false)
}
