package loop

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/evoke"
)

type ping struct {
	seq int
}

func (ping) EventArgs() {}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// blockPump posts work that occupies the pump until gate is closed, and
// returns once it is executing.
func blockPump(t *testing.T, l *Loop, gate chan struct{}) *Invocation {
	t.Helper()
	started := make(chan struct{})
	inv, err := l.Post(func() error {
		close(started)
		<-gate
		return nil
	})
	if err != nil {
		t.Fatalf("Post() failed: %v", err)
	}
	<-started
	return inv
}

func TestLoop_RecreateClearsQueued(t *testing.T) {
	l := New()
	l.Start()
	defer l.Dispose()

	gate := make(chan struct{})
	blockPump(t, l, gate)

	queued, err := l.Post(func() error { return nil })
	if err != nil {
		t.Fatalf("Post() failed: %v", err)
	}

	l.Recreate()

	if err := queued.Wait(); err != evoke.ErrPendingCleared {
		t.Errorf("queued Wait() = %v, want ErrPendingCleared", err)
	}
	if !l.Live() {
		t.Error("expected loop to still be live after Recreate()")
	}

	close(gate)

	// The replacement queue serves new work.
	if err := l.Send(func() error { return nil }); err != nil {
		t.Errorf("Send() after Recreate() failed: %v", err)
	}
}

func TestLoop_RecreateWhenNotRunning(t *testing.T) {
	l := New()
	l.Recreate()

	inv, err := l.Post(func() error { return nil })
	if err != nil {
		t.Fatalf("Post() after idle Recreate() failed: %v", err)
	}
	l.Start()
	defer l.Dispose()
	if err := inv.Wait(); err != nil {
		t.Errorf("Wait() = %v, want nil", err)
	}
}

// Regression for the resize race: the owning loop's pending bookkeeping is
// cleared by a handle recreation while a raise is blocked on a scheduled
// subscriber. The cleared subscriber is swallowed and the raise proceeds to
// the remaining records.
func TestRaise_RecreateDuringWait(t *testing.T) {
	l := New()
	l.Start()
	defer l.Dispose()

	gate := make(chan struct{})
	blockPump(t, l, gate)

	evt := evoke.New[ping](evoke.WithName("test.resize"))

	var bRan, cRan atomic.Bool
	evt.Subscribe(func(any, ping) error {
		bRan.Store(true)
		return nil
	}, evoke.WithTarget(l))
	evt.Subscribe(func(any, ping) error {
		cRan.Store(true)
		return nil
	})

	raised := make(chan error, 1)
	go func() {
		raised <- evt.Raise(nil, ping{seq: 1})
	}()

	// The raise is now blocked waiting on the scheduled subscriber.
	waitFor(t, func() bool { return l.Pending() == 1 }, "subscriber to be queued")

	l.Recreate()
	close(gate)

	select {
	case err := <-raised:
		if err != nil {
			t.Fatalf("Raise() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Raise() did not return after Recreate()")
	}

	if bRan.Load() {
		t.Error("cleared subscriber ran anyway")
	}
	if !cRan.Load() {
		t.Error("subscriber after the cleared one was not attempted")
	}
}

// Disposal strictly between scheduling and completion: the raise proceeds
// to remaining subscribers rather than failing.
func TestRaise_DisposeDuringWait(t *testing.T) {
	l := New()
	l.Start()

	gate := make(chan struct{})
	blockPump(t, l, gate)
	defer close(gate)

	evt := evoke.New[ping]()

	var bRan, cRan atomic.Bool
	evt.Subscribe(func(any, ping) error {
		bRan.Store(true)
		return nil
	}, evoke.WithTarget(l))
	evt.Subscribe(func(any, ping) error {
		cRan.Store(true)
		return nil
	})

	raised := make(chan error, 1)
	go func() {
		raised <- evt.Raise(nil, ping{seq: 2})
	}()

	waitFor(t, func() bool { return l.Pending() == 1 }, "subscriber to be queued")

	l.Dispose()

	select {
	case err := <-raised:
		if err != nil {
			t.Fatalf("Raise() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Raise() did not return after Dispose()")
	}

	if bRan.Load() {
		t.Error("abandoned subscriber ran anyway")
	}
	if !cRan.Load() {
		t.Error("subscriber after the abandoned one was not attempted")
	}
}

// A raise against a loop that is live on another goroutine blocks until the
// subscriber has executed there.
func TestRaise_BlocksUntilRunOnLoop(t *testing.T) {
	l := New(WithName("ui"))
	l.Start()
	defer l.Dispose()

	evt := evoke.New[ping]()

	var onPump atomic.Bool
	evt.Subscribe(func(any, ping) error {
		onPump.Store(!l.InvokeRequired())
		return nil
	}, evoke.WithTarget(l))

	if err := evt.Raise(nil, ping{seq: 3}); err != nil {
		t.Fatalf("Raise() failed: %v", err)
	}
	if !onPump.Load() {
		t.Error("subscriber did not run on the pump goroutine")
	}
}
