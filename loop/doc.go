// Package loop provides a single-goroutine message loop: the reference
// owning execution context for evoke subscribers.
//
// A Loop serializes all work posted to it on one goroutine, the way a UI
// thread's message pump serializes work targeted at the controls it owns.
// Run executes the pump on the calling goroutine; Post schedules work from
// any goroutine and returns a pending handle; Send is post-then-wait.
//
//	ui := loop.New(loop.WithName("ui"))
//	go ui.Run()
//	defer ui.Dispose()
//
//	err := ui.Send(func() error {
//	    screen.Show()
//	    return nil
//	})
//
// Loop implements evoke.Invoker and evoke.Lifetime, so it can be used
// directly as a subscription target:
//
//	event.Subscribe(redraw, evoke.WithTarget(ui))
//
// # Teardown
//
// Dispose permanently tears the loop down: queued invocations fail with
// evoke.ErrDisposed and their waiters unblock. Recreate models native handle
// recreation (a terminal resize, in the demo): invocations queued at that
// moment fail with evoke.ErrPendingCleared while the loop itself keeps
// running with a fresh queue. Both sentinels are absorbed by the evoke
// raiser as benign races.
//
// Ordering is FIFO per loop. There is no timeout or cancellation: work that
// never returns hangs its waiter indefinitely.
package loop
