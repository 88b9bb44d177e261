// Package evoke provides multicast events whose subscribers may be bound to
// an owning execution context - a single-goroutine message loop such as a
// terminal UI loop - and raises them safely from any goroutine.
//
// GUI and TUI programs forbid touching loop-owned state from outside the
// owning goroutine. Business logic that raises events often runs on worker
// goroutines while subscribers update loop-owned state. Raise is the single
// chokepoint that makes "raise event" safe regardless of which goroutine
// either side runs on: each subscriber executes on the goroutine that owns
// its target, and the raising goroutine blocks until the subscriber has
// finished.
//
// # Events and Subscribers
//
// An Event is a named notification point holding an ordered list of
// subscriber records. Subscribers are invoked in registration order, each at
// most once per raise, all with the same (sender, args) pair:
//
//	var saved = evoke.New[FileSaved](evoke.WithName("file.saved"))
//
//	sub, err := saved.Subscribe(func(sender any, args FileSaved) error {
//	    fmt.Println("saved", args.Path)
//	    return nil
//	})
//
//	err = saved.Raise(editor, FileSaved{Path: "main.go"})
//
// Payload types implement the Args marker interface. NoArgs is provided for
// events that carry no payload.
//
// # Owning Contexts
//
// A subscriber registered with WithTarget associates the handler with a
// target object. If the target implements Invoker and reports that the
// caller is not on its owning goroutine, the handler is scheduled onto that
// goroutine with BeginInvoke and the raiser blocks in EndInvoke until it has
// run. The loop subpackage provides the reference Invoker: a FIFO message
// loop in the shape of a UI thread's message pump.
//
//	ui := loop.New(loop.WithName("ui"))
//	go ui.Run()
//
//	saved.Subscribe(drawStatusLine, evoke.WithTarget(ui))
//
//	// From any worker goroutine; blocks until drawStatusLine has run on ui.
//	saved.Raise(editor, FileSaved{Path: "main.go"})
//
// # Teardown Races
//
// Targets being torn down while events are in flight are a normal condition,
// not a failure. A subscriber whose target is already disposed, or whose
// owning loop is not running yet, is skipped silently. Two races during the
// blocking wait are absorbed per subscriber and the raise proceeds to the
// next record:
//
//   - the target is disposed between scheduling and completion (ErrDisposed)
//   - the target's pending-invocation bookkeeping is cleared by a concurrent
//     teardown or handle recreation (ErrPendingCleared)
//
// Any other failure surfaced while waiting aborts the remaining iteration
// and is returned to the caller.
//
// # Failures
//
// Handler errors and recovered handler panics from the direct (same
// goroutine) path are collected per subscriber; later subscribers are still
// attempted and the combined error is returned. Panics never escape a raise:
// they are converted to *PanicError and reported to the event's panic
// handler.
//
// # Concurrency
//
// Event is safe for concurrent use; subscribers may be added and cancelled
// while raises are in flight. Raise is intentionally synchronous: no
// cancellation or timeout is supported, and a hung subscriber hangs the
// raise indefinitely. The raiser owns no shared state of its own - it only
// arranges for subscriber code to run on the correct goroutine.
package evoke
