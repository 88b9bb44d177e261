package evoke

import (
	"errors"
	"runtime/debug"

	"go.uber.org/multierr"
)

// Raise synchronously notifies every subscriber with the same (sender, args)
// pair, in registration order. It does not return until every subscriber
// able to run has finished.
//
// Subscribers whose target requires marshaling run on the target's owning
// goroutine while the caller blocks; subscribers whose target is torn down
// are skipped silently, as are those whose target is disposed - or whose
// pending-invocation bookkeeping is cleared - while the raiser waits.
//
// A failure from a directly invoked subscriber is recorded and iteration
// continues; each record is an independent invocation. Any other failure
// surfaced while waiting on a marshaled invocation aborts the remaining
// iteration. Recorded failures are combined and returned, each wrapped in a
// *SubscriberError.
//
// Raising a nil event or an event with no subscribers is a no-op.
func (e *Event[T]) Raise(sender any, args T) error {
	if e == nil {
		return nil
	}
	subs := e.snapshot()
	if len(subs) == 0 {
		return nil
	}

	var errs error
	for _, sub := range subs {
		if sub.cancelled.Load() {
			continue
		}

		inv, ok := sub.target.(Invoker)
		if !ok || !inv.InvokeRequired() {
			// Direct path: the caller's goroutine already satisfies the
			// target's affinity, or the target has none.
			if err := e.invokeDirect(sub, sender, args); err != nil {
				errs = multierr.Append(errs, &SubscriberError{
					Event:      e.name,
					Subscriber: sub.id,
					Err:        err,
				})
				continue
			}
			e.settle(sub)
			continue
		}

		// Invoking against a torn-down context is undefined; skip rather
		// than attempt.
		if tornDown(sub.target) {
			continue
		}

		err := e.invokeMarshaled(inv, sub, sender, args)
		switch {
		case err == nil:
			e.settle(sub)
		case errors.Is(err, ErrDisposed), errors.Is(err, ErrPendingCleared):
			// Benign teardown race: the target went away, or its pending
			// bookkeeping was cleared by a concurrent teardown or handle
			// recreation, after the affinity check. The subscriber is
			// skipped; the raise is not a failure.
			continue
		default:
			return multierr.Append(errs, &SubscriberError{
				Event:      e.name,
				Subscriber: sub.id,
				Err:        err,
			})
		}
	}
	return errs
}

// invokeDirect runs the handler on the calling goroutine with panic
// recovery.
func (e *Event[T]) invokeDirect(sub *subscriber[T], sender any, args T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			err = &PanicError{Value: r, Stack: stack}
			e.reportPanic(r, stack)
		}
	}()
	return sub.handler(sender, args)
}

// invokeMarshaled schedules the handler on the target's owning goroutine
// and blocks until the scheduled invocation completes. Scheduling then
// waiting, rather than a combined blocking call, attributes a handler
// failure to the handler's own execution rather than the raiser's.
func (e *Event[T]) invokeMarshaled(inv Invoker, sub *subscriber[T], sender any, args T) error {
	pending, err := inv.BeginInvoke(func() error {
		return sub.handler(sender, args)
	})
	if err != nil {
		return err
	}
	return inv.EndInvoke(pending)
}

// settle applies post-invocation bookkeeping after a successful delivery.
func (e *Event[T]) settle(sub *subscriber[T]) {
	if sub.once {
		sub.Cancel()
	}
}
