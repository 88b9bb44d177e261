package evoke

import "errors"

// Sentinel errors shared by the raiser and Invoker implementations.
var (
	// ErrDisposed is surfaced when an invocation target has been permanently
	// torn down. The raiser absorbs it as a benign teardown race.
	ErrDisposed = errors.New("invocation target is disposed")

	// ErrPendingCleared is surfaced when a target's pending-invocation
	// bookkeeping is invalidated by a concurrent teardown or handle
	// recreation. The raiser absorbs it as a benign teardown race.
	ErrPendingCleared = errors.New("pending invocations cleared")

	// ErrQueueFull is returned when a target's invocation queue cannot
	// accept more work.
	ErrQueueFull = errors.New("invocation queue is full")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrForeignPending is returned by EndInvoke when the pending handle was
	// not produced by this invoker.
	ErrForeignPending = errors.New("pending handle does not belong to this invoker")

	// ErrPanicked is matched by errors.Is for any *PanicError.
	ErrPanicked = errors.New("subscriber panicked")
)

// SubscriberError wraps a failure originating from a single subscriber with
// the event name and subscriber ID it came from.
type SubscriberError struct {
	// Event is the name of the event being raised.
	Event string

	// Subscriber is the ID of the subscription whose handler failed.
	Subscriber string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *SubscriberError) Error() string {
	return "subscriber " + e.Subscriber + " on event " + e.Event + ": " + e.Err.Error()
}

// Unwrap returns the underlying failure.
func (e *SubscriberError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking subscriber.
type PanicError struct {
	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace captured at recovery time.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return "subscriber panicked"
}

// Is allows errors.Is to match PanicError with ErrPanicked.
func (e *PanicError) Is(target error) bool {
	return target == ErrPanicked
}
