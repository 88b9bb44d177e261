package evoke

// Invoker is the optional capability a subscriber's target implements when
// invoking it requires marshaling onto an owning goroutine. Absence of the
// capability means the handler may run on any goroutine.
//
// The loop subpackage provides the reference implementation. Any type with
// these methods participates; widget wrappers typically embed or delegate to
// their owning loop.
type Invoker interface {
	// InvokeRequired reports whether the calling goroutine is not the one
	// owning this target, so that invocation must be marshaled.
	InvokeRequired() bool

	// BeginInvoke schedules fn to run on the owning goroutine and returns a
	// handle for the pending invocation.
	BeginInvoke(fn func() error) (Pending, error)

	// EndInvoke blocks until the pending invocation completes and returns
	// the failure surfaced by it, if any: the fn's own error, a recovered
	// panic as *PanicError, or a teardown sentinel (ErrDisposed,
	// ErrPendingCleared).
	EndInvoke(p Pending) error
}

// Pending represents a scheduled invocation that has not yet completed.
type Pending interface {
	// Done is closed when the invocation has completed or been abandoned.
	Done() <-chan struct{}
}

// Lifetime is the optional capability a target implements to expose its
// teardown state. The raiser queries it before scheduling: a target that is
// disposed, or whose owning context has no live handle yet, is skipped
// rather than invoked.
type Lifetime interface {
	// Disposed reports whether the target has been permanently torn down.
	Disposed() bool

	// Live reports whether the owning context is running and accepting
	// work.
	Live() bool
}

// tornDown reports whether a target exposing Lifetime is outside its usable
// window. Targets without the capability are never considered torn down.
func tornDown(target any) bool {
	lt, ok := target.(Lifetime)
	if !ok {
		return false
	}
	return lt.Disposed() || !lt.Live()
}
