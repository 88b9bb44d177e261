package loop

// Invocation is the pending handle for one unit of posted work. It
// implements evoke.Pending.
type Invocation struct {
	fn   func() error
	err  error
	done chan struct{}
}

func newInvocation(fn func() error) *Invocation {
	return &Invocation{
		fn:   fn,
		done: make(chan struct{}),
	}
}

// Done is closed when the invocation has completed or been abandoned.
func (v *Invocation) Done() <-chan struct{} {
	return v.done
}

// Err returns the invocation's outcome. It is only meaningful after Done is
// closed: the work's own error, a recovered panic as *evoke.PanicError, or
// a teardown sentinel if the invocation was abandoned.
func (v *Invocation) Err() error {
	select {
	case <-v.done:
		return v.err
	default:
		return nil
	}
}

// Wait blocks until the invocation completes and returns its outcome.
func (v *Invocation) Wait() error {
	<-v.done
	return v.err
}

// finish records the outcome and releases waiters. Called exactly once, by
// the pump, Dispose, or Recreate - whichever claims the invocation.
func (v *Invocation) finish(err error) {
	v.err = err
	close(v.done)
}
