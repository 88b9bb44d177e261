package loop

import (
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/dshills/evoke"
	"github.com/dshills/evoke/internal/goid"
)

// Sentinel errors for the loop package.
var (
	// ErrAlreadyRunning is returned when Run or Start is called on a
	// running loop.
	ErrAlreadyRunning = errors.New("loop is already running")
)

// PanicHandler is called when posted work panics on the pump goroutine.
type PanicHandler func(recovered any, stack []byte)

// Loop states.
const (
	stateIdle int32 = iota
	stateRunning
	stateDisposed
)

// Loop is a single-goroutine message pump. Work posted from any goroutine
// executes serially, in FIFO order, on the goroutine running the pump.
//
// Loop implements evoke.Invoker and evoke.Lifetime.
type Loop struct {
	name         string
	queueSize    int
	panicHandler PanicHandler

	mu    sync.Mutex
	queue chan *Invocation

	state   atomic.Int32
	spawned atomic.Bool
	gid     atomic.Int64

	wake      chan struct{}
	ready     chan struct{}
	readyOnce sync.Once
	done      chan struct{}
}

// Option configures a Loop.
type Option func(*Loop)

// WithName sets the loop name.
func WithName(name string) Option {
	return func(l *Loop) {
		l.name = name
	}
}

// WithQueueSize sets the invocation queue capacity. Posting to a full queue
// fails with evoke.ErrQueueFull rather than blocking the producer.
func WithQueueSize(size int) Option {
	return func(l *Loop) {
		if size > 0 {
			l.queueSize = size
		}
	}
}

// WithPanicHandler sets the handler called when posted work panics. The
// default is a no-op; the panic still reaches the work's waiter as a
// *evoke.PanicError.
func WithPanicHandler(h PanicHandler) Option {
	return func(l *Loop) {
		l.panicHandler = h
	}
}

// New creates a loop. The pump does not run until Run or Start is called;
// work may already be posted and is held until then.
func New(opts ...Option) *Loop {
	l := &Loop{
		queueSize: 128,
		wake:      make(chan struct{}, 1),
		ready:     make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.queue = make(chan *Invocation, l.queueSize)
	return l
}

// Name returns the loop name.
func (l *Loop) Name() string {
	return l.name
}

// Run executes the pump on the calling goroutine until the loop is
// disposed. It returns nil after a clean teardown, ErrAlreadyRunning if the
// pump is running elsewhere, or evoke.ErrDisposed if the loop was disposed
// before it ever ran.
func (l *Loop) Run() error {
	if !l.state.CompareAndSwap(stateIdle, stateRunning) {
		l.signalReady()
		if l.state.Load() == stateDisposed {
			return evoke.ErrDisposed
		}
		return ErrAlreadyRunning
	}

	l.gid.Store(goid.ID())
	l.signalReady()
	defer func() {
		l.gid.Store(0)
		close(l.done)
	}()

	for {
		l.mu.Lock()
		q := l.queue
		l.mu.Unlock()

		select {
		case inv, ok := <-q:
			if !ok {
				// Queue was recreated out from under the pump; fetch the
				// replacement on the next turn.
				continue
			}
			l.execute(inv)
		case <-l.wake:
			if l.state.Load() == stateDisposed {
				return nil
			}
		}
	}
}

// Start runs the pump on a new goroutine and blocks until it is accepting
// work.
func (l *Loop) Start() error {
	switch l.state.Load() {
	case stateDisposed:
		return evoke.ErrDisposed
	case stateRunning:
		return ErrAlreadyRunning
	}
	if !l.spawned.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	go func() { _ = l.Run() }()
	<-l.ready
	if l.Disposed() {
		return evoke.ErrDisposed
	}
	return nil
}

// Done is closed when the pump goroutine has exited. It never closes for a
// loop that was disposed before running.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Dispose permanently tears the loop down. Queued invocations fail with
// evoke.ErrDisposed and their waiters unblock; work already executing runs
// to completion. Dispose is idempotent and safe to call from any goroutine,
// including the pump's own.
func (l *Loop) Dispose() {
	if l.state.Swap(stateDisposed) == stateDisposed {
		return
	}

	l.mu.Lock()
	l.drain(l.queue, evoke.ErrDisposed)
	l.mu.Unlock()

	l.signalWake()
}

// Recreate tears down and replaces the loop's queue while the pump keeps
// running, the way a native UI handle is destroyed and recreated on resize.
// Invocations queued at that moment fail with evoke.ErrPendingCleared;
// waiters blocked on them unblock and observe the cleared bookkeeping.
func (l *Loop) Recreate() {
	l.mu.Lock()
	if l.state.Load() != stateRunning {
		l.mu.Unlock()
		return
	}
	old := l.queue
	l.queue = make(chan *Invocation, l.queueSize)
	l.drain(old, evoke.ErrPendingCleared)
	close(old)
	l.mu.Unlock()

	l.signalWake()
}

// drain fails every invocation sitting in q. Caller holds mu. An invocation
// the pump claims concurrently is executed there instead; each invocation
// finishes exactly once either way.
func (l *Loop) drain(q chan *Invocation, err error) {
	for {
		select {
		case inv := <-q:
			inv.finish(err)
		default:
			return
		}
	}
}

// Post schedules fn to run on the pump goroutine and returns its pending
// handle. Work may be posted before the pump starts; it is held until Run.
func (l *Loop) Post(fn func() error) (*Invocation, error) {
	if fn == nil {
		return nil, evoke.ErrNilHandler
	}

	inv := newInvocation(fn)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.Load() == stateDisposed {
		return nil, evoke.ErrDisposed
	}
	select {
	case l.queue <- inv:
		return inv, nil
	default:
		return nil, evoke.ErrQueueFull
	}
}

// Send runs fn on the pump goroutine and blocks until it has finished,
// returning fn's error. Called from the pump goroutine itself, fn runs
// directly.
func (l *Loop) Send(fn func() error) error {
	if fn == nil {
		return evoke.ErrNilHandler
	}
	if !l.InvokeRequired() {
		return fn()
	}
	inv, err := l.Post(fn)
	if err != nil {
		return err
	}
	return inv.Wait()
}

// Pending returns the number of invocations waiting in the queue.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// InvokeRequired implements evoke.Invoker. It reports whether the calling
// goroutine is not the pump goroutine. A loop that is not running always
// requires marshaling; its Lifetime state tells the raiser to skip it.
func (l *Loop) InvokeRequired() bool {
	running := l.gid.Load()
	return running == 0 || running != goid.ID()
}

// BeginInvoke implements evoke.Invoker.
func (l *Loop) BeginInvoke(fn func() error) (evoke.Pending, error) {
	return l.Post(fn)
}

// EndInvoke implements evoke.Invoker. It blocks until the pending
// invocation completes and returns its outcome.
func (l *Loop) EndInvoke(p evoke.Pending) error {
	inv, ok := p.(*Invocation)
	if !ok || inv == nil {
		return evoke.ErrForeignPending
	}
	return inv.Wait()
}

// Disposed implements evoke.Lifetime.
func (l *Loop) Disposed() bool {
	return l.state.Load() == stateDisposed
}

// Live implements evoke.Lifetime. It reports whether the pump is running
// and accepting work.
func (l *Loop) Live() bool {
	return l.state.Load() == stateRunning
}

// execute runs one invocation on the pump goroutine with panic recovery.
func (l *Loop) execute(inv *Invocation) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				err = &evoke.PanicError{Value: r, Stack: stack}
				l.reportPanic(r, stack)
			}
		}()
		err = inv.fn()
	}()
	inv.finish(err)
}

// reportPanic invokes the configured panic handler, shielding the pump from
// a panic handler that itself panics.
func (l *Loop) reportPanic(recovered any, stack []byte) {
	if l.panicHandler == nil {
		return
	}
	defer func() { _ = recover() }()
	l.panicHandler(recovered, stack)
}

func (l *Loop) signalReady() {
	l.readyOnce.Do(func() { close(l.ready) })
}

func (l *Loop) signalWake() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
