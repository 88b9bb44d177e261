package evoke

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Args is the marker interface implemented by event payload types.
type Args interface {
	// EventArgs marks the type as an event payload.
	EventArgs()
}

// NoArgs is the payload for events that carry no data.
type NoArgs struct{}

// EventArgs implements Args.
func (NoArgs) EventArgs() {}

// Handler processes one raise of an event. Sender identifies the object that
// raised the event; args is the payload shared by every subscriber of the
// same raise.
type Handler[T Args] func(sender any, args T) error

// PanicHandler is called when a subscriber panics during a direct
// invocation. Cross-context invocations report panics to the owning
// context's own handler.
type PanicHandler func(event string, recovered any, stack []byte)

// Event is a named multicast notification point. Subscribers are invoked in
// registration order. The zero value is not usable; create events with New.
//
// A nil *Event is safe to raise and subscriber-free.
type Event[T Args] struct {
	name         string
	panicHandler PanicHandler

	mu   sync.RWMutex
	subs []*subscriber[T]
}

// Option configures an Event.
type Option func(*eventConfig)

type eventConfig struct {
	name         string
	panicHandler PanicHandler
}

// WithName sets the event name used in wrapped subscriber errors.
func WithName(name string) Option {
	return func(c *eventConfig) {
		c.name = name
	}
}

// WithPanicHandler sets the handler called when a directly invoked
// subscriber panics. The default is a no-op; the panic still surfaces to the
// raiser's caller as a *PanicError.
func WithPanicHandler(h PanicHandler) Option {
	return func(c *eventConfig) {
		c.panicHandler = h
	}
}

// New creates an event for payload type T.
func New[T Args](opts ...Option) *Event[T] {
	var config eventConfig
	for _, opt := range opts {
		opt(&config)
	}
	return &Event[T]{
		name:         config.name,
		panicHandler: config.panicHandler,
	}
}

// Name returns the event name.
func (e *Event[T]) Name() string {
	if e == nil {
		return ""
	}
	return e.name
}

// Len returns the number of active subscribers.
func (e *Event[T]) Len() int {
	if e == nil {
		return 0
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	n := 0
	for _, sub := range e.subs {
		if !sub.cancelled.Load() {
			n++
		}
	}
	return n
}

// Subscription represents a registered subscriber and controls its
// lifecycle.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Target returns the target object the subscription was registered
	// with, or nil.
	Target() any

	// Active reports whether the subscription can still receive raises.
	Active() bool

	// Cancel permanently removes the subscription. A raise already in
	// flight may still deliver to it once.
	Cancel()
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*subscribeConfig)

type subscribeConfig struct {
	target any
	once   bool
}

// WithTarget associates the subscription with a target object. If the
// target implements Invoker, raises marshal the handler onto the target's
// owning goroutine; if it implements Lifetime, torn-down targets are
// skipped.
func WithTarget(target any) SubscribeOption {
	return func(c *subscribeConfig) {
		c.target = target
	}
}

// Once cancels the subscription after its first successful invocation.
func Once() SubscribeOption {
	return func(c *subscribeConfig) {
		c.once = true
	}
}

// Subscribe appends a handler to the event's invocation list. Handlers are
// invoked in the order they were registered. Safe for concurrent use.
func (e *Event[T]) Subscribe(h Handler[T], opts ...SubscribeOption) (Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}

	var config subscribeConfig
	for _, opt := range opts {
		opt(&config)
	}

	sub := &subscriber[T]{
		id:      uuid.NewString(),
		event:   e,
		target:  config.target,
		handler: h,
		once:    config.once,
	}

	e.mu.Lock()
	e.subs = append(e.subs, sub)
	e.mu.Unlock()

	return sub, nil
}

// snapshot returns the current invocation list in registration order.
// Raising iterates the snapshot, so subscriptions added mid-raise are not
// seen until the next raise.
func (e *Event[T]) snapshot() []*subscriber[T] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*subscriber[T], len(e.subs))
	copy(out, e.subs)
	return out
}

// remove deletes a subscriber from the invocation list by ID.
func (e *Event[T]) remove(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, sub := range e.subs {
		if sub.id == id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

// reportPanic invokes the configured panic handler, shielding the raiser
// from a panic handler that itself panics.
func (e *Event[T]) reportPanic(recovered any, stack []byte) {
	if e.panicHandler == nil {
		return
	}
	defer func() { _ = recover() }()
	e.panicHandler(e.name, recovered, stack)
}

// subscriber is one record in an event's invocation list.
type subscriber[T Args] struct {
	id        string
	event     *Event[T]
	target    any
	handler   Handler[T]
	once      bool
	cancelled atomic.Bool
}

// ID returns the subscription ID.
func (s *subscriber[T]) ID() string {
	return s.id
}

// Target returns the registered target object.
func (s *subscriber[T]) Target() any {
	return s.target
}

// Active reports whether the subscription can still receive raises.
func (s *subscriber[T]) Active() bool {
	return !s.cancelled.Load()
}

// Cancel permanently removes the subscription.
func (s *subscriber[T]) Cancel() {
	if s.cancelled.Swap(true) {
		return
	}
	s.event.remove(s.id)
}
