package terminal

import (
	"context"
	"sync"
)

// Loop runs posted functions one at a time on the goroutine that calls Run.
// Hosts without their own event loop use it as the controller's Dispatch.
type Loop struct {
	fns  chan func()
	done chan struct{}
	once sync.Once
}

// NewLoop returns a loop whose queue holds up to size pending functions.
func NewLoop(size int) *Loop {
	return &Loop{
		fns:  make(chan func(), size),
		done: make(chan struct{}),
	}
}

// Post queues fn. It blocks while the queue is full and drops fn once the loop
// has stopped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
	case l.fns <- fn:
	}
}

// Stop ends Run after the function currently executing returns.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
}

// Done is closed once Stop has been called.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run executes posted functions until Stop is called or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.fns:
			fn()
		}
	}
}
