package runtimer

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

type Callback func(s os.Signal)

// New starts listening for signals. The callbacks run once, on the first signal received.
func New(signals ...os.Signal) *SignalHandler {
	c := make(chan os.Signal, 1)
	signal.Notify(c, signals...)

	sh := &SignalHandler{
		c:    c,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go sh.handle()

	return sh
}

// WithCancel returns a context that is cancelled on the first of signals, the handler is used to register more
// callbacks (e.g. a graceful server shutdown) or to Stop listening.
func WithCancel(parent context.Context, signals ...os.Signal) (context.Context, *SignalHandler) {
	ctx, cancel := context.WithCancel(parent)

	sh := New(signals...)
	sh.RegisterCallback(func(os.Signal) {
		cancel()
	})

	context.AfterFunc(ctx, sh.Stop)
	return ctx, sh
}

type SignalHandler struct {
	c    chan os.Signal
	stop chan struct{}
	done chan struct{}

	lock     sync.Mutex
	fns      []Callback
	stopOnce sync.Once
}

func (sh *SignalHandler) handle() {
	defer close(sh.done)
	defer signal.Stop(sh.c)

	select {
	case s := <-sh.c:
		sh.lock.Lock()
		fns := append([]Callback(nil), sh.fns...)
		sh.lock.Unlock()

		for _, fn := range fns {
			fn(s)
		}

	case <-sh.stop:
	}
}

func (sh *SignalHandler) RegisterCallback(fn Callback) {
	sh.lock.Lock()
	sh.fns = append(sh.fns, fn)
	sh.lock.Unlock()
}

// Stop stops listening, without invoking the callbacks. It's safe to call more than once.
func (sh *SignalHandler) Stop() {
	sh.stopOnce.Do(func() {
		close(sh.stop)
	})
}

// Wait blocks until all callbacks have been called, or the handler was stopped
func (sh *SignalHandler) Wait() {
	<-sh.done
}
