package batch

import (
	"time"

	"github.com/sirupsen/logrus"
)

type Option func(o *Orchestrator)

// WithWorkers sets the width of the worker pool, which is the maximum number of simultaneous probe sessions
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		o.workers = n
	}
}

// WithProgress registers a function that is called for every completed address. It's called from the worker
// goroutines and must be safe for concurrent use.
func WithProgress(fn ProgressFn) Option {
	return func(o *Orchestrator) {
		o.progress = append(o.progress, fn)
	}
}

// WithRetries re-checks addresses that failed on a connection problem or a timeout. The wait between attempts grows
// linearly with backoff.
func WithRetries(attempts int, backoff time.Duration) Option {
	return func(o *Orchestrator) {
		o.retries = attempts
		o.backoff = backoff
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}
