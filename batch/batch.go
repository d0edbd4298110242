package batch

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/Dynom/mxprobe/validator"
	"github.com/Dynom/mxprobe/werkit"
	"github.com/sirupsen/logrus"
)

const defaultWorkers = 10

// Checker checks a single address, *validator.EmailValidator and validator.CheckFn both qualify
type Checker interface {
	Check(ctx context.Context, address string) validator.Result
}

// ProgressFn receives every completed result, done counts the results so far (including this one)
type ProgressFn func(ctx context.Context, r validator.Result, done, total int)

// New creates an Orchestrator that fans addresses out to checker, using a pool of 10 workers by default
func New(checker Checker, options ...Option) *Orchestrator {
	o := Orchestrator{
		checker: checker,
		workers: defaultWorkers,
	}

	for _, opt := range options {
		opt(&o)
	}

	if o.workers < 1 {
		o.workers = 1
	}

	if o.retries < 0 {
		o.retries = 0
	}

	if o.logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		o.logger = l
	}

	return &o
}

type Orchestrator struct {
	checker  Checker
	workers  int
	progress []ProgressFn
	retries  int
	backoff  time.Duration
	logger   logrus.FieldLogger
}

// Run checks all addresses and blocks until each one has a result. The ResultSet always holds exactly one result
// per address, in order of completion. When ctx is cancelled, in-flight probes are aborted and addresses that weren't
// started yet are rejected without being checked.
func (o *Orchestrator) Run(ctx context.Context, addresses []string) *ResultSet {
	rs := NewResultSet(len(addresses))
	o.run(ctx, addresses, rs.Add)

	return rs
}

// Stream checks all addresses and emits each result as soon as it's available. The channel is closed after the last
// result and must be drained.
func (o *Orchestrator) Stream(ctx context.Context, addresses []string) <-chan validator.Result {
	ch := make(chan validator.Result, o.width(len(addresses)))

	go func() {
		defer close(ch)
		o.run(ctx, addresses, func(r validator.Result) {
			ch <- r
		})
	}()

	return ch
}

func (o *Orchestrator) width(total int) int {
	if total < o.workers {
		return total
	}

	return o.workers
}

func (o *Orchestrator) run(ctx context.Context, addresses []string, emit func(r validator.Result)) {
	total := len(addresses)
	if total == 0 {
		return
	}

	var done int64
	report := func(r validator.Result) {
		emit(r)

		n := int(atomic.AddInt64(&done, 1))
		for _, fn := range o.progress {
			fn(ctx, r, n, total)
		}
	}

	start := time.Now()
	log := o.logger.WithFields(logrus.Fields{
		"addresses": total,
		"workers":   o.width(total),
	})

	log.Debug("Starting batch")

	wi := &werkit.WerkIt{}
	wi.StartCheckWorkers(o.width(total), func(tasks <-chan werkit.CheckTask) {
		for task := range tasks {
			report(o.checkSafely(task))
		}
	})

	for i, address := range addresses {
		err := wi.Process(ctx, werkit.CheckTask{
			Ctx:     ctx,
			Fn:      o.check,
			Address: address,
		})

		if err != nil {
			log.WithFields(logrus.Fields{
				"error":     err,
				"unstarted": total - i,
			}).Warn("Batch aborted, rejecting addresses that weren't started")

			for _, a := range addresses[i:] {
				report(validator.NewRejectedResult(a, fmt.Errorf("address wasn't checked %w: %w", validator.ErrProbeTimeout, err)))
			}
			break
		}
	}

	wi.Wait()

	log.WithField("duration", time.Since(start).String()).Debug("Finished batch")
}

// checkSafely isolates a worker from a panicking Checker
func (o *Orchestrator) checkSafely(task werkit.CheckTask) (result validator.Result) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.WithFields(logrus.Fields{
				"address": task.Address,
				"panic":   r,
			}).Error("Recovered from panic in checker")

			result = validator.NewRejectedResult(task.Address, fmt.Errorf("checker panicked %v %w", r, validator.ErrProbeConnectionFailed))
		}
	}()

	return task.Fn(task.Ctx, task.Address)
}

// check runs the checker and retries transient failures, when configured
func (o *Orchestrator) check(ctx context.Context, address string) validator.Result {
	r := o.checker.Check(ctx, address)

	for attempt := 1; attempt <= o.retries && !r.Valid && r.Kind.Retryable(); attempt++ {
		t := time.NewTimer(o.backoff * time.Duration(attempt))
		select {
		case <-ctx.Done():
			t.Stop()
			return r
		case <-t.C:
		}

		o.logger.WithFields(logrus.Fields{
			"address": address,
			"attempt": attempt,
			"kind":    r.Kind.String(),
		}).Debug("Retrying address")

		r = o.checker.Check(ctx, address)
	}

	return r
}
