package werkit

import (
	"context"
	"sync"

	"github.com/Dynom/mxprobe/validator"
)

// CheckTask is a single address, handed to one of the workers
type CheckTask struct {
	Ctx     context.Context
	Fn      validator.CheckFn
	Address string
}

// WerkIt is a fixed-width worker pool. Tasks are handed over through an unbuffered channel, so at most one task per
// worker is in flight.
type WerkIt struct {
	wg    sync.WaitGroup
	tasks chan CheckTask
}

// StartCheckWorkers starts the workers, each one runs fn until the task channel is closed by Wait
func (wi *WerkIt) StartCheckWorkers(workers int, fn func(tasks <-chan CheckTask)) {
	if workers < 1 {
		workers = 1
	}

	wi.tasks = make(chan CheckTask)
	wi.wg.Add(workers)
	for i := workers; i > 0; i-- {
		go func() {
			defer wi.wg.Done()
			fn(wi.tasks)
		}()
	}
}

// Wait closes the task channel and blocks until every worker returned
func (wi *WerkIt) Wait() {
	close(wi.tasks)
	wi.wg.Wait()
}

// Process blocks until a worker picks up the task, or the context is done
func (wi *WerkIt) Process(ctx context.Context, t CheckTask) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case wi.tasks <- t:
		return nil
	}
}
