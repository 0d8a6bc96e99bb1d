package services

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Dispatcher runs fire-and-forget side effects such as notices sent ahead of
// a transaction. A task gets exactly one attempt on a context detached from
// the request: it is never retried, never rolled back, and its failure is
// only logged.
type Dispatcher struct {
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Go starts task in the background.
func (d *Dispatcher) Go(ctx context.Context, name string, task func(context.Context) error) {
	detached := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := task(detached); err != nil {
			d.logger.Warn("background task failed",
				zap.String("task", name),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every started task has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
