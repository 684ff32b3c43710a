package lifetimer

import (
	"context"
	"github.com/Borislavv/go-ash-cachemgr/config"
	"github.com/benbjohnson/clock"
	"log/slog"
	"time"
)

// Sweeper removes all expired items in one pass and reports how many were removed.
type Sweeper interface {
	Sweep() int
}

type Lifetimer interface {
	LifetimerMetrics() (sweeps, removed int64)
	Close() error
}

// LifetimeWorker is the cleanup scheduler of one cache.
// It reclaims items nobody reads again, independently of foreground traffic.
type LifetimeWorker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	name     string
	interval time.Duration
	clock    clock.Clock
	logger   *slog.Logger
	target   Sweeper
	counters *lifetimerCounters
	done     chan struct{}
}

func New(
	ctx context.Context,
	name string,
	opts config.Options,
	clk clock.Clock,
	logger *slog.Logger,
	target Sweeper,
) Lifetimer {
	if !opts.SweepEnabled() {
		return &NoOpLifetimer{}
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&LifetimeWorker{
		ctx:      ctx,
		cancel:   cancel,
		name:     name,
		interval: opts.CheckInterval,
		clock:    clk,
		logger:   logger,
		target:   target,
		counters: newLifetimerCounters(),
		done:     make(chan struct{}),
	}).run()
}

func (w *LifetimeWorker) LifetimerMetrics() (sweeps, removed int64) {
	return w.counters.snapshot()
}

// Close stops the scheduler and waits until no sweep is in flight. Safe to call more than once.
func (w *LifetimeWorker) Close() error {
	w.cancel()
	<-w.done
	return nil
}

func (w *LifetimeWorker) run() *LifetimeWorker {
	// the ticker is armed before returning, so the first tick is due exactly one interval after New
	tick := w.clock.Ticker(w.interval)
	w.logger.Info("cleanup scheduler is running", "cache", w.name, "interval", w.interval.String())

	go func() {
		defer close(w.done)
		defer tick.Stop()
		defer w.logger.Info("cleanup scheduler is stopped", "cache", w.name)

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-tick.C:
				removed := w.target.Sweep()
				w.counters.removed.Add(int64(removed))
				w.counters.sweeps.Add(1)
			}
		}
	}()

	return w
}
