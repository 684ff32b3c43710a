package telemetry

import (
	"context"
	"github.com/Borislavv/go-ash-cachemgr/config"
	"github.com/benbjohnson/clock"
	"log/slog"
	"time"
)

type Logger interface {
	Close() error
}

// NoOpLogger is used when telemetry is not configured.
type NoOpLogger struct{}

func (NoOpLogger) Close() error { return nil }

// Logs periodically writes registry statistics and their per-interval deltas.
type Logs struct {
	ctx      context.Context
	cancel   context.CancelFunc
	clock    clock.Clock
	logger   *slog.Logger
	source   Source
	interval time.Duration
	done     chan struct{}
}

func New(
	ctx context.Context,
	cfg *config.TelemetryCfg,
	clk clock.Clock,
	logger *slog.Logger,
	source Source,
) Logger {
	if !cfg.Enabled() || cfg.Interval <= 0 {
		return NoOpLogger{}
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&Logs{
		ctx:      ctx,
		cancel:   cancel,
		clock:    clk,
		logger:   logger,
		source:   source,
		interval: cfg.Interval,
		done:     make(chan struct{}),
	}).run()
}

func (l *Logs) Close() error {
	l.cancel()
	<-l.done
	return nil
}

func (l *Logs) run() *Logs {
	ticker := l.clock.Ticker(l.interval)
	s := newSampler(l.source)
	prev := s.snapshot()
	l.logger.Info("telemetry is running", "interval", l.interval.String())

	go func() {
		defer close(l.done)
		defer ticker.Stop()

		for {
			select {
			case <-l.ctx.Done():
				return

			case <-ticker.C:
				cur := s.snapshot()
				d := deltaSnapshot(prev, cur)
				prev = cur

				l.logger.Info("cache_registry",
					"interval", l.interval.String(),
					"caches", d.caches,
					"hits", int64(d.hits),
					"misses", int64(d.misses),
					"sets", int64(d.sets),
					"deletes", int64(d.deletes),
					"evictions", int64(d.evictions),
					"evictor_calls", int64(d.evictorCalls),
					"evictor_victims", int64(d.evictorVictims),
					"policy_fallbacks", int64(d.policyFallbacks),
					"sweeps", int64(d.sweeps),
					"swept", int64(d.swept),
					"audit_written", int64(d.auditWritten),
					"audit_dropped", int64(d.auditDropped),
					"hit_rate", hitRate(d.hits, d.misses),
					"total_hit_rate", hitRate(cur.hits, cur.misses),
				)
			}
		}
	}()

	return l
}
