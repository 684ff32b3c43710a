package audit

import (
	"context"
	"fmt"
	"github.com/Borislavv/go-ash-cachemgr/config"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/ratelimit"
	"io"
	"os"
	"sync"
)

var _ Metered = (*Writer)(nil)

// Writer queues events in memory and writes them as JSON lines from a single worker.
// Output is capped by a rate limiter; when the queue is full, new events are dropped.
type Writer struct {
	ch       chan Event
	done     chan struct{}
	once     sync.Once
	mu       sync.RWMutex // held for reading while an event is queued, for writing while closing
	closed   bool
	wg       sync.WaitGroup
	out      zerolog.Logger
	limiter  ratelimit.Limiter
	clock    clock.Clock
	counters *auditCounters
}

func NewWriter(cfg *config.AuditCfg, w io.Writer, clk clock.Clock) *Writer {
	aw := &Writer{
		ch:       make(chan Event, cfg.BufferSize),
		done:     make(chan struct{}),
		out:      zerolog.New(w),
		limiter:  ratelimit.New(cfg.RatePerSec),
		clock:    clk,
		counters: newAuditCounters(),
	}
	aw.wg.Add(1)
	go aw.worker()
	return aw
}

// Record stamps the event and queues it without blocking.
func (w *Writer) Record(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = w.clock.Now()
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.counters.dropped.Add(1)
		return
	}
	select {
	case w.ch <- e:
	default:
		w.counters.dropped.Add(1)
	}
}

func (w *Writer) Metrics() (written, dropped int64) {
	return w.counters.snapshot()
}

// Close stops accepting events and flushes the queued ones.
// The ctx bounds the flush; unflushed events are lost when it expires.
func (w *Writer) Close(ctx context.Context) error {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.done)
		w.mu.Unlock()
	})

	flushed := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(flushed)
	}()

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) worker() {
	defer w.wg.Done()
	for {
		select {
		case e := <-w.ch:
			w.write(e)
		case <-w.done:
			for {
				select {
				case e := <-w.ch:
					w.write(e)
				default:
					return
				}
			}
		}
	}
}

func (w *Writer) write(e Event) {
	w.limiter.Take()

	ev := w.out.Info().
		Str("id", e.ID).
		Str("cache", e.Cache).
		Str("key", e.Key).
		Str("op", string(e.Op)).
		Time("at", e.At)
	if e.TTL > 0 {
		ev = ev.Dur("ttl", e.TTL)
	}
	ev.Msg("cache_audit")

	w.counters.written.Add(1)
}

// OpenOutput resolves a configured output name into a writer.
// The returned close func is a no-op for stdout and stderr.
func OpenOutput(output string) (io.Writer, func() error, error) {
	switch output {
	case "", "stdout":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open audit output %s: %w", output, err)
	}
	return f, f.Close, nil
}
