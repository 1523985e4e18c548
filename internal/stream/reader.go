// Package stream consumes the live event feed and forwards each parsed
// event, with best-effort enrichment, to the recorder.
package stream

import (
	"bufio"
	"context"
	"io"
	"sync/atomic"

	"fixturecap/internal/core"
	"fixturecap/internal/event"
	"fixturecap/internal/ratelimit"
	"fixturecap/internal/recorder"
)

// maxLineSize bounds a single feed line; inspect-heavy attribute sets can
// push event lines well past bufio's default.
const maxLineSize = 1024 * 1024

// Reader runs a single goroutine over a line-delimited feed. It stops when
// Stop is called, the context is cancelled, or the feed closes. Lines that
// fail to parse are skipped; enrichment failures degrade to nil. The event
// itself is always recorded.
type Reader struct {
	recorder  *recorder.Recorder
	inspector core.Inspector
	limiter   *ratelimit.Limiter
	stopped   atomic.Bool
	done      chan struct{}
}

func NewReader(rec *recorder.Recorder, inspector core.Inspector, limiter *ratelimit.Limiter) *Reader {
	return &Reader{
		recorder:  rec,
		inspector: inspector,
		limiter:   limiter,
		done:      make(chan struct{}),
	}
}

// Start begins consuming the feed on its own goroutine.
func (r *Reader) Start(ctx context.Context, feed io.Reader) {
	go r.run(ctx, feed)
}

// Stop asks the reader to exit after the line in flight. The feed itself
// must be closed by its owner to unblock a pending read.
func (r *Reader) Stop() {
	r.stopped.Store(true)
}

// Done is closed once the reader goroutine has exited.
func (r *Reader) Done() <-chan struct{} {
	return r.done
}

func (r *Reader) run(ctx context.Context, feed io.Reader) {
	defer close(r.done)

	scanner := bufio.NewScanner(feed)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		if r.stopped.Load() || ctx.Err() != nil {
			return
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		ev, err := event.ParseLine(line)
		if err != nil {
			continue // expected noise, non-fatal
		}

		var inspect []byte
		if ev.ActorID != "" && r.inspector != nil {
			if err := r.limiter.Wait(ctx); err == nil {
				if snap, ok := r.inspector.Inspect(ctx, ev.ActorID); ok {
					inspect = snap
				}
			}
		}
		r.recorder.Append(ev, inspect)
	}
}
