// Package recorder keeps the append-only, indexed log of feed events and
// enrichment records for one scenario, and answers blocking correlation
// queries against it.
package recorder

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"fixturecap/internal/core"
)

// WaitTimeoutError reports a correlation wait that elapsed with no
// qualifying event.
type WaitTimeoutError struct {
	Name    string
	Actions []string
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for %q actions %v", e.Name, e.Actions)
}

// Recorder is a thread-safe append-only log pair. One Recorder is created
// per scenario and discarded after its dumps are flushed; no state crosses
// scenarios.
type Recorder struct {
	mu          sync.Mutex
	cond        *sync.Cond
	events      []core.Event
	enrichments []core.EnrichmentRecord
}

func New() *Recorder {
	r := &Recorder{}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Append stores the event, assigning it the next dense index, and the
// enrichment record (if any) referencing that index. Every append wakes all
// blocked waiters so they re-evaluate their predicate. Never fails.
func (r *Recorder) Append(ev core.Event, inspect []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := len(r.events)
	ev.Index = index
	r.events = append(r.events, ev)
	if inspect != nil {
		r.enrichments = append(r.enrichments, core.EnrichmentRecord{
			EventIndex: index,
			TimeNano:   ev.TimeNano,
			ID:         ev.ActorID,
			Action:     ev.Action,
			Inspect:    inspect,
		})
	}
	r.cond.Broadcast()
	return index
}

// WaitFor blocks until an event at or after from matches the given actor
// name (one leading "/" stripped on both sides) and any of the given actions
// (case-insensitive), returning the matched index plus one. Every wake
// rescans the entire [from, len) range rather than resuming from a scan
// position, so events appended between check and wait cannot be missed.
// Returns a *WaitTimeoutError if the deadline elapses with no match.
func (r *Recorder) WaitFor(name string, actions []string, from int, timeout time.Duration) (int, error) {
	want := strings.TrimPrefix(name, "/")
	set := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		set[strings.ToLower(a)] = struct{}{}
	}
	deadline := time.Now().Add(timeout)

	// sync.Cond has no timed wait; a timer broadcast bounds the block.
	timer := time.AfterFunc(timeout, func() {
		r.mu.Lock()
		r.cond.Broadcast()
		r.mu.Unlock()
	})
	defer timer.Stop()

	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		for i := from; i < len(r.events); i++ {
			ev := r.events[i]
			if strings.TrimPrefix(ev.ActorName, "/") != want {
				continue
			}
			if _, ok := set[strings.ToLower(ev.Action)]; ok {
				return i + 1, nil
			}
		}
		if !time.Now().Before(deadline) {
			return 0, &WaitTimeoutError{Name: want, Actions: actions}
		}
		r.cond.Wait()
	}
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []core.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Enrichments returns a copy of the recorded enrichment records.
func (r *Recorder) Enrichments() []core.EnrichmentRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.EnrichmentRecord, len(r.enrichments))
	copy(out, r.enrichments)
	return out
}

// Len returns the current event count.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Counts returns the current event and enrichment counts.
func (r *Recorder) Counts() (events, enrichments int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events), len(r.enrichments)
}
