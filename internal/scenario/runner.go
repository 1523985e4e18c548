// Package scenario orchestrates one capture run per scenario: reset the
// environment, start the event feed, drive the steps, then always flush and
// clean up.
package scenario

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fixturecap/internal/config"
	"fixturecap/internal/core"
	"fixturecap/internal/dispatch"
	"fixturecap/internal/dump"
	"fixturecap/internal/progress"
	"fixturecap/internal/ratelimit"
	"fixturecap/internal/recorder"
	"fixturecap/internal/stream"
)

// TestLabel is the fixed marker every harness-created container carries;
// reset and cleanup target it.
const TestLabel = "fixturecap.test=1"

const scenarioLabelPrefix = "fixturecap.scenario="

// cleanupTimeout bounds the final cleanup, which must run even when the run
// context is already cancelled.
const cleanupTimeout = 30 * time.Second

// Result summarizes one scenario run; it is written next to the dumps as
// <scenario>.manifest.json.
type Result struct {
	RunID          string    `json:"run_id"`
	Scenario       string    `json:"scenario"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Events         int       `json:"events"`
	Enrichments    int       `json:"enrichments"`
	StepsTotal     int       `json:"steps_total"`
	StepsCompleted int       `json:"steps_completed"`
	Interrupted    bool      `json:"interrupted"`
	Error          string    `json:"error,omitempty"`
}

// Failed reports whether the scenario completed all its steps.
func (r *Result) Failed() bool {
	return r.Error != "" || r.Interrupted
}

// Runner drives scenarios against the injected collaborators. The recorder
// and cursor are created fresh inside RunScenario, never shared across
// scenarios.
type Runner struct {
	Commands  core.CommandRunner
	Inspector core.Inspector
	Cleaner   core.Cleaner
	Feed      core.FeedSource
	Limiter   *ratelimit.Limiter
	Timeout   time.Duration
	DumpDir   string
	Debug     *dispatch.DebugLogger
	Progress  *progress.Progress
}

func (r *Runner) printf(format string, args ...interface{}) {
	if r.Progress != nil {
		r.Progress.Printf(format, args...)
	}
}

// RunAll runs scenarios strictly sequentially. A failed scenario does not
// stop the ones after it; a cancelled context does.
func (r *Runner) RunAll(ctx context.Context, scenarios []config.Scenario) []*Result {
	results := make([]*Result, 0, len(scenarios))
	for _, sc := range scenarios {
		if ctx.Err() != nil {
			break
		}
		results = append(results, r.RunScenario(ctx, sc))
	}
	return results
}

// RunScenario captures one scenario. The dumps and manifest are flushed on
// every exit path: success, step failure, or interrupt.
func (r *Runner) RunScenario(ctx context.Context, sc config.Scenario) *Result {
	res := &Result{
		RunID:      uuid.NewString(),
		Scenario:   sc.Name,
		StartTime:  time.Now(),
		StepsTotal: len(sc.Steps),
	}
	r.printf("running scenario %s", sc.Name)

	if err := r.Cleaner.Cleanup(ctx, TestLabel); err != nil {
		r.printf("cleanup before %s: %v", sc.Name, err)
	}

	rec := recorder.New()
	feed, err := r.Feed.Start(ctx, TestLabel)
	if err != nil {
		res.Error = fmt.Sprintf("starting event feed: %v", err)
		r.finish(rec, res)
		return res
	}

	reader := stream.NewReader(rec, r.Inspector, r.Limiter)
	reader.Start(ctx, feed)
	if r.Progress != nil {
		r.Progress.Start(rec.Counts)
	}

	d := &dispatch.Dispatcher{
		Runner:        r.Commands,
		Recorder:      rec,
		Timeout:       r.Timeout,
		TestLabel:     TestLabel,
		ScenarioLabel: scenarioLabelPrefix + sc.Name,
		Debug:         r.Debug,
	}

	cursor := 0
	for _, step := range sc.Steps {
		if ctx.Err() != nil {
			res.Interrupted = true
			break
		}
		next, err := d.Run(ctx, step, cursor)
		if err != nil {
			res.Error = err.Error()
			break
		}
		cursor = next
		res.StepsCompleted++
	}

	if r.Progress != nil {
		r.Progress.Stop()
	}
	reader.Stop()
	if err := r.Feed.Stop(); err != nil {
		r.printf("stopping event feed: %v", err)
	}
	<-reader.Done()

	// The run context may already be cancelled; cleanup still has to run.
	cleanupCtx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	if err := r.Cleaner.Cleanup(cleanupCtx, TestLabel); err != nil {
		r.printf("cleanup after %s: %v", sc.Name, err)
	}

	r.finish(rec, res)
	return res
}

// finish stamps counts and times and flushes the dumps.
func (r *Runner) finish(rec *recorder.Recorder, res *Result) {
	res.Events, res.Enrichments = rec.Counts()
	res.EndTime = time.Now()

	eventsPath := filepath.Join(r.DumpDir, res.Scenario+".events.jsonl")
	inspectsPath := filepath.Join(r.DumpDir, res.Scenario+".inspects.jsonl")
	manifestPath := filepath.Join(r.DumpDir, res.Scenario+".manifest.json")

	if err := dump.WriteEvents(eventsPath, rec.Events()); err != nil {
		r.printf("flushing events for %s: %v", res.Scenario, err)
	}
	if err := dump.WriteEnrichments(inspectsPath, rec.Enrichments()); err != nil {
		r.printf("flushing enrichments for %s: %v", res.Scenario, err)
	}
	if err := dump.WriteJSON(manifestPath, res); err != nil {
		r.printf("writing manifest for %s: %v", res.Scenario, err)
	}

	switch {
	case res.Interrupted:
		r.printf("scenario %s interrupted after %d/%d steps, %d events captured",
			res.Scenario, res.StepsCompleted, res.StepsTotal, res.Events)
	case res.Error != "":
		r.printf("scenario %s failed after %d/%d steps: %s",
			res.Scenario, res.StepsCompleted, res.StepsTotal, res.Error)
	default:
		r.printf("scenario %s captured %d events (%d enriched)",
			res.Scenario, res.Events, res.Enrichments)
	}
}
