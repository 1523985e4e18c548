package dispatch

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fixturecap/internal/core"
	"fixturecap/internal/recorder"
)

// DefaultWaitTimeout bounds each correlation wait.
const DefaultWaitTimeout = 10 * time.Second

// Dispatcher executes steps as a two-phase operation: issue the external
// command, then block until the expected event(s) appear in the recorder at
// or after the cursor. A Dispatcher is scoped to one scenario.
type Dispatcher struct {
	Runner        core.CommandRunner
	Recorder      *recorder.Recorder
	Timeout       time.Duration // per-wait; DefaultWaitTimeout when zero
	TestLabel     string        // fixed marker applied to every run step
	ScenarioLabel string        // per-scenario marker applied to every run step
	Debug         *DebugLogger

	// Sleep is swappable for tests; nil means a context-aware real sleep.
	Sleep func(ctx context.Context, d time.Duration)
}

// Run executes one step and returns the advanced cursor. The cursor only
// moves on successful correlation waits, so a failed step leaves it where
// the last successful wait put it.
func (d *Dispatcher) Run(ctx context.Context, step Step, cursor int) (int, error) {
	switch step.Kind {
	case KindSleep:
		d.sleep(ctx, time.Duration(step.Seconds*float64(time.Second)))
		return cursor, nil

	case KindRun:
		args := []string{"run", "-d", "--name", step.Name, "--label", d.TestLabel, "--label", d.ScenarioLabel}
		for _, label := range step.Labels {
			args = append(args, "--label", label)
		}
		args = append(args, step.Image)
		args = append(args, step.Command...)
		if err := d.command(ctx, step, args...); err != nil {
			return cursor, err
		}
		cursor, err := d.wait(step.Name, []string{"create"}, cursor)
		if err != nil {
			return cursor, err
		}
		return d.wait(step.Name, []string{"start"}, cursor)

	case KindStart:
		if err := d.command(ctx, step, "start", step.Name); err != nil {
			return cursor, err
		}
		return d.wait(step.Name, []string{"start"}, cursor)

	case KindStop:
		if err := d.command(ctx, step, "stop", step.Name); err != nil {
			return cursor, err
		}
		return d.wait(step.Name, []string{"stop", "die"}, cursor)

	case KindKill:
		sig := step.Signal
		if sig == "" {
			sig = DefaultSignal
		}
		if err := d.command(ctx, step, "kill", "--signal", sig, step.Name); err != nil {
			return cursor, err
		}
		return d.wait(step.Name, []string{"kill"}, cursor)

	case KindRestart:
		if err := d.command(ctx, step, "restart", step.Name); err != nil {
			return cursor, err
		}
		return d.wait(step.Name, []string{"restart", "start"}, cursor)

	case KindRename:
		if err := d.command(ctx, step, "rename", step.From, step.To); err != nil {
			return cursor, err
		}
		return d.wait(step.To, []string{"rename"}, cursor)

	case KindRm:
		args := []string{"rm"}
		if step.Forced() {
			args = append(args, "-f")
		}
		args = append(args, step.Name)
		if err := d.command(ctx, step, args...); err != nil {
			return cursor, err
		}
		return d.wait(step.Name, []string{"destroy", "remove", "rm"}, cursor)

	default:
		// Validate catches this at load time; steps built in code land here.
		return cursor, fmt.Errorf("unsupported step kind %q", step.Kind)
	}
}

func (d *Dispatcher) command(ctx context.Context, step Step, args ...string) error {
	d.Debug.LogCommand(args)
	out, err := d.Runner.Run(ctx, args...)
	if err != nil {
		d.Debug.LogCommandError(args, out, err)
		return fmt.Errorf("%s step %q: %w", step.Kind, stepTarget(step), err)
	}
	return nil
}

func (d *Dispatcher) wait(name string, actions []string, cursor int) (int, error) {
	timeout := d.Timeout
	if timeout == 0 {
		timeout = DefaultWaitTimeout
	}
	next, err := d.Recorder.WaitFor(name, actions, cursor, timeout)
	if err != nil {
		return cursor, err
	}
	d.Debug.LogWait(name, actions, next-1)
	return next, nil
}

func (d *Dispatcher) sleep(ctx context.Context, duration time.Duration) {
	if d.Sleep != nil {
		d.Sleep(ctx, duration)
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(duration):
	}
}

func stepTarget(step Step) string {
	switch step.Kind {
	case KindRename:
		return step.From + "->" + step.To
	case KindSleep:
		return strconv.FormatFloat(step.Seconds, 'g', -1, 64) + "s"
	default:
		return step.Name
	}
}
