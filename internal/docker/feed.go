package docker

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// stopGracePeriod is how long Stop waits after a cooperative terminate
// before killing the feed process.
const stopGracePeriod = 2 * time.Second

// Feed runs `docker events` as a subprocess and exposes its stdout as the
// line-delimited event stream. A Feed is scoped to one scenario: Start once,
// Stop on every exit path.
type Feed struct {
	Bin   string
	Grace time.Duration

	mu   sync.Mutex
	cmd  *exec.Cmd
	wait chan error
}

// Start launches the feed filtered to container events carrying the marker
// label and returns its stdout.
func (f *Feed) Start(ctx context.Context, label string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cmd != nil {
		return nil, fmt.Errorf("event feed already started")
	}

	bin := f.Bin
	if bin == "" {
		bin = "docker"
	}
	cmd := exec.CommandContext(ctx, bin,
		"events",
		"--format", "{{json .}}",
		"--filter", "type=container",
		"--filter", "label="+label,
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("event feed stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting event feed: %w", err)
	}

	f.cmd = cmd
	wait := make(chan error, 1)
	f.wait = wait
	go func() { wait <- cmd.Wait() }()
	return stdout, nil
}

// Stop terminates the feed cooperatively, then kills it after the grace
// period. Safe to call when the feed never started or already exited.
func (f *Feed) Stop() error {
	f.mu.Lock()
	cmd, wait := f.cmd, f.wait
	f.cmd, f.wait = nil, nil
	f.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}

	grace := f.Grace
	if grace == 0 {
		grace = stopGracePeriod
	}

	_ = cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-wait:
		return nil
	case <-time.After(grace):
	}

	_ = cmd.Process.Kill()
	<-wait
	return nil
}
