// Package docker wraps the docker CLI as the harness's opaque command,
// lookup, and cleanup collaborators.
package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"fixturecap/internal/event"
)

// CLI shells out to the docker binary. The zero value uses "docker" from
// PATH.
type CLI struct {
	Bin string
}

func (c *CLI) bin() string {
	if c.Bin != "" {
		return c.Bin
	}
	return "docker"
}

// Run executes `docker <args>` and returns its stdout. On failure the error
// includes stderr for diagnostics.
func (c *CLI) Run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.bin(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return stdout.Bytes(), fmt.Errorf("docker %s: %w: %s", args[0], err, msg)
		}
		return stdout.Bytes(), fmt.Errorf("docker %s: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}

// Inspect looks up the first state snapshot for an actor id. Any failure,
// empty result, or malformed output reports false.
func (c *CLI) Inspect(ctx context.Context, id string) (json.RawMessage, bool) {
	out, err := c.Run(ctx, "inspect", id)
	if err != nil {
		return nil, false
	}
	snap, ok := event.ParseInspect(out)
	if !ok {
		return nil, false
	}
	return snap, true
}

// Cleanup force-removes every container bearing the marker label.
// Idempotent; a daemon with no matching containers is a no-op.
func (c *CLI) Cleanup(ctx context.Context, label string) error {
	out, err := c.Run(ctx, "ps", "-a", "-q", "--filter", "label="+label)
	if err != nil {
		return err
	}
	var ids []string
	for _, line := range strings.Split(string(out), "\n") {
		if id := strings.TrimSpace(line); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	args := append([]string{"rm", "-f"}, ids...)
	_, err = c.Run(ctx, args...)
	return err
}
