package dispatch

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const maxOutputLogSize = 1024

// DebugLogger logs issued commands and satisfied waits in verbose mode.
// A nil DebugLogger is a no-op.
type DebugLogger struct {
	out io.Writer
	mu  sync.Mutex
}

func NewDebugLogger(out io.Writer) *DebugLogger {
	return &DebugLogger{out: out}
}

func (d *DebugLogger) LogCommand(args []string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, ">>> docker %s\n", strings.Join(args, " "))
}

func (d *DebugLogger) LogCommandError(args []string, output []byte, err error) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "!!! docker %s: %v\n", strings.Join(args, " "), err)
	if len(output) > 0 {
		fmt.Fprintf(d.out, "    output: %s\n", truncateOutput(output))
	}
}

func (d *DebugLogger) LogWait(name string, actions []string, matched int) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "<<< %s %v satisfied by event %d\n", name, actions, matched)
}

func truncateOutput(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) <= maxOutputLogSize {
		return s
	}
	return s[:maxOutputLogSize] + fmt.Sprintf("... (truncated, %d bytes total)", len(s))
}
