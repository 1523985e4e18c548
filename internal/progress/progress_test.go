package progress

import (
	"strings"
	"testing"
	"time"

	"fixturecap/internal/core"
)

func TestPrintf_WritesLine(t *testing.T) {
	out := &core.MockWriter{}
	p := NewProgress(false)
	p.SetOutput(out)

	p.Printf("running scenario %s", "basic")
	if got := out.String(); got != "running scenario basic\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestStart_QuietSuppressesTicker(t *testing.T) {
	out := &core.MockWriter{}
	p := NewProgress(true)
	p.SetOutput(out)

	p.Start(func() (int, int) { return 1, 0 })
	time.Sleep(20 * time.Millisecond)
	p.Stop()

	if out.String() != "" {
		t.Errorf("quiet progress produced output %q", out.String())
	}
}

func TestStop_Idempotent(t *testing.T) {
	p := NewProgress(false)
	p.SetOutput(&core.MockWriter{})
	p.Start(func() (int, int) { return 0, 0 })
	p.Stop()
	p.Stop()
}

func TestStartStop_NoTickOutputAfterStop(t *testing.T) {
	out := &core.MockWriter{}
	p := NewProgress(false)
	p.SetOutput(out)
	p.Start(func() (int, int) { return 3, 1 })
	p.Stop()
	time.Sleep(20 * time.Millisecond)

	if strings.Contains(out.String(), "captured") {
		t.Errorf("ticker fired after stop: %q", out.String())
	}
}
