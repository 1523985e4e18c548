// Package dispatch maps scenario steps to external commands and the feed
// events that must be observed before each step completes.
package dispatch

import "fmt"

// Kind identifies a scenario step. The set is closed; anything else is a
// configuration defect and is rejected when the scenario loads.
type Kind string

const (
	KindSleep   Kind = "sleep"
	KindRun     Kind = "run"
	KindStart   Kind = "start"
	KindStop    Kind = "stop"
	KindKill    Kind = "kill"
	KindRestart Kind = "restart"
	KindRename  Kind = "rename"
	KindRm      Kind = "rm"
)

// DefaultSignal is sent by kill steps that name no signal.
const DefaultSignal = "9"

// Step is one scenario step. Only the fields for its Kind are meaningful.
type Step struct {
	Kind    Kind
	Name    string   // actor name (all kinds except sleep and rename)
	Image   string   // run
	Command []string // run: optional launch command
	Labels  []string // run: extra labels beside the harness markers
	Seconds float64  // sleep
	Signal  string   // kill; DefaultSignal when empty
	From    string   // rename
	To      string   // rename
	Force   *bool    // rm; nil means forced
}

// Forced reports whether an rm step should force removal (the default).
func (s Step) Forced() bool {
	return s.Force == nil || *s.Force
}

// Validate rejects unknown kinds and missing required fields. Scenarios are
// validated at load time so a bad step fails before any command runs.
func (s Step) Validate() error {
	switch s.Kind {
	case KindSleep:
		if s.Seconds < 0 {
			return fmt.Errorf("sleep step: negative seconds %v", s.Seconds)
		}
		return nil
	case KindRun:
		if s.Name == "" {
			return fmt.Errorf("run step: name is required")
		}
		if s.Image == "" {
			return fmt.Errorf("run step %q: image is required", s.Name)
		}
		return nil
	case KindStart, KindStop, KindKill, KindRestart, KindRm:
		if s.Name == "" {
			return fmt.Errorf("%s step: name is required", s.Kind)
		}
		return nil
	case KindRename:
		if s.From == "" || s.To == "" {
			return fmt.Errorf("rename step: from and to are required")
		}
		return nil
	default:
		return fmt.Errorf("unsupported step kind %q", s.Kind)
	}
}
