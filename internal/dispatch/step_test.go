package dispatch

import "testing"

func TestValidate_AcceptsAllKinds(t *testing.T) {
	steps := []Step{
		{Kind: KindSleep, Seconds: 1},
		{Kind: KindRun, Name: "c1", Image: "busybox"},
		{Kind: KindStart, Name: "c1"},
		{Kind: KindStop, Name: "c1"},
		{Kind: KindKill, Name: "c1"},
		{Kind: KindRestart, Name: "c1"},
		{Kind: KindRename, From: "c1", To: "c2"},
		{Kind: KindRm, Name: "c1"},
	}
	for _, s := range steps {
		if err := s.Validate(); err != nil {
			t.Errorf("%s: %v", s.Kind, err)
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		desc string
		step Step
	}{
		{"unknown kind", Step{Kind: "pause", Name: "c1"}},
		{"empty kind", Step{}},
		{"run without name", Step{Kind: KindRun, Image: "busybox"}},
		{"run without image", Step{Kind: KindRun, Name: "c1"}},
		{"stop without name", Step{Kind: KindStop}},
		{"rename without to", Step{Kind: KindRename, From: "c1"}},
		{"negative sleep", Step{Kind: KindSleep, Seconds: -1}},
	}
	for _, c := range cases {
		if err := c.step.Validate(); err == nil {
			t.Errorf("%s: expected error", c.desc)
		}
	}
}

func TestForced_DefaultsTrue(t *testing.T) {
	if !(Step{Kind: KindRm, Name: "c1"}).Forced() {
		t.Error("rm should force by default")
	}
	f := false
	if (Step{Kind: KindRm, Name: "c1", Force: &f}).Forced() {
		t.Error("explicit force=false ignored")
	}
	tr := true
	if !(Step{Kind: KindRm, Name: "c1", Force: &tr}).Forced() {
		t.Error("explicit force=true ignored")
	}
}
