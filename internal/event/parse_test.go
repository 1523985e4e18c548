package event

import (
	"strings"
	"testing"
)

func TestParseLine_ContainerEvent(t *testing.T) {
	line := `{"status":"start","id":"abc123","from":"busybox","Type":"container","Action":"start","Actor":{"ID":"abc123","Attributes":{"image":"busybox","name":"c1"}},"scope":"local","time":1700000000,"timeNano":1700000000123456789}`

	ev, err := ParseLine([]byte(line))
	if err != nil {
		t.Fatal(err)
	}
	if ev.ActorID != "abc123" {
		t.Errorf("expected actor id abc123, got %q", ev.ActorID)
	}
	if ev.ActorName != "c1" {
		t.Errorf("expected actor name c1, got %q", ev.ActorName)
	}
	if ev.Action != "start" {
		t.Errorf("expected action start, got %q", ev.Action)
	}
	if ev.TimeNano != 1700000000123456789 {
		t.Errorf("unexpected timeNano %d", ev.TimeNano)
	}
	if string(ev.Raw) != line {
		t.Error("raw line not preserved verbatim")
	}
}

func TestParseLine_MissingFields(t *testing.T) {
	ev, err := ParseLine([]byte(`{"Type":"network","Action":"connect"}`))
	if err != nil {
		t.Fatal(err)
	}
	if ev.ActorID != "" || ev.ActorName != "" {
		t.Errorf("expected empty actor fields, got %q/%q", ev.ActorID, ev.ActorName)
	}
	if ev.Action != "connect" {
		t.Errorf("expected action connect, got %q", ev.Action)
	}
}

func TestParseLine_Malformed(t *testing.T) {
	cases := []string{
		"not json",
		`{"truncated":`,
		`[1,2,3]`,
		`"just a string"`,
	}
	for _, c := range cases {
		if _, err := ParseLine([]byte(c)); err == nil {
			t.Errorf("expected error for %q", c)
		}
	}
}

func TestParseLine_RawIsCopy(t *testing.T) {
	buf := []byte(`{"Action":"create","Actor":{"ID":"x","Attributes":{"name":"c1"}}}`)
	ev, err := ParseLine(buf)
	if err != nil {
		t.Fatal(err)
	}
	// Scanner buffers get reused; the event must not alias the input.
	copy(buf, strings.Repeat("x", len(buf)))
	if string(ev.Raw)[0] != '{' {
		t.Error("raw payload aliases the input buffer")
	}
}

func TestParseInspect_FirstElement(t *testing.T) {
	out := []byte(`[{"Id":"abc123","State":{"Status":"running"}},{"Id":"other"}]`)
	snap, ok := ParseInspect(out)
	if !ok {
		t.Fatal("expected snapshot")
	}
	if !strings.Contains(string(snap), `"abc123"`) {
		t.Errorf("expected first element, got %s", snap)
	}
	if strings.Contains(string(snap), `"other"`) {
		t.Errorf("snapshot includes second element: %s", snap)
	}
}

func TestParseInspect_Degraded(t *testing.T) {
	cases := []string{
		``,
		`not json`,
		`[]`,
		`{"Id":"abc"}`,
		`["plain string"]`,
	}
	for _, c := range cases {
		if _, ok := ParseInspect([]byte(c)); ok {
			t.Errorf("expected no snapshot for %q", c)
		}
	}
}
