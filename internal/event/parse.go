// Package event parses raw feed lines and state-lookup output.
//
// Feed lines are the JSON objects emitted by
// `docker events --format '{{json .}}'`; only the actor block, the action
// verb, and the nanosecond timestamp are lifted out for matching. The line
// itself is kept verbatim so dumps reproduce the stream exactly.
package event

import (
	"fmt"

	"github.com/tidwall/gjson"

	"fixturecap/internal/core"
)

// ParseLine parses one feed line into an Event. The returned event's Index
// is unset; the recorder assigns it at append time.
func ParseLine(line []byte) (core.Event, error) {
	if !gjson.ValidBytes(line) {
		return core.Event{}, fmt.Errorf("invalid JSON in feed line")
	}
	root := gjson.ParseBytes(line)
	if !root.IsObject() {
		return core.Event{}, fmt.Errorf("feed line is not a JSON object")
	}

	raw := make([]byte, len(line))
	copy(raw, line)

	return core.Event{
		ActorID:   root.Get("Actor.ID").String(),
		ActorName: root.Get("Actor.Attributes.name").String(),
		Action:    root.Get("Action").String(),
		TimeNano:  root.Get("timeNano").Int(),
		Raw:       raw,
	}, nil
}

// ParseInspect extracts the first snapshot from state-lookup output, which
// is a JSON array of inspect objects. Returns false for malformed output or
// an empty result.
func ParseInspect(output []byte) ([]byte, bool) {
	if !gjson.ValidBytes(output) {
		return nil, false
	}
	root := gjson.ParseBytes(output)
	if !root.IsArray() {
		return nil, false
	}
	first := root.Get("0")
	if !first.Exists() || !first.IsObject() {
		return nil, false
	}
	return []byte(first.Raw), true
}
