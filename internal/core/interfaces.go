// Package core defines the fundamental types and collaborator interfaces
// for the fixture capture harness.
package core

import (
	"context"
	"encoding/json"
	"io"
)

// Event is a single record from the container event feed.
// Index is assigned by the recorder at append time; Raw holds the
// verbatim feed line so dumps reproduce the stream byte for byte.
type Event struct {
	Index     int
	ActorID   string
	ActorName string // as received; a leading "/" is stripped only for matching
	Action    string
	TimeNano  int64
	Raw       json.RawMessage
}

// EnrichmentRecord is a best-effort point-in-time state snapshot attached
// to a recorded event. JSON field names match the dump format consumed by
// the health-monitor test suite.
type EnrichmentRecord struct {
	EventIndex int             `json:"event_index"`
	TimeNano   int64           `json:"timeNano"`
	ID         string          `json:"id"`
	Action     string          `json:"action"`
	Inspect    json.RawMessage `json:"inspect"`
}

// CommandRunner executes a side-effecting external command and returns its
// output. The harness treats command mechanics as opaque.
type CommandRunner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// Inspector looks up the current state snapshot for an actor id.
// A false return means "no enrichment" for any reason (not found, error,
// malformed output); it is never fatal.
type Inspector interface {
	Inspect(ctx context.Context, id string) (json.RawMessage, bool)
}

// Cleaner bulk force-removes all actors bearing a marker label.
type Cleaner interface {
	Cleanup(ctx context.Context, label string) error
}

// FeedSource starts and stops the live event feed for a marker label.
type FeedSource interface {
	Start(ctx context.Context, label string) (io.ReadCloser, error)
	Stop() error
}
