// Package replay feeds a previously captured events dump back through the
// reader/recorder pipeline, for exercising scenarios without a daemon.
package replay

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Source is a loaded events.jsonl dump.
type Source struct {
	name  string
	lines [][]byte
}

// Load reads an events dump. Blank lines are dropped; everything else is
// kept verbatim, including lines the parser will later skip, so replay sees
// the same noise the live capture saw.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading dump %s: %w", path, err)
	}

	var lines [][]byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("dump %s is empty", path)
	}
	return &Source{name: path, lines: lines}, nil
}

// Name returns the source path.
func (s *Source) Name() string { return s.name }

// Len returns the number of feed lines.
func (s *Source) Len() int { return len(s.lines) }

// Open returns a fresh reader over the stored lines, newline-delimited like
// the live feed.
func (s *Source) Open() io.Reader {
	var buf bytes.Buffer
	for _, line := range s.lines {
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return bytes.NewReader(buf.Bytes())
}
