// Package dump writes captured logs to durable per-scenario files.
package dump

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fixturecap/internal/core"
)

// WriteEvents writes every raw event line verbatim, one per line, in
// arrival order.
func WriteEvents(path string, events []core.Event) error {
	lines := make([][]byte, len(events))
	for i, ev := range events {
		lines[i] = ev.Raw
	}
	return writeLines(path, lines)
}

// WriteEnrichments writes the enrichment records, one JSON object per line,
// in the order enrichment succeeded.
func WriteEnrichments(path string, records []core.EnrichmentRecord) error {
	lines := make([][]byte, len(records))
	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling enrichment %d: %w", rec.EventIndex, err)
		}
		lines[i] = data
	}
	return writeLines(path, lines)
}

// WriteJSON writes v as indented JSON (used for the run manifest).
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeLines(path, [][]byte{data})
}

func writeLines(path string, lines [][]byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dump dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.Write(line); err != nil {
			f.Close()
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LineWriter appends one line at a time, flushing after each write, for
// passive capture where the process may be interrupted at any point.
type LineWriter struct {
	f *os.File
	w *bufio.Writer
}

func NewLineWriter(path string) (*LineWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating dump dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &LineWriter{f: f, w: bufio.NewWriter(f)}, nil
}

func (lw *LineWriter) WriteLine(line []byte) error {
	if _, err := lw.w.Write(line); err != nil {
		return err
	}
	if err := lw.w.WriteByte('\n'); err != nil {
		return err
	}
	return lw.w.Flush()
}

func (lw *LineWriter) Close() error {
	if err := lw.w.Flush(); err != nil {
		lw.f.Close()
		return err
	}
	return lw.f.Close()
}
