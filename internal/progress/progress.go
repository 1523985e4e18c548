// Package progress prints periodic capture liveness to stderr.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const tickInterval = 5 * time.Second

// Progress periodically reports how many events and enrichments the current
// scenario has captured. Quiet mode suppresses the ticker but keeps Printf.
type Progress struct {
	quiet  bool
	output io.Writer
	mu     sync.Mutex
	stopCh chan struct{}
	ticker *time.Ticker
}

func NewProgress(quiet bool) *Progress {
	return &Progress{
		quiet:  quiet,
		output: os.Stderr,
	}
}

func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = w
}

// Start begins ticking; counts supplies the current event and enrichment
// totals. Call Stop before the recorder goes away.
func (p *Progress) Start(counts func() (events, enrichments int)) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopCh != nil {
		return
	}
	p.stopCh = make(chan struct{})
	p.ticker = time.NewTicker(tickInterval)
	go p.run(p.stopCh, p.ticker, counts)
}

func (p *Progress) run(stopCh chan struct{}, ticker *time.Ticker, counts func() (int, int)) {
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			events, enrichments := counts()
			p.Printf("captured %d events (%d enriched)", events, enrichments)
		}
	}
}

func (p *Progress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopCh == nil {
		return
	}
	p.ticker.Stop()
	close(p.stopCh)
	p.stopCh = nil
	p.ticker = nil
}

// Printf writes a status line regardless of ticking (still honors quiet for
// nothing; operator lines always print).
func (p *Progress) Printf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.output, format+"\n", args...)
}
