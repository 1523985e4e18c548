// Command eventtap passively captures a labeled container event stream to a
// pair of JSONL files, flushing per line so an interrupt loses nothing.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fixturecap/internal/core"
	"fixturecap/internal/docker"
	"fixturecap/internal/dump"
	"fixturecap/internal/event"
	"fixturecap/internal/ratelimit"
)

const (
	ExitSuccess = 0
	ExitError   = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	label := flag.String("label", "", "container label filter (required)")
	outEvents := flag.String("out-events", "", "path for the raw events file (required)")
	outInspects := flag.String("out-inspects", "", "path for the inspect records file (required)")
	inspectRPS := flag.Int("inspect-rps", 0, "max state lookups per second (0 = unlimited)")
	flag.Parse()

	if *label == "" || *outEvents == "" || *outInspects == "" {
		fmt.Fprintln(os.Stderr, "error: --label, --out-events and --out-inspects are required")
		flag.Usage()
		return ExitError
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel() // kills the feed process, which ends the scan loop
	}()

	eventsW, err := dump.NewLineWriter(*outEvents)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return ExitError
	}
	defer eventsW.Close()
	inspectsW, err := dump.NewLineWriter(*outInspects)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return ExitError
	}
	defer inspectsW.Close()

	feed := &docker.Feed{}
	out, err := feed.Start(ctx, *label)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return ExitError
	}
	defer feed.Stop()

	cli := &docker.CLI{}
	limiter := ratelimit.New(*inspectRPS)

	index := 0
	scanner := bufio.NewScanner(out)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		ev, err := event.ParseLine(line)
		if err != nil {
			continue
		}

		if err := eventsW.WriteLine(ev.Raw); err != nil {
			fmt.Fprintf(os.Stderr, "error: writing event: %v\n", err)
			return ExitError
		}

		if ev.ActorID != "" {
			if err := limiter.Wait(ctx); err == nil {
				if snap, ok := cli.Inspect(ctx, ev.ActorID); ok {
					rec := core.EnrichmentRecord{
						EventIndex: index,
						TimeNano:   ev.TimeNano,
						ID:         ev.ActorID,
						Action:     ev.Action,
						Inspect:    snap,
					}
					data, err := json.Marshal(rec)
					if err == nil {
						if err := inspectsW.WriteLine(data); err != nil {
							fmt.Fprintf(os.Stderr, "error: writing inspect record: %v\n", err)
							return ExitError
						}
					}
				}
			}
		}
		index++
	}

	return ExitSuccess
}
