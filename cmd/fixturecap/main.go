package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fixturecap/internal/config"
	"fixturecap/internal/dispatch"
	"fixturecap/internal/docker"
	"fixturecap/internal/progress"
	"fixturecap/internal/ratelimit"
	"fixturecap/internal/recorder"
	"fixturecap/internal/replay"
	"fixturecap/internal/scenario"
	"fixturecap/internal/stream"
)

const (
	ExitSuccess        = 0
	ExitScenarioFailed = 1
	ExitError          = 2
)

func main() {
	scenarioDir := flag.String("scenario-dir", "testdata/scenarios", "directory of YAML scenario files")
	dumpDir := flag.String("dump-dir", "testdata/dumps", "directory for per-scenario dumps")
	timeout := flag.Duration("timeout", dispatch.DefaultWaitTimeout, "per-wait correlation timeout")
	inspectRPS := flag.Int("inspect-rps", 0, "max state lookups per second (0 = unlimited)")
	quiet := flag.Bool("quiet", false, "suppress progress output")
	verbose := flag.Bool("verbose", false, "enable debug output (commands and satisfied waits)")
	replayPath := flag.String("replay", "", "replay a captured events.jsonl through the pipeline instead of talking to docker")
	flag.Parse()

	prog := progress.NewProgress(*quiet)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		if !*quiet {
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		}
		cancel()
	}()

	if *replayPath != "" {
		os.Exit(runReplay(*replayPath, prog))
	}

	scenarios, err := config.LoadDir(*scenarioDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	var debugLogger *dispatch.DebugLogger
	if *verbose {
		debugLogger = dispatch.NewDebugLogger(os.Stderr)
	}

	cli := &docker.CLI{}
	runner := &scenario.Runner{
		Commands:  cli,
		Inspector: cli,
		Cleaner:   cli,
		Feed:      &docker.Feed{},
		Limiter:   ratelimit.New(*inspectRPS),
		Timeout:   *timeout,
		DumpDir:   *dumpDir,
		Debug:     debugLogger,
		Progress:  prog,
	}

	results := runner.RunAll(ctx, scenarios)

	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
		}
	}
	prog.Printf("captured %d/%d scenarios to %s", len(results)-failed, len(scenarios), *dumpDir)

	if failed > 0 {
		os.Exit(ExitScenarioFailed)
	}
	os.Exit(ExitSuccess)
}

// runReplay pushes a recorded dump through the reader/recorder pipeline, a
// dry run for checking captured fixtures without a daemon.
func runReplay(path string, prog *progress.Progress) int {
	src, err := replay.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return ExitError
	}

	rec := recorder.New()
	reader := stream.NewReader(rec, nil, nil)
	reader.Start(context.Background(), src.Open())
	select {
	case <-reader.Done():
	case <-time.After(time.Minute):
		fmt.Fprintln(os.Stderr, "error: replay did not finish")
		return ExitError
	}

	events, _ := rec.Counts()
	prog.Printf("replayed %d lines from %s: %d events parsed", src.Len(), path, events)
	return ExitSuccess
}
