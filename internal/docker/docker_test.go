package docker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeDocker writes a shell script standing in for the docker binary.
func fakeDocker(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-docker")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCLI_RunReturnsStdout(t *testing.T) {
	cli := &CLI{Bin: fakeDocker(t, `echo "abc123"`)}
	out, err := cli.Run(context.Background(), "run", "-d", "busybox")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(out)) != "abc123" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCLI_RunIncludesStderrInError(t *testing.T) {
	cli := &CLI{Bin: fakeDocker(t, `echo "no such container: c9" >&2; exit 1`)}
	_, err := cli.Run(context.Background(), "stop", "c9")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no such container: c9") {
		t.Errorf("stderr missing from error: %v", err)
	}
}

func TestCLI_InspectFirstElement(t *testing.T) {
	cli := &CLI{Bin: fakeDocker(t, `echo '[{"Id":"abc123","State":{"Status":"running"}}]'`)}
	snap, ok := cli.Inspect(context.Background(), "abc123")
	if !ok {
		t.Fatal("expected snapshot")
	}
	if !strings.Contains(string(snap), `"running"`) {
		t.Errorf("unexpected snapshot %s", snap)
	}
}

func TestCLI_InspectDegradesOnFailure(t *testing.T) {
	for desc, script := range map[string]string{
		"command fails":    `exit 1`,
		"empty array":      `echo '[]'`,
		"malformed output": `echo 'not json'`,
	} {
		cli := &CLI{Bin: fakeDocker(t, script)}
		if _, ok := cli.Inspect(context.Background(), "abc123"); ok {
			t.Errorf("%s: expected no snapshot", desc)
		}
	}
}

func TestCLI_CleanupRemovesListedIDs(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	script := fmt.Sprintf(`if [ "$1" = "ps" ]; then printf 'id1\nid2\n'; else echo "$@" > %q; fi`, argsFile)
	cli := &CLI{Bin: fakeDocker(t, script)}

	if err := cli.Cleanup(context.Background(), "fixturecap.test=1"); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(got)) != "rm -f id1 id2" {
		t.Errorf("unexpected rm invocation %q", got)
	}
}

func TestCLI_CleanupNoopWhenNothingMatches(t *testing.T) {
	script := `if [ "$1" = "ps" ]; then exit 0; else exit 1; fi`
	cli := &CLI{Bin: fakeDocker(t, script)}
	if err := cli.Cleanup(context.Background(), "fixturecap.test=1"); err != nil {
		t.Errorf("cleanup with no matches failed: %v", err)
	}
}

func TestFeed_StartStreamsAndStops(t *testing.T) {
	bin := fakeDocker(t, `echo '{"Action":"create"}'; exec sleep 60`)
	feed := &Feed{Bin: bin, Grace: 500 * time.Millisecond}

	out, err := feed.Start(context.Background(), "fixturecap.test=1")
	if err != nil {
		t.Fatal(err)
	}
	scanner := bufio.NewScanner(out)
	if !scanner.Scan() {
		t.Fatal("expected a feed line")
	}
	if scanner.Text() != `{"Action":"create"}` {
		t.Errorf("unexpected line %q", scanner.Text())
	}

	done := make(chan error, 1)
	go func() { done <- feed.Stop() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestFeed_DoubleStartRejected(t *testing.T) {
	bin := fakeDocker(t, `exec sleep 60`)
	feed := &Feed{Bin: bin, Grace: 100 * time.Millisecond}
	if _, err := feed.Start(context.Background(), "l=1"); err != nil {
		t.Fatal(err)
	}
	defer feed.Stop()
	if _, err := feed.Start(context.Background(), "l=1"); err == nil {
		t.Error("expected error on second Start")
	}
}

func TestFeed_StopWithoutStart(t *testing.T) {
	feed := &Feed{}
	if err := feed.Stop(); err != nil {
		t.Errorf("Stop on unstarted feed: %v", err)
	}
}
