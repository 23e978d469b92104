package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const childEnv = "DOWNLOADER_MAIN_CHILD"

// TestInterruptStopsServe runs main in a child process and checks that
// Ctrl-C ends it.
func TestInterruptStopsServe(t *testing.T) {
	if cfgPath := os.Getenv(childEnv); cfgPath != "" {
		os.Args = []string{"downloader", "serve", "--config", cfgPath}
		main()
		return
	}
	if runtime.GOOS == "windows" {
		t.Skip("SIGINT cannot be sent to a child process on windows")
	}

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	cfg := fmt.Sprintf("report:\n  database: %q\nserver:\n  addr: \"127.0.0.1:0\"\n", filepath.Join(dir, "report.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	cmd := exec.Command(os.Args[0], "-test.run=^TestInterruptStopsServe$")
	cmd.Env = append(os.Environ(), childEnv+"="+cfgPath)
	stderr, err := cmd.StderrPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	started := make(chan struct{})
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			if strings.Contains(scanner.Text(), "Starting report API server") {
				close(started)
				break
			}
		}
		for scanner.Scan() {
		}
	}()

	select {
	case <-started:
	case <-time.After(30 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("serve did not start")
	}
	// give ListenAndServe time to bind
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, cmd.Process.Signal(os.Interrupt))

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		var exitErr *exec.ExitError
		require.True(t, errors.As(err, &exitErr), "serve exited without error after SIGINT: %v", err)
		status, ok := exitErr.Sys().(syscall.WaitStatus)
		require.True(t, ok)
		require.True(t, status.Signaled())
		require.Equal(t, syscall.SIGINT, status.Signal())
	case <-time.After(10 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("serve still running 10s after SIGINT")
	}
}
