package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stellarlinkco/mcq-bench/api"
)

func TestRunMain_ServesConfiguredAddr(t *testing.T) {
	t.Setenv("MCQ_BENCH_DISABLE_AUTH", "true")
	t.Setenv("MCQ_BENCH_API_KEY", "")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := []byte("storage:\n  type: memory\nserver:\n  addr: \":9999\"\n")
	if err := os.WriteFile(cfgPath, cfg, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var gotAddr string
	origRun := runServer
	runServer = func(s *api.Server, addr string) error {
		gotAddr = addr
		return nil
	}
	t.Cleanup(func() { runServer = origRun })

	if code := runMain([]string{"-config", cfgPath}); code != 0 {
		t.Fatalf("runMain: exit %d", code)
	}
	if gotAddr != ":9999" {
		t.Fatalf("addr: got %q want :9999", gotAddr)
	}
}

func TestRunMain_AddrFlagOverridesConfig(t *testing.T) {
	t.Setenv("MCQ_BENCH_DISABLE_AUTH", "true")
	t.Setenv("MCQ_BENCH_API_KEY", "")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := []byte("storage:\n  type: memory\nserver:\n  addr: \":9999\"\n")
	if err := os.WriteFile(cfgPath, cfg, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var gotAddr string
	origRun := runServer
	runServer = func(s *api.Server, addr string) error {
		gotAddr = addr
		return nil
	}
	t.Cleanup(func() { runServer = origRun })

	if code := runMain([]string{"-config", cfgPath, "-addr", ":7070"}); code != 0 {
		t.Fatalf("runMain: exit %d", code)
	}
	if gotAddr != ":7070" {
		t.Fatalf("addr: got %q want :7070", gotAddr)
	}
}

func TestRunMain_BadConfigPath(t *testing.T) {
	var errOut bytes.Buffer
	origErr := stderrWriter
	stderrWriter = &errOut
	t.Cleanup(func() { stderrWriter = origErr })

	if code := runMain([]string{"-config", "/does/not/exist.yaml"}); code != 1 {
		t.Fatalf("runMain: exit %d want 1", code)
	}
	if errOut.Len() == 0 {
		t.Fatal("expected error output")
	}
}

func TestRunMain_BadFlag(t *testing.T) {
	var errOut bytes.Buffer
	origErr := stderrWriter
	stderrWriter = &errOut
	t.Cleanup(func() { stderrWriter = origErr })

	if code := runMain([]string{"-definitely-not-a-flag"}); code != 2 {
		t.Fatalf("runMain: exit %d want 2", code)
	}
}
