package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stellarlinkco/mcq-bench/internal/config"
)

func TestListCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"list"})

	if err := root.Execute(); err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"mmlu", "hellaswag", "winogrande", "sciq"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("list output missing %q:\n%s", want, out.String())
		}
	}
}

func TestResolveProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Providers["claude"] = config.ProviderConfig{APIKey: "k", Model: "claude-sonnet-4-5-20250929"}

	p, model, err := resolveProvider(cfg, "", "")
	if err != nil {
		t.Fatalf("resolveProvider: %v", err)
	}
	if p.Name() != "claude" {
		t.Fatalf("provider: %q", p.Name())
	}
	if model != "claude-sonnet-4-5-20250929" {
		t.Fatalf("model: %q", model)
	}

	_, model, err = resolveProvider(cfg, "claude", "other-model")
	if err != nil {
		t.Fatalf("resolveProvider with model flag: %v", err)
	}
	if model != "other-model" {
		t.Fatalf("model override: %q", model)
	}

	if _, _, err := resolveProvider(cfg, "bogus", ""); err == nil {
		t.Fatal("unknown provider: expected error")
	}
}

func TestOpenResultsStore(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Type = "memory"

	store, err := openResultsStore(cfg)
	if err != nil {
		t.Fatalf("openResultsStore: %v", err)
	}
	_ = store.Close()

	cfg.Storage.Type = "cloud"
	if _, err := openResultsStore(cfg); err == nil {
		t.Fatal("unsupported storage type: expected error")
	}
}

func TestLoadState_MissingDefaultConfig(t *testing.T) {
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	st := &cliState{configPath: config.DefaultPath}
	if err := loadState(st); err != nil {
		t.Fatalf("loadState: %v", err)
	}
	if st.cfg == nil || st.cfg.DefaultProvider != "claude" {
		t.Fatalf("default config not applied: %+v", st.cfg)
	}
}

func TestLoadState_MissingExplicitConfig(t *testing.T) {
	st := &cliState{configPath: "/does/not/exist.yaml"}
	if err := loadState(st); err == nil {
		t.Fatal("explicit missing config: expected error")
	}
}
