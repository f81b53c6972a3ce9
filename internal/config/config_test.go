package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")

	path := writeConfig(t, `
default_provider: openai
providers:
  openai:
    api_key: file-key
    model: gpt-4o
evaluation:
  benchmarks: [mmlu, sciq]
  batch_size: 5
  comparison: full
  outcome: continuous
storage:
  type: sqlite
  path: /tmp/scores.db
server:
  addr: ":9090"
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DefaultProvider != "openai" {
		t.Fatalf("default provider: %q", cfg.DefaultProvider)
	}
	if cfg.Providers["openai"].APIKey != "file-key" {
		t.Fatalf("api key: %+v", cfg.Providers["openai"])
	}
	if got := cfg.Evaluation.Benchmarks; len(got) != 2 || got[0] != "mmlu" || got[1] != "sciq" {
		t.Fatalf("benchmarks: %v", got)
	}
	if cfg.Evaluation.BatchSize != 5 {
		t.Fatalf("batch size: %d", cfg.Evaluation.BatchSize)
	}
	if cfg.Evaluation.Comparison != "full" || cfg.Evaluation.Outcome != "continuous" {
		t.Fatalf("mode: %+v", cfg.Evaluation)
	}
	if cfg.Storage.Path != "/tmp/scores.db" {
		t.Fatalf("storage path: %q", cfg.Storage.Path)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr: %q", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging: %+v", cfg.Logging)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DefaultProvider != "claude" {
		t.Fatalf("default provider: %q", cfg.DefaultProvider)
	}
	if len(cfg.Evaluation.Benchmarks) != 1 || cfg.Evaluation.Benchmarks[0] != "mmlu" {
		t.Fatalf("default benchmarks: %v", cfg.Evaluation.Benchmarks)
	}
	if cfg.Evaluation.BatchSize != 10 {
		t.Fatalf("default batch size: %d", cfg.Evaluation.BatchSize)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("default addr: %q", cfg.Server.Addr)
	}
}

func TestLoad_EnvOverridesKeys(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-anthropic")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "env-openai")

	cfg, err := Load(writeConfig(t, `
providers:
  claude:
    api_key: file-anthropic
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Providers["claude"].APIKey != "env-anthropic" {
		t.Fatalf("claude key: %q", cfg.Providers["claude"].APIKey)
	}
	if cfg.Providers["openai"].APIKey != "env-openai" {
		t.Fatalf("openai key: %q", cfg.Providers["openai"].APIKey)
	}
}

func TestLoad_AuthTokenFallback(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "env-token")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Default()
	if cfg.Providers["claude"].APIKey != "env-token" {
		t.Fatalf("claude token fallback: %q", cfg.Providers["claude"].APIKey)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file: expected error")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "providers: [not\n")); err == nil {
		t.Fatal("bad yaml: expected error")
	}
}
