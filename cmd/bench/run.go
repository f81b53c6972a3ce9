package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/mcq-bench/internal/benchmark"
	"github.com/stellarlinkco/mcq-bench/internal/config"
	"github.com/stellarlinkco/mcq-bench/internal/harness"
	"github.com/stellarlinkco/mcq-bench/internal/llm"
	"github.com/stellarlinkco/mcq-bench/internal/results"
)

type runOptions struct {
	benchmarks []string
	model      string
	provider   string
	sampleSize int
	maxTokens  int
	noSave     bool
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ask a chat model every benchmark question and save the accuracy",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmarks(cmd, st, &opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.benchmarks, "benchmark", nil, "benchmarks to run (default from config)")
	cmd.Flags().StringVar(&opts.model, "model", "", "model name (overrides config)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "provider name (overrides config)")
	cmd.Flags().IntVar(&opts.sampleSize, "sample-size", 0, "examples per benchmark (0 = config or dataset default)")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", 0, "completion token cap per question")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "skip writing results to storage")

	return cmd
}

func runBenchmarks(cmd *cobra.Command, st *cliState, opts *runOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("run: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("run: nil options")
	}
	if opts.sampleSize < 0 {
		return fmt.Errorf("run: --sample-size must be >= 0 (got %d)", opts.sampleSize)
	}

	names := opts.benchmarks
	if len(names) == 0 {
		names = st.cfg.Evaluation.Benchmarks
	}
	if len(names) == 0 {
		return fmt.Errorf("run: no benchmarks named (available: %s)", strings.Join(benchmark.Names(), ", "))
	}

	sampleSize := opts.sampleSize
	if sampleSize == 0 {
		sampleSize = st.cfg.Evaluation.SampleSize
	}

	provider, modelName, err := resolveProvider(st.cfg, opts.provider, opts.model)
	if err != nil {
		return err
	}

	var store *results.Store
	if !opts.noSave {
		store, err = openResultsStore(st.cfg)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g := &harness.Generative{
		Provider:  provider,
		MaxTokens: opts.maxTokens,
		Logger:    &st.log,
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		src, err := benchmark.Resolve(name, sampleSize)
		if err != nil {
			return err
		}

		res, err := g.Run(ctx, src)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "%s: model=%s provider=%s score=%.4f examples=%d unparsed=%d time_ms=%d\n",
			res.Benchmark, modelName, provider.Name(), res.Score, res.Examples, res.Unparsed, res.Elapsed.Milliseconds())

		if store == nil {
			continue
		}
		entry := &results.Entry{
			Model:      modelName,
			Provider:   provider.Name(),
			Benchmark:  res.Benchmark,
			Comparison: "generative",
			Outcome:    "accuracy",
			Score:      res.Score,
			Examples:   res.Examples,
			DurationMS: res.Elapsed.Milliseconds(),
			EvalDate:   time.Now().UTC(),
		}
		if err := store.Save(cmd.Context(), entry); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "saved: id=%d\n", entry.ID)
	}

	return nil
}

func resolveProvider(cfg *config.Config, providerFlag, modelFlag string) (llm.Provider, string, error) {
	if cfg == nil {
		return nil, "", fmt.Errorf("run: missing config")
	}

	name := strings.TrimSpace(providerFlag)
	if name == "" {
		name = strings.TrimSpace(cfg.DefaultProvider)
	}

	pcfg := cfg.Providers[strings.ToLower(name)]
	if model := strings.TrimSpace(modelFlag); model != "" {
		pcfg.Model = model
		providers := cfg.Providers
		cfg.Providers = make(map[string]config.ProviderConfig, len(providers))
		for k, v := range providers {
			cfg.Providers[k] = v
		}
		cfg.Providers[strings.ToLower(name)] = pcfg
	}

	provider, err := llm.ProviderFromConfig(cfg, name)
	if err != nil {
		return nil, "", err
	}

	modelName := strings.TrimSpace(modelFlag)
	if modelName == "" {
		modelName = strings.TrimSpace(pcfg.Model)
	}
	if modelName == "" {
		modelName = "default"
	}
	return provider, modelName, nil
}

func openResultsStore(cfg *config.Config) (*results.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("results: missing config")
	}

	storageType := strings.ToLower(strings.TrimSpace(cfg.Storage.Type))
	if storageType == "" {
		storageType = "sqlite"
	}

	switch storageType {
	case "sqlite":
		path := strings.TrimSpace(cfg.Storage.Path)
		if path == "" {
			path = results.DefaultPath
		}
		return results.Open(path)
	case "memory":
		return results.Open(":memory:")
	default:
		return nil, fmt.Errorf("results: unsupported storage type %q", cfg.Storage.Type)
	}
}
