// Package harness drives benchmark evaluation: it pulls prompt/label batches
// from a benchmark source, obtains final-position logits from the model, and
// reduces them to a score, averaging across iterations.
package harness

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stellarlinkco/mcq-bench/internal/benchmark"
	"github.com/stellarlinkco/mcq-bench/internal/model"
	"github.com/stellarlinkco/mcq-bench/internal/score"
)

// Config holds the evaluation knobs. Batch size and iteration count are
// independent; a zero iteration count is derived so roughly 100 examples get
// scored per benchmark.
type Config struct {
	Mode          score.Mode
	BatchSize     int
	Iterations    int
	NoChoiceSpace bool
	Logger        *zerolog.Logger
}

// Evaluator scores a causal LM on multiple-choice benchmarks from its logits.
type Evaluator struct {
	lm  model.CausalLM
	tok model.Tokenizer
	cfg Config
	log zerolog.Logger
}

// Result is the outcome of evaluating one benchmark.
type Result struct {
	Benchmark string
	Score     float64
	Batches   int
	Examples  int
	Unparsed  int // generative path only
	Elapsed   time.Duration
}

// NewEvaluator builds an evaluator with defaults applied.
func NewEvaluator(lm model.CausalLM, tok model.Tokenizer, cfg Config) *Evaluator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 100 / cfg.BatchSize
		if cfg.Iterations < 1 {
			cfg.Iterations = 1
		}
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	return &Evaluator{lm: lm, tok: tok, cfg: cfg, log: log}
}

// Run evaluates one benchmark and returns its averaged score. The answer
// token set is derived once and reused read-only across all batches.
func (e *Evaluator) Run(ctx context.Context, src benchmark.Source) (*Result, error) {
	if e == nil {
		return nil, errors.New("harness: nil evaluator")
	}
	if ctx == nil {
		return nil, errors.New("harness: nil context")
	}
	if e.lm == nil {
		return nil, errors.New("harness: nil model")
	}
	if e.tok == nil {
		return nil, errors.New("harness: nil tokenizer")
	}
	if src == nil {
		return nil, errors.New("harness: nil benchmark source")
	}

	start := time.Now()

	answers, err := score.EncodeChoices(e.tok, src.NumChoices(), !e.cfg.NoChoiceSpace)
	if err != nil {
		return nil, fmt.Errorf("harness: %s: %w", src.Name(), err)
	}
	if collisions := answers.Collisions(); len(collisions) > 0 {
		// Full-vocabulary comparison cannot distinguish colliding
		// choices; surfaced, not repaired.
		e.log.Warn().
			Str("benchmark", src.Name()).
			Ints("choices", collisions).
			Msg("answer choices share representative tokens")
	}

	examples, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("harness: load %s: %w", src.Name(), err)
	}
	cycle, err := benchmark.NewCycle(examples)
	if err != nil {
		return nil, fmt.Errorf("harness: %s: %w", src.Name(), err)
	}

	e.log.Info().
		Str("benchmark", src.Name()).
		Int("examples", cycle.Size()).
		Int("batch_size", e.cfg.BatchSize).
		Int("iterations", e.cfg.Iterations).
		Msg("starting evaluation")

	var sum float64
	for i := 0; i < e.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := cycle.Next(e.cfg.BatchSize)
		if err != nil {
			return nil, fmt.Errorf("harness: %s: %w", src.Name(), err)
		}

		logits, err := model.FinalLogits(ctx, e.lm, e.tok, batch.Prompts)
		if err != nil {
			return nil, fmt.Errorf("harness: %s: %w", src.Name(), err)
		}

		s, err := score.Reduce(logits, answers, batch.Labels, e.cfg.Mode)
		if err != nil {
			return nil, fmt.Errorf("harness: %s: %w", src.Name(), err)
		}

		e.log.Debug().
			Str("benchmark", src.Name()).
			Int("iteration", i).
			Float64("batch_score", s).
			Msg("batch scored")
		sum += s
	}

	return &Result{
		Benchmark: src.Name(),
		Score:     sum / float64(e.cfg.Iterations),
		Batches:   e.cfg.Iterations,
		Examples:  e.cfg.Iterations * e.cfg.BatchSize,
		Elapsed:   time.Since(start),
	}, nil
}

// RunAll evaluates every named benchmark and returns name -> result. Fails on
// the first benchmark that errors rather than reporting a partial map.
func (e *Evaluator) RunAll(ctx context.Context, names []string, sampleSize int) (map[string]*Result, error) {
	if len(names) == 0 {
		return nil, errors.New("harness: no benchmarks named")
	}

	out := make(map[string]*Result, len(names))
	for _, name := range names {
		src, err := benchmark.Resolve(name, sampleSize)
		if err != nil {
			return nil, err
		}
		res, err := e.Run(ctx, src)
		if err != nil {
			return nil, err
		}
		out[res.Benchmark] = res
	}
	return out, nil
}

// ParseMode maps config strings onto the scoring mode. Empty strings pick the
// defaults: restricted comparison, discrete outcome.
func ParseMode(comparison, outcome string) (score.Mode, error) {
	var mode score.Mode

	switch strings.ToLower(strings.TrimSpace(comparison)) {
	case "", "restricted", "choices":
		mode.Comparison = score.RestrictedChoices
	case "full", "all", "vocabulary":
		mode.Comparison = score.FullVocabulary
	default:
		return score.Mode{}, fmt.Errorf("harness: unknown comparison %q (restricted|full)", comparison)
	}

	switch strings.ToLower(strings.TrimSpace(outcome)) {
	case "", "discrete", "accuracy":
		mode.Outcome = score.Discrete
	case "continuous", "probability":
		mode.Outcome = score.Continuous
	default:
		return score.Mode{}, fmt.Errorf("harness: unknown outcome %q (discrete|continuous)", outcome)
	}

	return mode, nil
}
