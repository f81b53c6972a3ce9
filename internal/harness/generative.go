package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stellarlinkco/mcq-bench/internal/benchmark"
	"github.com/stellarlinkco/mcq-bench/internal/llm"
)

// Generative scores a chat-API model by asking each question and parsing the
// answered letter from the completion. Coarser than logit scoring: an
// unparseable reply counts as wrong, and confidence is not observable.
type Generative struct {
	Provider  llm.Provider
	MaxTokens int
	Logger    *zerolog.Logger
}

// Run asks every loaded example once and returns the fraction answered
// correctly.
func (g *Generative) Run(ctx context.Context, src benchmark.Source) (*Result, error) {
	if g == nil {
		return nil, errors.New("harness: nil generative runner")
	}
	if ctx == nil {
		return nil, errors.New("harness: nil context")
	}
	if g.Provider == nil {
		return nil, errors.New("harness: nil provider")
	}
	if src == nil {
		return nil, errors.New("harness: nil benchmark source")
	}

	log := zerolog.Nop()
	if g.Logger != nil {
		log = *g.Logger
	}

	maxTokens := g.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 16 // a letter answer, with slack for phrasing
	}

	start := time.Now()

	examples, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("harness: load %s: %w", src.Name(), err)
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("harness: %s: empty dataset", src.Name())
	}

	correct := 0
	unparsed := 0
	for i, ex := range examples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := g.Provider.Complete(ctx, &llm.Request{
			Messages:    []llm.Message{{Role: "user", Content: ex.Prompt}},
			MaxTokens:   maxTokens,
			Temperature: 0,
		})
		if err != nil {
			return nil, fmt.Errorf("harness: %s: example %d: %w", src.Name(), i, err)
		}

		idx, ok := benchmark.ParseLetterResponse(resp.Text, ex.Choices, src.NumChoices())
		if !ok {
			unparsed++
			log.Debug().
				Str("benchmark", src.Name()).
				Int("example", i).
				Str("response", resp.Text).
				Msg("could not parse answer letter")
			continue
		}
		if idx == ex.Label {
			correct++
		}
	}

	return &Result{
		Benchmark: src.Name(),
		Score:     float64(correct) / float64(len(examples)),
		Batches:   1,
		Examples:  len(examples),
		Unparsed:  unparsed,
		Elapsed:   time.Since(start),
	}, nil
}
