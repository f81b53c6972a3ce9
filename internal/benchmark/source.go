// Package benchmark supplies multiple-choice question sources. Each dataset
// loads {prompt, label} records where label is an integer index into the
// choice alphabet; formatting happens at load time so downstream code only
// ever sees prompts and labels.
package benchmark

import (
	"context"
	"errors"
	"fmt"
)

// Example is one formatted benchmark record. Label indexes the choice
// alphabet (0 = A). Choices carries the original answer texts for the
// generation-based scoring path.
type Example struct {
	Prompt   string
	Label    int
	Choices  []string
	Category string
}

// Batch pairs prompts with their ground-truth labels, index-aligned.
type Batch struct {
	Prompts []string
	Labels  []int
}

// Source is a named multiple-choice dataset.
type Source interface {
	Name() string
	Description() string
	// NumChoices is the fixed choice-alphabet size of this benchmark.
	NumChoices() int
	Load(ctx context.Context) ([]Example, error)
}

// Cycle serves fixed-size batches from a loaded example set, wrapping around
// when exhausted so iteration count stays independent of dataset size.
type Cycle struct {
	examples []Example
	pos      int
}

// NewCycle wraps examples in a cycling batch server.
func NewCycle(examples []Example) (*Cycle, error) {
	if len(examples) == 0 {
		return nil, errors.New("benchmark: no examples to cycle")
	}
	return &Cycle{examples: examples}, nil
}

// Next returns the next n examples as a batch, wrapping around the dataset.
func (c *Cycle) Next(n int) (*Batch, error) {
	if c == nil || len(c.examples) == 0 {
		return nil, errors.New("benchmark: empty cycle")
	}
	if n <= 0 {
		return nil, fmt.Errorf("benchmark: batch size must be positive, got %d", n)
	}

	out := &Batch{
		Prompts: make([]string, 0, n),
		Labels:  make([]int, 0, n),
	}
	for i := 0; i < n; i++ {
		ex := c.examples[c.pos]
		out.Prompts = append(out.Prompts, ex.Prompt)
		out.Labels = append(out.Labels, ex.Label)
		c.pos = (c.pos + 1) % len(c.examples)
	}
	return out, nil
}

// Size returns the number of underlying examples.
func (c *Cycle) Size() int {
	if c == nil {
		return 0
	}
	return len(c.examples)
}

// validateExamples checks every label against the benchmark's alphabet before
// any scoring happens; a bad label here would silently corrupt the metric
// downstream.
func validateExamples(name string, examples []Example, numChoices int) error {
	for i, ex := range examples {
		if ex.Label < 0 || ex.Label >= numChoices {
			return fmt.Errorf("benchmark: %s: example %d has label %d outside [0,%d)", name, i, ex.Label, numChoices)
		}
	}
	return nil
}
