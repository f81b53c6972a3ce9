// Package model defines the boundary to the externally supplied tokenizer and
// causal language model. The harness never loads weights or runs a forward
// pass itself; it consumes these interfaces and reads back logits.
package model

import (
	"context"
	"errors"
	"fmt"
)

// TokenBatch holds padded token-id sequences for a batch of texts.
type TokenBatch struct {
	IDs   [][]int
	PadID int
}

// Len returns the number of sequences in the batch.
func (b TokenBatch) Len() int {
	return len(b.IDs)
}

// LastContent returns the token id and position of the last non-pad token in
// row i. ok is false when the row is empty or all padding. Scanning from the
// end handles both left- and right-padded tokenizers.
func (b TokenBatch) LastContent(i int) (id int, pos int, ok bool) {
	if i < 0 || i >= len(b.IDs) {
		return 0, 0, false
	}
	row := b.IDs[i]
	for j := len(row) - 1; j >= 0; j-- {
		if row[j] != b.PadID {
			return row[j], j, true
		}
	}
	return 0, 0, false
}

// Tokenizer converts a batch of texts into padded token-id sequences.
type Tokenizer interface {
	// EncodeBatch tokenizes texts, padding all rows to a common length.
	EncodeBatch(texts []string) (TokenBatch, error)
}

// CausalLM runs a forward pass over a token batch. For each sequence the
// returned slice holds one next-token logit vector per input position, so
// Forward(b)[i][p] are the logits following token p of sequence i. Each logit
// vector spans the full model vocabulary.
type CausalLM interface {
	Forward(ctx context.Context, batch TokenBatch) ([][][]float32, error)
}

// FinalLogits tokenizes prompts and returns the logit vector at each
// sequence's last real (non-pad) position. One forward call per batch.
func FinalLogits(ctx context.Context, m CausalLM, tok Tokenizer, prompts []string) ([][]float32, error) {
	if m == nil {
		return nil, errors.New("model: nil causal lm")
	}
	if tok == nil {
		return nil, errors.New("model: nil tokenizer")
	}
	if len(prompts) == 0 {
		return nil, errors.New("model: empty prompt batch")
	}

	batch, err := tok.EncodeBatch(prompts)
	if err != nil {
		return nil, fmt.Errorf("model: tokenize prompts: %w", err)
	}
	if batch.Len() != len(prompts) {
		return nil, fmt.Errorf("model: tokenizer returned %d rows for %d prompts", batch.Len(), len(prompts))
	}

	all, err := m.Forward(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("model: forward: %w", err)
	}
	if len(all) != batch.Len() {
		return nil, fmt.Errorf("model: forward returned %d rows for %d sequences", len(all), batch.Len())
	}

	out := make([][]float32, batch.Len())
	for i := range all {
		_, pos, ok := batch.LastContent(i)
		if !ok {
			return nil, fmt.Errorf("model: sequence %d has no content tokens", i)
		}
		if pos >= len(all[i]) {
			return nil, fmt.Errorf("model: sequence %d: no logits at position %d (got %d positions)", i, pos, len(all[i]))
		}
		out[i] = all[i][pos]
	}
	return out, nil
}
