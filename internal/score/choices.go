// Package score is the numeric core of the harness: it maps answer-choice
// letters to representative vocabulary tokens and reduces final-position
// logits to an accuracy or expected-probability score.
package score

import (
	"fmt"

	"github.com/stellarlinkco/mcq-bench/internal/model"
)

const maxChoices = 26 // A..Z

// AnswerTokens maps each choice index to the vocabulary token standing for its
// letter. Built once per (tokenizer, alphabet size, separator) combination and
// read-only afterwards.
type AnswerTokens struct {
	ids []int
}

// Len returns the number of answer choices.
func (a AnswerTokens) Len() int { return len(a.ids) }

// Token returns the representative token id for choice i.
func (a AnswerTokens) Token(i int) int { return a.ids[i] }

// IDs returns a copy of the choice-index-ordered token ids.
func (a AnswerTokens) IDs() []int {
	out := make([]int, len(a.ids))
	copy(out, a.ids)
	return out
}

// Collisions returns the choice indices that share a representative token with
// an earlier choice. Distinct letters may legitimately share a last sub-token;
// callers should surface this rather than fix it, since full-vocabulary
// comparison cannot tell colliding choices apart.
func (a AnswerTokens) Collisions() []int {
	seen := make(map[int]bool, len(a.ids))
	var out []int
	for i, id := range a.ids {
		if seen[id] {
			out = append(out, i)
			continue
		}
		seen[id] = true
	}
	return out
}

// EncodeChoices derives one representative token per choice letter by
// tokenizing "A", "B", ... (prefixed with a space when useSeparator is set, to
// match how a generation would naturally emit " A") and keeping the last
// non-pad token of each row. The last sub-token stands for the whole choice
// when a letter tokenizes to multiple tokens; that approximation is inherited
// from the padding-side handling, not a bug.
func EncodeChoices(tok model.Tokenizer, numChoices int, useSeparator bool) (AnswerTokens, error) {
	if tok == nil {
		return AnswerTokens{}, fmt.Errorf("%w: nil tokenizer", ErrConfiguration)
	}
	if numChoices < 2 {
		return AnswerTokens{}, fmt.Errorf("%w: need at least 2 choices, got %d", ErrConfiguration, numChoices)
	}
	if numChoices > maxChoices {
		return AnswerTokens{}, fmt.Errorf("%w: at most %d choices, got %d", ErrConfiguration, maxChoices, numChoices)
	}

	labels := make([]string, numChoices)
	for i := 0; i < numChoices; i++ {
		if useSeparator {
			labels[i] = " " + string(rune('A'+i))
		} else {
			labels[i] = string(rune('A' + i))
		}
	}

	batch, err := tok.EncodeBatch(labels)
	if err != nil {
		return AnswerTokens{}, fmt.Errorf("score: tokenize choices: %w", err)
	}
	if batch.Len() != numChoices {
		return AnswerTokens{}, fmt.Errorf("%w: tokenizer returned %d rows for %d choices", ErrShapeMismatch, batch.Len(), numChoices)
	}

	ids := make([]int, numChoices)
	distinct := make(map[int]bool, numChoices)
	for i := 0; i < numChoices; i++ {
		id, _, ok := batch.LastContent(i)
		if !ok {
			return AnswerTokens{}, fmt.Errorf("%w: choice %q tokenized to zero tokens", ErrConfiguration, labels[i])
		}
		ids[i] = id
		distinct[id] = true
	}

	if len(distinct) == 1 {
		return AnswerTokens{}, fmt.Errorf("%w: %d choices all map to token %d", ErrChoiceCollision, numChoices, ids[0])
	}

	return AnswerTokens{ids: ids}, nil
}
