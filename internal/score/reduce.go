package score

import (
	"fmt"
	"math"
)

// Comparison selects the token space predictions are ranked over.
type Comparison int

const (
	// FullVocabulary compares the model's single most probable token over
	// the entire vocabulary against the correct letter's token. Strictly
	// harder than RestrictedChoices: the model must prefer the letter over
	// every token it knows.
	FullVocabulary Comparison = iota

	// RestrictedChoices ranks only the logits at the answer-token
	// positions, renormalized over exactly that subspace.
	RestrictedChoices
)

// Outcome selects how a prediction is turned into a per-example value.
type Outcome int

const (
	// Discrete counts top-1 correctness.
	Discrete Outcome = iota

	// Continuous takes the softmax probability mass on the true label,
	// yielding a confidence-sensitive metric.
	Continuous
)

// Mode is the comparison/outcome pair. The two axes are independent; all four
// combinations are valid.
type Mode struct {
	Comparison Comparison
	Outcome    Outcome
}

// Reduce scores a batch of final-position logits against ground-truth labels
// and returns a value in [0, 1]: the fraction of correct predictions in
// Discrete mode, or the mean probability mass on the true choice in
// Continuous mode. logits is batch x vocabulary; labels[i] indexes the choice
// alphabet. Pure function of its inputs.
func Reduce(logits [][]float32, answers AnswerTokens, labels []int, mode Mode) (float64, error) {
	if mode.Comparison != FullVocabulary && mode.Comparison != RestrictedChoices {
		return 0, fmt.Errorf("%w: unknown comparison mode %d", ErrConfiguration, mode.Comparison)
	}
	if mode.Outcome != Discrete && mode.Outcome != Continuous {
		return 0, fmt.Errorf("%w: unknown outcome mode %d", ErrConfiguration, mode.Outcome)
	}
	if answers.Len() < 2 {
		return 0, fmt.Errorf("%w: need at least 2 answer tokens, got %d", ErrConfiguration, answers.Len())
	}
	if len(logits) == 0 {
		return 0, fmt.Errorf("%w: empty logit batch", ErrShapeMismatch)
	}
	if len(logits) != len(labels) {
		return 0, fmt.Errorf("%w: %d logit rows vs %d labels", ErrShapeMismatch, len(logits), len(labels))
	}

	vocab := len(logits[0])
	for i, row := range logits {
		if len(row) != vocab {
			return 0, fmt.Errorf("%w: row %d has %d logits, row 0 has %d", ErrShapeMismatch, i, len(row), vocab)
		}
	}
	for _, id := range answers.IDs() {
		if id < 0 || id >= vocab {
			return 0, fmt.Errorf("%w: answer token %d outside vocabulary of size %d", ErrShapeMismatch, id, vocab)
		}
	}
	for i, lb := range labels {
		if lb < 0 || lb >= answers.Len() {
			return 0, fmt.Errorf("%w: labels[%d]=%d with %d choices", ErrLabelRange, i, lb, answers.Len())
		}
	}

	// Both comparison modes reduce to picking a comparison space and a
	// target index within it; the outcome then reads argmax or softmax
	// mass off that space.
	sub := make([]float32, answers.Len())
	var total float64
	for i, row := range logits {
		space := row
		target := answers.Token(labels[i])
		if mode.Comparison == RestrictedChoices {
			for j, id := range answers.ids {
				sub[j] = row[id]
			}
			space = sub
			target = labels[i]
		}

		switch mode.Outcome {
		case Discrete:
			if argmax(space) == target {
				total++
			}
		case Continuous:
			total += softmax(space)[target]
		}
	}

	return total / float64(len(labels)), nil
}

func argmax(xs []float32) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}

// softmax exponentiates after subtracting the row max, keeping the reduction
// stable for large-magnitude logits.
func softmax(xs []float32) []float64 {
	maxv := xs[argmax(xs)]
	out := make([]float64, len(xs))
	var sum float64
	for i, x := range xs {
		e := math.Exp(float64(x - maxv))
		out[i] = e
		sum += e
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
