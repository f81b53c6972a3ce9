package score

import "errors"

// Scoring failures are reported through sentinel errors so callers can tell
// configuration mistakes from malformed batches. The engine never clamps or
// drops malformed examples; doing so would corrupt the metric.
var (
	// ErrConfiguration covers invalid choice-alphabet sizes and choice
	// labels that tokenize to nothing.
	ErrConfiguration = errors.New("score: invalid configuration")

	// ErrShapeMismatch covers batch-size or vocabulary-size disagreements
	// between logits, labels, and answer tokens.
	ErrShapeMismatch = errors.New("score: shape mismatch")

	// ErrLabelRange covers labels outside [0, numChoices).
	ErrLabelRange = errors.New("score: label out of range")

	// ErrChoiceCollision is returned when every answer choice tokenizes to
	// the same representative token, making choices indistinguishable.
	ErrChoiceCollision = errors.New("score: all answer choices share one token")
)
