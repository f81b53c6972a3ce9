package benchmark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	defaultMMLUPath = "data/mmlu.jsonl"
	mmluPathEnv     = "MCQ_BENCH_MMLU_PATH"
)

// MMLU loads MMLU-style rows: a question, four choices, and an answer given
// as a letter or index.
type MMLU struct {
	Path       string
	Subjects   []string
	SampleSize int
}

type mmluRow struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   any      `json:"answer"`
	Subject  string   `json:"subject,omitempty"`
}

func (d *MMLU) Name() string { return "mmlu" }

func (d *MMLU) Description() string {
	return "MMLU (Massive Multitask Language Understanding) multiple-choice benchmark"
}

func (d *MMLU) NumChoices() int { return 4 }

func (d *MMLU) Load(ctx context.Context) ([]Example, error) {
	if ctx == nil {
		return nil, errors.New("mmlu: nil context")
	}

	path := strings.TrimSpace(d.Path)
	if path == "" {
		path = defaultMMLUPath
	}

	rows, err := loadJSONL[mmluRow](ctx, path, mmluPathEnv)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(mmluSample(), d.SampleSize), nil
		}
		return nil, fmt.Errorf("mmlu: load %q: %w", path, err)
	}

	subjectSet := normalizeStringSet(d.Subjects)
	out := make([]Example, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		subject := strings.TrimSpace(row.Subject)
		if len(subjectSet) > 0 && !subjectSet[strings.ToLower(subject)] {
			continue
		}

		question := strings.TrimSpace(row.Question)
		choices := compactStrings(row.Choices)
		if question == "" || len(choices) != d.NumChoices() {
			continue
		}

		label, err := choiceIndex(row.Answer, choices, d.NumChoices())
		if err != nil {
			return nil, fmt.Errorf("mmlu: row %d: %w", i+1, err)
		}

		out = append(out, Example{
			Prompt:   formatMCQ(question, choices),
			Label:    label,
			Choices:  choices,
			Category: subject,
		})
	}

	out = takeFirstN(out, d.SampleSize)
	if len(out) == 0 {
		return takeFirstN(mmluSample(), d.SampleSize), nil
	}
	if err := validateExamples(d.Name(), out, d.NumChoices()); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeStringSet(in []string) map[string]bool {
	out := make(map[string]bool)
	for _, s := range in {
		v := strings.ToLower(strings.TrimSpace(s))
		if v == "" {
			continue
		}
		out[v] = true
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// mmluSample is the built-in fallback used when no dataset file is present,
// so smoke runs work out of the box.
func mmluSample() []Example {
	rows := []struct {
		question string
		choices  []string
		label    int
		category string
	}{
		{
			question: "Which planet is known as the Red Planet?",
			choices:  []string{"Earth", "Mars", "Jupiter", "Venus"},
			label:    1,
			category: "astronomy",
		},
		{
			question: "What is 7 * 6?",
			choices:  []string{"36", "40", "42", "48"},
			label:    2,
			category: "elementary_mathematics",
		},
		{
			question: "Water boils at what temperature at sea level (Celsius)?",
			choices:  []string{"50", "75", "100", "125"},
			label:    2,
			category: "conceptual_physics",
		},
		{
			question: "Which gas makes up most of Earth's atmosphere?",
			choices:  []string{"Oxygen", "Carbon dioxide", "Nitrogen", "Argon"},
			label:    2,
			category: "high_school_chemistry",
		},
	}

	out := make([]Example, 0, len(rows))
	for _, r := range rows {
		out = append(out, Example{
			Prompt:   formatMCQ(r.question, r.choices),
			Label:    r.label,
			Choices:  r.choices,
			Category: r.category,
		})
	}
	return out
}
