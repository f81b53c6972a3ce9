package benchmark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	defaultSciQPath = "data/sciq.jsonl"
	sciqPathEnv     = "MCQ_BENCH_SCIQ_PATH"
)

// SciQ loads science questions where the correct answer and three distractors
// arrive in fixed columns. Choices are rotated per row so the correct letter
// is not always A.
type SciQ struct {
	Path       string
	SampleSize int
}

type sciqRow struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	Distractor1   string `json:"distractor1"`
	Distractor2   string `json:"distractor2"`
	Distractor3   string `json:"distractor3"`
}

func (d *SciQ) Name() string { return "sciq" }

func (d *SciQ) Description() string {
	return "SciQ crowdsourced science-exam benchmark"
}

func (d *SciQ) NumChoices() int { return 4 }

func (d *SciQ) Load(ctx context.Context) ([]Example, error) {
	if ctx == nil {
		return nil, errors.New("sciq: nil context")
	}

	path := strings.TrimSpace(d.Path)
	if path == "" {
		path = defaultSciQPath
	}

	rows, err := loadJSONL[sciqRow](ctx, path, sciqPathEnv)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(sciqSample(), d.SampleSize), nil
		}
		return nil, fmt.Errorf("sciq: load %q: %w", path, err)
	}

	out := make([]Example, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		question := strings.TrimSpace(row.Question)
		pool := compactStrings([]string{
			row.CorrectAnswer,
			row.Distractor1,
			row.Distractor2,
			row.Distractor3,
		})
		if question == "" || len(pool) != d.NumChoices() {
			continue
		}

		choices, label := rotateChoices(pool, i)
		out = append(out, Example{
			Prompt:  formatMCQ(question, choices),
			Label:   label,
			Choices: choices,
		})
	}

	out = takeFirstN(out, d.SampleSize)
	if len(out) == 0 {
		return takeFirstN(sciqSample(), d.SampleSize), nil
	}
	if err := validateExamples(d.Name(), out, d.NumChoices()); err != nil {
		return nil, err
	}
	return out, nil
}

// rotateChoices places pool[k] at letter position (k+row)%4, so the correct
// answer (pool[0]) lands on a different letter each row. Returns the rotated
// choices and the correct answer's index.
func rotateChoices(pool []string, row int) ([]string, int) {
	n := len(pool)
	choices := make([]string, n)
	for k, c := range pool {
		choices[(k+row)%n] = c
	}
	return choices, row % n
}

func sciqSample() []Example {
	rows := []struct {
		question string
		correct  string
		wrong    [3]string
	}{
		{
			question: "What type of organism is commonly used in preparation of foods such as cheese and yogurt?",
			correct:  "mesophilic organisms",
			wrong:    [3]string{"protozoa", "gymnosperms", "viruses"},
		},
		{
			question: "What phenomenon makes global winds blow northeast to southwest in the northern hemisphere?",
			correct:  "coriolis effect",
			wrong:    [3]string{"muon effect", "centrifugal effect", "tropical effect"},
		},
		{
			question: "What is the least dangerous radioactive decay?",
			correct:  "alpha decay",
			wrong:    [3]string{"zeta decay", "beta decay", "gamma decay"},
		},
	}

	out := make([]Example, 0, len(rows))
	for i, r := range rows {
		pool := []string{r.correct, r.wrong[0], r.wrong[1], r.wrong[2]}
		choices, label := rotateChoices(pool, i)
		out = append(out, Example{
			Prompt:  formatMCQ(r.question, choices),
			Label:   label,
			Choices: choices,
		})
	}
	return out
}
