package benchmark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	defaultHellaSwagPath = "data/hellaswag.jsonl"
	hellaSwagPathEnv     = "MCQ_BENCH_HELLASWAG_PATH"
)

// HellaSwag loads sentence-continuation rows: a context passage and four
// candidate endings, with the correct ending's index as the label.
type HellaSwag struct {
	Path       string
	SampleSize int
}

type hellaSwagRow struct {
	Context string   `json:"ctx"`
	Endings []string `json:"endings"`
	Label   any      `json:"label"`
}

func (d *HellaSwag) Name() string { return "hellaswag" }

func (d *HellaSwag) Description() string {
	return "HellaSwag commonsense sentence-continuation benchmark"
}

func (d *HellaSwag) NumChoices() int { return 4 }

func (d *HellaSwag) Load(ctx context.Context) ([]Example, error) {
	if ctx == nil {
		return nil, errors.New("hellaswag: nil context")
	}

	path := strings.TrimSpace(d.Path)
	if path == "" {
		path = defaultHellaSwagPath
	}

	rows, err := loadJSONL[hellaSwagRow](ctx, path, hellaSwagPathEnv)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(hellaSwagSample(), d.SampleSize), nil
		}
		return nil, fmt.Errorf("hellaswag: load %q: %w", path, err)
	}

	out := make([]Example, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		passage := strings.TrimSpace(row.Context)
		endings := compactStrings(row.Endings)
		if passage == "" || len(endings) != d.NumChoices() {
			continue
		}

		label, err := choiceIndex(row.Label, endings, d.NumChoices())
		if err != nil {
			return nil, fmt.Errorf("hellaswag: row %d: %w", i+1, err)
		}

		out = append(out, Example{
			Prompt:  formatContinuation(passage, endings),
			Label:   label,
			Choices: endings,
		})
	}

	out = takeFirstN(out, d.SampleSize)
	if len(out) == 0 {
		return takeFirstN(hellaSwagSample(), d.SampleSize), nil
	}
	if err := validateExamples(d.Name(), out, d.NumChoices()); err != nil {
		return nil, err
	}
	return out, nil
}

func hellaSwagSample() []Example {
	rows := []struct {
		context string
		endings []string
		label   int
	}{
		{
			context: "A man is standing at a kitchen counter with flour and eggs. He",
			endings: []string{
				"begins mixing the ingredients in a bowl.",
				"dives into a swimming pool.",
				"starts the car and drives away.",
				"climbs a ladder to the roof.",
			},
			label: 0,
		},
		{
			context: "A woman laces up her running shoes at the edge of a trail. She",
			endings: []string{
				"sits down and falls asleep.",
				"starts jogging along the path.",
				"paints the fence white.",
				"opens an umbrella indoors.",
			},
			label: 1,
		},
	}

	out := make([]Example, 0, len(rows))
	for _, r := range rows {
		out = append(out, Example{
			Prompt:  formatContinuation(r.context, r.endings),
			Label:   r.label,
			Choices: r.endings,
		})
	}
	return out
}
