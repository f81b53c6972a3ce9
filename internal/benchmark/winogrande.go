package benchmark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	defaultWinograndePath = "data/winogrande.jsonl"
	winograndePathEnv     = "MCQ_BENCH_WINOGRANDE_PATH"
)

// Winogrande loads two-option pronoun-resolution rows: a sentence with a
// blank and two candidate fillers. The raw answer field is 1-based.
type Winogrande struct {
	Path       string
	SampleSize int
}

type winograndeRow struct {
	Sentence string `json:"sentence"`
	Option1  string `json:"option1"`
	Option2  string `json:"option2"`
	Answer   any    `json:"answer"`
}

func (d *Winogrande) Name() string { return "winogrande" }

func (d *Winogrande) Description() string {
	return "Winogrande pronoun-resolution benchmark (two choices)"
}

func (d *Winogrande) NumChoices() int { return 2 }

func (d *Winogrande) Load(ctx context.Context) ([]Example, error) {
	if ctx == nil {
		return nil, errors.New("winogrande: nil context")
	}

	path := strings.TrimSpace(d.Path)
	if path == "" {
		path = defaultWinograndePath
	}

	rows, err := loadJSONL[winograndeRow](ctx, path, winograndePathEnv)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(winograndeSample(), d.SampleSize), nil
		}
		return nil, fmt.Errorf("winogrande: load %q: %w", path, err)
	}

	out := make([]Example, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sentence := strings.TrimSpace(row.Sentence)
		opt1 := strings.TrimSpace(row.Option1)
		opt2 := strings.TrimSpace(row.Option2)
		if sentence == "" || opt1 == "" || opt2 == "" {
			continue
		}

		label, err := winograndeLabel(row.Answer)
		if err != nil {
			return nil, fmt.Errorf("winogrande: row %d: %w", i+1, err)
		}

		out = append(out, Example{
			Prompt:  formatFillIn(sentence, opt1, opt2),
			Label:   label,
			Choices: []string{opt1, opt2},
		})
	}

	out = takeFirstN(out, d.SampleSize)
	if len(out) == 0 {
		return takeFirstN(winograndeSample(), d.SampleSize), nil
	}
	if err := validateExamples(d.Name(), out, d.NumChoices()); err != nil {
		return nil, err
	}
	return out, nil
}

// winograndeLabel maps the dataset's 1-based "1"/"2" answers to choice
// indices, also accepting letters for pre-normalized files.
func winograndeLabel(answer any) (int, error) {
	switch v := answer.(type) {
	case string:
		switch strings.TrimSpace(v) {
		case "1", "A", "a":
			return 0, nil
		case "2", "B", "b":
			return 1, nil
		}
		return -1, fmt.Errorf("benchmark: unsupported winogrande answer %q", v)
	case int:
		return normalizeWinogrande(v)
	case int64:
		return normalizeWinogrande(int(v))
	case float64:
		return normalizeWinogrande(int(v))
	default:
		return -1, fmt.Errorf("benchmark: unsupported winogrande answer type %T", answer)
	}
}

func normalizeWinogrande(n int) (int, error) {
	if n == 1 || n == 2 {
		return n - 1, nil
	}
	return -1, fmt.Errorf("benchmark: winogrande answer %d outside {1,2}", n)
}

func winograndeSample() []Example {
	rows := []struct {
		sentence string
		option1  string
		option2  string
		label    int
	}{
		{
			sentence: "The trophy would not fit in the suitcase because _ was too big.",
			option1:  "the trophy",
			option2:  "the suitcase",
			label:    0,
		},
		{
			sentence: "Ann asked Mary what time the library closed, because _ had forgotten.",
			option1:  "Ann",
			option2:  "Mary",
			label:    0,
		},
	}

	out := make([]Example, 0, len(rows))
	for _, r := range rows {
		out = append(out, Example{
			Prompt:  formatFillIn(r.sentence, r.option1, r.option2),
			Label:   r.label,
			Choices: []string{r.option1, r.option2},
		})
	}
	return out
}
