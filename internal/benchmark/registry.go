package benchmark

import (
	"fmt"
	"sort"
	"strings"
)

// Resolve returns the named dataset with the given sample cap (0 = all).
func Resolve(name string, sampleSize int) (Source, error) {
	if sampleSize < 0 {
		return nil, fmt.Errorf("benchmark: sample size must be >= 0, got %d", sampleSize)
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mmlu":
		return &MMLU{SampleSize: sampleSize}, nil
	case "hellaswag":
		return &HellaSwag{SampleSize: sampleSize}, nil
	case "winogrande":
		return &Winogrande{SampleSize: sampleSize}, nil
	case "sciq":
		return &SciQ{SampleSize: sampleSize}, nil
	default:
		return nil, fmt.Errorf("benchmark: unknown dataset %q (have %s)", name, strings.Join(Names(), "|"))
	}
}

// Names lists the available dataset names.
func Names() []string {
	names := []string{"mmlu", "hellaswag", "winogrande", "sciq"}
	sort.Strings(names)
	return names
}
