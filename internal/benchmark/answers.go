package benchmark

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// choiceIndex normalizes a raw answer value from a dataset row into a choice
// index. Accepts integer indices (0- or 1-based), letter strings, numeric
// strings, and exact choice-text matches.
func choiceIndex(answer any, choices []string, numChoices int) (int, error) {
	if numChoices <= 0 {
		numChoices = len(choices)
	}
	if numChoices > 26 {
		numChoices = 26
	}

	switch v := answer.(type) {
	case int:
		return normalizeIndex(v, numChoices)
	case int64:
		return normalizeIndex(int(v), numChoices)
	case float64:
		return normalizeIndex(int(v), numChoices)
	case string:
		return parseAnswerString(v, choices, numChoices)
	default:
		return -1, fmt.Errorf("benchmark: unsupported answer type %T", answer)
	}
}

func normalizeIndex(idx int, max int) (int, error) {
	if idx >= 0 && idx < max {
		return idx, nil
	}
	return -1, fmt.Errorf("benchmark: answer index %d outside [0,%d)", idx, max)
}

func parseAnswerString(s string, choices []string, max int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return -1, errors.New("benchmark: empty answer")
	}

	if len(s) == 1 {
		c := s[0]
		if c >= 'a' && c <= 'z' {
			c = c - 'a' + 'A'
		}
		if c >= 'A' && c <= 'Z' {
			idx := int(c - 'A')
			if idx < max {
				return idx, nil
			}
		}
	}

	if n, err := strconv.Atoi(s); err == nil {
		return normalizeIndex(n, max)
	}

	needle := strings.ToLower(s)
	for i, c := range choices {
		if i >= max {
			break
		}
		if strings.ToLower(strings.TrimSpace(c)) == needle {
			return i, nil
		}
	}

	return -1, fmt.Errorf("benchmark: could not parse answer %q", s)
}

// ParseLetterResponse extracts the answered choice index from a model's text
// completion: first a standalone letter, then a 1-based number, then a match
// against the choice texts. Used by the generation-based scoring path.
func ParseLetterResponse(response string, choices []string, numChoices int) (int, bool) {
	s := strings.TrimSpace(response)
	if s == "" {
		return -1, false
	}

	max := numChoices
	if max <= 0 {
		max = len(choices)
	}
	if max <= 0 {
		max = 4
	}
	if max > 26 {
		max = 26
	}

	if idx, ok := extractLetterToken(s, max); ok {
		return idx, true
	}
	if idx, ok := extractNumberToken(s, max); ok {
		return idx, true
	}
	if idx, ok := matchChoiceText(s, choices, max); ok {
		return idx, true
	}
	return -1, false
}

func extractLetterToken(s string, max int) (int, bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c = c - 'a' + 'A'
		}
		if c < 'A' || c > 'Z' {
			continue
		}
		idx := int(c - 'A')
		if idx < 0 || idx >= max {
			continue
		}

		prevOK := i == 0 || !isAlphaNum(s[i-1])
		nextOK := i+1 == len(s) || !isAlphaNum(s[i+1])
		if prevOK && nextOK {
			return idx, true
		}
	}
	return -1, false
}

func extractNumberToken(s string, max int) (int, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			continue
		}
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		n, err := strconv.Atoi(s[i:j])
		if err != nil {
			continue
		}
		if n >= 1 && n <= max {
			return n - 1, true
		}
		i = j - 1
	}
	return -1, false
}

func matchChoiceText(s string, choices []string, max int) (int, bool) {
	if len(choices) == 0 {
		return -1, false
	}
	ls := strings.ToLower(s)
	for i, c := range choices {
		if i >= max {
			break
		}
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if strings.Contains(ls, c) {
			return i, true
		}
	}
	return -1, false
}

func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
