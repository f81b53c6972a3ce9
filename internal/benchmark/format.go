package benchmark

import "strings"

// choiceLetter maps a choice index to its letter label.
func choiceLetter(i int) string {
	return string(rune('A' + i))
}

// formatMCQ renders a question with lettered choices, ending in "Answer:" so
// the model's next token is the answer letter (with a leading space, matching
// the separator mode of the choice encoder).
func formatMCQ(question string, choices []string) string {
	var sb strings.Builder
	sb.WriteString("The following is a multiple choice question. Answer with the letter of the correct choice.\n\n")
	sb.WriteString(strings.TrimSpace(question))
	sb.WriteString("\n")

	for i, c := range choices {
		sb.WriteString(choiceLetter(i))
		sb.WriteString(". ")
		sb.WriteString(strings.TrimSpace(c))
		sb.WriteByte('\n')
	}

	sb.WriteString("\nAnswer:")
	return sb.String()
}

// formatContinuation renders a context-completion question (HellaSwag style):
// the model picks which lettered ending best continues the passage.
func formatContinuation(ctx string, endings []string) string {
	var sb strings.Builder
	sb.WriteString("Choose the most plausible continuation of the passage. Answer with the letter of the correct choice.\n\n")
	sb.WriteString(strings.TrimSpace(ctx))
	sb.WriteString("\n")

	for i, e := range endings {
		sb.WriteString(choiceLetter(i))
		sb.WriteString(". ")
		sb.WriteString(strings.TrimSpace(e))
		sb.WriteByte('\n')
	}

	sb.WriteString("\nAnswer:")
	return sb.String()
}

// formatFillIn renders a two-option blank-filling question (Winogrande style).
func formatFillIn(sentence, option1, option2 string) string {
	var sb strings.Builder
	sb.WriteString("Choose the option that best fills in the blank. Answer with the letter of the correct choice.\n\n")
	sb.WriteString(strings.TrimSpace(sentence))
	sb.WriteString("\nA. ")
	sb.WriteString(strings.TrimSpace(option1))
	sb.WriteString("\nB. ")
	sb.WriteString(strings.TrimSpace(option2))
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}
