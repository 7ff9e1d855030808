package llm

import (
	"strings"
)

// MaxPromptChars bounds the text span sent to the model.
const MaxPromptChars = 3000

// BuildSystemPrompt tells the model to act as a named-entity tagger with a
// fixed label set.
func BuildSystemPrompt(labels []string) string {
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	parts := []string{
		"You are a named-entity recognizer for résumé text written in French or English.",
		"Return ONLY JSON that matches the provided JSON Schema: an object with an 'entities' array.",
		"Allowed labels (enum): " + strings.Join(labels, ", ") + ".",
		"PERSON is a human full name exactly as written. Do not include job titles or degrees in it.",
		"GPE is a city or country. ORG is a company, school or university.",
		"Copy entity text verbatim from the input. Keep entities in the order they appear.",
		"Never output null. If no entity is present, return an empty array.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt wraps the text span for the model.
func BuildUserPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Text:\n")
	text = strings.TrimSpace(text)
	if len(text) > MaxPromptChars {
		b.WriteString(truncateUTF8(text, MaxPromptChars))
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}

func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
