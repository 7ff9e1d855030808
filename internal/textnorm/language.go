package textnorm

import "strings"

// Language is the detected résumé language.
type Language string

const (
	French  Language = "french"
	English Language = "english"
)

// DetectLanguage counts indicator words for each language in text. French wins
// only with strictly more hits; otherwise the résumé is treated as English.
func DetectLanguage(text string, french, english []string) Language {
	lower := strings.ToLower(text)
	fr, en := 0, 0
	for _, w := range french {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			fr++
		}
	}
	for _, w := range english {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			en++
		}
	}
	if fr > en {
		return French
	}
	return English
}
