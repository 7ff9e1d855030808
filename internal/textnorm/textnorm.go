// Package textnorm canonicalizes résumé text before matching: case folding,
// accent folding and whitespace collapse.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Special letters that do not decompose under NFD.
var ligatures = strings.NewReplacer(
	"œ", "oe", "Œ", "OE",
	"æ", "ae", "Æ", "AE",
	"ß", "ss",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"’", "'", "‘", "'",
	"“", `"`, "”", `"`,
	" ", " ",
)

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// Fold strips diacritics, keeping case: "Génie Électrique" becomes "Genie Electrique".
func Fold(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return ligatures.Replace(out)
}

// Normalize lowercases, folds accents, collapses whitespace and trims.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = Fold(strings.ToLower(strings.TrimSpace(s)))
	return spaceRun.ReplaceAllString(s, " ")
}

// CollapseSpaces replaces every whitespace run with one space and trims.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// Preprocess lowercases, replaces punctuation with spaces and collapses
// whitespace. Accented letters are kept.
func Preprocess(text string) string {
	text = strings.ToLower(text)
	text = spaceRun.ReplaceAllString(text, " ")
	text = nonWordRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
}

var fieldNoise = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:degree|diploma|programme|program|formation|cycle|year|annee|niveau)\b`),
	regexp.MustCompile(`\([^)]*\)`),
	regexp.MustCompile(`[^\p{L}\p{N}_\s-]`),
}

// CleanFieldName removes degree noise words, parenthesised text and punctuation
// from a captured field-of-study phrase.
func CleanFieldName(field string) string {
	field = strings.ToLower(field)
	for _, re := range fieldNoise {
		field = re.ReplaceAllString(field, " ")
	}
	return strings.Join(strings.Fields(field), " ")
}

// Lines splits text into trimmed, non-empty lines.
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// ContainsAny reports whether s contains any of subs. Empty entries never match.
func ContainsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// TitleCase upper-cases the first letter of every space separated word and
// lower-cases the rest.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
