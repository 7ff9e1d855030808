// Package fuzzy scores string similarity on a 0-100 scale. The scorers follow
// the usual indel-based family: plain ratio, best partial window, token sort,
// token set and a weighted combination of them.
package fuzzy

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// Scorer compares two strings and returns a similarity between 0 and 100.
type Scorer func(a, b string) float64

// Substitutions cost two edits so the distance counts insertions and deletions only.
var indel = levenshtein.NewParams().SubCost(2)

// Ratio is the normalized indel similarity of a and b.
func Ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	if a == b {
		return 100
	}
	d := levenshtein.Distance(a, b, indel)
	return 100 * (1 - float64(d)/float64(la+lb))
}

// PartialRatio aligns the shorter string against every window of the longer one,
// including windows that hang over either edge, and keeps the best Ratio.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	s := string(short)
	if strings.Contains(string(long), s) {
		return 100
	}

	best := 0.0
	for start := -(len(short) - 1); start < len(long); start++ {
		lo, hi := start, start+len(short)
		if lo < 0 {
			lo = 0
		}
		if hi > len(long) {
			hi = len(long)
		}
		if r := Ratio(s, string(long[lo:hi])); r > best {
			best = r
		}
	}
	return best
}

// TokenSortRatio compares the whitespace tokens of both strings in sorted order.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedJoin(tokens(a)), sortedJoin(tokens(b)))
}

// TokenSetRatio compares the shared tokens against each side's remainder. A
// non-empty intersection with nothing left over on one side scores 100.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	sect, ab, ba := split(ta, tb)
	if len(sect) > 0 && (len(ab) == 0 || len(ba) == 0) {
		return 100
	}

	sectStr, abStr, baStr := sortedJoin(sect), sortedJoin(ab), sortedJoin(ba)
	best := Ratio(abStr, baStr)
	if len(sect) > 0 {
		best = max(best, Ratio(sectStr, sectStr+" "+abStr), Ratio(sectStr, sectStr+" "+baStr))
	}
	return best
}

// partialTokenRatio is 100 when the token sets intersect, otherwise the partial
// ratio of the sorted token strings.
func partialTokenRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	if sect, _, _ := split(ta, tb); len(sect) > 0 {
		return 100
	}
	return PartialRatio(sortedJoin(ta), sortedJoin(tb))
}

const (
	unbaseScale   = 0.95
	partialScale  = 0.9
	distantScale  = 0.6
	partialCutoff = 1.5
	distantCutoff = 8
)

// WRatio weighs the other scorers by how different the two lengths are.
func WRatio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))
	end := Ratio(a, b)

	if lenRatio < partialCutoff {
		tokenRatio := max(TokenSortRatio(a, b), TokenSetRatio(a, b))
		return max(end, tokenRatio*unbaseScale)
	}

	scale := partialScale
	if lenRatio >= distantCutoff {
		scale = distantScale
	}
	end = max(end, PartialRatio(a, b)*scale)
	return max(end, partialTokenRatio(a, b)*unbaseScale*scale)
}

// Match is the result of ExtractOne.
type Match struct {
	Choice string
	Index  int
	Score  float64
}

// ExtractOne returns the best scoring choice at or above cutoff. Ties keep the
// earliest choice so results are stable for a given choice order.
func ExtractOne(query string, choices []string, scorer Scorer, cutoff float64) (Match, bool) {
	if scorer == nil {
		scorer = WRatio
	}
	best := Match{Index: -1, Score: -1}
	for i, c := range choices {
		s := scorer(query, c)
		if s >= cutoff && s > best.Score {
			best = Match{Choice: c, Index: i, Score: s}
			if s == 100 {
				break
			}
		}
	}
	return best, best.Index >= 0
}

func tokens(s string) []string {
	return strings.Fields(s)
}

func tokenSet(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range strings.Fields(s) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// split returns the intersection and both differences of two sorted token sets.
func split(a, b []string) (sect, ab, ba []string) {
	inB := make(map[string]struct{}, len(b))
	for _, t := range b {
		inB[t] = struct{}{}
	}
	inA := make(map[string]struct{}, len(a))
	for _, t := range a {
		inA[t] = struct{}{}
		if _, ok := inB[t]; ok {
			sect = append(sect, t)
		} else {
			ab = append(ab, t)
		}
	}
	for _, t := range b {
		if _, ok := inA[t]; !ok {
			ba = append(ba, t)
		}
	}
	return sect, ab, ba
}

func sortedJoin(ts []string) string {
	c := append([]string(nil), ts...)
	sort.Strings(c)
	return strings.Join(c, " ")
}
