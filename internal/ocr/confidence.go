package ocr

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)
	rePhone = regexp.MustCompile(`(?:\+?212|0[67])[\d\s.-]{8,}`)
	reYear  = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	reWord  = regexp.MustCompile(`\p{L}{3,}`)
)

// heuristicConfidence scores recognized text by the résumé artifacts it contains.
func heuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if reEmail.MatchString(txtL) {
		score += 0.2
	}
	if rePhone.MatchString(txtL) {
		score += 0.15
	}
	if reYear.MatchString(txtL) {
		score += 0.15
	}
	if len(reWord.FindAllStringIndex(txtL, 40)) >= 40 {
		score += 0.2
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
