package extract

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/resume-tracker/internal/layout"
	"github.com/joseph-ayodele/resume-tracker/internal/lexicon"
	"github.com/joseph-ayodele/resume-tracker/internal/llm"
	"github.com/joseph-ayodele/resume-tracker/internal/textnorm"
)

// Name shapes anchored at a line start: Title Case, then ALL CAPS.
var nameShapes = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\p{Lu}\p{Ll}+(?:[ \t]\p{Lu}\p{Ll}+){1,3}`),
	regexp.MustCompile(`(?m)^\p{Lu}{2,}(?:[ \t]\p{Lu}{2,}){1,3}`),
}

var reDigit = regexp.MustCompile(`\d`)

// NameExtractor finds the candidate's full name.
//
// Strategies, in order:
//  1. named-entity recognition over the largest-font blocks
//  2. a block with at least two upper-case words
//  3. the first short block free of digits and contact keywords
//  4. a Title Case or ALL CAPS line anywhere in the text
type NameExtractor struct {
	lx              *lexicon.Lexicon
	ner             llm.EntityRecognizer
	contactKeywords []string
	sectionHeaders  map[string]struct{}
	logger          *slog.Logger
}

// NewNameExtractor builds a NameExtractor. ner may be nil.
func NewNameExtractor(lx *lexicon.Lexicon, ner llm.EntityRecognizer, logger *slog.Logger) *NameExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &NameExtractor{
		lx:             lx,
		ner:            ner,
		sectionHeaders: make(map[string]struct{}, len(lx.SectionHeaders)),
		logger:         logger,
	}
	for _, kw := range lx.ContactKeywords {
		e.contactKeywords = append(e.contactKeywords, textnorm.Normalize(kw))
	}
	for _, h := range lx.SectionHeaders {
		e.sectionHeaders[headerKey(h)] = struct{}{}
	}
	return e
}

func (e *NameExtractor) Name() string { return "name" }

func (e *NameExtractor) Extract(ctx context.Context, in Input) (Candidate[string], bool, error) {
	top := topBlocks(in.Blocks, NameTopBlocks)

	if c, ok, err := e.fromEntities(ctx, top); err != nil || ok {
		return c, ok, err
	}

	for _, b := range top {
		words := strings.Fields(b)
		upper := 0
		for _, w := range words {
			if len([]rune(w)) > 1 && isUpperWord(w) {
				upper++
			}
		}
		if upper >= 2 && !e.isHeader(b) {
			if name := e.clean(b); name != "" {
				return Candidate[string]{Value: name, Confidence: 0.7, Source: b, Strategy: "uppercase"}, true, nil
			}
		}
	}

	for _, b := range top {
		if textnorm.ContainsAny(textnorm.Normalize(b), e.contactKeywords) || reDigit.MatchString(b) || e.isHeader(b) {
			continue
		}
		if n := len(strings.Fields(b)); n >= 1 && n <= NameMaxWords {
			if name := e.clean(b); name != "" {
				return Candidate[string]{Value: name, Confidence: 0.5, Source: b, Strategy: "first_block"}, true, nil
			}
		}
	}

	for _, re := range nameShapes {
		for _, m := range re.FindAllString(in.Text, -1) {
			if e.isHeader(m) {
				continue
			}
			if name := e.clean(m); name != "" {
				return Candidate[string]{Value: name, Confidence: 0.3, Source: m, Strategy: "regex"}, true, nil
			}
		}
	}

	e.logger.Debug("extract.name.miss", "blocks", len(top))
	return Candidate[string]{}, false, nil
}

// fromEntities asks the recognizer about each block, as written and title
// cased. A recognizer failure ends this strategy without failing the field.
func (e *NameExtractor) fromEntities(ctx context.Context, top []string) (Candidate[string], bool, error) {
	if e.ner == nil {
		return Candidate[string]{}, false, nil
	}
	for _, b := range top {
		for _, variant := range []string{b, textnorm.TitleCase(b)} {
			ents, err := e.ner.Entities(ctx, variant)
			if err != nil {
				if ctx.Err() != nil {
					return Candidate[string]{}, false, ctx.Err()
				}
				e.logger.Warn("extract.name.ner_failed", "err", err)
				return Candidate[string]{}, false, nil
			}
			if ent, ok := llm.FirstOf(ents, llm.LabelPerson); ok {
				if name := e.clean(ent.Text); name != "" {
					return Candidate[string]{Value: name, Confidence: 0.9, Source: b, Strategy: "ner"}, true, nil
				}
			}
		}
	}
	return Candidate[string]{}, false, nil
}

// clean cuts the name at the first job-title word.
func (e *NameExtractor) clean(name string) string {
	var kept []string
	for _, tok := range strings.Fields(name) {
		if e.lx.IsJobTitleWord(tok) {
			break
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

func (e *NameExtractor) isHeader(text string) bool {
	if e.lx.IsBlacklistedHeader(text) {
		return true
	}
	_, ok := e.sectionHeaders[headerKey(text)]
	return ok
}

func headerKey(s string) string {
	return strings.ToUpper(textnorm.Fold(strings.TrimSuffix(strings.TrimSpace(s), ":")))
}

// topBlocks returns the text of the n largest-font blocks, top of page first
// among equals. Lines of a block are joined with spaces.
func topBlocks(blocks []layout.Block, n int) []string {
	bs := make([]layout.Block, len(blocks))
	copy(bs, blocks)
	sort.SliceStable(bs, func(i, j int) bool {
		if bs[i].FontSize != bs[j].FontSize {
			return bs[i].FontSize > bs[j].FontSize
		}
		if bs[i].Page != bs[j].Page {
			return bs[i].Page < bs[j].Page
		}
		return bs[i].Top < bs[j].Top
	})
	out := make([]string, 0, n)
	for _, b := range bs {
		if len(out) == n {
			break
		}
		if t := strings.Join(strings.Fields(b.Text), " "); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func isUpperWord(w string) bool {
	cased := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
