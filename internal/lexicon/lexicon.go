// Package lexicon holds the vocabularies, aliases and pattern tables the field
// extractors match against. A Lexicon is loaded and validated once, then shared
// read-only by every pipeline run.
package lexicon

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/textnorm"
)

//go:embed default.yaml schema.json
var files embed.FS

// DegreeAlias maps a canonical degree to its surface forms in any language.
type DegreeAlias struct {
	Degree  string   `json:"degree"`
	Aliases []string `json:"aliases"`

	normalized []string
}

// NormalizedAliases returns the aliases passed through textnorm.Normalize.
func (d DegreeAlias) NormalizedAliases() []string { return d.normalized }

// StatusRule lists, per language, the patterns that signal one candidate status.
type StatusRule struct {
	Status   string              `json:"status"`
	Patterns map[string][]string `json:"patterns"`

	compiled map[string][]*regexp.Regexp
}

// Regexps returns the compiled patterns for lang.
func (r StatusRule) Regexps(lang string) []*regexp.Regexp { return r.compiled[lang] }

// LevelRule is one seniority level and the patterns implying it.
type LevelRule struct {
	Level    string   `json:"level"`
	Patterns []string `json:"patterns"`

	compiled []*regexp.Regexp
}

func (r LevelRule) Regexps() []*regexp.Regexp { return r.compiled }

// OccupationRule is an occupation with per-language patterns and the
// seniority levels checked once it wins.
type OccupationRule struct {
	Occupation string              `json:"occupation"`
	Patterns   map[string][]string `json:"patterns"`
	Levels     []LevelRule         `json:"levels"`

	compiled map[string][]*regexp.Regexp
}

func (r OccupationRule) Regexps(lang string) []*regexp.Regexp { return r.compiled[lang] }

// JobTitle is a canonical title and the phrases that name it.
type JobTitle struct {
	Title   string   `json:"title"`
	Phrases []string `json:"phrases"`
}

// Lexicon is the configuration consumed by the extraction pipeline.
type Lexicon struct {
	SectionHeaders    []string `json:"section_headers"`
	BlacklistHeaders  []string `json:"blacklist_headers"`
	EducationHeaders  []string `json:"education_headers"`
	ExperienceHeaders []string `json:"experience_headers"`
	SkillsHeaders     []string `json:"skills_headers"`
	ProfileHeaders    []string `json:"profile_headers"`
	ContactHeaders    []string `json:"contact_headers"`
	NextSection       []string `json:"next_section"`

	ContactKeywords         []string `json:"contact_keywords"`
	NonEducationKeywords    []string `json:"non_education_keywords"`
	DisqualifyingFieldWords []string `json:"disqualifying_field_words"`

	DegreeAliases []DegreeAlias `json:"degree_aliases"`
	FieldsOfStudy []string      `json:"fields_of_study"`
	Institutions  []string      `json:"institutions"`

	Skills             []string         `json:"skills"`
	Cities             []string         `json:"cities"`
	JobTitles          []string         `json:"job_titles"`
	CanonicalJobTitles []JobTitle       `json:"canonical_job_titles"`
	StatusPatterns     []StatusRule     `json:"status_patterns"`
	OccupationPatterns []OccupationRule `json:"occupation_patterns"`
	EducationLevels    []LevelRule      `json:"education_levels"`

	LanguageIndicators map[string][]string `json:"language_indicators"`
	CutoffWords        []string            `json:"cutoff_words"`

	normCities     []string
	normSkills     []string
	normFields     []string
	jobTitleSet    map[string]struct{}
	blacklistSet   map[string]struct{}
	institutionsRe *regexp.Regexp
}

// Format of a lexicon document.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFromPath picks the decoder from the file extension. Unknown
// extensions are read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Load reads, validates and compiles the lexicon at path. Every failure is a
// configuration error.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.ConfigError("read lexicon "+path, err)
	}
	return Parse(data, FormatFromPath(path))
}

// Default returns the lexicon shipped with the binary.
func Default() (*Lexicon, error) {
	data, err := files.ReadFile("default.yaml")
	if err != nil {
		return nil, common.ConfigError("read embedded lexicon", err)
	}
	return Parse(data, YAML)
}

// LoadOrDefault loads path, or the embedded default when path is empty.
func LoadOrDefault(path string) (*Lexicon, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes a lexicon document, validates it against the embedded JSON
// schema and compiles every pattern.
func Parse(data []byte, format Format) (*Lexicon, error) {
	if format == YAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, common.ConfigError("decode yaml lexicon", err)
		}
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, common.ConfigError("convert yaml lexicon", err)
		}
		data = b
	}

	if err := validate(data); err != nil {
		return nil, common.ConfigError("lexicon does not match schema", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	lx := &Lexicon{}
	if err := dec.Decode(lx); err != nil {
		return nil, common.ConfigError("decode lexicon", err)
	}
	if err := lx.compile(); err != nil {
		return nil, common.ConfigError("compile lexicon", err)
	}
	return lx, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func compileByLanguage(patterns map[string][]string) (map[string][]*regexp.Regexp, error) {
	out := make(map[string][]*regexp.Regexp, len(patterns))
	for lang, ps := range patterns {
		res, err := compileAll(ps)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", lang, err)
		}
		out[lang] = res
	}
	return out, nil
}

func (lx *Lexicon) compile() error {
	var err error
	for i := range lx.StatusPatterns {
		r := &lx.StatusPatterns[i]
		if r.compiled, err = compileByLanguage(r.Patterns); err != nil {
			return fmt.Errorf("status %s: %w", r.Status, err)
		}
	}
	for i := range lx.OccupationPatterns {
		r := &lx.OccupationPatterns[i]
		if r.compiled, err = compileByLanguage(r.Patterns); err != nil {
			return fmt.Errorf("occupation %s: %w", r.Occupation, err)
		}
		for j := range r.Levels {
			l := &r.Levels[j]
			if l.compiled, err = compileAll(l.Patterns); err != nil {
				return fmt.Errorf("occupation %s level %s: %w", r.Occupation, l.Level, err)
			}
		}
	}
	for i := range lx.EducationLevels {
		l := &lx.EducationLevels[i]
		if l.compiled, err = compileAll(l.Patterns); err != nil {
			return fmt.Errorf("education level %s: %w", l.Level, err)
		}
	}

	for i := range lx.DegreeAliases {
		d := &lx.DegreeAliases[i]
		d.normalized = make([]string, len(d.Aliases))
		for j, a := range d.Aliases {
			d.normalized[j] = textnorm.Normalize(a)
		}
	}

	lx.normCities = normalizeAll(lx.Cities)
	lx.normSkills = normalizeAll(lx.Skills)
	lx.normFields = normalizeAll(lx.FieldsOfStudy)

	lx.jobTitleSet = make(map[string]struct{}, len(lx.JobTitles))
	for _, t := range lx.JobTitles {
		lx.jobTitleSet[strings.ToLower(t)] = struct{}{}
	}
	lx.blacklistSet = make(map[string]struct{}, len(lx.BlacklistHeaders))
	for _, h := range lx.BlacklistHeaders {
		lx.blacklistSet[strings.ToUpper(strings.TrimSpace(h))] = struct{}{}
	}

	if len(lx.Institutions) > 0 {
		quoted := make([]string, len(lx.Institutions))
		for i, kw := range lx.Institutions {
			quoted[i] = regexp.QuoteMeta(kw)
		}
		lx.institutionsRe, err = regexp.Compile(`(?i)(?:^|[^\p{L}])((?:` + strings.Join(quoted, "|") + `)\s+[\p{L}\s'-]+)`)
		if err != nil {
			return fmt.Errorf("institutions: %w", err)
		}
	}
	return nil
}

func normalizeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = textnorm.Normalize(s)
	}
	return out
}

// NormalizedCities is parallel to Cities.
func (lx *Lexicon) NormalizedCities() []string { return lx.normCities }

// NormalizedSkills is parallel to Skills.
func (lx *Lexicon) NormalizedSkills() []string { return lx.normSkills }

// NormalizedFields is parallel to FieldsOfStudy.
func (lx *Lexicon) NormalizedFields() []string { return lx.normFields }

// IsJobTitleWord reports whether token (any case) is a known job-title word.
func (lx *Lexicon) IsJobTitleWord(token string) bool {
	_, ok := lx.jobTitleSet[strings.ToLower(token)]
	return ok
}

// IsBlacklistedHeader reports whether text, trimmed and upper-cased, is a
// header that must never be taken for a name.
func (lx *Lexicon) IsBlacklistedHeader(text string) bool {
	_, ok := lx.blacklistSet[strings.ToUpper(strings.TrimSpace(text))]
	return ok
}

// InstitutionPattern matches a known institution keyword followed by words.
// It is nil when the lexicon lists no institutions.
func (lx *Lexicon) InstitutionPattern() *regexp.Regexp { return lx.institutionsRe }

// Indicators returns the language indicator words for lang.
func (lx *Lexicon) Indicators(lang string) []string { return lx.LanguageIndicators[lang] }
