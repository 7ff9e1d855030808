package extract

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/joseph-ayodele/resume-tracker/internal/entity"
	"github.com/joseph-ayodele/resume-tracker/internal/layout"
	"github.com/joseph-ayodele/resume-tracker/internal/lexicon"
	"github.com/joseph-ayodele/resume-tracker/internal/llm"
	"github.com/joseph-ayodele/resume-tracker/internal/textnorm"
)

func testLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lx, err := lexicon.Default()
	if err != nil {
		t.Fatalf("lexicon.Default: %v", err)
	}
	return lx
}

func english(text string) Input {
	return Input{Text: text, Language: textnorm.English}
}

func TestFindEmail(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"Email: amine.bennani@gmail.com", "amine.bennani@gmail.com", true},
		{"contact amine.b @ gmail.com | 06", "amine.b@gmail.com", true},
		{"no address here", "", false},
	}
	for _, tt := range tests {
		got, ok := FindEmail(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("FindEmail(%q) = %q, %v, want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFindPhone(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"Tel: +212 6 12 34 56 78", "212612345678", true},
		{"+212 (0) 661-23-45-67", "212661234567", true},
		{"GSM 06 12 34 56 78", "0612345678", true},
		{"07.61.22.33.44", "0761223344", true},
		{"212 612345678", "212612345678", true},
		{"born 2019", "", false},
	}
	for _, tt := range tests {
		got, ok := FindPhone(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("FindPhone(%q) = %q, %v, want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

type stubNER struct {
	persons map[string]string
	err     error
	calls   int
}

func (s *stubNER) Entities(_ context.Context, text string) ([]llm.Entity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.persons[text]; ok {
		return []llm.Entity{{Text: "Casablanca", Label: llm.LabelLocation}, {Text: p, Label: llm.LabelPerson}}, nil
	}
	return nil, nil
}

func nameBlocks(texts ...string) []layout.Block {
	out := make([]layout.Block, len(texts))
	for i, tx := range texts {
		out[i] = layout.Block{Text: tx, Page: 1, Top: float64(i * 20), FontSize: float64(20 - i)}
	}
	return out
}

func TestNameExtractor(t *testing.T) {
	lx := testLexicon(t)
	tests := []struct {
		name         string
		ner          llm.EntityRecognizer
		in           Input
		want         string
		wantStrategy string
	}{
		{
			name:         "entity on title cased block",
			ner:          &stubNER{persons: map[string]string{"Amine Bennani": "Amine Bennani"}},
			in:           Input{Blocks: nameBlocks("AMINE BENNANI", "EDUCATION")},
			want:         "Amine Bennani",
			wantStrategy: "ner",
		},
		{
			name:         "recognizer failure degrades to upper case",
			ner:          &stubNER{err: errors.New("quota")},
			in:           Input{Blocks: nameBlocks("EDUCATION", "AMINE BENNANI")},
			want:         "AMINE BENNANI",
			wantStrategy: "uppercase",
		},
		{
			name:         "first block cut at job title",
			in:           Input{Blocks: nameBlocks("Sara Alaoui Data Scientist", "sara@mail.com")},
			want:         "Sara Alaoui",
			wantStrategy: "first_block",
		},
		{
			name:         "contact and header blocks skipped",
			in:           Input{Blocks: nameBlocks("Email: x@y.com", "Skills", "Youssef Amrani")},
			want:         "Youssef Amrani",
			wantStrategy: "first_block",
		},
		{
			name:         "regex over text",
			in:           Input{Text: "curriculum\nYoussef El Amrani\n0612345678"},
			want:         "Youssef El Amrani",
			wantStrategy: "regex",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewNameExtractor(lx, tt.ner, nil)
			c, ok, err := e.Extract(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if !ok {
				t.Fatalf("Extract found nothing, want %q", tt.want)
			}
			if c.Value != tt.want || c.Strategy != tt.wantStrategy {
				t.Fatalf("Extract = %q (%s), want %q (%s)", c.Value, c.Strategy, tt.want, tt.wantStrategy)
			}
		})
	}
}

func TestNameExtractorMiss(t *testing.T) {
	e := NewNameExtractor(testLexicon(t), nil, nil)
	if c, ok, err := e.Extract(context.Background(), Input{Text: "2018 - 2020\n+212 612345678"}); err != nil || ok {
		t.Fatalf("Extract = %+v, %v, %v, want miss", c, ok, err)
	}
}

func TestNameExtractorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewNameExtractor(testLexicon(t), &stubNER{err: context.Canceled}, nil)
	if _, _, err := e.Extract(ctx, Input{Blocks: nameBlocks("AMINE BENNANI")}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCityExtractor(t *testing.T) {
	lx := testLexicon(t)
	tests := []struct {
		name         string
		text         string
		want         string
		wantStrategy string
	}{
		{"profile section", "PROFILE\nBased in Casablanca, Morocco\nEDUCATION\nENSA", "Casablanca", "profile"},
		{"accent folded", "Amine\nCONTACT\nFes, Maroc\nSKILLS\nGo", "Fès", "contact"},
		{"typo within threshold", "Lives in Casablanka", "Casablanca", "full_text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok, err := NewCityExtractor(lx, nil).Extract(context.Background(), english(tt.text))
			if err != nil || !ok {
				t.Fatalf("Extract = %v, %v", ok, err)
			}
			if c.Value != tt.want || c.Strategy != tt.wantStrategy {
				t.Fatalf("Extract = %q (%s), want %q (%s)", c.Value, c.Strategy, tt.want, tt.wantStrategy)
			}
			if c.Confidence < CityThreshold {
				t.Fatalf("confidence %.1f below threshold", c.Confidence)
			}
		})
	}
}

func TestCityExtractorBelowThreshold(t *testing.T) {
	c, ok, err := NewCityExtractor(testLexicon(t), nil).Extract(context.Background(), english("Lives in Paris"))
	if err != nil || ok {
		t.Fatalf("Extract = %+v, %v, %v, want miss", c, ok, err)
	}
}

func TestDegreeExtractorEducationSection(t *testing.T) {
	e := NewDegreeExtractor(testLexicon(t), nil)
	c, ok, err := e.Extract(context.Background(), english("EDUCATION\nMASTER EN INFORMATIQUE 2018-2020"))
	if err != nil || !ok {
		t.Fatalf("Extract = %v, %v", ok, err)
	}
	if c.Strategy != "education_window" {
		t.Fatalf("strategy = %q, want education_window", c.Strategy)
	}
	if len(c.Value) != 1 {
		t.Fatalf("entries = %+v, want 1", c.Value)
	}
	got := c.Value[0]
	if got.Degree != "Master" || got.Field != "Informatique" || got.YearRange != "2018-2020" {
		t.Fatalf("entry = %+v, want Master / Informatique / 2018-2020", got)
	}
}

func TestDegreeExtractorDeduplicates(t *testing.T) {
	e := NewDegreeExtractor(testLexicon(t), nil)
	text := "EDUCATION\nMaster en Informatique 2018-2020\nMaster en Informatique 2018-2020"
	c, ok, err := e.Extract(context.Background(), english(text))
	if err != nil || !ok {
		t.Fatalf("Extract = %v, %v", ok, err)
	}
	if len(c.Value) != 1 {
		t.Fatalf("entries = %+v, want 1", c.Value)
	}
}

func TestDegreeExtractorAllLines(t *testing.T) {
	e := NewDegreeExtractor(testLexicon(t), nil)
	c, ok, err := e.Extract(context.Background(), english("Bachelor in Finance, 2015"))
	if err != nil || !ok {
		t.Fatalf("Extract = %v, %v", ok, err)
	}
	if c.Strategy != "all_lines" {
		t.Fatalf("strategy = %q, want all_lines", c.Strategy)
	}
	got := c.Value[0]
	if got.Degree != "Bachelor" || got.Field != "Finance" || got.YearRange != "2015" {
		t.Fatalf("entry = %+v", got)
	}
}

func TestDegreeExtractorLenient(t *testing.T) {
	e := NewDegreeExtractor(testLexicon(t), nil)
	c, ok, err := e.Extract(context.Background(), english("BTS"))
	if err != nil || !ok {
		t.Fatalf("Extract = %v, %v", ok, err)
	}
	if c.Strategy != "lenient" || c.Value[0].Degree != "BTS" || c.Confidence != DegreeLenientConfidence {
		t.Fatalf("Extract = %+v", c)
	}
}

func TestDegreeDisqualify(t *testing.T) {
	e := NewDegreeExtractor(testLexicon(t), nil)
	got := e.disqualify([]entity.DegreeEntry{
		{Degree: "Master", Field: "Project Management"},
		{Degree: "Bachelor", Field: "Finance"},
		{Degree: "DUT"},
	})
	if len(got) != 2 || got[0].Degree != "Bachelor" || got[1].Degree != "DUT" {
		t.Fatalf("disqualify = %+v", got)
	}
}

func TestYearRange(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Master 2018-2020", "2018-2020"},
		{"since 2016 - présent", "2016 - présent"},
		{"graduated in 2019 with honors", "2019"},
		{"no years", ""},
	}
	for _, tt := range tests {
		if got := YearRange(tt.text); got != tt.want {
			t.Fatalf("YearRange(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestStatusExtractor(t *testing.T) {
	lx := testLexicon(t)
	tests := []struct {
		name     string
		text     string
		want     string
		wantConf float64
	}{
		{"tie goes to lexicon order", "Student looking for an internship", "looking_for_internship", StatusWeight},
		{"most matches wins", "Student. Currently working at OCP, currently employed full stack", "currently_employed", 2 * StatusWeight},
		{"confidence capped", "student student student student", "student", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok, err := NewStatusExtractor(lx, nil).Extract(context.Background(), english(tt.text))
			if err != nil || !ok {
				t.Fatalf("Extract = %v, %v", ok, err)
			}
			if c.Value != tt.want || c.Confidence != tt.wantConf {
				t.Fatalf("Extract = %q (%.2f), want %q (%.2f)", c.Value, c.Confidence, tt.want, tt.wantConf)
			}
		})
	}
}

func TestStatusExtractorMiss(t *testing.T) {
	if _, ok, _ := NewStatusExtractor(testLexicon(t), nil).Extract(context.Background(), english("Go, SQL")); ok {
		t.Fatalf("Extract found a status in plain skills")
	}
}

func TestOccupationExtractor(t *testing.T) {
	lx := testLexicon(t)
	tests := []struct {
		name string
		text string
		want Occupation
	}{
		{"explicit level", "Senior software engineer at OCP. Software developer at Capgemini.", Occupation{Name: "software_engineer", Level: "senior"}},
		{"student from degree", "Software developer intern, master in computer science", Occupation{Name: "software_engineer", Level: "student"}},
		{"no level", "Data analyst at a bank", Occupation{Name: "data_scientist"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok, err := NewOccupationExtractor(lx, nil).Extract(context.Background(), english(tt.text))
			if err != nil || !ok {
				t.Fatalf("Extract = %v, %v", ok, err)
			}
			if c.Value != tt.want {
				t.Fatalf("Extract = %+v, want %+v", c.Value, tt.want)
			}
		})
	}
}

func TestJobTitleExtractor(t *testing.T) {
	e := NewJobTitleExtractor(testLexicon(t))
	c, ok, err := e.Extract(context.Background(), Input{Text: "Ingénieur logiciel chez OCP", Language: textnorm.French})
	if err != nil || !ok {
		t.Fatalf("Extract = %v, %v", ok, err)
	}
	if c.Value != "Software Engineer" {
		t.Fatalf("Extract = %q, want Software Engineer", c.Value)
	}
	if _, ok, _ := e.Extract(context.Background(), english("short")); ok {
		t.Fatalf("Extract matched a line below the minimum length")
	}
}

func TestStatusPhraseExtractor(t *testing.T) {
	e := NewStatusPhraseExtractor(testLexicon(t))
	text := "PROFILE\nFinal year engineering student pursuing a master degree in data science\nSKILLS\nGo"
	c, ok, err := e.Extract(context.Background(), english(text))
	if err != nil || !ok {
		t.Fatalf("Extract = %v, %v", ok, err)
	}
	want := "final year engineering student pursuing a master degree in data science"
	if c.Value != want {
		t.Fatalf("Extract = %q, want %q", c.Value, want)
	}
}

func TestCleanStatusPhrase(t *testing.T) {
	cutoff := []string{" and ", ","}
	tests := []struct {
		in   string
		want string
	}{
		{"currently   pursuing a master degree in computer science and working part time", "currently pursuing a master degree in computer science"},
		{"student and intern", "student and intern"},
		{"seeking an internship, ", "seeking an internship"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := CleanStatusPhrase(tt.in, cutoff); got != tt.want {
			t.Fatalf("CleanStatusPhrase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := CleanStatusPhrase(strings.Repeat("word ", 60), nil)
	if !strings.HasSuffix(long, "...") || utf8.RuneCountInString(long) > StatusPhraseMaxLen+3 {
		t.Fatalf("long phrase = %q", long)
	}
}

func TestSkillsExtractor(t *testing.T) {
	e := NewSkillsExtractor(testLexicon(t))
	c, ok, err := e.Extract(context.Background(), english("SKILLS\nPython, Docker • Kubernetes\nLANGUAGES\nEnglish"))
	if err != nil || !ok {
		t.Fatalf("Extract = %v, %v", ok, err)
	}
	want := []string{"Docker", "Kubernetes", "Python"}
	if !reflect.DeepEqual(c.Value, want) || c.Strategy != "skills_section" {
		t.Fatalf("Extract = %v (%s), want %v (skills_section)", c.Value, c.Strategy, want)
	}
}

func TestExperienceYears(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Experience: 2017 - present", 8},
		{"5+ years building APIs", 5},
		{"3 years of experience, over 4 years in teams", 4},
		{"since 2020", 5},
		{"2015 - 2019 at OCP", 4},
		{"60 years of experience", 0},
		{"nothing here", 0},
	}
	for _, tt := range tests {
		if got := ExperienceYears(tt.text, 2025); got != tt.want {
			t.Fatalf("ExperienceYears(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestExperienceExtractorUsesClock(t *testing.T) {
	clock := func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	e := NewExperienceExtractor(testLexicon(t), clock, nil)
	c, ok, err := e.Extract(context.Background(), english("Experience: 2017 - present"))
	if err != nil || !ok {
		t.Fatalf("Extract = %v, %v", ok, err)
	}
	if c.Value != 8 {
		t.Fatalf("Extract = %d, want 8", c.Value)
	}
}

func TestExperienceExtractorSectionOnly(t *testing.T) {
	clock := func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	e := NewExperienceExtractor(testLexicon(t), clock, nil)

	tests := []struct {
		name string
		text string
		want int
	}{
		{"education dates only", "EDUCATION\nLicence en Informatique 2015-2020\nSKILLS\nPython", 0},
		{"since without header", "PROFILE\nStudent since 2019", 0},
		{"header line tail", "Experience: 2017 - present", 8},
		{"prose mention before header", "Strong experience in banking.\nEXPERIENCE\nDeveloper at OCP, 2019 - 2023\nEDUCATION\nMaster 2010-2018", 4},
		{"french header", "EXPÉRIENCES PROFESSIONNELLES\nStage chez Inwi 2021 - 2022\nFORMATION\nLicence 2015-2020", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok, err := e.Extract(context.Background(), english(tt.text))
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if tt.want == 0 {
				if ok {
					t.Fatalf("Extract = %d, want miss", c.Value)
				}
				return
			}
			if !ok || c.Value != tt.want {
				t.Fatalf("Extract = %d (%v), want %d", c.Value, ok, tt.want)
			}
			if c.Strategy != "experience_section" {
				t.Fatalf("Strategy = %q", c.Strategy)
			}
		})
	}
}
