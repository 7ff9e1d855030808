package extract

// Similarity thresholds are on the 0..100 fuzzy scale.
const (
	// CityThreshold is the minimum WRatio for a gazetteer match.
	CityThreshold = 88.0
	// CityMinLen is the shortest unigram or bigram scored against cities.
	CityMinLen = 3

	// DegreeAliasThreshold is the token-set score a line must exceed to name a degree.
	DegreeAliasThreshold = 85.0
	// DegreePartialThreshold is the partial score accepted when the alias is
	// not a literal substring of the line.
	DegreePartialThreshold = 90.0
	// DegreeFieldThreshold is the token-sort score a field of study must exceed.
	DegreeFieldThreshold = 70.0
	// DegreeLenientConfidence is the fixed score of bare-keyword matches.
	DegreeLenientConfidence = 70.0
	// DegreeMinLineLen skips shorter lines.
	DegreeMinLineLen = 5
	// EducationWindow is how many lines before a degree line may hold an
	// education header. The window ends two lines after it.
	EducationWindow = 3
	// DegreeContextWindow is the ± line window searched for field, years
	// and institution.
	DegreeContextWindow = 2
	// InstitutionMinLen rejects institution matches of this length or less.
	InstitutionMinLen = 8

	// SkillThreshold is the minimum WRatio for a vocabulary skill.
	SkillThreshold = 85.0

	// JobTitleThreshold is the minimum token-set score for a canonical title.
	JobTitleThreshold = 80.0
	// JobTitleMinLineLen skips lines this short or shorter.
	JobTitleMinLineLen = 8
)

// Pattern-count weights; confidence is min(1, count × weight).
const (
	StatusWeight     = 0.3
	OccupationWeight = 0.4
)

const (
	// NameTopBlocks is how many blocks, largest font first, are searched for a name.
	NameTopBlocks = 8
	// NameMaxWords bounds the first-line heuristic.
	NameMaxWords = 6

	// ExperienceMaxYears drops implausible claims.
	ExperienceMaxYears = 50

	// StatusPhraseMaxLen truncates status phrases, in characters.
	StatusPhraseMaxLen = 150
	// StatusPhraseMinCut is the earliest position a cutoff word may end a phrase.
	StatusPhraseMinCut = 20
)
