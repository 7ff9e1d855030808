package constants

// JobStatus is the canonical status for rows in extract_jobs.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued    JobStatus = "QUEUED"    // accepted by the ingestor
	JobStatusRunning   JobStatus = "RUNNING"   // in progress
	JobStatusSucceeded JobStatus = "SUCCEEDED" // record stored
	JobStatusFailed    JobStatus = "FAILED"    // terminal failure
	JobStatusSkipped   JobStatus = "SKIPPED"   // same content already processed
)

// CandidateStatus is the employment situation inferred from a résumé.
// Values match the status names of the lexicon.
type CandidateStatus string

const (
	StatusInternship        CandidateStatus = "looking_for_internship"
	StatusFullTime          CandidateStatus = "looking_for_full_time"
	StatusPartTime          CandidateStatus = "looking_for_part_time"
	StatusCurrentlyEmployed CandidateStatus = "currently_employed"
	StatusStudent           CandidateStatus = "student"
	StatusUnemployed        CandidateStatus = "unemployed"
)

// Level is the seniority attached to an occupation.
type Level string

const (
	LevelStudent  Level = "student"
	LevelJunior   Level = "junior"
	LevelSenior   Level = "senior"
	LevelLead     Level = "lead"
	LevelManager  Level = "manager"
	LevelDirector Level = "director"
)

// StudentEducationLevels are the education levels that imply a student when
// no seniority cue is found.
var StudentEducationLevels = map[string]struct{}{
	"bachelor": {},
	"master":   {},
}
