package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/entity"
	"github.com/joseph-ayodele/resume-tracker/internal/utils"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type CandidateRepository interface {
	Create(ctx context.Context, rec *entity.Record) (*entity.Candidate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Candidate, error)
	GetByEmail(ctx context.Context, email string) (*entity.Candidate, error)
	SearchByName(ctx context.Context, name string, limit int) ([]*entity.Candidate, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Candidate, error)
	Filter(ctx context.Context, f entity.CandidateFilter) ([]*entity.Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type candidateRepo struct {
	db  *DB
	log *slog.Logger
	now func() time.Time
}

func NewCandidateRepository(db *DB, log *slog.Logger) CandidateRepository {
	if log == nil {
		log = slog.Default()
	}
	return &candidateRepo{db: db, log: log, now: time.Now}
}

var candidateColumns = []string{
	"id", "name", "email", "phone", "city", "status", "occupation", "level",
	"job_title", "status_phrase", "language", "experience_years", "pdf_path", "created_at",
}

func validateRecord(rec *entity.Record) error {
	v := common.NewValidator()
	v.Field("email", rec.Email, common.Email, common.MaxLength(254)).
		Field("name", rec.Name, common.MaxLength(200)).
		Field("phone", rec.Phone, common.MaxLength(32)).
		Field("experience_years", rec.ExperienceYears, common.NonNegative).
		Field("document_path", rec.DocumentPath, common.Required)
	return v.Error()
}

// Create stores a record with its degrees and skills in one transaction.
func (r *candidateRepo) Create(ctx context.Context, rec *entity.Record) (*entity.Candidate, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: nil record", common.ErrInvalidInput)
	}
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	c := &entity.Candidate{
		ID:              uuid.New(),
		Name:            utils.NilIfEmpty(rec.Name),
		Email:           utils.NilIfEmpty(rec.Email),
		Phone:           utils.NilIfEmpty(rec.Phone),
		City:            utils.NilIfEmpty(rec.City),
		Status:          utils.NilIfEmpty(rec.Status),
		Occupation:      utils.NilIfEmpty(rec.Occupation),
		Level:           utils.NilIfEmpty(rec.Level),
		JobTitle:        utils.NilIfEmpty(rec.JobTitle),
		StatusPhrase:    utils.NilIfEmpty(truncate(rec.StatusPhrase, 255)),
		Language:        rec.Language,
		ExperienceYears: rec.ExperienceYears,
		Degrees:         rec.DegreeStrings(),
		Skills:          append([]string{}, rec.Skills...),
		PDFPath:         rec.DocumentPath,
		CreatedAt:       r.now().UTC().Truncate(time.Microsecond),
	}

	b := entsql.Dialect(r.db.Dialect())
	err := withTx(ctx, r.db.drv, func(tx dialect.Tx) error {
		q, args := b.Insert(CandidatesTable.Name).
			Columns(candidateColumns...).
			Values(c.ID, c.Name, c.Email, c.Phone, c.City, c.Status, c.Occupation, c.Level,
				c.JobTitle, c.StatusPhrase, c.Language, c.ExperienceYears, c.PDFPath, c.CreatedAt).
			Query()
		if err := tx.Exec(ctx, q, args, nil); err != nil {
			return err
		}
		for i, d := range rec.Degrees {
			q, args := b.Insert(DegreesTable.Name).
				Columns("id", "candidate_id", "position", "degree", "field", "institution", "year_range", "source", "confidence").
				Values(uuid.New(), c.ID, i, d.Degree, utils.NilIfEmpty(d.Field), utils.NilIfEmpty(d.Institution),
					utils.NilIfEmpty(d.YearRange), d.Source, d.Confidence).
				Query()
			if err := tx.Exec(ctx, q, args, nil); err != nil {
				return err
			}
		}
		for i, s := range rec.Skills {
			q, args := b.Insert(SkillsTable.Name).
				Columns("id", "candidate_id", "position", "name").
				Values(uuid.New(), c.ID, i, s).
				Query()
			if err := tx.Exec(ctx, q, args, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error("candidate create failed", "path", rec.DocumentPath, "err", err)
		return nil, fmt.Errorf("%w: create candidate: %w", common.ErrDatabase, err)
	}
	r.log.Info("candidate created",
		"candidate_id", c.ID,
		"path", c.PDFPath,
		"degrees", len(rec.Degrees),
		"skills", len(rec.Skills),
	)
	return c, nil
}

func (r *candidateRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Candidate, error) {
	s := r.selectCandidates().Where(entsql.EQ("id", id))
	return r.one(ctx, s, "id "+id.String())
}

// GetByEmail returns the most recent candidate with this email, ignoring case.
func (r *candidateRepo) GetByEmail(ctx context.Context, email string) (*entity.Candidate, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", common.ErrInvalidInput)
	}
	s := r.selectCandidates().
		Where(entsql.EqualFold("email", email)).
		OrderBy(entsql.Desc("created_at")).
		Limit(1)
	return r.one(ctx, s, "email "+email)
}

func (r *candidateRepo) SearchByName(ctx context.Context, name string, limit int) ([]*entity.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrInvalidInput)
	}
	s := r.selectCandidates().
		Where(entsql.ContainsFold("name", name)).
		OrderBy(entsql.Asc("name"), entsql.Desc("created_at"))
	return r.many(ctx, paginate(s, limit, 0))
}

func (r *candidateRepo) List(ctx context.Context, limit, offset int) ([]*entity.Candidate, error) {
	s := r.selectCandidates().OrderBy(entsql.Desc("created_at"), entsql.Asc("id"))
	return r.many(ctx, paginate(s, limit, offset))
}

// Filter applies every non-zero criterion of f. Keyword matches occupation,
// job title, status or status phrase; degree matches degree or field; skill
// and keyword matching ignore case.
func (r *candidateRepo) Filter(ctx context.Context, f entity.CandidateFilter) ([]*entity.Candidate, error) {
	if f.MinExperience < 0 || f.Limit < 0 || f.Offset < 0 {
		return nil, fmt.Errorf("%w: negative filter value", common.ErrInvalidInput)
	}
	b := entsql.Dialect(r.db.Dialect())
	var preds []*entsql.Predicate
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		preds = append(preds, entsql.Or(
			entsql.ContainsFold("occupation", kw),
			entsql.ContainsFold("job_title", kw),
			entsql.ContainsFold("status", kw),
			entsql.ContainsFold("status_phrase", kw),
		))
	}
	if city := strings.TrimSpace(f.City); city != "" {
		preds = append(preds, entsql.EqualFold("city", city))
	}
	if deg := strings.TrimSpace(f.Degree); deg != "" {
		sub := b.Select("candidate_id").From(entsql.Table(DegreesTable.Name)).
			Where(entsql.Or(entsql.ContainsFold("degree", deg), entsql.ContainsFold("field", deg)))
		preds = append(preds, entsql.In("id", sub))
	}
	if skill := strings.TrimSpace(f.Skill); skill != "" {
		sub := b.Select("candidate_id").From(entsql.Table(SkillsTable.Name)).
			Where(entsql.ContainsFold("name", skill))
		preds = append(preds, entsql.In("id", sub))
	}
	if f.MinExperience > 0 {
		preds = append(preds, entsql.GTE("experience_years", f.MinExperience))
	}

	s := r.selectCandidates()
	if len(preds) > 0 {
		s.Where(entsql.And(preds...))
	}
	s.OrderBy(entsql.Desc("experience_years"), entsql.Desc("created_at"), entsql.Asc("id"))
	return r.many(ctx, paginate(s, f.Limit, f.Offset))
}

// Delete removes a candidate; degrees and skills follow by cascade.
func (r *candidateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	q, args := entsql.Dialect(r.db.Dialect()).Delete(CandidatesTable.Name).Where(entsql.EQ("id", id)).Query()
	var res sql.Result
	if err := r.db.drv.Exec(ctx, q, args, &res); err != nil {
		r.log.Error("candidate delete failed", "candidate_id", id, "err", err)
		return fmt.Errorf("%w: delete candidate: %w", common.ErrDatabase, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete candidate: %w", common.ErrDatabase, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: candidate %s", common.ErrNotFound, id)
	}
	r.log.Info("candidate deleted", "candidate_id", id)
	return nil
}

func (r *candidateRepo) Count(ctx context.Context) (int, error) {
	q, args := entsql.Dialect(r.db.Dialect()).Select().Count().From(entsql.Table(CandidatesTable.Name)).Query()
	var n int
	err := query(ctx, r.db.drv, q, args, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: count candidates: %w", common.ErrDatabase, err)
	}
	return n, nil
}

func (r *candidateRepo) selectCandidates() *entsql.Selector {
	return entsql.Dialect(r.db.Dialect()).
		Select(candidateColumns...).
		From(entsql.Table(CandidatesTable.Name))
}

func paginate(s *entsql.Selector, limit, offset int) *entsql.Selector {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	s.Limit(limit)
	if offset > 0 {
		s.Offset(offset)
	}
	return s
}

func (r *candidateRepo) one(ctx context.Context, s *entsql.Selector, what string) (*entity.Candidate, error) {
	list, err := r.many(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: candidate %s", common.ErrNotFound, what)
	}
	return list[0], nil
}

// many loads candidates then their degrees and skills in two more queries.
func (r *candidateRepo) many(ctx context.Context, s *entsql.Selector) ([]*entity.Candidate, error) {
	q, args := s.Query()
	var out []*entity.Candidate
	err := query(ctx, r.db.drv, q, args, func(rows *entsql.Rows) error {
		c, err := scanCandidate(rows)
		if err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: load candidates: %w", common.ErrDatabase, err)
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := r.loadChildren(ctx, out); err != nil {
		return nil, fmt.Errorf("%w: load candidate children: %w", common.ErrDatabase, err)
	}
	return out, nil
}

func (r *candidateRepo) loadChildren(ctx context.Context, cs []*entity.Candidate) error {
	byID := make(map[uuid.UUID]*entity.Candidate, len(cs))
	ids := make([]any, 0, len(cs))
	for _, c := range cs {
		c.Degrees, c.Skills = []string{}, []string{}
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}
	b := entsql.Dialect(r.db.Dialect())

	q, args := b.Select("candidate_id", "degree", "field", "institution", "year_range").
		From(entsql.Table(DegreesTable.Name)).
		Where(entsql.In("candidate_id", ids...)).
		OrderBy(entsql.Asc("candidate_id"), entsql.Asc("position")).
		Query()
	err := query(ctx, r.db.drv, q, args, func(rows *entsql.Rows) error {
		var id uuid.UUID
		var d entity.DegreeEntry
		var field, institution, years sql.NullString
		if err := rows.Scan(&id, &d.Degree, &field, &institution, &years); err != nil {
			return err
		}
		d.Field, d.Institution, d.YearRange = field.String, institution.String, years.String
		if c := byID[id]; c != nil {
			c.Degrees = append(c.Degrees, d.Display())
		}
		return nil
	})
	if err != nil {
		return err
	}

	q, args = b.Select("candidate_id", "name").
		From(entsql.Table(SkillsTable.Name)).
		Where(entsql.In("candidate_id", ids...)).
		OrderBy(entsql.Asc("candidate_id"), entsql.Asc("position")).
		Query()
	return query(ctx, r.db.drv, q, args, func(rows *entsql.Rows) error {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		if c := byID[id]; c != nil {
			c.Skills = append(c.Skills, name)
		}
		return nil
	})
}

func scanCandidate(rows *entsql.Rows) (*entity.Candidate, error) {
	var c entity.Candidate
	var name, email, phone, city, status, occupation, level, jobTitle, statusPhrase sql.NullString
	err := rows.Scan(&c.ID, &name, &email, &phone, &city, &status, &occupation, &level,
		&jobTitle, &statusPhrase, &c.Language, &c.ExperienceYears, &c.PDFPath, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Name, c.Email, c.Phone = nullString(name), nullString(email), nullString(phone)
	c.City, c.Status, c.Occupation = nullString(city), nullString(status), nullString(occupation)
	c.Level, c.JobTitle, c.StatusPhrase = nullString(level), nullString(jobTitle), nullString(statusPhrase)
	return &c, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
