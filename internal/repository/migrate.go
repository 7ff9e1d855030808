package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// CandidatesColumns holds the columns for the "candidates" table.
	CandidatesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "name", Type: field.TypeString, Nullable: true, Size: 200},
		{Name: "email", Type: field.TypeString, Nullable: true, Size: 254},
		{Name: "phone", Type: field.TypeString, Nullable: true, Size: 32},
		{Name: "city", Type: field.TypeString, Nullable: true, Size: 100},
		{Name: "status", Type: field.TypeString, Nullable: true, Size: 64},
		{Name: "occupation", Type: field.TypeString, Nullable: true, Size: 100},
		{Name: "level", Type: field.TypeString, Nullable: true, Size: 32},
		{Name: "job_title", Type: field.TypeString, Nullable: true, Size: 200},
		{Name: "status_phrase", Type: field.TypeString, Nullable: true, Size: 255},
		{Name: "language", Type: field.TypeString, Size: 16},
		{Name: "experience_years", Type: field.TypeInt},
		{Name: "pdf_path", Type: field.TypeString, Size: 1024},
		{Name: "created_at", Type: field.TypeTime},
	}
	CandidatesTable = &schema.Table{
		Name:       "candidates",
		Columns:    CandidatesColumns,
		PrimaryKey: []*schema.Column{CandidatesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "candidates_email", Columns: []*schema.Column{CandidatesColumns[2]}},
			{Name: "candidates_city", Columns: []*schema.Column{CandidatesColumns[4]}},
		},
	}

	// DegreesColumns holds the columns for the "degrees" table.
	DegreesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "candidate_id", Type: field.TypeUUID},
		{Name: "position", Type: field.TypeInt},
		{Name: "degree", Type: field.TypeString, Size: 100},
		{Name: "field", Type: field.TypeString, Nullable: true, Size: 200},
		{Name: "institution", Type: field.TypeString, Nullable: true, Size: 200},
		{Name: "year_range", Type: field.TypeString, Nullable: true, Size: 32},
		{Name: "source", Type: field.TypeString, Size: 64},
		{Name: "confidence", Type: field.TypeFloat64},
	}
	DegreesTable = &schema.Table{
		Name:       "degrees",
		Columns:    DegreesColumns,
		PrimaryKey: []*schema.Column{DegreesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "degrees_candidates_degrees",
				Columns:    []*schema.Column{DegreesColumns[1]},
				RefColumns: []*schema.Column{CandidatesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "degrees_candidate_id", Columns: []*schema.Column{DegreesColumns[1]}},
		},
	}

	// SkillsColumns holds the columns for the "skills" table.
	SkillsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "candidate_id", Type: field.TypeUUID},
		{Name: "position", Type: field.TypeInt},
		{Name: "name", Type: field.TypeString, Size: 100},
	}
	SkillsTable = &schema.Table{
		Name:       "skills",
		Columns:    SkillsColumns,
		PrimaryKey: []*schema.Column{SkillsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "skills_candidates_skills",
				Columns:    []*schema.Column{SkillsColumns[1]},
				RefColumns: []*schema.Column{CandidatesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "skills_candidate_id", Columns: []*schema.Column{SkillsColumns[1]}},
		},
	}

	// ExtractJobsColumns holds the columns for the "extract_jobs" table.
	ExtractJobsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "file_path", Type: field.TypeString, Size: 1024},
		{Name: "content_hash", Type: field.TypeString, Size: 64},
		{Name: "candidate_id", Type: field.TypeUUID, Nullable: true},
		{Name: "status", Type: field.TypeString, Size: 16},
		{Name: "error_message", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "finished_at", Type: field.TypeTime, Nullable: true},
	}
	ExtractJobsTable = &schema.Table{
		Name:       "extract_jobs",
		Columns:    ExtractJobsColumns,
		PrimaryKey: []*schema.Column{ExtractJobsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "extract_jobs_candidates_jobs",
				Columns:    []*schema.Column{ExtractJobsColumns[3]},
				RefColumns: []*schema.Column{CandidatesColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "extract_jobs_content_hash_status", Columns: []*schema.Column{ExtractJobsColumns[2], ExtractJobsColumns[4]}},
			{Name: "extract_jobs_started_at", Columns: []*schema.Column{ExtractJobsColumns[6]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		CandidatesTable,
		DegreesTable,
		SkillsTable,
		ExtractJobsTable,
	}
)

func init() {
	DegreesTable.ForeignKeys[0].RefTable = CandidatesTable
	SkillsTable.ForeignKeys[0].RefTable = CandidatesTable
	ExtractJobsTable.ForeignKeys[0].RefTable = CandidatesTable
}

// Migrate creates or upgrades the tables. It is safe to run on every start.
func (db *DB) Migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(db.drv)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		db.logger.Error("schema migration failed", "error", err)
		return fmt.Errorf("migrate: %w", err)
	}
	db.logger.Info("schema migrated", "tables", len(Tables))
	return nil
}
