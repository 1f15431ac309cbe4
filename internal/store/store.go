// Package store reads seeker profiles, job postings and applications from the
// portal database. The engines never write through it.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/model"
)

// ErrNotFound is returned when a requested profile or job does not exist.
var ErrNotFound = errors.New("not found")

const defaultJobLimit = 200

type Store interface {
	GetSeekerProfile(ctx context.Context, id int64) (*model.SeekerProfile, error)
	ListOpenJobs(ctx context.Context, filter JobFilter) ([]model.JobPosting, error)
	GetJob(ctx context.Context, id int64) (*model.JobPosting, error)
	ListApplicationsBySeeker(ctx context.Context, seekerID int64) ([]model.ApplicationRecord, error)
	// CountRecentApplications returns application counts per job since the given time.
	CountRecentApplications(ctx context.Context, since time.Time) (map[int64]int, error)
	Close()
}

// JobFilter narrows ListOpenJobs. Zero values mean no restriction.
type JobFilter struct {
	Category string
	Type     model.JobType
	Limit    int
}

func (f JobFilter) limit() int {
	if f.Limit <= 0 {
		return defaultJobLimit
	}
	return f.Limit
}

type Config struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Open connects to the configured backend. log receives warnings about rows
// that are skipped while listing; nil discards them.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "postgres", "postgresql", "pgx":
		return NewPostgres(ctx, cfg.DSN, log)
	case "sqlite", "sqlite3", "":
		return NewSQLite(ctx, cfg.DSN, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// jobRow is a posting as read from either backend before list columns are
// decoded.
type jobRow struct {
	id           int64
	title        string
	description  string
	requirements string
	location     string
	jobType      string
	category     string
	skills       string
	status       string
	postedAt     time.Time
	deadline     *time.Time
	hasCompany   bool
	company      model.CompanyInfo
}

func (r jobRow) posting() model.JobPosting {
	job := model.JobPosting{
		ID:           r.id,
		Title:        r.title,
		Description:  r.description,
		Requirements: r.requirements,
		Location:     r.location,
		Type:         model.JobType(r.jobType),
		Category:     r.category,
		Skills:       model.ParseStringList(r.skills),
		Status:       model.JobStatus(r.status),
		PostedAt:     r.postedAt,
		Deadline:     r.deadline,
	}
	if r.hasCompany {
		company := r.company
		job.Company = &company
	}
	return job
}

// jobColumns lists the selected posting columns. cast is appended to columns
// that may be enums or JSON in Postgres and is empty for SQLite.
func jobColumns(cast string) string {
	return fmt.Sprintf(`j.id, j.title, COALESCE(j.description, ''), COALESCE(j.requirements, ''),
	COALESCE(j.location, ''), COALESCE(j.type%[1]s, ''), COALESCE(j.category, ''),
	COALESCE(j.skills%[1]s, ''), j.status%[1]s, j.posted_at, j.deadline,
	c.id IS NOT NULL, COALESCE(c.company_name, ''), COALESCE(c.industry, ''),
	COALESCE(c.size, ''), COALESCE(c.location, '')`, cast)
}

const jobFrom = `FROM jobs j LEFT JOIN company_profiles c ON c.id = j.company_id`

// skipRow reports a posting that could not be decoded. Listing goes on
// without it.
func skipRow(log *zap.Logger, err error) {
	log.Warn("skipping unreadable job row", zap.Error(err))
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
