package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/spigell/jobfit/internal/model"
)

//go:embed schema.sql
var sqliteSchema string

// SQLite serves a local portal snapshot, mostly for development and tests.
type SQLite struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLite opens (or creates) the database at path and bootstraps the schema.
func NewSQLite(ctx context.Context, path string, log *zap.Logger) (*SQLite, error) {
	if path == "" {
		path = "jobfit.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir %s: %w", filepath.Dir(path), err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}
	return &SQLite{db: db, logger: orNop(log)}, nil
}

func (s *SQLite) Close() { s.db.Close() }

func (s *SQLite) GetSeekerProfile(ctx context.Context, id int64) (*model.SeekerProfile, error) {
	var (
		profile model.SeekerProfile
		skills  string
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(phone, ''),
		COALESCE(location, ''), COALESCE(bio, ''), COALESCE(skills, ''), COALESCE(experience, 0)
		FROM job_seeker_profiles WHERE id = ?`, id).Scan(
		&profile.ID, &profile.Name, &profile.Email, &profile.Phone,
		&profile.Location, &profile.Bio, &skills, &profile.ExperienceYears,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("seeker profile %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query seeker profile %d: %w", id, err)
	}

	profile.Skills = model.ParseStringList(skills)
	return &profile, nil
}

func (s *SQLite) GetJob(ctx context.Context, id int64) (*model.JobPosting, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+jobColumns("")+" "+jobFrom+" WHERE j.id = ?", id)
	job, err := scanSQLiteJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query job %d: %w", id, err)
	}
	return &job, nil
}

func (s *SQLite) ListOpenJobs(ctx context.Context, filter JobFilter) ([]model.JobPosting, error) {
	query := "SELECT " + jobColumns("") + " " + jobFrom + ` WHERE j.status = 'open'
		AND (?1 = '' OR j.category = ?1) AND (?2 = '' OR j.type = ?2)
		ORDER BY j.posted_at DESC, j.id LIMIT ?3`

	rows, err := s.db.QueryContext(ctx, query, filter.Category, string(filter.Type), filter.limit())
	if err != nil {
		return nil, fmt.Errorf("query open jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.JobPosting, 0)
	for rows.Next() {
		job, err := scanSQLiteJob(rows)
		if err != nil {
			skipRow(s.logger, err)
			continue
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate open jobs: %w", err)
	}
	return jobs, nil
}

func (s *SQLite) ListApplicationsBySeeker(ctx context.Context, seekerID int64) ([]model.ApplicationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT job_seeker_id, job_id, applied_at
		FROM job_applications WHERE job_seeker_id = ? ORDER BY applied_at DESC`, seekerID)
	if err != nil {
		return nil, fmt.Errorf("query applications for seeker %d: %w", seekerID, err)
	}
	defer rows.Close()

	records := make([]model.ApplicationRecord, 0)
	for rows.Next() {
		var (
			r         model.ApplicationRecord
			appliedAt string
		)
		if err := rows.Scan(&r.SeekerID, &r.JobID, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		if r.AppliedAt, err = parseTime(appliedAt); err != nil {
			return nil, fmt.Errorf("application for job %d: %w", r.JobID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLite) CountRecentApplications(ctx context.Context, since time.Time) (map[int64]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT job_id, COUNT(*) FROM job_applications
		WHERE applied_at >= ? GROUP BY job_id`, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("count recent applications: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var (
			jobID int64
			count int
		)
		if err := rows.Scan(&jobID, &count); err != nil {
			return nil, fmt.Errorf("scan application count: %w", err)
		}
		counts[jobID] = count
	}
	return counts, rows.Err()
}

// Fixture is a portal snapshot that can be loaded into a SQLite store.
type Fixture struct {
	Companies    []FixtureCompany          `json:"companies"`
	Profiles     []model.SeekerProfile     `json:"profiles"`
	Jobs         []FixtureJob              `json:"jobs"`
	Applications []model.ApplicationRecord `json:"applications"`
}

type FixtureCompany struct {
	ID int64 `json:"id"`
	model.CompanyInfo
}

type FixtureJob struct {
	model.JobPosting
	CompanyID int64 `json:"company_id,omitempty"`
}

// Load inserts the fixture in a single transaction. Rows keep their ids.
func (s *SQLite) Load(ctx context.Context, f Fixture) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range f.Companies {
		if _, err := tx.ExecContext(ctx, `INSERT INTO company_profiles (id, company_name, industry, size, location)
			VALUES (?, ?, ?, ?, ?)`, nullID(c.ID), c.Name, c.Industry, c.Size, c.Location); err != nil {
			return fmt.Errorf("insert company %d: %w", c.ID, err)
		}
	}

	for _, p := range f.Profiles {
		skills, err := json.Marshal(p.Skills)
		if err != nil {
			return fmt.Errorf("encode skills for profile %d: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO job_seeker_profiles (id, name, email, phone, location, bio, skills, experience)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			nullID(p.ID), p.Name, p.Email, p.Phone, p.Location, p.Bio, string(skills), p.ExperienceYears); err != nil {
			return fmt.Errorf("insert profile %d: %w", p.ID, err)
		}
	}

	for _, j := range f.Jobs {
		skills, err := json.Marshal(j.Skills)
		if err != nil {
			return fmt.Errorf("encode skills for job %d: %w", j.ID, err)
		}
		var deadline any
		if j.Deadline != nil {
			deadline = formatTime(*j.Deadline)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO jobs (id, company_id, title, description, requirements,
			location, type, category, skills, status, posted_at, deadline)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			nullID(j.ID), nullID(j.CompanyID), j.Title, j.Description, j.Requirements, j.Location, string(j.Type),
			j.Category, string(skills), string(j.Status), formatTime(j.PostedAt), deadline); err != nil {
			return fmt.Errorf("insert job %d: %w", j.ID, err)
		}
	}

	for _, a := range f.Applications {
		if _, err := tx.ExecContext(ctx, `INSERT INTO job_applications (job_id, job_seeker_id, applied_at)
			VALUES (?, ?, ?)`, a.JobID, a.SeekerID, formatTime(a.AppliedAt)); err != nil {
			return fmt.Errorf("insert application %d/%d: %w", a.SeekerID, a.JobID, err)
		}
	}

	return tx.Commit()
}

func scanSQLiteJob(row interface{ Scan(...any) error }) (model.JobPosting, error) {
	var (
		r        jobRow
		posted   string
		deadline sql.NullString
	)
	err := row.Scan(
		&r.id, &r.title, &r.description, &r.requirements,
		&r.location, &r.jobType, &r.category,
		&r.skills, &r.status, &posted, &deadline,
		&r.hasCompany, &r.company.Name, &r.company.Industry,
		&r.company.Size, &r.company.Location,
	)
	if err != nil {
		return model.JobPosting{}, err
	}

	if r.postedAt, err = parseTime(posted); err != nil {
		return model.JobPosting{}, fmt.Errorf("job %d posted_at: %w", r.id, err)
	}
	if deadline.Valid && deadline.String != "" {
		d, err := parseTime(deadline.String)
		if err != nil {
			return model.JobPosting{}, fmt.Errorf("job %d deadline: %w", r.id, err)
		}
		r.deadline = &d
	}
	return r.posting(), nil
}

// nullID lets SQLite assign ids that a fixture leaves out.
func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// Timestamps are stored as UTC RFC 3339 text so they sort lexically.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
