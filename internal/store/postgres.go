package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/model"
)

type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres creates and verifies a pgxpool connection pool.
func NewPostgres(ctx context.Context, databaseURL string, log *zap.Logger) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return &Postgres{pool: pool, logger: orNop(log)}, nil
}

func (p *Postgres) Close() { p.pool.Close() }

func (p *Postgres) GetSeekerProfile(ctx context.Context, id int64) (*model.SeekerProfile, error) {
	var (
		profile model.SeekerProfile
		skills  string
	)
	err := p.pool.QueryRow(ctx, `SELECT id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(phone, ''),
		COALESCE(location, ''), COALESCE(bio, ''), COALESCE(skills::text, ''), COALESCE(experience, 0)
		FROM job_seeker_profiles WHERE id = $1`, id).Scan(
		&profile.ID, &profile.Name, &profile.Email, &profile.Phone,
		&profile.Location, &profile.Bio, &skills, &profile.ExperienceYears,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("seeker profile %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query seeker profile %d: %w", id, err)
	}

	profile.Skills = model.ParseStringList(skills)
	return &profile, nil
}

func (p *Postgres) GetJob(ctx context.Context, id int64) (*model.JobPosting, error) {
	row := p.pool.QueryRow(ctx, "SELECT "+jobColumns("::text")+" "+jobFrom+" WHERE j.id = $1", id)
	job, err := scanPostgresJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query job %d: %w", id, err)
	}
	return &job, nil
}

func (p *Postgres) ListOpenJobs(ctx context.Context, filter JobFilter) ([]model.JobPosting, error) {
	query := "SELECT " + jobColumns("::text") + " " + jobFrom + ` WHERE j.status::text = 'open'
		AND ($1 = '' OR j.category = $1) AND ($2 = '' OR j.type::text = $2)
		ORDER BY j.posted_at DESC, j.id LIMIT $3`

	rows, err := p.pool.Query(ctx, query, filter.Category, string(filter.Type), filter.limit())
	if err != nil {
		return nil, fmt.Errorf("query open jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.JobPosting, 0)
	for rows.Next() {
		job, err := scanPostgresJob(rows)
		if err != nil {
			skipRow(p.logger, err)
			continue
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate open jobs: %w", err)
	}
	return jobs, nil
}

func (p *Postgres) ListApplicationsBySeeker(ctx context.Context, seekerID int64) ([]model.ApplicationRecord, error) {
	rows, err := p.pool.Query(ctx, `SELECT job_seeker_id, job_id, applied_at
		FROM job_applications WHERE job_seeker_id = $1 ORDER BY applied_at DESC`, seekerID)
	if err != nil {
		return nil, fmt.Errorf("query applications for seeker %d: %w", seekerID, err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ApplicationRecord, error) {
		var r model.ApplicationRecord
		err := row.Scan(&r.SeekerID, &r.JobID, &r.AppliedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect applications for seeker %d: %w", seekerID, err)
	}
	return records, nil
}

func (p *Postgres) CountRecentApplications(ctx context.Context, since time.Time) (map[int64]int, error) {
	rows, err := p.pool.Query(ctx, `SELECT job_id, COUNT(*) FROM job_applications
		WHERE applied_at >= $1 GROUP BY job_id`, since)
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

func scanPostgresJob(row pgx.Row) (model.JobPosting, error) {
	var r jobRow
	err := row.Scan(
		&r.id, &r.title, &r.description, &r.requirements,
		&r.location, &r.jobType, &r.category,
		&r.skills, &r.status, &r.postedAt, &r.deadline,
		&r.hasCompany, &r.company.Name, &r.company.Industry,
		&r.company.Size, &r.company.Location,
	)
	if err != nil {
		return model.JobPosting{}, err
	}
	return r.posting(), nil
}
