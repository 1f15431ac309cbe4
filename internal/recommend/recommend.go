// Package recommend ranks open postings for a seeker with a weighted,
// explainable score and answers trending and similar-job queries.
package recommend

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/filtering"
	"github.com/spigell/jobfit/internal/logger"
	"github.com/spigell/jobfit/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Scorer computes recommendation scores. The zero value is ready to use.
type Scorer struct {
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

// New returns a Scorer logging to log.
func New(log *zap.Logger) *Scorer {
	return &Scorer{Logger: log}
}

func (s *Scorer) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scorer) logger() *zap.Logger {
	if s != nil && s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// Result is a ranked list of eligible postings.
type Result struct {
	Matches []model.MatchResult `json:"matches"`
	// Total is the number of eligible postings before pagination.
	Total int `json:"total"`
}

// Pipeline returns the eligibility steps Recommend runs: open postings past
// no deadline, not yet applied to and not explicitly excluded. Callers may
// disable steps by name before passing them to Rank.
func (s *Scorer) Pipeline(appliedJobIDs []int64, exclude ...int64) []filtering.Filter {
	return []filtering.Filter{
		filtering.NewLifecycle(s.now()),
		filtering.NewAppliedHistory(appliedJobIDs),
		filtering.NewExclude(exclude...),
	}
}

// Recommend drops ineligible and already applied postings, scores the rest
// and sorts them by descending score. Equal scores keep input order.
func (s *Scorer) Recommend(profile *model.SeekerProfile, candidates []model.JobPosting, appliedJobIDs []int64) Result {
	return s.Rank(profile, candidates, s.Pipeline(appliedJobIDs))
}

// Rank is Recommend with a caller supplied eligibility pipeline.
func (s *Scorer) Rank(profile *model.SeekerProfile, candidates []model.JobPosting, steps []filtering.Filter) Result {
	now := s.now()
	log := s.logger()
	if profile != nil {
		log = log.With(logger.Seeker(profile.ID))
	}

	eligible := filtering.Run(log, steps, candidates)

	matches := make([]model.MatchResult, 0, len(eligible))
	for i := range eligible {
		matches = append(matches, s.score(log, profile, &eligible[i], now))
	}

	slices.SortStableFunc(matches, func(a, b model.MatchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})

	log.Debug("recommendations scored",
		zap.Int("candidates", len(candidates)),
		zap.Int("eligible", len(matches)),
	)

	return Result{Matches: matches, Total: len(matches)}
}

// Score computes the match of a single posting without eligibility checks.
func (s *Scorer) Score(profile *model.SeekerProfile, job *model.JobPosting) model.MatchResult {
	return s.score(s.logger(), profile, job, s.now())
}

func (s *Scorer) score(log *zap.Logger, profile *model.SeekerProfile, job *model.JobPosting, now time.Time) model.MatchResult {
	if profile == nil {
		profile = &model.SeekerProfile{}
	}
	log = log.With(logger.Job(job.ID))

	var matched []string
	skills := safeFactor(log, "skills", func() float64 {
		v, m := SkillsMatch(profile.Skills, job.Skills)
		matched = m
		return v
	})
	experience := safeFactor(log, "experience", func() float64 {
		return ExperienceMatch(profile.ExperienceYears, BandFor(job))
	})
	location := safeFactor(log, "location", func() float64 {
		return LocationMatch(profile.Location, job)
	})
	recency := safeFactor(log, "recency", func() float64 {
		return Recency(job.PostedAt, now)
	})
	bonus := safeFactor(log, "industry", func() float64 {
		return IndustryBonus(job.Industry())
	})

	if matched == nil {
		matched = []string{}
	}

	factors := model.MatchFactors{
		Skills:        factor(skills, WeightSkills),
		Experience:    factor(experience, WeightExperience),
		Location:      factor(location, WeightLocation),
		Recency:       factor(recency, WeightRecency),
		IndustryBonus: bonus,
		MatchedSkills: matched,
	}

	total := skills*WeightSkills + experience*WeightExperience + location*WeightLocation + recency*WeightRecency + bonus

	return model.MatchResult{
		Job:     *job,
		Score:   clamp(round2(total), 0, 100),
		Factors: factors,
	}
}

func factor(value float64, weight float64) model.Factor {
	return model.Factor{Value: round2(value), Points: round2(value * weight)}
}

// safeFactor evaluates fn, turning a panic into a zero contribution.
func safeFactor(log *zap.Logger, name string, fn func() float64) (v float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("scoring factor failed", zap.String("factor", name), zap.String("panic", fmt.Sprint(r)))
			v = 0
		}
	}()
	return fn()
}

// Pagination describes a page of results.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns the requested page. Non-positive page or limit use defaults.
func Paginate[T any](items []T, page, limit int) ([]T, Pagination) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	total := len(items)
	meta := Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}

	start := (page - 1) * limit
	if start >= total {
		return []T{}, meta
	}
	end := min(start+limit, total)
	return items[start:end], meta
}
