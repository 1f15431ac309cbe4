package recommend

import (
	"cmp"
	"slices"
	"time"

	"github.com/spigell/jobfit/internal/filtering"
	"github.com/spigell/jobfit/internal/model"
)

// TrendingWindow is how far back applications count towards trending.
const TrendingWindow = 7 * 24 * time.Hour

type TrendingJob struct {
	Job          model.JobPosting `json:"job"`
	Applications int              `json:"applications"`
}

// Trending ranks eligible postings by the number of applications received
// within TrendingWindow. counts maps job id to that number. Ties prefer the
// newer posting, then input order.
func (s *Scorer) Trending(jobs []model.JobPosting, counts map[int64]int, limit int) []TrendingJob {
	if limit < 1 {
		limit = DefaultLimit
	}

	eligible := filtering.Run(s.logger(), []filtering.Filter{filtering.NewLifecycle(s.now())}, jobs)

	ranked := make([]TrendingJob, 0, len(eligible))
	for _, job := range eligible {
		ranked = append(ranked, TrendingJob{Job: job, Applications: counts[job.ID]})
	}

	slices.SortStableFunc(ranked, func(a, b TrendingJob) int {
		if c := cmp.Compare(b.Applications, a.Applications); c != 0 {
			return c
		}
		return b.Job.PostedAt.Compare(a.Job.PostedAt)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
