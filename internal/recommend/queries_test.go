package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spigell/jobfit/internal/model"
)

func jobIDs[T any](items []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}

func TestTrending(t *testing.T) {
	t.Parallel()

	jobs := []model.JobPosting{
		{ID: 1, Status: model.StatusOpen, PostedAt: daysAgo(3)},
		{ID: 2, Status: model.StatusOpen, PostedAt: daysAgo(1)},
		{ID: 3, Status: model.StatusClosed, PostedAt: daysAgo(1)},
		{ID: 4, Status: model.StatusOpen, PostedAt: daysAgo(2)},
		{ID: 5, Status: model.StatusOpen, PostedAt: daysAgo(9)},
	}
	counts := map[int64]int{1: 4, 2: 4, 3: 50, 4: 9}

	got := newTestScorer().Trending(jobs, counts, 3)

	assert.Equal(t, []int64{4, 2, 1}, jobIDs(got, func(j TrendingJob) int64 { return j.Job.ID }))
	assert.Equal(t, 9, got[0].Applications)
}

func TestSimilar(t *testing.T) {
	t.Parallel()

	reference := &model.JobPosting{
		ID: 1, Title: "Frontend Developer", Category: "Engineering", Type: model.TypeFullTime,
		Skills: []string{"react", "typescript"}, Status: model.StatusOpen,
	}
	candidates := []model.JobPosting{
		*reference,
		{ID: 2, Title: "Data Scientist", Category: "engineering", Type: model.TypeContract, Skills: []string{"python"}, Status: model.StatusOpen},
		{ID: 3, Title: "UI Engineer", Category: "Design", Type: model.TypeFullTime, Skills: []string{"react", "css"}, Status: model.StatusOpen},
		{ID: 4, Title: "Frontend Lead", Category: "Management", Type: model.TypePartTime, Skills: []string{"react", "typescript"}, Status: model.StatusOpen},
		{ID: 5, Title: "Accountant", Category: "Finance", Type: model.TypePartTime, Skills: []string{"excel"}, Status: model.StatusOpen},
		{ID: 6, Title: "Frontend Developer", Category: "Engineering", Skills: []string{"react"}, Status: model.StatusClosed},
	}

	got := newTestScorer().Similar(reference, candidates, 0)

	assert.Equal(t, []int64{4, 3, 2}, jobIDs(got, func(j SimilarJob) int64 { return j.Job.ID }))
	assert.Equal(t, 1.0, got[0].Similarity)
	assert.Equal(t, 0.5, got[1].Similarity)
	assert.Equal(t, 0.0, got[2].Similarity)

	assert.Empty(t, newTestScorer().Similar(nil, candidates, 5))
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	profile := &model.SeekerProfile{Skills: []string{"Go", "Kubernetes", "PostgreSQL"}}
	jobs := []model.JobPosting{
		{ID: 1, Title: "Accountant", Skills: []string{"excel"}, Status: model.StatusOpen},
		{ID: 2, Title: "Platform Engineer", Skills: []string{"kubernetes", "terraform"}, Status: model.StatusOpen},
		{ID: 3, Title: "Database Engineer", Skills: []string{"postgresql", "kubernetes"}, Status: model.StatusOpen},
		{ID: 4, Title: "Cook", Skills: nil, Status: model.StatusOpen},
	}

	got := newTestScorer().Suggest(profile, jobs, 3)

	assert.Equal(t, []int64{3, 2, 1}, jobIDs(got, func(s Suggestion) int64 { return s.Job.ID }))
	assert.Equal(t, 0.0, got[2].Score)
}
