package recommend

import (
	"cmp"
	"slices"
	"strings"

	"github.com/spigell/jobfit/internal/filtering"
	"github.com/spigell/jobfit/internal/model"
)

const DefaultSimilarLimit = 5

type SimilarJob struct {
	Job        model.JobPosting `json:"job"`
	Similarity float64          `json:"similarity"`
}

// Similar finds eligible postings related to reference: same category, same
// type, or a title containing the first word of the reference title.
// Similarity is the share of a candidate's skills covered by the reference skills.
func (s *Scorer) Similar(reference *model.JobPosting, candidates []model.JobPosting, limit int) []SimilarJob {
	if reference == nil {
		return []SimilarJob{}
	}
	if limit < 1 {
		limit = DefaultSimilarLimit
	}

	steps := []filtering.Filter{
		filtering.NewLifecycle(s.now()),
		filtering.NewExclude(reference.ID),
	}
	eligible := filtering.Run(s.logger(), steps, candidates)

	category := strings.ToLower(strings.TrimSpace(reference.Category))
	firstToken := ""
	if fields := strings.Fields(strings.ToLower(reference.Title)); len(fields) > 0 {
		firstToken = fields[0]
	}

	similar := make([]SimilarJob, 0, len(eligible))
	for _, job := range eligible {
		related := (category != "" && strings.EqualFold(strings.TrimSpace(job.Category), category)) ||
			(reference.Type != "" && job.Type == reference.Type) ||
			(firstToken != "" && strings.Contains(strings.ToLower(job.Title), firstToken))
		if !related {
			continue
		}

		value, _ := SkillsMatch(reference.Skills, job.Skills)
		similar = append(similar, SimilarJob{Job: job, Similarity: round2(value)})
	}

	slices.SortStableFunc(similar, func(a, b SimilarJob) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})

	if len(similar) > limit {
		similar = similar[:limit]
	}
	return similar
}
