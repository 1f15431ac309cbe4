package recommend

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/spigell/jobfit/internal/filtering"
	"github.com/spigell/jobfit/internal/model"
)

const DefaultSuggestLimit = 5

type Suggestion struct {
	Job   model.JobPosting `json:"job"`
	Score float64          `json:"score"`
}

// Suggest is a lightweight overlap ranking used for quick suggestions. It
// compares seeker skill tokens with posting skill and title tokens using
// 2*common/(|seeker|+|posting|). When fewer than limit postings share a
// token the list is filled with the remaining postings in input order.
func (s *Scorer) Suggest(profile *model.SeekerProfile, candidates []model.JobPosting, limit int) []Suggestion {
	if limit < 1 {
		limit = DefaultSuggestLimit
	}

	eligible := filtering.Run(s.logger(), []filtering.Filter{filtering.NewLifecycle(s.now())}, candidates)

	var seeker map[string]struct{}
	if profile != nil {
		seeker = tokenSet(profile.Skills)
	}

	scored := make([]Suggestion, 0, len(eligible))
	rest := make([]Suggestion, 0)
	for _, job := range eligible {
		tokens := tokenSet(append(append([]string{}, job.Skills...), job.Title))
		common := 0
		for t := range tokens {
			if _, ok := seeker[t]; ok {
				common++
			}
		}
		if common == 0 {
			rest = append(rest, Suggestion{Job: job})
			continue
		}
		score := 2 * float64(common) / float64(len(seeker)+len(tokens))
		scored = append(scored, Suggestion{Job: job, Score: round2(score)})
	}

	slices.SortStableFunc(scored, func(a, b Suggestion) int {
		return cmp.Compare(b.Score, a.Score)
	})

	for _, r := range rest {
		if len(scored) >= limit {
			break
		}
		scored = append(scored, r)
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// tokenSet splits values into lower-case words longer than two characters.
// Characters common in skill names such as '.', '+' and '#' are kept.
func tokenSet(values []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, v := range values {
		words := strings.FieldsFunc(strings.ToLower(v), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '+' && r != '#'
		})
		for _, w := range words {
			w = strings.Trim(w, ".")
			if len(w) > 2 {
				set[w] = struct{}{}
			}
		}
	}
	return set
}
