// Package ats estimates how well a resume will pass applicant tracking
// systems, for structured profiles and for free resume text.
package ats

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spigell/jobfit/internal/model"
)

const (
	weightSkills       = 40
	weightCompleteness = 25
	weightKeywords     = 20
	weightFormat       = 15

	// formatScore is fixed: generated resumes always use ATS-safe templates.
	formatScore = 0.8

	neutralSkills   = 0.8
	neutralKeywords = 0.5

	summaryMinLength  = 50
	densityTarget     = 5
	lowScoreThreshold = 0.6
	maxMissingSkills  = 3
	maxOptimizations  = 5
)

// Input is the structured resume being scored.
type Input struct {
	Skills        []string
	Summary       string
	HasExperience bool
	HasEducation  bool
	JobSkills     []string
	Keywords      *model.KeywordSet
}

type Breakdown struct {
	Skills       float64 `json:"skills"`
	Completeness float64 `json:"completeness"`
	Keywords     float64 `json:"keywords"`
	Format       float64 `json:"format"`
}

type Score struct {
	Total         int                  `json:"total"`
	Breakdown     Breakdown            `json:"breakdown"`
	Optimizations []model.Optimization `json:"optimizations"`
}

// ScoreResume computes the weighted ATS score and the ordered list of
// improvements, at most five.
func ScoreResume(in Input) Score {
	opts := make([]model.Optimization, 0, maxOptimizations)

	var technical []string
	if in.Keywords != nil {
		technical = in.Keywords.Technical
	}

	required := model.NormalizeSkills(append(append([]string{}, in.JobSkills...), technical...))
	skills := neutralSkills
	if len(required) > 0 {
		matched, missing := coverage(in.Skills, required)
		skills = float64(len(matched)) / float64(len(required))
		if skills < lowScoreThreshold {
			opts = append(opts, model.Optimization{
				Type:     "skills",
				Priority: model.PriorityHigh,
				Message:  fmt.Sprintf("Add these key skills: %s", strings.Join(missing[:min(maxMissingSkills, len(missing))], ", ")),
				Impact:   "High impact on ATS ranking",
			})
		}
	}

	completeness := 0.0
	if in.HasExperience {
		completeness += 0.4
	} else {
		opts = append(opts, model.Optimization{
			Type:     "experience",
			Priority: model.PriorityHigh,
			Message:  "Add work experience section",
			Impact:   "Critical for ATS parsing",
		})
	}
	if in.HasEducation {
		completeness += 0.3
	} else {
		opts = append(opts, model.Optimization{
			Type:     "education",
			Priority: model.PriorityMedium,
			Message:  "Add education section",
			Impact:   "Improves ATS compatibility",
		})
	}
	summary := strings.TrimSpace(in.Summary)
	if utf8.RuneCountInString(summary) > summaryMinLength {
		completeness += 0.3
	} else {
		opts = append(opts, model.Optimization{
			Type:     "summary",
			Priority: model.PriorityMedium,
			Message:  "Add professional summary (50+ words)",
			Impact:   "Helps ATS understand your profile",
		})
	}

	density := neutralKeywords
	if summary != "" && len(technical) > 0 {
		lower := strings.ToLower(summary)
		count := 0
		for _, kw := range technical {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" && strings.Contains(lower, kw) {
				count++
			}
		}
		density = math.Min(float64(count)/densityTarget, 1)
		if density < lowScoreThreshold {
			opts = append(opts, model.Optimization{
				Type:     "keywords",
				Priority: model.PriorityMedium,
				Message:  "Include more job-relevant keywords in summary",
				Impact:   "Improves keyword matching score",
			})
		}
	}

	total := skills*weightSkills + completeness*weightCompleteness + density*weightKeywords + formatScore*weightFormat

	if len(opts) > maxOptimizations {
		opts = opts[:maxOptimizations]
	}

	return Score{
		Total: int(math.Max(0, math.Min(100, math.Round(total)))),
		Breakdown: Breakdown{
			Skills:       round2(skills),
			Completeness: round2(completeness),
			Keywords:     round2(density),
			Format:       formatScore,
		},
		Optimizations: opts,
	}
}

// coverage splits required into skills satisfied by have (bidirectional
// substring match) and the rest.
func coverage(have, required []string) (matched, missing []string) {
	h := model.NormalizeSkills(have)
	for _, req := range required {
		found := false
		for _, skill := range h {
			if strings.Contains(skill, req) || strings.Contains(req, skill) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}
	return matched, missing
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
