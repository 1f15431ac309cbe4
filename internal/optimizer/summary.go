package optimizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/jobfit/internal/logger"
	"github.com/spigell/jobfit/internal/model"
)

const defaultSummaryYears = 2

// ErrEmptySummary is returned by OptimizeSummary when there is nothing to
// improve.
var ErrEmptySummary = errors.New("current summary is required")

// SummaryRequest asks for a rewrite of an existing summary. Job, when set,
// takes precedence over JobTitle.
type SummaryRequest struct {
	Current  string
	JobTitle string
	Skills   []string
	Years    int
	Job      *model.JobPosting
}

type SummaryResult struct {
	Original     string   `json:"original_summary"`
	Optimized    string   `json:"optimized_summary"`
	Improvements []string `json:"improvement_suggestions,omitempty"`
	Note         string   `json:"note,omitempty"`
}

// OptimizeSummary rewrites a seeker's summary, for a posting when one is
// given. Generation failures fall back to the same templates Build uses.
func (b *Builder) OptimizeSummary(ctx context.Context, req SummaryRequest) (SummaryResult, error) {
	current := strings.TrimSpace(req.Current)
	if current == "" {
		return SummaryResult{}, ErrEmptySummary
	}

	years := req.Years
	if years <= 0 {
		years = defaultSummaryYears
	}
	skills := model.Dedupe(req.Skills)

	log := b.logger
	in := summaryInput{title: req.JobTitle, years: years, skills: skills}
	if req.Job != nil {
		in = summaryInput{title: req.Job.Title, company: req.Job.CompanyName(), years: years, skills: skills, forJob: true}
		log = log.With(logger.Job(req.Job.ID))
	}

	text, generated := b.summary(ctx, log, in)
	result := SummaryResult{Original: current, Optimized: text}
	if req.Job != nil {
		company := req.Job.CompanyName()
		if company == "" {
			company = "target company"
		}
		result.Improvements = []string{
			fmt.Sprintf("Tailored for %s position", req.Job.Title),
			fmt.Sprintf("Optimized for %s", company),
			"Enhanced with relevant keywords and skills",
		}
	}
	if !generated {
		result.Note = noteSummaryFallback
	}
	return result, nil
}
