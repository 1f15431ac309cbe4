// Package optimizer assembles ATS-optimized resumes from a seeker profile and
// an optional target posting. Generated prose is optional: every step has a
// deterministic fallback so Build always returns a usable resume.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/ai"
	"github.com/spigell/jobfit/internal/ats"
	"github.com/spigell/jobfit/internal/keywords"
	"github.com/spigell/jobfit/internal/logger"
	"github.com/spigell/jobfit/internal/model"
)

const (
	summaryBudget    = 5 * time.Second
	summaryMaxTokens = 150

	noteSummaryFallback  = "summary generated using fallback templates"
	noteKeywordsFallback = "keywords extracted with built-in vocabulary"
)

// ErrInvalidInput is returned when a request carries no seeker profile.
var ErrInvalidInput = errors.New("seeker profile is required")

// Sections are the resume parts supplied by the seeker.
type Sections struct {
	Experience []model.Experience `json:"experience" mapstructure:"experience"`
	Education  []model.Education  `json:"education" mapstructure:"education"`
}

type Request struct {
	Profile    *model.SeekerProfile
	Job        *model.JobPosting
	TemplateID string
	Sections   Sections
	// TargetTitle shapes the summary when no posting is targeted.
	TargetTitle string
}

type Builder struct {
	completer ai.Completer
	extractor *keywords.Extractor
	logger    *zap.Logger
}

// New returns a Builder. A nil completer keeps every step on its
// deterministic path; a nil extractor is created from completer.
func New(completer ai.Completer, extractor *keywords.Extractor, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	if extractor == nil {
		extractor = keywords.NewExtractor(completer, 0, log)
	}
	return &Builder{completer: completer, extractor: extractor, logger: log}
}

// Build runs summary generation, skills ordering, experience bullets and ATS
// scoring. It fails only on invalid input.
func (b *Builder) Build(ctx context.Context, req Request) (model.OptimizedResume, error) {
	if req.Profile == nil {
		return model.OptimizedResume{}, ErrInvalidInput
	}
	profile := req.Profile
	log := logger.WithFields(b.logger, logger.Seeker(profile.ID))

	var (
		kw     model.KeywordSet
		notes  []string
		target *model.TargetJob
	)
	if req.Job != nil {
		log = log.With(logger.Job(req.Job.ID))
		kw = b.extractor.Extract(ctx, keywords.FromPosting(req.Job))
		if kw.Source == model.SourceFallback {
			notes = append(notes, noteKeywordsFallback)
		}
		target = &model.TargetJob{ID: req.Job.ID, Title: req.Job.Title, Company: req.Job.CompanyName()}
	}

	relevant := relevantSkills(kw.Technical, profile.Skills)

	in := summaryInput{title: req.TargetTitle, years: profile.ExperienceYears, skills: relevant}
	if req.Job != nil {
		in = summaryInput{title: req.Job.Title, company: req.Job.CompanyName(), years: profile.ExperienceYears, skills: relevant, forJob: true}
	}
	summary, generated := b.summary(ctx, log, in)
	if !generated {
		notes = append(notes, noteSummaryFallback)
	}

	var jobSkills []string
	jobTitle := req.TargetTitle
	if req.Job != nil {
		jobSkills = req.Job.Skills
		jobTitle = req.Job.Title
	}

	skills := OptimizeSkills(profile.Skills, jobSkills, kw.Technical)
	experience := ExperienceBullets(req.Sections.Experience, kw, jobTitle, profile.Skills)
	education := append([]model.Education{}, req.Sections.Education...)
	tmpl := ResolveTemplate(req.TemplateID)

	var kwRef *model.KeywordSet
	if req.Job != nil {
		kwRef = &kw
	}
	score := ats.ScoreResume(ats.Input{
		Skills:        skills,
		Summary:       summary,
		HasExperience: len(req.Sections.Experience) > 0,
		HasEducation:  len(education) > 0,
		JobSkills:     jobSkills,
		Keywords:      kwRef,
	})

	log.Debug("resume assembled",
		zap.String("template", tmpl.ID),
		zap.Int("ats_score", score.Total),
		zap.Int("skills", len(skills)),
		zap.Strings("notes", notes),
	)

	return model.OptimizedResume{
		PersonalInfo: model.PersonalInfo{
			Name:     profile.Name,
			Email:    profile.Email,
			Phone:    profile.Phone,
			Location: profile.Location,
			Summary:  summary,
		},
		Skills:        skills,
		Experience:    experience,
		Education:     education,
		Template:      tmpl.ID,
		ATSScore:      score.Total,
		Optimizations: score.Optimizations,
		Keywords:      kwRef,
		TargetJob:     target,
		Notes:         notes,
	}, nil
}

// summaryInput is what a summary prompt and its template are built from.
// forJob switches to the posting-specific prompt naming title and company.
type summaryInput struct {
	title   string
	company string
	years   int
	skills  []string
	forJob  bool
}

func (in summaryInput) prompt() string {
	if in.forJob {
		return fmt.Sprintf("%s at %s, %d years experience, skills: %s\n\nWrite 2-sentence professional summary:",
			in.title, in.company, in.years, strings.Join(in.skills[:min(2, len(in.skills))], ", "))
	}
	title := strings.TrimSpace(in.title)
	if title == "" {
		title = "Professional"
	}
	return fmt.Sprintf("Write a professional summary:\n\nRole: %s\nExperience: %d years\nSkills: %s\n\nCreate 2 sentences showing expertise and value. Start immediately:",
		title, in.years, strings.Join(in.skills[:min(4, len(in.skills))], ", "))
}

func (in summaryInput) template() string {
	if in.forJob {
		return summaryTemplate(in.title, in.company, in.years, in.skills)
	}
	return profileSummary(in.years, in.skills, in.title, "")
}

// summary returns the generated summary when it passes acceptance, and the
// templated one otherwise. The bool reports which was used.
func (b *Builder) summary(ctx context.Context, log *zap.Logger, in summaryInput) (string, bool) {
	if b.completer == nil {
		return in.template(), false
	}

	prompt := in.prompt()
	log.Debug("requesting summary", logger.Prompt(prompt))

	raw, err := ai.CompleteWithin(ctx, b.completer, prompt, summaryMaxTokens, summaryBudget)
	if err != nil {
		log.Warn("summary generation failed, using template", logger.Kind(ai.KindOf(err)), zap.Error(err))
		return in.template(), false
	}

	text, ok := ai.Accept(raw, ai.SummaryRules)
	if !ok {
		log.Warn("generated summary rejected, using template", logger.Response(raw))
		return in.template(), false
	}
	return text, true
}

// relevantSkills prefers the posting's technical keywords and falls back to
// the seeker's own skills, at most five.
func relevantSkills(technical, seeker []string) []string {
	src := technical
	if len(src) == 0 {
		src = model.Dedupe(seeker)
	}
	return append([]string(nil), src[:min(5, len(src))]...)
}
