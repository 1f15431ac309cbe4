// Package keywords pulls ATS keywords out of job postings, asking the
// generative collaborator first and falling back to fixed vocabularies.
package keywords

import (
	"context"
	_ "embed"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/ai"
	"github.com/spigell/jobfit/internal/logger"
	"github.com/spigell/jobfit/internal/model"
	"github.com/spigell/jobfit/internal/utils"
)

const (
	// DefaultBudget bounds the generative path.
	DefaultBudget = 8 * time.Second

	minDescriptionForAI = 50
	promptTextLimit     = 200
	maxTokens           = 400
)

//go:embed prompt.md
var promptTemplate string

var errEmptyKeywords = errors.New("response contained no keywords")

// Job is the posting text keywords are extracted from.
type Job struct {
	Title        string
	Description  string
	Requirements string
	Skills       []string
}

// FromPosting builds a Job from a stored posting.
func FromPosting(p *model.JobPosting) Job {
	if p == nil {
		return Job{}
	}
	return Job{
		Title:        p.Title,
		Description:  p.Description,
		Requirements: p.Requirements,
		Skills:       p.Skills,
	}
}

type Extractor struct {
	completer ai.Completer
	budget    time.Duration
	logger    *zap.Logger
}

// NewExtractor returns an Extractor. A nil completer disables the generative path.
func NewExtractor(completer ai.Completer, budget time.Duration, logger *zap.Logger) *Extractor {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{completer: completer, budget: budget, logger: logger}
}

type aiKeywords struct {
	Technical    []string `json:"technical"`
	Soft         []string `json:"soft"`
	Action       []string `json:"action"`
	Requirements []string `json:"requirements"`
}

// Extract never fails: any generative failure degrades to Fallback.
func (e *Extractor) Extract(ctx context.Context, job Job) model.KeywordSet {
	job.Description = utils.PlainText(job.Description)
	job.Requirements = utils.PlainText(job.Requirements)

	if e != nil && e.completer != nil && utf8.RuneCountInString(strings.TrimSpace(job.Description)) > minDescriptionForAI {
		set, err := e.extractAI(ctx, job)
		if err == nil {
			return set
		}
		e.logger.Warn("keyword extraction fell back to vocabulary",
			logger.Kind(ai.KindOf(err)),
			zap.Error(err),
		)
	}

	return Fallback(job)
}

func (e *Extractor) extractAI(ctx context.Context, job Job) (model.KeywordSet, error) {
	raw, err := ai.CompleteWithin(ctx, e.completer, buildPrompt(job), maxTokens, e.budget)
	if err != nil {
		return model.KeywordSet{}, err
	}

	var parsed aiKeywords
	if err := ai.DecodeJSON(raw, &parsed); err != nil {
		e.logger.Debug("keyword response is not json", logger.Response(raw))
		return model.KeywordSet{}, err
	}

	set := model.KeywordSet{
		Technical:    model.NormalizeSkills(parsed.Technical),
		Soft:         model.NormalizeSkills(parsed.Soft),
		Action:       model.Dedupe(parsed.Action),
		Requirements: model.Dedupe(parsed.Requirements),
		Source:       model.SourceAI,
	}
	if len(set.Technical) == 0 && len(set.Soft) == 0 {
		return model.KeywordSet{}, &ai.Error{Kind: ai.KindMalformed, Err: errEmptyKeywords}
	}

	set.Technical = mergeSkills(set.Technical, job.Skills)
	if len(set.Action) == 0 {
		set.Action = matchVerbs(strings.ToLower(job.Title + " " + job.Description + " " + job.Requirements))
	}
	return set, nil
}

func buildPrompt(job Job) string {
	text := strings.TrimSpace(job.Description)
	if runes := []rune(text); len(runes) > promptTextLimit {
		text = string(runes[:promptTextLimit])
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job: {{TITLE}}\nText: {{TEXT}}\nJSON only: {\"technical\":[...],\"soft\":[...]}"
	}
	prompt := strings.ReplaceAll(template, "{{TITLE}}", strings.TrimSpace(job.Title))
	return strings.ReplaceAll(prompt, "{{TEXT}}", text)
}

// Fallback extracts keywords with the fixed vocabularies. Matching is a
// case-insensitive substring test over title, description and requirements.
func Fallback(job Job) model.KeywordSet {
	text := strings.ToLower(strings.Join([]string{
		job.Title,
		utils.PlainText(job.Description),
		utils.PlainText(job.Requirements),
	}, " "))
	skills := model.NormalizeSkills(job.Skills)

	technical := make([]string, 0)
	for _, kw := range technicalVocabulary {
		if strings.Contains(text, kw) || anyContains(skills, kw) {
			technical = append(technical, kw)
		}
	}

	soft := make([]string, 0)
	for _, kw := range softVocabulary {
		if strings.Contains(text, kw) {
			soft = append(soft, kw)
		}
	}

	requirements := make([]string, 0)
	original := strings.Join([]string{job.Description, job.Requirements}, " ")
	for _, re := range requirementPatterns {
		requirements = append(requirements, re.FindAllString(original, -1)...)
	}

	return model.KeywordSet{
		Technical:    mergeSkills(technical, job.Skills),
		Soft:         model.Dedupe(soft),
		Action:       matchVerbs(text),
		Requirements: model.Dedupe(requirements),
		Source:       model.SourceFallback,
	}
}

func matchVerbs(lowerText string) []string {
	verbs := make([]string, 0)
	for _, verb := range actionVocabulary {
		if strings.Contains(lowerText, strings.ToLower(verb)) {
			verbs = append(verbs, verb)
		}
	}
	return verbs
}

// mergeSkills appends the posting's structured skills to the technical list.
func mergeSkills(technical []string, skills []string) []string {
	merged := append(append([]string{}, technical...), model.NormalizeSkills(skills)...)
	return model.Dedupe(merged)
}

func anyContains(items []string, sub string) bool {
	for _, item := range items {
		if strings.Contains(item, sub) {
			return true
		}
	}
	return false
}
