package ats

import (
	"fmt"
	"math"
	"strings"

	"github.com/spigell/jobfit/internal/model"
)

const (
	maxLineLength      = 100
	tabPenalty         = 10
	longLinePenalty    = 5
	sectionPoints      = 20
	neutralKeywordText = 50
	maxMissingKeywords = 10
	maxRecommendations = 5
)

type FormattingCheck struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
}

type KeywordCheck struct {
	Score   int      `json:"score"`
	Found   []string `json:"found"`
	Missing []string `json:"missing"`
}

type Sections struct {
	Contact    bool `json:"contact"`
	Summary    bool `json:"summary"`
	Experience bool `json:"experience"`
	Education  bool `json:"education"`
	Skills     bool `json:"skills"`
}

func (s Sections) count() int {
	n := 0
	for _, present := range []bool{s.Contact, s.Summary, s.Experience, s.Education, s.Skills} {
		if present {
			n++
		}
	}
	return n
}

type Recommendation struct {
	Priority model.Priority `json:"priority"`
	Message  string         `json:"message"`
	Action   string         `json:"action,omitempty"`
}

type Analysis struct {
	OverallScore    int              `json:"overall_score"`
	Formatting      FormattingCheck  `json:"formatting"`
	Keywords        KeywordCheck     `json:"keywords"`
	Sections        Sections         `json:"sections"`
	SectionScore    int              `json:"section_score"`
	Recommendations []Recommendation `json:"recommendations"`
}

// AnalyzeText scores free resume text. keywords may be nil when there is no
// target posting; the keyword score is then a neutral 50.
func AnalyzeText(text string, keywords *model.KeywordSet) Analysis {
	formatting := checkFormatting(text)
	kw, hasContext := checkKeywords(text, keywords)
	sections := detectSections(text)
	sectionScore := sections.count() * sectionPoints

	overall := int(math.Round(float64(formatting.Score)*0.2 + float64(kw.Score)*0.4 + float64(sectionScore)*0.4))

	recs := make([]Recommendation, 0, maxRecommendations)
	if overall < 70 {
		recs = append(recs, Recommendation{
			Priority: model.PriorityCritical,
			Message:  "Resume needs significant optimization for ATS compatibility",
			Action:   "Focus on keyword optimization and formatting",
		})
	}
	if hasContext && kw.Score < 60 && len(kw.Missing) > 0 {
		recs = append(recs, Recommendation{
			Priority: model.PriorityHigh,
			Message:  fmt.Sprintf("Add missing keywords: %s", strings.Join(kw.Missing[:min(5, len(kw.Missing))], ", ")),
		})
	}
	if !sections.Summary {
		recs = append(recs, Recommendation{
			Priority: model.PriorityMedium,
			Message:  "Add a professional summary section",
			Action:   "Include 2-3 sentences highlighting your key qualifications",
		})
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}

	return Analysis{
		OverallScore:    overall,
		Formatting:      formatting,
		Keywords:        kw,
		Sections:        sections,
		SectionScore:    sectionScore,
		Recommendations: recs,
	}
}

func checkFormatting(text string) FormattingCheck {
	check := FormattingCheck{Score: 100, Issues: []string{}}
	if strings.Contains(text, "\t") {
		check.Score -= tabPenalty
		check.Issues = append(check.Issues, "Avoid using tabs - use spaces instead")
	}
	for _, line := range strings.Split(text, "\n") {
		if len([]rune(strings.TrimRight(line, "\r"))) > maxLineLength {
			check.Score -= longLinePenalty
			check.Issues = append(check.Issues, "Some lines are too long - keep under 100 characters")
			break
		}
	}
	return check
}

func checkKeywords(text string, keywords *model.KeywordSet) (KeywordCheck, bool) {
	check := KeywordCheck{Score: neutralKeywordText, Found: []string{}, Missing: []string{}}
	all := model.Dedupe(keywords.All())
	if len(all) == 0 {
		return check, false
	}

	lower := strings.ToLower(text)
	for _, kw := range all {
		if strings.Contains(lower, strings.ToLower(kw)) {
			check.Found = append(check.Found, kw)
		} else {
			check.Missing = append(check.Missing, kw)
		}
	}

	check.Score = int(math.Round(float64(len(check.Found)) / float64(len(all)) * 100))
	if len(check.Missing) > maxMissingKeywords {
		check.Missing = check.Missing[:maxMissingKeywords]
	}
	return check, true
}

func detectSections(text string) Sections {
	lower := strings.ToLower(text)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	return Sections{
		Contact:    strings.Contains(lower, "@") && strings.Contains(lower, "phone"),
		Summary:    has("summary", "objective"),
		Experience: has("experience", "work"),
		Education:  has("education", "degree"),
		Skills:     has("skills", "technical"),
	}
}
