package model

// Factor is a single weighted component of a recommendation score.
type Factor struct {
	Value  float64 `json:"value"`
	Points float64 `json:"points"`
}

type MatchFactors struct {
	Skills        Factor   `json:"skills"`
	Experience    Factor   `json:"experience"`
	Location      Factor   `json:"location"`
	Recency       Factor   `json:"recency"`
	IndustryBonus float64  `json:"industry_bonus"`
	MatchedSkills []string `json:"matched_skills"`
}

type MatchResult struct {
	Job     JobPosting   `json:"job"`
	Score   float64      `json:"score"`
	Factors MatchFactors `json:"factors"`
}

// Source tells whether content came from the generative collaborator or
// from deterministic fallback logic.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

type KeywordSet struct {
	Technical    []string `json:"technical"`
	Soft         []string `json:"soft"`
	Action       []string `json:"action"`
	Requirements []string `json:"requirements"`
	Source       Source   `json:"source,omitempty"`
}

// All returns technical followed by soft keywords.
func (k *KeywordSet) All() []string {
	if k == nil {
		return nil
	}
	all := make([]string, 0, len(k.Technical)+len(k.Soft))
	all = append(all, k.Technical...)
	return append(all, k.Soft...)
}

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

type Optimization struct {
	Type     string   `json:"type"`
	Priority Priority `json:"priority"`
	Message  string   `json:"message"`
	Impact   string   `json:"impact,omitempty"`
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Summary  string `json:"summary"`
}

type Experience struct {
	Title      string   `json:"title"`
	Company    string   `json:"company,omitempty"`
	Duration   string   `json:"duration,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

type TargetJob struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Company string `json:"company,omitempty"`
}

type OptimizedResume struct {
	PersonalInfo  PersonalInfo   `json:"personal_info"`
	Skills        []string       `json:"skills"`
	Experience    []Experience   `json:"experience"`
	Education     []Education    `json:"education"`
	Template      string         `json:"template"`
	ATSScore      int            `json:"ats_score"`
	Optimizations []Optimization `json:"optimizations"`
	Keywords      *KeywordSet    `json:"keywords,omitempty"`
	TargetJob     *TargetJob     `json:"target_job,omitempty"`
	Notes         []string       `json:"notes,omitempty"`
}
