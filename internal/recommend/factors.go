package recommend

import (
	"math"
	"strings"
	"time"

	"github.com/spigell/jobfit/internal/model"
)

// Weights of each factor in the 0-100 total.
const (
	WeightSkills     = 40
	WeightExperience = 25
	WeightLocation   = 15
	WeightRecency    = 10

	BonusTechIndustry  = 5
	BonusOtherIndustry = 2
)

var techIndustries = []string{"technology", "software", "it", "fintech", "healthtech"}

// SkillsMatch returns the fraction of required skills satisfied by have and
// the required skills that matched. A required skill is satisfied when it
// contains, or is contained in, any skill of have.
func SkillsMatch(have, required []string) (float64, []string) {
	h := model.NormalizeSkills(have)
	r := model.NormalizeSkills(required)
	if len(h) == 0 || len(r) == 0 {
		return 0, []string{}
	}

	matched := make([]string, 0, len(r))
	for _, req := range r {
		for _, skill := range h {
			if strings.Contains(skill, req) || strings.Contains(req, skill) {
				matched = append(matched, req)
				break
			}
		}
	}

	return math.Min(1, float64(len(matched))/float64(len(r))), matched
}

// Band is the experience range expected by a posting.
type Band struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

var (
	BandInternship = Band{Name: "internship", Min: 0, Max: 1}
	BandEntry      = Band{Name: "entry", Min: 0, Max: 2}
	BandMid        = Band{Name: "mid", Min: 2, Max: 5}
	BandSenior     = Band{Name: "senior", Min: 5, Max: 10}
	BandLead       = Band{Name: "lead", Min: 8, Max: 15}
)

// BandFor infers the experience band from the posting type and title.
// Checks run in order: internship, entry, senior, lead; anything else is mid.
func BandFor(job *model.JobPosting) Band {
	if job == nil {
		return BandMid
	}
	title := strings.ToLower(job.Title)

	switch {
	case job.Type == model.TypeInternship || strings.Contains(title, "intern"):
		return BandInternship
	case strings.Contains(title, "junior") || strings.Contains(title, "entry"):
		return BandEntry
	case strings.Contains(title, "senior") || strings.Contains(title, "sr."):
		return BandSenior
	case strings.Contains(title, "lead") || strings.Contains(title, "principal") || strings.Contains(title, "architect"):
		return BandLead
	default:
		return BandMid
	}
}

// ExperienceMatch scores years against band. Falling short costs 0.2 per
// missing year down to 0; exceeding costs 0.1 per extra year down to 0.3.
func ExperienceMatch(years int, band Band) float64 {
	if years < 0 {
		years = 0
	}
	switch {
	case years < band.Min:
		return math.Max(0, 1-0.2*float64(band.Min-years))
	case years > band.Max:
		return math.Max(0.3, 1-0.1*float64(years-band.Max))
	default:
		return 1
	}
}

// LocationMatch compares the seeker location with the posting.
func LocationMatch(seekerLocation string, job *model.JobPosting) float64 {
	if job == nil {
		return 0.5
	}
	jobLoc := strings.ToLower(strings.TrimSpace(job.Location))
	if job.Type == model.TypeRemote || strings.Contains(jobLoc, "remote") {
		return 1
	}

	seeker := strings.ToLower(strings.TrimSpace(seekerLocation))
	if seeker == "" || jobLoc == "" {
		return 0.5
	}
	if seeker == jobLoc {
		return 1
	}
	if strings.Contains(seeker, jobLoc) || strings.Contains(jobLoc, seeker) {
		return 0.8
	}

	seekerParts := splitLocation(seeker)
	jobParts := splitLocation(jobLoc)
	if len(seekerParts) > 1 && len(jobParts) > 1 && seekerParts[len(seekerParts)-1] == jobParts[len(jobParts)-1] {
		return 0.6
	}
	return 0.2
}

func splitLocation(loc string) []string {
	parts := strings.Split(loc, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Recency decays with posting age in days. An unknown date scores 0.5.
func Recency(postedAt, now time.Time) float64 {
	if postedAt.IsZero() {
		return 0.5
	}
	days := now.Sub(postedAt).Hours() / 24
	switch {
	case days <= 7:
		return 1
	case days <= 30:
		return 0.8
	case days <= 60:
		return 0.6
	case days <= 90:
		return 0.4
	default:
		return 0.2
	}
}

// IndustryBonus returns bonus points for the company industry.
func IndustryBonus(industry string) float64 {
	industry = strings.ToLower(strings.TrimSpace(industry))
	if industry == "" {
		return 0
	}
	for _, tech := range techIndustries {
		if strings.Contains(industry, tech) {
			return BonusTechIndustry
		}
	}
	return BonusOtherIndustry
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
