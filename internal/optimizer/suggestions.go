package optimizer

import (
	"context"
	"fmt"
	"strings"
)

const noteContentFallback = "generated using enhanced templates"

// ContentRequest describes the role content suggestions are written for.
// Zero values default to a one year "Professional" in Technology.
type ContentRequest struct {
	JobTitle string
	Years    int
	Skills   []string
	Industry string
}

type ContentSuggestions struct {
	BulletPoints     []string `json:"bullet_points"`
	SummaryTemplates []string `json:"summary_templates"`
	SkillSuggestions []string `json:"skill_suggestions"`
	ActionVerbs      []string `json:"action_verbs"`
	Note             string   `json:"note,omitempty"`
}

// ContentSuggestions bundles starter material for a resume editor: bullets
// and summaries filled with the seeker's skills, skills to add and action
// verbs. Only the skill list may be generated; Note is set when it was not.
func (b *Builder) ContentSuggestions(ctx context.Context, req ContentRequest) ContentSuggestions {
	title := strings.TrimSpace(req.JobTitle)
	if title == "" {
		title = "Professional"
	}
	years := req.Years
	if years <= 0 {
		years = 1
	}
	industry := strings.TrimSpace(req.Industry)
	if industry == "" {
		industry = "Technology"
	}

	skills, generated := b.suggestSkills(ctx, req.Skills, title, industry)
	out := ContentSuggestions{
		BulletPoints:     starterBullets(req.Skills, years),
		SummaryTemplates: starterSummaries(title, years, req.Skills),
		SkillSuggestions: skills,
		ActionVerbs:      ActionVerbs(industry, title),
	}
	if !generated {
		out.Note = noteContentFallback
	}
	return out
}

// starterBullets scale their metrics with experience.
func starterBullets(skills []string, years int) []string {
	primary, secondary := "modern technology", "development tools"
	if len(skills) > 0 {
		primary, secondary = skills[0], skills[0]
	}
	if len(skills) > 1 {
		secondary = skills[1]
	}

	metric := max(15, min(years*10, 50))
	users := "10,000"
	switch {
	case years < 2:
		users = "1,000"
	case years < 4:
		users = "5,000"
	}

	return []string{
		fmt.Sprintf("Built scalable %s application serving %s+ daily active users with 99.9%% uptime", primary, users),
		fmt.Sprintf("Developed efficient %s components reducing page load time by %d%% and improving user engagement", secondary, metric),
		fmt.Sprintf("Led team of %d developers implementing %s architecture that increased system performance by %d%%", min(years+2, 8), primary, metric+10),
		fmt.Sprintf("Optimized %s workflows cutting deployment time from hours to minutes using automated CI/CD pipeline", primary),
		fmt.Sprintf("Created reusable %s component library adopted by %d development teams across organization", secondary, years/2+2),
	}
}

func starterSummaries(title string, years int, skills []string) []string {
	primary, secondary := "technology", "development"
	if len(skills) > 0 {
		primary = skills[0]
	}
	if len(skills) > 1 {
		secondary = skills[1]
	}

	experience := fmt.Sprintf("%d years", years)
	if years == 1 {
		experience = "1 year"
	}

	return []string{
		fmt.Sprintf("%s with %s of experience in %s and %s. Focused on building efficient, scalable solutions that deliver business value.",
			title, experience, primary, secondary),
		fmt.Sprintf("%s %s specializing in %s development. Proven ability to deliver high-quality solutions and collaborate effectively with cross-functional teams.",
			experience, title, primary),
		fmt.Sprintf("Dedicated %s with expertise in %s and passion for %s. %s of experience creating user-centered applications and driving technical innovation.",
			title, primary, secondary, capitalize(experience)),
	}
}
