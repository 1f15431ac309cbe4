package optimizer

import (
	"fmt"
	"strings"

	"github.com/spigell/jobfit/internal/keywords"
	"github.com/spigell/jobfit/internal/model"
)

const (
	maxSkills          = 15
	maxSuggestedSkills = 3
	maxBullets         = 6
)

// OptimizeSkills orders seeker skills so the ones a posting asks for come
// first, then appends up to three required skills the seeker did not list.
// The result is deduplicated and holds at most 15 entries.
func OptimizeSkills(seekerSkills, jobSkills, technical []string) []string {
	seeker := model.Dedupe(seekerSkills)
	required := model.NormalizeSkills(append(append([]string{}, jobSkills...), technical...))

	matched := make([]string, 0, len(seeker))
	others := make([]string, 0, len(seeker))
	for _, skill := range seeker {
		lower := strings.ToLower(skill)
		hit := false
		for _, req := range required {
			if strings.Contains(lower, req) || strings.Contains(req, lower) {
				hit = true
				break
			}
		}
		if hit {
			matched = append(matched, skill)
		} else {
			others = append(others, skill)
		}
	}

	suggested := make([]string, 0, maxSuggestedSkills)
	for _, req := range required {
		if len(suggested) == maxSuggestedSkills {
			break
		}
		covered := false
		for _, skill := range seeker {
			if strings.Contains(strings.ToLower(skill), req) {
				covered = true
				break
			}
		}
		if !covered {
			suggested = append(suggested, req)
		}
	}

	out := model.Dedupe(append(append(matched, others...), suggested...))
	if len(out) > maxSkills {
		out = out[:maxSkills]
	}
	return out
}

// summaryTemplate is used when generated text is unavailable or rejected.
func summaryTemplate(title, company string, years int, skills []string) string {
	var b strings.Builder
	if years > 0 {
		fmt.Fprintf(&b, "%d+ years ", years)
	}
	b.WriteString(strings.TrimSpace(title))
	if top := skills[:min(2, len(skills))]; len(top) > 0 {
		fmt.Fprintf(&b, " specializing in %s", strings.Join(top, ", "))
	}
	if company = strings.TrimSpace(company); company == "" {
		company = "the company"
	}
	fmt.Fprintf(&b, " passionate about creating innovative solutions for %s. ", company)
	b.WriteString("Dedicated to delivering high-quality code and exceptional user experiences.")
	return capitalize(b.String())
}

// profileSummary is the deterministic summary used when no posting is
// targeted. A title without a posting still shapes the closing sentence.
func profileSummary(years int, skills []string, title, company string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Experienced professional with %d+ years of expertise in ", max(years, 0))

	top := skills[:min(5, len(skills))]
	switch {
	case len(top) == 0:
		b.WriteString("software development and technology solutions")
	case len(top) > 3:
		fmt.Fprintf(&b, "%s, and %s", strings.Join(top[:3], ", "), strings.Join(top[3:], ", "))
	default:
		b.WriteString(strings.Join(top, ", "))
	}
	b.WriteString(". ")

	if title = strings.TrimSpace(title); title == "" {
		b.WriteString("Passionate about delivering high-quality solutions and driving business growth through technology.")
		return b.String()
	}
	fmt.Fprintf(&b, "Seeking to leverage proven skills in %s role ", title)
	if company = strings.TrimSpace(company); company != "" {
		fmt.Fprintf(&b, "at %s ", company)
	}
	b.WriteString("to drive innovation and deliver exceptional results.")
	return b.String()
}

// bulletTemplates build experience bullets from a verb and a skills phrase.
var bulletTemplates = []func(verb, skills string) string{
	func(verb, skills string) string { return fmt.Sprintf("%s scalable solutions using %s", verb, skills) },
	func(verb, _ string) string {
		return fmt.Sprintf("%s user-facing features that improved engagement by 25%%", verb)
	},
	func(verb, _ string) string { return fmt.Sprintf("%s and maintained APIs serving 10,000+ daily users", verb) },
	func(verb, _ string) string {
		return fmt.Sprintf("%s a cross-functional team of 5 in an agile environment", verb)
	},
}

// ExperienceBullets rewrites supplied experience entries around action verbs
// and the posting's technical keywords. Without entries it returns a single
// suggested entry built from templates.
func ExperienceBullets(entries []model.Experience, kw model.KeywordSet, fallbackTitle string, seekerSkills []string) []model.Experience {
	verbs := kw.Action
	if len(verbs) == 0 {
		verbs = keywords.DefaultActionVerbs
	}

	relevant := kw.Technical[:min(3, len(kw.Technical))]
	if len(relevant) == 0 {
		relevant = seekerSkills[:min(3, len(seekerSkills))]
	}
	skillsPhrase := "modern technologies"
	if len(relevant) > 0 {
		skillsPhrase = strings.Join(relevant, ", ")
	}

	if len(entries) == 0 {
		title := strings.TrimSpace(fallbackTitle)
		if title == "" {
			title = "Professional Experience"
		}
		bullets := make([]string, 0, len(bulletTemplates))
		for i, tmpl := range bulletTemplates {
			bullets = append(bullets, tmpl(verbs[i%len(verbs)], skillsPhrase))
		}
		return []model.Experience{{Title: title, Highlights: bullets}}
	}

	out := make([]model.Experience, 0, len(entries))
	for _, entry := range entries {
		bullets := make([]string, 0, len(entry.Highlights)+1)
		for i, h := range entry.Highlights {
			if h = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(h), "-*• ")); h == "" {
				continue
			}
			bullets = append(bullets, withActionVerb(h, verbs[i%len(verbs)]))
		}

		if len(relevant) > 0 && !mentionsAny(bullets, relevant) {
			bullets = append(bullets, bulletTemplates[0](verbs[len(bullets)%len(verbs)], skillsPhrase))
		}
		if len(bullets) > maxBullets {
			bullets = bullets[:maxBullets]
		}

		entry.Highlights = bullets
		out = append(out, entry)
	}
	return out
}

func withActionVerb(bullet, verb string) string {
	first := strings.Fields(bullet)[0]
	if keywords.IsActionVerb(strings.Trim(first, ",.;:")) {
		return capitalize(bullet)
	}
	return verb + " " + lowerFirst(bullet)
}

func mentionsAny(bullets, terms []string) bool {
	for _, b := range bullets {
		lower := strings.ToLower(b)
		for _, t := range terms {
			if strings.Contains(lower, strings.ToLower(t)) {
				return true
			}
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}

// lowerFirst lower-cases the first letter unless the first word looks like
// an acronym or a proper technology name.
func lowerFirst(s string) string {
	word := strings.Fields(s)[0]
	if strings.ToUpper(word) == word || len(word) < 2 {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToLower(string(r[0])))[0]
	return string(r)
}
