package optimizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/ai"
	"github.com/spigell/jobfit/internal/logger"
	"github.com/spigell/jobfit/internal/model"
)

const (
	suggestBudget    = 3 * time.Second
	suggestMaxTokens = 60
	maxSuggestions   = 5

	bulletBudget    = 5 * time.Second
	bulletMaxTokens = 80

	letterBudget    = 8 * time.Second
	letterMaxTokens = 300
)

// keyed pairs a lower-case title fragment with the values it selects.
type keyed struct {
	key   string
	items []string
}

func lookup(table []keyed, text string) ([]string, bool) {
	text = strings.ToLower(text)
	for _, row := range table {
		if strings.Contains(text, row.key) {
			return row.items, true
		}
	}
	return nil, false
}

// skillTable is consulted in order; the first key found in the title wins.
var skillTable = []keyed{
	{key: "frontend", items: []string{"React", "Vue.js", "TypeScript", "Webpack", "Jest", "Sass"}},
	{key: "backend", items: []string{"Node.js", "Python", "Docker", "PostgreSQL", "Redis", "GraphQL"}},
	{key: "fullstack", items: []string{"JavaScript", "React", "Node.js", "MongoDB", "AWS", "Git"}},
	{key: "mobile", items: []string{"React Native", "Flutter", "Swift", "Firebase", "API Integration"}},
	{key: "data", items: []string{"Python", "SQL", "Pandas", "Machine Learning", "Tableau", "Statistics"}},
	{key: "devops", items: []string{"Docker", "Kubernetes", "AWS", "CI/CD", "Terraform", "Monitoring"}},
	{key: "manager", items: []string{"Leadership", "Agile", "Strategic Planning", "Budget Management", "Team Building"}},
	{key: "designer", items: []string{"Figma", "Adobe Creative Suite", "Prototyping", "User Research", "Design Systems"}},
}

var defaultSkills = []string{"Git", "Agile", "Problem Solving", "Communication", "Testing"}

// suggestionNoise marks list items that are instructions rather than skills.
var suggestionNoise = []string{"suggest", "add", "should", "need", "skills"}

var baseVerbs = []string{"Achieved", "Managed", "Led", "Improved", "Created", "Delivered"}

var industryVerbs = map[string][]string{
	"technology": {"Developed", "Engineered", "Architected", "Optimized", "Automated", "Integrated"},
	"marketing":  {"Strategized", "Launched", "Increased", "Generated", "Analyzed", "Campaigned"},
	"finance":    {"Analyzed", "Forecasted", "Managed", "Optimized", "Calculated", "Audited"},
	"healthcare": {"Treated", "Diagnosed", "Implemented", "Coordinated", "Improved", "Managed"},
}

var roleVerbs = []keyed{
	{key: "manager", items: []string{"Led", "Directed", "Coordinated", "Supervised", "Organized", "Facilitated"}},
	{key: "developer", items: []string{"Developed", "Coded", "Built", "Programmed", "Debugged", "Deployed"}},
	{key: "designer", items: []string{"Designed", "Created", "Crafted", "Conceptualized", "Prototyped", "Visualized"}},
}

// SuggestSkills proposes up to five skills the seeker does not list yet.
func (b *Builder) SuggestSkills(ctx context.Context, current []string, jobTitle, industry string) []string {
	skills, _ := b.suggestSkills(ctx, current, jobTitle, industry)
	return skills
}

// suggestSkills also reports whether the list was generated.
func (b *Builder) suggestSkills(ctx context.Context, current []string, jobTitle, industry string) ([]string, bool) {
	if b.completer != nil && strings.TrimSpace(jobTitle) != "" {
		prompt := fmt.Sprintf("%s needs these skills (just list 4 names):\nCurrent: %s\nAdd 4 more skills:",
			jobTitle, strings.Join(current[:min(3, len(current))], ", "))
		raw, err := ai.CompleteWithin(ctx, b.completer, prompt, suggestMaxTokens, suggestBudget)
		if err == nil {
			if parsed := parseSuggestions(raw, current); len(parsed) > 0 {
				return parsed, true
			}
			b.logger.Warn("skill suggestions contained nothing usable", logger.Kind(ai.KindMalformed), logger.Response(raw))
		} else {
			b.logger.Warn("skill suggestion failed, using table", logger.Kind(ai.KindOf(err)), zap.Error(err))
		}
	}
	return tableSuggestions(current, jobTitle, industry), false
}

func tableSuggestions(current []string, jobTitle, industry string) []string {
	pool, ok := lookup(skillTable, jobTitle)
	if !ok {
		if pool, ok = lookup(skillTable, industry); !ok {
			pool = defaultSkills
		}
	}
	return withoutHeld(pool, current, maxSuggestions)
}

func parseSuggestions(raw string, current []string) []string {
	items := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(item), "-*•0123456789.) "))
		item = strings.Trim(item, `"'`)
		if len(item) <= 1 || len(item) >= 25 {
			continue
		}
		lower := strings.ToLower(item)
		noisy := false
		for _, n := range suggestionNoise {
			if strings.Contains(lower, n) {
				noisy = true
				break
			}
		}
		if !noisy {
			out = append(out, item)
		}
	}
	return withoutHeld(out, current, maxSuggestions)
}

func withoutHeld(candidates, current []string, limit int) []string {
	held := make(map[string]struct{}, len(current))
	for _, s := range model.NormalizeSkills(current) {
		held[s] = struct{}{}
	}
	out := make([]string, 0, limit)
	for _, c := range model.Dedupe(candidates) {
		if len(out) == limit {
			break
		}
		if _, ok := held[strings.ToLower(c)]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ActionVerbs returns resume verbs for an industry and role, deduplicated.
func ActionVerbs(industry, jobTitle string) []string {
	verbs := append([]string{}, baseVerbs...)
	verbs = append(verbs, industryVerbs[strings.ToLower(strings.TrimSpace(industry))]...)
	if role, ok := lookup(roleVerbs, jobTitle); ok {
		verbs = append(verbs, role...)
	}
	return model.Dedupe(verbs)
}

// OptimizeBullet rewrites a single experience bullet for a role.
func (b *Builder) OptimizeBullet(ctx context.Context, bullet, jobTitle string) string {
	bullet = strings.TrimSpace(bullet)
	if bullet == "" {
		return ""
	}
	if b.completer != nil {
		prompt := fmt.Sprintf("Improve this work bullet:\n\"%s\"\n\nFor %s role. Make it:\n- Specific\n- Include impact/result\n- Professional\n- One sentence\n\nBetter version:",
			bullet, jobTitle)
		raw, err := ai.CompleteWithin(ctx, b.completer, prompt, bulletMaxTokens, bulletBudget)
		if err == nil {
			if text, ok := ai.Accept(raw, ai.BulletRules); ok {
				return text
			}
		} else {
			b.logger.Warn("bullet rewrite failed, using template", logger.Kind(ai.KindOf(err)), zap.Error(err))
		}
	}
	return bulletFallback(bullet)
}

func bulletFallback(bullet string) string {
	clean := strings.TrimSpace(bullet)
	lower := strings.ToLower(clean)
	for _, prefix := range []string{"i ", "my ", "the "} {
		if strings.HasPrefix(lower, prefix) {
			clean = strings.TrimSpace(clean[len(prefix):])
			break
		}
	}
	return fmt.Sprintf("Optimized %s to deliver measurable business impact", clean)
}

// CoverLetter writes a short letter for resume targeting company.
func (b *Builder) CoverLetter(ctx context.Context, resume model.OptimizedResume, jobTitle, company string) string {
	skills := resume.Skills[:min(3, len(resume.Skills))]
	if b.completer != nil {
		prompt := fmt.Sprintf("Cover letter for %s:\nPosition: %s at %s\nSkills: %s\nWrite professional 100-word letter:",
			resume.PersonalInfo.Name, jobTitle, company, strings.Join(skills, ", "))
		raw, err := ai.CompleteWithin(ctx, b.completer, prompt, letterMaxTokens, letterBudget)
		if err == nil {
			if text, ok := ai.Accept(raw, ai.LetterRules); ok {
				return text
			}
			b.logger.Warn("generated cover letter rejected, using template")
		} else {
			b.logger.Warn("cover letter generation failed, using template", logger.Kind(ai.KindOf(err)), zap.Error(err))
		}
	}
	return letterTemplate(resume.PersonalInfo.Name, jobTitle, company, skills)
}

func letterTemplate(name, jobTitle, company string, skills []string) string {
	if strings.TrimSpace(name) == "" {
		name = "Candidate"
	}
	expertise := "software development"
	if len(skills) > 0 {
		expertise = strings.Join(skills, ", ")
	}
	return fmt.Sprintf(`Dear Hiring Manager,

I am writing to express my strong interest in the %[1]s position at %[2]s. With proven expertise in %[3]s, I am confident in my ability to contribute effectively to your team.

My professional background demonstrates a track record of delivering high-quality solutions and driving results. I am particularly drawn to %[2]s's commitment to innovation and excellence in the industry.

I would welcome the opportunity to discuss how my skills and experience align with your team's needs. Thank you for your consideration.

Sincerely,
%[4]s`, jobTitle, company, expertise, name)
}
