package optimizer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spigell/jobfit/internal/model"
)

func TestSuggestSkillsTable(t *testing.T) {
	t.Parallel()

	b := New(nil, nil, nil)
	ctx := context.Background()

	assert.Equal(t, []string{"Vue.js", "TypeScript", "Webpack", "Sass"},
		b.SuggestSkills(ctx, []string{"react", "Jest"}, "Senior Frontend Developer", ""))
	assert.Equal(t, []string{"Figma", "Adobe Creative Suite", "Prototyping", "User Research", "Design Systems"},
		b.SuggestSkills(ctx, nil, "Visual Lead", "Product Designer agency"))
	assert.Equal(t, []string{"Git", "Agile", "Problem Solving", "Communication", "Testing"},
		b.SuggestSkills(ctx, nil, "Accountant", ""))
}

func TestSuggestSkillsGenerated(t *testing.T) {
	t.Parallel()

	var prompt string
	b := New(promptCompleter(func(p string) (string, error) {
		prompt = p
		return "1. Kubernetes\n2. Terraform, You should add Go\n- Docker\nskills list\nx", nil
	}), nil, nil)

	got := b.SuggestSkills(context.Background(), []string{"docker", "Go", "Linux", "Bash"}, "Platform Engineer", "")
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, got)
	assert.Contains(t, prompt, "Current: docker, Go, Linux\n")
}

func TestSuggestSkillsFallsBackOnNoise(t *testing.T) {
	t.Parallel()

	b := New(promptCompleter(func(string) (string, error) {
		return "You should add more skills", nil
	}), nil, nil)

	got := b.SuggestSkills(context.Background(), []string{"Docker"}, "DevOps Engineer", "")
	assert.Equal(t, []string{"Kubernetes", "AWS", "CI/CD", "Terraform", "Monitoring"}, got)
}

func TestActionVerbs(t *testing.T) {
	t.Parallel()

	verbs := ActionVerbs("Technology", "Lead Developer")
	assert.Subset(t, verbs, []string{"Achieved", "Engineered", "Coded", "Deployed"})

	seen := map[string]int{}
	for _, v := range verbs {
		seen[v]++
	}
	assert.Equal(t, 1, seen["Developed"])

	assert.Equal(t, []string{"Achieved", "Managed", "Led", "Improved", "Created", "Delivered"}, ActionVerbs("", "Clerk"))
}

func TestOptimizeBullet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fallback := New(promptCompleter(func(string) (string, error) { return "", errUpstream }), nil, nil)

	assert.Equal(t, "Optimized fixed bugs in checkout to deliver measurable business impact",
		fallback.OptimizeBullet(ctx, "I fixed bugs in checkout", "Engineer"))
	assert.Equal(t, "Optimized onboarding flow to deliver measurable business impact",
		fallback.OptimizeBullet(ctx, "The onboarding flow", "Engineer"))
	assert.Empty(t, fallback.OptimizeBullet(ctx, "  ", "Engineer"))

	const rewritten = "Cut checkout errors by 30% by fixing payment retries."
	generated := New(promptCompleter(func(p string) (string, error) {
		if !strings.Contains(p, "\"fix checkout\"") {
			return "", errUpstream
		}
		return rewritten, nil
	}), nil, nil)
	assert.Equal(t, rewritten, generated.OptimizeBullet(ctx, "fix checkout", "Engineer"))
}

func TestCoverLetterTemplate(t *testing.T) {
	t.Parallel()

	b := New(promptCompleter(func(string) (string, error) { return "", errUpstream }), nil, nil)
	letter := b.CoverLetter(context.Background(), model.OptimizedResume{
		Skills: []string{"Go", "Kubernetes", "Terraform", "Linux"},
	}, "Platform Engineer", "Globex")

	assert.True(t, strings.HasPrefix(letter, "Dear Hiring Manager,\n\n"))
	assert.Contains(t, letter, "the Platform Engineer position at Globex. With proven expertise in Go, Kubernetes, Terraform,")
	assert.Contains(t, letter, "drawn to Globex's commitment")
	assert.True(t, strings.HasSuffix(letter, "Sincerely,\nCandidate"))
}

func TestCoverLetterGenerated(t *testing.T) {
	t.Parallel()

	body := "Dear Hiring Manager,\n\nI am excited to apply for the Platform Engineer role at Globex. " +
		"My work on Kubernetes platforms and Terraform pipelines has prepared me to help your team ship faster.\n\nSincerely,\nDana."
	b := New(promptCompleter(func(string) (string, error) { return body, nil }), nil, nil)

	letter := b.CoverLetter(context.Background(), model.OptimizedResume{
		PersonalInfo: model.PersonalInfo{Name: "Dana"},
	}, "Platform Engineer", "Globex")
	assert.Equal(t, body, letter)
}
