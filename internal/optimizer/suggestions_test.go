package optimizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentSuggestionsDefaults(t *testing.T) {
	t.Parallel()

	got := New(nil, nil, nil).ContentSuggestions(context.Background(), ContentRequest{})

	assert.Equal(t, noteContentFallback, got.Note)
	assert.Len(t, got.BulletPoints, 5)
	assert.Equal(t,
		"Built scalable modern technology application serving 1,000+ daily active users with 99.9% uptime",
		got.BulletPoints[0])
	assert.Equal(t,
		"Developed efficient development tools components reducing page load time by 15% and improving user engagement",
		got.BulletPoints[1])
	assert.Equal(t,
		"Professional with 1 year of experience in technology and development. Focused on building efficient, scalable solutions that deliver business value.",
		got.SummaryTemplates[0])
	assert.Contains(t, got.SummaryTemplates[2], ". 1 year of experience")
	assert.Equal(t, []string{"Git", "Agile", "Problem Solving", "Communication", "Testing"}, got.SkillSuggestions)
	assert.Equal(t, ActionVerbs("Technology", "Professional"), got.ActionVerbs)
}

func TestContentSuggestionsScaleWithExperience(t *testing.T) {
	t.Parallel()

	got := New(nil, nil, nil).ContentSuggestions(context.Background(), ContentRequest{
		JobTitle: "Backend Engineer",
		Years:    6,
		Skills:   []string{"Go", "Kafka"},
	})

	assert.Equal(t, []string{
		"Built scalable Go application serving 10,000+ daily active users with 99.9% uptime",
		"Developed efficient Kafka components reducing page load time by 50% and improving user engagement",
		"Led team of 8 developers implementing Go architecture that increased system performance by 60%",
		"Optimized Go workflows cutting deployment time from hours to minutes using automated CI/CD pipeline",
		"Created reusable Kafka component library adopted by 5 development teams across organization",
	}, got.BulletPoints)
	assert.Contains(t, got.SummaryTemplates[1], "6 years Backend Engineer specializing in Go development")
}

func TestContentSuggestionsGeneratedSkills(t *testing.T) {
	t.Parallel()

	b := New(promptCompleter(func(string) (string, error) {
		return "Kubernetes\nTerraform", nil
	}), nil, nil)

	got := b.ContentSuggestions(context.Background(), ContentRequest{JobTitle: "Platform Engineer", Years: 3, Skills: []string{"Docker"}})
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, got.SkillSuggestions)
	assert.Empty(t, got.Note)
	assert.Contains(t, got.BulletPoints[0], "5,000+")
	assert.Contains(t, got.BulletPoints[1], "Docker components")
}
