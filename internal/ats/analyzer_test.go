package ats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spigell/jobfit/internal/model"
)

const sampleResume = `Jane Doe
jane@example.com | Phone: +1 555 0100

Summary
Backend engineer with React and Docker experience.

Experience
Acme Corp - built services.

Education
BSc Computer Science

Skills
Go, Docker, React`

func TestAnalyzeTextFullResume(t *testing.T) {
	t.Parallel()

	keywords := &model.KeywordSet{Technical: []string{"react", "docker"}, Soft: []string{"leadership"}}
	got := AnalyzeText(sampleResume, keywords)

	assert.Equal(t, 100, got.Formatting.Score)
	assert.Empty(t, got.Formatting.Issues)
	assert.Equal(t, Sections{Contact: true, Summary: true, Experience: true, Education: true, Skills: true}, got.Sections)
	assert.Equal(t, 100, got.SectionScore)
	assert.Equal(t, []string{"react", "docker"}, got.Keywords.Found)
	assert.Equal(t, []string{"leadership"}, got.Keywords.Missing)
	assert.Equal(t, 67, got.Keywords.Score)
	// 100*0.2 + 67*0.4 + 100*0.4 = 86.8
	assert.Equal(t, 87, got.OverallScore)
	assert.Empty(t, got.Recommendations)
}

func TestAnalyzeTextFormattingPenalties(t *testing.T) {
	t.Parallel()

	text := "Name\tSurname\n" + strings.Repeat("a", 101) + "\n" + strings.Repeat("b", 120)
	got := AnalyzeText(text, nil)

	assert.Equal(t, 85, got.Formatting.Score)
	assert.Equal(t, []string{
		"Avoid using tabs - use spaces instead",
		"Some lines are too long - keep under 100 characters",
	}, got.Formatting.Issues)
}

func TestAnalyzeTextWithoutJobContext(t *testing.T) {
	t.Parallel()

	got := AnalyzeText("Jane Doe\nExperience: none", nil)

	assert.Equal(t, 50, got.Keywords.Score)
	assert.Empty(t, got.Keywords.Found)
	// 100*0.2 + 50*0.4 + 20*0.4 = 48
	assert.Equal(t, 48, got.OverallScore)

	msgs := make([]string, 0, len(got.Recommendations))
	for _, r := range got.Recommendations {
		msgs = append(msgs, r.Message)
	}
	assert.Equal(t, []string{
		"Resume needs significant optimization for ATS compatibility",
		"Add a professional summary section",
	}, msgs)
	assert.Equal(t, model.PriorityCritical, got.Recommendations[0].Priority)
}

func TestAnalyzeTextMissingKeywords(t *testing.T) {
	t.Parallel()

	keywords := &model.KeywordSet{Technical: []string{"kubernetes", "terraform", "aws", "gcp", "kafka", "redis", "go"}}
	got := AnalyzeText("Summary\nI write Go.", keywords)

	assert.Equal(t, 14, got.Keywords.Score)
	assert.Len(t, got.Keywords.Missing, 6)

	var high *Recommendation
	for i := range got.Recommendations {
		if got.Recommendations[i].Priority == model.PriorityHigh {
			high = &got.Recommendations[i]
		}
	}
	if assert.NotNil(t, high) {
		assert.Equal(t, "Add missing keywords: kubernetes, terraform, aws, gcp, kafka", high.Message)
	}
}
