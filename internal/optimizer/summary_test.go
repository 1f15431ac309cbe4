package optimizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jobfit/internal/model"
)

func TestOptimizeSummaryRequiresCurrent(t *testing.T) {
	t.Parallel()

	_, err := New(nil, nil, nil).OptimizeSummary(context.Background(), SummaryRequest{Current: "  \n"})
	assert.ErrorIs(t, err, ErrEmptySummary)
}

func TestOptimizeSummaryForJob(t *testing.T) {
	t.Parallel()

	const generated = "Backend engineer with three years of Go and Kafka experience. Ships reliable services for growing product teams."
	var prompt string
	b := New(promptCompleter(func(p string) (string, error) {
		prompt = p
		return generated, nil
	}), nil, nil)

	got, err := b.OptimizeSummary(context.Background(), SummaryRequest{
		Current: "I write code.",
		Skills:  []string{"Go", "Kafka", "go"},
		Years:   3,
		Job:     backendJob(),
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Backend Engineer at Acme, 3 years experience, skills: Go, Kafka")
	assert.Equal(t, SummaryResult{
		Original:  "I write code.",
		Optimized: generated,
		Improvements: []string{
			"Tailored for Backend Engineer position",
			"Optimized for Acme",
			"Enhanced with relevant keywords and skills",
		},
	}, got)
}

func TestOptimizeSummaryFallsBack(t *testing.T) {
	t.Parallel()

	var prompt string
	b := New(promptCompleter(func(p string) (string, error) {
		prompt = p
		return "", errUpstream
	}), nil, nil)

	job := &model.JobPosting{ID: 9, Title: "Data Analyst"}
	got, err := b.OptimizeSummary(context.Background(), SummaryRequest{Current: "Analyst.", Skills: []string{"SQL"}, Job: job})
	require.NoError(t, err)

	assert.Contains(t, prompt, "2 years experience")
	assert.NotEmpty(t, got.Optimized)
	assert.NotEqual(t, got.Original, got.Optimized)
	assert.Equal(t, "Optimized for target company", got.Improvements[1])
	assert.Equal(t, noteSummaryFallback, got.Note)
}

func TestOptimizeSummaryWithoutJob(t *testing.T) {
	t.Parallel()

	var prompt string
	b := New(promptCompleter(func(p string) (string, error) {
		prompt = p
		return "", errUpstream
	}), nil, nil)

	got, err := b.OptimizeSummary(context.Background(), SummaryRequest{
		Current:  "Engineer.",
		JobTitle: "Site Reliability Engineer",
		Skills:   []string{"Linux"},
		Years:    5,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Role: Site Reliability Engineer\nExperience: 5 years\nSkills: Linux")
	assert.Empty(t, got.Improvements)
	assert.Equal(t, noteSummaryFallback, got.Note)
}
