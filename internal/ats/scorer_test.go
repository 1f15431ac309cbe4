package ats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jobfit/internal/model"
)

func optimizationTypes(opts []model.Optimization) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Type)
	}
	return out
}

func TestScoreResumeMissingSections(t *testing.T) {
	t.Parallel()

	got := ScoreResume(Input{
		Skills:  []string{"go"},
		Summary: "Short one.",
	})

	assert.Equal(t, []string{"experience", "education", "summary"}, optimizationTypes(got.Optimizations))
	assert.Equal(t, model.PriorityHigh, got.Optimizations[0].Priority)
	assert.Equal(t, "Add work experience section", got.Optimizations[0].Message)
	assert.Equal(t, "Critical for ATS parsing", got.Optimizations[0].Impact)

	// skills neutral 0.8*40 + completeness 0 + keywords neutral 0.5*20 + format 0.8*15
	assert.Equal(t, 54, got.Total)
	assert.Equal(t, 0.8, got.Breakdown.Skills)
	assert.Equal(t, 0.5, got.Breakdown.Keywords)
}

func TestScoreResumeSkillsGap(t *testing.T) {
	t.Parallel()

	got := ScoreResume(Input{
		Skills:        []string{"React"},
		Summary:       "Frontend engineer building React interfaces for fintech products with a focus on quality.",
		HasExperience: true,
		HasEducation:  true,
		JobSkills:     []string{"React", "Docker", "Kubernetes", "AWS"},
		Keywords:      &model.KeywordSet{Technical: []string{"react", "graphql"}},
	})

	require.NotEmpty(t, got.Optimizations)
	first := got.Optimizations[0]
	assert.Equal(t, "skills", first.Type)
	assert.Equal(t, model.PriorityHigh, first.Priority)
	assert.Equal(t, "Add these key skills: docker, kubernetes, aws", first.Message)

	// required = react, docker, kubernetes, aws, graphql -> 1/5
	assert.Equal(t, 0.2, got.Breakdown.Skills)
	assert.Equal(t, 1.0, got.Breakdown.Completeness)
	// summary mentions react only -> 1/5
	assert.Equal(t, 0.2, got.Breakdown.Keywords)
	assert.Contains(t, optimizationTypes(got.Optimizations), "keywords")

	// 0.2*40 + 25 + 0.2*20 + 12 = 49
	assert.Equal(t, 49, got.Total)
}

func TestScoreResumeStrongProfile(t *testing.T) {
	t.Parallel()

	technical := []string{"go", "postgresql", "docker", "kubernetes", "grpc"}
	got := ScoreResume(Input{
		Skills:        []string{"Go", "PostgreSQL", "Docker", "Kubernetes", "gRPC"},
		Summary:       "Backend engineer shipping Go services on Kubernetes and Docker with PostgreSQL and gRPC APIs.",
		HasExperience: true,
		HasEducation:  true,
		Keywords:      &model.KeywordSet{Technical: technical},
	})

	assert.Empty(t, got.Optimizations)
	assert.Equal(t, 97, got.Total)
}

func TestScoreResumeCapsOptimizations(t *testing.T) {
	t.Parallel()

	got := ScoreResume(Input{
		Summary:   strings.Repeat("x", 10),
		JobSkills: []string{"go"},
		Keywords:  &model.KeywordSet{Technical: []string{"go"}},
	})

	assert.LessOrEqual(t, len(got.Optimizations), 5)
	assert.Equal(t, []string{"skills", "experience", "education", "summary", "keywords"}, optimizationTypes(got.Optimizations))
	assert.GreaterOrEqual(t, got.Total, 0)
	assert.LessOrEqual(t, got.Total, 100)
}
