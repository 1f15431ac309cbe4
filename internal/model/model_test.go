package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStringList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: []string{}},
		{name: "null", raw: "null", want: []string{}},
		{name: "json array", raw: `["Go", " SQL ", ""]`, want: []string{"Go", "SQL"}},
		{name: "double encoded", raw: `"[\"React\",\"Node.js\"]"`, want: []string{"React", "Node.js"}},
		{name: "comma separated", raw: "docker, kubernetes ,", want: []string{"docker", "kubernetes"}},
		{name: "broken json", raw: `["go",`, want: []string{}},
		{name: "object", raw: `{"skills":["go"]}`, want: []string{}},
		{name: "non string items", raw: `[1, "go", null]`, want: []string{"go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseStringList(tt.raw))
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	t.Parallel()

	got := NormalizeSkills([]string{" React", "react", "", "Node.js  "})
	assert.Equal(t, []string{"react", "node.js"}, got)
}

func TestJobEligible(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, (&JobPosting{Status: StatusOpen}).Eligible(now))
	assert.True(t, (&JobPosting{Status: StatusOpen, Deadline: &future}).Eligible(now))
	assert.True(t, (&JobPosting{Status: StatusOpen, Deadline: &now}).Eligible(now))
	assert.False(t, (&JobPosting{Status: StatusOpen, Deadline: &past}).Eligible(now))
	assert.False(t, (&JobPosting{Status: StatusClosed}).Eligible(now))
	assert.False(t, (&JobPosting{Status: StatusDraft}).Eligible(now))

	var nilJob *JobPosting
	assert.False(t, nilJob.Eligible(now))
}
