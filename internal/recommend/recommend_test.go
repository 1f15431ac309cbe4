package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/filtering"
	"github.com/spigell/jobfit/internal/model"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestScorer() *Scorer {
	return &Scorer{Now: func() time.Time { return testNow }, Logger: zap.NewNop()}
}

func daysAgo(d int) time.Time {
	return testNow.Add(-time.Duration(d) * 24 * time.Hour)
}

func TestSkillsMatch(t *testing.T) {
	t.Parallel()

	value, matched := SkillsMatch([]string{"React", "Node.js", "PostgreSQL"}, []string{"react", "node.js", "aws"})
	assert.InDelta(t, 2.0/3.0, value, 1e-9)
	assert.Equal(t, []string{"react", "node.js"}, matched)
	assert.InDelta(t, 26.67, round2(value*WeightSkills), 1e-9)

	value, matched = SkillsMatch([]string{"React", "Node.js"}, []string{"react", "express", "node"})
	assert.InDelta(t, 2.0/3.0, value, 1e-9)
	assert.Equal(t, []string{"react", "node"}, matched, "node matches inside node.js")
	assert.InDelta(t, 26.67, round2(value*WeightSkills), 1e-9)

	value, matched = SkillsMatch(nil, []string{"go"})
	assert.Zero(t, value)
	assert.Empty(t, matched)

	value, _ = SkillsMatch([]string{"go"}, nil)
	assert.Zero(t, value)

	value, _ = SkillsMatch([]string{"PostgreSQL administration"}, []string{"postgresql"})
	assert.Equal(t, 1.0, value)

	value, _ = SkillsMatch([]string{"go"}, []string{"golang", "go"})
	assert.Equal(t, 1.0, value, "bidirectional containment caps at 1")
}

func TestBandFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		typ   model.JobType
		want  Band
	}{
		{title: "Software Engineering Intern", want: BandInternship},
		{title: "Data Analyst", typ: model.TypeInternship, want: BandInternship},
		{title: "Junior Developer", want: BandEntry},
		{title: "Entry Level QA", want: BandEntry},
		{title: "Senior Backend Engineer", want: BandSenior},
		{title: "Sr. Designer", want: BandSenior},
		{title: "Tech Lead", want: BandLead},
		{title: "Principal Engineer", want: BandLead},
		{title: "Solutions Architect", want: BandLead},
		{title: "Backend Engineer", want: BandMid},
		{title: "Senior Intern Program Manager", want: BandInternship},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, BandFor(&model.JobPosting{Title: tt.title, Type: tt.typ}))
		})
	}
}

func TestExperienceMatch(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.6, ExperienceMatch(3, BandSenior), 1e-9)
	assert.Equal(t, 1.0, ExperienceMatch(3, BandMid))
	assert.InDelta(t, 0.7, ExperienceMatch(8, BandMid), 1e-9)
	assert.InDelta(t, 0.5, ExperienceMatch(20, BandLead), 1e-9)
	assert.InDelta(t, 0.3, ExperienceMatch(12, BandEntry), 1e-9)
	assert.Equal(t, 0.0, ExperienceMatch(0, BandLead))
	assert.Equal(t, 1.0, ExperienceMatch(-4, BandEntry))
}

func TestLocationMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		seeker string
		job    model.JobPosting
		want   float64
	}{
		{name: "remote type", seeker: "Lagos", job: model.JobPosting{Type: model.TypeRemote, Location: "Berlin"}, want: 1},
		{name: "remote location", seeker: "", job: model.JobPosting{Location: "Remote (EU)"}, want: 1},
		{name: "missing seeker", seeker: "", job: model.JobPosting{Location: "Berlin"}, want: 0.5},
		{name: "missing job", seeker: "Berlin", job: model.JobPosting{}, want: 0.5},
		{name: "exact", seeker: " berlin ", job: model.JobPosting{Location: "Berlin"}, want: 1},
		{name: "containment", seeker: "Berlin, Germany", job: model.JobPosting{Location: "Berlin"}, want: 0.8},
		{name: "same region", seeker: "Berlin, Germany", job: model.JobPosting{Location: "Munich, Germany"}, want: 0.6},
		{name: "different", seeker: "Berlin, Germany", job: model.JobPosting{Location: "Austin, USA"}, want: 0.2},
		{name: "single part mismatch", seeker: "Berlin", job: model.JobPosting{Location: "Munich"}, want: 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, LocationMatch(tt.seeker, &tt.job))
		})
	}
}

func TestRecency(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.5, Recency(time.Time{}, testNow))
	assert.Equal(t, 1.0, Recency(daysAgo(0), testNow))
	assert.Equal(t, 1.0, Recency(daysAgo(7), testNow))
	assert.Equal(t, 0.8, Recency(daysAgo(10), testNow))
	assert.Equal(t, 0.6, Recency(daysAgo(45), testNow))
	assert.Equal(t, 0.4, Recency(daysAgo(90), testNow))
	assert.Equal(t, 0.2, Recency(daysAgo(365), testNow))
	assert.Equal(t, 1.0, Recency(testNow.Add(time.Hour), testNow))
}

func TestIndustryBonus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5.0, IndustryBonus("Software Development"))
	assert.Equal(t, 5.0, IndustryBonus("FinTech"))
	assert.Equal(t, 2.0, IndustryBonus("Agriculture"))
	assert.Equal(t, 0.0, IndustryBonus("  "))
}

func TestScoreCombinesFactors(t *testing.T) {
	t.Parallel()

	profile := &model.SeekerProfile{
		ID:              1,
		Skills:          []string{"React", "Node.js", "PostgreSQL"},
		ExperienceYears: 3,
		Location:        "Berlin, Germany",
	}
	job := &model.JobPosting{
		ID:       10,
		Title:    "Frontend Developer",
		Skills:   []string{"react", "node.js", "aws"},
		Location: "Munich, Germany",
		Status:   model.StatusOpen,
		PostedAt: daysAgo(10),
		Company:  &model.CompanyInfo{Name: "Acme", Industry: "Software"},
	}

	got := newTestScorer().Score(profile, job)

	assert.InDelta(t, 73.67, got.Score, 1e-9)
	assert.InDelta(t, 26.67, got.Factors.Skills.Points, 1e-9)
	assert.Equal(t, 25.0, got.Factors.Experience.Points)
	assert.Equal(t, 9.0, got.Factors.Location.Points)
	assert.Equal(t, 8.0, got.Factors.Recency.Points)
	assert.Equal(t, 5.0, got.Factors.IndustryBonus)
	assert.Equal(t, []string{"react", "node.js"}, got.Factors.MatchedSkills)
}

func TestScoreBestCase(t *testing.T) {
	t.Parallel()

	profile := &model.SeekerProfile{Skills: []string{"go"}, ExperienceYears: 3, Location: "Remote"}
	job := &model.JobPosting{Title: "Go Engineer", Skills: []string{"go"}, Type: model.TypeRemote, PostedAt: testNow, Company: &model.CompanyInfo{Industry: "Technology"}}

	got := newTestScorer().Score(profile, job)
	assert.Equal(t, 95.0, got.Score)
	assert.LessOrEqual(t, got.Score, 100.0)
}

func TestRecommendFiltersAndSorts(t *testing.T) {
	t.Parallel()

	past := testNow.Add(-time.Hour)
	profile := &model.SeekerProfile{ID: 7, Skills: []string{"Go", "PostgreSQL"}, ExperienceYears: 4, Location: "Berlin"}
	jobs := []model.JobPosting{
		{ID: 1, Title: "Backend Engineer", Skills: []string{"java"}, Status: model.StatusOpen, PostedAt: daysAgo(100)},
		{ID: 2, Title: "Go Engineer", Skills: []string{"go", "postgresql"}, Status: model.StatusOpen, Location: "Berlin", PostedAt: daysAgo(1)},
		{ID: 3, Title: "Go Engineer", Skills: []string{"go"}, Status: model.StatusClosed},
		{ID: 4, Title: "Go Engineer", Skills: []string{"go"}, Status: model.StatusOpen, Deadline: &past},
		{ID: 5, Title: "Go Engineer", Skills: []string{"go", "postgresql"}, Status: model.StatusOpen, Location: "Berlin", PostedAt: daysAgo(1)},
		{ID: 6, Title: "Go Engineer", Skills: []string{"go", "postgresql"}, Status: model.StatusOpen, Location: "Berlin", PostedAt: daysAgo(1)},
		{ID: 7, Title: "Backend Engineer", Skills: []string{"java"}, Status: model.StatusOpen, PostedAt: daysAgo(100)},
	}

	s := newTestScorer()
	result := s.Recommend(profile, jobs, []int64{5})

	require.Equal(t, 4, result.Total)
	got := make([]int64, 0, len(result.Matches))
	for _, m := range result.Matches {
		got = append(got, m.Job.ID)
		assert.GreaterOrEqual(t, m.Score, 0.0)
		assert.LessOrEqual(t, m.Score, 100.0)
	}
	assert.Equal(t, []int64{2, 6, 1, 7}, got, "equal scores keep input order")

	again := s.Recommend(profile, jobs, []int64{5})
	assert.Equal(t, result, again)
}

func TestRankWithDisabledAppliedHistory(t *testing.T) {
	t.Parallel()

	profile := &model.SeekerProfile{ID: 7, Skills: []string{"Go"}}
	jobs := []model.JobPosting{
		{ID: 1, Title: "Go Engineer", Skills: []string{"go"}, Status: model.StatusOpen, PostedAt: daysAgo(1)},
		{ID: 2, Title: "Go Engineer", Skills: []string{"go"}, Status: model.StatusOpen, PostedAt: daysAgo(1)},
		{ID: 3, Title: "Go Engineer", Skills: []string{"go"}, Status: model.StatusOpen, PostedAt: daysAgo(1)},
	}

	s := newTestScorer()
	steps := s.Pipeline([]int64{1}, 3)
	filtering.DisableByName(steps, filtering.NameAppliedHistory, "include applied")

	result := s.Rank(profile, jobs, steps)
	got := make([]int64, 0, len(result.Matches))
	for _, m := range result.Matches {
		got = append(got, m.Job.ID)
	}
	assert.Equal(t, []int64{1, 2}, got)

	statuses := filtering.Describe(steps)
	require.Len(t, statuses, 3)
	assert.Equal(t, filtering.NameAppliedHistory, statuses[1].Name)
	assert.False(t, statuses[1].Enabled)
	assert.Equal(t, "include applied", statuses[1].Reason)
	assert.True(t, statuses[2].Enabled)
	assert.Equal(t, "3", statuses[2].Details["ids"])
}

func TestRecommendWithoutSkills(t *testing.T) {
	t.Parallel()

	result := newTestScorer().Recommend(&model.SeekerProfile{}, []model.JobPosting{
		{ID: 1, Skills: []string{"go"}, Status: model.StatusOpen},
	}, nil)

	require.Len(t, result.Matches, 1)
	assert.Zero(t, result.Matches[0].Factors.Skills.Value)
	assert.Empty(t, result.Matches[0].Factors.MatchedSkills)
}

func TestSafeFactorRecoversPanic(t *testing.T) {
	t.Parallel()

	got := safeFactor(zap.NewNop(), "broken", func() float64 { panic("boom") })
	assert.Zero(t, got)
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5}

	page, meta := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, Pagination{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, meta)

	page, meta = Paginate(items, 0, 0)
	assert.Equal(t, items, page)
	assert.Equal(t, 1, meta.TotalPages)

	page, _ = Paginate(items, 9, 2)
	assert.Empty(t, page)
}
