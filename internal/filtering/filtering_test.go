package filtering

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/jobfit/internal/model"
)

func ids(jobs []model.JobPosting) []int64 {
	out := make([]int64, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunAppliesStepsInOrder(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)

	jobs := []model.JobPosting{
		{ID: 1, Status: model.StatusOpen},
		{ID: 2, Status: model.StatusClosed},
		{ID: 3, Status: model.StatusOpen, Deadline: &past},
		{ID: 4, Status: model.StatusOpen},
		{ID: 5, Status: model.StatusOpen},
	}

	core, observed := observer.New(zapcore.DebugLevel)
	steps := []Filter{NewLifecycle(now), NewAppliedHistory([]int64{4}), NewExclude(5)}

	got := Run(zap.New(core), steps, jobs)
	if !equalIDs(ids(got), []int64{1}) {
		t.Fatalf("expected only job 1 to survive, got %v", ids(got))
	}

	if len(jobs) != 5 || jobs[1].ID != 2 {
		t.Fatalf("input slice must not be modified")
	}

	entries := observed.FilterMessage("filter step").All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 step log entries, got %d", len(entries))
	}
	first := entries[0].ContextMap()
	if first["name"] != "lifecycle" || first["dropped"] != int64(2) || first["left"] != int64(3) {
		t.Fatalf("unexpected lifecycle step log: %v", first)
	}
}

func TestDisabledFilterIsSkipped(t *testing.T) {
	jobs := []model.JobPosting{{ID: 1, Status: model.StatusOpen}, {ID: 2, Status: model.StatusOpen}}
	steps := []Filter{NewAppliedHistory([]int64{1}), NewExclude(2)}

	DisableByName(steps, "applied_history", "requested")

	got := Run(nil, steps, jobs)
	if !equalIDs(ids(got), []int64{1}) {
		t.Fatalf("expected job 1 to survive, got %v", ids(got))
	}

	statuses := Describe(steps)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Enabled || statuses[0].Reason != "requested" {
		t.Fatalf("unexpected applied_history status: %+v", statuses[0])
	}
	if statuses[1].Details["ids"] != "2" {
		t.Fatalf("unexpected exclude status: %+v", statuses[1])
	}
}

func TestLifecycleKeepsDeadlineToday(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Minute)

	got, step := NewLifecycle(now).Apply([]model.JobPosting{{ID: 1, Status: model.StatusOpen, Deadline: &later}})
	if len(got) != 1 || step.Dropped != 0 || step.Left != 1 {
		t.Fatalf("unexpected result: %v %+v", ids(got), step)
	}
}
