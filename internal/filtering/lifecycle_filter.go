package filtering

import (
	"time"

	"github.com/spigell/jobfit/internal/model"
)

type lifecycleFilter struct {
	toggle
	now time.Time
}

// NewLifecycle creates a filter that keeps open postings whose deadline has not passed at now.
func NewLifecycle(now time.Time) Filter {
	return &lifecycleFilter{now: now}
}

func (f *lifecycleFilter) Name() string { return NameLifecycle }

func (f *lifecycleFilter) Apply(jobs []model.JobPosting) ([]model.JobPosting, Step) {
	return keep(jobs, func(j *model.JobPosting) bool { return j.Eligible(f.now) })
}

func (f *lifecycleFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"now": f.now.Format(time.RFC3339)},
	}
}
