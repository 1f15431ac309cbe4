package filtering

import (
	"strconv"

	"github.com/spigell/jobfit/internal/model"
)

type appliedHistoryFilter struct {
	toggle
	applied map[int64]struct{}
}

// NewAppliedHistory creates a filter that removes postings the seeker already applied to.
func NewAppliedHistory(appliedJobIDs []int64) Filter {
	return &appliedHistoryFilter{applied: idSet(appliedJobIDs)}
}

func (f *appliedHistoryFilter) Name() string { return NameAppliedHistory }

func (f *appliedHistoryFilter) Apply(jobs []model.JobPosting) ([]model.JobPosting, Step) {
	return keep(jobs, func(j *model.JobPosting) bool {
		_, seen := f.applied[j.ID]
		return !seen
	})
}

func (f *appliedHistoryFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"applied": strconv.Itoa(len(f.applied))},
	}
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
