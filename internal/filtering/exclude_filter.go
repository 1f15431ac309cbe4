package filtering

import (
	"strconv"
	"strings"

	"github.com/spigell/jobfit/internal/model"
)

type excludeFilter struct {
	toggle
	ids []int64
	set map[int64]struct{}
}

// NewExclude creates a filter that removes postings with the given ids.
func NewExclude(ids ...int64) Filter {
	return &excludeFilter{ids: ids, set: idSet(ids)}
}

func (f *excludeFilter) Name() string { return NameExclude }

func (f *excludeFilter) Apply(jobs []model.JobPosting) ([]model.JobPosting, Step) {
	if len(f.set) == 0 {
		return jobs, Step{Initial: len(jobs), Left: len(jobs)}
	}
	return keep(jobs, func(j *model.JobPosting) bool {
		_, excluded := f.set[j.ID]
		return !excluded
	})
}

func (f *excludeFilter) Status() Status {
	ids := make([]string, 0, len(f.ids))
	for _, id := range f.ids {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	details := map[string]string{}
	if len(ids) > 0 {
		details["ids"] = strings.Join(ids, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
