// Package filtering narrows candidate postings through named, logged steps
// before anything is scored.
package filtering

import (
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/model"
)

// Names of the built-in filters, usable with DisableByName.
const (
	NameLifecycle      = "lifecycle"
	NameAppliedHistory = "applied_history"
	NameExclude        = "exclude"
)

// Filter represents a single filtering step applied to postings.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(jobs []model.JobPosting) ([]model.JobPosting, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// toggle carries the enable/disable state shared by every filter.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the postings left.
// The input slice is never modified.
func Run(logger *zap.Logger, steps []Filter, jobs []model.JobPosting) []model.JobPosting {
	if logger == nil {
		logger = zap.NewNop()
	}

	current := append([]model.JobPosting(nil), jobs...)
	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info := step.Apply(current)
		logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
		current = next
	}

	return current
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

func keep(jobs []model.JobPosting, pred func(*model.JobPosting) bool) ([]model.JobPosting, Step) {
	initial := len(jobs)
	out := make([]model.JobPosting, 0, initial)
	for i := range jobs {
		if pred(&jobs[i]) {
			out = append(out, jobs[i])
		}
	}
	return out, Step{Initial: initial, Dropped: initial - len(out), Left: len(out)}
}
