package processing

import (
	"fmt"

	"housing_filters/internal/notifications"
)

// Failure identifies a row whose change hit an unexpected remote error.
type Failure struct {
	FullName  string
	RowNumber int
}

func (f Failure) String() string {
	return fmt.Sprintf("%s, %d", f.FullName, f.RowNumber)
}

// Result accumulates the outcomes of one loop, in submission order.
type Result struct {
	Submitted       int
	Applied         int
	AlreadyFiltered []string
	Errors          []Failure
}

func (r *Result) record(outcome Outcome, failure Failure) {
	r.Submitted++
	switch outcome.Status {
	case Success:
		r.Applied++
	case DuplicateTitle:
		r.AlreadyFiltered = append(r.AlreadyFiltered, outcome.Title)
	default:
		r.Errors = append(r.Errors, failure)
	}
}

// Merge appends another result's outcomes after this one's.
func (r *Result) Merge(other Result) {
	r.Submitted += other.Submitted
	r.Applied += other.Applied
	r.AlreadyFiltered = append(r.AlreadyFiltered, other.AlreadyFiltered...)
	r.Errors = append(r.Errors, other.Errors...)
}

// Summary condenses a result for the run notification.
func Summary(mode string, r Result) notifications.RunSummary {
	errs := make([]string, 0, len(r.Errors))
	for _, f := range r.Errors {
		errs = append(errs, f.String())
	}
	return notifications.RunSummary{
		Mode:            mode,
		Submitted:       r.Submitted,
		Applied:         r.Applied,
		AlreadyFiltered: len(r.AlreadyFiltered),
		Errors:          errs,
	}
}
