package batch

import (
	"errors"

	"slimsamples/internal/apply"
	"slimsamples/internal/services"
)

// Outcome is the terminal state of one file.
type Outcome = apply.Outcome

const (
	OutcomeSkipped       = apply.OutcomeSkipped
	OutcomeListed        = apply.OutcomeListed
	OutcomeDryRun        = apply.OutcomeDryRun
	OutcomeSucceeded     = apply.OutcomeSucceeded
	OutcomeFailed        = apply.OutcomeFailed
	OutcomeInconsistent  = apply.OutcomeInconsistent
	OutcomeInspectFailed Outcome = "inspect-failed"
	OutcomeUnsupported   Outcome = "unsupported"
)

// Outcomes lists every outcome in report order.
var Outcomes = []Outcome{
	OutcomeSucceeded,
	OutcomeSkipped,
	OutcomeListed,
	OutcomeDryRun,
	OutcomeUnsupported,
	OutcomeInspectFailed,
	OutcomeFailed,
	OutcomeInconsistent,
}

// OutcomeFor classifies a per-file error.
func OutcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case errors.Is(err, services.ErrUnsupportedEncoding):
		return OutcomeUnsupported
	case errors.Is(err, services.ErrTimeout):
		return OutcomeFailed
	case errors.Is(err, services.ErrInspection):
		return OutcomeInspectFailed
	case errors.Is(err, services.ErrConversion):
		return OutcomeFailed
	case errors.Is(err, services.ErrFilesystem):
		return OutcomeInconsistent
	default:
		return OutcomeFailed
	}
}

// Totals counts files per outcome.
type Totals map[Outcome]int

// Add counts one file.
func (t Totals) Add(o Outcome) {
	t[o]++
}

// Total returns the number of files counted.
func (t Totals) Total() int {
	n := 0
	for _, count := range t {
		n += count
	}
	return n
}

// Problems returns the number of files that need attention.
func (t Totals) Problems() int {
	return t[OutcomeFailed] + t[OutcomeInconsistent] + t[OutcomeInspectFailed] + t[OutcomeUnsupported]
}
