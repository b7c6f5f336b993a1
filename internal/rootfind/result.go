package rootfind

import (
	"errors"
	"fmt"
)

// Iter is one pass of the bisection loop.
type Iter struct {
	K     int     `json:"k"`
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	XMid  float64 `json:"xmid"`
	FXMid float64 `json:"fxmid"`
}

// Status tags the outcome of a run.
type Status int

const (
	StatusConverged Status = iota
	StatusRootAtEndpoint
	StatusNotConverged
	StatusInvalidInterval
	StatusInvalidTolerance
	StatusExpressionError
	StatusEvaluationError
	StatusNoSignChange
	StatusStopped
)

var statusNames = [...]string{
	StatusConverged:        "converged",
	StatusRootAtEndpoint:   "root_at_endpoint",
	StatusNotConverged:     "not_converged",
	StatusInvalidInterval:  "invalid_interval",
	StatusInvalidTolerance: "invalid_tolerance",
	StatusExpressionError:  "expression_error",
	StatusEvaluationError:  "evaluation_error",
	StatusNoSignChange:     "no_sign_change",
	StatusStopped:          "stopped",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// OK reports whether the run produced a root.
func (s Status) OK() bool {
	return s == StatusConverged || s == StatusRootAtEndpoint
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	st, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}

// StatusOf maps an error returned by Bisect or NewEvalFunc to a status.
// A nil error maps to StatusConverged.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusConverged
	case errors.Is(err, ErrInvalidInterval):
		return StatusInvalidInterval
	case errors.Is(err, ErrInvalidTolerance):
		return StatusInvalidTolerance
	case errors.Is(err, ErrExpression):
		return StatusExpressionError
	case errors.Is(err, ErrEvaluation):
		return StatusEvaluationError
	case errors.Is(err, ErrNoSignChange):
		return StatusNoSignChange
	case errors.Is(err, ErrNotConverged):
		return StatusNotConverged
	}
	return StatusStopped
}

// Result is everything a caller needs to report a run.
// X and FX are set for StatusConverged and StatusRootAtEndpoint.
// Iters holds the trace in iteration order, partial when the run failed mid-loop.
type Result struct {
	Status Status  `json:"status"`
	X      float64 `json:"x"`
	FX     float64 `json:"fx"`
	Iters  []Iter  `json:"iters"`
}
