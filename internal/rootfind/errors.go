package rootfind

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrInvalidInterval  = errors.New("invalid interval")
	ErrInvalidTolerance = errors.New("invalid tolerance")
	ErrExpression       = errors.New("invalid function expression")
	ErrEvaluation       = errors.New("function evaluation failed")
	ErrNonFinite        = errors.New("non-finite value")
	ErrNoSignChange     = errors.New("f(a) and f(b) must have opposite signs")
	ErrNotConverged     = errors.New("method did not converge")

	// ErrNoFunction reports a blank expression.
	ErrNoFunction = fmt.Errorf("%w: please enter a function", ErrExpression)

	// ErrStopped is returned by an onIter callback to abort a run.
	ErrStopped = errors.New("bisection: stopped by callback")
)

// Point tells where an evaluation failed.
type Point int

const (
	PointA Point = iota
	PointB
	PointMidpoint
)

func (p Point) String() string {
	switch p {
	case PointA:
		return "a"
	case PointB:
		return "b"
	case PointMidpoint:
		return "midpoint"
	}
	return "unknown"
}

// EvalError reports a failed or non-finite evaluation of f.
// Iter is the 1-based iteration for midpoint failures and 0 at the endpoints.
type EvalError struct {
	Point Point
	X     float64
	Iter  int
	Err   error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s at %s x=%s: %v",
		ErrEvaluation, e.Point, strconv.FormatFloat(e.X, 'g', -1, 64), e.Err)
}

func (e *EvalError) Unwrap() []error {
	return []error{ErrEvaluation, e.Err}
}
