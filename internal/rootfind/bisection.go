package rootfind

import (
	"fmt"
	"math"
)

// DefaultMaxIter bounds a run when Params.MaxIter is not set.
const DefaultMaxIter = 100

// Params of a single run.
type Params struct {
	A       float64 `json:"a" yaml:"a"`
	B       float64 `json:"b" yaml:"b"`
	Tol     float64 `json:"tol" yaml:"tol"`
	MaxIter int     `json:"maxIter" yaml:"max_iter"`
}

func (p Params) maxIter() int {
	if p.MaxIter <= 0 {
		return DefaultMaxIter
	}
	return p.MaxIter
}

// Validate checks the interval and the tolerance, in that order.
func Validate(p Params) error {
	if !finite(p.A) || !finite(p.B) {
		return fmt.Errorf("%w: a and b must be finite numbers", ErrInvalidInterval)
	}
	if !(p.A < p.B) {
		return fmt.Errorf("%w: a must be strictly less than b", ErrInvalidInterval)
	}
	if !finite(p.Tol) || p.Tol <= 0 {
		return fmt.Errorf("%w: tolerance must be a positive finite number", ErrInvalidTolerance)
	}
	return nil
}

// Bisect finds a root of f on [p.A, p.B].
// onIter is called after each iteration; a non-nil return aborts the run with
// StatusStopped and that error. The returned Result always carries the trace
// collected so far, including on error.
func Bisect(f Func, p Params, onIter func(Iter) error) (Result, error) {
	var res Result

	fail := func(err error) (Result, error) {
		res.Status = StatusOf(err)
		return res, err
	}

	if err := Validate(p); err != nil {
		return fail(err)
	}

	a, b, tol := p.A, p.B, p.Tol

	fa, err := evalAt(f, a, PointA, 0)
	if err != nil {
		return fail(err)
	}
	fb, err := evalAt(f, b, PointB, 0)
	if err != nil {
		return fail(err)
	}

	if fa == 0 {
		res.Status, res.X = StatusRootAtEndpoint, a
		return res, nil
	}
	if fb == 0 {
		res.Status, res.X = StatusRootAtEndpoint, b
		return res, nil
	}
	if !opposite(fa, fb) {
		return fail(ErrNoSignChange)
	}

	maxIter := p.maxIter()
	res.Iters = make([]Iter, 0, min(maxIter, 64))

	for k := 1; k <= maxIter; k++ {
		mid := (a + b) / 2
		fm, err := evalAt(f, mid, PointMidpoint, k)
		if err != nil {
			return fail(err)
		}

		it := Iter{K: k, A: a, B: b, XMid: mid, FXMid: fm}
		res.Iters = append(res.Iters, it)

		if onIter != nil {
			if err := onIter(it); err != nil {
				res.Status = StatusStopped
				return res, err
			}
		}

		if math.Abs(fm) < tol {
			return converged(res, mid, fm)
		}

		// an exact zero never reaches here: |0| < tol above
		if opposite(fa, fm) {
			b = mid
		} else {
			a, fa = mid, fm
		}

		if (b-a)/2 < tol {
			return converged(res, mid, fm)
		}
	}

	return fail(fmt.Errorf("%w after %d iterations", ErrNotConverged, maxIter))
}

func converged(res Result, x, fx float64) (Result, error) {
	res.Status, res.X, res.FX = StatusConverged, x, fx
	return res, nil
}

func evalAt(f Func, x float64, at Point, k int) (float64, error) {
	y, err := f.Eval(x)
	if err != nil {
		return y, &EvalError{Point: at, X: x, Iter: k, Err: err}
	}
	if !finite(y) {
		return y, &EvalError{Point: at, X: x, Iter: k, Err: fmt.Errorf("%w: %v", ErrNonFinite, y)}
	}
	return y, nil
}

// opposite compares signs rather than the product, which can underflow to 0.
func opposite(x, y float64) bool {
	return (x < 0 && y > 0) || (x > 0 && y < 0)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
