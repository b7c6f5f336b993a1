package rootfind

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvalFunc_Eval(t *testing.T) {
	cases := []struct {
		expr string
		x    float64
		want float64
	}{
		{"x^2 - 2", 3, 7},
		{"x**2 - 2", 3, 7},
		{"pow(x, 3)", 2, 8},
		{"sin(x)", 0, 0},
		{"cos(pi)", 0, -1},
		{"exp(x) - e", 1, 0},
		{"sqrt(x) + abs(-1)", 4, 3},
		{"log10(x)", 1000, 3},
		{"ln(x)", 1, 0},
		{"max(x, 1) - min(x, 1)", 4, 3},
		{"-x + 1", 1, 0},
		{"floor(x) + ceil(x)", 1.5, 3},
		{"-x^2", 2, -4},
		{"-x^2 + 4", 2, 0},
		{"-2**2", 0, -4},
		{"(-x)^2", 2, 4},
		{"2^-1 * x", 4, 2},
		{"x^-2", 2, 0.25},
		{"x^2^3", 2, 256},
		{"1e-3*x", 2000, 2},
		{"2.5E2 - x", 50, 200},
		{"x - -1", 1, 2},
		{"2*x^2/4", 2, 2},
		{"10 - 4 - 3", 0, 3},
		{"12 / 3 / 2", 0, 2},
		{"pow(-x, 2) - x^2", 3, 0},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			f, err := NewEvalFunc(tc.expr)
			require.NoError(t, err)

			got, err := f.Eval(tc.x)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestNewEvalFunc_ExpressionErrors(t *testing.T) {
	for _, expr := range []string{"", "   ", "x +", "y + 1", "(x", "x > 1", "2x", "1e999", "x ^", "x $ 2", "sin(x"} {
		_, err := NewEvalFunc(expr)
		assert.ErrorIs(t, err, ErrExpression, "expr %q", expr)
		assert.Equal(t, StatusExpressionError, StatusOf(err))
	}
}

func TestNewEvalFunc_EvalErrors(t *testing.T) {
	t.Run("arity", func(t *testing.T) {
		f, err := NewEvalFunc("sin(x, 1)")
		require.NoError(t, err)

		_, err = f.Eval(1)
		assert.ErrorContains(t, err, "wrong number of arguments")
	})

	t.Run("domain gives nan", func(t *testing.T) {
		f, err := NewEvalFunc("sqrt(x)")
		require.NoError(t, err)

		y, err := f.Eval(-1)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(y))
	})
}

func TestNewEvalFunc_Bisect(t *testing.T) {
	f, err := NewEvalFunc("x^2 - 2")
	require.NoError(t, err)

	res, err := Bisect(f, Params{A: 0, B: 2, Tol: 1e-6}, nil)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, res.X, 1e-6)

	neg, err := NewEvalFunc("-x^2 + 2")
	require.NoError(t, err)

	res, err = Bisect(neg, Params{A: 0, B: 2, Tol: 1e-6}, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusConverged, res.Status)
	assert.InDelta(t, math.Sqrt2, res.X, 1e-6)

	g, err := NewEvalFunc("x^2 + 1")
	require.NoError(t, err)

	_, err = Bisect(g, Params{A: -1, B: 1, Tol: 1e-6}, nil)
	assert.ErrorIs(t, err, ErrNoSignChange)
}

func TestNewEvalFunc_DomainErrorInBisect(t *testing.T) {
	f, err := NewEvalFunc("log(x)")
	require.NoError(t, err)

	_, err = Bisect(f, Params{A: -1, B: 2, Tol: 1e-6}, nil)

	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, PointA, ee.Point)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestNewEvalFunc_ConcurrentEval(t *testing.T) {
	f, err := NewEvalFunc("x * 2")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(x float64) {
			defer wg.Done()
			y, err := f.Eval(x)
			assert.NoError(t, err)
			assert.Equal(t, 2*x, y)
		}(float64(i))
	}
	wg.Wait()
}

func TestSampleFunc(t *testing.T) {
	f, err := NewEvalFunc("log(x)")
	require.NoError(t, err)

	pts := SampleFunc(f, -1, 1, 3)
	require.Len(t, pts, 3)

	assert.Equal(t, -1.0, pts[0].X)
	assert.Nil(t, pts[0].Y)
	assert.Equal(t, 0.0, pts[1].X)
	assert.Nil(t, pts[1].Y, "log(0) is -Inf")
	require.NotNil(t, pts[2].Y)
	assert.Equal(t, 0.0, *pts[2].Y)
}
