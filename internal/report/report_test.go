package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dekendrabaduwal/College-course/internal/rootfind"
)

func solve(t *testing.T, expr string, p rootfind.Params) (rootfind.Result, error) {
	t.Helper()
	f, err := rootfind.NewEvalFunc(expr)
	if err != nil {
		return rootfind.Result{}, err
	}
	return rootfind.Bisect(f, p, nil)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.41421", Format(1.4142131805419922))
	assert.Equal(t, "0", Format(0))
	assert.Equal(t, "-0.4375", Format(-0.4375))
	assert.Equal(t, "1e-06", Format(1e-6))
}

func TestMessage(t *testing.T) {
	cases := []struct {
		name string
		expr string
		p    rootfind.Params
		want string
		ok   bool
	}{
		{"converged", "x^2 - 2", rootfind.Params{A: 0, B: 2, Tol: 1e-6}, "Root found: x = 1.41421 with f(x) = -1.07998e-06", true},
		{"root at a", "x - 1", rootfind.Params{A: 1, B: 2, Tol: 1e-6}, "a is a root: x = 1", true},
		{"root at b", "x - 2", rootfind.Params{A: 1, B: 2, Tol: 1e-6}, "b is a root: x = 2", true},
		{"endpoint unrounded", "x - 1.23456789", rootfind.Params{A: 1.23456789, B: 2, Tol: 1e-6}, "a is a root: x = 1.23456789", true},
		{"reversed", "x", rootfind.Params{A: 5, B: 1, Tol: 1e-6}, "Ensure that a < b.", false},
		{"nan", "x", rootfind.Params{A: math.NaN(), B: 1, Tol: 1e-6}, "Please enter valid numeric values for a and b.", false},
		{"tolerance", "x", rootfind.Params{A: -1, B: 1}, "Please enter a positive tolerance.", false},
		{"empty", "  ", rootfind.Params{A: -1, B: 1, Tol: 1e-6}, "Please enter a function.", false},
		{"bad expr", "x +", rootfind.Params{A: -1, B: 1, Tol: 1e-6}, "Invalid function expression.", false},
		{"endpoint nan", "log(x)", rootfind.Params{A: -1, B: 2, Tol: 1e-6}, "Function returns non-finite values at the endpoints.", false},
		{"endpoint error", "sin(x, 1)", rootfind.Params{A: -1, B: 2, Tol: 1e-6}, "Error evaluating function at the endpoints.", false},
		{"midpoint inf", "1 / x", rootfind.Params{A: -1, B: 1, Tol: 1e-6}, "Function returned non-finite value at midpoint.", false},
		{"no sign change", "x^2 + 1", rootfind.Params{A: -1, B: 1, Tol: 1e-6}, "f(a) and f(b) must have opposite signs.", false},
		{"not converged", "x^2 - 2", rootfind.Params{A: 0, B: 2, Tol: 1e-12, MaxIter: 10}, "Method did not converge after 10 iterations.", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := solve(t, tc.expr, tc.p)
			got, ok := Message(tc.p, res, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestMessage_MidpointError(t *testing.T) {
	err := &rootfind.EvalError{Point: rootfind.PointMidpoint, X: 0.5, Iter: 2, Err: assert.AnError}
	got, ok := Message(rootfind.Params{A: 0, B: 1, Tol: 1e-6}, rootfind.Result{Status: rootfind.StatusEvaluationError}, err)
	assert.False(t, ok)
	assert.Equal(t, "Error evaluating function at midpoint.", got)
}

func TestMessage_Stopped(t *testing.T) {
	got, ok := Message(rootfind.Params{}, rootfind.Result{Status: rootfind.StatusStopped}, rootfind.ErrStopped)
	assert.False(t, ok)
	assert.Equal(t, "Run stopped.", got)
}

func TestRender(t *testing.T) {
	p := rootfind.Params{A: 0, B: 2, Tol: 1e-6, MaxIter: 3}
	res, err := solve(t, "x^2 - 2", p)
	require.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, p, res, err))

	out := buf.String()
	assert.Contains(t, out, "Method did not converge after 3 iterations.")
	for _, h := range []string{"n", "a", "b", "mid", "f(mid)"} {
		assert.Contains(t, out, h)
	}
	assert.Contains(t, out, "1.25")
	assert.Contains(t, out, "-0.4375")
}

func TestRender_NoTraceNoTable(t *testing.T) {
	p := rootfind.Params{A: -1, B: 1, Tol: 1e-6}
	res, err := solve(t, "x^2 + 1", p)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, p, res, err))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestWriteCSV(t *testing.T) {
	iters := []rootfind.Iter{
		{K: 1, A: 0, B: 2, XMid: 1, FXMid: -1},
		{K: 2, A: 1, B: 2, XMid: 1.5, FXMid: 0.25},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, iters))
	assert.Equal(t, "k,a,b,mid,f(mid),b-a\n1,0,2,1,-1,2\n2,1,2,1.5,0.25,1\n", buf.String())
}

func TestNewSummary(t *testing.T) {
	p := rootfind.Params{A: -1, B: 1, Tol: 1e-6}
	res, err := solve(t, "x", p)
	require.NoError(t, err)

	s := NewSummary(p, res, err)
	assert.True(t, s.OK)
	require.NotNil(t, s.X)
	assert.Equal(t, 0.0, *s.X)

	data, jerr := json.Marshal(s)
	require.NoError(t, jerr)
	assert.Contains(t, string(data), `"status":"converged"`)

	_, err = rootfind.NewEvalFunc("")
	s = NewSummary(p, rootfind.Result{}, err)
	assert.Equal(t, rootfind.StatusExpressionError, s.Status)
	assert.False(t, s.OK)
	assert.Nil(t, s.X)
	assert.NotNil(t, s.Iters)
	assert.Equal(t, "Please enter a function.", s.Message)
}
