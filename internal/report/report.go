// Package report turns solver results into text for people: status lines,
// iteration tables and CSV.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Dekendrabaduwal/College-course/internal/rootfind"
)

var (
	success  = lipgloss.Color("#87bf47")
	errorCol = lipgloss.Color("#bf5d47")
	muted    = lipgloss.Color("#7f7f7f")
	primary  = lipgloss.Color("#f7c0af")

	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorCol).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(primary).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(muted)
)

// Format prints v with 6 significant digits.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// Message describes the outcome of a run in one line. ok is false for
// every failure.
func Message(p rootfind.Params, res rootfind.Result, err error) (text string, ok bool) {
	switch rootfind.StatusOf(err) {
	case rootfind.StatusConverged:
		if res.Status == rootfind.StatusRootAtEndpoint {
			name := "b"
			if res.X == p.A {
				name = "a"
			}
			// the endpoint is printed as given, not rounded
			return fmt.Sprintf("%s is a root: x = %s", name, strconv.FormatFloat(res.X, 'g', -1, 64)), true
		}
		return fmt.Sprintf("Root found: x = %s with f(x) = %s", Format(res.X), Format(res.FX)), true
	case rootfind.StatusInvalidInterval:
		if isFinite(p.A) && isFinite(p.B) {
			return "Ensure that a < b.", false
		}
		return "Please enter valid numeric values for a and b.", false
	case rootfind.StatusInvalidTolerance:
		return "Please enter a positive tolerance.", false
	case rootfind.StatusExpressionError:
		if errors.Is(err, rootfind.ErrNoFunction) {
			return "Please enter a function.", false
		}
		return "Invalid function expression.", false
	case rootfind.StatusEvaluationError:
		return evalMessage(err), false
	case rootfind.StatusNoSignChange:
		return "f(a) and f(b) must have opposite signs.", false
	case rootfind.StatusNotConverged:
		return fmt.Sprintf("Method did not converge after %d iterations.", len(res.Iters)), false
	}
	return "Run stopped.", false
}

func evalMessage(err error) string {
	var ee *rootfind.EvalError
	atMid := errors.As(err, &ee) && ee.Point == rootfind.PointMidpoint
	nonFinite := errors.Is(err, rootfind.ErrNonFinite)

	switch {
	case atMid && nonFinite:
		return "Function returned non-finite value at midpoint."
	case atMid:
		return "Error evaluating function at midpoint."
	case nonFinite:
		return "Function returns non-finite values at the endpoints."
	}
	return "Error evaluating function at the endpoints."
}

// Table renders the iteration trace.
func Table(iters []rootfind.Iter) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("n", "a", "b", "mid", "f(mid)").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, it := range iters {
		t.Row(strconv.Itoa(it.K), Format(it.A), Format(it.B), Format(it.XMid), Format(it.FXMid))
	}
	return t.String()
}

// Render writes the coloured status line and, when there is one, the trace.
func Render(w io.Writer, p rootfind.Params, res rootfind.Result, err error) error {
	msg, ok := Message(p, res, err)
	style := errorStyle
	if ok {
		style = successStyle
	}

	if _, werr := fmt.Fprintln(w, style.Render(msg)); werr != nil {
		return werr
	}
	if len(res.Iters) == 0 {
		return nil
	}
	_, werr := fmt.Fprintln(w, Table(res.Iters))
	return werr
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
