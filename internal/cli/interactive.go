package cli

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Dekendrabaduwal/College-course/internal/report"
	"github.com/Dekendrabaduwal/College-course/internal/rootfind"
)

// formValues are the raw form fields, kept as text like the inputs they come from.
type formValues struct {
	expr string
	a, b string
	tol  string
}

// parseNumber reads a form field. Blank or unparsable input is NaN so the
// solver reports it with its own message.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func validateNumber(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return errors.New("enter a number")
	}
	return nil
}

func (v formValues) params(maxIter int) rootfind.Params {
	return rootfind.Params{
		A:       parseNumber(v.a),
		B:       parseNumber(v.b),
		Tol:     parseNumber(v.tol),
		MaxIter: maxIter,
	}
}

func newForm(v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("f(x)").
				Placeholder("x^2 - 2").
				Value(&v.expr),
			huh.NewInput().
				Title("a").
				Value(&v.a).
				Validate(validateNumber),
			huh.NewInput().
				Title("b").
				Value(&v.b).
				Validate(validateNumber),
			huh.NewInput().
				Title("tolerance").
				Value(&v.tol).
				Validate(validateNumber),
		),
	)
}

func newInteractiveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Enter f, a, b and the tolerance in a form and solve repeatedly",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			v := formValues{tol: strconv.FormatFloat(cfg.Solver.Tol, 'g', -1, 64)}
			for {
				if err := newForm(&v).Run(); err != nil {
					// aborted with ctrl+c or esc
					return nil
				}

				p := v.params(cfg.Solver.MaxIter)
				res, solveErr := solve(v.expr, p)
				if err := report.Render(cmd.OutOrStdout(), p, res, solveErr); err != nil {
					return err
				}

				again := true
				confirm := huh.NewConfirm().Title("Solve another?").Value(&again)
				if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil || !again {
					return nil
				}
			}
		},
	}
}
