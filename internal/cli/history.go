package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Dekendrabaduwal/College-course/internal/report"
	"github.com/Dekendrabaduwal/College-course/internal/rootfind"
	"github.com/Dekendrabaduwal/College-course/internal/store"
)

func newHistoryCommand(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "List recorded runs, or show one with its iterations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			history, err := store.Open(cfg.Store)
			if err != nil {
				return err
			}
			defer history.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				run, err := history.Get(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				return showRun(out, run)
			}

			runs, err := history.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				_, err := fmt.Fprintln(out, "no runs recorded")
				return err
			}
			_, err = fmt.Fprintln(out, runsTable(runs))
			return err
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list")
	return cmd
}

func runsTable(runs []*store.Run) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("id", "when", "f(x)", "a", "b", "status", "x")

	for _, r := range runs {
		x := ""
		if r.Status.OK() {
			x = report.Format(r.X)
		}
		t.Row(
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Func,
			report.Format(r.Params.A),
			report.Format(r.Params.B),
			r.Status.String(),
			x,
		)
	}
	return t.String()
}

func showRun(w io.Writer, r *store.Run) error {
	if _, err := fmt.Fprintf(w, "f(x) = %s on [%s, %s], tol %s\n",
		r.Func, report.Format(r.Params.A), report.Format(r.Params.B), report.Format(r.Params.Tol)); err != nil {
		return err
	}

	res := rootfind.Result{Status: r.Status, X: r.X, FX: r.FX, Iters: r.Iters}
	return report.Render(w, r.Params, res, storedError(r))
}

// storedError rebuilds an error carrying the recorded status so the
// same status line is rendered again.
func storedError(r *store.Run) error {
	if r.Err == "" {
		return nil
	}
	return &statusError{status: r.Status, msg: r.Err}
}

type statusError struct {
	status rootfind.Status
	msg    string
}

func (e *statusError) Error() string { return e.msg }

func (e *statusError) Is(target error) bool {
	switch target {
	case rootfind.ErrInvalidInterval:
		return e.status == rootfind.StatusInvalidInterval
	case rootfind.ErrInvalidTolerance:
		return e.status == rootfind.StatusInvalidTolerance
	case rootfind.ErrExpression:
		return e.status == rootfind.StatusExpressionError
	case rootfind.ErrEvaluation:
		return e.status == rootfind.StatusEvaluationError
	case rootfind.ErrNoSignChange:
		return e.status == rootfind.StatusNoSignChange
	case rootfind.ErrNotConverged:
		return e.status == rootfind.StatusNotConverged
	}
	return false
}
