package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Dekendrabaduwal/College-course/internal/config"
	"github.com/Dekendrabaduwal/College-course/internal/logger"
	"github.com/Dekendrabaduwal/College-course/internal/report"
	"github.com/Dekendrabaduwal/College-course/internal/rootfind"
	"github.com/Dekendrabaduwal/College-course/internal/store"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

type solveFlags struct {
	expr    string
	a, b    float64
	tol     float64
	maxIter int
	format  string
	record  bool
}

func newSolveCommand(opts *options) *cobra.Command {
	var fl solveFlags

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve f(x) = 0 on [a, b]",
		Example: `  bisect solve -f "x^2 - 2" -a 0 -b 2
  bisect solve -f "cos(x) - x" -a 0 -b 1 --tol 1e-10 --format csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			p := rootfind.Params{A: math.NaN(), B: math.NaN(), Tol: cfg.Solver.Tol, MaxIter: cfg.Solver.MaxIter}
			if cmd.Flags().Changed("a") {
				p.A = fl.a
			}
			if cmd.Flags().Changed("b") {
				p.B = fl.b
			}
			if cmd.Flags().Changed("tol") {
				p.Tol = fl.tol
			}
			if cmd.Flags().Changed("max-iter") {
				p.MaxIter = fl.maxIter
			}

			res, solveErr := solve(fl.expr, p)

			// as on the server, only runs on a valid interval are kept
			if fl.record && rootfind.Validate(p) == nil {
				if err := record(cmd.Context(), cfg, fl.expr, p, res, solveErr); err != nil {
					return err
				}
			}

			if err := write(cmd.OutOrStdout(), fl.format, p, res, solveErr); err != nil {
				return err
			}
			if solveErr != nil {
				return ErrRunFailed
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&fl.expr, "func", "f", "", "function of x, e.g. \"x^2 - 2\"")
	f.Float64VarP(&fl.a, "a", "a", 0, "left end of the interval")
	f.Float64VarP(&fl.b, "b", "b", 0, "right end of the interval")
	f.Float64Var(&fl.tol, "tol", 0, "tolerance (default from config, 1e-6)")
	f.IntVar(&fl.maxIter, "max-iter", 0, "iteration limit (default from config, 100)")
	f.StringVarP(&fl.format, "format", "o", formatTable, "output format: table, csv or json")
	f.BoolVar(&fl.record, "record", false, "save the run to the configured history store")

	return cmd
}

// solve compiles expr and bisects it.
func solve(expr string, p rootfind.Params) (rootfind.Result, error) {
	f, err := rootfind.NewEvalFunc(expr)
	if err != nil {
		return rootfind.Result{Status: rootfind.StatusOf(err)}, err
	}
	return rootfind.Bisect(f, p, nil)
}

func write(w io.Writer, format string, p rootfind.Params, res rootfind.Result, err error) error {
	switch format {
	case formatTable:
		return report.Render(w, p, res, err)
	case formatCSV:
		return report.WriteCSV(w, res.Iters)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report.NewSummary(p, res, err))
	}
	return fmt.Errorf("unknown format %q", format)
}

func record(ctx context.Context, cfg config.Config, expr string, p rootfind.Params, res rootfind.Result, err error) error {
	history, oerr := store.Open(cfg.Store)
	if oerr != nil {
		return oerr
	}
	defer history.Close()

	id := uuid.NewString()
	if serr := history.Save(ctx, store.NewRun(id, expr, p, res, err, time.Now())); serr != nil {
		return fmt.Errorf("failed to record run: %w", serr)
	}
	logger.Debug("run recorded", "run_id", id, "driver", cfg.Store.Driver)
	return nil
}
