// Package cli holds the cobra commands of the bisect tool.
package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Dekendrabaduwal/College-course/internal/config"
	"github.com/Dekendrabaduwal/College-course/internal/logger"
)

// ErrRunFailed is returned when a run ends without a root. The result has
// already been printed, so callers only need to set the exit status.
var ErrRunFailed = errors.New("no root found")

type options struct {
	configPath string
	verbose    bool
}

func (o *options) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	lvl, _ := logger.ParseLevel(cfg.Log.Level)
	if o.verbose {
		lvl = slog.LevelDebug
	}
	logger.SetLevel(lvl)
	return cfg, nil
}

// NewRootCommand builds the bisect command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "bisect",
		Short:         "Find a root of f(x) on [a, b] with the bisection method",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to bisect.yaml")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSolveCommand(opts),
		newInteractiveCommand(opts),
		newServeCommand(opts),
		newHistoryCommand(opts),
	)
	return root
}

// NewServeCommand is the serve command on its own, for the server binary.
func NewServeCommand() *cobra.Command {
	opts := &options{}
	cmd := newServeCommand(opts)
	cmd.Use = "bisect-server"
	cmd.SilenceUsage = true
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to bisect.yaml")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}
