// Package cli implements the ganprep command tree. Persistent flags bind
// straight into the shared Config; each subcommand adds its positionals and
// command-local flags on top.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/spookworks/ganprep/internal/config"
	"github.com/spookworks/ganprep/internal/display"
	"github.com/spookworks/ganprep/internal/logging"
)

// cfg is shared by every command. Persistent flags mutate it directly;
// subcommands fill in positionals before calling setup().
var cfg = config.DefaultConfig()

// Inverted flags; the config defaults are on.
var (
	noProgress bool
	noStats    bool
	colorFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "ganprep",
	Short: "Dataset preparation toolkit for image-model training",
	Long: `ganprep prepares image datasets for model training: it classifies
source files by content, normalizes them onto a fixed canvas, generates
augmentation variants, removes near-duplicates, fetches manifests, and
launches the external trainer.`,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg.Progress = !noProgress
		cfg.ShowStats = !noStats
		cfg.ColorMode = config.ColorMode(colorFlag)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "parallel worker count")
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "plan and log without writing anything")
	pf.StringVar(&colorFlag, "color", string(cfg.ColorMode), "color output: auto, always or never")
	pf.StringVar(&cfg.LogFile, "log", "", "append uncolored log output to this file")
	pf.BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	pf.BoolVar(&noStats, "no-stats", false, "disable per-file stats lines")
}

// Execute runs the command tree and returns the process exit code. A trainer
// child that ran and failed passes its own exit code through.
func Execute(version string) int {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ganprep: %v\n", err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps an Execute error to the process exit code.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

// setup validates the assembled config, builds the logger, and prints the
// banner. Every RunE calls it after binding positionals.
func setup() (*logging.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return nil, err
	}
	display.PrintBanner()
	return log, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM. The runner
// stops dispatching new jobs on cancellation; in-flight ones complete.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// resolveDirs binds and checks the source/dest positionals: source must
// exist, dest is created, and dest must not live inside source (a re-run
// would classify its own artifacts).
func resolveDirs(source, dest string) error {
	cfg.SourceDir = config.NormalizeDirArg(source)
	cfg.DestDir = config.NormalizeDirArg(dest)

	sourceAbs, err := absPath(cfg.SourceDir)
	if err != nil {
		return errors.Errorf("source not found: %s", cfg.SourceDir)
	}
	if err := os.MkdirAll(cfg.DestDir, 0o755); err != nil {
		return errors.Wrapf(err, "cannot create destination %q", cfg.DestDir)
	}
	destAbs, err := absPath(cfg.DestDir)
	if err != nil {
		return errors.Wrapf(err, "cannot resolve destination %q", cfg.DestDir)
	}
	return cfg.ValidatePaths(sourceAbs, destAbs)
}

// absPath returns the absolute path with symlinks resolved, for comparing
// source vs destination hierarchy.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
