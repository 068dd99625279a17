// Package train launches the external model trainer on a prepared dataset.
// It is a thin driver: resolve paths, build the fixed argument set, hand the
// terminal to the child process, and propagate its exit code.
package train

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/spookworks/ganprep/internal/config"
	"github.com/spookworks/ganprep/internal/logging"
)

// Request carries the three launch inputs after path resolution.
type Request struct {
	DataDir    string // Absolute path to the prepared dataset root.
	Dataset    string // Dataset name under DataDir, resolved like a path.
	Checkpoint string // Absolute path to the model state to resume from.
}

// NewRequest resolves the three positional launch arguments. The data
// directory and checkpoint must exist; the dataset name is made absolute
// without an existence requirement since the trainer resolves it itself.
func NewRequest(dataDir, dataset, checkpoint string) (Request, error) {
	var req Request
	var err error

	if req.DataDir, err = absPath(dataDir); err != nil {
		return req, errors.Wrapf(err, "data directory %q", dataDir)
	}
	if req.Dataset, err = filepath.Abs(dataset); err != nil {
		return req, errors.Wrapf(err, "dataset %q", dataset)
	}
	if req.Checkpoint, err = absPath(checkpoint); err != nil {
		return req, errors.Wrapf(err, "checkpoint %q", checkpoint)
	}
	return req, nil
}

// BuildArgs returns the trainer's argument list. The set is fixed apart from
// the resolved paths: one accelerator device, the configured preset, mirror
// augmentation on, checkpoints under cfg.RunDir, resume from the checkpoint.
func BuildArgs(cfg *config.Config, req Request) []string {
	return []string{
		"--outdir=" + cfg.RunDir,
		"--gpus=1",
		"--cfg=" + cfg.Preset,
		"--mirror=1",
		"--data-dir=" + req.DataDir,
		"--dataset=" + req.Dataset,
		"--resume=" + req.Checkpoint,
	}
}

// Run launches the trainer with inherited stdio and blocks until it exits.
// The child's exit code is recoverable from the returned error via
// [ExitCode]; a dry run logs the command line and launches nothing.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, req Request) error {
	args := BuildArgs(cfg, req)

	log.Info("Trainer: %s", cfg.TrainerBin)
	log.Info("Data:    %s (dataset %s)", req.DataDir, filepath.Base(req.Dataset))
	log.Info("Resume:  %s", req.Checkpoint)
	log.Info("Runs:    %s", cfg.RunDir)

	if cfg.DryRun {
		log.Info("[DRY] exec: %s %v", cfg.TrainerBin, args)
		return nil
	}

	bin, err := exec.LookPath(cfg.TrainerBin)
	if err != nil {
		return errors.Wrapf(err, "trainer %q not found on PATH", cfg.TrainerBin)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Debug("exec: %s %v", bin, args)
	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "trainer")
	}
	return nil
}

// ExitCode maps a Run error to the process exit code the caller should use:
// the child's own code when it ran and failed, 1 for anything else, 0 on nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

// absPath returns the absolute path with symlinks resolved. The path must
// exist.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("not found: %s", abs)
	}
	return resolved, nil
}
