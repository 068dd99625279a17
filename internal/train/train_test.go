package train

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/spookworks/ganprep/internal/config"
	"github.com/spookworks/ganprep/internal/logging"
)

func testLogger(t *testing.T, cfg *config.Config) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func TestNewRequest_ResolvesPaths(t *testing.T) {
	dataDir := t.TempDir()
	checkpoint := filepath.Join(t.TempDir(), "model.pkl")
	if err := os.WriteFile(checkpoint, []byte("state"), 0o644); err != nil {
		t.Fatal(err)
	}

	req, err := NewRequest(dataDir, "costumes", checkpoint)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	if !filepath.IsAbs(req.DataDir) || !filepath.IsAbs(req.Dataset) || !filepath.IsAbs(req.Checkpoint) {
		t.Errorf("NewRequest() = %+v, want all paths absolute", req)
	}
	if filepath.Base(req.Dataset) != "costumes" {
		t.Errorf("Dataset = %q, want base name preserved", req.Dataset)
	}
}

func TestNewRequest_MissingInputs(t *testing.T) {
	existing := t.TempDir()
	nope := filepath.Join(existing, "nope")

	if _, err := NewRequest(nope, "x", existing); err == nil {
		t.Error("NewRequest() with missing data dir should fail")
	}
	if _, err := NewRequest(existing, "x", nope); err == nil {
		t.Error("NewRequest() with missing checkpoint should fail")
	}
}

func TestBuildArgs(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Preset = "paper512"
	cfg.RunDir = "training-runs"

	req := Request{
		DataDir:    "/data",
		Dataset:    "/data/costumes",
		Checkpoint: "/ckpt/model.pkl",
	}
	args := BuildArgs(&cfg, req)
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"--outdir=training-runs",
		"--gpus=1",
		"--cfg=paper512",
		"--mirror=1",
		"--data-dir=/data",
		"--dataset=/data/costumes",
		"--resume=/ckpt/model.pkl",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("BuildArgs() = %q, missing %q", joined, want)
		}
	}
	if len(args) != 7 {
		t.Errorf("BuildArgs() has %d args, want exactly 7 (the set is fixed)", len(args))
	}
}

func TestRun_DryRunLaunchesNothing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DryRun = true
	cfg.ColorMode = config.ColorNever
	cfg.TrainerBin = "definitely-not-on-path"
	log := testLogger(t, &cfg)

	req := Request{DataDir: "/data", Dataset: "/data/x", Checkpoint: "/ckpt/m.pkl"}
	if err := Run(context.Background(), &cfg, log, req); err != nil {
		t.Errorf("Run() dry run error = %v, want nil even with a missing trainer", err)
	}
}

func TestRun_MissingTrainer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.TrainerBin = "definitely-not-on-path"
	log := testLogger(t, &cfg)

	req := Request{DataDir: "/data", Dataset: "/data/x", Checkpoint: "/ckpt/m.pkl"}
	err := Run(context.Background(), &cfg, log, req)
	if err == nil {
		t.Fatal("Run() with missing trainer should fail")
	}
	if ExitCode(err) != 1 {
		t.Errorf("ExitCode() = %d, want 1 for a launch failure", ExitCode(err))
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
	if got := ExitCode(errors.New("boom")); got != 1 {
		t.Errorf("ExitCode(plain error) = %d, want 1", got)
	}

	// A real child that exits 3 so the code survives the wrap.
	cmd := exec.Command("sh", "-c", "exit 3")
	err := errors.Wrap(cmd.Run(), "trainer")
	if got := ExitCode(err); got != 3 {
		t.Errorf("ExitCode(exit 3) = %d, want 3", got)
	}
}
