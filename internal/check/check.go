// Package check provides system diagnostics: trainer binary availability,
// image codec self-tests, and a worker pool report.
package check

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/spookworks/ganprep/internal/config"
)

// ErrTrainerNotFound is returned when the configured trainer binary is not
// on PATH. It is the only diagnostic that fails the check run.
var ErrTrainerNotFound = errors.New("trainer not found on PATH")

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the check flow: trainer availability, JPEG and PNG codec
// round-trips, and the worker default. Codec failures are informational;
// only a missing trainer is returned as an error.
func RunCheck(cfg *config.Config, log Logger) error {
	log.Info("=== System Check ===")

	trainerErr := checkTrainer(cfg, log)
	checkCodecs(log)
	log.Info("Workers: %d", cfg.Workers)

	return trainerErr
}

// checkTrainer verifies the trainer binary is on PATH and logs its version
// string when the binary reports one.
func checkTrainer(cfg *config.Config, log Logger) error {
	path, err := exec.LookPath(cfg.TrainerBin)
	if err != nil {
		log.Error("trainer %q not found", cfg.TrainerBin)
		return errors.Wrapf(ErrTrainerNotFound, "%s", cfg.TrainerBin)
	}

	cmd := exec.Command(path, "--version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("trainer found at %s but --version failed: %v", path, err)
		return nil
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("trainer: %s", firstLine)
	return nil
}

// checkCodecs encodes and decodes a small test image through each codec the
// pipeline writes, in a temp dir, and reports per-codec results.
func checkCodecs(log Logger) {
	dir, err := os.MkdirTemp("", "ganprep-check-")
	if err != nil {
		log.Warn("Could not create temp dir for codec test: %v", err)
		return
	}
	defer os.RemoveAll(dir)

	if err := roundTripJPEG(filepath.Join(dir, "probe.jpg")); err != nil {
		log.Error("JPEG codec test failed: %v", err)
	} else {
		log.Success("JPEG codec works")
	}
	if err := roundTripPNG(filepath.Join(dir, "probe.png")); err != nil {
		log.Error("PNG codec test failed: %v", err)
	} else {
		log.Success("PNG codec works")
	}
}

func roundTripJPEG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, testImage(), nil); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return decodeFile(path)
}

func roundTripPNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, testImage()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return decodeFile(path)
}

func decodeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, _, err = image.Decode(f)
	return err
}

// testImage returns a small gradient, enough to exercise the codecs.
func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}
