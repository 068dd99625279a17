// Package config holds runtime configuration: defaults, validation, and the
// enum types shared across the pipeline. The Config struct is populated from
// CLI arguments and passed (by pointer) into every component; nothing reads
// configuration from the process environment.
package config

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// --- Enum types for validated string fields ---

// Format is the target image format for conversion.
type Format string

const (
	FormatJPEG Format = "jpg" // JPEG (default; lossy, quality-controlled).
	FormatPNG  Format = "png" // PNG (lossless; quality is ignored).
)

// Ext returns the file extension without dot.
func (f Format) Ext() string { return string(f) }

// DedupMethod selects the perceptual hash used for duplicate detection.
type DedupMethod string

const (
	DedupPHash DedupMethod = "phash" // Perceptual hash (default).
	DedupAHash DedupMethod = "ahash" // Average hash.
	DedupDHash DedupMethod = "dhash" // Difference hash.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// QualityDefault is the sentinel meaning "use the codec's default quality".
// The legacy normalization script v2 passed no quality flag at all; v1 used a
// fixed 33. Both behaviors are reachable through the one Quality field.
const QualityDefault = -1

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by the CLI layer before being passed (by pointer) to the
// packages that need it. Fields are grouped by concern.
type Config struct {
	// Paths (set from positional args).
	SourceDir string
	DestDir   string

	// Canvas geometry.
	Width  int // Default: 512.
	Height int // Default: 512.

	// Conversion.
	Format  Format // Default: "jpg".
	Quality int    // Default: QualityDefault (codec default). Range 1-100 otherwise.

	// Parallel runner.
	Workers int // Default: runtime.NumCPU().

	// Dedup.
	DedupMethod DedupMethod // Default: "phash".
	MaxDistance int         // Default: 8 (max hamming distance to call two images duplicates).
	Summary     bool        // Print dedup summary report.

	// Training launcher.
	TrainerBin string // Default: "stylegan2-train". External training executable.
	Preset     string // Default: "paper512". Named trainer configuration.
	RunDir     string // Default: "training-runs". Trainer checkpoint output dir.

	// Behavior flags.
	DryRun bool // Plan and log only; write nothing.

	// Display and logging.
	Verbose   bool
	ShowStats bool      // Default: true. Per-file dimension/format stats.
	Progress  bool      // Default: true. Progress bar during batch runs.
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with all defaults matching the legacy
// prepare_dataset.sh v2 behavior (512x512 canvas, codec-default quality).
func DefaultConfig() Config {
	return Config{
		Width:       512,
		Height:      512,
		Format:      FormatJPEG,
		Quality:     QualityDefault,
		Workers:     runtime.NumCPU(),
		DedupMethod: DedupPHash,
		MaxDistance: 8,
		TrainerBin:  "stylegan2-train",
		Preset:      "paper512",
		RunDir:      "training-runs",
		ShowStats:   true,
		Progress:    true,
		ColorMode:   ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks ranges and enum fields. Called by the CLI layer after all
// arguments and flags have been bound, before any filesystem access.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("canvas size must be positive (got %dx%d)", c.Width, c.Height)
	}

	if c.Quality != QualityDefault && (c.Quality < 1 || c.Quality > 100) {
		return errors.Errorf("quality must be 1-100 or %d for codec default (got %d)", QualityDefault, c.Quality)
	}

	switch c.Format {
	case FormatJPEG, FormatPNG:
		// valid
	default:
		return errors.New("invalid format (use 'jpg' or 'png')")
	}

	switch c.DedupMethod {
	case DedupPHash, DedupAHash, DedupDHash:
		// valid
	default:
		return errors.New("invalid dedup method (use 'phash', 'ahash' or 'dhash')")
	}
	if c.MaxDistance < 0 {
		return errors.Errorf("max distance must be >= 0 (got %d)", c.MaxDistance)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Workers < 1 {
		return errors.Errorf("workers must be >= 1 (got %d)", c.Workers)
	}
	return nil
}

// ValidatePaths ensures the resolved destination directory is not inside (or
// equal to) the resolved source directory. This prevents the pipeline from
// classifying its own output artifacts on a re-run. Both arguments must be
// absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(sourceAbs, destAbs string) error {
	sep := string(filepath.Separator)
	if destAbs == sourceAbs || strings.HasPrefix(destAbs+sep, sourceAbs+sep) {
		return errors.New("destination directory must not be inside source directory")
	}
	return nil
}
