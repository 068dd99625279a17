// Package probe inspects image files without fully decoding them: format,
// pixel dimensions, and size on disk. It backs the per-file stats line and
// the resolution outlier warnings.
package probe

import (
	"image"
	"os"

	"github.com/pkg/errors"

	// Standard decoders for header probing. BMP and TIFF headers are
	// registered as a side effect of the transform package linking
	// disintegration/imaging.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/spookworks/ganprep/internal/display"
)

// Info holds the probed properties of one image file.
type Info struct {
	Format string // Decoder name, e.g. "jpeg", "png".
	Width  int
	Height int
	Size   int64 // Bytes on disk.
}

// Resolution returns a "WxH" label for logging.
func (i *Info) Resolution() string {
	return display.FormatDimensions(i.Width, i.Height)
}

// Pixels returns the total pixel count.
func (i *Info) Pixels() int { return i.Width * i.Height }

// FitsWithin reports whether the image already fits inside a w×h canvas,
// i.e. canvas normalization would not shrink it.
func (i *Info) FitsWithin(w, h int) bool {
	return i.Width <= w && i.Height <= h
}

// Probe reads the image header at path and returns format and dimensions.
// Only the header is decoded, so probing is cheap even for large files.
func Probe(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "probe %q", path)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, errors.Wrapf(err, "probe %q: decode header", path)
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "probe %q", path)
	}

	return &Info{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   fi.Size(),
	}, nil
}

// Resolution outlier thresholds. Sources below the low bound will be mostly
// padding after canvas normalization; sources above the high bound are
// usually scans or panoramas that dominate processing time.
const (
	outlierMinDimension = 160
	outlierMaxPixels    = 40_000_000
)

// Outlier classifies the probed image as "low", "high", or "" (normal).
func (i *Info) Outlier() string {
	if i.Width <= 0 || i.Height <= 0 {
		return ""
	}
	min := i.Width
	if i.Height < min {
		min = i.Height
	}
	if min < outlierMinDimension {
		return "low"
	}
	if i.Pixels() > outlierMaxPixels {
		return "high"
	}
	return ""
}
