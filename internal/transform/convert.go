// Package transform implements the per-file image operations: format
// conversion, canvas normalization, and the augmentation catalogue. Every
// function maps one source file plus parameters to output artifacts on disk
// and fails independently with a per-item *Error.
package transform

import (
	"strings"

	"github.com/disintegration/imaging"

	"github.com/spookworks/ganprep/internal/config"
)

// OpConvert is the operation tag used in conversion errors and logs.
const OpConvert = "convert"

// Convert re-encodes the image at srcPath into destPath. The target format is
// taken from the destPath extension; when cfg.Quality is the codec-default
// sentinel the encoder's own default is used, otherwise the value is passed
// through (JPEG only; PNG is lossless and ignores it).
func Convert(cfg *config.Config, srcPath, destPath string) error {
	img, err := imaging.Open(srcPath)
	if err != nil {
		return opError(OpConvert, srcPath, err)
	}
	return opError(OpConvert, srcPath, imaging.Save(img, destPath, encodeOptions(cfg)...))
}

// encodeOptions translates cfg.Quality into imaging encoder options.
func encodeOptions(cfg *config.Config) []imaging.EncodeOption {
	if cfg.Quality == config.QualityDefault {
		return nil
	}
	return []imaging.EncodeOption{imaging.JPEGQuality(cfg.Quality)}
}

// extByMIME maps sniffed content types to extensions imaging can encode.
var extByMIME = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/bmp":  "bmp",
	"image/tiff": "tif",
}

// ExtForMIME returns the artifact extension for a sniffed content type.
// Unknown or unencodable image types fall back to the configured target
// format (the decode attempt will surface unsupported codecs as an *Error).
func ExtForMIME(cfg *config.Config, mime string) string {
	if ext, ok := extByMIME[strings.ToLower(mime)]; ok {
		return ext
	}
	return cfg.Format.Ext()
}
