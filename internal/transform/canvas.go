package transform

import (
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/spookworks/ganprep/internal/config"
)

// OpCanvas is the operation tag used in canvas errors and logs.
const OpCanvas = "canvas"

// canvasBackground is the fixed padding color behind undersized images.
var canvasBackground = color.NRGBA{R: 0, G: 0, B: 0, A: 255}

// Canvas normalizes the image at path in place to exactly
// cfg.Width×cfg.Height: shrink-only fit inside the canvas preserving aspect
// ratio, then center onto the background. Images already within bounds are
// never upscaled, which makes the operation idempotent.
func Canvas(cfg *config.Config, path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return opError(OpCanvas, path, err)
	}

	// Fit only ever scales down; an image inside the bounds passes through.
	fitted := imaging.Fit(img, cfg.Width, cfg.Height, imaging.Lanczos)

	bg := imaging.New(cfg.Width, cfg.Height, canvasBackground)
	result := imaging.PasteCenter(bg, fitted)

	return opError(OpCanvas, path, imaging.Save(result, path, encodeOptions(cfg)...))
}
