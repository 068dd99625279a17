package transform

import (
	"image"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"

	"github.com/spookworks/ganprep/internal/config"
)

// Fixed augmentation magnitudes. The catalogue is deliberately small and
// constant: every source image yields the same set of variants, one artifact
// per tag.
const (
	deskewAngle     = 2.0  // degrees
	hueShift        = 18   // degrees on the hue circle
	tintPercent     = 12   // single-channel color balance
	brightnessDelta = 10   // percent
	contrastDelta   = 10   // percent
	stretchFactor   = 3.0  // sigmoidal contrast factor
	stretchMidpoint = 0.5  // sigmoid midpoint
	blurSigma       = 1.5
	sharpenSigma    = 1.0
)

// Variant is one named augmentation: a tag (used in the artifact filename)
// and the pure image operation behind it.
type Variant struct {
	Tag   string
	Apply func(image.Image) image.Image
}

// Catalogue returns the full fixed set of augmentation variants. Tags are
// unique; the pipeline produces exactly one artifact per (image, tag) pair.
func Catalogue() []Variant {
	return []Variant{
		{"deskew", giftOp(gift.Rotate(deskewAngle, canvasBackground, gift.CubicInterpolation))},
		{"hue-up", giftOp(gift.Hue(hueShift))},
		{"hue-down", giftOp(gift.Hue(-hueShift))},
		{"tint-red", giftOp(gift.ColorBalance(tintPercent, 0, 0))},
		{"tint-green", giftOp(gift.ColorBalance(0, tintPercent, 0))},
		{"tint-blue", giftOp(gift.ColorBalance(0, 0, tintPercent))},
		{"brighten", func(img image.Image) image.Image { return imaging.AdjustBrightness(img, brightnessDelta) }},
		{"darken", func(img image.Image) image.Image { return imaging.AdjustBrightness(img, -brightnessDelta) }},
		{"contrast-up", func(img image.Image) image.Image { return imaging.AdjustContrast(img, contrastDelta) }},
		{"contrast-down", func(img image.Image) image.Image { return imaging.AdjustContrast(img, -contrastDelta) }},
		{"stretch-up", func(img image.Image) image.Image { return imaging.AdjustSigmoid(img, stretchMidpoint, stretchFactor) }},
		{"stretch-down", func(img image.Image) image.Image { return imaging.AdjustSigmoid(img, stretchMidpoint, -stretchFactor) }},
		{"blur", func(img image.Image) image.Image { return imaging.Blur(img, blurSigma) }},
		{"sharpen", func(img image.Image) image.Image { return imaging.Sharpen(img, sharpenSigma) }},
	}
}

// giftOp adapts a gift filter chain to the Variant.Apply signature.
func giftOp(filters ...gift.Filter) func(image.Image) image.Image {
	return func(src image.Image) image.Image {
		g := gift.New(filters...)
		dst := image.NewNRGBA(g.Bounds(src.Bounds()))
		g.Draw(dst, src)
		return dst
	}
}

// Augment applies one catalogue variant to the image at srcPath and writes
// the artifact to destPath. Dimensions are preserved except for deskew, whose
// rotation grows the bounding box.
func Augment(cfg *config.Config, srcPath, destPath string, v Variant) error {
	img, err := imaging.Open(srcPath)
	if err != nil {
		return opError(v.Tag, srcPath, err)
	}
	out := v.Apply(img)
	return opError(v.Tag, srcPath, imaging.Save(out, destPath, encodeOptions(cfg)...))
}
