// Package transform provides whole-image blur, rotate and mirror operations.
package transform

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/menta2k/bitmap-utils/pkg/types"
)

const (
	// DefaultBitmapScale is the downscale applied before blurring.
	DefaultBitmapScale = 0.4
	// DefaultBlurRadius is the blur radius in pixels of the downscaled image.
	DefaultBlurRadius = 16.0
	// MaxBlurRadius is the largest accepted blur radius.
	MaxBlurRadius = 25.0
)

// DefaultBlurOptions returns the standard downscale-then-blur settings
func DefaultBlurOptions() types.BlurOptions {
	return types.BlurOptions{
		BitmapScale: DefaultBitmapScale,
		Radius:      DefaultBlurRadius,
	}
}

// ValidateBlurOptions checks scale and radius ranges
func ValidateBlurOptions(opts types.BlurOptions) error {
	if opts.BitmapScale <= 0 || opts.BitmapScale > 1 {
		return fmt.Errorf("blur bitmap scale must be in (0, 1], got %g", opts.BitmapScale)
	}
	if opts.Radius <= 0 || opts.Radius > MaxBlurRadius {
		return fmt.Errorf("blur radius must be in (0, %g], got %g", MaxBlurRadius, opts.Radius)
	}
	return nil
}

// Blur shrinks the image by opts.BitmapScale with unfiltered sampling and then
// applies a Gaussian blur of opts.Radius. The result keeps the reduced size.
func Blur(img image.Image, opts types.BlurOptions) (*image.NRGBA, error) {
	if err := ValidateBlurOptions(opts); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("cannot blur empty image")
	}

	width := max(1, int(math.Round(float64(bounds.Dx())*opts.BitmapScale)))
	height := max(1, int(math.Round(float64(bounds.Dy())*opts.BitmapScale)))

	input := imaging.Resize(img, width, height, imaging.NearestNeighbor)
	return imaging.Blur(input, RadiusToSigma(opts.Radius)), nil
}

// RadiusToSigma converts a blur radius to a Gaussian standard deviation.
func RadiusToSigma(radius float64) float64 {
	return 0.4*radius + 0.6
}

// Rotate turns the image clockwise by 360-angle degrees, which is angle degrees
// counter-clockwise. Right angles are exact; other angles are resampled onto a
// transparent background.
func Rotate(img image.Image, angle int) *image.NRGBA {
	switch normalizeAngle(angle) {
	case 0:
		return imaging.Clone(img)
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	default:
		return imaging.Rotate(img, float64(angle), color.Transparent)
	}
}

// Mirror flips the image horizontally.
func Mirror(img image.Image) *image.NRGBA {
	return imaging.FlipH(img)
}

func normalizeAngle(angle int) int {
	angle %= 360
	if angle < 0 {
		angle += 360
	}
	return angle
}
