package cropper

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/menta2k/bitmap-utils/pkg/sampling"
	"github.com/menta2k/bitmap-utils/pkg/types"
)

// ErrAllocationFailure is returned instead of allocating a destination larger
// than the configured pixel limit.
var ErrAllocationFailure = errors.New("destination allocation exceeds pixel limit")

// DefaultMaxPixels bounds a single destination to 64 megapixels.
const DefaultMaxPixels = 64 << 20

// Cropper renders cover crops and square trims
type Cropper struct {
	config CropConfig
}

// CropConfig holds configuration for cropping
type CropConfig struct {
	// MaxPixels caps width*height of any destination; 0 disables the check.
	MaxPixels int
	// Interpolator resamples the source while drawing. Nil means bilinear.
	Interpolator draw.Interpolator
}

// New creates a new Cropper with default configuration
func New() *Cropper {
	return &Cropper{
		config: CropConfig{
			MaxPixels:    DefaultMaxPixels,
			Interpolator: draw.BiLinear,
		},
	}
}

// NewWithConfig creates a new Cropper with custom configuration
func NewWithConfig(config CropConfig) *Cropper {
	if config.Interpolator == nil {
		config.Interpolator = draw.BiLinear
	}
	return &Cropper{config: config}
}

// PlanCenterCrop computes the cover placement of a sourceWidth x sourceHeight
// image on a newWidth x newHeight canvas. The larger of the two axis scale
// factors is used, so the scaled source covers the canvas and the overflow is
// centered.
func PlanCenterCrop(sourceWidth, sourceHeight, newWidth, newHeight int) types.CropPlan {
	xScale := float32(newWidth) / float32(sourceWidth)
	yScale := float32(newHeight) / float32(sourceHeight)
	scale := max(xScale, yScale)

	scaledWidth := scale * float32(sourceWidth)
	scaledHeight := scale * float32(sourceHeight)

	left := (float32(newWidth) - scaledWidth) / 2
	top := (float32(newHeight) - scaledHeight) / 2

	return types.CropPlan{
		Scale:        float64(scale),
		OffsetX:      float64(left),
		OffsetY:      float64(top),
		ScaledWidth:  float64(scaledWidth),
		ScaledHeight: float64(scaledHeight),
		Width:        newWidth,
		Height:       newHeight,
	}
}

// ScaleCenterCrop returns a newWidth x newHeight image filled by the source
// scaled to cover it and centered. Pixels falling outside the destination are
// clipped by the draw.
func (c *Cropper) ScaleCenterCrop(img image.Image, newWidth, newHeight int) (*image.NRGBA, error) {
	bounds := img.Bounds()
	src := types.Dimensions{Width: bounds.Dx(), Height: bounds.Dy()}
	if !src.Positive() {
		return nil, fmt.Errorf("source %dx%d: %w", src.Width, src.Height, sampling.ErrInvalidDimensions)
	}
	if newWidth <= 0 || newHeight <= 0 {
		return nil, fmt.Errorf("target %dx%d: %w", newWidth, newHeight, sampling.ErrInvalidDimensions)
	}
	if err := c.CheckAllocation(newWidth, newHeight); err != nil {
		return nil, err
	}

	plan := PlanCenterCrop(src.Width, src.Height, newWidth, newHeight)
	dst := image.NewNRGBA(image.Rect(0, 0, newWidth, newHeight))

	// Maps source pixel space onto the destination canvas.
	s2d := f64.Aff3{
		plan.Scale, 0, plan.OffsetX - plan.Scale*float64(bounds.Min.X),
		0, plan.Scale, plan.OffsetY - plan.Scale*float64(bounds.Min.Y),
	}
	c.config.Interpolator.Transform(dst, s2d, img, bounds, draw.Src, nil)

	return dst, nil
}

// TrimToSquare crops the centered square whose side is the shorter dimension.
func (c *Cropper) TrimToSquare(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var rect image.Rectangle
	if width >= height {
		crop := (width - height) / 2
		rect = image.Rect(crop, 0, crop+height, height)
	} else {
		crop := (height - width) / 2
		rect = image.Rect(0, crop, width, crop+width)
	}

	return imaging.Crop(img, rect.Add(bounds.Min))
}

// CheckAllocation reports ErrAllocationFailure when a width x height
// destination exceeds the configured limit.
func (c *Cropper) CheckAllocation(width, height int) error {
	if c.config.MaxPixels <= 0 {
		return nil
	}
	if int64(width)*int64(height) > int64(c.config.MaxPixels) {
		return fmt.Errorf("%dx%d (limit %d pixels): %w", width, height, c.config.MaxPixels, ErrAllocationFailure)
	}
	return nil
}
