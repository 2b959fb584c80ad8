// Package sampling computes power-of-two decode sample factors and resolves
// requested decode bounds against a source image.
package sampling

import (
	"errors"
	"fmt"

	"github.com/menta2k/bitmap-utils/pkg/types"
)

// ErrInvalidDimensions is returned when a source or request bound is not positive.
var ErrInvalidDimensions = errors.New("dimensions must be positive")

// CalculateInSampleSize returns the largest power of two n such that the
// halved source, divided by n, no longer exceeds the requested bounds on
// either axis. It returns 1 when the source already fits.
//
// Request bounds must be positive; zero bounds keep doubling until the halved
// dimension floors to zero.
func CalculateInSampleSize(height, width, reqHeight, reqWidth int) int {
	inSampleSize := 1

	if height > reqHeight || width > reqWidth {
		halfHeight := height / 2
		halfWidth := width / 2

		for halfHeight/inSampleSize > reqHeight || halfWidth/inSampleSize > reqWidth {
			inSampleSize *= 2
		}
	}

	return inSampleSize
}

// SampleFactor is CalculateInSampleSize with its preconditions checked.
func SampleFactor(src, req types.Dimensions) (int, error) {
	if !src.Positive() {
		return 0, fmt.Errorf("source %dx%d: %w", src.Width, src.Height, ErrInvalidDimensions)
	}
	if !req.Positive() {
		return 0, fmt.Errorf("request %dx%d: %w", req.Width, req.Height, ErrInvalidDimensions)
	}
	return CalculateInSampleSize(src.Height, src.Width, req.Height, req.Width), nil
}

// ResolveRequest fills in unset request bounds. types.Unset takes the source
// value; a zero bound is derived from the source aspect ratio when the other
// bound is positive.
func ResolveRequest(src, req types.Dimensions) types.Dimensions {
	if req.Width == types.Unset {
		req.Width = src.Width
	}
	if req.Height == types.Unset {
		req.Height = src.Height
	}
	if src.Height == 0 {
		return req
	}

	ratio := float32(src.Width) / float32(src.Height)
	if req.Height == 0 && req.Width > 0 {
		req.Height = int(float32(req.Width) / ratio)
	}
	if req.Width == 0 && req.Height > 0 {
		req.Width = int(float32(req.Height) * ratio)
	}
	return req
}

// SampledDimensions returns the size a decoder produces for sample factor n.
func SampledDimensions(src types.Dimensions, n int) types.Dimensions {
	if n < 1 {
		n = 1
	}
	return types.Dimensions{
		Width:  max(1, src.Width/n),
		Height: max(1, src.Height/n),
	}
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
