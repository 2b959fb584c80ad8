package transform

import (
	"image"
	"image/color"
	"testing"

	"github.com/menta2k/bitmap-utils/pkg/types"
)

var (
	marker     = color.NRGBA{255, 0, 0, 255}
	background = color.NRGBA{0, 0, 255, 255}
)

// createMarkedImage creates a blue image with a red top-left pixel
func createMarkedImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, background)
		}
	}
	img.SetNRGBA(0, 0, marker)

	return img
}

// createStripedImage creates alternating black and white columns
func createStripedImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}

	return img
}

func TestDefaultBlurOptions(t *testing.T) {
	opts := DefaultBlurOptions()
	if opts.BitmapScale != 0.4 {
		t.Errorf("Expected bitmap scale 0.4, got %f", opts.BitmapScale)
	}
	if opts.Radius != 16 {
		t.Errorf("Expected radius 16, got %f", opts.Radius)
	}
	if err := ValidateBlurOptions(opts); err != nil {
		t.Errorf("Default options should be valid: %v", err)
	}
}

func TestValidateBlurOptions(t *testing.T) {
	invalid := []types.BlurOptions{
		{BitmapScale: 0, Radius: 5},
		{BitmapScale: 1.5, Radius: 5},
		{BitmapScale: 0.5, Radius: 0},
		{BitmapScale: 0.5, Radius: 26},
	}
	for _, opts := range invalid {
		if err := ValidateBlurOptions(opts); err == nil {
			t.Errorf("Expected %+v to be rejected", opts)
		}
	}
}

func TestBlur(t *testing.T) {
	img := createStripedImage(100, 50)

	result, err := Blur(img, DefaultBlurOptions())
	if err != nil {
		t.Fatalf("Blur failed: %v", err)
	}

	bounds := result.Bounds()
	if bounds.Dx() != 40 || bounds.Dy() != 20 {
		t.Errorf("Expected 40x20, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// Stripes should be averaged towards grey.
	c := result.NRGBAAt(20, 10)
	if c.R < 64 || c.R > 192 {
		t.Errorf("Expected a mid-grey after blurring, got %v", c)
	}
}

func TestBlurTinyImage(t *testing.T) {
	result, err := Blur(createStripedImage(1, 1), DefaultBlurOptions())
	if err != nil {
		t.Fatalf("Blur failed: %v", err)
	}
	if result.Bounds().Dx() != 1 || result.Bounds().Dy() != 1 {
		t.Errorf("Expected 1x1, got %v", result.Bounds())
	}
}

func TestBlurRejectsInvalid(t *testing.T) {
	if _, err := Blur(createStripedImage(10, 10), types.BlurOptions{BitmapScale: 0.5, Radius: 30}); err == nil {
		t.Error("Expected error for radius above the maximum")
	}
	if _, err := Blur(image.NewNRGBA(image.Rect(0, 0, 0, 0)), DefaultBlurOptions()); err == nil {
		t.Error("Expected error for empty image")
	}
}

func TestRadiusToSigma(t *testing.T) {
	if got := RadiusToSigma(16); got < 6.999 || got > 7.001 {
		t.Errorf("Expected sigma 7, got %f", got)
	}
}

func TestRotate(t *testing.T) {
	img := createMarkedImage(4, 2)

	tests := []struct {
		angle         int
		width, height int
		markerX       int
		markerY       int
	}{
		{0, 4, 2, 0, 0},
		{360, 4, 2, 0, 0},
		{90, 2, 4, 0, 3},
		{-270, 2, 4, 0, 3},
		{180, 4, 2, 3, 1},
		{270, 2, 4, 1, 0},
	}

	for _, tt := range tests {
		result := Rotate(img, tt.angle)
		bounds := result.Bounds()
		if bounds.Dx() != tt.width || bounds.Dy() != tt.height {
			t.Errorf("angle %d: expected %dx%d, got %dx%d", tt.angle, tt.width, tt.height, bounds.Dx(), bounds.Dy())
			continue
		}
		if got := result.NRGBAAt(tt.markerX, tt.markerY); got != marker {
			t.Errorf("angle %d: expected marker at (%d,%d), got %v", tt.angle, tt.markerX, tt.markerY, got)
		}
	}
}

func TestRotateArbitraryAngle(t *testing.T) {
	result := Rotate(createMarkedImage(100, 100), 45)
	bounds := result.Bounds()

	// The bounding box of a rotated square grows by about sqrt(2).
	if bounds.Dx() < 140 || bounds.Dx() > 143 {
		t.Errorf("Expected width near 141, got %d", bounds.Dx())
	}

	if _, _, _, a := result.At(0, 0).RGBA(); a != 0 {
		t.Errorf("Expected transparent corner, got alpha %d", a)
	}
}

func TestMirror(t *testing.T) {
	result := Mirror(createMarkedImage(5, 3))

	if got := result.NRGBAAt(4, 0); got != marker {
		t.Errorf("Expected marker at top-right, got %v", got)
	}
	if got := result.NRGBAAt(0, 0); got != background {
		t.Errorf("Expected background at top-left, got %v", got)
	}
}

func TestMirrorTwiceIsIdentity(t *testing.T) {
	img := createMarkedImage(7, 4)
	result := Mirror(Mirror(img))

	for y := 0; y < 4; y++ {
		for x := 0; x < 7; x++ {
			if result.NRGBAAt(x, y) != img.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) differs after double mirror", x, y)
			}
		}
	}
}

func BenchmarkBlur(b *testing.B) {
	img := createStripedImage(1080, 1920)
	opts := DefaultBlurOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Blur(img, opts)
	}
}
