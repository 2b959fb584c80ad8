package sampling

import (
	"errors"
	"testing"

	"github.com/menta2k/bitmap-utils/pkg/types"
)

func TestCalculateInSampleSize(t *testing.T) {
	tests := []struct {
		name                               string
		height, width, reqHeight, reqWidth int
		want                               int
	}{
		{"fits exactly", 100, 100, 100, 100, 1},
		{"smaller than request", 50, 80, 100, 100, 1},
		{"worked example", 1000, 2000, 100, 300, 8},
		{"double size", 200, 200, 100, 100, 1},
		{"just over double", 404, 404, 100, 100, 4},
		{"one axis larger", 100, 4000, 100, 100, 32},
		{"large camera frame", 3024, 4032, 480, 640, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateInSampleSize(tt.height, tt.width, tt.reqHeight, tt.reqWidth)
			if got != tt.want {
				t.Errorf("CalculateInSampleSize(%d, %d, %d, %d) = %d, want %d",
					tt.height, tt.width, tt.reqHeight, tt.reqWidth, got, tt.want)
			}
		})
	}
}

func TestCalculateInSampleSizeProperties(t *testing.T) {
	for h := 1; h <= 600; h += 37 {
		for w := 1; w <= 900; w += 53 {
			for _, req := range [][2]int{{10, 10}, {64, 48}, {100, 300}, {600, 900}} {
				rh, rw := req[0], req[1]
				n := CalculateInSampleSize(h, w, rh, rw)

				if !IsPowerOfTwo(n) {
					t.Fatalf("(%d,%d,%d,%d): %d is not a power of two", h, w, rh, rw, n)
				}
				if h <= rh && w <= rw && n != 1 {
					t.Fatalf("(%d,%d,%d,%d): expected 1 for fitting source, got %d", h, w, rh, rw, n)
				}
				if (h/2)/n > rh || (w/2)/n > rw {
					t.Fatalf("(%d,%d,%d,%d): factor %d does not satisfy the bounds", h, w, rh, rw, n)
				}
				if n > 1 {
					half := n / 2
					if (h/2)/half <= rh && (w/2)/half <= rw {
						t.Fatalf("(%d,%d,%d,%d): smaller factor %d also satisfies the bounds", h, w, rh, rw, half)
					}
				}
			}
		}
	}
}

func TestCalculateInSampleSizeIsPure(t *testing.T) {
	first := CalculateInSampleSize(1000, 2000, 100, 300)
	second := CalculateInSampleSize(1000, 2000, 100, 300)
	if first != second {
		t.Errorf("Expected identical results, got %d and %d", first, second)
	}
}

func TestSampleFactor(t *testing.T) {
	n, err := SampleFactor(types.Dimensions{Width: 2000, Height: 1000}, types.Dimensions{Width: 300, Height: 100})
	if err != nil {
		t.Fatalf("SampleFactor failed: %v", err)
	}
	if n != 8 {
		t.Errorf("Expected 8, got %d", n)
	}

	invalid := []struct {
		src, req types.Dimensions
	}{
		{types.Dimensions{Width: 0, Height: 10}, types.Dimensions{Width: 10, Height: 10}},
		{types.Dimensions{Width: 10, Height: 10}, types.Dimensions{Width: 0, Height: 10}},
		{types.Dimensions{Width: 10, Height: 10}, types.Dimensions{Width: 10, Height: -1}},
	}
	for _, tc := range invalid {
		if _, err := SampleFactor(tc.src, tc.req); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("SampleFactor(%v, %v): expected ErrInvalidDimensions, got %v", tc.src, tc.req, err)
		}
	}
}

func TestResolveRequest(t *testing.T) {
	src := types.Dimensions{Width: 400, Height: 200}

	tests := []struct {
		name string
		req  types.Dimensions
		want types.Dimensions
	}{
		{"unset takes source", types.Dimensions{Width: types.Unset, Height: types.Unset}, src},
		{"height from width", types.Dimensions{Width: 100, Height: 0}, types.Dimensions{Width: 100, Height: 50}},
		{"width from height", types.Dimensions{Width: 0, Height: 100}, types.Dimensions{Width: 200, Height: 100}},
		{"explicit kept", types.Dimensions{Width: 30, Height: 70}, types.Dimensions{Width: 30, Height: 70}},
		{"both zero untouched", types.Dimensions{}, types.Dimensions{}},
		{"unset width zero height", types.Dimensions{Width: types.Unset, Height: 0}, types.Dimensions{Width: 400, Height: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveRequest(src, tt.req); got != tt.want {
				t.Errorf("ResolveRequest(%v) = %v, want %v", tt.req, got, tt.want)
			}
		})
	}
}

func TestSampledDimensions(t *testing.T) {
	got := SampledDimensions(types.Dimensions{Width: 1001, Height: 3}, 4)
	if got.Width != 250 || got.Height != 1 {
		t.Errorf("Expected 250x1, got %dx%d", got.Width, got.Height)
	}

	same := SampledDimensions(types.Dimensions{Width: 10, Height: 20}, 0)
	if same.Width != 10 || same.Height != 20 {
		t.Errorf("Expected factor below 1 to be treated as 1, got %dx%d", same.Width, same.Height)
	}
}

func BenchmarkCalculateInSampleSize(b *testing.B) {
	for i := 0; i < b.N; i++ {
		CalculateInSampleSize(3024, 4032, 120, 160)
	}
}
