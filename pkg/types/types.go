package types

// Unset marks a request bound that should take the source dimension.
const Unset = -1

// Dimensions is a width/height pair in pixels
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AspectRatio returns width divided by height, or 0 for an empty height
func (d Dimensions) AspectRatio() float64 {
	if d.Height == 0 {
		return 0
	}
	return float64(d.Width) / float64(d.Height)
}

// Positive reports whether both dimensions are greater than zero
func (d Dimensions) Positive() bool {
	return d.Width > 0 && d.Height > 0
}

// Landscape reports whether the image is wider than it is tall
func (d Dimensions) Landscape() bool {
	return d.Width > d.Height
}

// CropPlan describes how a source is placed on a destination canvas so that it
// covers the canvas completely. Offsets are relative to the canvas origin and
// are negative on the axis that overflows.
type CropPlan struct {
	Scale        float64 `json:"scale"`
	OffsetX      float64 `json:"offset_x"`
	OffsetY      float64 `json:"offset_y"`
	ScaledWidth  float64 `json:"scaled_width"`
	ScaledHeight float64 `json:"scaled_height"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
}

// BlurOptions controls the downscale-then-blur pipeline
type BlurOptions struct {
	BitmapScale float64 `json:"bitmap_scale"`
	Radius      float64 `json:"radius"`
}

// SaveOptions contains options for writing images
type SaveOptions struct {
	Format   string
	Quality  int
	Lossless bool
}
