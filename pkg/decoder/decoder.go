// Package decoder reads image headers, picks a power-of-two sample factor for
// the requested bounds and produces downsampled images.
package decoder

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/bitmap-utils/pkg/cropper"
	"github.com/menta2k/bitmap-utils/pkg/sampling"
	"github.com/menta2k/bitmap-utils/pkg/transform"
	"github.com/menta2k/bitmap-utils/pkg/types"
)

// Codec reads image headers and pixels from encoded bytes
type Codec interface {
	DecodeConfig(data []byte) (image.Config, string, error)
	Decode(data []byte) (image.Image, string, error)
}

// ImageCodec decodes every format registered with package image, falling back
// to libwebp for WebP variants the pure Go decoder rejects.
type ImageCodec struct{}

// DecodeConfig implements Codec
func (ImageCodec) DecodeConfig(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		return cfg, format, nil
	}
	if isWebP(data) {
		if cfg, werr := webp.DecodeConfig(bytes.NewReader(data)); werr == nil {
			return cfg, "webp", nil
		}
	}
	return image.Config{}, "", fmt.Errorf("failed to decode image header: %w", err)
}

// Decode implements Codec
func (ImageCodec) Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, format, nil
	}
	if isWebP(data) {
		if img, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
			return img, "webp", nil
		}
	}
	return nil, "", fmt.Errorf("failed to decode image: %w", err)
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

// Config holds configuration for the decoder
type Config struct {
	Codec            Codec
	SupportedFormats []string
	MaxPixels        int
}

// DefaultSupportedFormats lists the formats registered by this package
func DefaultSupportedFormats() []string {
	return []string{"jpeg", "png", "gif", "webp", "bmp", "tiff"}
}

// Decoder produces sampled images from encoded bytes
type Decoder struct {
	config  Config
	cropper *cropper.Cropper
}

// New creates a new Decoder with default configuration
func New() *Decoder {
	return NewWithConfig(Config{
		Codec:            ImageCodec{},
		SupportedFormats: DefaultSupportedFormats(),
		MaxPixels:        cropper.DefaultMaxPixels,
	})
}

// NewWithConfig creates a new Decoder with custom configuration
func NewWithConfig(config Config) *Decoder {
	if config.Codec == nil {
		config.Codec = ImageCodec{}
	}
	return &Decoder{
		config:  config,
		cropper: cropper.NewWithConfig(cropper.CropConfig{MaxPixels: config.MaxPixels}),
	}
}

// DecodeBounds reads only the image header and returns its dimensions and format.
func (d *Decoder) DecodeBounds(data []byte) (types.Dimensions, string, error) {
	cfg, format, err := d.config.Codec.DecodeConfig(data)
	if err != nil {
		return types.Dimensions{}, "", err
	}
	if !d.isFormatSupported(format) {
		return types.Dimensions{}, "", fmt.Errorf("unsupported image format: %s", format)
	}
	return types.Dimensions{Width: cfg.Width, Height: cfg.Height}, format, nil
}

// DecodeSampled decodes data downsampled by the power-of-two factor that keeps
// it close to reqWidth x reqHeight.
func (d *Decoder) DecodeSampled(data []byte, reqWidth, reqHeight int) (image.Image, error) {
	src, _, err := d.DecodeBounds(data)
	if err != nil {
		return nil, err
	}
	return d.decodeWithFactor(data, src, types.Dimensions{Width: reqWidth, Height: reqHeight})
}

// DecodeSampledFile is DecodeSampled for a file on disk.
func (d *Decoder) DecodeSampledFile(path string, reqWidth, reqHeight int) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return d.DecodeSampled(data, reqWidth, reqHeight)
}

// DecodeCapture decodes a camera capture into a mirrored square. Request
// bounds may be types.Unset or 0 (see sampling.ResolveRequest). Landscape
// frames are rotated by rotation before the cover crop to width x width.
func (d *Decoder) DecodeCapture(data []byte, reqWidth, reqHeight, rotation int) (image.Image, error) {
	src, _, err := d.DecodeBounds(data)
	if err != nil {
		return nil, err
	}

	req := sampling.ResolveRequest(src, types.Dimensions{Width: reqWidth, Height: reqHeight})
	img, err := d.decodeWithFactor(data, src, req)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if (types.Dimensions{Width: b.Dx(), Height: b.Dy()}).Landscape() {
		img = transform.Rotate(img, rotation)
	}

	side := img.Bounds().Dx()
	square, err := d.cropper.ScaleCenterCrop(img, side, side)
	if err != nil {
		return nil, fmt.Errorf("capture crop failed: %w", err)
	}

	return transform.Mirror(square), nil
}

func (d *Decoder) decodeWithFactor(data []byte, src, req types.Dimensions) (image.Image, error) {
	n, err := sampling.SampleFactor(src, req)
	if err != nil {
		return nil, err
	}

	// The full frame is materialized before it is reduced.
	if err := d.cropper.CheckAllocation(src.Width, src.Height); err != nil {
		return nil, err
	}

	img, _, err := d.config.Codec.Decode(data)
	if err != nil {
		return nil, err
	}
	if n == 1 {
		return img, nil
	}

	sampled := sampling.SampledDimensions(src, n)
	return imaging.Resize(img, sampled.Width, sampled.Height, imaging.Box), nil
}

func (d *Decoder) isFormatSupported(format string) bool {
	if len(d.config.SupportedFormats) == 0 {
		return true
	}
	for _, supported := range d.config.SupportedFormats {
		if strings.EqualFold(format, supported) {
			return true
		}
	}
	return false
}
