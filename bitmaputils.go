// Package bitmaputils provides small, stateless bitmap helpers: power-of-two
// sampled decoding, cover ("center crop") scaling, blur, rotation, mirroring
// and file output.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//		"os"
//
//		bitmaputils "github.com/menta2k/bitmap-utils"
//	)
//
//	func main() {
//		utils := bitmaputils.New()
//
//		data, err := os.ReadFile("photo.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// Decode at roughly 480x320, then fill a 256x256 square.
//		img, err := utils.DecodeSampled(data, 480, 320)
//		if err != nil {
//			log.Fatal(err)
//		}
//		thumb, err := utils.ScaleCenterCrop(img, 256, 256)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		if _, err := utils.SaveToFile("photo_thumb", thumb); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package is a thin facade over:
//
// 1. Sampling (pkg/sampling): sample factor and request bound resolution
// 2. Cropper (pkg/cropper): cover crop planning and rendering, square trims
// 3. Transform (pkg/transform): blur, rotate and mirror
// 4. Decoder (pkg/decoder): header reads and sampled decodes
// 5. Bitmap (pkg/bitmap): loading and saving files and URLs
//
// Every operation is synchronous and keeps no state between calls, so a
// single Utils value may be shared between goroutines.
package bitmaputils

import (
	"image"

	"github.com/menta2k/bitmap-utils/pkg/bitmap"
	"github.com/menta2k/bitmap-utils/pkg/cropper"
	"github.com/menta2k/bitmap-utils/pkg/decoder"
	"github.com/menta2k/bitmap-utils/pkg/sampling"
	"github.com/menta2k/bitmap-utils/pkg/transform"
	"github.com/menta2k/bitmap-utils/pkg/types"
)

// Version of the bitmap utilities library
const Version = "1.0.0"

// Utils bundles the decoder, cropper and store behind one value
type Utils struct {
	decoder *decoder.Decoder
	cropper *cropper.Cropper
	store   *bitmap.Store
	blur    types.BlurOptions
}

// New creates a new Utils with default configuration
func New() *Utils {
	return &Utils{
		decoder: decoder.New(),
		cropper: cropper.New(),
		store:   bitmap.New(),
		blur:    transform.DefaultBlurOptions(),
	}
}

// NewWithConfig creates a new Utils with custom configuration
func NewWithConfig(decoderConfig decoder.Config, cropConfig cropper.CropConfig, storeConfig bitmap.Config, blur types.BlurOptions) *Utils {
	return &Utils{
		decoder: decoder.NewWithConfig(decoderConfig),
		cropper: cropper.NewWithConfig(cropConfig),
		store:   bitmap.NewWithConfig(storeConfig),
		blur:    blur,
	}
}

// CalculateInSampleSize returns the power-of-two decode factor for the request
func CalculateInSampleSize(height, width, reqHeight, reqWidth int) int {
	return sampling.CalculateInSampleSize(height, width, reqHeight, reqWidth)
}

// PlanCenterCrop returns the cover placement of a source on a canvas
func PlanCenterCrop(sourceWidth, sourceHeight, newWidth, newHeight int) types.CropPlan {
	return cropper.PlanCenterCrop(sourceWidth, sourceHeight, newWidth, newHeight)
}

// DecodeBounds reads the dimensions and format from an encoded image header
func (u *Utils) DecodeBounds(data []byte) (types.Dimensions, string, error) {
	return u.decoder.DecodeBounds(data)
}

// DecodeSampled decodes data reduced by a power-of-two factor
func (u *Utils) DecodeSampled(data []byte, reqWidth, reqHeight int) (image.Image, error) {
	return u.decoder.DecodeSampled(data, reqWidth, reqHeight)
}

// DecodeSampledFile decodes a file reduced by a power-of-two factor
func (u *Utils) DecodeSampledFile(path string, reqWidth, reqHeight int) (image.Image, error) {
	return u.decoder.DecodeSampledFile(path, reqWidth, reqHeight)
}

// DecodeCapture decodes a camera frame into a mirrored square
func (u *Utils) DecodeCapture(data []byte, reqWidth, reqHeight, rotation int) (image.Image, error) {
	return u.decoder.DecodeCapture(data, reqWidth, reqHeight, rotation)
}

// ScaleCenterCrop fills a newWidth x newHeight canvas with the scaled source
func (u *Utils) ScaleCenterCrop(img image.Image, newWidth, newHeight int) (image.Image, error) {
	dst, err := u.cropper.ScaleCenterCrop(img, newWidth, newHeight)
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// TrimToSquare crops the centered square of the shorter side
func (u *Utils) TrimToSquare(img image.Image) image.Image {
	return u.cropper.TrimToSquare(img)
}

// Blur downscales and blurs an image with the configured options
func (u *Utils) Blur(img image.Image) (image.Image, error) {
	dst, err := transform.Blur(img, u.blur)
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// Rotate turns an image angle degrees counter-clockwise
func (u *Utils) Rotate(img image.Image, angle int) image.Image {
	return transform.Rotate(img, angle)
}

// Mirror flips an image horizontally
func (u *Utils) Mirror(img image.Image) image.Image {
	return transform.Mirror(img)
}

// LoadImage loads an image from a file path or URL
func (u *Utils) LoadImage(source string) (image.Image, error) {
	return u.store.LoadSmart(source)
}

// SaveImage writes an image with explicit format options
func (u *Utils) SaveImage(img image.Image, path string, opts types.SaveOptions) error {
	return u.store.Save(img, path, opts)
}

// SaveToFile writes img as a JPEG named name in the configured directory
func (u *Utils) SaveToFile(name string, img image.Image) (string, error) {
	return u.store.SaveToFile(name, img)
}

// GetImageInfo returns basic information about an image
func (u *Utils) GetImageInfo(img image.Image) bitmap.ImageInfo {
	return u.store.Info(img)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
