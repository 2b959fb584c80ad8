// Package bitmap loads images from files and URLs and writes them back out.
package bitmap

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/bitmap-utils/internal/utils"
	"github.com/menta2k/bitmap-utils/pkg/types"
)

// Store reads and writes bitmaps
type Store struct {
	config Config
	client *http.Client
}

// Config holds configuration for the store
type Config struct {
	// Dir receives files written by SaveToFile.
	Dir            string
	DefaultQuality int
	MinImageSize   int
}

// New creates a new Store with default configuration
func New() *Store {
	return NewWithConfig(Config{
		Dir:            ".",
		DefaultQuality: 60,
		MinImageSize:   1,
	})
}

// NewWithConfig creates a new Store with custom configuration
func NewWithConfig(config Config) *Store {
	return &Store{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Load loads an image from a file path with WebP support
func (s *Store) Load(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	return s.LoadFromReader(f)
}

// LoadFromReader loads an image from an io.Reader
func (s *Store) LoadFromReader(reader io.Reader) (image.Image, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return decodeImageFromBytes(data)
}

// LoadFromURL downloads and loads an image from a URL
func (s *Store) LoadFromURL(imageURL string) (image.Image, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (only http and https are supported)", parsedURL.Scheme)
	}

	req, err := http.NewRequest(http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "bitmap-utils/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("URL does not point to an image (Content-Type: %s)", contentType)
	}

	return s.LoadFromReader(resp.Body)
}

// LoadSmart loads an image from either a file path or URL
func (s *Store) LoadSmart(source string) (image.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return s.LoadFromURL(source)
	}
	return s.Load(source)
}

// ReadBytes returns the raw encoded bytes behind a file path or URL
func (s *Store) ReadBytes(source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.ReadFile(source)
	}

	resp, err := s.client.Get(source)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func decodeImageFromBytes(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// Save writes an image using the given options. An empty format is taken
// from the path extension.
func (s *Store) Save(img image.Image, path string, opts types.SaveOptions) error {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = utils.GetFileExtension(path)
	}
	quality := opts.Quality
	if quality <= 0 {
		quality = s.config.DefaultQuality
	}

	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var encode func(io.Writer) error
	switch format {
	case "webp":
		encode = func(w io.Writer) error {
			return webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(quality)})
		}
	case "png":
		encode = func(w io.Writer) error {
			return imaging.Encode(w, img, imaging.PNG)
		}
	case "jpg", "jpeg":
		encode = func(w io.Writer) error {
			return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return f.Close()
}

// SaveToFile writes img as <Dir>/<name>.jpg at the default quality and returns
// the written path.
func (s *Store) SaveToFile(name string, img image.Image) (string, error) {
	name = utils.SanitizeFilename(name)
	if name == "" {
		return "", fmt.Errorf("empty file name")
	}

	path := filepath.Join(s.config.Dir, name+".jpg")
	if err := s.Save(img, path, types.SaveOptions{Format: "jpg", Quality: s.config.DefaultQuality}); err != nil {
		return "", err
	}
	return path, nil
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	Area        int     `json:"area"`
}

// Info returns basic information about an image
func (s *Store) Info(img image.Image) ImageInfo {
	bounds := img.Bounds()
	dims := types.Dimensions{Width: bounds.Dx(), Height: bounds.Dy()}

	return ImageInfo{
		Width:       dims.Width,
		Height:      dims.Height,
		AspectRatio: dims.AspectRatio(),
		Area:        dims.Width * dims.Height,
	}
}

// Validate checks if an image meets minimum requirements
func (s *Store) Validate(img image.Image) error {
	bounds := img.Bounds()
	if bounds.Dx() < s.config.MinImageSize || bounds.Dy() < s.config.MinImageSize {
		return fmt.Errorf("image too small: %dx%d (minimum: %d)",
			bounds.Dx(), bounds.Dy(), s.config.MinImageSize)
	}
	return nil
}
