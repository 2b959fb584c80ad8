package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/menta2k/bitmap-utils/pkg/bitmap"
	"github.com/menta2k/bitmap-utils/pkg/cropper"
	"github.com/menta2k/bitmap-utils/pkg/decoder"
	"github.com/menta2k/bitmap-utils/pkg/transform"
	"github.com/menta2k/bitmap-utils/pkg/types"
)

// Config holds the application configuration
type Config struct {
	Decode DecodeConfig `json:"decode"`
	Blur   BlurConfig   `json:"blur"`
	Output OutputConfig `json:"output"`
}

// DecodeConfig holds configuration for sampled decoding
type DecodeConfig struct {
	SupportedFormats []string `json:"supported_formats"`
	MaxPixels        int      `json:"max_pixels"`
	MinImageSize     int      `json:"min_image_size"`
}

// BlurConfig holds configuration for the downscale-then-blur pipeline
type BlurConfig struct {
	BitmapScale float64 `json:"bitmap_scale"`
	Radius      float64 `json:"radius"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
	Dir      string `json:"dir"`
	Prefix   string `json:"prefix"`
	Suffix   string `json:"suffix"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Decode: DecodeConfig{
			SupportedFormats: decoder.DefaultSupportedFormats(),
			MaxPixels:        cropper.DefaultMaxPixels,
			MinImageSize:     1,
		},
		Blur: BlurConfig{
			BitmapScale: transform.DefaultBitmapScale,
			Radius:      transform.DefaultBlurRadius,
		},
		Output: OutputConfig{
			Format:  "jpg",
			Quality: 60,
			Dir:     "./output",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Fields missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	switch c.Output.Format {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format must be one of jpg, jpeg, png, webp")
	}

	if c.Decode.MaxPixels < 0 {
		return fmt.Errorf("decode.max_pixels cannot be negative")
	}

	if c.Decode.MinImageSize < 1 {
		return fmt.Errorf("decode.min_image_size must be positive")
	}

	if len(c.Decode.SupportedFormats) == 0 {
		return fmt.Errorf("decode.supported_formats cannot be empty")
	}

	if err := transform.ValidateBlurOptions(c.BlurOptions()); err != nil {
		return fmt.Errorf("blur: %w", err)
	}

	return nil
}

// BlurOptions returns the blur settings as transform options
func (c *Config) BlurOptions() types.BlurOptions {
	return types.BlurOptions{BitmapScale: c.Blur.BitmapScale, Radius: c.Blur.Radius}
}

// DecoderConfig returns the decoder settings
func (c *Config) DecoderConfig() decoder.Config {
	return decoder.Config{
		SupportedFormats: c.Decode.SupportedFormats,
		MaxPixels:        c.Decode.MaxPixels,
	}
}

// CropperConfig returns the cropper settings
func (c *Config) CropperConfig() cropper.CropConfig {
	return cropper.CropConfig{MaxPixels: c.Decode.MaxPixels}
}

// StoreConfig returns the bitmap store settings
func (c *Config) StoreConfig() bitmap.Config {
	return bitmap.Config{
		Dir:            c.Output.Dir,
		DefaultQuality: c.Output.Quality,
		MinImageSize:   c.Decode.MinImageSize,
	}
}

// SaveOptions returns the output format settings
func (c *Config) SaveOptions() types.SaveOptions {
	return types.SaveOptions{
		Format:   c.Output.Format,
		Quality:  c.Output.Quality,
		Lossless: c.Output.Lossless,
	}
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "bitmap-utils", "config.json")
}
