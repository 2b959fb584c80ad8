package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/menta2k/bitmap-utils/internal/config"
	"github.com/menta2k/bitmap-utils/internal/utils"
	"github.com/menta2k/bitmap-utils/pkg/bitmap"
	"github.com/menta2k/bitmap-utils/pkg/cropper"
	"github.com/menta2k/bitmap-utils/pkg/decoder"
	"github.com/menta2k/bitmap-utils/pkg/sampling"
	"github.com/menta2k/bitmap-utils/pkg/transform"
	"github.com/menta2k/bitmap-utils/pkg/types"
)

const usage = "usage: %s -op sample|plan|crop|square|blur|rotate|mirror|capture -in input.jpg|dir|URL [-out outdir] [-w 0] [-h 0] [-angle 0] [-ext jpg|png|webp] [-config file]"

type runner struct {
	op      string
	width   int
	height  int
	angle   int
	outDir  string
	save    types.SaveOptions
	cfg     *config.Config
	store   *bitmap.Store
	decoder *decoder.Decoder
	cropper *cropper.Cropper
}

func main() {
	var in, outDir, op, ext, cfgPath string
	var width, height, angle, quality int
	var lossless, writeConfig bool

	flag.StringVar(&op, "op", "", "operation: sample|plan|crop|square|blur|rotate|mirror|capture")
	flag.StringVar(&in, "in", "", "input image path, directory or URL (jpg/png/gif/bmp/tiff/webp)")
	flag.StringVar(&outDir, "out", "", "output directory (defaults to config output.dir)")
	flag.IntVar(&width, "w", 0, "requested width (-1 = source width, 0 = from aspect ratio)")
	flag.IntVar(&height, "h", 0, "requested height (-1 = source height, 0 = from aspect ratio)")
	flag.IntVar(&angle, "angle", 0, "rotation in degrees counter-clockwise")
	flag.StringVar(&ext, "ext", "", "output format: jpg|png|webp (defaults to config output.format)")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality 1-100 (defaults to config output.quality)")
	flag.BoolVar(&lossless, "lossless", false, "WebP lossless output")
	flag.StringVar(&cfgPath, "config", "", "JSON config file (defaults to "+config.GetConfigPath()+" if present)")
	flag.BoolVar(&writeConfig, "write-config", false, "write the effective configuration to -config and exit")

	flag.Parse()

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if ext != "" {
		cfg.Output.Format = strings.ToLower(ext)
	}
	if quality != 0 {
		cfg.Output.Quality = quality
	}
	if lossless {
		cfg.Output.Lossless = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if writeConfig {
		path := cfgPath
		if path == "" {
			path = config.GetConfigPath()
		}
		if err := cfg.SaveToFile(path); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", path)
		return
	}

	if op == "" || (in == "" && op != "plan") {
		log.Fatalf(usage, filepath.Base(os.Args[0]))
	}

	r := &runner{
		op:      op,
		width:   width,
		height:  height,
		angle:   angle,
		outDir:  cfg.Output.Dir,
		save:    cfg.SaveOptions(),
		cfg:     cfg,
		store:   bitmap.NewWithConfig(cfg.StoreConfig()),
		decoder: decoder.NewWithConfig(cfg.DecoderConfig()),
		cropper: cropper.NewWithConfig(cfg.CropperConfig()),
	}

	if op == "plan" {
		if err := r.plan(in); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := utils.EnsureDir(r.outDir); err != nil {
		log.Fatal(err)
	}

	inputs := []string{in}
	if utils.DirExists(in) {
		inputs, err = utils.ListImageFiles(in)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("found %d images in %s", len(inputs), in)
	}

	failed := 0
	for _, input := range inputs {
		if err := r.process(input); err != nil {
			log.Printf("%s: %v", input, err)
			failed++
		}
	}
	if failed > 0 {
		log.Fatalf("%d of %d inputs failed", failed, len(inputs))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	if utils.FileExists(config.GetConfigPath()) {
		return config.LoadFromFile(config.GetConfigPath())
	}
	return config.Default(), nil
}

// plan prints the sample factor and cover placement for -in (when given) or
// for the -w/-h target alone.
func (r *runner) plan(in string) error {
	if r.width <= 0 || r.height <= 0 {
		return fmt.Errorf("plan needs positive -w and -h")
	}

	out := struct {
		Source     types.Dimensions `json:"source"`
		Request    types.Dimensions `json:"request"`
		SampleSize int              `json:"sample_size,omitempty"`
		Crop       *types.CropPlan  `json:"crop,omitempty"`
	}{Request: types.Dimensions{Width: r.width, Height: r.height}}

	if in != "" {
		data, err := r.store.ReadBytes(in)
		if err != nil {
			return err
		}
		src, _, err := r.decoder.DecodeBounds(data)
		if err != nil {
			return err
		}
		out.Source = src
		if out.SampleSize, err = sampling.SampleFactor(src, out.Request); err != nil {
			return err
		}
		plan := cropper.PlanCenterCrop(src.Width, src.Height, r.width, r.height)
		out.Crop = &plan
	}

	js, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(js))
	return nil
}

func (r *runner) process(input string) error {
	var (
		result image.Image
		err    error
	)

	switch r.op {
	case "sample", "capture":
		data, rerr := r.store.ReadBytes(input)
		if rerr != nil {
			return rerr
		}
		if r.op == "sample" {
			result, err = r.decoder.DecodeSampled(data, r.width, r.height)
		} else {
			result, err = r.decoder.DecodeCapture(data, r.width, r.height, r.angle)
		}
	default:
		img, lerr := r.store.LoadSmart(input)
		if lerr != nil {
			return lerr
		}
		if err := r.store.Validate(img); err != nil {
			return err
		}
		result, err = r.transform(img)
	}
	if err != nil {
		return err
	}

	outPath := utils.GenerateOutputFilename(input, r.outDir, r.cfg.Output.Prefix, r.suffix(), r.save.Format)
	if err := r.store.Save(result, outPath, r.save); err != nil {
		return fmt.Errorf("save %s failed: %w", outPath, err)
	}

	b := result.Bounds()
	if st, err := os.Stat(outPath); err == nil {
		log.Printf("wrote %s (%dx%d, %s)", outPath, b.Dx(), b.Dy(), utils.FormatFileSize(st.Size()))
	} else {
		log.Printf("wrote %s (%dx%d)", outPath, b.Dx(), b.Dy())
	}
	return nil
}

func (r *runner) transform(img image.Image) (image.Image, error) {
	switch r.op {
	case "crop":
		w, h := r.width, r.height
		if w <= 0 && h <= 0 {
			return nil, fmt.Errorf("crop needs -w and/or -h")
		}
		b := img.Bounds()
		req := sampling.ResolveRequest(types.Dimensions{Width: b.Dx(), Height: b.Dy()}, types.Dimensions{Width: w, Height: h})
		dst, err := r.cropper.ScaleCenterCrop(img, req.Width, req.Height)
		if err != nil {
			return nil, err
		}
		return dst, nil
	case "square":
		return r.cropper.TrimToSquare(img), nil
	case "blur":
		dst, err := transform.Blur(img, r.cfg.BlurOptions())
		if err != nil {
			return nil, err
		}
		return dst, nil
	case "rotate":
		return transform.Rotate(img, r.angle), nil
	case "mirror":
		return transform.Mirror(img), nil
	default:
		return nil, fmt.Errorf("unknown operation: %s", r.op)
	}
}

func (r *runner) suffix() string {
	if r.cfg.Output.Suffix != "" {
		return r.cfg.Output.Suffix
	}
	return "_" + r.op
}
