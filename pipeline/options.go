package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/opd-ai/virtframe/kernel"
	"gopkg.in/yaml.v3"
)

// Options describes the frame a Converter produces and how it gets there.
type Options struct {
	Format format.Format
	Width  int
	Height int

	// ScaleWidth and ScaleHeight set the size the picture is scaled to before
	// it is edge-extended to Width x Height. Zero means the target size.
	ScaleWidth  int
	ScaleHeight int

	// CropWidth and CropHeight keep the top-left region of the source before
	// any other processing. Zero means the source size.
	CropWidth  int
	CropHeight int

	ResampleTaps    int
	DownsampleTaps  int
	InputMatrix     kernel.ColorMatrix
	OutputMatrix    kernel.ColorMatrix
	CoefficientBits int
	ChromaSite      kernel.ChromaSite
	SubsampleTaps   int

	// CacheLines is the minimum scanline window of every planned frame.
	// Zero keeps frame.DefaultWindow.
	CacheLines int
}

// NewOptions returns options producing a width x height frame in f with
// default filters.
func NewOptions(f format.Format, width, height int) *Options {
	return &Options{
		Format:          f,
		Width:           width,
		Height:          height,
		ResampleTaps:    4,
		DownsampleTaps:  4,
		InputMatrix:     kernel.ColorMatrixSDTV,
		OutputMatrix:    kernel.ColorMatrixSDTV,
		CoefficientBits: 8,
		ChromaSite:      kernel.ChromaSiteMPEG2,
		SubsampleTaps:   2,
	}
}

func (o *Options) validate() error {
	if _, ok := format.Lookup(o.Format); !ok {
		return fmt.Errorf("unknown target format %v: %w", o.Format, frame.ErrInvalidConfig)
	}
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid target size %dx%d: %w", o.Width, o.Height, frame.ErrInvalidConfig)
	}
	if o.ScaleWidth < 0 || o.ScaleHeight < 0 || o.ScaleWidth > o.Width || o.ScaleHeight > o.Height {
		return fmt.Errorf("scale size %dx%d outside target %dx%d: %w",
			o.ScaleWidth, o.ScaleHeight, o.Width, o.Height, frame.ErrInvalidConfig)
	}
	if o.CropWidth < 0 || o.CropHeight < 0 {
		return fmt.Errorf("invalid crop size %dx%d: %w", o.CropWidth, o.CropHeight, frame.ErrInvalidConfig)
	}
	if o.CacheLines < 0 || o.CacheLines&(o.CacheLines-1) != 0 {
		return fmt.Errorf("cache lines %d is not a power of two: %w", o.CacheLines, frame.ErrInvalidConfig)
	}
	return nil
}

// Config is the YAML form of Options. Zero and empty fields keep the
// defaults of NewOptions.
type Config struct {
	Format string `yaml:"format"` // catalog name, e.g. U8_420 or YUYV
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	ScaleWidth  int `yaml:"scale_width"`
	ScaleHeight int `yaml:"scale_height"`
	CropWidth   int `yaml:"crop_width"`
	CropHeight  int `yaml:"crop_height"`

	ResampleTaps    int    `yaml:"resample_taps"`
	DownsampleTaps  int    `yaml:"downsample_taps"`
	InputMatrix     string `yaml:"input_matrix"`  // sdtv, hdtv, bt601, bt709
	OutputMatrix    string `yaml:"output_matrix"` // sdtv, hdtv, bt601, bt709
	CoefficientBits int    `yaml:"coefficient_bits"`
	ChromaSite      string `yaml:"chroma_site"` // mpeg2, jpeg
	SubsampleTaps   int    `yaml:"subsample_taps"`
	CacheLines      int    `yaml:"cache_lines"`
}

// ParseConfig decodes a YAML document.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// LoadConfig reads and decodes a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// Options converts the configuration, applying defaults and validating it.
func (c *Config) Options() (*Options, error) {
	f, err := format.Parse(c.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %v: %w", err, frame.ErrInvalidConfig)
	}

	opts := NewOptions(f, c.Width, c.Height)
	opts.ScaleWidth = c.ScaleWidth
	opts.ScaleHeight = c.ScaleHeight
	opts.CropWidth = c.CropWidth
	opts.CropHeight = c.CropHeight
	opts.CacheLines = c.CacheLines

	setIfPositive(&opts.ResampleTaps, c.ResampleTaps)
	setIfPositive(&opts.DownsampleTaps, c.DownsampleTaps)
	setIfPositive(&opts.CoefficientBits, c.CoefficientBits)
	setIfPositive(&opts.SubsampleTaps, c.SubsampleTaps)

	if c.InputMatrix != "" {
		if opts.InputMatrix, err = ParseColorMatrix(c.InputMatrix); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	if c.OutputMatrix != "" {
		if opts.OutputMatrix, err = ParseColorMatrix(c.OutputMatrix); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	if c.ChromaSite != "" {
		if opts.ChromaSite, err = ParseChromaSite(c.ChromaSite); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return opts, nil
}

func setIfPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

// ParseColorMatrix accepts sdtv/bt601 and hdtv/bt709, case-insensitively.
func ParseColorMatrix(s string) (kernel.ColorMatrix, error) {
	switch strings.ToLower(s) {
	case "sdtv", "bt601":
		return kernel.ColorMatrixSDTV, nil
	case "hdtv", "bt709":
		return kernel.ColorMatrixHDTV, nil
	default:
		return 0, fmt.Errorf("unknown color matrix %q: %w", s, frame.ErrInvalidConfig)
	}
}

// ParseChromaSite accepts mpeg2 and jpeg, case-insensitively.
func ParseChromaSite(s string) (kernel.ChromaSite, error) {
	switch strings.ToLower(s) {
	case "mpeg2":
		return kernel.ChromaSiteMPEG2, nil
	case "jpeg":
		return kernel.ChromaSiteJPEG, nil
	default:
		return 0, fmt.Errorf("unknown chroma site %q: %w", s, frame.ErrInvalidConfig)
	}
}
