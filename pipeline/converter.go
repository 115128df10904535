package pipeline

import (
	"fmt"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/opd-ai/virtframe/kernel"
	"github.com/sirupsen/logrus"
)

// Converter plans kernel chains that turn source frames into frames
// described by its Options.
type Converter struct {
	opts   Options
	target format.Info
	stages []string
}

// NewConverter validates opts and returns a Converter for them.
func NewConverter(opts *Options) (*Converter, error) {
	if opts == nil {
		return nil, fmt.Errorf("nil options: %w", frame.ErrInvalidConfig)
	}
	if err := opts.validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewConverter",
			"format":   opts.Format.String(),
			"error":    err.Error(),
		}).Error("Converter options rejected")
		return nil, err
	}
	target, _ := format.Lookup(opts.Format)

	return &Converter{opts: *opts, target: target}, nil
}

// chain accumulates the frames of one Build.
type chain struct {
	cur     *frame.Frame
	stages  []string
	planned []*frame.Frame
}

// apply runs one planning step. Steps that return their input add nothing.
func (c *chain) apply(next *frame.Frame, err error) error {
	if err != nil {
		return err
	}
	if next != c.cur {
		c.stages = append(c.stages, next.Node().GetName())
		c.planned = append(c.planned, next)
		c.cur = next
	}
	return nil
}

// Build plans the chain from src to the target frame. The returned frame is
// src itself when no conversion is needed, otherwise a virtual frame that
// computes its rows on demand.
//
// Parameters:
//   - src: Source frame, real or virtual
//
// Returns:
//   - *frame.Frame: Head of the planned chain, sized and formatted like the target
//   - error: ErrInvalidConfig for a nil source or an oversized crop,
//     ErrNoKernel when no chain reaches the target
func (cv *Converter) Build(src *frame.Frame) (*frame.Frame, error) {
	out, stages, err := cv.plan(src)
	if err != nil {
		fields := logrus.Fields{
			"function": "Converter.Build",
			"target":   cv.opts.Format.String(),
			"error":    err.Error(),
		}
		if src != nil {
			fields["src"] = src.String()
		}
		logrus.WithFields(fields).Error("Failed to plan conversion")
		return nil, err
	}

	cv.stages = stages
	logrus.WithFields(logrus.Fields{
		"function": "Converter.Build",
		"src":      src.String(),
		"target":   out.String(),
		"stages":   stages,
	}).Debug("Planned conversion chain")

	return out, nil
}

func (cv *Converter) plan(src *frame.Frame) (*frame.Frame, []string, error) {
	if src == nil {
		return nil, nil, fmt.Errorf("nil source frame: %w", frame.ErrInvalidConfig)
	}
	o := &cv.opts
	srcInfo := src.Info()
	c := &chain{cur: src}

	if err := c.apply(kernel.NewUnpack(c.cur)); err != nil {
		return nil, nil, err
	}

	if o.CropWidth > 0 || o.CropHeight > 0 {
		w, h := o.CropWidth, o.CropHeight
		if w == 0 {
			w = c.cur.Width
		}
		if h == 0 {
			h = c.cur.Height
		}
		if err := c.apply(kernel.NewCrop(c.cur, w, h)); err != nil {
			return nil, nil, err
		}
	}

	switch c.cur.Info().Depth {
	case format.DepthU8:
	case format.DepthS16:
		if err := c.apply(kernel.NewConvertU8(c.cur)); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("no conversion from %v: %w", c.cur.Format, frame.ErrNoKernel)
	}

	gray := c.cur.Info().Components == 1
	if gray != (cv.target.Components == 1 && !cv.target.Packed) {
		return nil, nil, fmt.Errorf("no conversion between %v and %v: %w",
			src.Format, o.Format, frame.ErrNoKernel)
	}

	if err := cv.planColor(c, srcInfo.Family); err != nil {
		return nil, nil, err
	}

	planar, ok := cv.target.Planar.WithDepth(format.DepthU8)
	if !ok {
		return nil, nil, fmt.Errorf("no 8-bit layout for %v: %w", o.Format, frame.ErrNoKernel)
	}
	if err := c.apply(kernel.NewSubsample(c.cur, planar, o.ChromaSite, o.SubsampleTaps)); err != nil {
		return nil, nil, err
	}

	if err := cv.planScale(c); err != nil {
		return nil, nil, err
	}

	if err := c.apply(kernel.NewEdgeExtend(c.cur, o.Width, o.Height)); err != nil {
		return nil, nil, err
	}

	if !cv.target.Packed && cv.target.Depth == format.DepthS16 {
		if err := c.apply(kernel.NewConvertS16(c.cur)); err != nil {
			return nil, nil, err
		}
	}

	if cv.target.Packed {
		if err := c.apply(kernel.NewPack(c.cur, o.Format)); err != nil {
			return nil, nil, err
		}
	}

	if o.CacheLines > 0 {
		for _, f := range c.planned {
			f.Reserve(o.CacheLines)
		}
	}

	return c.cur, c.stages, nil
}

// planColor converts between the RGB and YCbCr families, or between YCbCr
// matrices, at 4:4:4.
func (cv *Converter) planColor(c *chain, from format.Family) error {
	o := &cv.opts
	to := cv.target.Family
	if c.cur.Info().Components == 1 {
		return nil
	}
	if from == to && (to == format.FamilyRGB || o.InputMatrix == o.OutputMatrix) {
		return nil
	}

	if err := c.apply(kernel.NewSubsample(c.cur, format.U8_444, o.ChromaSite, o.SubsampleTaps)); err != nil {
		return err
	}
	switch {
	case from == format.FamilyRGB:
		return c.apply(kernel.NewColorMatrixRGBToYCbCr(c.cur, o.OutputMatrix))
	case to == format.FamilyRGB:
		return c.apply(kernel.NewColorMatrixYCbCrToRGB(c.cur, o.InputMatrix, o.CoefficientBits))
	default:
		return c.apply(kernel.NewColorMatrixYCbCrToYCbCr(c.cur, o.InputMatrix, o.OutputMatrix))
	}
}

// planScale resizes to the scale size, halving with the downsample filters
// when the ratio is exactly 2.
func (cv *Converter) planScale(c *chain) error {
	o := &cv.opts
	w, h := o.ScaleWidth, o.ScaleHeight
	if w == 0 {
		w = o.Width
	}
	if h == 0 {
		h = o.Height
	}

	switch {
	case c.cur.Width == w:
	case c.cur.Width == 2*w:
		if err := c.apply(kernel.NewHorizDownsample(c.cur, o.DownsampleTaps)); err != nil {
			return err
		}
	default:
		if err := c.apply(kernel.NewHorizResample(c.cur, w, o.ResampleTaps)); err != nil {
			return err
		}
	}

	switch {
	case c.cur.Height == h:
		return nil
	case c.cur.Height == 2*h:
		return c.apply(kernel.NewVertDownsample(c.cur, o.DownsampleTaps))
	default:
		return c.apply(kernel.NewVertResample(c.cur, h, o.ResampleTaps))
	}
}

// Convert builds the chain from src and renders it into dst, which must be
// a real frame matching the converter's target.
//
// Parameters:
//   - src: Source frame, real or virtual
//   - dst: Real frame with the target format and size
//
// Returns:
//   - error: ErrInvalidConfig when dst does not match the target, otherwise
//     any error from Build or frame.Render
func (cv *Converter) Convert(src, dst *frame.Frame) error {
	if dst == nil || dst.Format != cv.opts.Format || dst.Width != cv.opts.Width || dst.Height != cv.opts.Height {
		err := fmt.Errorf("destination does not match %v %dx%d: %w",
			cv.opts.Format, cv.opts.Width, cv.opts.Height, frame.ErrInvalidConfig)
		logrus.WithFields(logrus.Fields{
			"function": "Converter.Convert",
			"error":    err.Error(),
		}).Error("Conversion rejected")
		return err
	}

	out, err := cv.Build(src)
	if err != nil {
		return err
	}
	return frame.Render(out, dst)
}

// Stages returns the kernel names of the last planned chain, source side
// first.
func (cv *Converter) Stages() []string {
	return append([]string(nil), cv.stages...)
}

// Options returns a copy of the converter's options.
func (cv *Converter) Options() Options {
	return cv.opts
}
