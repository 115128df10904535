package kernel

import (
	"fmt"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/sirupsen/logrus"
)

// horizDownsample halves the width of every component.
type horizDownsample struct {
	node
	fl filter
}

// RenderLine filters one source row around every even sample.
func (n *horizDownsample) RenderLine(f *frame.Frame, dst []byte, component, line int) {
	src := n.src.Line(component, line)
	last := n.src.Components[component].Width - 1
	taps := n.fl.taps
	w := f.Components[component].Width

	for j := 0; j < w; j++ {
		base := 2*j + n.fl.first
		acc := n.fl.round
		if base >= 0 && base+len(taps)-1 <= last {
			s := src[base : base+len(taps)]
			for k, t := range taps {
				acc += t * int(s[k])
			}
		} else {
			for k, t := range taps {
				acc += t * int(src[clamp(base+k, 0, last)])
			}
		}
		dst[j] = clampU8(acc >> n.fl.shift)
	}
}

// NewHorizDownsample returns a virtual frame of half the width of src,
// filtered with a 3-tap co-sited or a 4, 6, 8 or 10-tap half-site kernel.
func NewHorizDownsample(src *frame.Frame, taps int) (*frame.Frame, error) {
	const function = "NewHorizDownsample"
	if err := requirePlanar(function, src, format.DepthU8); err != nil {
		return nil, err
	}
	fl, ok := downsampleFilters[taps]
	if !ok || taps == 2 {
		return nil, reject(function, src, fmt.Errorf("%d-tap horizontal downsample: %w", taps, frame.ErrNoKernel))
	}

	name := fmt.Sprintf("horiz_downsample_%dtap", taps)
	logrus.WithFields(logrus.Fields{
		"function": function,
		"src":      src.String(),
		"taps":     taps,
	}).Debug("Selected downsample kernel")

	return newVirtual(function, src.Format, src.Width/2, src.Height,
		&horizDownsample{node: node{name: name, src: src}, fl: fl})
}

// vertDownsample halves the height of every component.
type vertDownsample struct {
	node
	fl   filter
	rows [][]byte
}

// RenderLine combines the source rows around row 2*line.
func (n *vertDownsample) RenderLine(f *frame.Frame, dst []byte, component, line int) {
	last := n.src.Components[component].Height - 1
	for k := range n.rows {
		n.rows[k] = n.src.Line(component, clamp(2*line+n.fl.first+k, 0, last))
	}

	w := f.Components[component].Width
	for j := 0; j < w; j++ {
		acc := n.fl.round
		for k, t := range n.fl.taps {
			acc += t * int(n.rows[k][j])
		}
		dst[j] = clampU8(acc >> n.fl.shift)
	}
}

// NewVertDownsample returns a virtual frame of half the height of src,
// filtered with a 2-tap average, a 3-tap co-sited or a 4, 6, 8 or 10-tap
// half-site kernel.
func NewVertDownsample(src *frame.Frame, taps int) (*frame.Frame, error) {
	const function = "NewVertDownsample"
	if err := requirePlanar(function, src, format.DepthU8); err != nil {
		return nil, err
	}
	fl, ok := downsampleFilters[taps]
	if !ok {
		return nil, reject(function, src, fmt.Errorf("%d-tap vertical downsample: %w", taps, frame.ErrNoKernel))
	}
	src.Reserve(taps)

	name := fmt.Sprintf("vert_downsample_%dtap", taps)
	logrus.WithFields(logrus.Fields{
		"function": function,
		"src":      src.String(),
		"taps":     taps,
	}).Debug("Selected downsample kernel")

	return newVirtual(function, src.Format, src.Width, src.Height/2,
		&vertDownsample{node: node{name: name, src: src}, fl: fl, rows: make([][]byte, taps)})
}
