package kernel

import (
	"fmt"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/sirupsen/logrus"
)

// vertResample maps output row i to source position i*scale in 1/256 units.
type vertResample struct {
	node
	scale int
	taps  int
	rows  [4][]byte
}

// RenderLine blends the source rows around line*scale.
func (n *vertResample) RenderLine(f *frame.Frame, dst []byte, component, line int) {
	acc := n.scale * line
	si := acc >> 8
	x := acc & 0xff
	last := n.src.Components[component].Height - 1
	w := f.Components[component].Width

	switch n.taps {
	case 1:
		copy(dst[:w], n.src.Line(component, clamp(si, 0, last)))
	case 2:
		a := n.src.Line(component, clamp(si, 0, last))
		if x == 0 {
			copy(dst[:w], a)
			return
		}
		b := n.src.Line(component, clamp(si+1, 0, last))
		for j := 0; j < w; j++ {
			dst[j] = byte((int(a[j])*(256-x) + int(b[j])*x) >> 8)
		}
	default:
		for k := range n.rows {
			n.rows[k] = n.src.Line(component, clamp(si-1+k, 0, last))
		}
		t := &resampleTaps4[x]
		r0, r1, r2, r3 := n.rows[0], n.rows[1], n.rows[2], n.rows[3]
		for j := 0; j < w; j++ {
			v := int(t[0])*int(r0[j]) + int(t[1])*int(r1[j]) +
				int(t[2])*int(r2[j]) + int(t[3])*int(r3[j])
			dst[j] = clampU8((v + 32) >> 6)
		}
	}
}

// NewVertResample returns a virtual frame of src scaled to height rows using
// nearest-row (1), linear (2) or cubic (4) interpolation.
func NewVertResample(src *frame.Frame, height, taps int) (*frame.Frame, error) {
	const function = "NewVertResample"
	if err := requirePlanar(function, src, format.DepthU8); err != nil {
		return nil, err
	}
	if taps != 1 && taps != 2 && taps != 4 {
		return nil, reject(function, src, fmt.Errorf("%d-tap vertical resample: %w", taps, frame.ErrNoKernel))
	}
	if height <= 0 {
		return nil, reject(function, src, fmt.Errorf("target height %d: %w", height, frame.ErrInvalidConfig))
	}
	src.Reserve(taps)

	scale := 256 * src.Height / height
	logrus.WithFields(logrus.Fields{
		"function": function,
		"src":      src.String(),
		"height":   height,
		"taps":     taps,
		"scale":    scale,
	}).Debug("Selected resample kernel")

	return newVirtual(function, src.Format, src.Width, height, &vertResample{
		node:  node{name: fmt.Sprintf("vert_resample_%dtap", taps), src: src},
		scale: scale,
		taps:  taps,
	})
}

// horizResample maps output sample j to source position j*scale in 1/65536
// units.
type horizResample struct {
	node
	scale int
	taps  int
}

// RenderLine filters one source row at every output position.
func (n *horizResample) RenderLine(f *frame.Frame, dst []byte, component, line int) {
	src := n.src.Line(component, line)
	last := n.src.Components[component].Width - 1
	w := f.Components[component].Width

	switch n.taps {
	case 1:
		for j := 0; j < w; j++ {
			dst[j] = src[clamp((j*n.scale)>>16, 0, last)]
		}
	case 2:
		for j := 0; j < w; j++ {
			acc := j * n.scale
			si := acc >> 16
			x := (acc >> 8) & 0xff
			a := int(src[clamp(si, 0, last)])
			b := int(src[clamp(si+1, 0, last)])
			dst[j] = byte((a*(256-x) + b*x) >> 8)
		}
	default:
		for j := 0; j < w; j++ {
			acc := j * n.scale
			si := acc >> 16
			t := &resampleTaps4[(acc>>8)&0xff]
			v := 32
			if si >= 1 && si+2 <= last {
				s := src[si-1 : si+3]
				v += int(t[0])*int(s[0]) + int(t[1])*int(s[1]) +
					int(t[2])*int(s[2]) + int(t[3])*int(s[3])
			} else {
				for k := 0; k < 4; k++ {
					v += int(t[k]) * int(src[clamp(si-1+k, 0, last)])
				}
			}
			dst[j] = clampU8(v >> 6)
		}
	}
}

// NewHorizResample returns a virtual frame of src scaled to width samples
// using nearest (1), linear (2) or cubic (4) interpolation.
func NewHorizResample(src *frame.Frame, width, taps int) (*frame.Frame, error) {
	const function = "NewHorizResample"
	if err := requirePlanar(function, src, format.DepthU8); err != nil {
		return nil, err
	}
	if taps != 1 && taps != 2 && taps != 4 {
		return nil, reject(function, src, fmt.Errorf("%d-tap horizontal resample: %w", taps, frame.ErrNoKernel))
	}
	if width <= 0 {
		return nil, reject(function, src, fmt.Errorf("target width %d: %w", width, frame.ErrInvalidConfig))
	}

	scale := 65536 * src.Width / width
	logrus.WithFields(logrus.Fields{
		"function": function,
		"src":      src.String(),
		"width":    width,
		"taps":     taps,
		"scale":    scale,
	}).Debug("Selected resample kernel")

	return newVirtual(function, src.Format, width, src.Height, &horizResample{
		node:  node{name: fmt.Sprintf("horiz_resample_%dtap", taps), src: src},
		scale: scale,
		taps:  taps,
	})
}
