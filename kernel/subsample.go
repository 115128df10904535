package kernel

import (
	"fmt"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/sirupsen/logrus"
)

// chromaKernel renders one chroma row of the converted frame.
type chromaKernel func(n *subsample, dst []byte, component, line, width int)

// subsample copies luma and rebuilds chroma at a new subsampling.
type subsample struct {
	node
	taps   int
	chroma chromaKernel
}

func (n *subsample) RenderLine(f *frame.Frame, dst []byte, component, line int) {
	if component == 0 {
		copy(dst, n.src.Line(0, line))
		return
	}
	n.chroma(n, dst, component, line, f.Components[component].Width)
}

// rows returns the clamped source chroma rows a and b.
func (n *subsample) rows(component, a, b int) ([]byte, []byte) {
	last := n.src.Components[component].Height - 1
	return n.src.Line(component, clamp(a, 0, last)), n.src.Line(component, clamp(b, 0, last))
}

func chroma422To420(n *subsample, dst []byte, component, line, w int) {
	a, b := n.rows(component, 2*line, 2*line+1)
	for j := 0; j < w; j++ {
		dst[j] = avgU8(a[j], b[j])
	}
}

func chroma444To420MPEG2(n *subsample, dst []byte, component, line, w int) {
	a, b := n.rows(component, 2*line, 2*line+1)
	last := n.src.Components[component].Width - 1
	for j := 0; j < w; j++ {
		l, m, r := clamp(2*j-1, 0, last), 2*j, clamp(2*j+1, 0, last)
		x := int(a[l]) + 2*int(a[m]) + int(a[r]) +
			int(b[l]) + 2*int(b[m]) + int(b[r])
		dst[j] = byte((x + 4) >> 3)
	}
}

func chroma444To420JPEG(n *subsample, dst []byte, component, line, w int) {
	a, b := n.rows(component, 2*line, 2*line+1)
	last := n.src.Components[component].Width - 1
	for j := 0; j < w; j++ {
		r := clamp(2*j+1, 0, last)
		dst[j] = avgU8(avgU8(a[2*j], a[r]), avgU8(b[2*j], b[r]))
	}
}

func chroma444To422(n *subsample, dst []byte, component, line, w int) {
	s := n.src.Line(component, line)
	last := n.src.Components[component].Width - 1
	dst[0] = byte((3*int(s[0]) + int(s[clamp(1, 0, last)]) + 2) >> 2)
	for j := 1; j < w; j++ {
		dst[j] = s[2*j]
	}
}

func chroma420To422(n *subsample, dst []byte, component, line, w int) {
	if n.taps == 2 && line&1 == 1 && line < n.src.Components[component].Height*2-1 {
		a, b := n.rows(component, line>>1, (line>>1)+1)
		for j := 0; j < w; j++ {
			dst[j] = avgU8(a[j], b[j])
		}
		return
	}
	copy(dst[:w], n.src.Line(component, line>>1))
}

// upsampleCosited doubles a row with co-sited chroma: even samples copy,
// odd samples average their neighbours.
func upsampleCosited(dst, src []byte, w int) {
	last := len(src) - 1
	for x := 0; x < w; x++ {
		k := clamp(x>>1, 0, last)
		if x&1 == 0 {
			dst[x] = src[k]
			continue
		}
		dst[x] = avgU8(src[k], src[clamp(k+1, 0, last)])
	}
}

func upsampleReplicate(dst, src []byte, w int) {
	last := len(src) - 1
	for x := 0; x < w; x++ {
		dst[x] = src[clamp(x>>1, 0, last)]
	}
}

func chroma420To444MPEG2(n *subsample, dst []byte, component, line, w int) {
	upsampleCosited(dst, n.src.Line(component, line>>1), w)
}

func chroma420To444JPEG(n *subsample, dst []byte, component, line, w int) {
	upsampleReplicate(dst, n.src.Line(component, line>>1), w)
}

func chroma422To444(n *subsample, dst []byte, component, line, w int) {
	upsampleCosited(dst, n.src.Line(component, line), w)
}

type subsamplePair struct {
	from, to format.Format
}

// NewSubsample converts between the U8 4:4:4, 4:2:2 and 4:2:0 planar
// formats. site selects the chroma siting for conversions to and from 4:2:0;
// taps (1 or 2) selects replication or averaging for 4:2:0 to 4:2:2.
func NewSubsample(src *frame.Frame, target format.Format, site ChromaSite, taps int) (*frame.Frame, error) {
	const function = "NewSubsample"
	if err := requirePlanar(function, src, format.DepthU8); err != nil {
		return nil, err
	}
	if src.Format == target {
		return src, nil
	}
	if taps != 1 && taps != 2 {
		return nil, reject(function, src, fmt.Errorf("%d-tap chroma subsample: %w", taps, frame.ErrNoKernel))
	}

	var chroma chromaKernel
	switch (subsamplePair{src.Format, target}) {
	case subsamplePair{format.U8_422, format.U8_420}:
		chroma = chroma422To420
	case subsamplePair{format.U8_444, format.U8_420}:
		chroma = chroma444To420MPEG2
		if site == ChromaSiteJPEG {
			chroma = chroma444To420JPEG
		}
	case subsamplePair{format.U8_444, format.U8_422}:
		chroma = chroma444To422
	case subsamplePair{format.U8_420, format.U8_422}:
		chroma = chroma420To422
	case subsamplePair{format.U8_420, format.U8_444}:
		chroma = chroma420To444MPEG2
		if site == ChromaSiteJPEG {
			chroma = chroma420To444JPEG
		}
	case subsamplePair{format.U8_422, format.U8_444}:
		chroma = chroma422To444
	default:
		return nil, reject(function, src, fmt.Errorf("subsample %v to %v: %w", src.Format, target, frame.ErrNoKernel))
	}

	name := fmt.Sprintf("subsample_%v_to_%v", src.Format, target)
	logrus.WithFields(logrus.Fields{
		"function": function,
		"src":      src.String(),
		"target":   target.String(),
		"site":     site.String(),
		"taps":     taps,
	}).Debug("Selected subsample kernel")

	return newVirtual(function, target, src.Width, src.Height,
		&subsample{node: node{name: name, src: src}, taps: taps, chroma: chroma})
}
