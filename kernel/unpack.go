package kernel

import (
	"encoding/binary"
	"fmt"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/sirupsen/logrus"
)

// byteLayout places the samples of each planar component in a packed row.
// Sample j of component c starts at byte step[c]*j + offset[c] and occupies
// size bytes; fill is the byte of each pixel that carries alpha or padding,
// or -1.
type byteLayout struct {
	step   [3]int
	offset [3]int
	size   int
	fill   int
}

// permLayout expands a 4-nibble byte permutation of a 32-bit pixel. Nibble
// c (from the top) is the byte position of component c; the last nibble is
// the position of the alpha or padding byte.
func permLayout(perm int) byteLayout {
	l := byteLayout{step: [3]int{4, 4, 4}, size: 1}
	for c := 0; c < 3; c++ {
		l.offset[c] = (perm >> (12 - 4*c)) & 0xf
	}
	l.fill = perm & 0xf
	return l
}

var packedLayouts = map[format.Format]byteLayout{
	format.YUYV: {step: [3]int{2, 4, 4}, offset: [3]int{0, 1, 3}, size: 1, fill: -1},
	format.UYVY: {step: [3]int{2, 4, 4}, offset: [3]int{1, 0, 2}, size: 1, fill: -1},
	format.V216: {step: [3]int{4, 8, 8}, offset: [3]int{2, 0, 4}, size: 2, fill: -1},
	format.RGB:  {step: [3]int{3, 3, 3}, offset: [3]int{0, 1, 2}, size: 1, fill: -1},
	format.AYUV: permLayout(0x1230),
	format.RGBx: permLayout(0x0123),
	format.RGBA: permLayout(0x0123),
	format.BGRx: permLayout(0x2103),
	format.BGRA: permLayout(0x2103),
	format.XRGB: permLayout(0x1230),
	format.ARGB: permLayout(0x1230),
	format.XBGR: permLayout(0x3210),
	format.ABGR: permLayout(0x3210),
}

// v210Field is the position of one 10-bit sample in a 16-byte v210 group.
type v210Field struct {
	word  int
	shift uint
}

// Sample positions of the 6 luma and 3+3 chroma samples of a v210 group.
var (
	v210Luma = [...]v210Field{{0, 10}, {1, 0}, {1, 20}, {2, 10}, {3, 0}, {3, 20}}
	v210Cb   = [...]v210Field{{0, 0}, {1, 10}, {2, 20}}
	v210Cr   = [...]v210Field{{0, 20}, {2, 0}, {3, 10}}
)

func v210Fields(component int) []v210Field {
	switch component {
	case 0:
		return v210Luma[:]
	case 1:
		return v210Cb[:]
	default:
		return v210Cr[:]
	}
}

type unpackBytes struct {
	node
	layout byteLayout
}

// RenderLine extracts one component. Multi-byte samples keep their most
// significant byte.
func (n *unpackBytes) RenderLine(f *frame.Frame, dst []byte, component, line int) {
	src := n.src.Line(0, line)
	step := n.layout.step[component]
	off := n.layout.offset[component] + n.layout.size - 1
	w := f.Components[component].Width
	for j := 0; j < w; j++ {
		dst[j] = src[step*j+off]
	}
}

type unpackV210 struct {
	node
}

func (n *unpackV210) RenderLine(f *frame.Frame, dst []byte, component, line int) {
	src := n.src.Line(0, line)
	fields := v210Fields(component)
	per := len(fields)
	w := f.Components[component].Width
	for j := 0; j < w; j++ {
		fld := fields[j%per]
		word := binary.LittleEndian.Uint32(src[(j/per)*16+fld.word*4:])
		dst[j] = byte(((word >> fld.shift) & 0x3ff) >> 2)
	}
}

// NewUnpack splits a packed frame into its planar format. Planar frames are
// returned unchanged.
func NewUnpack(src *frame.Frame) (*frame.Frame, error) {
	const function = "NewUnpack"
	if src == nil {
		return nil, reject(function, nil, fmt.Errorf("nil source frame: %w", frame.ErrInvalidConfig))
	}
	info := src.Info()
	if !info.Packed {
		return src, nil
	}

	var n frame.Node
	name := "unpack_" + src.Format.String()
	if src.Format == format.V210 {
		n = &unpackV210{node: node{name: name, src: src}}
	} else {
		layout, ok := packedLayouts[src.Format]
		if !ok {
			return nil, reject(function, src, fmt.Errorf("unpack %v: %w", src.Format, frame.ErrNoKernel))
		}
		n = &unpackBytes{node: node{name: name, src: src}, layout: layout}
	}

	logrus.WithFields(logrus.Fields{
		"function": function,
		"src":      src.String(),
		"target":   info.Planar.String(),
	}).Debug("Selected unpack kernel")

	return newVirtual(function, info.Planar, src.Width, src.Height, n)
}
