package kernel

import (
	"encoding/binary"
	"fmt"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/sirupsen/logrus"
)

// depthBias maps signed 16-bit samples centered on zero to unsigned bytes.
const depthBias = 128

type convertU8 struct {
	node
}

func (n *convertU8) RenderLine(f *frame.Frame, dst []byte, component, line int) {
	src := n.src.Line(component, line)
	w := f.Components[component].Width
	for j := 0; j < w; j++ {
		s := int16(binary.LittleEndian.Uint16(src[2*j:]))
		dst[j] = clampU8(int(s) + depthBias)
	}
}

type convertS16 struct {
	node
}

func (n *convertS16) RenderLine(f *frame.Frame, dst []byte, component, line int) {
	src := n.src.Line(component, line)
	w := f.Components[component].Width
	for j := 0; j < w; j++ {
		binary.LittleEndian.PutUint16(dst[2*j:], uint16(int16(int(src[j])-depthBias)))
	}
}

func newDepthConvert(function string, src *frame.Frame, from, to format.Depth,
	build func(node) frame.Node) (*frame.Frame, error) {
	if err := requirePlanar(function, src, from); err != nil {
		return nil, err
	}
	target, ok := src.Format.WithDepth(to)
	if !ok {
		return nil, reject(function, src, fmt.Errorf("no %v variant of %v: %w", to, src.Format, frame.ErrNoKernel))
	}

	logrus.WithFields(logrus.Fields{
		"function": function,
		"src":      src.String(),
		"target":   target.String(),
	}).Debug("Selected depth conversion")

	name := "convert_" + to.String()
	return newVirtual(function, target, src.Width, src.Height, build(node{name: name, src: src}))
}

// NewConvertU8 narrows a signed 16-bit planar frame to unsigned bytes,
// saturating out-of-range samples.
func NewConvertU8(src *frame.Frame) (*frame.Frame, error) {
	return newDepthConvert("NewConvertU8", src, format.DepthS16, format.DepthU8,
		func(n node) frame.Node { return &convertU8{node: n} })
}

// NewConvertS16 widens an unsigned byte planar frame to signed 16-bit
// samples centered on zero.
func NewConvertS16(src *frame.Frame) (*frame.Frame, error) {
	return newDepthConvert("NewConvertS16", src, format.DepthU8, format.DepthS16,
		func(n node) frame.Node { return &convertS16{node: n} })
}
