package kernel

import (
	"fmt"

	"github.com/opd-ai/virtframe/frame"
	"github.com/sirupsen/logrus"
)

type crop struct {
	node
}

// RenderLine keeps the leading bytes of the source row.
func (n *crop) RenderLine(f *frame.Frame, dst []byte, component, line int) {
	rowBytes := f.Components[component].RowBytes
	copy(dst[:rowBytes], n.src.Line(component, line)[:rowBytes])
}

// NewCrop keeps the top-left width x height region of a planar frame.
func NewCrop(src *frame.Frame, width, height int) (*frame.Frame, error) {
	const function = "NewCrop"
	if err := requireAnyPlanar(function, src); err != nil {
		return nil, err
	}
	if width == src.Width && height == src.Height {
		return src, nil
	}
	if width > src.Width || height > src.Height {
		return nil, reject(function, src, fmt.Errorf("crop to %dx%d exceeds source: %w",
			width, height, frame.ErrInvalidConfig))
	}

	logrus.WithFields(logrus.Fields{
		"function": function,
		"src":      src.String(),
		"width":    width,
		"height":   height,
	}).Debug("Selected crop")

	return newVirtual(function, src.Format, width, height, &crop{node: node{name: "crop", src: src}})
}

type edgeExtend struct {
	node
}

// RenderLine repeats the last source row below the source and the last
// sample of each row to its right.
func (n *edgeExtend) RenderLine(f *frame.Frame, dst []byte, component, line int) {
	sc := &n.src.Components[component]
	row := n.src.Line(component, min(line, sc.Height-1))
	copy(dst, row)

	bps := n.src.Info().Depth.BytesPerSample()
	edge := row[sc.RowBytes-bps : sc.RowBytes]
	for off := sc.RowBytes; off < f.Components[component].RowBytes; off += bps {
		copy(dst[off:off+bps], edge)
	}
}

// NewEdgeExtend grows a planar frame to width x height by replicating its
// right column and bottom row.
func NewEdgeExtend(src *frame.Frame, width, height int) (*frame.Frame, error) {
	const function = "NewEdgeExtend"
	if err := requireAnyPlanar(function, src); err != nil {
		return nil, err
	}
	if width == src.Width && height == src.Height {
		return src, nil
	}
	if width < src.Width || height < src.Height {
		return nil, reject(function, src, fmt.Errorf("extend to %dx%d is smaller than source: %w",
			width, height, frame.ErrInvalidConfig))
	}

	logrus.WithFields(logrus.Fields{
		"function": function,
		"src":      src.String(),
		"width":    width,
		"height":   height,
	}).Debug("Selected edge extend")

	return newVirtual(function, src.Format, width, height, &edgeExtend{node: node{name: "edge_extend", src: src}})
}

// requireAnyPlanar accepts planar frames of every depth.
func requireAnyPlanar(function string, src *frame.Frame) error {
	if src == nil {
		return reject(function, nil, fmt.Errorf("nil source frame: %w", frame.ErrInvalidConfig))
	}
	if src.Info().Packed {
		return reject(function, src, fmt.Errorf("%v is packed: %w", src.Format, frame.ErrInvalidConfig))
	}
	return nil
}
