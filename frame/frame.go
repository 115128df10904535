package frame

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/opd-ai/virtframe/format"
	"github.com/sirupsen/logrus"
)

// Component is one plane of a frame: luma, a chroma plane, or the single
// interleaved plane of a packed format.
type Component struct {
	Width  int
	Height int
	Stride int // bytes between the starts of two rows

	// RowBytes is the number of meaningful bytes in one row.
	RowBytes int

	HShift uint
	VShift uint

	// Data is the backing storage of a real frame. It is nil on virtual
	// frames, whose rows live in the scanline cache.
	Data []byte
}

// Frame is either real (every component has backing storage) or virtual
// (rows are computed on demand by a Node and kept in a bounded cache).
type Frame struct {
	ID         uuid.UUID
	Format     format.Format
	Width      int
	Height     int
	Components []Component

	info   format.Info
	node   Node
	caches []*lineCache
}

func roundUp(v, n int) int {
	return (v + n - 1) / n * n
}

func roundUpShift(v int, shift uint) int {
	return (v + (1 << shift) - 1) >> shift
}

func packedStride(f format.Format, width int) (stride, rowBytes int) {
	switch f {
	case format.AYUV, format.RGBx, format.XRGB, format.BGRx, format.XBGR,
		format.RGBA, format.ARGB, format.BGRA, format.ABGR:
		return width * 4, width * 4
	case format.V216:
		stride = roundUp(width, 2) * 4
		return stride, stride
	case format.V210:
		stride = (width + 47) / 48 * 128
		return stride, stride
	case format.RGB:
		return roundUp(width*3, 4), width * 3
	default:
		stride = roundUp(width, 2) * 2
		return stride, stride
	}
}

// layout computes the component geometry of a width x height frame in f.
func layout(f format.Format, width, height int) (format.Info, []Component, error) {
	info, ok := format.Lookup(f)
	if !ok {
		return info, nil, fmt.Errorf("unknown format %v: %w", f, ErrInvalidConfig)
	}
	if width <= 0 || height <= 0 {
		return info, nil, fmt.Errorf("invalid frame size %dx%d: %w", width, height, ErrInvalidConfig)
	}

	if info.Packed {
		stride, rowBytes := packedStride(f, width)
		return info, []Component{{
			Width:    width,
			Height:   height,
			Stride:   stride,
			RowBytes: rowBytes,
		}}, nil
	}

	bps := info.Depth.BytesPerSample()
	if bps == 0 {
		return info, nil, fmt.Errorf("unsupported depth %v: %w", info.Depth, ErrInvalidConfig)
	}

	comps := make([]Component, info.Components)
	for k := range comps {
		c := Component{Width: width, Height: height}
		if k > 0 {
			c.HShift = info.HShift
			c.VShift = info.VShift
			c.Width = roundUpShift(width, info.HShift)
			c.Height = roundUpShift(height, info.VShift)
		}
		c.RowBytes = c.Width * bps
		c.Stride = roundUp(c.RowBytes, 4)
		comps[k] = c
	}
	return info, comps, nil
}

// New allocates a real frame with zeroed storage.
func New(f format.Format, width, height int) (*Frame, error) {
	info, comps, err := layout(f, width, height)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "New",
			"format":   f.String(),
			"width":    width,
			"height":   height,
			"error":    err.Error(),
		}).Error("Frame allocation rejected")
		return nil, err
	}

	for k := range comps {
		comps[k].Data = make([]byte, comps[k].Stride*comps[k].Height)
	}

	return &Frame{
		ID:         uuid.New(),
		Format:     f,
		Width:      width,
		Height:     height,
		Components: comps,
		info:       info,
	}, nil
}

// Wrap builds a real frame over caller-owned planes. Each plane must hold
// its rows at the given stride; the frame never copies or reallocates them.
func Wrap(f format.Format, width, height int, planes [][]byte, strides []int) (*Frame, error) {
	info, comps, err := layout(f, width, height)
	if err != nil {
		return nil, err
	}
	if len(planes) != len(comps) || len(strides) != len(comps) {
		return nil, fmt.Errorf("%v needs %d planes, got %d planes and %d strides: %w",
			f, len(comps), len(planes), len(strides), ErrInvalidConfig)
	}

	for k := range comps {
		c := &comps[k]
		if strides[k] < c.RowBytes {
			return nil, fmt.Errorf("plane %d stride %d below row size %d: %w",
				k, strides[k], c.RowBytes, ErrInvalidConfig)
		}
		need := strides[k]*(c.Height-1) + c.RowBytes
		if len(planes[k]) < need {
			return nil, fmt.Errorf("plane %d holds %d bytes, need %d: %w",
				k, len(planes[k]), need, ErrInvalidConfig)
		}
		c.Stride = strides[k]
		c.Data = planes[k]
	}

	return &Frame{
		ID:         uuid.New(),
		Format:     f,
		Width:      width,
		Height:     height,
		Components: comps,
		info:       info,
	}, nil
}

// NewVirtual creates a frame whose rows are produced by node. Each component
// gets a scanline cache of DefaultWindow rows instead of backing storage.
func NewVirtual(f format.Format, width, height int, node Node) (*Frame, error) {
	if node == nil {
		return nil, fmt.Errorf("virtual frame needs a render node: %w", ErrInvalidConfig)
	}
	info, comps, err := layout(f, width, height)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewVirtual",
			"node":     node.GetName(),
			"format":   f.String(),
			"width":    width,
			"height":   height,
			"error":    err.Error(),
		}).Error("Virtual frame rejected")
		return nil, err
	}

	vf := &Frame{
		ID:         uuid.New(),
		Format:     f,
		Width:      width,
		Height:     height,
		Components: comps,
		info:       info,
		node:       node,
	}
	vf.allocCaches(DefaultWindow)

	logrus.WithFields(logrus.Fields{
		"function": "NewVirtual",
		"frame_id": vf.ID.String(),
		"node":     node.GetName(),
		"format":   f.String(),
		"width":    width,
		"height":   height,
	}).Debug("Created virtual frame")

	return vf, nil
}

// IsVirtual reports whether rows are computed on demand.
func (f *Frame) IsVirtual() bool {
	return f.node != nil
}

// Info returns the catalog entry of the frame's format.
func (f *Frame) Info() format.Info {
	return f.info
}

// Node returns the render node of a virtual frame, nil for real frames.
func (f *Frame) Node() Node {
	return f.node
}

// Upstream returns the frame this frame's node pulls from, if any.
func (f *Frame) Upstream() *Frame {
	if f.node == nil {
		return nil
	}
	return f.node.Upstream()
}

func (f *Frame) String() string {
	kind := "real"
	if f.IsVirtual() {
		kind = f.node.GetName()
	}
	return fmt.Sprintf("%v %dx%d (%s)", f.Format, f.Width, f.Height, kind)
}
