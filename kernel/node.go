package kernel

import (
	"fmt"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/sirupsen/logrus"
)

// node holds what every kernel node shares: its name and upstream frame.
type node struct {
	name string
	src  *frame.Frame
}

// Upstream returns the frame the node pulls rows from.
func (n *node) Upstream() *frame.Frame { return n.src }

// GetName returns the kernel name.
func (n *node) GetName() string { return n.name }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampU8(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func avgU8(a, b byte) byte {
	return byte((int(a) + int(b) + 1) >> 1)
}

// reject logs a chain construction failure and returns err.
func reject(function string, src *frame.Frame, err error) error {
	fields := logrus.Fields{
		"function": function,
		"error":    err.Error(),
	}
	if src != nil {
		fields["src"] = src.String()
	}
	logrus.WithFields(fields).Error("Kernel selection failed")
	return err
}

// requirePlanar checks that src is a planar frame of depth d.
func requirePlanar(function string, src *frame.Frame, d format.Depth) error {
	if src == nil {
		return reject(function, nil, fmt.Errorf("nil source frame: %w", frame.ErrInvalidConfig))
	}
	info := src.Info()
	if info.Packed || info.Depth != d {
		return reject(function, src, fmt.Errorf("%v is not a planar %v format: %w",
			src.Format, d, frame.ErrInvalidConfig))
	}
	return nil
}

func newVirtual(function string, f format.Format, width, height int, n frame.Node) (*frame.Frame, error) {
	vf, err := frame.NewVirtual(f, width, height, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", function, err)
	}
	return vf, nil
}
