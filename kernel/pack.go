package kernel

import (
	"encoding/binary"
	"fmt"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/sirupsen/logrus"
)

type packBytes struct {
	node
	layout byteLayout
}

// RenderLine interleaves the three planar rows into one packed row. Samples
// wider than a byte repeat the 8-bit value in every byte; the alpha or
// padding byte is opaque.
func (n *packBytes) RenderLine(f *frame.Frame, dst []byte, _, line int) {
	clear(dst)
	l := n.layout
	for c := 0; c < 3; c++ {
		row := n.src.Line(c, line)
		w := n.src.Components[c].Width
		step, off := l.step[c], l.offset[c]
		for j := 0; j < w; j++ {
			p := step*j + off
			for b := 0; b < l.size; b++ {
				dst[p+b] = row[j]
			}
		}
	}
	if l.fill >= 0 {
		for j := 0; j < f.Width; j++ {
			dst[4*j+l.fill] = 0xff
		}
	}
}

type packV210 struct {
	node
}

func to10(v byte) uint32 {
	return uint32(v)<<2 | uint32(v)>>6
}

// RenderLine writes complete 16-byte groups. Samples past the frame width in
// the last group, and the row padding after it, are zero.
func (n *packV210) RenderLine(f *frame.Frame, dst []byte, _, line int) {
	clear(dst)
	groups := (f.Width + 5) / 6
	var words [4]uint32
	for g := 0; g < groups; g++ {
		words = [4]uint32{}
		for c := 0; c < 3; c++ {
			row := n.src.Line(c, line)
			fields := v210Fields(c)
			w := n.src.Components[c].Width
			for k, fld := range fields {
				j := g*len(fields) + k
				if j < w {
					words[fld.word] |= to10(row[j]) << fld.shift
				}
			}
		}
		for k, word := range words {
			binary.LittleEndian.PutUint32(dst[g*16+k*4:], word)
		}
	}
}

// NewPack interleaves a planar frame into the packed format target. The
// source must already be in target's planar format.
func NewPack(src *frame.Frame, target format.Format) (*frame.Frame, error) {
	const function = "NewPack"
	if err := requirePlanar(function, src, format.DepthU8); err != nil {
		return nil, err
	}
	info, ok := format.Lookup(target)
	if !ok || !info.Packed {
		return nil, reject(function, src, fmt.Errorf("%v is not a packed format: %w", target, frame.ErrInvalidConfig))
	}
	if src.Format != info.Planar {
		return nil, reject(function, src, fmt.Errorf("packing %v needs %v input, got %v: %w",
			target, info.Planar, src.Format, frame.ErrInvalidConfig))
	}

	var n frame.Node
	name := "pack_" + target.String()
	if target == format.V210 {
		n = &packV210{node: node{name: name, src: src}}
	} else {
		layout, ok := packedLayouts[target]
		if !ok {
			return nil, reject(function, src, fmt.Errorf("pack %v: %w", target, frame.ErrNoKernel))
		}
		n = &packBytes{node: node{name: name, src: src}, layout: layout}
	}

	logrus.WithFields(logrus.Fields{
		"function": function,
		"src":      src.String(),
		"target":   target.String(),
	}).Debug("Selected pack kernel")

	return newVirtual(function, target, src.Width, src.Height, n)
}

// NewPackYUYV packs U8_422 into YUYV.
func NewPackYUYV(src *frame.Frame) (*frame.Frame, error) { return NewPack(src, format.YUYV) }

// NewPackUYVY packs U8_422 into UYVY.
func NewPackUYVY(src *frame.Frame) (*frame.Frame, error) { return NewPack(src, format.UYVY) }

// NewPackV216 packs U8_422 into v216.
func NewPackV216(src *frame.Frame) (*frame.Frame, error) { return NewPack(src, format.V216) }

// NewPackV210 packs U8_422 into v210.
func NewPackV210(src *frame.Frame) (*frame.Frame, error) { return NewPack(src, format.V210) }

// NewPackAYUV packs U8_444 into AYUV.
func NewPackAYUV(src *frame.Frame) (*frame.Frame, error) { return NewPack(src, format.AYUV) }
