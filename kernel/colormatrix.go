package kernel

import (
	"fmt"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/sirupsen/logrus"
)

// matrixNode applies a 3x4 matrix to U8_444 samples. Every output component
// depends on all three input components of the same row.
type matrixNode struct {
	node
	m      matrix
	sample func(m *matrix, component int, a, b, c int) byte
}

// RenderLine reads the same row of all three source components.
func (n *matrixNode) RenderLine(f *frame.Frame, dst []byte, component, line int) {
	s0 := n.src.Line(0, line)
	s1 := n.src.Line(1, line)
	s2 := n.src.Line(2, line)
	w := f.Components[component].Width
	for j := 0; j < w; j++ {
		dst[j] = n.sample(&n.m, component, int(s0[j]), int(s1[j]), int(s2[j]))
	}
}

func rgbToYCbCrSample(m *matrix, c int, r, g, b int) byte {
	row := m[4*c : 4*c+4]
	return clampU8((row[0]*r + row[1]*g + row[2]*b + row[3] + 128) >> 8)
}

func ycbcrToRGB6Sample(m *matrix, c int, y, cb, cr int) byte {
	switch c {
	case 0:
		return clampU8((m[0]*y + m[2]*cr + m[3] + 32) >> 6)
	case 1:
		return clampU8((m[4]*y + m[5]*cb + m[6]*cr + m[7] + 32) >> 6)
	default:
		return clampU8((m[8]*y + m[9]*cb + m[11] + 32) >> 6)
	}
}

func ycbcrToRGB8Sample(m *matrix, c int, y, cb, cr int) byte {
	y -= 16
	cb -= 128
	cr -= 128
	// The fractional terms share one accumulator and are rounded once.
	switch c {
	case 0:
		return clampU8(y + cr + ((y*m[0] + cr*m[2] + 128) >> 8))
	case 1:
		return clampU8(y + ((y*m[4] + cb*m[5] + cr*m[6] + 128) >> 8))
	default:
		return clampU8(y + 2*cb + ((y*m[8] + cb*m[9] + 128) >> 8))
	}
}

func ycbcrToYCbCrSample(m *matrix, c int, y, cb, cr int) byte {
	if c == 0 {
		return clampU8(y + (((m[0]-256)*y + m[1]*cb + m[2]*cr + m[3]) >> 8))
	}
	row := m[4*c : 4*c+4]
	return clampU8((row[0]*y + row[1]*cb + row[2]*cr + row[3]) >> 8)
}

func newMatrix(function, name string, src *frame.Frame, m matrix,
	sample func(*matrix, int, int, int, int) byte) (*frame.Frame, error) {
	logrus.WithFields(logrus.Fields{
		"function": function,
		"src":      src.String(),
		"kernel":   name,
	}).Debug("Selected color matrix")

	return newVirtual(function, format.U8_444, src.Width, src.Height,
		&matrixNode{node: node{name: name, src: src}, m: m, sample: sample})
}

func checkMatrixInput(function string, src *frame.Frame, matrices ...ColorMatrix) error {
	if err := requirePlanar(function, src, format.DepthU8); err != nil {
		return err
	}
	if src.Format != format.U8_444 {
		return reject(function, src, fmt.Errorf("color matrix needs U8_444 input, got %v: %w",
			src.Format, frame.ErrInvalidConfig))
	}
	for _, cm := range matrices {
		if !cm.valid() {
			return reject(function, src, fmt.Errorf("color matrix %d: %w", int(cm), frame.ErrNoKernel))
		}
	}
	return nil
}

// NewColorMatrixRGBToYCbCr converts full-range RGB to studio-range YCbCr.
func NewColorMatrixRGBToYCbCr(src *frame.Frame, out ColorMatrix) (*frame.Frame, error) {
	const function = "NewColorMatrixRGBToYCbCr"
	if err := checkMatrixInput(function, src, out); err != nil {
		return nil, err
	}
	return newMatrix(function, "rgb_to_ycbcr_"+out.String(), src, rgbToYCbCr[out], rgbToYCbCrSample)
}

// NewColorMatrixYCbCrToRGB converts studio-range YCbCr to full-range RGB.
// bits selects the coefficient precision: up to 6 uses the faster 6-bit
// table, anything above uses the 8-bit kernel.
func NewColorMatrixYCbCrToRGB(src *frame.Frame, in ColorMatrix, bits int) (*frame.Frame, error) {
	const function = "NewColorMatrixYCbCrToRGB"
	if err := checkMatrixInput(function, src, in); err != nil {
		return nil, err
	}
	if bits <= 6 {
		return newMatrix(function, "ycbcr_to_rgb6_"+in.String(), src, ycbcrToRGB6[in], ycbcrToRGB6Sample)
	}
	return newMatrix(function, "ycbcr_to_rgb8_"+in.String(), src, ycbcrToRGB8[in], ycbcrToRGB8Sample)
}

// NewColorMatrixYCbCrToYCbCr converts between YCbCr matrices. Matching
// matrices return src unchanged.
func NewColorMatrixYCbCrToYCbCr(src *frame.Frame, in, out ColorMatrix) (*frame.Frame, error) {
	const function = "NewColorMatrixYCbCrToYCbCr"
	if err := checkMatrixInput(function, src, in, out); err != nil {
		return nil, err
	}
	if in == out {
		return src, nil
	}
	return newMatrix(function, fmt.Sprintf("ycbcr_%v_to_%v", in, out), src, ycbcrToYCbCr[in], ycbcrToYCbCrSample)
}
