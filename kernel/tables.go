package kernel

import "math"

// filter is a fixed-point FIR kernel applied around sample 2*j of the
// source: out = (round + sum(taps[k] * s[2*j+first+k])) >> shift.
type filter struct {
	taps  []int
	first int
	round int
	shift uint
}

// Downsample filters, keyed by tap count. The 2- and 3-tap filters are
// co-sited; the others are half-site filters in 1/64 units.
var downsampleFilters = map[int]filter{
	2:  {taps: []int{1, 1}, first: 0, round: 1, shift: 1},
	3:  {taps: []int{1, 2, 1}, first: -1, round: 2, shift: 2},
	4:  {taps: []int{6, 26, 26, 6}, first: -1, round: 32, shift: 6},
	6:  {taps: []int{-3, 8, 27, 27, 8, -3}, first: -2, round: 32, shift: 6},
	8:  {taps: []int{-2, -4, 9, 29, 29, 9, -4, -2}, first: -3, round: 32, shift: 6},
	10: {taps: []int{1, -2, -5, 9, 29, 29, 9, -5, -2, 1}, first: -4, round: 32, shift: 6},
}

// resampleTaps4 holds the 4-tap interpolation weights for each 1/256
// sub-sample phase. Each row sums to 64 and row 0 is the identity.
var resampleTaps4 = buildResampleTaps4()

// cubic is the cubic convolution kernel with a = -0.5.
func cubic(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x < 1:
		return 1.5*x*x*x - 2.5*x*x + 1
	case x < 2:
		return -0.5*x*x*x + 2.5*x*x - 4*x + 2
	default:
		return 0
	}
}

func buildResampleTaps4() (t [256][4]int8) {
	for phase := range t {
		x := float64(phase) / 256
		w0 := int(math.Round(64 * cubic(1+x)))
		w2 := int(math.Round(64 * cubic(1-x)))
		w3 := int(math.Round(64 * cubic(2-x)))
		t[phase] = [4]int8{int8(w0), int8(64 - w0 - w2 - w3), int8(w2), int8(w3)}
	}
	return t
}

// ColorMatrix selects the luma/chroma weighting of a YCbCr signal.
type ColorMatrix int

const (
	// ColorMatrixSDTV is ITU-R BT.601.
	ColorMatrixSDTV ColorMatrix = iota
	// ColorMatrixHDTV is ITU-R BT.709.
	ColorMatrixHDTV
)

func (m ColorMatrix) String() string {
	switch m {
	case ColorMatrixSDTV:
		return "sdtv"
	case ColorMatrixHDTV:
		return "hdtv"
	default:
		return "unknown"
	}
}

func (m ColorMatrix) valid() bool {
	return m == ColorMatrixSDTV || m == ColorMatrixHDTV
}

// matrix is a 3x4 integer matrix stored row by row; column 3 is the offset.
type matrix [12]int

// RGB to studio-range YCbCr, 8 fractional bits.
var rgbToYCbCr = [...]matrix{
	ColorMatrixSDTV: {
		66, 129, 25, 4096,
		-38, -74, 112, 32768,
		112, -94, -18, 32768,
	},
	ColorMatrixHDTV: {
		47, 157, 16, 4096,
		-26, -87, 112, 32768,
		112, -102, -10, 32768,
	},
}

// Studio-range YCbCr to RGB, 6 fractional bits.
var ycbcrToRGB6 = [...]matrix{
	ColorMatrixSDTV: {
		75, 0, 102, -14267,
		75, -25, -52, 8677,
		75, 129, 0, -17717,
	},
	ColorMatrixHDTV: {
		75, 0, 115, -15878,
		75, -14, -34, 4920,
		75, 135, 0, -18497,
	},
}

// Studio-range YCbCr to RGB, 8-bit precision. Luma and chroma are
// offset-removed before use and each coefficient is the fractional part
// left over after the integer terms of the kernel. The fractional products
// of one output are summed before rounding.
var ycbcrToRGB8 = [...]matrix{
	ColorMatrixSDTV: {
		42, 0, 153, -57068,
		42, -100, -208, 34707,
		42, 4, 0, -70870,
	},
	ColorMatrixHDTV: {
		42, 0, 203, -63514,
		42, -55, -136, 19681,
		42, 29, 0, -73988,
	},
}

// YCbCr to YCbCr, indexed by the input matrix.
var ycbcrToYCbCr = [...]matrix{
	ColorMatrixSDTV: { // SDTV to HDTV
		256, -30, -53, 10600,
		0, 261, 29, -4367,
		0, 19, 262, -3289,
	},
	ColorMatrixHDTV: { // HDTV to SDTV
		256, 25, 49, -9536,
		0, 253, -28, 3958,
		0, -19, 252, 2918,
	},
}

// ChromaSite is the position of subsampled chroma relative to luma.
type ChromaSite int

const (
	// ChromaSiteMPEG2 co-sites chroma with the left luma sample.
	ChromaSiteMPEG2 ChromaSite = iota
	// ChromaSiteJPEG centers chroma between luma samples.
	ChromaSiteJPEG
)

func (s ChromaSite) String() string {
	switch s {
	case ChromaSiteMPEG2:
		return "mpeg2"
	case ChromaSiteJPEG:
		return "jpeg"
	default:
		return "unknown"
	}
}
