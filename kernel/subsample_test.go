package kernel

import (
	"testing"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubsample_SameFormatIsIdentity(t *testing.T) {
	src := newPlanar(t, format.U8_420, 4, 4, pattern)
	vf, err := NewSubsample(src, format.U8_420, ChromaSiteMPEG2, 2)
	require.NoError(t, err)
	assert.Same(t, src, vf)
}

func TestSubsample_422To420(t *testing.T) {
	src := newPlanar(t, format.U8_422, 4, 4, func(c, x, y int) byte {
		if c == 0 {
			return byte(x + y)
		}
		return byte(10 * y)
	})

	vf, err := NewSubsample(src, format.U8_420, ChromaSiteMPEG2, 2)
	require.NoError(t, err)
	assert.Equal(t, format.U8_420, vf.Format)
	assert.Equal(t, src.Line(0, 3), vf.Line(0, 3))
	assert.Equal(t, []byte{5, 5}, vf.Line(1, 0))
	assert.Equal(t, []byte{25, 25}, vf.Line(2, 1))
}

func TestSubsample_444To420(t *testing.T) {
	src := newPlanar(t, format.U8_444, 4, 2, func(c, x, y int) byte {
		return [][]byte{{0, 8, 16, 24}, {40, 48, 56, 64}}[y][x]
	})

	mpeg2, err := NewSubsample(src, format.U8_420, ChromaSiteMPEG2, 2)
	require.NoError(t, err)
	// j=0: rows weigh 0,0,8 and 40,40,48 with 1-2-1.
	assert.Equal(t, []byte{22, 36}, mpeg2.Line(1, 0))

	jpeg, err := NewSubsample(src, format.U8_420, ChromaSiteJPEG, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{24, 40}, jpeg.Line(2, 0))
}

func TestSubsample_444To422(t *testing.T) {
	src := newPlanar(t, format.U8_444, 4, 1, func(c, x, y int) byte { return byte(4 * (x + 1)) })

	vf, err := NewSubsample(src, format.U8_422, ChromaSiteMPEG2, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 12}, vf.Line(1, 0))
	assert.Equal(t, []byte{4, 8, 12, 16}, vf.Line(0, 0))
}

func TestSubsample_420To422(t *testing.T) {
	src := newPlanar(t, format.U8_420, 2, 4, func(c, x, y int) byte { return byte(100 * y) })

	tests := []struct {
		taps int
		want []byte
	}{
		{2, []byte{0, 50, 100, 100}},
		{1, []byte{0, 0, 100, 100}},
	}

	for _, tt := range tests {
		vf, err := NewSubsample(src, format.U8_422, ChromaSiteMPEG2, tt.taps)
		require.NoError(t, err)
		for i, v := range tt.want {
			assert.Equal(t, []byte{v}, vf.Line(1, i), "taps %d line %d", tt.taps, i)
		}
	}
}

func TestSubsample_UpsampleTo444(t *testing.T) {
	chroma := func(c, x, y int) byte {
		if c == 0 {
			return 1
		}
		return byte(10 * (x + 1))
	}

	tests := []struct {
		name string
		from format.Format
		site ChromaSite
		want []byte
	}{
		{"420 mpeg2", format.U8_420, ChromaSiteMPEG2, []byte{10, 15, 20, 20}},
		{"420 jpeg", format.U8_420, ChromaSiteJPEG, []byte{10, 10, 20, 20}},
		{"422", format.U8_422, ChromaSiteJPEG, []byte{10, 15, 20, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newPlanar(t, tt.from, 4, 2, chroma)
			vf, err := NewSubsample(src, format.U8_444, tt.site, 2)
			require.NoError(t, err)
			for i := 0; i < 2; i++ {
				assert.Equal(t, tt.want, vf.Line(2, i))
			}
			assert.Equal(t, []byte{1, 1, 1, 1}, vf.Line(0, 1))
		})
	}
}

func TestSubsample_OddWidthUpsample(t *testing.T) {
	src := newPlanar(t, format.U8_422, 5, 1, func(c, x, y int) byte { return byte(10 * (x + 1)) })

	vf, err := NewSubsample(src, format.U8_444, ChromaSiteMPEG2, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 15, 20, 25, 30}, vf.Line(1, 0))
}

func TestSubsample_Errors(t *testing.T) {
	src := newPlanar(t, format.U8_444, 4, 4, pattern)

	_, err := NewSubsample(src, format.Gray8, ChromaSiteMPEG2, 2)
	assert.ErrorIs(t, err, frame.ErrNoKernel)
	_, err = NewSubsample(src, format.U8_420, ChromaSiteMPEG2, 3)
	assert.ErrorIs(t, err, frame.ErrNoKernel)

	packed, err := frame.New(format.UYVY, 4, 4)
	require.NoError(t, err)
	_, err = NewSubsample(packed, format.U8_420, ChromaSiteMPEG2, 2)
	assert.ErrorIs(t, err, frame.ErrInvalidConfig)
}
