package kernel

import (
	"testing"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResampleTaps4_Table(t *testing.T) {
	assert.Equal(t, [4]int8{0, 64, 0, 0}, resampleTaps4[0])
	for phase, row := range resampleTaps4 {
		sum := 0
		for _, v := range row {
			sum += int(v)
		}
		require.Equal(t, 64, sum, "phase %d", phase)
	}

	half := resampleTaps4[128]
	assert.Equal(t, half[0], half[3])
	assert.Equal(t, half[1], half[2])
	assert.Equal(t, int8(-4), half[0])
}

func TestResample_Identity(t *testing.T) {
	src := newPlanar(t, format.U8_420, 10, 6, pattern)

	for _, taps := range []int{1, 2, 4} {
		h, err := NewHorizResample(src, 10, taps)
		require.NoError(t, err)
		requireSameRows(t, src, materialize(t, h))

		v, err := NewVertResample(src, 6, taps)
		require.NoError(t, err)
		requireSameRows(t, src, materialize(t, v))
	}
}

func TestVertResample_Linear(t *testing.T) {
	src := newPlanar(t, format.Gray8, 2, 2, func(c, x, y int) byte { return byte(100 * y) })

	vf, err := NewVertResample(src, 4, 2)
	require.NoError(t, err)

	want := []byte{0, 50, 100, 100}
	for i, v := range want {
		assert.Equal(t, []byte{v, v}, vf.Line(0, i), "line %d", i)
	}
}

func TestHorizResample_Nearest(t *testing.T) {
	src := newPlanar(t, format.Gray8, 8, 1, ramp)

	vf, err := NewHorizResample(src, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 8, 16, 24}, vf.Line(0, 0))
}

func TestHorizResample_Linear(t *testing.T) {
	src := newPlanar(t, format.Gray8, 2, 1, func(c, x, y int) byte { return byte(200 * x) })

	vf, err := NewHorizResample(src, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 100, 200, 200}, vf.Line(0, 0))
}

func TestResample_CubicKeepsFlatAndScalesChroma(t *testing.T) {
	src := newPlanar(t, format.U8_422, 12, 10, flat(200))

	h, err := NewHorizResample(src, 7, 4)
	require.NoError(t, err)
	v, err := NewVertResample(h, 25, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Components[1].Width)
	assert.Equal(t, 25, v.Components[1].Height)

	out := materialize(t, v)
	for k := range out.Components {
		for i := 0; i < out.Components[k].Height; i++ {
			for _, s := range out.Line(k, i) {
				require.Equal(t, byte(200), s)
			}
		}
	}
	assert.Zero(t, h.Stats(0).Failures)
}

func TestResample_Errors(t *testing.T) {
	src := newPlanar(t, format.Gray8, 8, 8, flat(0))

	_, err := NewHorizResample(src, 4, 3)
	assert.ErrorIs(t, err, frame.ErrNoKernel)
	_, err = NewVertResample(src, 4, 8)
	assert.ErrorIs(t, err, frame.ErrNoKernel)
	_, err = NewHorizResample(src, 0, 4)
	assert.ErrorIs(t, err, frame.ErrInvalidConfig)
	_, err = NewVertResample(src, -2, 1)
	assert.ErrorIs(t, err, frame.ErrInvalidConfig)

	s16, err := frame.New(format.S16_444, 4, 4)
	require.NoError(t, err)
	_, err = NewVertResample(s16, 2, 2)
	assert.ErrorIs(t, err, frame.ErrInvalidConfig)
}
