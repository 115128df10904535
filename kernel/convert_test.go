package kernel

import (
	"encoding/binary"
	"testing"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertU8_Saturates(t *testing.T) {
	values := []int16{-200, -128, 0, 127, 200}
	src, err := frame.New(format.GrayS16, len(values), 1)
	require.NoError(t, err)
	row := src.Line(0, 0)
	for j, v := range values {
		binary.LittleEndian.PutUint16(row[2*j:], uint16(v))
	}

	vf, err := NewConvertU8(src)
	require.NoError(t, err)
	assert.Equal(t, format.Gray8, vf.Format)
	assert.Equal(t, []byte{0, 0, 128, 255, 255}, vf.Line(0, 0))
}

func TestConvertS16(t *testing.T) {
	src := newPlanar(t, format.Gray8, 3, 1, func(c, x, y int) byte { return []byte{0, 128, 255}[x] })

	vf, err := NewConvertS16(src)
	require.NoError(t, err)
	assert.Equal(t, format.GrayS16, vf.Format)

	row := vf.Line(0, 0)
	require.Len(t, row, 6)
	got := make([]int16, 3)
	for j := range got {
		got[j] = int16(binary.LittleEndian.Uint16(row[2*j:]))
	}
	assert.Equal(t, []int16{-128, 0, 127}, got)
}

func TestConvert_RoundTrip(t *testing.T) {
	src := newPlanar(t, format.U8_420, 6, 4, pattern)

	wide, err := NewConvertS16(src)
	require.NoError(t, err)
	assert.Equal(t, format.S16_420, wide.Format)

	narrow, err := NewConvertU8(wide)
	require.NoError(t, err)
	requireSameRows(t, src, materialize(t, narrow))
}

func TestConvert_Errors(t *testing.T) {
	u8 := newPlanar(t, format.U8_444, 2, 2, pattern)
	_, err := NewConvertU8(u8)
	assert.ErrorIs(t, err, frame.ErrInvalidConfig)

	s32, err := frame.New(format.S32_444, 2, 2)
	require.NoError(t, err)
	_, err = NewConvertS16(s32)
	assert.ErrorIs(t, err, frame.ErrInvalidConfig)
}
