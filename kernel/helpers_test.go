package kernel

import (
	"testing"

	"github.com/opd-ai/virtframe/format"
	"github.com/opd-ai/virtframe/frame"
	"github.com/stretchr/testify/require"
)

// newPlanar allocates a real U8 planar frame filled by fn(component, x, y).
func newPlanar(t *testing.T, f format.Format, w, h int, fn func(c, x, y int) byte) *frame.Frame {
	t.Helper()
	pf, err := frame.New(f, w, h)
	require.NoError(t, err)
	for k := range pf.Components {
		comp := &pf.Components[k]
		for y := 0; y < comp.Height; y++ {
			row := pf.Line(k, y)
			for x := 0; x < comp.Width; x++ {
				row[x] = fn(k, x, y)
			}
		}
	}
	return pf
}

func flat(v byte) func(c, x, y int) byte {
	return func(int, int, int) byte { return v }
}

// pattern is a deterministic pseudo-random fill.
func pattern(c, x, y int) byte {
	return byte((x*37 + y*101 + c*59) ^ (x * y))
}

// materialize renders vf into a new real frame of the same shape.
func materialize(t *testing.T, vf *frame.Frame) *frame.Frame {
	t.Helper()
	dst, err := frame.New(vf.Format, vf.Width, vf.Height)
	require.NoError(t, err)
	require.NoError(t, frame.Render(vf, dst))
	return dst
}

func requireSameRows(t *testing.T, want, got *frame.Frame) {
	t.Helper()
	require.Equal(t, want.Format, got.Format)
	require.Equal(t, len(want.Components), len(got.Components))
	for k := range want.Components {
		require.Equal(t, want.Components[k].Height, got.Components[k].Height)
		for i := 0; i < want.Components[k].Height; i++ {
			require.Equal(t, want.Line(k, i), got.Line(k, i), "component %d line %d", k, i)
		}
	}
}
