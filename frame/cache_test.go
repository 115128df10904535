package frame

import (
	"testing"

	"github.com/opd-ai/virtframe/format"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// patternRow is the reference content of a generated row.
func patternRow(component, line, width int) []byte {
	row := make([]byte, width)
	for x := range row {
		row[x] = byte(line*7 + x + component*31)
	}
	return row
}

// newCountingFrame returns a virtual frame of generated rows and the
// per-component render counters of its node.
func newCountingFrame(t *testing.T, f format.Format, w, h int) (*Frame, map[int]int) {
	t.Helper()
	calls := map[int]int{}
	vf, err := NewVirtual(f, w, h, NodeFunc(func(vf *Frame, dst []byte, component, line int) {
		calls[component]++
		copy(dst, patternRow(component, line, vf.Components[component].Width))
	}))
	require.NoError(t, err)
	return vf, calls
}

func TestLine_CacheTransparency(t *testing.T) {
	vf, _ := newCountingFrame(t, format.U8_420, 16, 32)

	sequence := []int{0, 0, 1, 3, 3, 4, 9, 10, 10, 15, 20, 31}
	for _, i := range sequence {
		assert.Equal(t, patternRow(0, i, 16), vf.Line(0, i), "line %d", i)
		if i < 16 {
			assert.Equal(t, patternRow(1, i, 8), vf.Line(1, i), "chroma line %d", i)
		}
	}
}

func TestLine_AtMostOncePerResidentLine(t *testing.T) {
	vf, calls := newCountingFrame(t, format.Gray8, 8, 8)

	first := append([]byte(nil), vf.Line(0, 3)...)
	second := vf.Line(0, 3)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls[0])
	stats := vf.Stats(0)
	assert.Equal(t, uint64(1), stats.Renders)
	assert.Equal(t, uint64(1), stats.Hits)
}

func TestLine_ForwardEviction(t *testing.T) {
	vf, calls := newCountingFrame(t, format.Gray8, 4, 16)
	require.NoError(t, vf.SetWindow(4))

	for i := 0; i < 4; i++ {
		vf.Line(0, i)
	}
	assert.Equal(t, 4, calls[0])
	assert.Zero(t, vf.Stats(0).Evictions)

	// Row 4 shares row 0's slot and pushes it out.
	vf.Line(0, 4)
	assert.Equal(t, 5, calls[0])
	assert.Equal(t, uint64(1), vf.Stats(0).Evictions)

	for i := 1; i <= 4; i++ {
		vf.Line(0, i)
	}
	assert.Equal(t, 5, calls[0], "rows 1..4 stay resident")

	// A jump slides one row at a time and drops every row it passes.
	vf.Line(0, 10)
	assert.Equal(t, 6, calls[0])
	assert.Equal(t, uint64(5), vf.Stats(0).Evictions)
	assert.Zero(t, vf.Stats(0).Resets)
}

func TestLine_RestartAtZeroIsSilent(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	vf, calls := newCountingFrame(t, format.Gray8, 4, 16)
	require.NoError(t, vf.SetWindow(4))

	for i := 0; i < 8; i++ {
		vf.Line(0, i)
	}
	hook.Reset()

	assert.Equal(t, patternRow(0, 0, 4), vf.Line(0, 0))
	assert.Equal(t, 9, calls[0])
	assert.Equal(t, uint64(1), vf.Stats(0).Resets)
	assert.Zero(t, vf.Stats(0).Failures)
	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, entry.Level)
	}
}

func TestLine_BackwardSeekReportsFailure(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	vf, calls := newCountingFrame(t, format.Gray8, 4, 16)
	require.NoError(t, vf.SetWindow(4))

	for i := 0; i <= 5; i++ {
		vf.Line(0, i)
	}
	hook.Reset()

	assert.Equal(t, patternRow(0, 1, 4), vf.Line(0, 1))
	assert.Equal(t, 7, calls[0])

	stats := vf.Stats(0)
	assert.Equal(t, uint64(1), stats.Failures)
	assert.Equal(t, uint64(1), stats.Resets)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "cache failure: line outside window", entry.Message)
	assert.Equal(t, 1, entry.Data["line"])
	assert.Equal(t, 2, entry.Data["window_start"])
	assert.Equal(t, 5, entry.Data["window_end"])

	// The window restarted at row 1, so row 2 is a fresh render and row 1 a hit.
	vf.Line(0, 2)
	vf.Line(0, 1)
	assert.Equal(t, 8, calls[0])
}

func TestLine_ComponentsHaveIndependentWindows(t *testing.T) {
	vf, calls := newCountingFrame(t, format.U8_444, 4, 16)

	vf.Line(0, 12)
	vf.Line(1, 0)
	vf.Line(0, 12)
	vf.Line(1, 0)

	assert.Equal(t, 1, calls[0])
	assert.Equal(t, 1, calls[1])
	assert.Zero(t, vf.Stats(1).Failures)
}

func TestSetWindow(t *testing.T) {
	vf, calls := newCountingFrame(t, format.Gray8, 4, 4)
	vf.Line(0, 0)

	assert.ErrorIs(t, vf.SetWindow(3), ErrInvalidConfig)
	assert.ErrorIs(t, vf.SetWindow(0), ErrInvalidConfig)
	require.NoError(t, vf.SetWindow(2))
	assert.Equal(t, 2, vf.Window())

	// Resident rows are dropped with the old window.
	vf.Line(0, 0)
	assert.Equal(t, 2, calls[0])

	rf, err := New(format.Gray8, 4, 4)
	require.NoError(t, err)
	assert.ErrorIs(t, rf.SetWindow(4), ErrNotVirtual)
	assert.Zero(t, rf.Window())
}

func TestReserve(t *testing.T) {
	vf, _ := newCountingFrame(t, format.U8_420, 8, 8)

	vf.Reserve(4)
	assert.Equal(t, DefaultWindow, vf.Window())

	vf.Reserve(10)
	assert.Equal(t, 16, vf.Window())

	rf, err := New(format.U8_420, 8, 8)
	require.NoError(t, err)
	rf.Reserve(32)
	assert.Zero(t, rf.Window())
}

func TestStats_RealFrameAndReset(t *testing.T) {
	rf, err := New(format.Gray8, 4, 4)
	require.NoError(t, err)
	rf.Line(0, 1)
	assert.Equal(t, CacheStats{}, rf.Stats(0))

	vf, _ := newCountingFrame(t, format.Gray8, 4, 4)
	vf.Line(0, 1)
	vf.Line(0, 1)
	vf.ResetStats()
	assert.Equal(t, CacheStats{}, vf.Stats(0))
	assert.Equal(t, CacheStats{}, vf.Stats(5))
}
