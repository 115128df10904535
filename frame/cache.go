package frame

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// DefaultWindow is the number of rows each virtual component keeps resident.
const DefaultWindow = 8

// CacheStats counts scanline cache events of one component.
type CacheStats struct {
	Hits      uint64 // rows served from the window
	Renders   uint64 // rows computed by the node
	Evictions uint64 // valid rows dropped by the forward slide
	Resets    uint64 // window restarts caused by a backward seek
	Failures  uint64 // backward seeks to a non-zero row
}

// lineCache is the sliding window of the most recently rendered rows.
// Resident rows always lie in [offset, offset+window).
type lineCache struct {
	window int
	offset int
	valid  []bool
	lines  [][]byte
	stats  CacheStats
}

func newLineCache(window, stride int) *lineCache {
	c := &lineCache{
		window: window,
		valid:  make([]bool, window),
		lines:  make([][]byte, window),
	}
	for j := range c.lines {
		c.lines[j] = make([]byte, stride)
	}
	return c
}

func (c *lineCache) reset(offset int) {
	c.offset = offset
	for j := range c.valid {
		c.valid[j] = false
	}
}

func (f *Frame) allocCaches(window int) {
	f.caches = make([]*lineCache, len(f.Components))
	for k := range f.Components {
		f.caches[k] = newLineCache(window, f.Components[k].Stride)
	}
}

// Line returns row i of a component. Real frames return a view of their
// storage. Virtual frames serve the row from the cache, rendering it first
// if it is not resident.
//
// The returned slice of a virtual frame is only valid until the window
// slides past row i; callers must not keep it across more than Window()
// further requests on the same component.
func (f *Frame) Line(component, i int) []byte {
	if component < 0 || component >= len(f.Components) {
		panic(fmt.Sprintf("frame: component %d out of range [0,%d)", component, len(f.Components)))
	}
	comp := &f.Components[component]
	if i < 0 || i >= comp.Height {
		panic(fmt.Sprintf("frame: line %d out of range [0,%d) in component %d", i, comp.Height, component))
	}

	if f.node == nil {
		off := comp.Stride * i
		return comp.Data[off : off+comp.RowBytes]
	}

	c := f.caches[component]
	if i < c.offset {
		// Row 0 is the normal restart of a new pass over the frame.
		if i != 0 {
			c.stats.Failures++
			logrus.WithFields(logrus.Fields{
				"function":     "Frame.Line",
				"frame_id":     f.ID.String(),
				"node":         f.node.GetName(),
				"component":    component,
				"line":         i,
				"window_start": c.offset,
				"window_end":   c.offset + c.window - 1,
			}).Warn("cache failure: line outside window")
		}
		c.reset(i)
		c.stats.Resets++
	}

	for i >= c.offset+c.window {
		j := c.offset & (c.window - 1)
		if c.valid[j] {
			c.valid[j] = false
			c.stats.Evictions++
		}
		c.offset++
	}

	j := i & (c.window - 1)
	if !c.valid[j] {
		f.node.RenderLine(f, c.lines[j], component, i)
		c.valid[j] = true
		c.stats.Renders++
	} else {
		c.stats.Hits++
	}

	return c.lines[j][:comp.RowBytes]
}

// Window returns the number of rows each component of a virtual frame keeps
// resident, or 0 for a real frame.
func (f *Frame) Window() int {
	if f.node == nil {
		return 0
	}
	return f.caches[0].window
}

// SetWindow replaces the caches of a virtual frame with n-row windows.
// n must be a power of two. Resident rows and statistics are dropped.
func (f *Frame) SetWindow(n int) error {
	if f.node == nil {
		return fmt.Errorf("set window on %v: %w", f, ErrNotVirtual)
	}
	if n < 1 || n&(n-1) != 0 {
		return fmt.Errorf("window %d is not a power of two: %w", n, ErrInvalidConfig)
	}
	f.allocCaches(n)
	return nil
}

// Reserve grows the window of a virtual frame so that at least n rows of
// each component stay resident together. Kernels that hold several
// upstream rows at once reserve them at construction. Real frames ignore it.
func (f *Frame) Reserve(n int) {
	if f.node == nil || n <= f.caches[0].window {
		return
	}
	window := 1
	for window < n {
		window <<= 1
	}

	logrus.WithFields(logrus.Fields{
		"function": "Frame.Reserve",
		"frame_id": f.ID.String(),
		"old":      f.caches[0].window,
		"new":      window,
	}).Debug("Growing scanline window")

	f.allocCaches(window)
}

// Stats returns the cache counters of one component. Real frames report
// zero values.
func (f *Frame) Stats(component int) CacheStats {
	if f.node == nil || component < 0 || component >= len(f.caches) {
		return CacheStats{}
	}
	return f.caches[component].stats
}

// ResetStats clears the cache counters of every component.
func (f *Frame) ResetStats() {
	for _, c := range f.caches {
		c.stats = CacheStats{}
	}
}
