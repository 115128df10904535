// Package frame provides the frame model and the scanline cache engine of
// the pixel pipeline.
//
// # Real and Virtual Frames
//
// A real frame owns (or wraps) storage for every component:
//
//	dst, err := frame.New(format.U8_420, 640, 480)
//	if err != nil {
//	    return fmt.Errorf("allocating destination: %w", err)
//	}
//
// A virtual frame has no storage. Its rows are produced on demand by a
// Node, which usually pulls rows from an upstream frame. Chains are built
// bottom-up with the constructors of the kernel package, so a node can only
// reference frames that already exist:
//
//	v, _ := kernel.NewUnpack(src)
//	v, _ = kernel.NewHorizResample(v, 320, 4)
//	v, _ = kernel.NewVertResample(v, 240, 4)
//
// # Scanline Cache
//
// Each component of a virtual frame keeps the last Window() rows it
// computed. Line serves a resident row without recomputing it, slides the
// window forward one row at a time when a later row is requested, and
// restarts the window when an earlier row is requested. A restart at a row
// other than 0 means the caller broke the forward access pattern; it is
// logged as a cache failure and counted in CacheStats, but the returned
// pixels are still correct.
//
// # Materialization
//
// Render walks every component of a real destination in row order and
// copies rows from the source, forcing the whole chain to compute:
//
//	if err := frame.Render(v, dst); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// Frames are NOT thread-safe. The caches are mutated by Line, including on
// upstream frames, so a chain and every frame it references must be used
// from a single goroutine.
package frame
