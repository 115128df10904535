package frame

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Render materializes src into the real frame dst.
//
// src may be real or the head of a virtual chain. Both frames must share a
// format and width, and src must be at least as tall as dst. Rows are
// requested in increasing order per component, which keeps every cache in
// the chain on its forward-slide path.
//
// Parameters:
//   - src: Real frame or head of a virtual chain to read rows from
//   - dst: Real frame that receives the rows
//
// Returns:
//   - error: ErrInvalidConfig when the frames are nil, dst is virtual, or
//     the formats, widths or heights are incompatible
func Render(src, dst *Frame) error {
	if err := checkRender(src, dst); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Render",
			"error":    err.Error(),
		}).Error("Render contract violated")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "Render",
		"src":      src.String(),
		"dst":      dst.String(),
	}).Debug("Materializing frame")

	for k := range dst.Components {
		dc := &dst.Components[k]
		for i := 0; i < dc.Height; i++ {
			off := dc.Stride * i
			copy(dc.Data[off:off+dc.RowBytes], src.Line(k, i))
		}
	}
	return nil
}

func checkRender(src, dst *Frame) error {
	if src == nil || dst == nil {
		return fmt.Errorf("render needs source and destination frames: %w", ErrInvalidConfig)
	}
	if dst.IsVirtual() {
		return fmt.Errorf("render destination %v is virtual: %w", dst, ErrInvalidConfig)
	}
	if src.Format != dst.Format {
		return fmt.Errorf("render format mismatch: %v into %v: %w", src.Format, dst.Format, ErrInvalidConfig)
	}
	if src.Width != dst.Width {
		return fmt.Errorf("render width mismatch: %d into %d: %w", src.Width, dst.Width, ErrInvalidConfig)
	}
	if src.Height < dst.Height {
		return fmt.Errorf("render source height %d below destination %d: %w", src.Height, dst.Height, ErrInvalidConfig)
	}
	return nil
}
