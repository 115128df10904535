// Package kernel implements the row-processing stages of the pixel pipeline.
//
// Every constructor takes an upstream frame and returns a new virtual frame
// whose node computes one row of one component per call, pulling the rows it
// needs from upstream through frame.Line. Nothing is computed until a row of
// the final frame is requested.
//
// # Stages
//
//   - NewHorizDownsample, NewVertDownsample: halve a dimension with a fixed
//     FIR filter (2 to 10 taps).
//   - NewHorizResample, NewVertResample: scale to an arbitrary size with
//     nearest, linear or 4-tap cubic interpolation.
//   - NewUnpack, NewPack: convert between packed layouts (YUYV, UYVY, v210,
//     v216, AYUV and the 8-bit RGB family) and their planar equivalents.
//   - NewColorMatrixRGBToYCbCr, NewColorMatrixYCbCrToRGB,
//     NewColorMatrixYCbCrToYCbCr: BT.601 and BT.709 matrix conversions on
//     U8_444 frames.
//   - NewSubsample: convert chroma between 4:4:4, 4:2:2 and 4:2:0.
//   - NewCrop, NewEdgeExtend: shrink or grow the frame without scaling.
//   - NewConvertU8, NewConvertS16: change the sample depth.
//
// # Arithmetic
//
// All filters work on 8-bit samples with integer coefficients and round by
// adding half of the divisor before shifting. Results are saturated to
// [0, 255] and sample indices outside the source are clamped to its edges,
// so border pixels repeat the nearest valid sample.
//
// # Errors
//
// Constructors fail with frame.ErrNoKernel when no kernel exists for the
// requested formats or tap count, and with frame.ErrInvalidConfig when the
// source frame or target size is unusable. Stages that would not change the
// frame (same size, same format, same matrix) return the source itself.
package kernel
