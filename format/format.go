// Package format describes the pixel formats understood by the frame
// pipeline.
//
// A Format is a small enumerated tag. Planar tags encode their layout in
// the low bits (horizontal and vertical chroma shift, depth class and a
// single-component flag), packed tags start at 0x100. Everything else about
// a format is looked up from an immutable catalog:
//
//	info, ok := format.Lookup(format.U8_420)
//	if !ok {
//	    return fmt.Errorf("unknown format %v", f)
//	}
//	chromaWidth := (width + 1<<info.HShift - 1) >> info.HShift
package format

import (
	"fmt"
	"sort"
	"strings"
)

// Format identifies a pixel layout.
type Format uint16

// Depth is the storage class of a single sample.
type Depth uint8

const (
	// DepthU8 stores one unsigned byte per sample.
	DepthU8 Depth = iota
	// DepthS16 stores one little-endian signed 16-bit word per sample.
	DepthS16
	// DepthS32 stores one little-endian signed 32-bit word per sample.
	DepthS32
)

// Family tells whether the components carry luma/chroma or red/green/blue.
type Family uint8

const (
	// FamilyYUV frames carry luma then Cb and Cr.
	FamilyYUV Family = iota
	// FamilyRGB frames carry red, green and blue.
	FamilyRGB
)

const (
	hShiftBit  = 0x01
	vShiftBit  = 0x02
	depthMask  = 0x0c
	depthShift = 2
	grayBit    = 0x10
	packedBase = 0x100
)

// Planar formats.
const (
	U8_444  Format = 0x00
	U8_422  Format = 0x01
	U8_420  Format = 0x03
	S16_444 Format = 0x04
	S16_422 Format = 0x05
	S16_420 Format = 0x07
	S32_444 Format = 0x08
	S32_422 Format = 0x09
	S32_420 Format = 0x0b
	Gray8   Format = 0x10
	GrayS16 Format = 0x14
	GrayS32 Format = 0x18
)

// Packed formats.
const (
	YUYV Format = 0x100
	UYVY Format = 0x101
	AYUV Format = 0x102
	RGB  Format = 0x104
	V216 Format = 0x105
	V210 Format = 0x106
	RGBx Format = 0x110
	XRGB Format = 0x111
	BGRx Format = 0x112
	XBGR Format = 0x113
	RGBA Format = 0x114
	ARGB Format = 0x115
	BGRA Format = 0x116
	ABGR Format = 0x117
)

// Info is the immutable description of a format.
type Info struct {
	Name       string
	Components int
	Packed     bool
	Depth      Depth
	HShift     uint
	VShift     uint
	Family     Family

	// BytesPerPixel is set for packed formats that store a whole number of
	// bytes per pixel. v210 stores six pixels per 16 bytes and leaves it 0.
	BytesPerPixel int

	// Planar is the planar format a packed format unpacks into, or the
	// format itself for planar formats.
	Planar Format
}

var catalog = map[Format]Info{}

func planar(f Format, name string) Info {
	components := 3
	if f&grayBit != 0 {
		components = 1
	}
	return Info{
		Name:       name,
		Components: components,
		Depth:      Depth((f & depthMask) >> depthShift),
		HShift:     uint(f & hShiftBit),
		VShift:     uint(f&vShiftBit) >> 1,
		Family:     FamilyYUV,
		Planar:     f,
	}
}

func packed(name string, family Family, bpp int, hShift uint, unpacked Format) Info {
	return Info{
		Name:          name,
		Components:    1,
		Packed:        true,
		Depth:         DepthU8,
		HShift:        hShift,
		Family:        family,
		BytesPerPixel: bpp,
		Planar:        unpacked,
	}
}

func init() {
	for f, name := range map[Format]string{
		U8_444: "U8_444", U8_422: "U8_422", U8_420: "U8_420",
		S16_444: "S16_444", S16_422: "S16_422", S16_420: "S16_420",
		S32_444: "S32_444", S32_422: "S32_422", S32_420: "S32_420",
		Gray8: "GRAY8", GrayS16: "GRAY_S16", GrayS32: "GRAY_S32",
	} {
		catalog[f] = planar(f, name)
	}

	catalog[YUYV] = packed("YUYV", FamilyYUV, 2, 1, U8_422)
	catalog[UYVY] = packed("UYVY", FamilyYUV, 2, 1, U8_422)
	catalog[AYUV] = packed("AYUV", FamilyYUV, 4, 0, U8_444)
	catalog[RGB] = packed("RGB", FamilyRGB, 3, 0, U8_444)
	catalog[V216] = packed("v216", FamilyYUV, 4, 1, U8_422)
	catalog[V210] = packed("v210", FamilyYUV, 0, 1, U8_422)
	catalog[RGBx] = packed("RGBx", FamilyRGB, 4, 0, U8_444)
	catalog[XRGB] = packed("xRGB", FamilyRGB, 4, 0, U8_444)
	catalog[BGRx] = packed("BGRx", FamilyRGB, 4, 0, U8_444)
	catalog[XBGR] = packed("xBGR", FamilyRGB, 4, 0, U8_444)
	catalog[RGBA] = packed("RGBA", FamilyRGB, 4, 0, U8_444)
	catalog[ARGB] = packed("ARGB", FamilyRGB, 4, 0, U8_444)
	catalog[BGRA] = packed("BGRA", FamilyRGB, 4, 0, U8_444)
	catalog[ABGR] = packed("ABGR", FamilyRGB, 4, 0, U8_444)
}

// Lookup returns the catalog entry for f.
func Lookup(f Format) (Info, bool) {
	info, ok := catalog[f]
	return info, ok
}

// Parse resolves a format by its catalog name, ignoring case.
func Parse(name string) (Format, error) {
	for f, info := range catalog {
		if strings.EqualFold(info.Name, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown pixel format %q", name)
}

// All returns every known format in tag order.
func All() []Format {
	formats := make([]Format, 0, len(catalog))
	for f := range catalog {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// String returns the catalog name, or the raw tag for unknown formats.
func (f Format) String() string {
	if info, ok := catalog[f]; ok {
		return info.Name
	}
	return fmt.Sprintf("Format(0x%x)", uint16(f))
}

// IsPacked reports whether f interleaves its components in one plane.
func (f Format) IsPacked() bool {
	return f >= packedBase
}

// WithDepth returns the planar format with f's layout and depth d.
func (f Format) WithDepth(d Depth) (Format, bool) {
	if f.IsPacked() {
		return 0, false
	}
	out := (f &^ depthMask) | Format(d)<<depthShift
	_, ok := catalog[out]
	return out, ok
}

// BytesPerSample returns the storage size of one sample of depth d.
func (d Depth) BytesPerSample() int {
	switch d {
	case DepthU8:
		return 1
	case DepthS16:
		return 2
	case DepthS32:
		return 4
	default:
		return 0
	}
}

func (d Depth) String() string {
	switch d {
	case DepthU8:
		return "u8"
	case DepthS16:
		return "s16"
	case DepthS32:
		return "s32"
	default:
		return fmt.Sprintf("Depth(%d)", uint8(d))
	}
}

func (f Family) String() string {
	if f == FamilyRGB {
		return "rgb"
	}
	return "yuv"
}
