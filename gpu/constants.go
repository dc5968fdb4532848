// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpu

import (
	"structs"
	"unsafe"

	"honnef.co/go/safeish"
	"honnef.co/go/tilemap/style"
	"honnef.co/go/tilemap/tmath"
)

// PushConstantLimit is the guaranteed push constant budget we design the
// draw-constant layouts against. All three layouts fit within it.
const PushConstantLimit = 128

// TileConstants is the per-draw constant block of the matrix tile
// pipeline. The layout is byte-exact with the WGSL struct of the same
// name; every field offset is part of the contract.
//
// Geometry arrives in tile-local coordinates and is first rescaled into
// the unit square (pos*RescaleScale + RescaleOffset), then offset by the
// per-kind translate, then mapped to clip space by Matrix and
// Translation. LineWidth, the translates and the dash entries are all in
// unit-square units; the packers convert from pixels.
type TileConstants struct {
	_ structs.HostLayout

	Matrix        [4]float32        // mat2x2, two vec2 columns
	Translation   tmath.V2[float32] // offset 16
	RescaleOffset tmath.V2[float32] // offset 24
	FillTranslate tmath.V2[float32] // offset 32
	LineTranslate tmath.V2[float32] // offset 40
	RescaleScale  float32           // offset 48
	LineWidth     float32           // offset 52
	DashTotal     float32           // offset 56
	DashLen       uint32            // offset 60
	FillColor     tmath.V4[float32] // offset 64, premultiplied
	LineColor     tmath.V4[float32] // offset 80, premultiplied
	Dash0         tmath.V4[float32] // offset 96, dash entries 0..3
	Dash1         tmath.V4[float32] // offset 112, dash entries 4..7
}

// ScreenConstants is the per-draw constant block of the screen-space
// pipeline, which positions the unit square directly in window pixels.
type ScreenConstants struct {
	_ structs.HostLayout

	Scale         float32
	LineWidth     float32
	Offset        tmath.V2[float32] // window-space origin of the tile rect, px
	TileDims      tmath.V2[float32] // tile rect dimensions, px
	WindowDims    tmath.V2[float32]
	FillTranslate tmath.V2[float32]
	LineTranslate tmath.V2[float32]
	FillColor     tmath.V4[float32] // premultiplied
	LineColor     tmath.V4[float32] // premultiplied
}

// TextConstants is the per-draw constant block of the text pipeline.
// Glyph vertices are in pixels around their label anchor; the anchor is
// Offset + LabelOffset*TileDims.
type TextConstants struct {
	_ structs.HostLayout

	Scale      float32
	HaloWidth  float32
	Offset     tmath.V2[float32]
	TileDims   tmath.V2[float32]
	WindowDims tmath.V2[float32]
	TextColor  tmath.V4[float32] // premultiplied
	HaloColor  tmath.V4[float32] // premultiplied
}

var (
	_ [PushConstantLimit - unsafe.Sizeof(TileConstants{})]byte
	_ [PushConstantLimit - unsafe.Sizeof(ScreenConstants{})]byte
	_ [PushConstantLimit - unsafe.Sizeof(TextConstants{})]byte
)

func (c *TileConstants) Bytes() []byte   { return safeish.AsBytes(c) }
func (c *ScreenConstants) Bytes() []byte { return safeish.AsBytes(c) }
func (c *TextConstants) Bytes() []byte   { return safeish.AsBytes(c) }

// PackTile fills the matrix-pipeline constants for one feature draw. The
// extent is the tile-local coordinate range of the draw's geometry (the
// decoded layer extent, or 1 for geometry already in the unit square).
// Pixel-valued paint properties are converted to unit-square units using
// the on-screen tile rect.
func PackTile(paint *style.Paint, kind style.LayerKind, extent float32, rect tmath.Rect[int32], window tmath.V2[uint32]) TileConstants {
	t := TileTransform(rect, window)
	pxToUnit := 1 / float32(rect.Width())

	c := TileConstants{
		Matrix:        t.Matrix,
		Translation:   tmath.Vec2(t.Translation[0], t.Translation[1]),
		RescaleScale:  1 / extent,
		FillTranslate: paint.FillTranslate.Scale(pxToUnit),
		LineTranslate: paint.LineTranslate.Scale(pxToUnit),
		FillColor:     paint.FillColor.Premul(),
	}

	switch kind {
	case style.Fill:
		// Fill outlines stroke at a hairline width.
		c.LineWidth = pxToUnit
		if paint.FillOutlineColor != nil {
			c.LineColor = paint.FillOutlineColor.Premul()
		} else {
			c.LineColor = c.FillColor
		}
	case style.Line:
		c.LineWidth = paint.LineWidth * pxToUnit
		c.LineColor = paint.LineColor.Premul()
		if n := paint.LineDash.Len(); n > 0 {
			// Dash entries are measured in line widths; advancement is
			// interpolated in unit-square units.
			w := paint.LineWidth * pxToUnit
			seg := paint.LineDash.Segments()
			dash := [style.MaxDashEntries]float32{}
			for i := 0; i < n; i++ {
				dash[i] = seg[i] * w
			}
			c.DashLen = uint32(n)
			c.DashTotal = paint.LineDash.Total() * w
			c.Dash0 = tmath.V4[float32]{X: dash[0], Y: dash[1], Z: dash[2], W: dash[3]}
			c.Dash1 = tmath.V4[float32]{X: dash[4], Y: dash[5], Z: dash[6], W: dash[7]}
		}
	}
	return c
}

// PackScreen fills the screen-space pipeline constants, used for
// background layers whose geometry is authored in the unit square.
func PackScreen(paint *style.Paint, rect tmath.Rect[int32], window tmath.V2[uint32], scale float32) ScreenConstants {
	return ScreenConstants{
		Scale:         scale,
		LineWidth:     paint.LineWidth,
		Offset:        tmath.Convert[float32](rect.Min),
		TileDims:      tmath.Convert[float32](rect.Dimensions()),
		WindowDims:    tmath.Vec2(float32(window.X), float32(window.Y)),
		FillTranslate: paint.FillTranslate,
		LineTranslate: paint.LineTranslate,
		FillColor:     paint.FillColor.Premul(),
		LineColor:     paint.LineColor.Premul(),
	}
}

// PackText fills the text pipeline constants for one symbol layer draw.
func PackText(paint *style.Paint, rect tmath.Rect[int32], window tmath.V2[uint32], scale float32) TextConstants {
	return TextConstants{
		Scale:      scale,
		HaloWidth:  paint.TextHaloWidth * scale,
		Offset:     tmath.Convert[float32](rect.Min),
		TileDims:   tmath.Convert[float32](rect.Dimensions()),
		WindowDims: tmath.Vec2(float32(window.X), float32(window.Y)),
		TextColor:  paint.TextColor.Premul(),
		HaloColor:  paint.TextHaloColor.Premul(),
	}
}
