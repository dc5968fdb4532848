// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package tess

import (
	"golang.org/x/image/font"

	"honnef.co/go/tilemap/text"
	"honnef.co/go/tilemap/tmath"
)

// Range is a half-open index range into a mesh's index buffer.
type Range struct {
	Start, End uint32
}

func (r Range) Len() uint32 { return r.End - r.Start }

// TextMesh accumulates label quads for one tile.
type TextMesh struct {
	Vertices []TextVertex
	Indices  []uint32
}

func (m *TextMesh) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
}

// LabelGeometry names the index ranges of one placed label. The halo
// quads precede the glyph quads, so a halo'd label draws
// [HaloElements.Start, Elements.End) and an unhalo'd one just Elements;
// the halo always composites under its own glyph fill.
type LabelGeometry struct {
	Elements     Range
	HaloElements Range

	// Bounds is the label's extent in pixels around its anchor, for
	// collision tests.
	Bounds tmath.Rect[float32]

	// Point is the anchor in the unit tile square.
	Point tmath.V2[float32]
}

// Label emits quads for a laid-out label anchored at point (unit tile
// coordinates): per glyph, four halo duplicates tagged with the diagonal
// offset directions 1..4, then the glyph fill tagged 0. Glyphs the face
// cannot rasterize are skipped.
func (m *TextMesh) Label(label *text.Label, point tmath.V2[float32], atlas *text.Atlas, face font.Face) LabelGeometry {
	// Center the block on its anchor.
	c := label.Bounds.Min.Add(label.Bounds.Max).Scale(0.5)

	haloStart := uint32(len(m.Indices))
	for halo := uint32(1); halo <= 4; halo++ {
		label.Glyphs(func(g text.Glyph) bool {
			m.glyphQuad(g, c, point, atlas, face, halo)
			return true
		})
	}
	elemStart := uint32(len(m.Indices))
	label.Glyphs(func(g text.Glyph) bool {
		m.glyphQuad(g, c, point, atlas, face, 0)
		return true
	})

	return LabelGeometry{
		Elements:     Range{Start: elemStart, End: uint32(len(m.Indices))},
		HaloElements: Range{Start: haloStart, End: elemStart},
		Bounds: tmath.NewRect(
			label.Bounds.Min.Sub(c),
			label.Bounds.Max.Sub(c),
		),
		Point: point,
	}
}

func (m *TextMesh) glyphQuad(g text.Glyph, center, point tmath.V2[float32], atlas *text.Atlas, face font.Face, halo uint32) {
	entry, ok := atlas.Ensure(face, g.Key)
	if !ok {
		return
	}
	uv := entry.UV()

	min := g.Bounds.Min.Sub(center)
	max := g.Bounds.Max.Sub(center)

	idx := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		TextVertex{Position: min, UV: uv.Min, LabelOffset: point, Halo: halo},
		TextVertex{Position: tmath.Vec2(max.X, min.Y), UV: tmath.Vec2(uv.Max.X, uv.Min.Y), LabelOffset: point, Halo: halo},
		TextVertex{Position: tmath.Vec2(min.X, max.Y), UV: tmath.Vec2(uv.Min.X, uv.Max.Y), LabelOffset: point, Halo: halo},
		TextVertex{Position: max, UV: uv.Max, LabelOffset: point, Halo: halo},
	)
	m.Indices = append(m.Indices,
		idx+2, idx+1, idx,
		idx+1, idx+2, idx+3,
	)
}
