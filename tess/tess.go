// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package tess converts tile features into GPU-ready triangle lists.
// Polylines become strips carrying per-vertex miter normals and a
// cumulative arc length, polygons become ear-clipped fill meshes, and
// labels become glyph quads with atlas UVs.
package tess

import (
	"errors"
	"structs"

	"honnef.co/go/tilemap/tmath"
)

// Fill kinds stored in GeoVertex.Fill. The shading stage switches on
// these; anything else renders as the magenta debug sentinel.
const (
	FillLine       uint32 = 0
	FillPolygon    uint32 = 1
	FillBackground uint32 = 2
)

// ErrDegenerate reports geometry with too few distinct points to
// tessellate: fewer than 2 for a line, fewer than 3 for a polygon ring.
var ErrDegenerate = errors.New("degenerate geometry")

// ErrComplexPolygon reports a ring set that defeated triangulation,
// usually due to self-intersection.
var ErrComplexPolygon = errors.New("polygon defeats triangulation")

// GeoVertex is the vertex layout of the tile geometry pipelines. The
// field order is part of the shading-stage contract.
type GeoVertex struct {
	_ structs.HostLayout

	Position tmath.V2[float32]
	Normal   tmath.V2[float32]
	// Advancement is the cumulative arc length from the start of the
	// polyline, zero for fills.
	Advancement float32
	Fill        uint32
}

// TextVertex is the vertex layout of the text pipeline. Halo selects one
// of four diagonal offset directions; zero marks the glyph fill itself.
type TextVertex struct {
	_ structs.HostLayout

	Position    tmath.V2[float32]
	UV          tmath.V2[float32]
	LabelOffset tmath.V2[float32]
	Halo        uint32
}

// Mesh accumulates one tile's tessellated geometry. Index ranges are
// recorded by the caller between operations to delimit draws.
type Mesh struct {
	Vertices []GeoVertex
	Indices  []uint32
}

func (m *Mesh) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
}

// Background emits a quad slightly larger than the unit square, covering
// the whole tile regardless of antialiasing at the edges.
func (m *Mesh) Background() {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		GeoVertex{Position: tmath.Vec2[float32](-0.1, -0.1), Fill: FillBackground},
		GeoVertex{Position: tmath.Vec2[float32](1.1, -0.1), Fill: FillBackground},
		GeoVertex{Position: tmath.Vec2[float32](1.1, 1.1), Fill: FillBackground},
		GeoVertex{Position: tmath.Vec2[float32](-0.1, 1.1), Fill: FillBackground},
	)
	m.Indices = append(m.Indices,
		base, base+3, base+1,
		base+1, base+3, base+2,
	)
}
