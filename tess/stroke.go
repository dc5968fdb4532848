// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package tess

import (
	"math"

	"honnef.co/go/curve"
	"honnef.co/go/tilemap/tmath"
)

// The miter length grows as 1/cos(θ/2) at sharp joins; beyond this limit
// the join is flattened back to the segment normal.
const miterLimit = 4.0

// Stroke tessellates a polyline into a constant-width triangle strip.
// Each path point yields two vertices at ±normal, where the normal is
// the miter join of the adjacent segments and Advancement the arc length
// from the path start. The half-width extrusion itself happens in the
// vertex stage, scaled by the draw's line width. Zero-length segments
// are skipped. A closed polyline (first point equals last) gets wrapped
// join normals.
func (m *Mesh) Stroke(points []curve.Point) error {
	pts := dedupe(points)
	closed := false
	if len(pts) >= 3 && pts[0] == pts[len(pts)-1] {
		closed = true
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 2 {
		return ErrDegenerate
	}

	n := len(pts)
	// Segment unit normals. For open polylines there are n-1 segments;
	// closed ones wrap with a segment from the last point back to the
	// first.
	segs := n - 1
	if closed {
		segs = n
	}
	normals := make([]curve.Vec2, segs)
	lengths := make([]float64, segs)
	for i := 0; i < segs; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		d := b.Sub(a)
		l := d.Hypot()
		lengths[i] = l
		normals[i] = curve.Vec(-d.Y/l, d.X/l)
	}

	joinNormal := func(i int) curve.Vec2 {
		var prev, next curve.Vec2
		switch {
		case closed:
			prev = normals[(i-1+segs)%segs]
			next = normals[i%segs]
		case i == 0:
			return normals[0]
		case i == n-1:
			return normals[n-2]
		default:
			prev = normals[i-1]
			next = normals[i]
		}
		sum := prev.Add(next)
		l := sum.Hypot()
		if l < 1e-9 {
			// 180° turn; the miter is undefined, fall back to the
			// incoming segment normal.
			return next
		}
		bisect := sum.Div(l)
		scale := 1 / bisect.Dot(next)
		if scale > miterLimit || math.IsInf(scale, 0) {
			scale = miterLimit
		}
		return bisect.Mul(scale)
	}

	base := uint32(len(m.Vertices))
	emit := n
	if closed {
		// Re-emit the first point to close the strip; its advancement is
		// the full perimeter.
		emit = n + 1
	}
	advancement := 0.0
	for i := 0; i < emit; i++ {
		normal := joinNormal(i)
		p := pts[i%n]
		pos := tmath.Vec2(float32(p.X), float32(p.Y))
		nrm := tmath.Vec2(float32(normal.X), float32(normal.Y))
		adv := float32(advancement)
		m.Vertices = append(m.Vertices,
			GeoVertex{Position: pos, Normal: nrm, Advancement: adv, Fill: FillLine},
			GeoVertex{Position: pos, Normal: tmath.Vec2(-nrm.X, -nrm.Y), Advancement: adv, Fill: FillLine},
		)
		if i < emit-1 {
			advancement += lengths[i%segs]
		}
	}

	for i := 0; i < emit-1; i++ {
		a := base + uint32(2*i)
		m.Indices = append(m.Indices,
			a, a+1, a+2,
			a+1, a+3, a+2,
		)
	}
	return nil
}

// dedupe drops consecutive duplicate points, which would otherwise yield
// zero-length segments with undefined normals.
func dedupe(points []curve.Point) []curve.Point {
	out := make([]curve.Point, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}
