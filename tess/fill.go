// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package tess

import (
	"math"
	"sort"

	"honnef.co/go/curve"
	"honnef.co/go/tilemap/tmath"
)

// Fill triangulates a ring set into a fill mesh using ear clipping with
// hole bridging. The first ring is the outer boundary; rings wound
// opposite to it are holes, rings wound like it start a new polygon
// (flattened multi-polygons). Returns ErrDegenerate for rings with fewer
// than 3 distinct points and ErrComplexPolygon when clipping gets stuck,
// which happens on self-intersecting input.
func (m *Mesh) Fill(rings [][]curve.Point) error {
	var cleaned [][]curve.Point
	for _, ring := range rings {
		r := dedupe(ring)
		if len(r) >= 2 && r[0] == r[len(r)-1] {
			r = r[:len(r)-1]
		}
		if len(r) < 3 {
			return ErrDegenerate
		}
		cleaned = append(cleaned, r)
	}
	if len(cleaned) == 0 {
		return ErrDegenerate
	}

	// A failing polygon must not leave partial geometry behind: the
	// feature as a whole is dropped.
	vstart := len(m.Vertices)
	istart := len(m.Indices)
	rollback := func(err error) error {
		m.Vertices = m.Vertices[:vstart]
		m.Indices = m.Indices[:istart]
		return err
	}

	outerSign := math.Signbit(signedArea(cleaned[0]))
	var outer []curve.Point
	var holes [][]curve.Point
	flush := func() error {
		if outer == nil {
			return nil
		}
		err := m.fillPolygon(outer, holes)
		outer, holes = nil, nil
		return err
	}
	for _, ring := range cleaned {
		if math.Signbit(signedArea(ring)) == outerSign {
			if err := flush(); err != nil {
				return rollback(err)
			}
			outer = ring
		} else if outer != nil {
			holes = append(holes, ring)
		}
	}
	if err := flush(); err != nil {
		return rollback(err)
	}
	return nil
}

func (m *Mesh) fillPolygon(outer []curve.Point, holes [][]curve.Point) error {
	start := len(m.Vertices)
	list := m.buildList(outer, false)
	if list == nil {
		return ErrDegenerate
	}

	if len(holes) > 0 {
		var queue []*earNode
		for _, hole := range holes {
			h := m.buildList(hole, true)
			if h == nil {
				continue
			}
			queue = append(queue, leftmost(h))
		}
		sort.Slice(queue, func(i, j int) bool { return queue[i].x < queue[j].x })
		for _, h := range queue {
			list = eliminateHole(h, list)
		}
	}

	indices, ok := earcut(list)
	if !ok {
		// Roll back this polygon's vertices so a failed feature leaves
		// no orphans in the buffer.
		m.Vertices = m.Vertices[:start]
		return ErrComplexPolygon
	}
	m.Indices = append(m.Indices, indices...)
	return nil
}

// buildList appends the ring's vertices to the mesh and links them into
// a circular list, normalizing winding: outer rings counter-clockwise
// (positive area), holes clockwise.
func (m *Mesh) buildList(ring []curve.Point, hole bool) *earNode {
	ccw := signedArea(ring) > 0
	if ccw == hole {
		reverse(ring)
	}

	var head *earNode
	for _, p := range ring {
		idx := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, GeoVertex{
			Position: tmath.Vec2(float32(p.X), float32(p.Y)),
			Fill:     FillPolygon,
		})
		n := &earNode{i: idx, x: p.X, y: p.Y}
		if head == nil {
			head = n
			n.prev = n
			n.next = n
		} else {
			n.prev = head.prev
			n.next = head
			head.prev.next = n
			head.prev = n
		}
	}
	return head
}

type earNode struct {
	i          uint32
	x, y       float64
	prev, next *earNode
}

func (n *earNode) remove() {
	n.prev.next = n.next
	n.next.prev = n.prev
}

func earcut(head *earNode) ([]uint32, bool) {
	var out []uint32
	ear := head
	stop := head
	filtered := false
	for ear.prev != ear.next {
		prev := ear.prev
		next := ear.next
		if isEar(ear) {
			out = append(out, prev.i, ear.i, next.i)
			ear.remove()
			ear = next.next
			stop = ear
			continue
		}
		ear = next
		if ear == stop {
			if !filtered {
				// A full lap without clipping a single ear: drop
				// collinear spurs and duplicates, then retry once.
				filtered = true
				ear = filterPoints(ear)
				if ear == nil || ear.prev == ear.next {
					// Everything degenerated away; what was emitted so
					// far covers the polygon.
					return out, true
				}
				stop = ear
				continue
			}
			return nil, false
		}
	}
	return out, true
}

func isEar(ear *earNode) bool {
	a, b, c := ear.prev, ear, ear.next
	if area2(a, b, c) <= 0 {
		return false // reflex or collinear
	}
	for p := c.next; p != a; p = p.next {
		if pointInTriangle(a, b, c, p.x, p.y) && area2(p.prev, p, p.next) >= 0 {
			return false
		}
	}
	return true
}

// filterPoints removes collinear and duplicate nodes. Returns nil if the
// polygon collapses entirely.
func filterPoints(start *earNode) *earNode {
	p := start
	again := true
	for again || p != start {
		again = false
		if (p.x == p.next.x && p.y == p.next.y) || area2(p.prev, p, p.next) == 0 {
			p.remove()
			p = p.prev
			start = p
			if p == p.next {
				return nil
			}
			again = true
		} else {
			p = p.next
		}
	}
	return start
}

// eliminateHole links a hole into the outer polygon through a bridge
// edge, turning the two rings into one.
func eliminateHole(hole, outer *earNode) *earNode {
	bridge := findHoleBridge(hole, outer)
	if bridge == nil {
		return outer
	}
	splitPolygon(bridge, hole)
	return outer
}

// findHoleBridge locates an outer-polygon vertex visible from the hole's
// leftmost vertex, using David Eberly's horizontal-ray approach.
func findHoleBridge(hole, outer *earNode) *earNode {
	p := outer
	hx, hy := hole.x, hole.y
	qx := math.Inf(-1)
	var m *earNode

	// Find the edge the leftward ray from the hole point hits first and
	// take its endpoint with the larger x.
	for {
		if hy <= p.y && hy >= p.next.y && p.next.y != p.y {
			x := p.x + (hy-p.y)*(p.next.x-p.x)/(p.next.y-p.y)
			if x <= hx && x > qx {
				qx = x
				if p.x < p.next.x {
					m = p
				} else {
					m = p.next
				}
				if x == hx {
					return m // ray hits the vertex itself
				}
			}
		}
		p = p.next
		if p == outer {
			break
		}
	}
	if m == nil {
		return nil
	}

	// The candidate may be occluded; prefer the reflex vertex inside the
	// triangle (hole point, intersection, candidate) that minimizes the
	// angle to the ray.
	stop := m
	mx, my := m.x, m.y
	tanMin := math.Inf(1)
	p = m
	for {
		if hx >= p.x && p.x >= mx && hx != p.x &&
			pointInTriangleXY(ternX(hy < my, hx, qx), hy, mx, my, ternX(hy < my, qx, hx), hy, p.x, p.y) {
			tan := math.Abs(hy-p.y) / (hx - p.x)
			if (tan < tanMin || (tan == tanMin && p.x > m.x)) && locallyInside(p, hole) {
				m = p
				tanMin = tan
			}
		}
		p = p.next
		if p == stop {
			break
		}
	}
	return m
}

func ternX(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// splitPolygon connects a and b with a pair of bridge nodes, merging
// their rings.
func splitPolygon(a, b *earNode) {
	a2 := &earNode{i: a.i, x: a.x, y: a.y}
	b2 := &earNode{i: b.i, x: b.x, y: b.y}
	an := a.next
	bp := b.prev

	a.next = b
	b.prev = a
	a2.next = an
	an.prev = a2
	b2.next = a2
	a2.prev = b2
	bp.next = b2
	b2.prev = bp
}

func locallyInside(a, b *earNode) bool {
	if area2(a.prev, a, a.next) < 0 {
		return area2(a, b, a.next) >= 0 && area2(a, a.prev, b) >= 0
	}
	return area2(a, b, a.prev) < 0 || area2(a, a.next, b) < 0
}

func leftmost(head *earNode) *earNode {
	best := head
	for p := head.next; p != head; p = p.next {
		if p.x < best.x || (p.x == best.x && p.y < best.y) {
			best = p
		}
	}
	return best
}

// area2 is twice the signed area of the triangle abc; positive for
// counter-clockwise order.
func area2(a, b, c *earNode) float64 {
	return (b.x-a.x)*(c.y-a.y) - (c.x-a.x)*(b.y-a.y)
}

func pointInTriangle(a, b, c *earNode, px, py float64) bool {
	return pointInTriangleXY(a.x, a.y, b.x, b.y, c.x, c.y, px, py)
}

func pointInTriangleXY(ax, ay, bx, by, cx, cy, px, py float64) bool {
	return (bx-ax)*(py-ay)-(px-ax)*(by-ay) >= 0 &&
		(cx-bx)*(py-by)-(px-bx)*(cy-by) >= 0 &&
		(ax-cx)*(py-cy)-(px-cx)*(ay-cy) >= 0
}

func signedArea(ring []curve.Point) float64 {
	var sum float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

func reverse(ring []curve.Point) {
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}
