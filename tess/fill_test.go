// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package tess

import (
	"errors"
	"math"
	"testing"

	"honnef.co/go/curve"
)

// meshArea sums the unsigned area of all triangles in the mesh.
func meshArea(m *Mesh) float64 {
	var area float64
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Position
		b := m.Vertices[m.Indices[i+1]].Position
		c := m.Vertices[m.Indices[i+2]].Position
		area += math.Abs(float64((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y))) / 2
	}
	return area
}

func TestFillRectangle(t *testing.T) {
	var m Mesh
	rect := [][]curve.Point{{
		curve.Pt(0, 0), curve.Pt(1, 0), curve.Pt(1, 1), curve.Pt(0, 1),
	}}
	if err := m.Fill(rect); err != nil {
		t.Fatal(err)
	}
	if got := len(m.Indices) / 3; got != 2 {
		t.Errorf("triangles = %d, want 2", got)
	}
	if got := meshArea(&m); math.Abs(got-1) > 1e-6 {
		t.Errorf("area = %v, want 1", got)
	}
	for i, v := range m.Vertices {
		if v.Fill != FillPolygon {
			t.Errorf("vertex %d fill = %d, want FillPolygon", i, v.Fill)
		}
	}
}

func TestFillClosedRing(t *testing.T) {
	// Rings that repeat the first point as the last tessellate the same.
	var m Mesh
	rect := [][]curve.Point{{
		curve.Pt(0, 0), curve.Pt(1, 0), curve.Pt(1, 1), curve.Pt(0, 1), curve.Pt(0, 0),
	}}
	if err := m.Fill(rect); err != nil {
		t.Fatal(err)
	}
	if got := len(m.Indices) / 3; got != 2 {
		t.Errorf("triangles = %d, want 2", got)
	}
}

func TestFillWithHole(t *testing.T) {
	var m Mesh
	rings := [][]curve.Point{
		{curve.Pt(0, 0), curve.Pt(4, 0), curve.Pt(4, 4), curve.Pt(0, 4)},
		// Hole, wound the other way.
		{curve.Pt(1, 1), curve.Pt(1, 3), curve.Pt(3, 3), curve.Pt(3, 1)},
	}
	if err := m.Fill(rings); err != nil {
		t.Fatal(err)
	}
	if got := meshArea(&m); math.Abs(got-12) > 1e-6 {
		t.Errorf("area = %v, want 12 (16 minus 4)", got)
	}
}

func TestFillMultiPolygon(t *testing.T) {
	// Two same-winding rings are separate polygons, not holes.
	var m Mesh
	rings := [][]curve.Point{
		{curve.Pt(0, 0), curve.Pt(1, 0), curve.Pt(1, 1), curve.Pt(0, 1)},
		{curve.Pt(2, 0), curve.Pt(3, 0), curve.Pt(3, 1), curve.Pt(2, 1)},
	}
	if err := m.Fill(rings); err != nil {
		t.Fatal(err)
	}
	if got := len(m.Indices) / 3; got != 4 {
		t.Errorf("triangles = %d, want 4", got)
	}
	if got := meshArea(&m); math.Abs(got-2) > 1e-6 {
		t.Errorf("area = %v, want 2", got)
	}
}

func TestFillConcave(t *testing.T) {
	// An L shape: 6 vertices, 4 triangles, area 3.
	var m Mesh
	rings := [][]curve.Point{{
		curve.Pt(0, 0), curve.Pt(2, 0), curve.Pt(2, 1),
		curve.Pt(1, 1), curve.Pt(1, 2), curve.Pt(0, 2),
	}}
	if err := m.Fill(rings); err != nil {
		t.Fatal(err)
	}
	if got := len(m.Indices) / 3; got != 4 {
		t.Errorf("triangles = %d, want 4", got)
	}
	if got := meshArea(&m); math.Abs(got-3) > 1e-6 {
		t.Errorf("area = %v, want 3", got)
	}
}

func TestFillDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		rings [][]curve.Point
	}{
		{"empty", nil},
		{"two points", [][]curve.Point{{curve.Pt(0, 0), curve.Pt(1, 1)}}},
		{"duplicates only", [][]curve.Point{{curve.Pt(0, 0), curve.Pt(0, 0), curve.Pt(0, 0), curve.Pt(0, 0)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Mesh
			if err := m.Fill(tt.rings); !errors.Is(err, ErrDegenerate) {
				t.Errorf("err = %v, want ErrDegenerate", err)
			}
			if len(m.Vertices) != 0 || len(m.Indices) != 0 {
				t.Error("degenerate fill left geometry behind")
			}
		})
	}
}

func TestFillRollback(t *testing.T) {
	// A failing ring set must not disturb geometry tessellated before it.
	var m Mesh
	if err := m.Fill([][]curve.Point{{
		curve.Pt(0, 0), curve.Pt(1, 0), curve.Pt(1, 1), curve.Pt(0, 1),
	}}); err != nil {
		t.Fatal(err)
	}
	nv, ni := len(m.Vertices), len(m.Indices)

	if err := m.Fill([][]curve.Point{{curve.Pt(5, 5), curve.Pt(6, 6)}}); err == nil {
		t.Fatal("expected error")
	}
	if len(m.Vertices) != nv || len(m.Indices) != ni {
		t.Errorf("failed fill changed mesh: %d/%d vertices, %d/%d indices",
			len(m.Vertices), nv, len(m.Indices), ni)
	}
}

func TestBackgroundQuad(t *testing.T) {
	var m Mesh
	m.Background()
	if len(m.Vertices) != 4 || len(m.Indices) != 6 {
		t.Fatalf("got %d vertices, %d indices", len(m.Vertices), len(m.Indices))
	}
	for i, v := range m.Vertices {
		if v.Fill != FillBackground {
			t.Errorf("vertex %d fill = %d, want FillBackground", i, v.Fill)
		}
	}
	// The quad overhangs the unit square so edge antialiasing never
	// shows the clear color.
	if got := meshArea(&m); math.Abs(got-1.44) > 1e-5 {
		t.Errorf("area = %v, want 1.44", got)
	}
}
