// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpu

import (
	"math"
	"testing"

	"honnef.co/go/tilemap/tmath"
)

func TestTransformApply(t *testing.T) {
	tr := Translation(3, 4).Mul(ScaleTransform(2, 2))
	got := tr.Apply(tmath.Vec2[float32](1, 1))
	want := tmath.Vec2[float32](5, 6)
	if got != want {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestTransformMulOrder(t *testing.T) {
	// Mul composes like matrix multiplication: the receiver applies last.
	a := ScaleTransform(2, 2).Mul(Translation(1, 0))
	b := Translation(1, 0).Mul(ScaleTransform(2, 2))
	p := tmath.Vec2[float32](0, 0)
	if got := a.Apply(p); got != tmath.Vec2[float32](2, 0) {
		t.Errorf("scale∘translate = %v, want (2, 0)", got)
	}
	if got := b.Apply(p); got != tmath.Vec2[float32](1, 0) {
		t.Errorf("translate∘scale = %v, want (1, 0)", got)
	}
}

func TestTileTransform(t *testing.T) {
	rect := tmath.NewRect(tmath.Vec2[int32](100, 200), tmath.Vec2[int32](356, 456))
	window := tmath.Vec2[uint32](800, 600)
	tr := TileTransform(rect, window)

	// The unit square's corners map to the rect's corners in clip space,
	// y flipped.
	checks := []struct {
		unit tmath.V2[float32]
		px   tmath.V2[float32]
	}{
		{tmath.Vec2[float32](0, 0), tmath.Vec2[float32](100, 200)},
		{tmath.Vec2[float32](1, 1), tmath.Vec2[float32](356, 456)},
		{tmath.Vec2[float32](0.5, 0.5), tmath.Vec2[float32](228, 328)},
	}
	for _, c := range checks {
		got := tr.Apply(c.unit)
		wantX := c.px.X/800*2 - 1
		wantY := -(c.px.Y/600*2 - 1)
		if math.Abs(float64(got.X-wantX)) > 1e-6 || math.Abs(float64(got.Y-wantY)) > 1e-6 {
			t.Errorf("Apply(%v) = %v, want (%v, %v)", c.unit, got, wantX, wantY)
		}
	}
}
