// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package tmath

import "testing"

func TestRectOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect[float32]
		want bool
	}{
		{
			"overlapping",
			NewRect(Vec2[float32](0, 0), Vec2[float32](2, 2)),
			NewRect(Vec2[float32](1, 1), Vec2[float32](3, 3)),
			true,
		},
		{
			"disjoint",
			NewRect(Vec2[float32](0, 0), Vec2[float32](1, 1)),
			NewRect(Vec2[float32](2, 2), Vec2[float32](3, 3)),
			false,
		},
		{
			"touching edges",
			NewRect(Vec2[float32](0, 0), Vec2[float32](1, 1)),
			NewRect(Vec2[float32](1, 0), Vec2[float32](2, 1)),
			false,
		},
		{
			"contained",
			NewRect(Vec2[float32](0, 0), Vec2[float32](4, 4)),
			NewRect(Vec2[float32](1, 1), Vec2[float32](2, 2)),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps (flipped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectClip(t *testing.T) {
	a := NewRect(Vec2[int32](0, 0), Vec2[int32](10, 10))
	b := NewRect(Vec2[int32](5, -5), Vec2[int32](15, 5))
	got, ok := a.Clip(b)
	if !ok {
		t.Fatal("expected intersection")
	}
	want := NewRect(Vec2[int32](5, 0), Vec2[int32](10, 5))
	if got != want {
		t.Errorf("Clip = %v, want %v", got, want)
	}

	if _, ok := a.Clip(NewRect(Vec2[int32](20, 20), Vec2[int32](30, 30))); ok {
		t.Error("expected no intersection")
	}
}

func TestToScissor(t *testing.T) {
	window := Vec2[uint32](800, 600)
	tests := []struct {
		name string
		rect Rect[int32]
		want Rect[uint32]
		ok   bool
	}{
		{
			"inside",
			NewRect(Vec2[int32](10, 20), Vec2[int32](110, 120)),
			NewRect(Vec2[uint32](10, 20), Vec2[uint32](110, 120)),
			true,
		},
		{
			"clipped at origin",
			NewRect(Vec2[int32](-50, -50), Vec2[int32](50, 50)),
			NewRect(Vec2[uint32](0, 0), Vec2[uint32](50, 50)),
			true,
		},
		{
			"clipped at window edge",
			NewRect(Vec2[int32](700, 500), Vec2[int32](900, 700)),
			NewRect(Vec2[uint32](700, 500), Vec2[uint32](800, 600)),
			true,
		},
		{
			"outside",
			NewRect(Vec2[int32](900, 0), Vec2[int32](1000, 100)),
			Rect[uint32]{},
			false,
		},
		{
			"fully negative",
			NewRect(Vec2[int32](-200, -200), Vec2[int32](-100, -100)),
			Rect[uint32]{},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToScissor(tt.rect, window)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ToScissor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		n, align, want int
	}{
		{0, 4, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 4, 8},
		{17, 16, 32},
	}
	for _, tt := range tests {
		if got := AlignUp(tt.n, tt.align); got != tt.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", tt.n, tt.align, got, tt.want)
		}
	}
}
