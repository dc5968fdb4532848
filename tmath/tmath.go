// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package tmath provides the small amount of vector math shared between
// tile-space geometry and window-space layout.
package tmath

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Scalar interface {
	constraints.Integer | constraints.Float
}

// V2 is a two-component vector.
type V2[T Scalar] struct {
	X, Y T
}

func Vec2[T Scalar](x, y T) V2[T] {
	return V2[T]{X: x, Y: y}
}

// Splat returns a vector with both components set to v.
func Splat[T Scalar](v T) V2[T] {
	return V2[T]{X: v, Y: v}
}

func (v V2[T]) Add(o V2[T]) V2[T] { return V2[T]{v.X + o.X, v.Y + o.Y} }
func (v V2[T]) Sub(o V2[T]) V2[T] { return V2[T]{v.X - o.X, v.Y - o.Y} }

// Mul multiplies component-wise.
func (v V2[T]) Mul(o V2[T]) V2[T] { return V2[T]{v.X * o.X, v.Y * o.Y} }

func (v V2[T]) Scale(s T) V2[T] { return V2[T]{v.X * s, v.Y * s} }

func (v V2[T]) Dot(o V2[T]) float64 {
	return float64(v.X)*float64(o.X) + float64(v.Y)*float64(o.Y)
}

func (v V2[T]) Length() float64 {
	return math.Hypot(float64(v.X), float64(v.Y))
}

func (v V2[T]) Min(o V2[T]) V2[T] { return V2[T]{min(v.X, o.X), min(v.Y, o.Y)} }
func (v V2[T]) Max(o V2[T]) V2[T] { return V2[T]{max(v.X, o.X), max(v.Y, o.Y)} }

// Convert converts the component type of a vector.
func Convert[U, T Scalar](v V2[T]) V2[U] {
	return V2[U]{X: U(v.X), Y: U(v.Y)}
}

// V4 is a four-component vector, used for RGBA colors in draw constants.
type V4[T Scalar] struct {
	X, Y, Z, W T
}

// Rect is an axis-aligned rectangle with inclusive Min and exclusive Max.
type Rect[T Scalar] struct {
	Min, Max V2[T]
}

func NewRect[T Scalar](min, max V2[T]) Rect[T] {
	return Rect[T]{Min: min, Max: max}
}

func (r Rect[T]) Width() T  { return r.Max.X - r.Min.X }
func (r Rect[T]) Height() T { return r.Max.Y - r.Min.Y }

func (r Rect[T]) Dimensions() V2[T] {
	return V2[T]{X: r.Width(), Y: r.Height()}
}

func (r Rect[T]) Translate(by V2[T]) Rect[T] {
	return Rect[T]{Min: r.Min.Add(by), Max: r.Max.Add(by)}
}

func (r Rect[T]) Overlaps(o Rect[T]) bool {
	return r.Min.X < o.Max.X && o.Min.X < r.Max.X &&
		r.Min.Y < o.Max.Y && o.Min.Y < r.Max.Y
}

// Clip intersects two rectangles. The second return value is false if
// they do not intersect.
func (r Rect[T]) Clip(o Rect[T]) (Rect[T], bool) {
	out := Rect[T]{
		Min: r.Min.Max(o.Min),
		Max: r.Max.Min(o.Max),
	}
	if out.Min.X >= out.Max.X || out.Min.Y >= out.Max.Y {
		return Rect[T]{}, false
	}
	return out, true
}

// ToScissor clamps a window-space rectangle to the window and converts it
// to unsigned device coordinates. The second return value is false if the
// rectangle lies entirely outside the window.
func ToScissor(r Rect[int32], window V2[uint32]) (Rect[uint32], bool) {
	clipped, ok := r.Clip(Rect[int32]{
		Max: V2[int32]{X: int32(window.X), Y: int32(window.Y)},
	})
	if !ok {
		return Rect[uint32]{}, false
	}
	return Rect[uint32]{
		Min: Convert[uint32](clipped.Min),
		Max: Convert[uint32](clipped.Max),
	}, true
}

func AlignUp(len int, alignment int) int {
	return (len + alignment - 1) & -alignment
}
