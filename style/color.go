// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package style

import (
	"honnef.co/go/color"
	"honnef.co/go/tilemap/tmath"
)

// Color is a non-premultiplied sRGB color. The shading stage applies the
// gamma expansion on output, so colors stay in sRGB space on the CPU side.
type Color struct {
	R, G, B, A float32
}

func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromColor converts a color from any color space into the sRGB space
// used by draw constants.
func FromColor(c *color.Color) Color {
	cc := c.Convert(color.SRGB)
	return Color{
		R: float32(cc.Values[0]),
		G: float32(cc.Values[1]),
		B: float32(cc.Values[2]),
		A: float32(cc.Values[3]),
	}
}

// Premul returns the color with alpha multiplied into the channels,
// still in sRGB space.
func (c Color) Premul() tmath.V4[float32] {
	return tmath.V4[float32]{
		X: c.R * c.A,
		Y: c.G * c.A,
		Z: c.B * c.A,
		W: c.A,
	}
}

func (c Color) WithAlphaFactor(alpha float32) Color {
	c.A *= alpha
	return c
}

var Transparent = Color{}
