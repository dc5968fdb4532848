// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpu

import (
	"structs"

	"honnef.co/go/tilemap/tmath"
)

// Transform is a 2D affine transform in the column-major layout the
// shading stage expects: Matrix holds the two columns of a mat2x2.
type Transform struct {
	_ structs.HostLayout

	Matrix      [4]float32
	Translation [2]float32
}

var Identity = Transform{
	Matrix: [4]float32{1, 0, 0, 1},
}

func ScaleTransform(x, y float32) Transform {
	return Transform{Matrix: [4]float32{x, 0, 0, y}}
}

func Translation(x, y float32) Transform {
	return Transform{
		Matrix:      [4]float32{1, 0, 0, 1},
		Translation: [2]float32{x, y},
	}
}

func (t Transform) Mul(other Transform) Transform {
	return Transform{
		Matrix: [4]float32{
			t.Matrix[0]*other.Matrix[0] + t.Matrix[2]*other.Matrix[1],
			t.Matrix[1]*other.Matrix[0] + t.Matrix[3]*other.Matrix[1],
			t.Matrix[0]*other.Matrix[2] + t.Matrix[2]*other.Matrix[3],
			t.Matrix[1]*other.Matrix[2] + t.Matrix[3]*other.Matrix[3],
		},
		Translation: [2]float32{
			t.Matrix[0]*other.Translation[0] +
				t.Matrix[2]*other.Translation[1] +
				t.Translation[0],
			t.Matrix[1]*other.Translation[0] +
				t.Matrix[3]*other.Translation[1] +
				t.Translation[1],
		},
	}
}

// Apply transforms a point.
func (t Transform) Apply(p tmath.V2[float32]) tmath.V2[float32] {
	return tmath.Vec2(
		t.Matrix[0]*p.X+t.Matrix[2]*p.Y+t.Translation[0],
		t.Matrix[1]*p.X+t.Matrix[3]*p.Y+t.Translation[1],
	)
}

// TileTransform maps the unit tile square onto a window-space rectangle
// in clip coordinates, flipping y from window-down to clip-up.
func TileTransform(rect tmath.Rect[int32], window tmath.V2[uint32]) Transform {
	w := float32(window.X)
	h := float32(window.Y)
	return Transform{
		Matrix: [4]float32{
			2 * float32(rect.Width()) / w, 0,
			0, -2 * float32(rect.Height()) / h,
		},
		Translation: [2]float32{
			2*float32(rect.Min.X)/w - 1,
			1 - 2*float32(rect.Min.Y)/h,
		},
	}
}
