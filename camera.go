// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package tilemap

import (
	"math"

	"github.com/paulmach/orb/maptile"

	"honnef.co/go/tilemap/gpu"
	"honnef.co/go/tilemap/tmath"
)

// MaxZoom is the deepest zoom level the camera will select tiles from.
const MaxZoom = 23

// Camera is a slippy-map view: a geographic position, a fractional zoom
// level, and the window it projects into. Tiles are picked at the
// integer zoom below the fractional one and scaled up to fit.
type Camera struct {
	// Lat and Lon are the window center, in degrees.
	Lat, Lon float64
	// Zoom is the fractional zoom level, 0..MaxZoom.
	Zoom float64

	tileDims tmath.V2[float64]
	window   tmath.V2[uint32]
}

func NewCamera(tileDims tmath.V2[float64], window tmath.V2[uint32], lat, lon, zoom float64) *Camera {
	c := &Camera{
		Lat:      lat,
		Lon:      lon,
		Zoom:     zoom,
		tileDims: tileDims,
		window:   window,
	}
	c.clamp()
	return c
}

func (c *Camera) Resize(window tmath.V2[uint32]) {
	c.window = window
}

func (c *Camera) Window() tmath.V2[uint32] { return c.window }

// Scale is the factor tiles are stretched by to cover the fractional
// part of the zoom level.
func (c *Camera) Scale() float64 {
	return c.Zoom - math.Floor(c.Zoom) + 1
}

func (c *Camera) nearestZoom() maptile.Zoom {
	z := math.Floor(c.Zoom)
	if z < 0 {
		z = 0
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	return maptile.Zoom(z)
}

func (c *Camera) scaledTileDims() tmath.V2[float64] {
	s := c.Scale()
	return tmath.Vec2(c.tileDims.X*s, c.tileDims.Y*s)
}

// fractionalTile is the camera position in continuous tile coordinates
// at the nearest zoom: X grows east, Y grows south, both in [0, 2^z).
func (c *Camera) fractionalTile() tmath.V2[float64] {
	n := float64(uint32(1) << c.nearestZoom())
	latRad := c.Lat * math.Pi / 180
	x := (c.Lon + 180) / 360 * n
	y := (1 - math.Asinh(math.Tan(latRad))/math.Pi) / 2 * n
	return tmath.Vec2(x, y)
}

// Pan moves the camera by a window-space pixel offset: positive X pans
// the view east, positive Y south. Latitude is clamped to the usable
// web-mercator range.
func (c *Camera) Pan(delta tmath.V2[float64]) {
	dims := c.scaledTileDims()
	ft := c.fractionalTile()
	n := float64(uint32(1) << c.nearestZoom())

	x := ft.X + delta.X/dims.X
	y := ft.Y + delta.Y/dims.Y

	lon := x/n*360 - 180
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*y/n)))
	lat := latRad * 180 / math.Pi

	if lat > -85 && lat < 85 {
		c.Lat = lat
	}
	c.Lon = math.Mod(lon+540, 360) - 180
}

// ZoomBy changes the zoom level. When zooming in, the point under focus
// (window pixels) stays put; zooming out keeps the window center.
func (c *Camera) ZoomBy(amount float64, focus tmath.V2[float64]) {
	if amount > 0 {
		center := tmath.Vec2(float64(c.window.X)/2, float64(c.window.Y)/2)
		off := focus.Sub(center)
		c.Pan(off)
		c.Zoom += amount
		c.clamp()
		c.Pan(off.Scale(-1))
	} else {
		c.Zoom += amount
		c.clamp()
	}
}

func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = zoom
	c.clamp()
}

func (c *Camera) clamp() {
	c.Zoom = math.Max(0, math.Min(MaxZoom, c.Zoom))
}

// Viewport returns the tiles covering the window, with their
// window-space rectangles, ordered row by row. Tile columns wrap around
// the antimeridian; rows outside the map are omitted.
func (c *Camera) Viewport() []gpu.TileDraw {
	z := c.nearestZoom()
	n := int64(1) << z
	dims := c.scaledTileDims()
	ft := c.fractionalTile()

	cx := math.Floor(ft.X)
	cy := math.Floor(ft.Y)

	// Window-space rect of the tile containing the camera position.
	minX := float64(c.window.X)/2 - (ft.X-cx)*dims.X
	minY := float64(c.window.Y)/2 - (ft.Y-cy)*dims.Y

	fromX := int64(math.Floor(-minX / dims.X))
	toX := int64(math.Ceil((float64(c.window.X) - minX) / dims.X))
	fromY := int64(math.Floor(-minY / dims.Y))
	toY := int64(math.Ceil((float64(c.window.Y) - minY) / dims.Y))

	var out []gpu.TileDraw
	for dy := fromY; dy < toY; dy++ {
		row := int64(cy) + dy
		if row < 0 || row >= n {
			continue
		}
		for dx := fromX; dx < toX; dx++ {
			col := (int64(cx) + dx) % n
			if col < 0 {
				col += n
			}
			// Rounding each edge independently keeps adjacent tiles
			// seamless.
			rect := tmath.NewRect(
				tmath.Vec2(
					int32(math.Round(minX+float64(dx)*dims.X)),
					int32(math.Round(minY+float64(dy)*dims.Y)),
				),
				tmath.Vec2(
					int32(math.Round(minX+float64(dx+1)*dims.X)),
					int32(math.Round(minY+float64(dy+1)*dims.Y)),
				),
			)
			out = append(out, gpu.TileDraw{
				ID:   maptile.New(uint32(col), uint32(row), z),
				Rect: rect,
			})
		}
	}
	return out
}

// NearbyTiles returns tile IDs worth prefetching for a zoom animation
// heading towards targetZoom: the viewport one level out when zooming
// out, one level in when zooming in.
func (c *Camera) NearbyTiles(targetZoom float64) []maptile.Tile {
	nearest := c.nearestZoom()
	var out []maptile.Tile
	if nearest > 0 && targetZoom <= float64(nearest) {
		zoomed := *c
		zoomed.Zoom--
		zoomed.clamp()
		for _, td := range zoomed.Viewport() {
			out = append(out, td.ID)
		}
	}
	if nearest < MaxZoom && targetZoom > float64(nearest) {
		zoomed := *c
		zoomed.Zoom++
		zoomed.clamp()
		for _, td := range zoomed.Viewport() {
			out = append(out, td.ID)
		}
	}
	return out
}
