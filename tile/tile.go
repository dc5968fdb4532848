// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package tile models decoded vector tiles: per-layer features whose
// geometry has been normalized to the unit tile square, ready for
// tessellation.
package tile

import (
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"honnef.co/go/curve"
)

// Kind is the geometry kind of a feature.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Feature is one map entity within a tile layer. Coordinates live in the
// layer's quantized extent space: (0,0) is the tile's top-left corner and
// (extent,extent) its bottom-right. The draw-constant rescale maps this
// range into the unit square at draw time. Features are immutable once
// decoded.
type Feature struct {
	Kind Kind

	// Rings is the coordinate rings for line and polygon features. For
	// polygons the first ring is the outer boundary and any further
	// rings are holes.
	Rings [][]curve.Point

	// Anchors is the set of anchor points for point features.
	Anchors []curve.Point

	Properties geojson.Properties
}

// Layer is a named group of features within a tile.
type Layer struct {
	Name string

	// Extent is the side length of the layer's quantized coordinate
	// range, commonly 4096.
	Extent   float64
	Features []Feature
}

// Tile is one decoded vector tile.
type Tile struct {
	ID     maptile.Tile
	Layers []Layer
}

// Layer returns the layer with the given name, or nil.
func (t *Tile) Layer(name string) *Layer {
	for i := range t.Layers {
		if t.Layers[i].Name == name {
			return &t.Layers[i]
		}
	}
	return nil
}
