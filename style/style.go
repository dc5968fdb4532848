// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package style holds resolved cartographic style values. Parsing a style
// document and evaluating its expressions happens upstream; the types
// here are the fully resolved per-layer values the renderer consumes.
package style

import (
	"honnef.co/go/tilemap/tmath"
)

// LayerKind discriminates how a style layer is drawn.
type LayerKind int

const (
	Background LayerKind = iota
	Fill
	Line
	Symbol
)

func (k LayerKind) String() string {
	switch k {
	case Background:
		return "background"
	case Fill:
		return "fill"
	case Line:
		return "line"
	case Symbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Layer is one entry of a style document after resolution. Layers are
// drawn in slice order; the slice index is the z-order.
type Layer struct {
	Kind LayerKind

	// Source and SourceLayer name the tile source and the named layer
	// within each tile this style layer draws from. Empty for
	// Background layers.
	Source      string
	SourceLayer string

	// TextField names the feature property supplying label text for
	// Symbol layers, usually "name".
	TextField string

	Paint Paint
}

// Paint is the resolved paint and layout values for one layer at the
// current zoom. All colors are non-premultiplied sRGB.
type Paint struct {
	FillColor        Color
	FillOutlineColor *Color
	FillTranslate    tmath.V2[float32]

	LineColor     Color
	LineWidth     float32
	LineTranslate tmath.V2[float32]
	LineDash      Dash

	TextColor     Color
	TextSize      float32
	TextMaxWidth  float32
	TextHaloColor Color
	TextHaloWidth float32
}

// Style is an ordered list of resolved layers. Order is z-order: later
// layers composite over earlier ones.
type Style struct {
	Layers []Layer
}
