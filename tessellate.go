// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package tilemap

import (
	"github.com/sirupsen/logrus"

	"honnef.co/go/curve"

	"honnef.co/go/tilemap/gpu"
	"honnef.co/go/tilemap/style"
	"honnef.co/go/tilemap/tess"
	"honnef.co/go/tilemap/text"
	"honnef.co/go/tilemap/tile"
	"honnef.co/go/tilemap/tmath"
)

// Tessellator turns decoded tiles into GPU-ready meshes, one draw per
// style layer. Each worker owns one; the glyph atlas and font
// collection are shared and synchronize internally.
type Tessellator struct {
	style *style.Style
	fonts *text.FontCollection
	atlas *text.Atlas

	geo    tess.Mesh
	text   tess.TextMesh
	labels []tess.LabelGeometry
}

func NewTessellator(st *style.Style, fonts *text.FontCollection, atlas *text.Atlas) *Tessellator {
	return &Tessellator{
		style: st,
		fonts: fonts,
		atlas: atlas,
	}
}

// Tessellate builds one tile's geometry, walking the style layers in
// z-order. Features that defeat tessellation are dropped with a
// warning; the rest of the tile still renders.
func (t *Tessellator) Tessellate(tl *tile.Tile) (*tess.Mesh, []gpu.FeatureDraw, *tess.TextMesh, []gpu.LabelLayerDraw) {
	t.geo.Reset()
	t.text.Reset()

	var features []gpu.FeatureDraw
	var labelLayers []gpu.LabelLayerDraw

	for i := range t.style.Layers {
		layer := &t.style.Layers[i]

		if layer.Kind == style.Background {
			start := uint32(len(t.geo.Indices))
			t.geo.Background()
			features = append(features, gpu.FeatureDraw{
				Layer:    layer,
				Extent:   1,
				Elements: tess.Range{Start: start, End: uint32(len(t.geo.Indices))},
			})
			continue
		}

		src := tl.Layer(layer.SourceLayer)
		if src == nil {
			continue
		}

		switch layer.Kind {
		case style.Fill, style.Line:
			start := uint32(len(t.geo.Indices))
			for fi := range src.Features {
				t.feature(layer, src, &src.Features[fi])
			}
			if end := uint32(len(t.geo.Indices)); end > start {
				features = append(features, gpu.FeatureDraw{
					Layer:    layer,
					Extent:   float32(src.Extent),
					Elements: tess.Range{Start: start, End: end},
				})
			}
		case style.Symbol:
			t.labels = t.labels[:0]
			for fi := range src.Features {
				t.symbol(layer, src, &src.Features[fi])
			}
			if len(t.labels) > 0 {
				labelLayers = append(labelLayers, gpu.LabelLayerDraw{
					Layer:  layer,
					Labels: append([]tess.LabelGeometry(nil), t.labels...),
				})
			}
		}
	}

	return &t.geo, features, &t.text, labelLayers
}

func (t *Tessellator) feature(layer *style.Layer, src *tile.Layer, f *tile.Feature) {
	var err error
	switch f.Kind {
	case tile.KindPolygon:
		if layer.Kind == style.Fill {
			err = t.geo.Fill(f.Rings)
			if err == nil && layer.Paint.FillOutlineColor != nil {
				err = t.strokeRings(f.Rings)
			}
		} else {
			err = t.strokeRings(f.Rings)
		}
	case tile.KindLine:
		if layer.Kind == style.Line {
			err = t.strokeRings(f.Rings)
		}
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"layer": src.Name,
			"kind":  f.Kind,
			"err":   err,
		}).Warn("dropping feature")
	}
}

func (t *Tessellator) strokeRings(rings [][]curve.Point) error {
	for _, ring := range rings {
		if err := t.geo.Stroke(ring); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tessellator) symbol(layer *style.Layer, src *tile.Layer, f *tile.Feature) {
	if f.Kind != tile.KindPoint || len(f.Anchors) == 0 {
		return
	}
	s, ok := f.Properties[layer.TextField].(string)
	if !ok || s == "" {
		return
	}

	size := layer.Paint.TextSize
	label := t.fonts.Layout(s, size, layer.Paint.TextMaxWidth*size)
	if label == nil {
		return
	}
	face := t.fonts.Face(size)

	for _, anchor := range f.Anchors {
		// Anchors outside the tile belong to a neighboring tile's copy
		// of the feature.
		if anchor.X < 0 || anchor.X > src.Extent || anchor.Y < 0 || anchor.Y > src.Extent {
			continue
		}
		point := tmath.Vec2(
			float32(anchor.X/src.Extent),
			float32(anchor.Y/src.Extent),
		)
		t.labels = append(t.labels, t.text.Label(label, point, t.atlas, face))
	}
}
