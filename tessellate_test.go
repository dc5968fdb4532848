// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package tilemap

import (
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"honnef.co/go/curve"
	"honnef.co/go/tilemap/style"
	"honnef.co/go/tilemap/tess"
	"honnef.co/go/tilemap/text"
	"honnef.co/go/tilemap/tile"
)

func testStyle() *style.Style {
	outline := style.RGBA(0, 0, 0, 1)
	return &style.Style{
		Layers: []style.Layer{
			{
				Kind:  style.Background,
				Paint: style.Paint{FillColor: style.RGBA(0.9, 0.9, 0.9, 1)},
			},
			{
				Kind:        style.Fill,
				Source:      "test",
				SourceLayer: "water",
				Paint: style.Paint{
					FillColor:        style.RGBA(0.2, 0.4, 0.8, 1),
					FillOutlineColor: &outline,
				},
			},
			{
				Kind:        style.Line,
				Source:      "test",
				SourceLayer: "roads",
				Paint: style.Paint{
					LineColor: style.RGBA(1, 1, 1, 1),
					LineWidth: 2,
				},
			},
			{
				Kind:        style.Symbol,
				Source:      "test",
				SourceLayer: "places",
				TextField:   "name",
				Paint: style.Paint{
					TextColor:    style.RGBA(0, 0, 0, 1),
					TextSize:     13,
					TextMaxWidth: 10,
				},
			},
		},
	}
}

func testTile() *tile.Tile {
	return &tile.Tile{
		ID: maptile.New(1, 1, 2),
		Layers: []tile.Layer{
			{
				Name:   "water",
				Extent: 4096,
				Features: []tile.Feature{{
					Kind: tile.KindPolygon,
					Rings: [][]curve.Point{{
						curve.Pt(100, 100), curve.Pt(900, 100),
						curve.Pt(900, 900), curve.Pt(100, 900),
					}},
				}},
			},
			{
				Name:   "roads",
				Extent: 4096,
				Features: []tile.Feature{{
					Kind: tile.KindLine,
					Rings: [][]curve.Point{{
						curve.Pt(0, 2048), curve.Pt(4096, 2048),
					}},
				}},
			},
			{
				Name:   "places",
				Extent: 4096,
				Features: []tile.Feature{{
					Kind:       tile.KindPoint,
					Anchors:    []curve.Point{curve.Pt(2048, 2048)},
					Properties: geojson.Properties{"name": "Springfield"},
				}},
			},
		},
	}
}

func newTestTessellator() *Tessellator {
	fonts := text.NewFontCollection(func(size float64) font.Face {
		return basicfont.Face7x13
	})
	return NewTessellator(testStyle(), fonts, text.NewAtlas())
}

func TestTessellateDraws(t *testing.T) {
	ts := newTestTessellator()
	geo, features, textMesh, labelLayers := ts.Tessellate(testTile())

	if len(features) != 3 {
		t.Fatalf("feature draws = %d, want 3 (background, fill, line)", len(features))
	}

	bg := features[0]
	if bg.Layer.Kind != style.Background || bg.Extent != 1 {
		t.Errorf("first draw = %+v, want background at extent 1", bg)
	}
	if bg.Elements.Len() != 6 {
		t.Errorf("background indices = %d, want 6", bg.Elements.Len())
	}

	fill := features[1]
	if fill.Layer.Kind != style.Fill || fill.Extent != 4096 {
		t.Errorf("second draw = %+v, want fill at extent 4096", fill)
	}
	line := features[2]
	if line.Layer.Kind != style.Line {
		t.Errorf("third draw kind = %v, want line", line.Layer.Kind)
	}

	// Ranges are adjacent and cover the whole index buffer in z-order.
	if fill.Elements.Start != bg.Elements.End || line.Elements.Start != fill.Elements.End {
		t.Error("draw ranges not contiguous")
	}
	if line.Elements.End != uint32(len(geo.Indices)) {
		t.Error("draw ranges do not cover the index buffer")
	}

	// The fill layer has an outline color, so its range contains both
	// polygon and line vertices.
	var kinds [3]bool
	for _, v := range geo.Vertices {
		if v.Fill <= tess.FillBackground {
			kinds[v.Fill] = true
		}
	}
	if !kinds[tess.FillPolygon] || !kinds[tess.FillLine] || !kinds[tess.FillBackground] {
		t.Errorf("missing vertex kinds: %v", kinds)
	}

	if len(labelLayers) != 1 {
		t.Fatalf("label layers = %d, want 1", len(labelLayers))
	}
	if got := len(labelLayers[0].Labels); got != 1 {
		t.Fatalf("labels = %d, want 1", got)
	}
	label := labelLayers[0].Labels[0]
	if label.Point.X != 0.5 || label.Point.Y != 0.5 {
		t.Errorf("label point = %v, want (0.5, 0.5)", label.Point)
	}
	if label.Elements.Len() == 0 {
		t.Error("label has no glyph indices")
	}
	if len(textMesh.Indices) == 0 {
		t.Error("text mesh empty")
	}
}

func TestTessellateMissingLayer(t *testing.T) {
	ts := newTestTessellator()
	tl := &tile.Tile{ID: maptile.New(0, 0, 0)}

	_, features, _, labelLayers := ts.Tessellate(tl)

	// Only the background survives an empty tile.
	if len(features) != 1 || features[0].Layer.Kind != style.Background {
		t.Errorf("features = %+v, want background only", features)
	}
	if len(labelLayers) != 0 {
		t.Errorf("label layers = %d, want 0", len(labelLayers))
	}
}

func TestTessellateAnchorOutsideTile(t *testing.T) {
	ts := newTestTessellator()
	tl := &tile.Tile{
		ID: maptile.New(0, 0, 0),
		Layers: []tile.Layer{{
			Name:   "places",
			Extent: 4096,
			Features: []tile.Feature{{
				Kind:       tile.KindPoint,
				Anchors:    []curve.Point{curve.Pt(-10, 2048), curve.Pt(5000, 2048)},
				Properties: geojson.Properties{"name": "Elsewhere"},
			}},
		}},
	}

	_, _, _, labelLayers := ts.Tessellate(tl)
	if len(labelLayers) != 0 {
		t.Errorf("labels placed for out-of-tile anchors: %+v", labelLayers)
	}
}

func TestTessellateDegenerateFeature(t *testing.T) {
	ts := newTestTessellator()
	tl := testTile()
	// Degenerate polygon next to a good one; only the good one draws.
	tl.Layers[0].Features = append(tl.Layers[0].Features, tile.Feature{
		Kind:  tile.KindPolygon,
		Rings: [][]curve.Point{{curve.Pt(0, 0), curve.Pt(1, 1)}},
	})

	geo, features, _, _ := ts.Tessellate(tl)
	if len(features) != 3 {
		t.Fatalf("feature draws = %d, want 3", len(features))
	}
	if len(geo.Indices) == 0 {
		t.Error("good features dropped along with the bad one")
	}
}
