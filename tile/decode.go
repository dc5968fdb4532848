// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package tile

import (
	"bytes"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"
	"honnef.co/go/curve"
)

var gzipMagic = []byte{0x1f, 0x8b}

const defaultExtent = 4096

// Decode parses a Mapbox Vector Tile blob, optionally gzip-compressed.
// Geometry stays in the layer's extent space. Features whose geometry
// cannot be represented are dropped with a warning; a bad feature never
// fails the tile.
func Decode(id maptile.Tile, data []byte) (*Tile, error) {
	var layers mvt.Layers
	var err error
	if bytes.HasPrefix(data, gzipMagic) {
		layers, err = mvt.UnmarshalGzipped(data)
	} else {
		layers, err = mvt.Unmarshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding tile %v: %w", id, err)
	}

	t := &Tile{ID: id}
	for _, layer := range layers {
		extent := float64(layer.Extent)
		if extent == 0 {
			extent = defaultExtent
		}
		out := Layer{Name: layer.Name, Extent: extent}
		for _, f := range layer.Features {
			feat, ok := convertFeature(f)
			if !ok {
				logrus.WithFields(logrus.Fields{
					"tile":  id,
					"layer": layer.Name,
				}).Warn("dropping feature with unsupported geometry")
				continue
			}
			out.Features = append(out.Features, feat)
		}
		t.Layers = append(t.Layers, out)
	}
	return t, nil
}

func convertFeature(f *geojson.Feature) (Feature, bool) {
	switch g := f.Geometry.(type) {
	case orb.Point:
		return Feature{
			Kind:       KindPoint,
			Anchors:    []curve.Point{toPoint(g)},
			Properties: f.Properties,
		}, true
	case orb.MultiPoint:
		anchors := make([]curve.Point, len(g))
		for i, p := range g {
			anchors[i] = toPoint(p)
		}
		return Feature{
			Kind:       KindPoint,
			Anchors:    anchors,
			Properties: f.Properties,
		}, true
	case orb.LineString:
		return Feature{
			Kind:       KindLine,
			Rings:      [][]curve.Point{toRing(g)},
			Properties: f.Properties,
		}, true
	case orb.MultiLineString:
		rings := make([][]curve.Point, len(g))
		for i, ls := range g {
			rings[i] = toRing(ls)
		}
		return Feature{
			Kind:       KindLine,
			Rings:      rings,
			Properties: f.Properties,
		}, true
	case orb.Polygon:
		return Feature{
			Kind:       KindPolygon,
			Rings:      polygonRings(g),
			Properties: f.Properties,
		}, true
	case orb.MultiPolygon:
		// Flattened; the tessellator re-groups rings by winding.
		var rings [][]curve.Point
		for _, poly := range g {
			rings = append(rings, polygonRings(poly)...)
		}
		return Feature{
			Kind:       KindPolygon,
			Rings:      rings,
			Properties: f.Properties,
		}, true
	default:
		return Feature{}, false
	}
}

func polygonRings(poly orb.Polygon) [][]curve.Point {
	rings := make([][]curve.Point, len(poly))
	for i, ring := range poly {
		rings[i] = toRing(orb.LineString(ring))
	}
	return rings
}

func toRing(ls orb.LineString) []curve.Point {
	out := make([]curve.Point, len(ls))
	for i, p := range ls {
		out[i] = toPoint(p)
	}
	return out
}

func toPoint(p orb.Point) curve.Point {
	return curve.Pt(p[0], p[1])
}
