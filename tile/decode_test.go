// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package tile

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
)

func testLayers() mvt.Layers {
	road := geojson.NewFeature(orb.LineString{{0, 0}, {2048, 0}, {2048, 2048}})
	road.Properties = geojson.Properties{"name": "High Street"}

	lake := geojson.NewFeature(orb.Polygon{
		{{100, 100}, {500, 100}, {500, 500}, {100, 500}, {100, 100}},
	})

	city := geojson.NewFeature(orb.Point{1024, 1024})
	city.Properties = geojson.Properties{"name": "Springfield"}

	return mvt.Layers{
		{
			Name:     "roads",
			Version:  2,
			Extent:   4096,
			Features: []*geojson.Feature{road},
		},
		{
			Name:     "water",
			Version:  2,
			Extent:   4096,
			Features: []*geojson.Feature{lake},
		},
		{
			Name:     "places",
			Version:  2,
			Extent:   4096,
			Features: []*geojson.Feature{city},
		},
	}
}

func TestDecode(t *testing.T) {
	id := maptile.New(8, 5, 4)
	data, err := mvt.Marshal(testLayers())
	if err != nil {
		t.Fatal(err)
	}

	tl, err := Decode(id, data)
	if err != nil {
		t.Fatal(err)
	}
	if tl.ID != id {
		t.Errorf("ID = %v, want %v", tl.ID, id)
	}
	if len(tl.Layers) != 3 {
		t.Fatalf("layers = %d, want 3", len(tl.Layers))
	}

	roads := tl.Layer("roads")
	if roads == nil {
		t.Fatal("roads layer missing")
	}
	if roads.Extent != 4096 {
		t.Errorf("extent = %v, want 4096", roads.Extent)
	}
	if len(roads.Features) != 1 {
		t.Fatalf("road features = %d, want 1", len(roads.Features))
	}
	road := roads.Features[0]
	if road.Kind != KindLine {
		t.Errorf("kind = %v, want KindLine", road.Kind)
	}
	if len(road.Rings) != 1 || len(road.Rings[0]) != 3 {
		t.Fatalf("road rings = %v", road.Rings)
	}
	if got := road.Rings[0][1]; got.X != 2048 || got.Y != 0 {
		t.Errorf("road point = %v, want (2048, 0)", got)
	}
	if got, _ := road.Properties["name"].(string); got != "High Street" {
		t.Errorf("name = %q", got)
	}

	water := tl.Layer("water")
	if water == nil || len(water.Features) != 1 {
		t.Fatal("water layer missing")
	}
	if water.Features[0].Kind != KindPolygon {
		t.Errorf("kind = %v, want KindPolygon", water.Features[0].Kind)
	}

	places := tl.Layer("places")
	if places == nil || len(places.Features) != 1 {
		t.Fatal("places layer missing")
	}
	place := places.Features[0]
	if place.Kind != KindPoint {
		t.Errorf("kind = %v, want KindPoint", place.Kind)
	}
	if len(place.Anchors) != 1 {
		t.Fatalf("anchors = %v", place.Anchors)
	}
	if a := place.Anchors[0]; a.X != 1024 || a.Y != 1024 {
		t.Errorf("anchor = %v, want (1024, 1024)", a)
	}
}

func TestDecodeGzipped(t *testing.T) {
	data, err := mvt.MarshalGzipped(testLayers())
	if err != nil {
		t.Fatal(err)
	}
	tl, err := Decode(maptile.New(0, 0, 0), data)
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Layers) != 3 {
		t.Errorf("layers = %d, want 3", len(tl.Layers))
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode(maptile.New(0, 0, 0), []byte("not a tile")); err == nil {
		t.Error("expected error")
	}
}

func TestLayerLookup(t *testing.T) {
	tl := &Tile{Layers: []Layer{{Name: "a"}, {Name: "b"}}}
	if tl.Layer("b") == nil {
		t.Error("existing layer not found")
	}
	if tl.Layer("c") != nil {
		t.Error("missing layer found")
	}
}
