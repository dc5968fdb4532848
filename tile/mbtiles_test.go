// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package tile

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/maptile"
)

func writeMBTiles(t *testing.T, id maptile.Tile, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.mbtiles")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE tiles (zoom_level INTEGER, tile_column INTEGER, tile_row INTEGER, tile_data BLOB)"); err != nil {
		t.Fatal(err)
	}
	// MBTiles uses TMS row order.
	row := (uint32(1) << id.Z) - id.Y - 1
	if _, err := db.Exec("INSERT INTO tiles VALUES (?, ?, ?, ?)", id.Z, id.X, row, data); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMBTilesQuery(t *testing.T) {
	id := maptile.New(8, 5, 4)
	data, err := mvt.MarshalGzipped(testLayers())
	if err != nil {
		t.Fatal(err)
	}
	path := writeMBTiles(t, id, data)

	src, err := OpenMBTiles(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	tl, err := src.QueryTile(id)
	if err != nil {
		t.Fatal(err)
	}
	if tl == nil {
		t.Fatal("stored tile not found")
	}
	if tl.ID != id {
		t.Errorf("ID = %v, want %v", tl.ID, id)
	}
	if tl.Layer("roads") == nil {
		t.Error("decoded tile missing roads layer")
	}

	// Absent tiles are not an error.
	missing, err := src.QueryTile(maptile.New(0, 0, 4))
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Error("absent tile returned data")
	}
}

func TestOpenMBTilesMissing(t *testing.T) {
	if _, err := OpenMBTiles(filepath.Join(t.TempDir(), "nope.mbtiles")); err == nil {
		t.Error("expected error for missing database")
	}
}
