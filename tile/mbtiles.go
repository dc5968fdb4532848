// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package tile

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/paulmach/orb/maptile"
)

// MBTilesSource reads gzip-compressed MVT blobs from an MBTiles database.
// It is safe for concurrent use; database/sql pools connections across
// tessellation workers.
type MBTilesSource struct {
	db *sql.DB
}

func OpenMBTiles(path string) (*MBTilesSource, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening mbtiles %q: %w", path, err)
	}
	// Fail early on a missing or non-MBTiles file.
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'tiles'").Scan(&n); err != nil || n == 0 {
		db.Close()
		if err == nil {
			err = fmt.Errorf("no tiles table")
		}
		return nil, fmt.Errorf("opening mbtiles %q: %w", path, err)
	}
	return &MBTilesSource{db: db}, nil
}

// QueryTile returns the decoded tile, or nil if the database has no entry
// for it. MBTiles stores rows in TMS order, so the y coordinate is
// flipped before lookup.
func (s *MBTilesSource) QueryTile(id maptile.Tile) (*Tile, error) {
	row := flipY(id)
	var blob []byte
	err := s.db.QueryRow(
		"SELECT tile_data FROM tiles WHERE zoom_level = ?1 AND tile_column = ?2 AND tile_row = ?3",
		id.Z, id.X, row,
	).Scan(&blob)
	switch {
	case err == sql.ErrNoRows:
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("querying tile %v: %w", id, err)
	}
	return Decode(id, blob)
}

func (s *MBTilesSource) Close() error {
	return s.db.Close()
}

func flipY(id maptile.Tile) uint32 {
	return (1 << uint32(id.Z)) - id.Y - 1
}
