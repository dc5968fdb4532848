// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpu

import (
	"sync"

	"github.com/paulmach/orb/maptile"
)

// cacheGeneration is how many meshes the young generation holds before
// the cache rotates. Rotation drops the old generation, so the cache
// retains between one and two generations' worth of tiles.
const cacheGeneration = 1000

// tileCache keeps uploaded tile meshes in two generations. A hit in the
// old generation promotes the mesh; rotation releases everything that
// was not touched during the last generation's lifetime.
type tileCache struct {
	mu      sync.Mutex
	entries map[maptile.Tile]*TileMesh
	older   map[maptile.Tile]*TileMesh
}

func newTileCache() *tileCache {
	return &tileCache{
		entries: make(map[maptile.Tile]*TileMesh),
		older:   make(map[maptile.Tile]*TileMesh),
	}
}

func (c *tileCache) get(id maptile.Tile) *TileMesh {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.entries[id]; ok {
		return m
	}
	if m, ok := c.older[id]; ok {
		delete(c.older, id)
		c.entries[id] = m
		return m
	}
	return nil
}

func (c *tileCache) has(id maptile.Tile) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]
	if !ok {
		_, ok = c.older[id]
	}
	return ok
}

func (c *tileCache) insert(m *TileMesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.entries[m.ID]; ok {
		old.release()
	} else if old, ok := c.older[m.ID]; ok {
		old.release()
		delete(c.older, m.ID)
	}
	c.entries[m.ID] = m
	if len(c.entries) > cacheGeneration {
		for _, dead := range c.older {
			dead.release()
		}
		c.older = c.entries
		c.entries = make(map[maptile.Tile]*TileMesh)
	}
}
