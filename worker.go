// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package tilemap

import (
	"sync"

	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"

	"honnef.co/go/tilemap/gpu"
	"honnef.co/go/tilemap/tile"
)

// workerPool tessellates tiles in the background. Each worker owns its
// own MBTiles handle and tessellator; finished meshes are uploaded
// straight to the renderer and the tile ID is published exactly once on
// the done channel.
type workerPool struct {
	requests chan maptile.Tile
	done     chan maptile.Tile

	mu       sync.Mutex
	inflight map[maptile.Tile]struct{}

	wg      sync.WaitGroup
	sources []*tile.MBTilesSource
}

func newWorkerPool(n int, mbtiles string, renderer *gpu.Renderer, newTess func() *Tessellator) (*workerPool, error) {
	p := &workerPool{
		requests: make(chan maptile.Tile, 256),
		done:     make(chan maptile.Tile, 256),
		inflight: make(map[maptile.Tile]struct{}),
	}
	for i := 0; i < n; i++ {
		src, err := tile.OpenMBTiles(mbtiles)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.sources = append(p.sources, src)
		p.wg.Add(1)
		go p.worker(src, renderer, newTess())
	}
	return p, nil
}

// Request queues a tile for tessellation. Tiles already queued or being
// worked on are not queued again; a full queue drops the request, the
// next frame will retry.
func (p *workerPool) Request(id maptile.Tile) {
	p.mu.Lock()
	if _, ok := p.inflight[id]; ok {
		p.mu.Unlock()
		return
	}
	p.inflight[id] = struct{}{}
	p.mu.Unlock()

	select {
	case p.requests <- id:
	default:
		p.mu.Lock()
		delete(p.inflight, id)
		p.mu.Unlock()
	}
}

// Done delivers IDs of tiles whose meshes were uploaded. Receiving is
// optional; publication never blocks a worker.
func (p *workerPool) Done() <-chan maptile.Tile {
	return p.done
}

func (p *workerPool) worker(src *tile.MBTilesSource, renderer *gpu.Renderer, tess *Tessellator) {
	defer p.wg.Done()
	for id := range p.requests {
		p.process(src, renderer, tess, id)

		p.mu.Lock()
		delete(p.inflight, id)
		p.mu.Unlock()

		select {
		case p.done <- id:
		default:
		}
	}
}

func (p *workerPool) process(src *tile.MBTilesSource, renderer *gpu.Renderer, tess *Tessellator, id maptile.Tile) {
	tl, err := src.QueryTile(id)
	if err != nil {
		logrus.WithFields(logrus.Fields{"tile": id, "err": err}).Warn("tile query failed")
		return
	}
	if tl == nil {
		tl = &tile.Tile{ID: id}
	}

	// Absent tiles upload an empty mesh so they aren't re-requested
	// every frame.
	geo, features, textMesh, labelLayers := tess.Tessellate(tl)
	renderer.Upload(id, geo, features, textMesh, labelLayers)
}

func (p *workerPool) Close() error {
	close(p.requests)
	p.wg.Wait()
	var first error
	for _, src := range p.sources {
		if err := src.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
