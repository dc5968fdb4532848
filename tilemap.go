// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package tilemap renders slippy-map frames from MBTiles vector data.
// It tessellates tile features into meshes on background workers,
// caches them on the GPU, and composes frames tile by tile: geometry in
// style z-order, then collision-culled labels on top.
//
// The package does not open windows or own the GPU: callers bring a
// device, a queue and a per-frame target texture view.
package tilemap

import (
	"fmt"

	"github.com/paulmach/orb/maptile"
	"golang.org/x/image/font"

	"honnef.co/go/tilemap/gpu"
	"honnef.co/go/tilemap/style"
	"honnef.co/go/tilemap/text"
	"honnef.co/go/tilemap/tmath"
	"honnef.co/go/wgpu"
)

// Config configures a Map. All fields are required unless noted.
type Config struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue
	// Format is the texture format of the views passed to Render.
	Format wgpu.TextureFormat
	Window tmath.V2[uint32]

	Style *style.Style
	// MBTiles is the path to the tile database. Each worker opens its
	// own read-only handle.
	MBTiles string
	// NewFace constructs a font face for a text size in pixels.
	NewFace func(size float64) font.Face

	// Workers is the number of tessellation goroutines. Zero means 2.
	Workers int
	// TileSize is the tile edge length in pixels at integer zoom.
	// Zero means 512.
	TileSize float64
}

// Map ties the camera, the tessellation workers and the renderer
// together.
type Map struct {
	camera   *Camera
	renderer *gpu.Renderer
	workers  *workerPool
	atlas    *text.Atlas
	clear    style.Color
}

func New(cfg Config) (*Map, error) {
	if cfg.Workers == 0 {
		cfg.Workers = 2
	}
	if cfg.TileSize == 0 {
		cfg.TileSize = 512
	}

	atlas := text.NewAtlas()
	fonts := text.NewFontCollection(cfg.NewFace)
	renderer := gpu.NewRenderer(cfg.Device, cfg.Queue, cfg.Format, cfg.Window)

	workers, err := newWorkerPool(cfg.Workers, cfg.MBTiles, renderer, func() *Tessellator {
		return NewTessellator(cfg.Style, fonts, atlas)
	})
	if err != nil {
		return nil, fmt.Errorf("starting tile workers: %w", err)
	}

	// The clear color shows wherever no tile mesh is ready yet; use the
	// first background layer so loading doesn't flash a foreign color.
	clear := style.Color{R: 0.79, G: 0.79, B: 0.79, A: 1}
	for _, l := range cfg.Style.Layers {
		if l.Kind == style.Background {
			clear = l.Paint.FillColor
			break
		}
	}

	return &Map{
		camera:   NewCamera(tmath.Splat(cfg.TileSize), cfg.Window, 0, 0, 0),
		renderer: renderer,
		workers:  workers,
		atlas:    atlas,
		clear:    clear,
	}, nil
}

// Camera exposes the view for panning and zooming.
func (m *Map) Camera() *Camera {
	return m.camera
}

func (m *Map) Resize(window tmath.V2[uint32]) {
	m.camera.Resize(window)
	m.renderer.Resize(window)
}

// Updates delivers tile IDs that finished tessellating since the last
// frame. Callers use it to schedule redraws.
func (m *Map) Updates() <-chan maptile.Tile {
	return m.workers.Done()
}

// Prefetch queues the viewport one zoom level towards targetZoom, so a
// zoom animation has meshes ready when it lands.
func (m *Map) Prefetch(targetZoom float64) {
	for _, id := range m.camera.NearbyTiles(targetZoom) {
		if !m.renderer.Has(id) {
			m.workers.Request(id)
		}
	}
}

// Render composes the current viewport into target. Tiles without a
// cached mesh are requested from the workers and skipped this frame.
func (m *Map) Render(target *wgpu.TextureView) {
	tiles := m.camera.Viewport()
	for _, td := range tiles {
		if !m.renderer.Has(td.ID) {
			m.workers.Request(td.ID)
		}
	}

	m.renderer.Render(target, &gpu.Frame{
		Window:     m.camera.Window(),
		Scale:      float32(m.camera.Scale()),
		ClearColor: m.clear,
		Tiles:      tiles,
	}, m.atlas)
}

// Close stops the workers and closes their database handles. GPU
// resources are released with the device.
func (m *Map) Close() error {
	return m.workers.Close()
}
