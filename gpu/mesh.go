// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpu

import (
	"github.com/paulmach/orb/maptile"

	"honnef.co/go/safeish"
	"honnef.co/go/tilemap/style"
	"honnef.co/go/tilemap/tess"
	"honnef.co/go/wgpu"
)

// FeatureDraw is one draw of a tile mesh: the index range produced for
// one style layer, plus what's needed to pack its draw constants. Fill
// and line triangles of the same layer share a range; the per-vertex
// fill kind picks the color.
type FeatureDraw struct {
	Layer *style.Layer

	// Extent is the tile-local coordinate range of the geometry, 1 for
	// geometry authored in the unit square.
	Extent   float32
	Elements tess.Range
}

// LabelLayerDraw is the placed labels of one symbol layer in one tile,
// in placement order.
type LabelLayerDraw struct {
	Layer  *style.Layer
	Labels []tess.LabelGeometry
}

// TileMesh is one tile's geometry uploaded to the device. Meshes are
// built on worker goroutines; buffer creation and writes only touch the
// device and queue, which are safe for concurrent use.
type TileMesh struct {
	ID maptile.Tile

	geoVertices *wgpu.Buffer
	geoIndices  *wgpu.Buffer
	features    []FeatureDraw

	textVertices *wgpu.Buffer
	textIndices  *wgpu.Buffer
	labelLayers  []LabelLayerDraw
}

// NewTileMesh uploads a tile's tessellated geometry. The mesh slices are
// copied to the device; the caller may reuse them afterwards. Either
// mesh may be empty.
func NewTileMesh(
	dev *wgpu.Device,
	queue *wgpu.Queue,
	id maptile.Tile,
	geo *tess.Mesh,
	features []FeatureDraw,
	text *tess.TextMesh,
	labelLayers []LabelLayerDraw,
) *TileMesh {
	m := &TileMesh{
		ID:          id,
		features:    features,
		labelLayers: labelLayers,
	}
	if len(geo.Indices) > 0 {
		m.geoVertices = uploadBuffer(dev, queue, "tile geometry vertices",
			wgpu.BufferUsageVertex, safeish.SliceCast[[]byte](geo.Vertices))
		m.geoIndices = uploadBuffer(dev, queue, "tile geometry indices",
			wgpu.BufferUsageIndex, safeish.SliceCast[[]byte](geo.Indices))
	}
	if len(text.Indices) > 0 {
		m.textVertices = uploadBuffer(dev, queue, "tile text vertices",
			wgpu.BufferUsageVertex, safeish.SliceCast[[]byte](text.Vertices))
		m.textIndices = uploadBuffer(dev, queue, "tile text indices",
			wgpu.BufferUsageIndex, safeish.SliceCast[[]byte](text.Indices))
	}
	return m
}

func uploadBuffer(dev *wgpu.Device, queue *wgpu.Queue, label string, usage wgpu.BufferUsage, data []byte) *wgpu.Buffer {
	buf := dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	queue.WriteBuffer(buf, 0, data)
	return buf
}

func (m *TileMesh) release() {
	for _, buf := range []*wgpu.Buffer{m.geoVertices, m.geoIndices, m.textVertices, m.textIndices} {
		if buf != nil {
			buf.Release()
		}
	}
}
