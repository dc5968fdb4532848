// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package text

import (
	"image"
	"image/draw"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"honnef.co/go/tilemap/tmath"
)

// AtlasSize is the side length of the square glyph coverage atlas.
const AtlasSize = 1024

// AtlasEntry locates one glyph's coverage rectangle in the atlas.
type AtlasEntry struct {
	Offset tmath.V2[uint32]
	Dims   tmath.V2[uint32]
}

// UV returns the entry's texture coordinates in [0,1].
func (e AtlasEntry) UV() tmath.Rect[float32] {
	const inv = 1.0 / AtlasSize
	return tmath.NewRect(
		tmath.Vec2(float32(e.Offset.X)*inv, float32(e.Offset.Y)*inv),
		tmath.Vec2(float32(e.Offset.X+e.Dims.X)*inv, float32(e.Offset.Y+e.Dims.Y)*inv),
	)
}

// Atlas is a shelf-packed coverage bitmap shared by all labels. Safe for
// concurrent use; tessellation workers rasterize into it while the
// render loop uploads it.
type Atlas struct {
	mu        sync.Mutex
	img       *image.Gray
	entries   map[GlyphKey]AtlasEntry
	cursor    tmath.V2[uint32]
	rowHeight uint32
	version   uint64
}

func NewAtlas() *Atlas {
	return &Atlas{
		img:     image.NewGray(image.Rect(0, 0, AtlasSize, AtlasSize)),
		entries: make(map[GlyphKey]AtlasEntry),
	}
}

// Ensure rasterizes the glyph into the atlas if it is not already there.
// The second return value is false for glyphs the face cannot render.
func (a *Atlas) Ensure(face font.Face, key GlyphKey) (AtlasEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if entry, ok := a.entries[key]; ok {
		return entry, true
	}

	dr, mask, maskp, _, ok := face.Glyph(fixed.Point26_6{}, key.Rune)
	if !ok {
		return AtlasEntry{}, false
	}
	width := uint32(dr.Dx())
	height := uint32(dr.Dy())
	if width == 0 || height == 0 {
		// Whitespace-like glyph; nothing to sample.
		return AtlasEntry{}, false
	}

	if a.cursor.X+width >= AtlasSize {
		a.cursor.Y += a.rowHeight + 1
		a.cursor.X = 0
		a.rowHeight = 0
	}
	a.rowHeight = max(a.rowHeight, height)

	if a.cursor.Y+height >= AtlasSize {
		logrus.Warn("glyph atlas full, evicting all entries")
		clear(a.entries)
		a.cursor = tmath.V2[uint32]{}
		a.rowHeight = height
		draw.Draw(a.img, a.img.Bounds(), image.Black, image.Point{}, draw.Src)
	}

	target := image.Rect(
		int(a.cursor.X), int(a.cursor.Y),
		int(a.cursor.X+width), int(a.cursor.Y+height),
	)
	draw.Draw(a.img, target, mask, maskp, draw.Src)

	entry := AtlasEntry{
		Offset: a.cursor,
		Dims:   tmath.Vec2(width, height),
	}
	a.entries[key] = entry
	a.cursor.X += width + 1
	a.version++
	return entry, true
}

// WithPixels calls fn with the atlas pixels if the atlas changed since
// the given version, holding the atlas lock for the duration so workers
// cannot rasterize into pixels that are being uploaded. Returns the
// current version.
func (a *Atlas) WithPixels(since uint64, fn func(pix []uint8)) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.version != since {
		fn(a.img.Pix)
	}
	return a.version
}
