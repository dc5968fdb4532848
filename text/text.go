// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package text lays out label strings into positioned glyphs and keeps a
// CPU-side coverage atlas for them. Font rasterization goes through
// golang.org/x/image/font; the GPU-side atlas texture lives in package
// gpu and mirrors this one.
package text

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"honnef.co/go/tilemap/tmath"
)

// GlyphKey identifies one rasterized glyph in the atlas.
type GlyphKey struct {
	Rune rune
	Size float32
}

// Glyph is one positioned glyph of a laid-out label. Bounds is in pixels
// relative to the label origin, y growing down, the first line's
// baseline at y=0.
type Glyph struct {
	Bounds tmath.Rect[float32]
	Key    GlyphKey
}

// Line is one wrapped line of a label.
type Line struct {
	Width  float32
	Glyphs []Glyph
}

// Label is a laid-out text block. Bounds spans all lines; positions are
// in pixels at the label's text size.
type Label struct {
	Size   float32
	Lines  []Line
	Bounds tmath.Rect[float32]
}

// Glyphs iterates over all glyphs of all lines.
func (l *Label) Glyphs(yield func(Glyph) bool) {
	for _, line := range l.Lines {
		for _, g := range line.Glyphs {
			if !yield(g) {
				return
			}
		}
	}
}

// FontCollection hands out font faces by text size. Faces returned by
// the factory must be safe to use from one goroutine at a time; the
// collection serializes access.
type FontCollection struct {
	mu      sync.Mutex
	newFace func(size float64) font.Face
	faces   map[float32]font.Face
}

func NewFontCollection(newFace func(size float64) font.Face) *FontCollection {
	return &FontCollection{
		newFace: newFace,
		faces:   make(map[float32]font.Face),
	}
}

func (fc *FontCollection) Face(size float32) font.Face {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	face, ok := fc.faces[size]
	if !ok {
		face = fc.newFace(float64(size))
		fc.faces[size] = face
	}
	return face
}

// Layout shapes a label string: kerned glyph placement, wrapping at
// spaces once a line exceeds maxWidth (and at explicit newlines), and
// centering of shorter lines under the widest one. Returns nil if the
// string produces no drawable glyphs.
func (fc *FontCollection) Layout(s string, size, maxWidth float32) *Label {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	face := fc.faces[size]
	if face == nil {
		face = fc.newFace(float64(size))
		fc.faces[size] = face
	}

	vAdvance := f26_6(face.Metrics().Height)

	var (
		lines      []Line
		glyphs     []Glyph
		hOffset    float32
		vOffset    float32
		widestLine float32
		prev       rune
		havePrev   bool
	)
	boundsMin := tmath.Splat[float32](posInf)
	boundsMax := tmath.Splat[float32](negInf)

	runes := []rune(s)
	for idx, r := range runes {
		if ((hOffset > maxWidth && r == ' ') || r == '\n') && idx+2 < len(runes) {
			widestLine = max(widestLine, hOffset)
			lines = append(lines, Line{Width: hOffset, Glyphs: glyphs})
			glyphs = nil
			havePrev = false
			hOffset = 0
			vOffset += vAdvance
			continue
		}
		if r < ' ' {
			havePrev = false
			continue
		}

		bounds, advance, ok := face.GlyphBounds(r)
		if !ok {
			havePrev = false
			continue
		}

		var kern float32
		if havePrev {
			kern = f26_6(face.Kern(prev, r))
		}
		prev = r
		havePrev = true

		min := tmath.Vec2(f26_6(bounds.Min.X)+hOffset+kern, f26_6(bounds.Min.Y)+vOffset)
		max_ := tmath.Vec2(f26_6(bounds.Max.X)+hOffset+kern, f26_6(bounds.Max.Y)+vOffset)

		boundsMin = boundsMin.Min(min)
		boundsMax = boundsMax.Max(max_)

		if r != ' ' {
			glyphs = append(glyphs, Glyph{
				Bounds: tmath.NewRect(min, max_),
				Key:    GlyphKey{Rune: r, Size: size},
			})
		}

		hOffset += f26_6(advance)
	}

	if len(glyphs) > 0 {
		widestLine = max(widestLine, hOffset)
		lines = append(lines, Line{Width: hOffset, Glyphs: glyphs})
	}
	if len(lines) == 0 {
		return nil
	}

	if len(lines) > 1 {
		for _, line := range lines {
			adj := (widestLine - line.Width) / 2
			for i := range line.Glyphs {
				line.Glyphs[i].Bounds.Min.X += adj
				line.Glyphs[i].Bounds.Max.X += adj
			}
		}
	}

	return &Label{
		Size:   size,
		Lines:  lines,
		Bounds: tmath.NewRect(boundsMin, boundsMax),
	}
}

func f26_6(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

var (
	posInf = float32(1e38)
	negInf = float32(-1e38)
)
