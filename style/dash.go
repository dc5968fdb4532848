// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package style

import (
	"github.com/sirupsen/logrus"
)

// MaxDashEntries is the capacity of the dash array in the line draw
// constants. Styles with longer patterns are truncated.
const MaxDashEntries = 8

// Dash is a line dash pattern: alternating on/off segment lengths,
// measured in line widths. An empty pattern means a solid line.
type Dash struct {
	segments [MaxDashEntries]float32
	n        int
	total    float32
}

// NewDash builds a dash pattern from alternating on/off lengths. Patterns
// longer than MaxDashEntries are truncated with a warning; the draw is
// still issued with the truncated pattern.
func NewDash(lengths ...float32) Dash {
	var d Dash
	if len(lengths) > MaxDashEntries {
		logrus.WithFields(logrus.Fields{
			"entries": len(lengths),
			"max":     MaxDashEntries,
		}).Warn("dash pattern truncated")
		lengths = lengths[:MaxDashEntries]
	}
	for i, l := range lengths {
		d.segments[i] = l
		d.total += l
	}
	d.n = len(lengths)
	return d
}

// Len reports the number of entries. Zero means no dashing.
func (d Dash) Len() int { return d.n }

// Total is the precomputed sum of all entries, the length of one full
// pattern cycle.
func (d Dash) Total() float32 { return d.total }

// Segments returns the fixed-capacity dash array as packed into draw
// constants. Entries past Len are zero.
func (d Dash) Segments() [MaxDashEntries]float32 { return d.segments }

// Visible reports whether a pixel at the given advancement along the line
// is painted. This mirrors the fragment-stage dash walk: the cycle start
// is floor(adv/total)*total, entries accumulate from there, and the first
// entry whose end lies past the advancement decides. An advancement
// landing exactly on a segment boundary belongs to the segment that
// starts there. Odd entries are gaps.
func (d Dash) Visible(advancement float32) bool {
	if d.n == 0 || d.total <= 0 {
		return true
	}
	cycles := float32(int(advancement / d.total))
	end := cycles * d.total
	for i := 0; i < d.n; i++ {
		end += d.segments[i]
		if end > advancement {
			return i%2 == 0
		}
	}
	// Floating-point shortfall at the end of a cycle; the last entry wins.
	return (d.n-1)%2 == 0
}
