package alder

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Growth animates a finished tree sprouting from its trunk. It tweens a
// depth frontier from 0 to just past the deepest branch; branches below the
// frontier are shown full length, branches at the frontier are length-
// clipped so tips visibly extend, and deeper branches are hidden.
//
// There is no global animation manager — callers pump Update each frame and
// draw Visible(), mirroring how tweens work elsewhere in this package's
// ecosystem.
type Growth struct {
	branches []Branch
	tween    *gween.Tween
	frontier float32
	visible  []Branch // reused scratch returned by Visible
	Done     bool
}

// NewGrowth creates a growth animation over branches lasting duration
// seconds with the given easing function.
func NewGrowth(branches []Branch, duration float32, fn ease.TweenFunc) *Growth {
	maxDepth := 0
	for _, b := range branches {
		if b.Depth > maxDepth {
			maxDepth = b.Depth
		}
	}
	return &Growth{
		branches: branches,
		tween:    gween.New(0, float32(maxDepth)+1, duration, fn),
		visible:  make([]Branch, 0, len(branches)),
	}
}

// Update advances the animation by dt seconds.
func (g *Growth) Update(dt float32) {
	if g.Done {
		return
	}
	val, finished := g.tween.Update(dt)
	g.frontier = val
	g.Done = finished
}

// Visible returns the branches to draw at the current frontier. The
// returned slice is reused between calls; copy it if it must outlive the
// next Update/Visible cycle.
func (g *Growth) Visible() []Branch {
	g.visible = g.visible[:0]
	whole := int(g.frontier)
	t := float64(g.frontier) - float64(whole)
	for _, b := range g.branches {
		switch {
		case b.Depth < whole:
			g.visible = append(g.visible, b)
		case b.Depth == whole:
			clipped := b
			clipped.End = b.Start.Add(b.End.Sub(b.Start).Mul(t))
			clipped.EndRadius = b.StartRadius + (b.EndRadius-b.StartRadius)*t
			g.visible = append(g.visible, clipped)
		}
	}
	return g.visible
}
