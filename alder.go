package alder

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrConfig is the sentinel for configuration errors: malformed rule
// weights, unbalanced push/pop symbols, or non-finite/non-positive numeric
// parameters. Weight problems surface at [NewRuleSet] time; everything else
// surfaces before any geometry is emitted.
var ErrConfig = errors.New("configuration error")

// ErrResource is the sentinel for safety-bound violations: an iteration
// count above [ExpandConfig.MaxIterations] or an expansion longer than
// [ExpandConfig.MaxLength]. L-system strings grow combinatorially with
// iteration count, so both bounds exist to stop careless inputs before they
// exhaust memory. Recoverable by the caller; never a partial result.
var ErrResource = errors.New("resource limit exceeded")

// Branch is one emitted tree segment: a tapered cylinder from Start to End.
// Branches are write-once values; the interpreter hands them to the host and
// never revisits them.
type Branch struct {
	Start, End  mgl64.Vec3
	StartRadius float64
	EndRadius   float64
	// Depth is the push/pop nesting level the branch was drawn at.
	// The trunk is depth 0.
	Depth int
}

// Length returns the segment length.
func (b Branch) Length() float64 {
	return b.End.Sub(b.Start).Len()
}

// Direction returns the unit vector from Start toward End.
// Returns the zero vector for a degenerate zero-length branch.
func (b Branch) Direction() mgl64.Vec3 {
	d := b.End.Sub(b.Start)
	l := d.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return d.Mul(1 / l)
}

// Emitter receives branches as the interpreter produces them. This is the
// seam between the core and any host geometry system: a renderer, a mesh
// builder, or a test collector all plug in here.
//
// Emit is only called after the symbol string has been validated, so a
// failing interpretation never delivers a partial tree.
type Emitter interface {
	Emit(Branch)
}

// BranchCollector is the trivial Emitter: it appends every branch to
// Branches. Useful in tests and as the backing for [Interpret].
type BranchCollector struct {
	Branches []Branch
}

// Emit appends b to the collector.
func (c *BranchCollector) Emit(b Branch) {
	c.Branches = append(c.Branches, b)
}
