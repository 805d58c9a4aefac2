package alder

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultSides is the ring resolution used for branch cylinders when a
// caller passes a non-positive side count.
const DefaultSides = 6

// TreeMesh is host-neutral triangle geometry: one position and outward
// normal per vertex, three indices per triangle. Hosts upload it to
// whatever GPU or file pipeline they own; alder never renders it.
type TreeMesh struct {
	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3
	Indices   []uint32
}

// BranchMesh triangulates one branch as an open tapered tube: a ring of
// sides vertices at each end, quads split into two triangles between them.
// For S sides that is 2S vertices and 6S indices. Sides below 3 fall back
// to DefaultSides.
func BranchMesh(b Branch, sides int) TreeMesh {
	if sides < 3 {
		sides = DefaultSides
	}
	var m TreeMesh
	appendBranch(&m, b, sides)
	return m
}

// appendBranch writes one branch tube into m, offsetting indices past any
// geometry already present.
func appendBranch(m *TreeMesh, b Branch, sides int) {
	axis := b.Direction()
	if axis == (mgl64.Vec3{}) {
		// Zero-length branch: nothing sensible to triangulate.
		return
	}
	u, v := perpendicularBasis(axis)

	base := uint32(len(m.Positions))
	rings := [2]struct {
		center mgl64.Vec3
		radius float64
	}{
		{b.Start, b.StartRadius},
		{b.End, b.EndRadius},
	}
	for _, ring := range rings {
		for i := 0; i < sides; i++ {
			theta := 2 * math.Pi * float64(i) / float64(sides)
			s, c := math.Sincos(theta)
			normal := u.Mul(c).Add(v.Mul(s))
			m.Positions = append(m.Positions, ring.center.Add(normal.Mul(ring.radius)))
			m.Normals = append(m.Normals, normal)
		}
	}

	for i := 0; i < sides; i++ {
		next := (i + 1) % sides
		a0 := base + uint32(i)
		a1 := base + uint32(next)
		b0 := base + uint32(sides+i)
		b1 := base + uint32(sides+next)
		m.Indices = append(m.Indices,
			a0, b0, a1,
			a1, b0, b1,
		)
	}
}

// perpendicularBasis returns two unit vectors that, with axis, form a
// right-handed orthonormal frame. The reference axis flips near-parallel
// cases so the cross product never degenerates.
func perpendicularBasis(axis mgl64.Vec3) (u, v mgl64.Vec3) {
	ref := mgl64.Vec3{0, 0, 1}
	if math.Abs(axis.Dot(ref)) > 0.99 {
		ref = mgl64.Vec3{1, 0, 0}
	}
	u = axis.Cross(ref).Normalize()
	v = axis.Cross(u)
	return u, v
}

// MeshEmitter is an [Emitter] that accumulates every received branch into
// one combined TreeMesh, ready for a 3D host. Zero value is usable.
type MeshEmitter struct {
	// Sides is the ring resolution per branch. Non-positive means
	// DefaultSides.
	Sides int
	Mesh  TreeMesh
}

// Emit triangulates b and appends it to the accumulated mesh.
func (e *MeshEmitter) Emit(b Branch) {
	sides := e.Sides
	if sides < 3 {
		sides = DefaultSides
	}
	appendBranch(&e.Mesh, b, sides)
}

// --- 2D projection host (Ebitengine) ---

// Camera is a minimal orthographic view for the 2D example hosts: yaw spins
// the scene about the world Z (up) axis, pitch tilts it toward the viewer,
// and Scale converts world units to pixels. The world is Z-up, matching the
// turtle's default heading.
type Camera struct {
	Target     mgl64.Vec3 // world point mapped to screen center
	Yaw, Pitch float64    // radians
	Scale      float64    // pixels per world unit
	ScreenW    float64
	ScreenH    float64
}

// Project maps a world point to screen coordinates plus a view depth
// (larger is farther from the viewer).
func (c Camera) Project(p mgl64.Vec3) (x, y, depth float64) {
	w := p.Sub(c.Target)
	sy, cy := math.Sincos(c.Yaw)
	vx := w[0]*cy - w[1]*sy
	vy := w[0]*sy + w[1]*cy
	vz := w[2]
	sp, cp := math.Sincos(c.Pitch)
	depth = vy*cp - vz*sp
	elev := vy*sp + vz*cp
	return c.ScreenW/2 + vx*c.Scale, c.ScreenH/2 - elev*c.Scale, depth
}

// ProjectBranches flattens a branch list into a vertex/index pair for
// [ebiten.Image.DrawTriangles]: one ribbon quad per branch, width taken
// from the projected radii so taper survives projection, drawn back to
// front so nearer branches cover farther ones. Pair it with a 1x1 white
// source image and tint via the vertex colors.
//
// Index space is 16-bit, so keep trees under 16384 branches per draw.
func ProjectBranches(branches []Branch, cam Camera) ([]ebiten.Vertex, []uint16) {
	// Painter's order: farther branch midpoints first.
	order := make([]int, len(branches))
	mid := make([]float64, len(branches))
	for i, b := range branches {
		order[i] = i
		_, _, ds := cam.Project(b.Start)
		_, _, de := cam.Project(b.End)
		mid[i] = (ds + de) / 2
	}
	sort.SliceStable(order, func(a, b int) bool { return mid[order[a]] > mid[order[b]] })

	verts := make([]ebiten.Vertex, 0, len(branches)*4)
	indices := make([]uint16, 0, len(branches)*6)
	for _, bi := range order {
		b := branches[bi]
		sx, syc, _ := cam.Project(b.Start)
		ex, eyc, _ := cam.Project(b.End)

		// Screen-space perpendicular, same construction as a ribbon mesh.
		dx := ex - sx
		dy := eyc - syc
		ln := math.Hypot(dx, dy)
		if ln < 1e-9 {
			continue
		}
		px := -dy / ln
		py := dx / ln

		sw := b.StartRadius * cam.Scale
		ew := b.EndRadius * cam.Scale

		base := uint16(len(verts))
		for _, corner := range [4]struct {
			x, y float64
		}{
			{sx + px*sw, syc + py*sw},
			{sx - px*sw, syc - py*sw},
			{ex + px*ew, eyc + py*ew},
			{ex - px*ew, eyc - py*ew},
		} {
			verts = append(verts, ebiten.Vertex{
				DstX:   float32(corner.x),
				DstY:   float32(corner.y),
				ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
			})
		}
		indices = append(indices,
			base, base+1, base+2,
			base+1, base+3, base+2,
		)
	}
	return verts, indices
}
