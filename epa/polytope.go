package epa

import (
	"sync"

	"github.com/akmonengine/dice/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const polytopeInitialCapacity = 16

// polytope is the convex hull expanded inside the Minkowski difference.
// Its buffers survive between runs through polytopePool.
type polytope struct {
	faces    []Face
	vertices []mgl64.Vec3
	edges    []edge
	visible  []int
}

var polytopePool = sync.Pool{
	New: func() interface{} {
		return &polytope{
			faces:    make([]Face, 0, polytopeInitialCapacity),
			vertices: make([]mgl64.Vec3, 0, polytopeInitialCapacity),
			edges:    make([]edge, 0, polytopeInitialCapacity),
			visible:  make([]int, 0, polytopeInitialCapacity),
		}
	},
}

func (p *polytope) reset() {
	p.faces = p.faces[:0]
	p.vertices = p.vertices[:0]
	p.edges = p.edges[:0]
	p.visible = p.visible[:0]
}

// build seeds the polytope with the four faces of a tetrahedron simplex
func (p *polytope) build(simplex gjk.Simplex) {
	p0, p1, p2, p3 := simplex.Points[0], simplex.Points[1], simplex.Points[2], simplex.Points[3]

	candidates := [4]Face{
		newFace(p0, p1, p2, p3),
		newFace(p0, p2, p3, p1),
		newFace(p0, p3, p1, p2),
		newFace(p1, p3, p2, p0),
	}

	p.faces = append(p.faces, candidates[:]...)
}

// closest returns the index of the face nearest to the origin, -1 when empty
func (p *polytope) closest() int {
	if len(p.faces) == 0 {
		return -1
	}

	index := 0
	for i := 1; i < len(p.faces); i++ {
		if p.faces[i].Distance < p.faces[index].Distance {
			index = i
		}
	}
	return index
}

// centroid averages the distinct vertices of the polytope
func (p *polytope) centroid() mgl64.Vec3 {
	p.vertices = p.vertices[:0]
	for i := range p.faces {
		for _, v := range p.faces[i].Points {
			if !p.hasVertex(v) {
				p.vertices = append(p.vertices, v)
			}
		}
	}

	if len(p.vertices) == 0 {
		return mgl64.Vec3{}
	}

	var sum mgl64.Vec3
	for _, v := range p.vertices {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(len(p.vertices)))
}

func (p *polytope) hasVertex(v mgl64.Vec3) bool {
	for _, known := range p.vertices {
		if vec3Equal(known, v) {
			return true
		}
	}
	return false
}

// expand adds support to the hull: faces that see it are replaced by a fan
// joining their boundary to the new point
func (p *polytope) expand(support mgl64.Vec3, closest int) {
	centroid := p.centroid()

	p.visible = p.visible[:0]
	for i := range p.faces {
		face := &p.faces[i]
		if support.Sub(face.Points[0]).Dot(face.Normal) > 0 {
			p.visible = append(p.visible, i)
		}
	}
	// Keep at least one face standing
	if len(p.visible) >= len(p.faces) {
		p.visible = append(p.visible[:0], closest)
	}

	p.collectBoundary()
	p.removeVisible()

	for _, e := range p.edges {
		if e.Count == 1 {
			p.faces = append(p.faces, newFace(e.A, e.B, support, centroid))
		}
	}

	if len(p.faces) == 0 {
		p.faces = append(p.faces, Face{
			Points:   [3]mgl64.Vec3{support, support, support},
			Normal:   mgl64.Vec3{0, 1, 0},
			Distance: MinFaceDistance,
		})
	}
}

// collectBoundary counts the edges of the visible faces. Edges seen once
// bound the hole left by removing them.
func (p *polytope) collectBoundary() {
	p.edges = p.edges[:0]

	for _, index := range p.visible {
		face := &p.faces[index]
		for i := 0; i < 3; i++ {
			a, b := normalizeEdge(face.Points[i], face.Points[(i+1)%3])
			if j := p.findEdge(a, b); j >= 0 {
				p.edges[j].Count++
				continue
			}
			p.edges = append(p.edges, edge{A: a, B: b, Count: 1})
		}
	}
}

func (p *polytope) findEdge(a, b mgl64.Vec3) int {
	for i := range p.edges {
		if vec3Equal(p.edges[i].A, a) && vec3Equal(p.edges[i].B, b) {
			return i
		}
	}
	return -1
}

// removeVisible drops visible faces with swap-with-last, highest index first
func (p *polytope) removeVisible() {
	for i := 0; i < len(p.visible)-1; i++ {
		for j := i + 1; j < len(p.visible); j++ {
			if p.visible[i] < p.visible[j] {
				p.visible[i], p.visible[j] = p.visible[j], p.visible[i]
			}
		}
	}

	for _, index := range p.visible {
		if index < len(p.faces) {
			p.faces[index] = p.faces[len(p.faces)-1]
			p.faces = p.faces[:len(p.faces)-1]
		}
	}
}
