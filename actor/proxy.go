package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OrientedBox is the world-space box bounding a proxy, derived from its body
type OrientedBox struct {
	Body        *RigidBody
	HalfExtents mgl64.Vec3
	Center      mgl64.Vec3
	// Axes are the world directions of the body's local x, y and z axes
	Axes [3]mgl64.Vec3
}

// ProjectedRadius is the half-width of the box projected onto direction
func (b OrientedBox) ProjectedRadius(direction mgl64.Vec3) float64 {
	return math.Abs(b.HalfExtents.X()*direction.Dot(b.Axes[0])) +
		math.Abs(b.HalfExtents.Y()*direction.Dot(b.Axes[1])) +
		math.Abs(b.HalfExtents.Z()*direction.Dot(b.Axes[2]))
}

// Vertices returns the eight world-space corners
func (b OrientedBox) Vertices() []mgl64.Vec3 {
	vertices := make([]mgl64.Vec3, 0, 8)
	for _, sx := range [2]float64{-1, 1} {
		for _, sy := range [2]float64{-1, 1} {
			for _, sz := range [2]float64{-1, 1} {
				v := b.Center.
					Add(b.Axes[0].Mul(sx * b.HalfExtents.X())).
					Add(b.Axes[1].Mul(sy * b.HalfExtents.Y())).
					Add(b.Axes[2].Mul(sz * b.HalfExtents.Z()))
				vertices = append(vertices, v)
			}
		}
	}
	return vertices
}

// BoundingSphere is a world-space sphere sharing the proxy's body
type BoundingSphere struct {
	Body   *RigidBody
	Center mgl64.Vec3
	Radius float64
}

// ShapeProxy wraps a rigid body with its collision shape and the bounding
// volumes used to pick a contact source. The proxy owns the body and the
// sphere.
type ShapeProxy struct {
	Kind ShapeKind
	Body *RigidBody
	Box  OrientedBox
	// Sphere is nil when the proxy carries no bounding sphere
	Sphere *BoundingSphere
	// SphereScale multiplies the largest half-extent to size the sphere.
	// It is a tunable, it does not guarantee containment of a rotated box.
	SphereScale float64
}

// NewBoxProxy builds a dynamic box body of the given mass. A positive
// sphereScale adds a bounding sphere of radius max(halfExtents)*sphereScale.
func NewBoxProxy(transform Transform, halfExtents mgl64.Vec3, mass, sphereScale float64) *ShapeProxy {
	body := NewRigidBody(transform, &Box{HalfExtents: halfExtents}, BodyTypeDynamic, 1.0)
	body.SetMass(mass)

	return newProxy(ShapeKindBox, body, halfExtents, sphereScale)
}

// NewOctahedronProxy builds a dynamic octahedron body. Its oriented box is
// the local cube of half-extent radius that encloses it.
func NewOctahedronProxy(transform Transform, radius, mass, sphereScale float64) *ShapeProxy {
	body := NewRigidBody(transform, &Octahedron{Radius: radius}, BodyTypeDynamic, 1.0)
	body.SetMass(mass)

	return newProxy(ShapeKindOctahedron, body, mgl64.Vec3{radius, radius, radius}, sphereScale)
}

func newProxy(kind ShapeKind, body *RigidBody, halfExtents mgl64.Vec3, sphereScale float64) *ShapeProxy {
	p := &ShapeProxy{
		Kind:        kind,
		Body:        body,
		Box:         OrientedBox{Body: body, HalfExtents: halfExtents},
		SphereScale: sphereScale,
	}
	if sphereScale > 0 {
		largest := math.Max(halfExtents.X(), math.Max(halfExtents.Y(), halfExtents.Z()))
		p.Sphere = &BoundingSphere{Body: body, Radius: largest * sphereScale}
	}
	p.Update()

	return p
}

// Update re-derives the body data and both bounding volumes
func (p *ShapeProxy) Update() {
	p.Body.CalculateDerivedData()

	t := p.Body.Transform
	p.Box.Center = t.Position
	for i := 0; i < 3; i++ {
		p.Box.Axes[i] = t.Axis(i)
	}
	if p.Sphere != nil {
		p.Sphere.Center = t.Position
	}
}

// ContainsPoint reports whether a world point lies inside the collision
// shape. Points within SurfaceTolerance of the surface count as inside.
func (p *ShapeProxy) ContainsPoint(point mgl64.Vec3) bool {
	if !p.Body.Shape.GetAABB().Expand(p.Tolerance()).ContainsPoint(point) {
		return false
	}
	_, _, inside := p.Body.Shape.PointDepth(p.Body.WorldToLocal(point))

	return inside
}

// Tolerance is the surface slack of the proxy, scaled by its largest
// half-extent
func (p *ShapeProxy) Tolerance() float64 {
	h := p.Box.HalfExtents
	return SurfaceTolerance(math.Max(h.X(), math.Max(h.Y(), h.Z())))
}

// ContactFeature returns the world-space feature of the shape facing
// direction: a face for boxes and octahedra, a point for smooth shapes
func (p *ShapeProxy) ContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	body := p.Body
	local := body.Shape.ContactFeature(body.Transform.DirectionToLocal(direction))
	for i, v := range local {
		local[i] = body.LocalToWorld(v)
	}
	return local
}

// Vertices returns the world-space corners of the collision shape
func (p *ShapeProxy) Vertices() []mgl64.Vec3 {
	local := p.Body.Shape.Vertices()
	world := make([]mgl64.Vec3, len(local))
	for i, v := range local {
		world[i] = p.Body.LocalToWorld(v)
	}
	return world
}

// SupportWorld lets a proxy act as a convex set for GJK
func (p *ShapeProxy) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	return p.Body.SupportWorld(direction)
}
