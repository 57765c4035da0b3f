package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind tags the collision geometry carried by a ShapeProxy
type ShapeKind int

const (
	ShapeKindBox ShapeKind = iota
	ShapeKindOctahedron
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeKindBox:
		return "box"
	case ShapeKindOctahedron:
		return "octahedron"
	}
	return "unknown"
}

// ShapeInterface is the interface that all collision shapes must implement.
// Every query is expressed in the shape's local space.
type ShapeInterface interface {
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// ComputeMass calculates mass data for the shape given a density
	ComputeMass(density float64) float64
	ComputeInertia(mass float64) mgl64.Mat3
	Support(direction mgl64.Vec3) mgl64.Vec3
	// PointDepth reports how deep a local point lies inside the shape and the
	// outward local normal of the closest surface. inside is false when the
	// point lies outside the shape.
	PointDepth(point mgl64.Vec3) (depth float64, normal mgl64.Vec3, inside bool)
	// Vertices returns the shape's corner points, nil for smooth shapes
	Vertices() []mgl64.Vec3
	// ContactFeature returns the local face most aligned with direction, or
	// a single point for smooth shapes
	ContactFeature(direction mgl64.Vec3) []mgl64.Vec3
}

// SurfaceEpsilon is the relative slack granted to points on a surface, so a
// point rotated onto a face still reads as inside.
const SurfaceEpsilon = 1e-9

// SurfaceTolerance scales SurfaceEpsilon by the size of a shape
func SurfaceTolerance(extent float64) float64 {
	return SurfaceEpsilon * math.Max(1, extent)
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) ComputeAABB(transform Transform) {
	b.aabb = aabbOf(b.Vertices(), transform)
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

// ComputeMass calculates mass data for the box
func (b *Box) ComputeMass(density float64) float64 {
	// Volume = 8 * hx * hy * hz (full dimensions are 2*halfExtents)
	volume := 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()

	return density * volume
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// I = (m/12) * (d1² + d2²)
	factor := mass / 12.0

	return mgl64.Diag3(mgl64.Vec3{
		factor * (y*y + z*z),
		factor * (x*x + z*z),
		factor * (x*x + y*y),
	})
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

// PointDepth finds the face of least penetration along each local axis
func (b *Box) PointDepth(point mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	depth := math.MaxFloat64
	var normal mgl64.Vec3
	tolerance := SurfaceTolerance(b.largestExtent())

	for i := 0; i < 3; i++ {
		d := b.HalfExtents[i] - math.Abs(point[i])
		if d < -tolerance {
			return 0, mgl64.Vec3{}, false
		}
		if d < depth {
			depth = d
			normal = mgl64.Vec3{}
			normal[i] = Sign(point[i])
		}
	}

	return math.Max(depth, 0), normal, true
}

// ContactFeature returns the four corners of the face whose normal is
// closest to direction
func (b *Box) ContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	axis := dominantAxis(direction)
	j, k := (axis+1)%3, (axis+2)%3

	corners := [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	face := make([]mgl64.Vec3, 0, 4)
	for _, c := range corners {
		var v mgl64.Vec3
		v[axis] = Sign(direction[axis]) * b.HalfExtents[axis]
		v[j] = c[0] * b.HalfExtents[j]
		v[k] = c[1] * b.HalfExtents[k]
		face = append(face, v)
	}

	return face
}

func (b *Box) largestExtent() float64 {
	return math.Max(b.HalfExtents.X(), math.Max(b.HalfExtents.Y(), b.HalfExtents.Z()))
}

func (b *Box) Vertices() []mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	return []mgl64.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{-hx, +hy, -hz},
		{+hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{-hx, +hy, +hz},
		{+hx, +hy, +hz},
	}
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

// ComputeMass calculates mass data for the sphere
func (s *Sphere) ComputeMass(density float64) float64 {
	// Volume of sphere = (4/3) * π * r³
	volume := (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)

	return density * volume
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	// I = (2/5) * m * r², identical on every axis
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() < 1e-16 {
		return mgl64.Vec3{}
	}
	return direction.Normalize().Mul(s.Radius)
}

func (s *Sphere) PointDepth(point mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	dist := point.Len()
	if dist > s.Radius+SurfaceTolerance(s.Radius) {
		return 0, mgl64.Vec3{}, false
	}
	if dist < 1e-12 {
		return s.Radius, mgl64.Vec3{0, 1, 0}, true
	}

	return math.Max(s.Radius-dist, 0), point.Mul(1 / dist), true
}

func (s *Sphere) ContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	return []mgl64.Vec3{s.Support(direction)}
}

func (s *Sphere) Vertices() []mgl64.Vec3 {
	return nil
}

// Octahedron is the eight-faced die: vertices sit on the local axes at
// Radius from the center, so the solid is |x|+|y|+|z| <= Radius.
type Octahedron struct {
	Radius float64
	aabb   AABB
}

func (o *Octahedron) ComputeAABB(transform Transform) {
	o.aabb = aabbOf(o.Vertices(), transform)
}

func (o *Octahedron) GetAABB() AABB {
	return o.aabb
}

func (o *Octahedron) ComputeMass(density float64) float64 {
	// Volume = (4/3) * r³
	return density * (4.0 / 3.0) * o.Radius * o.Radius * o.Radius
}

func (o *Octahedron) ComputeInertia(mass float64) mgl64.Mat3 {
	// I = m * r² / 5 on every axis
	i := mass * o.Radius * o.Radius / 5.0

	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}

func (o *Octahedron) Support(direction mgl64.Vec3) mgl64.Vec3 {
	best := dominantAxis(direction)

	var support mgl64.Vec3
	support[best] = Sign(direction[best]) * o.Radius

	return support
}

func (o *Octahedron) PointDepth(point mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	sum := math.Abs(point.X()) + math.Abs(point.Y()) + math.Abs(point.Z())
	if sum > o.Radius+SurfaceTolerance(o.Radius) {
		return 0, mgl64.Vec3{}, false
	}

	// Distance to the face plane n·p = r/√3, with n = sign(p)/√3
	normal := mgl64.Vec3{Sign(point.X()), Sign(point.Y()), Sign(point.Z())}.Mul(1 / math.Sqrt(3))

	return math.Max(o.Radius-sum, 0) / math.Sqrt(3), normal, true
}

// ContactFeature returns the triangular face in the octant of direction
func (o *Octahedron) ContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	r := o.Radius

	return []mgl64.Vec3{
		{Sign(direction.X()) * r, 0, 0},
		{0, Sign(direction.Y()) * r, 0},
		{0, 0, Sign(direction.Z()) * r},
	}
}

func (o *Octahedron) Vertices() []mgl64.Vec3 {
	r := o.Radius

	return []mgl64.Vec3{
		{r, 0, 0}, {-r, 0, 0},
		{0, r, 0}, {0, -r, 0},
		{0, 0, r}, {0, 0, -r},
	}
}

// Plane is the ground halfspace: points with Normal·p <= Offset are inside.
// Normal must be normalized.
type Plane struct {
	Normal mgl64.Vec3
	Offset float64
}

// Distance is the signed distance of p above the plane
func (p Plane) Distance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) - p.Offset
}

func aabbOf(vertices []mgl64.Vec3, transform Transform) AABB {
	if len(vertices) == 0 {
		return AABB{Min: transform.Position, Max: transform.Position}
	}

	min := transform.LocalToWorld(vertices[0])
	max := min
	for _, v := range vertices[1:] {
		world := transform.LocalToWorld(v)
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], world[i])
			max[i] = math.Max(max[i], world[i])
		}
	}

	return AABB{Min: min, Max: max}
}

// Sign is -1 for negative values and 1 otherwise, zero included
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func dominantAxis(v mgl64.Vec3) int {
	best := 0
	for i := 1; i < 3; i++ {
		if math.Abs(v[i]) > math.Abs(v[best]) {
			best = i
		}
	}
	return best
}
