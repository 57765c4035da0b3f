// Package gjk answers whether two convex sets overlap with the
// Gilbert-Johnson-Keerthi algorithm.
//
// The test walks a simplex through the Minkowski difference A - B toward
// the origin. The sets overlap exactly when the difference contains the
// origin, which GJK proves by enclosing it in a tetrahedron, or disproves
// as soon as a support point fails to pass the origin.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
package gjk

import (
	"github.com/go-gl/mathgl/mgl64"
)

// MaxIterations bounds the simplex refinement loop
const MaxIterations = 32

// Convex is any world-space convex set described by its support function
type Convex interface {
	SupportWorld(direction mgl64.Vec3) mgl64.Vec3
}

// Simplex holds 1-4 points of the Minkowski difference, newest last
type Simplex struct {
	Points [4]mgl64.Vec3
	Count  int
}

func (s *Simplex) push(p mgl64.Vec3) {
	s.Points[s.Count] = p
	s.Count++
}

func (s *Simplex) set(points ...mgl64.Vec3) {
	s.Count = copy(s.Points[:], points)
}

// MinkowskiSupport computes furthest(A, d) - furthest(B, -d)
func MinkowskiSupport(a, b Convex, direction mgl64.Vec3) mgl64.Vec3 {
	return a.SupportWorld(direction).Sub(b.SupportWorld(direction.Mul(-1)))
}

// Intersect reports whether a and b overlap. Touching counts as overlap.
// centerA and centerB seed the first search direction.
func Intersect(a, b Convex, centerA, centerB mgl64.Vec3) bool {
	_, hit := GJK(a, b, centerA, centerB)
	return hit
}

// GJK runs the overlap test and returns the final simplex. On overlap the
// simplex usually encloses the origin with four points; it holds fewer when
// the origin lies on one of its features.
func GJK(a, b Convex, centerA, centerB mgl64.Vec3) (Simplex, bool) {
	var simplex Simplex

	direction := centerB.Sub(centerA)
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	simplex.push(MinkowskiSupport(a, b, direction))
	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-16 {
		return simplex, true
	}

	for range MaxIterations {
		point := MinkowskiSupport(a, b, direction)
		// The new point does not pass the origin: separated
		if point.Dot(direction) < 0 {
			return simplex, false
		}

		simplex.push(point)
		if refine(&simplex, &direction) {
			return simplex, true
		}
		if direction.LenSqr() < 1e-16 {
			// Origin lies on the current feature
			return simplex, true
		}
	}

	return simplex, false
}

// refine keeps the simplex feature closest to the origin and points
// direction at the origin from it. It returns true once the origin is enclosed.
func refine(s *Simplex, direction *mgl64.Vec3) bool {
	switch s.Count {
	case 2:
		return line(s, direction)
	case 3:
		return triangle(s, direction)
	case 4:
		return tetrahedron(s, direction)
	}
	return false
}

func line(s *Simplex, direction *mgl64.Vec3) bool {
	a, b := s.Points[1], s.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-8 || ab.Dot(ao) <= 0 {
		s.set(a)
		*direction = ao
		return ao.LenSqr() < 1e-8
	}

	*direction = ab.Cross(ao).Cross(ab)
	return direction.LenSqr() < 1e-8
}

func triangle(s *Simplex, direction *mgl64.Vec3) bool {
	a, b, c := s.Points[2], s.Points[1], s.Points[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)
	abc := ab.Cross(ac)

	// Collinear: fall back to the newest edge
	if abc.LenSqr() < 1e-10 {
		s.set(b, a)
		return line(s, direction)
	}

	if ab.Cross(abc).Dot(ao) > 0 {
		s.set(b, a)
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}
	if abc.Cross(ac).Dot(ao) > 0 {
		s.set(c, a)
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	if abc.Dot(ao) > 0 {
		*direction = abc
	} else {
		// Wind the triangle so its normal faces the origin
		s.set(b, c, a)
		*direction = abc.Mul(-1)
	}
	return false
}

func tetrahedron(s *Simplex, direction *mgl64.Vec3) bool {
	a, b, c, d := s.Points[3], s.Points[2], s.Points[1], s.Points[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	faces := [3]struct {
		normal   mgl64.Vec3
		opposite mgl64.Vec3
		keep     [3]mgl64.Vec3
	}{
		{ab.Cross(ac), ad, [3]mgl64.Vec3{c, b, a}},
		{ac.Cross(ad), ab, [3]mgl64.Vec3{d, c, a}},
		{ad.Cross(ab), ac, [3]mgl64.Vec3{b, d, a}},
	}

	for _, face := range faces {
		normal := face.normal
		if normal.LenSqr() < 1e-10 {
			s.set(c, b, a)
			return triangle(s, direction)
		}
		// Face normals must point away from the fourth vertex
		if normal.Dot(face.opposite) > 0 {
			normal = normal.Mul(-1)
		}
		if normal.Dot(ao) > 0 {
			s.set(face.keep[:]...)
			return triangle(s, direction)
		}
	}

	return true
}
