package epa

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Face is a triangle of the expanding polytope
type Face struct {
	Points [3]mgl64.Vec3
	// Normal points away from the polytope interior
	Normal mgl64.Vec3
	// Distance from the origin to the face plane, never below MinFaceDistance
	Distance float64
}

// newFace builds the face p0 p1 p2 with its normal turned away from
// opposite, a point known to lie inside the polytope.
func newFace(p0, p1, p2, opposite mgl64.Vec3) Face {
	face := Face{Points: [3]mgl64.Vec3{p0, p1, p2}}

	normal := p1.Sub(p0).Cross(p2.Sub(p0))
	length := normal.Len()
	if length < 1e-8 {
		// Zero area
		face.Normal = mgl64.Vec3{0, 1, 0}
		face.Distance = MinFaceDistance
		return face
	}
	normal = normal.Mul(1 / length)

	if normal.Dot(opposite.Sub(p0)) > 0 {
		normal = normal.Mul(-1)
	}

	distance := p0.Dot(normal)
	if distance < 0 {
		normal = normal.Mul(-1)
		distance = -distance
	}

	face.Normal = snapNormalToAxis(normal)
	face.Distance = math.Max(distance, MinFaceDistance)

	return face
}

// edge is a polytope edge stored with its endpoints in compareVec3 order,
// so both windings of a shared edge collapse onto one entry
type edge struct {
	A, B  mgl64.Vec3
	Count int
}

func normalizeEdge(a, b mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	if compareVec3(a, b) > 0 {
		return b, a
	}
	return a, b
}

// compareVec3 orders vectors lexicographically by x, then y, then z
func compareVec3(a, b mgl64.Vec3) int {
	for i := 0; i < 3; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// vec3Equal is exact: polytope vertices are shared by value, never recomputed
func vec3Equal(a, b mgl64.Vec3) bool {
	return a[0] == b[0] && a[1] == b[1] && a[2] == b[2]
}

// snapNormalToAxis zeroes components below NormalSnapThreshold and
// renormalizes, so axis-aligned contacts keep exact axis normals
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	for i := 0; i < 3; i++ {
		if math.Abs(normal[i]) < NormalSnapThreshold {
			normal[i] = 0
		}
	}

	length := normal.Len()
	if length < 1e-8 {
		return mgl64.Vec3{0, 1, 0}
	}

	return normal.Mul(1 / length)
}
