package epa

import (
	"math"

	"github.com/akmonengine/dice/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// MaxManifoldPoints caps the contacts reported for one pair
const MaxManifoldPoints = 4

// clipTolerance keeps vertices lying on a clipping plane
const clipTolerance = 1e-6

// Featured is a convex shape that can report the world-space feature it
// presents along a direction: a polygon for faceted shapes, one point for
// smooth ones
type Featured interface {
	gjk.Convex
	ContactFeature(direction mgl64.Vec3) []mgl64.Vec3
}

// Point is one world-space contact of a manifold
type Point struct {
	Position    mgl64.Vec3
	Penetration float64
}

// Manifold clips the features of a and b facing each other along normal,
// which points from a toward b, into at most MaxManifoldPoints contacts.
//
// The feature with fewer points is the incident one. It is clipped
// against the side planes of the reference feature with Sutherland-Hodgman,
// then only points inside the reference shape are kept.
func Manifold(a, b Featured, normal mgl64.Vec3, depth float64) []Point {
	featureA := a.ContactFeature(normal)
	featureB := b.ContactFeature(normal.Mul(-1))

	incident, reference := featureB, featureA
	// outward is the reference shape's outward direction at its feature
	outward := normal
	if len(featureA) < len(featureB) {
		incident, reference = featureA, featureB
		outward = normal.Mul(-1)
	}

	if len(incident) == 1 {
		return []Point{{Position: incident[0], Penetration: depth}}
	}

	clipped := clipIncidentAgainstReference(incident, reference, normal)
	points := keepInsideReference(clipped, reference, outward, depth)

	if len(points) == 0 {
		deepest := b.SupportWorld(normal.Mul(-1))
		points = append(points, Point{Position: deepest, Penetration: depth})
	}
	if len(points) > MaxManifoldPoints {
		points = reduceTo4Points(points, normal)
	}

	return points
}

// clipIncidentAgainstReference trims incident to the prism swept by the
// reference polygon along normal
func clipIncidentAgainstReference(incident, reference []mgl64.Vec3, normal mgl64.Vec3) []mgl64.Vec3 {
	if len(reference) < 2 {
		return incident
	}

	center := computeCenter(reference)
	output := incident
	for i := 0; i < len(reference) && len(output) > 0; i++ {
		v1 := reference[i]
		v2 := reference[(i+1)%len(reference)]

		clipNormal := v2.Sub(v1).Cross(normal)
		if clipNormal.Len() < 1e-12 {
			continue
		}
		clipNormal = clipNormal.Normalize()
		// Side planes face the inside of the reference polygon
		if center.Sub(v1).Dot(clipNormal) < 0 {
			clipNormal = clipNormal.Mul(-1)
		}

		output = clipPolygonAgainstPlane(output, v1, clipNormal)
	}

	return output
}

// clipPolygonAgainstPlane keeps the part of polygon on the positive side
// of the plane through planePoint
func clipPolygonAgainstPlane(polygon []mgl64.Vec3, planePoint, planeNormal mgl64.Vec3) []mgl64.Vec3 {
	if len(polygon) == 0 {
		return polygon
	}

	output := make([]mgl64.Vec3, 0, len(polygon)+1)
	for i := 0; i < len(polygon); i++ {
		current := polygon[i]
		next := polygon[(i+1)%len(polygon)]

		currentDist := current.Sub(planePoint).Dot(planeNormal)
		nextDist := next.Sub(planePoint).Dot(planeNormal)

		if currentDist >= -clipTolerance {
			output = append(output, current)
			if nextDist < -clipTolerance {
				output = append(output, lineIntersectPlane(current, next, planePoint, planeNormal))
			}
		} else if nextDist >= -clipTolerance {
			output = append(output, lineIntersectPlane(current, next, planePoint, planeNormal))
		}
	}

	return output
}

// keepInsideReference drops clipped points lying outside the reference
// face plane, whose outside is along outward
func keepInsideReference(clipped, reference []mgl64.Vec3, outward mgl64.Vec3, depth float64) []Point {
	if len(clipped) == 0 || len(reference) < 3 {
		return nil
	}

	planeNormal := reference[1].Sub(reference[0]).Cross(reference[2].Sub(reference[0]))
	if planeNormal.Len() < 1e-12 {
		return nil
	}
	planeNormal = planeNormal.Normalize()
	if planeNormal.Dot(outward) < 0 {
		planeNormal = planeNormal.Mul(-1)
	}
	offset := reference[0].Dot(planeNormal)

	var points []Point
	for _, p := range clipped {
		if p.Dot(planeNormal)-offset <= clipTolerance {
			points = append(points, Point{Position: p, Penetration: depth})
		}
	}

	return points
}

// lineIntersectPlane intersects the segment p1 p2 with a plane, clamped to
// the segment
func lineIntersectPlane(p1, p2, planePoint, planeNormal mgl64.Vec3) mgl64.Vec3 {
	dir := p2.Sub(p1)
	denom := dir.Dot(planeNormal)
	if math.Abs(denom) < 1e-10 {
		// Parallel
		return p1
	}

	t := -p1.Sub(planePoint).Dot(planeNormal) / denom
	t = math.Max(0, math.Min(1, t))

	return p1.Add(dir.Mul(t))
}

func computeCenter(points []mgl64.Vec3) mgl64.Vec3 {
	if len(points) == 0 {
		return mgl64.Vec3{}
	}

	var sum mgl64.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}

func getTangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	tangent1 := mgl64.Vec3{1, 0, 0}
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}

// reduceTo4Points keeps the extreme points along the two tangents of
// normal, in their input order
func reduceTo4Points(points []Point, normal mgl64.Vec3) []Point {
	tangent1, tangent2 := getTangentBasis(normal)

	var extremes [4]int
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		x := p.Position.Dot(tangent1)
		y := p.Position.Dot(tangent2)

		if x < minX {
			minX, extremes[0] = x, i
		}
		if x > maxX {
			maxX, extremes[1] = x, i
		}
		if y < minY {
			minY, extremes[2] = y, i
		}
		if y > maxY {
			maxY, extremes[3] = y, i
		}
	}

	result := make([]Point, 0, MaxManifoldPoints)
	for i, p := range points {
		for _, e := range extremes {
			if e == i {
				result = append(result, p)
				break
			}
		}
	}

	return result
}
