// Package epa measures how deep two overlapping convex shapes interpenetrate
// with the Expanding Polytope Algorithm, and clips their facing features
// into a contact manifold.
//
// EPA starts from the simplex GJK left around the origin and grows it
// inside the Minkowski difference A - B. The face of the final polytope
// closest to the origin gives the minimum translation: its normal points
// from A toward B and its distance is the penetration depth.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/dice/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxIterations bounds polytope expansion
	MaxIterations = 32

	// ConvergenceTolerance stops expansion once a new support point moves
	// the closest face by less than this distance
	ConvergenceTolerance = 0.001

	// MinFaceDistance is the floor on face distances, touching shapes
	// report it as their depth
	MinFaceDistance = 0.0001

	// NormalSnapThreshold clamps near-zero normal components to zero
	NormalSnapThreshold = 1e-8

	// degenerateTolerance is the smallest offset accepted when completing
	// a flat simplex into a tetrahedron
	degenerateTolerance = 1e-9
)

var (
	ErrNoConvergence     = errors.New("epa: polytope did not converge")
	ErrDegenerateSimplex = errors.New("epa: simplex cannot be completed to a tetrahedron")
)

// Result is the minimum translation separating two shapes
type Result struct {
	// Normal points from A toward B. Moving B by Normal*Depth separates them.
	Normal mgl64.Vec3
	Depth  float64
}

var searchDirections = [6]mgl64.Vec3{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Penetration expands simplex, the overlap proof returned by gjk.GJK, until
// the closest face of the Minkowski difference is found.
func Penetration(a, b gjk.Convex, simplex gjk.Simplex) (Result, error) {
	if simplex.Count < 4 {
		var err error
		if simplex, err = completeSimplex(a, b, simplex); err != nil {
			return Result{}, err
		}
	}

	hull := polytopePool.Get().(*polytope)
	defer polytopePool.Put(hull)
	hull.reset()
	hull.build(simplex)

	for range MaxIterations {
		index := hull.closest()
		if index < 0 {
			break
		}
		face := hull.faces[index]

		support := gjk.MinkowskiSupport(a, b, face.Normal)
		if support.Dot(face.Normal)-face.Distance < ConvergenceTolerance {
			return Result{Normal: face.Normal, Depth: face.Distance}, nil
		}

		hull.expand(support, index)
	}

	return Result{}, fmt.Errorf("%w after %d iterations", ErrNoConvergence, MaxIterations)
}

// completeSimplex grows a simplex that GJK stopped early, because the
// origin fell on one of its features, into a tetrahedron of the Minkowski
// difference
func completeSimplex(a, b gjk.Convex, simplex gjk.Simplex) (gjk.Simplex, error) {
	points := make([]mgl64.Vec3, simplex.Count, 4)
	copy(points, simplex.Points[:simplex.Count])

	if len(points) == 0 {
		points = append(points, gjk.MinkowskiSupport(a, b, searchDirections[0]))
	}

	if len(points) == 1 {
		for _, direction := range searchDirections {
			p := gjk.MinkowskiSupport(a, b, direction)
			if p.Sub(points[0]).Len() > degenerateTolerance {
				points = append(points, p)
				break
			}
		}
	}

	if len(points) == 2 {
		line := points[1].Sub(points[0]).Normalize()
	lineSearch:
		for _, axis := range searchDirections {
			direction := line.Cross(axis)
			if direction.Len() < degenerateTolerance {
				continue
			}
			for _, d := range [2]mgl64.Vec3{direction, direction.Mul(-1)} {
				p := gjk.MinkowskiSupport(a, b, d)
				if p.Sub(points[0]).Cross(line).Len() > degenerateTolerance {
					points = append(points, p)
					break lineSearch
				}
			}
		}
	}

	if len(points) == 3 {
		normal := points[1].Sub(points[0]).Cross(points[2].Sub(points[0]))
		if normal.Len() > degenerateTolerance {
			normal = normal.Normalize()
			for _, d := range [2]mgl64.Vec3{normal, normal.Mul(-1)} {
				p := gjk.MinkowskiSupport(a, b, d)
				if math.Abs(p.Sub(points[0]).Dot(normal)) > degenerateTolerance {
					points = append(points, p)
					break
				}
			}
		}
	}

	if len(points) < 4 {
		return simplex, ErrDegenerateSimplex
	}

	complete := gjk.Simplex{Count: 4}
	copy(complete.Points[:], points)

	return complete, nil
}
