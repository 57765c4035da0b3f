// Package collide holds the narrow-phase routines and the policy choosing
// which bounding volume of a body collides with the ground.
//
// Every routine appends to a shared constraint.Buffer, stops when the
// buffer is full and returns how many contacts it wrote.
package collide

import (
	"github.com/akmonengine/dice/actor"
	"github.com/akmonengine/dice/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// SphereHalfSpace writes at most one contact between a sphere and the plane
func SphereHalfSpace(sphere actor.BoundingSphere, plane actor.Plane, buffer *constraint.Buffer) int {
	if buffer.Full() {
		return 0
	}

	distance := plane.Normal.Dot(sphere.Center) - sphere.Radius - plane.Offset
	if distance >= buffer.Material.Tolerance {
		return 0
	}

	contact := constraint.Contact{
		BodyA:       sphere.Body,
		Normal:      plane.Normal,
		Penetration: -distance,
		Point:       sphere.Center.Sub(plane.Normal.Mul(distance + sphere.Radius)),
	}
	if !buffer.Add(contact) {
		return 0
	}

	return 1
}

// BoxHalfSpace writes one contact per box corner lying below the plane
func BoxHalfSpace(box actor.OrientedBox, plane actor.Plane, buffer *constraint.Buffer) int {
	return ConvexHalfSpace(box.Body, box.Vertices(), plane, buffer)
}

// ConvexHalfSpace tests every world vertex of a many-vertex shape against
// the plane. Contact points are projected onto the plane.
func ConvexHalfSpace(body *actor.RigidBody, vertices []mgl64.Vec3, plane actor.Plane, buffer *constraint.Buffer) int {
	written := 0
	for _, vertex := range vertices {
		if buffer.Full() {
			break
		}

		distance := plane.Normal.Dot(vertex)
		if distance > plane.Offset+buffer.Material.Tolerance {
			continue
		}

		contact := constraint.Contact{
			BodyA:       body,
			Normal:      plane.Normal,
			Penetration: plane.Offset - distance,
			Point:       vertex.Add(plane.Normal.Mul(plane.Offset - distance)),
		}
		if buffer.Add(contact) {
			written++
		}
	}

	return written
}
