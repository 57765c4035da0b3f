package collide

import (
	"math"

	"github.com/akmonengine/dice/actor"
	"github.com/akmonengine/dice/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// BoxPoint writes a contact when a world point owned by pointBody lies
// inside the box. The normal is the outward normal of the nearest face, so
// resolving pushes the point's body out of the box.
func BoxPoint(box actor.OrientedBox, point mgl64.Vec3, pointBody *actor.RigidBody, buffer *constraint.Buffer) int {
	if buffer.Full() {
		return 0
	}

	relative := point.Sub(box.Center)
	depth := -1.0
	var normal mgl64.Vec3
	for i := 0; i < 3; i++ {
		projection := relative.Dot(box.Axes[i])
		d := box.HalfExtents[i] - math.Abs(projection)
		if d < 0 {
			return 0
		}
		if depth < 0 || d < depth {
			depth = d
			normal = box.Axes[i].Mul(actor.Sign(projection))
		}
	}

	return appendPointContact(pointBody, box.Body, point, normal, depth, buffer)
}

// PointContact is BoxPoint generalized to any proxy shape
func PointContact(proxy *actor.ShapeProxy, point mgl64.Vec3, pointBody *actor.RigidBody, buffer *constraint.Buffer) int {
	if proxy.Kind == actor.ShapeKindBox {
		return BoxPoint(proxy.Box, point, pointBody, buffer)
	}
	if buffer.Full() || !proxy.Body.Shape.GetAABB().Expand(proxy.Tolerance()).ContainsPoint(point) {
		return 0
	}

	body := proxy.Body
	depth, localNormal, inside := body.Shape.PointDepth(body.WorldToLocal(point))
	if !inside {
		return 0
	}

	return appendPointContact(pointBody, body, point, body.Transform.DirectionToWorld(localNormal), depth, buffer)
}

func appendPointContact(pointBody, container *actor.RigidBody, point, normal mgl64.Vec3, depth float64, buffer *constraint.Buffer) int {
	contact := constraint.Contact{
		BodyA:       pointBody,
		BodyB:       container,
		Point:       point,
		Normal:      normal,
		Penetration: depth,
	}
	if !buffer.Add(contact) {
		return 0
	}
	return 1
}
