package collide

import (
	"github.com/akmonengine/dice/actor"
	"github.com/akmonengine/dice/constraint"
	"github.com/akmonengine/dice/epa"
	"github.com/akmonengine/dice/gjk"
)

// ShapeShape writes the contacts between two proxies. AABB and GJK checks
// reject separated pairs, EPA measures the overlap and the facing features
// are clipped into up to four contacts. When EPA cannot resolve the
// overlap, every vertex of one shape found inside the other becomes a
// point contact instead.
func ShapeShape(a, b *actor.ShapeProxy, buffer *constraint.Buffer) int {
	if buffer.Full() || a.Body == b.Body {
		return 0
	}
	if !a.Body.Shape.GetAABB().Overlaps(b.Body.Shape.GetAABB()) {
		return 0
	}
	simplex, hit := gjk.GJK(a, b, a.Body.Transform.Position, b.Body.Transform.Position)
	if !hit {
		return 0
	}

	if result, err := epa.Penetration(a, b, simplex); err == nil {
		return manifoldContacts(a, b, result, buffer)
	}

	return vertexContacts(a, b, buffer)
}

// manifoldContacts writes the clipped manifold. The EPA normal points from
// a toward b, so b is the body pushed along it.
func manifoldContacts(a, b *actor.ShapeProxy, result epa.Result, buffer *constraint.Buffer) int {
	written := 0
	for _, point := range epa.Manifold(a, b, result.Normal, result.Depth) {
		contact := constraint.Contact{
			BodyA:       b.Body,
			BodyB:       a.Body,
			Point:       point.Position,
			Normal:      result.Normal,
			Penetration: point.Penetration,
		}
		if !buffer.Add(contact) {
			return written
		}
		written++
	}

	return written
}

func vertexContacts(a, b *actor.ShapeProxy, buffer *constraint.Buffer) int {
	written := 0
	for _, vertex := range b.Vertices() {
		if buffer.Full() {
			return written
		}
		written += PointContact(a, vertex, b.Body, buffer)
	}
	for _, vertex := range a.Vertices() {
		if buffer.Full() {
			return written
		}
		written += PointContact(b, vertex, a.Body, buffer)
	}

	return written
}
