package collide

import (
	"github.com/akmonengine/dice/actor"
	"github.com/akmonengine/dice/constraint"
)

// Source names the bounding volume whose routine generated the ground contacts
type Source int

const (
	SourceNone Source = iota
	SourceBox
	SourceSphere
)

func (s Source) String() string {
	switch s {
	case SourceBox:
		return "box"
	case SourceSphere:
		return "sphere"
	}
	return "none"
}

// Selection is the outcome of SelectPlaneSource with the distances it compared
type Selection struct {
	Source          Source
	ProjectedRadius float64
	BoxDistance     float64
	SphereDistance  float64
}

// SelectPlaneSource decides which volume of a box+sphere body should
// collide with the plane this frame.
//
// The box is rejected first when even its closest face cannot reach the
// plane. The sphere then acts as a second gate: if it does not reach the
// plane nothing is generated, even though the box alone might touch.
// Otherwise the tighter of the two bounds wins, the sphere on ties.
// A nil sphere leaves the box as the only candidate.
func SelectPlaneSource(box actor.OrientedBox, sphere *actor.BoundingSphere, plane actor.Plane) Selection {
	selection := Selection{ProjectedRadius: box.ProjectedRadius(plane.Normal)}
	selection.BoxDistance = plane.Normal.Dot(box.Center) - selection.ProjectedRadius

	if selection.BoxDistance > plane.Offset {
		return selection
	}
	if sphere == nil {
		selection.Source = SourceBox
		return selection
	}

	selection.SphereDistance = plane.Normal.Dot(sphere.Center) - sphere.Radius
	if selection.SphereDistance > plane.Offset {
		return selection
	}

	if selection.SphereDistance <= selection.BoxDistance {
		selection.Source = SourceSphere
	} else {
		selection.Source = SourceBox
	}

	return selection
}

// PlaneContacts runs the routine chosen by SelectPlaneSource for a proxy.
// The box source of a non-box shape tests the shape's own vertices.
func PlaneContacts(proxy *actor.ShapeProxy, plane actor.Plane, buffer *constraint.Buffer) (Selection, int) {
	selection := SelectPlaneSource(proxy.Box, proxy.Sphere, plane)

	switch selection.Source {
	case SourceSphere:
		return selection, SphereHalfSpace(*proxy.Sphere, plane, buffer)
	case SourceBox:
		if proxy.Kind == actor.ShapeKindBox {
			return selection, BoxHalfSpace(proxy.Box, plane, buffer)
		}
		return selection, ConvexHalfSpace(proxy.Body, proxy.Vertices(), plane, buffer)
	}

	return selection, 0
}
