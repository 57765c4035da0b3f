package collide

import (
	"math"
	"testing"

	"github.com/akmonengine/dice/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_String(t *testing.T) {
	assert.Equal(t, "none", SourceNone.String())
	assert.Equal(t, "box", SourceBox.String())
	assert.Equal(t, "sphere", SourceSphere.String())
}

func TestSelectPlaneSource_HighAndLowBox(t *testing.T) {
	t.Run("high box is rejected before the sphere", func(t *testing.T) {
		proxy := boxAt(mgl64.Vec3{0, 5, 0}, mgl64.QuatIdent(), 2, 1.45)

		selection := SelectPlaneSource(proxy.Box, proxy.Sphere, ground)

		assert.Equal(t, SourceNone, selection.Source)
		assert.InDelta(t, 2.0, selection.ProjectedRadius, 1e-9)
		assert.InDelta(t, 3.0, selection.BoxDistance, 1e-9)
		// the sphere was never measured
		assert.Equal(t, 0.0, selection.SphereDistance)
	})

	t.Run("low box selects the tighter sphere", func(t *testing.T) {
		proxy := boxAt(mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent(), 2, 1.45)
		require.InDelta(t, 2.9, proxy.Sphere.Radius, 1e-9)

		selection := SelectPlaneSource(proxy.Box, proxy.Sphere, ground)

		assert.Equal(t, SourceSphere, selection.Source)
		assert.InDelta(t, -1.0, selection.BoxDistance, 1e-9)
		assert.InDelta(t, -1.9, selection.SphereDistance, 1e-9)
	})
}

func TestSelectPlaneSource(t *testing.T) {
	tests := []struct {
		name     string
		box      actor.OrientedBox
		sphere   *actor.BoundingSphere
		expected Source
	}{
		{
			name:     "box closer than sphere",
			box:      actor.OrientedBox{HalfExtents: mgl64.Vec3{1, 1, 1}, Center: mgl64.Vec3{0, 0.5, 0}, Axes: identityAxes()},
			sphere:   &actor.BoundingSphere{Center: mgl64.Vec3{0, 0.5, 0}, Radius: 0.8},
			expected: SourceBox,
		},
		{
			name:     "tie goes to the sphere",
			box:      actor.OrientedBox{HalfExtents: mgl64.Vec3{1, 1, 1}, Center: mgl64.Vec3{0, 0.5, 0}, Axes: identityAxes()},
			sphere:   &actor.BoundingSphere{Center: mgl64.Vec3{0, 0.5, 0}, Radius: 1},
			expected: SourceSphere,
		},
		{
			name:     "sphere above the plane suppresses the box",
			box:      actor.OrientedBox{HalfExtents: mgl64.Vec3{1, 1, 1}, Center: mgl64.Vec3{0, 0.5, 0}, Axes: identityAxes()},
			sphere:   &actor.BoundingSphere{Center: mgl64.Vec3{0, 0.5, 0}, Radius: 0.2},
			expected: SourceNone,
		},
		{
			name:     "no sphere leaves the box",
			box:      actor.OrientedBox{HalfExtents: mgl64.Vec3{1, 1, 1}, Center: mgl64.Vec3{0, 0.5, 0}, Axes: identityAxes()},
			sphere:   nil,
			expected: SourceBox,
		},
		{
			name:     "no sphere and a high box",
			box:      actor.OrientedBox{HalfExtents: mgl64.Vec3{1, 1, 1}, Center: mgl64.Vec3{0, 4, 0}, Axes: identityAxes()},
			sphere:   nil,
			expected: SourceNone,
		},
		{
			name:     "degenerate box",
			box:      actor.OrientedBox{Center: mgl64.Vec3{0, 0, 0}, Axes: identityAxes()},
			sphere:   nil,
			expected: SourceBox,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectPlaneSource(tt.box, tt.sphere, ground).Source)
		})
	}
}

func TestSelectPlaneSource_BoxDistanceIsMonotonic(t *testing.T) {
	rotation := mgl64.QuatRotate(0.6, mgl64.Vec3{1, 0, 1}.Normalize())
	plane := actor.Plane{Normal: mgl64.Vec3{0.3, 1, -0.2}.Normalize(), Offset: 0.5}

	previous := math.Inf(-1)
	for step := 0; step < 20; step++ {
		center := plane.Normal.Mul(float64(step) * 0.25)
		proxy := boxAt(center, rotation, 1, 1.45)

		selection := SelectPlaneSource(proxy.Box, proxy.Sphere, plane)

		assert.GreaterOrEqual(t, selection.BoxDistance, previous)
		previous = selection.BoxDistance
	}
}

func TestPlaneContacts_FastReject(t *testing.T) {
	// A huge sphere that would reach the plane on its own
	proxy := boxAt(mgl64.Vec3{0, 3, 0}, mgl64.QuatIdent(), 1, 10)
	buffer := newBuffer(16)

	selection, written := PlaneContacts(proxy, ground, buffer)

	assert.Equal(t, SourceNone, selection.Source)
	assert.Equal(t, 0, written)
	assert.Equal(t, 0, buffer.Len())
}

func TestPlaneContacts_ExactlyOneRoutine(t *testing.T) {
	tests := []struct {
		name        string
		scale       float64
		source      Source
		written     int
		onlySpheres bool
	}{
		// sphere radius 1.9: sphereDistance -1.1 <= boxDistance -0.2
		{"sphere routine", 1.9, SourceSphere, 1, true},
		// sphere radius 1.1: sphereDistance -0.3, still below the box
		{"sphere routine with a small sphere", 1.1, SourceSphere, 1, true},
		// sphere radius 0.9: sphereDistance -0.1 > boxDistance -0.2
		{"box routine", 0.9, SourceBox, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proxy := boxAt(mgl64.Vec3{0, 0.8, 0}, mgl64.QuatIdent(), 1, tt.scale)
			buffer := newBuffer(16)

			selection, written := PlaneContacts(proxy, ground, buffer)

			require.Equal(t, tt.source, selection.Source)
			assert.Equal(t, tt.written, written)
			assert.Equal(t, tt.written, buffer.Len())
		})
	}
}

func TestPlaneContacts_Octahedron(t *testing.T) {
	proxy := actor.NewOctahedronProxy(actor.NewPose(mgl64.Vec3{0, 1.1, 0}, mgl64.QuatIdent()), 1.2, 1, 0)
	buffer := newBuffer(16)

	selection, written := PlaneContacts(proxy, ground, buffer)

	assert.Equal(t, SourceBox, selection.Source)
	// only the bottom tip, not the corners of the bounding cube
	assert.Equal(t, 1, written)
}

func TestPlaneContacts_FullBuffer(t *testing.T) {
	proxy := boxAt(mgl64.Vec3{0, 0.8, 0}, mgl64.QuatIdent(), 1, 0)
	buffer := newBuffer(2)

	selection, written := PlaneContacts(proxy, ground, buffer)

	assert.Equal(t, SourceBox, selection.Source)
	assert.Equal(t, 2, written)
}

func identityAxes() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}
