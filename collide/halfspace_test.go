package collide

import (
	"math"
	"testing"

	"github.com/akmonengine/dice/actor"
	"github.com/akmonengine/dice/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ground = actor.Plane{Normal: mgl64.Vec3{0, 1, 0}, Offset: 0}

func newBuffer(capacity int) *constraint.Buffer {
	return constraint.NewBuffer(capacity, constraint.Material{Friction: 0.9, Restitution: 0.1, Tolerance: 0.01})
}

func boxAt(position mgl64.Vec3, rotation mgl64.Quat, halfExtent, sphereScale float64) *actor.ShapeProxy {
	return actor.NewBoxProxy(actor.NewPose(position, rotation), mgl64.Vec3{halfExtent, halfExtent, halfExtent}, 1, sphereScale)
}

func TestSphereHalfSpace(t *testing.T) {
	tests := []struct {
		name        string
		center      mgl64.Vec3
		written     int
		penetration float64
	}{
		{"penetrating", mgl64.Vec3{0, 1, 0}, 1, 1.9},
		{"within tolerance", mgl64.Vec3{0, 2.905, 0}, 1, -0.005},
		{"above", mgl64.Vec3{0, 3, 0}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proxy := boxAt(tt.center, mgl64.QuatIdent(), 2, 1.45)
			buffer := newBuffer(4)

			require.Equal(t, tt.written, SphereHalfSpace(*proxy.Sphere, ground, buffer))
			if tt.written == 0 {
				return
			}

			c := buffer.Contacts()[0]
			assert.Same(t, proxy.Body, c.BodyA)
			assert.Nil(t, c.BodyB)
			assert.Equal(t, ground.Normal, c.Normal)
			assert.InDelta(t, tt.penetration, c.Penetration, 1e-9)
			assert.InDelta(t, 0.0, c.Point.Y(), 1e-9)
			assert.Equal(t, 0.9, c.Friction)
			assert.Equal(t, 0.1, c.Restitution)
		})
	}
}

func TestBoxHalfSpace(t *testing.T) {
	tests := []struct {
		name     string
		position mgl64.Vec3
		rotation mgl64.Quat
		written  int
	}{
		{"face down and sunk", mgl64.Vec3{0, 0.8, 0}, mgl64.QuatIdent(), 4},
		{"resting within tolerance", mgl64.Vec3{0, 1.005, 0}, mgl64.QuatIdent(), 4},
		{"edge down", mgl64.Vec3{0, math.Sqrt2 - 0.1, 0}, mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1}), 2},
		{"corner down", mgl64.Vec3{0, math.Sqrt(3) - 0.1, 0}, mgl64.QuatBetweenVectors(mgl64.Vec3{1, 1, 1}.Normalize(), mgl64.Vec3{0, -1, 0}), 1},
		{"floating", mgl64.Vec3{0, 1.5, 0}, mgl64.QuatIdent(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proxy := boxAt(tt.position, tt.rotation, 1, 0)
			buffer := newBuffer(16)

			require.Equal(t, tt.written, BoxHalfSpace(proxy.Box, ground, buffer))
			for _, c := range buffer.Contacts() {
				assert.InDelta(t, 0.0, c.Point.Y(), 1e-9)
				assert.Same(t, proxy.Body, c.BodyA)
			}
		})
	}
}

func TestConvexHalfSpace_StopsWhenFull(t *testing.T) {
	proxy := boxAt(mgl64.Vec3{0, 0.5, 0}, mgl64.QuatIdent(), 1, 0)
	buffer := newBuffer(3)

	assert.Equal(t, 3, ConvexHalfSpace(proxy.Body, proxy.Vertices(), ground, buffer))
	assert.True(t, buffer.Full())
	assert.Equal(t, 0, ConvexHalfSpace(proxy.Body, proxy.Vertices(), ground, buffer))
}

func TestConvexHalfSpace_Octahedron(t *testing.T) {
	proxy := actor.NewOctahedronProxy(actor.NewPose(mgl64.Vec3{0, 1.1, 0}, mgl64.QuatIdent()), 1.2, 1, 0)
	buffer := newBuffer(8)

	require.Equal(t, 1, ConvexHalfSpace(proxy.Body, proxy.Vertices(), ground, buffer))

	c := buffer.Contacts()[0]
	assert.InDelta(t, 0.1, c.Penetration, 1e-9)
	assert.True(t, c.Point.ApproxEqualThreshold(mgl64.Vec3{0, 0, 0}, 1e-9))
}

func TestConvexHalfSpace_OffsetPlane(t *testing.T) {
	plane := actor.Plane{Normal: mgl64.Vec3{0, 1, 0}, Offset: 2}
	proxy := boxAt(mgl64.Vec3{0, 2.9, 0}, mgl64.QuatIdent(), 1, 0)
	buffer := newBuffer(8)

	require.Equal(t, 4, ConvexHalfSpace(proxy.Body, proxy.Vertices(), plane, buffer))
	for _, c := range buffer.Contacts() {
		assert.InDelta(t, 0.1, c.Penetration, 1e-9)
		assert.InDelta(t, 2.0, c.Point.Y(), 1e-9)
	}
}
