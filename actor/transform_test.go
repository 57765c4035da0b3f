package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestNewTransform(t *testing.T) {
	transform := NewTransform()

	assert.Equal(t, mgl64.Vec3{}, transform.Position)
	assert.Equal(t, mgl64.QuatIdent(), transform.Rotation)
	assert.Equal(t, mgl64.QuatIdent(), transform.InverseRotation)
}

func TestNewPose(t *testing.T) {
	t.Run("normalizes the rotation", func(t *testing.T) {
		transform := NewPose(mgl64.Vec3{1, 2, 3}, mgl64.Quat{W: 2})

		assert.InDelta(t, 1.0, transform.Rotation.Len(), 1e-12)
		assert.InDelta(t, 1.0, transform.InverseRotation.W, 1e-12)
	})

	t.Run("zero rotation falls back to identity", func(t *testing.T) {
		transform := NewPose(mgl64.Vec3{}, mgl64.Quat{})

		assert.Equal(t, mgl64.QuatIdent(), transform.Rotation)
	})
}

func TestTransform_LocalWorldRoundTrip(t *testing.T) {
	transform := NewPose(mgl64.Vec3{1, -2, 3}, mgl64.QuatRotate(0.7, mgl64.Vec3{1, 1, 0}.Normalize()))

	points := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0.3, -0.4, 2}}
	for _, p := range points {
		world := transform.LocalToWorld(p)
		assert.True(t, transform.WorldToLocal(world).ApproxEqualThreshold(p, 1e-9), "point %v", p)
	}

	direction := mgl64.Vec3{0, 0, 1}
	assert.True(t, transform.DirectionToLocal(transform.DirectionToWorld(direction)).ApproxEqualThreshold(direction, 1e-9))
}

func TestTransform_Axis(t *testing.T) {
	transform := NewPose(mgl64.Vec3{4, 5, 6}, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))

	tests := []struct {
		name     string
		axis     int
		expected mgl64.Vec3
	}{
		{"x turns into y", 0, mgl64.Vec3{0, 1, 0}},
		{"y turns into minus x", 1, mgl64.Vec3{-1, 0, 0}},
		{"z is unchanged", 2, mgl64.Vec3{0, 0, 1}},
		{"axis 3 is the position", 3, mgl64.Vec3{4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, transform.Axis(tt.axis).ApproxEqualThreshold(tt.expected, 1e-9), "got %v", transform.Axis(tt.axis))
		})
	}
}

func TestTransform_Matrix(t *testing.T) {
	transform := NewPose(mgl64.Vec3{1, 2, 3}, mgl64.QuatRotate(0.4, mgl64.Vec3{0, 1, 0}))
	local := mgl64.Vec3{0.5, -1, 2}

	fromMatrix := transform.Matrix().Mul4x1(local.Vec4(1)).Vec3()

	assert.True(t, fromMatrix.ApproxEqualThreshold(transform.LocalToWorld(local), 1e-9))
}
