package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a pose in 3D space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// NewPose creates a transform at position with the given rotation, normalized.
func NewPose(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	t := Transform{Position: position, Rotation: rotation}
	t.normalize()
	return t
}

func (t *Transform) normalize() {
	if t.Rotation.Len() < 1e-12 {
		t.Rotation = mgl64.QuatIdent()
	}
	t.Rotation = t.Rotation.Normalize()
	t.InverseRotation = t.Rotation.Inverse()
}

// LocalToWorld converts a point from local space to world space
func (t Transform) LocalToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(local).Add(t.Position)
}

// WorldToLocal converts a world space point into local space
func (t Transform) WorldToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return t.InverseRotation.Rotate(world.Sub(t.Position))
}

// DirectionToWorld rotates a local direction into world space (no translation)
func (t Transform) DirectionToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(local)
}

// DirectionToLocal rotates a world direction into local space
func (t Transform) DirectionToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return t.InverseRotation.Rotate(world)
}

// Axis returns the world direction of local axis k. Axis 3 is the position.
func (t Transform) Axis(k int) mgl64.Vec3 {
	switch k {
	case 0:
		return t.Rotation.Rotate(mgl64.Vec3{1, 0, 0})
	case 1:
		return t.Rotation.Rotate(mgl64.Vec3{0, 1, 0})
	case 2:
		return t.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
	}
	return t.Position
}

// Matrix returns the 4x4 world matrix, as used by a renderer
func (t Transform) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).Mul4(t.Rotation.Mat4())
}
