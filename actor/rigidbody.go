package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	BodyTypeStatic

	// BodyTypeKinematic bodies are moved only by the application (the drag
	// point). They never integrate and have infinite mass for the resolver.
	BodyTypeKinematic
)

type Material struct {
	Density        float64
	mass           float64
	LinearDamping  float64 // 1/s, velocity decays as exp(-LinearDamping*t)
	AngularDamping float64 // 1/s
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	Transform Transform

	Velocity        mgl64.Vec3 // m/s
	AngularVelocity mgl64.Vec3 // rad/s
	// Acceleration is applied on top of the world gravity
	Acceleration mgl64.Vec3

	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	IsSleeping bool
	SleepTimer float64

	Material Material
	BodyType BodyType

	Shape ShapeInterface
}

// NewRigidBody creates a new rigid body with the given properties
// density is used to calculate mass for dynamic bodies (ignored otherwise)
func NewRigidBody(transform Transform, shape ShapeInterface, bodyType BodyType, density float64) *RigidBody {
	rb := &RigidBody{
		Transform: transform,
		Shape:     shape,
		BodyType:  bodyType,
	}
	rb.Transform.normalize()

	if bodyType == BodyTypeDynamic {
		rb.SetMass(shape.ComputeMass(density))
		rb.Material.Density = density
	} else {
		rb.Material.mass = math.Inf(1)
	}
	rb.CalculateDerivedData()

	return rb
}

// NewKinematicPoint creates a massless-looking anchor body driven by the application
func NewKinematicPoint(position mgl64.Vec3) *RigidBody {
	return NewRigidBody(NewPose(position, mgl64.QuatIdent()), &Sphere{}, BodyTypeKinematic, 0)
}

// SetMass overrides the mass and recomputes the inertia tensor from the shape
func (rb *RigidBody) SetMass(mass float64) {
	rb.Material.mass = mass
	rb.InertiaLocal = rb.Shape.ComputeInertia(mass)
	// Inv returns the zero matrix for singular (degenerate) tensors
	rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
}

// InverseMass is zero for static and kinematic bodies
func (rb *RigidBody) InverseMass() float64 {
	if rb.BodyType != BodyTypeDynamic {
		return 0
	}
	mass := rb.Material.GetMass()
	if mass <= 0 || math.IsInf(mass, 1) {
		return 0
	}
	return 1.0 / mass
}

// SetPose moves the body and refreshes derived data
func (rb *RigidBody) SetPose(position mgl64.Vec3, rotation mgl64.Quat) {
	rb.Transform.Position = position
	rb.Transform.Rotation = rotation
	rb.CalculateDerivedData()
}

// CalculateDerivedData must run after every change of position or rotation,
// before the body is queried for contacts.
func (rb *RigidBody) CalculateDerivedData() {
	rb.Transform.normalize()
	rb.Shape.ComputeAABB(rb.Transform)
}

// LocalToWorld converts a body-space point into world space
func (rb *RigidBody) LocalToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return rb.Transform.LocalToWorld(local)
}

// WorldToLocal converts a world point into body space
func (rb *RigidBody) WorldToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return rb.Transform.WorldToLocal(world)
}

// VelocityAt returns the world velocity of a world point attached to the body
func (rb *RigidBody) VelocityAt(point mgl64.Vec3) mgl64.Vec3 {
	r := point.Sub(rb.Transform.Position)
	return rb.Velocity.Add(rb.AngularVelocity.Cross(r))
}

func (rb *RigidBody) TrySleep(dt float64, timeThreshold float64, velocityThreshold float64) {
	if rb.BodyType != BodyTypeDynamic || rb.IsSleeping {
		return
	}

	if rb.Velocity.Len() < velocityThreshold && rb.AngularVelocity.Len() < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timeThreshold {
			rb.Sleep()
		}
	} else {
		rb.SleepTimer = 0.0
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// Integrate advances a dynamic, awake body by dt under gravity
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb.BodyType != BodyTypeDynamic || rb.IsSleeping {
		return
	}

	// ========== LINEAR ==========
	acceleration := gravity.Add(rb.Acceleration)
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))
	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	// ========== ANGULAR ==========
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.Material.AngularDamping * dt))

	// q' = q + 0.5 * ω * q * dt
	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.Transform.Rotation).Scale(0.5)
	rb.Transform.Rotation = rb.Transform.Rotation.Add(qDot.Scale(dt))

	rb.CalculateDerivedData()
}

// GetInverseInertiaWorld returns R * I_local^-1 * R^T, zero for non-dynamic bodies
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType != BodyTypeDynamic {
		return mgl64.Mat3{}
	}

	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}

// SupportWorld returns the furthest world point of the body along direction
func (rb *RigidBody) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	localDirection := rb.Transform.DirectionToLocal(direction)
	localSupport := rb.Shape.Support(localDirection)

	return rb.Transform.LocalToWorld(localSupport)
}
