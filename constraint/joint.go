package constraint

import (
	"github.com/akmonengine/dice/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Joint links a point on BodyA to a point on BodyB. Each frame it produces
// a corrective contact when the two points drift further apart than Error.
// Error 0 is a rigid link.
type Joint struct {
	BodyA     *actor.RigidBody
	PositionA mgl64.Vec3 // local to BodyA
	BodyB     *actor.RigidBody
	PositionB mgl64.Vec3 // local to BodyB
	Error     float64
}

// Set configures both endpoints and the allowed slack
func (j *Joint) Set(a *actor.RigidBody, positionA mgl64.Vec3, b *actor.RigidBody, positionB mgl64.Vec3, slack float64) {
	j.BodyA = a
	j.PositionA = positionA
	j.BodyB = b
	j.PositionB = positionB
	j.Error = slack
}

// Clear detaches both endpoints
func (j *Joint) Clear() {
	*j = Joint{}
}

// Configured reports whether both endpoints are attached
func (j *Joint) Configured() bool {
	return j.BodyA != nil && j.BodyB != nil
}

// Separation returns the world endpoints and their distance
func (j *Joint) Separation() (a, b mgl64.Vec3, length float64) {
	a = j.BodyA.LocalToWorld(j.PositionA)
	b = j.BodyB.LocalToWorld(j.PositionB)

	return a, b, b.Sub(a).Len()
}

// AddContact appends the corrective contact if the joint is violated.
// It returns the number of contacts written, 0 or 1.
func (j *Joint) AddContact(buffer *Buffer) int {
	if !j.Configured() || buffer.Full() {
		return 0
	}

	a, b, length := j.Separation()
	if length <= j.Error || length < 1e-12 {
		return 0
	}

	contact := Contact{
		BodyA:       j.BodyA,
		BodyB:       j.BodyB,
		Point:       a.Add(b).Mul(0.5),
		Normal:      b.Sub(a).Mul(1 / length),
		Penetration: length - j.Error,
		Friction:    1.0,
		Restitution: 0.0,
	}
	if !buffer.Append(contact) {
		return 0
	}

	return 1
}
