package constraint

import (
	"math"

	"github.com/akmonengine/dice/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultIterations bounds each resolver pass, per contact
	DefaultIterations = 4

	// PositionEpsilon: penetrations below this are left alone
	PositionEpsilon = 1e-4
	// VelocityEpsilon: closing speeds below this are left alone
	VelocityEpsilon = 1e-4
	// RestitutionThreshold: closing speeds below this do not bounce, which
	// keeps resting contacts from jittering
	RestitutionThreshold = 0.25
	// AngularLimit caps the rotational share of a position fix, relative
	// to the lever arm length
	AngularLimit = 0.2
)

// Resolver removes interpenetration then applies restitution and friction
// impulses to one frame of contacts.
type Resolver struct {
	PositionIterations int
	VelocityIterations int
}

func NewResolver(iterations int) Resolver {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return Resolver{PositionIterations: iterations, VelocityIterations: iterations}
}

// Resolve runs the position pass then the velocity pass. dt is unused by
// the projection but kept for parity with the integrator step.
func (r Resolver) Resolve(contacts []Contact, dt float64) {
	if len(contacts) == 0 || dt <= 0 {
		return
	}
	for i := range contacts {
		matchAwakeState(&contacts[i])
	}

	r.solvePositions(contacts)
	r.solveVelocities(contacts)
}

// bodyState is the resolver's view of one side of a contact
type bodyState struct {
	body       *actor.RigidBody
	sign       float64
	invMass    float64
	invInertia mgl64.Mat3
	r          mgl64.Vec3
}

func sides(c *Contact) [2]bodyState {
	states := [2]bodyState{{body: c.BodyA, sign: 1}, {body: c.BodyB, sign: -1}}
	for i := range states {
		s := &states[i]
		if s.body == nil || s.body.IsSleeping {
			continue
		}
		s.invMass = s.body.InverseMass()
		s.invInertia = s.body.GetInverseInertiaWorld()
		s.r = c.Point.Sub(s.body.Transform.Position)
	}
	return states
}

// angularInertia is the change in normal speed at the contact per unit impulse
func (s bodyState) angularInertia(direction mgl64.Vec3) float64 {
	rCrossN := s.r.Cross(direction)
	return s.invInertia.Mul3x1(rCrossN).Cross(s.r).Dot(direction)
}

func (r Resolver) solvePositions(contacts []Contact) {
	penetrations := make([]float64, len(contacts))
	for i := range contacts {
		penetrations[i] = contacts[i].Penetration
	}

	for range r.PositionIterations * len(contacts) {
		// Worst penetration first
		worst := -1
		deepest := PositionEpsilon
		for i, p := range penetrations {
			if p > deepest {
				worst = i
				deepest = p
			}
		}
		if worst < 0 {
			return
		}

		c := &contacts[worst]
		linear, angular := applyPositionChange(c, deepest)

		// Update the penetration of every contact sharing a moved body
		for i := range contacts {
			other := &contacts[i]
			for _, s := range []struct {
				body *actor.RigidBody
				sign float64
			}{{other.BodyA, 1}, {other.BodyB, -1}} {
				if s.body == nil {
					continue
				}
				for k, moved := range [2]*actor.RigidBody{c.BodyA, c.BodyB} {
					if moved != s.body {
						continue
					}
					arm := other.Point.Sub(s.body.Transform.Position)
					delta := linear[k].Add(angular[k].Cross(arm))
					penetrations[i] -= s.sign * delta.Dot(other.Normal)
				}
			}
		}
	}
}

func applyPositionChange(c *Contact, penetration float64) (linear, angular [2]mgl64.Vec3) {
	states := sides(c)

	var linearInertia, angularInertia [2]float64
	var total float64
	for i, s := range states {
		linearInertia[i] = s.invMass
		angularInertia[i] = s.angularInertia(c.Normal)
		total += linearInertia[i] + angularInertia[i]
	}
	if total <= 1e-12 {
		return linear, angular
	}

	for i, s := range states {
		if s.invMass == 0 && angularInertia[i] == 0 {
			continue
		}

		linearMove := s.sign * penetration * linearInertia[i] / total
		angularMove := s.sign * penetration * angularInertia[i] / total

		// Large rotations for small lever arms look wrong: shift the excess to translation
		limit := AngularLimit * s.r.Len()
		if math.Abs(angularMove) > limit {
			totalMove := linearMove + angularMove
			angularMove = math.Copysign(limit, angularMove)
			linearMove = totalMove - angularMove
		}

		if angularMove != 0 && angularInertia[i] > 1e-12 {
			impulsePerMove := s.invInertia.Mul3x1(s.r.Cross(c.Normal))
			angular[i] = impulsePerMove.Mul(angularMove / angularInertia[i])
		}
		linear[i] = c.Normal.Mul(linearMove)

		body := s.body
		body.Transform.Position = body.Transform.Position.Add(linear[i])
		if angular[i].LenSqr() > 1e-20 {
			// Small angle rotation: q' = q + 0.5 * θ * q
			q := mgl64.Quat{V: angular[i], W: 0}.Mul(body.Transform.Rotation).Scale(0.5)
			body.Transform.Rotation = body.Transform.Rotation.Add(q)
		}
		body.CalculateDerivedData()
	}

	return linear, angular
}

func (r Resolver) solveVelocities(contacts []Contact) {
	for range r.VelocityIterations {
		resolved := true
		for i := range contacts {
			if applyVelocityChange(&contacts[i]) {
				resolved = false
			}
		}
		if resolved {
			return
		}
	}
}

// applyVelocityChange returns false when the contact was already separating
func applyVelocityChange(c *Contact) bool {
	states := sides(c)

	closing := relativeVelocity(c.Point, states)
	normalSpeed := closing.Dot(c.Normal)
	if normalSpeed > -VelocityEpsilon {
		return false
	}

	effectiveMass := 0.0
	for _, s := range states {
		effectiveMass += s.invMass + s.angularInertia(c.Normal)
	}
	if effectiveMass < 1e-10 {
		return false
	}

	restitution := c.Restitution
	if -normalSpeed < RestitutionThreshold {
		restitution = 0
	}
	lambdaNormal := -(1 + restitution) * normalSpeed / effectiveMass
	applyImpulse(states, c.Normal.Mul(lambdaNormal))

	// ========== FRICTION ==========
	closing = relativeVelocity(c.Point, states)
	tangentVel := closing.Sub(c.Normal.Mul(closing.Dot(c.Normal)))
	tangentSpeed := tangentVel.Len()
	if tangentSpeed < 1e-6 || c.Friction <= 0 {
		return true
	}
	tangentDir := tangentVel.Mul(1 / tangentSpeed)

	effectiveMassTangent := 0.0
	for _, s := range states {
		effectiveMassTangent += s.invMass + s.angularInertia(tangentDir)
	}
	if effectiveMassTangent < 1e-10 {
		return true
	}

	// Coulomb's law: |F_friction| <= μ * |F_normal|
	lambdaTangent := math.Min(tangentSpeed/effectiveMassTangent, c.Friction*lambdaNormal)
	applyImpulse(states, tangentDir.Mul(-lambdaTangent))

	return true
}

func relativeVelocity(point mgl64.Vec3, states [2]bodyState) mgl64.Vec3 {
	var v mgl64.Vec3
	for _, s := range states {
		if s.body == nil {
			continue
		}
		v = v.Add(s.body.VelocityAt(point).Mul(s.sign))
	}
	return v
}

func applyImpulse(states [2]bodyState, impulse mgl64.Vec3) {
	for _, s := range states {
		if s.body == nil || s.body.BodyType != actor.BodyTypeDynamic || s.body.IsSleeping {
			continue
		}
		signed := impulse.Mul(s.sign)
		s.body.Velocity = s.body.Velocity.Add(signed.Mul(s.invMass))
		s.body.AngularVelocity = s.body.AngularVelocity.Add(s.invInertia.Mul3x1(s.r.Cross(signed)))
		clampSmallVelocities(s.body)
	}
}

// matchAwakeState wakes a sleeping dynamic body touched by an awake one
func matchAwakeState(c *Contact) {
	if c.BodyA == nil || c.BodyB == nil {
		return
	}
	awake := func(b *actor.RigidBody) bool {
		return b.BodyType == actor.BodyTypeKinematic || (b.BodyType == actor.BodyTypeDynamic && !b.IsSleeping)
	}
	if awake(c.BodyA) && c.BodyB.IsSleeping {
		c.BodyB.Awake()
	} else if awake(c.BodyB) && c.BodyA.IsSleeping {
		c.BodyA.Awake()
	}
}

func clampSmallVelocities(rb *actor.RigidBody) {
	const velocityThreshold = 1e-5

	if rb.Velocity.Len() < velocityThreshold {
		rb.Velocity = mgl64.Vec3{0, 0, 0}
	}
	if rb.AngularVelocity.Len() < velocityThreshold {
		rb.AngularVelocity = mgl64.Vec3{0, 0, 0}
	}
}
