// Package drag lets a pointer pick up a body and pull it around through a
// joint anchored on a kinematic drag point.
package drag

import (
	"github.com/akmonengine/dice/actor"
	"github.com/akmonengine/dice/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// State of the drag lifecycle
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Constraint is the single interactive drag of a session. It owns its
// kinematic drag point and only observes the grabbed body.
type Constraint struct {
	// Slack is the joint error tolerance, 0 couples rigidly
	Slack float64

	unprojector Unprojector
	state       State
	joint       constraint.Joint
	point       *actor.RigidBody
	grabbed     *actor.RigidBody
	grabPoint   mgl64.Vec3
	depth       float64
}

func NewConstraint(unprojector Unprojector, slack float64) *Constraint {
	return &Constraint{
		Slack:       slack,
		unprojector: unprojector,
		point:       actor.NewKinematicPoint(mgl64.Vec3{}),
	}
}

// Begin unprojects the pointer at depth and grabs the first shape, in
// declared order, containing that world point. It returns false and stays
// Idle when nothing is hit. Beginning while Active drops the current grab.
func (c *Constraint) Begin(pointer Pointer, depth float64, shapes []*actor.ShapeProxy) bool {
	c.End()
	if c.unprojector == nil {
		return false
	}

	world, err := c.unprojector.Unproject(pointer, depth)
	if err != nil {
		return false
	}

	for _, shape := range shapes {
		if shape == nil || !shape.ContainsPoint(world) {
			continue
		}

		c.grabbed = shape.Body
		c.grabPoint = shape.Body.WorldToLocal(world)
		c.depth = depth
		c.point.SetPose(world, mgl64.QuatIdent())
		c.joint.Set(c.grabbed, c.grabPoint, c.point, mgl64.Vec3{}, c.Slack)
		c.grabbed.Awake()
		c.state = Active

		return true
	}

	return false
}

// Update moves the drag point under the pointer, at the depth captured by
// Begin. It does nothing while Idle. Call it at most once per frame, before
// contacts are generated.
func (c *Constraint) Update(pointer Pointer) {
	if c.state != Active {
		return
	}

	world, err := c.unprojector.Unproject(pointer, c.depth)
	if err != nil {
		return
	}
	c.point.SetPose(world, mgl64.QuatIdent())
	c.grabbed.Awake()
}

// End releases the grabbed body. Calling it while Idle is a no-op.
func (c *Constraint) End() {
	c.joint.Clear()
	c.grabbed = nil
	c.grabPoint = mgl64.Vec3{}
	c.state = Idle
}

// CollectContact appends the joint's corrective contact while Active and
// returns the number written, 0 or 1.
func (c *Constraint) CollectContact(buffer *constraint.Buffer) int {
	if c.state != Active || !c.joint.Configured() {
		return 0
	}

	return c.joint.AddContact(buffer)
}

func (c *Constraint) State() State {
	return c.state
}

func (c *Constraint) Active() bool {
	return c.state == Active
}

// Grabbed is the dragged body, nil while Idle
func (c *Constraint) Grabbed() *actor.RigidBody {
	return c.grabbed
}

// GrabPoint is the anchor in the grabbed body's local space
func (c *Constraint) GrabPoint() mgl64.Vec3 {
	return c.grabPoint
}

// DragPoint is the kinematic body following the pointer
func (c *Constraint) DragPoint() *actor.RigidBody {
	return c.point
}

// Depth is the depth-buffer value captured when the drag began
func (c *Constraint) Depth() float64 {
	return c.depth
}
