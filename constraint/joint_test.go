package constraint

import (
	"testing"

	"github.com/akmonengine/dice/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCube(position mgl64.Vec3) *actor.RigidBody {
	box := actor.NewRigidBody(actor.NewPose(position, mgl64.QuatIdent()), &actor.Box{HalfExtents: mgl64.Vec3{1, 1, 1}}, actor.BodyTypeDynamic, 1.0)
	box.SetMass(1)
	return box
}

func TestJoint_Configured(t *testing.T) {
	var joint Joint
	assert.False(t, joint.Configured())

	joint.Set(newCube(mgl64.Vec3{}), mgl64.Vec3{}, actor.NewKinematicPoint(mgl64.Vec3{}), mgl64.Vec3{}, 0)
	assert.True(t, joint.Configured())

	joint.Clear()
	assert.False(t, joint.Configured())
	assert.Nil(t, joint.BodyA)
	assert.Nil(t, joint.BodyB)
}

func TestJoint_AddContact(t *testing.T) {
	tests := []struct {
		name        string
		anchor      mgl64.Vec3
		slack       float64
		written     int
		penetration float64
	}{
		{"stretched", mgl64.Vec3{0, 3, 0}, 0, 1, 2},
		{"stretched with slack", mgl64.Vec3{0, 3, 0}, 0.5, 1, 1.5},
		{"within slack", mgl64.Vec3{0, 1.2, 0}, 0.5, 0, 0},
		{"coincident", mgl64.Vec3{0, 1, 0}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := newCube(mgl64.Vec3{})
			point := actor.NewKinematicPoint(tt.anchor)

			var joint Joint
			// grab the top face center
			joint.Set(body, mgl64.Vec3{0, 1, 0}, point, mgl64.Vec3{}, tt.slack)

			buffer := NewBuffer(4, Material{Friction: 0.2, Restitution: 0.5})
			require.Equal(t, tt.written, joint.AddContact(buffer))
			require.Equal(t, tt.written, buffer.Len())
			if tt.written == 0 {
				return
			}

			c := buffer.Contacts()[0]
			assert.Same(t, body, c.BodyA)
			assert.Same(t, point, c.BodyB)
			assert.InDelta(t, tt.penetration, c.Penetration, 1e-9)
			assert.True(t, c.Normal.ApproxEqual(mgl64.Vec3{0, 1, 0}))
			assert.True(t, c.Point.ApproxEqual(mgl64.Vec3{0, 1, 0}.Add(tt.anchor).Mul(0.5)))
			assert.Equal(t, 1.0, c.Friction)
			assert.Equal(t, 0.0, c.Restitution)
		})
	}
}

func TestJoint_AddContactFullBuffer(t *testing.T) {
	var joint Joint
	joint.Set(newCube(mgl64.Vec3{}), mgl64.Vec3{}, actor.NewKinematicPoint(mgl64.Vec3{0, 5, 0}), mgl64.Vec3{}, 0)

	buffer := NewBuffer(1, Material{})
	buffer.Append(Contact{})

	assert.Equal(t, 0, joint.AddContact(buffer))
	assert.Equal(t, 1, buffer.Len())
}

func TestJoint_Separation(t *testing.T) {
	var joint Joint
	joint.Set(newCube(mgl64.Vec3{1, 0, 0}), mgl64.Vec3{0, 0, 1}, actor.NewKinematicPoint(mgl64.Vec3{1, 0, 4}), mgl64.Vec3{}, 0)

	a, b, length := joint.Separation()

	assert.True(t, a.ApproxEqual(mgl64.Vec3{1, 0, 1}))
	assert.True(t, b.ApproxEqual(mgl64.Vec3{1, 0, 4}))
	assert.InDelta(t, 3.0, length, 1e-9)
}
