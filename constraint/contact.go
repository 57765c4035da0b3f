package constraint

import (
	"github.com/akmonengine/dice/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Contact is a single contact point between two bodies.
// Resolving it moves BodyA along Normal and BodyB against it. A nil BodyB
// stands for the static world (the ground plane).
type Contact struct {
	BodyA       *actor.RigidBody
	BodyB       *actor.RigidBody
	Point       mgl64.Vec3
	Normal      mgl64.Vec3
	Penetration float64
	Friction    float64
	Restitution float64
}

// Material holds the session-wide contact constants
type Material struct {
	Friction    float64
	Restitution float64
	// Tolerance lets shapes this close to touching still produce contacts
	Tolerance float64
}

// Buffer accumulates one frame of contacts up to a fixed capacity.
// Appends beyond capacity are dropped.
type Buffer struct {
	Material Material

	contacts []Contact
	capacity int
}

func NewBuffer(capacity int, material Material) *Buffer {
	capacity = max(0, capacity)

	return &Buffer{
		Material: material,
		contacts: make([]Contact, 0, capacity),
		capacity: capacity,
	}
}

// Reset empties the buffer, keeping its storage
func (b *Buffer) Reset() {
	clear(b.contacts)
	b.contacts = b.contacts[:0]
}

// Add appends a contact stamped with the session friction and restitution
func (b *Buffer) Add(c Contact) bool {
	c.Friction = b.Material.Friction
	c.Restitution = b.Material.Restitution

	return b.Append(c)
}

// Append appends a contact as is. It returns false when the buffer is full.
func (b *Buffer) Append(c Contact) bool {
	if b.Full() {
		return false
	}
	b.contacts = append(b.contacts, c)

	return true
}

func (b *Buffer) Len() int {
	return len(b.contacts)
}

func (b *Buffer) Cap() int {
	return b.capacity
}

// Remaining is the number of contacts that can still be appended this frame
func (b *Buffer) Remaining() int {
	return b.capacity - len(b.contacts)
}

func (b *Buffer) Full() bool {
	return len(b.contacts) >= b.capacity
}

// Contacts returns the accumulated contacts. The slice is reused by Reset.
func (b *Buffer) Contacts() []Contact {
	return b.contacts
}
