package dice

import (
	"github.com/akmonengine/dice/actor"
	"github.com/akmonengine/dice/collide"
	"github.com/akmonengine/dice/constraint"
	"github.com/akmonengine/dice/drag"
)

// Builder gathers one frame of contacts in a fixed priority order:
//  1. the drag joint,
//  2. body against body, for every pair in declared order,
//  3. every secondary body against the plane,
//  4. the primary body against the plane, through the contact source selector.
//
// Sources past the buffer capacity are dropped for the frame.
type Builder struct {
	buffer *constraint.Buffer
	// Selection is the primary body's last plane source decision
	Selection collide.Selection
}

func NewBuilder(settings Settings) *Builder {
	return &Builder{
		buffer: constraint.NewBuffer(settings.MaxContacts, settings.material()),
	}
}

// Build resets the buffer and fills it. dragger may be nil, and so may
// entries of shapes: nil proxies are skipped, a nil primary only drops the
// primary plane contacts. The returned buffer is reused by the next call.
func (b *Builder) Build(plane actor.Plane, shapes []*actor.ShapeProxy, dragger *drag.Constraint) *constraint.Buffer {
	buffer := b.buffer
	buffer.Reset()
	b.Selection = collide.Selection{}

	if dragger != nil {
		dragger.CollectContact(buffer)
	}

	for i := 1; i < len(shapes) && !buffer.Full(); i++ {
		if shapes[i] == nil {
			continue
		}
		for j := 0; j < i && !buffer.Full(); j++ {
			if shapes[j] == nil {
				continue
			}
			collide.ShapeShape(shapes[j], shapes[i], buffer)
		}
	}

	for i := 1; i < len(shapes) && !buffer.Full(); i++ {
		if shapes[i] == nil {
			continue
		}
		collide.ConvexHalfSpace(shapes[i].Body, shapes[i].Vertices(), plane, buffer)
	}

	if len(shapes) > 0 && shapes[0] != nil && !buffer.Full() {
		b.Selection, _ = collide.PlaneContacts(shapes[0], plane, buffer)
	}

	return buffer
}

// Buffer returns the buffer filled by the last Build
func (b *Builder) Buffer() *constraint.Buffer {
	return b.buffer
}
