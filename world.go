// Package dice simulates dice falling on a ground plane, colliding with each
// other and dragged around by the pointer.
//
// A World steps in fixed stages: integrate, build contacts, resolve, then
// deliver events. Pointer input is applied between steps.
package dice

import (
	"fmt"
	"log/slog"

	"github.com/akmonengine/dice/actor"
	"github.com/akmonengine/dice/collide"
	"github.com/akmonengine/dice/constraint"
	"github.com/akmonengine/dice/drag"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	sleepTime     = 0.5
	sleepVelocity = 0.05
)

type World struct {
	Gravity  mgl64.Vec3
	Plane    actor.Plane
	Settings Settings
	// Shapes in declared order; the first one is the primary body
	Shapes []*actor.ShapeProxy
	Drag   *drag.Constraint
	Events Events
	Logger *slog.Logger

	builder  *Builder
	resolver constraint.Resolver
	// initial holds each body's validated starting state, for Reset
	initial []bodyState
	bodies  []*actor.RigidBody
}

type Option func(*World)

// WithLogger routes the world's debug logs to logger
func WithLogger(logger *slog.Logger) Option {
	return func(w *World) {
		w.Logger = logger
	}
}

// NewWorld builds a session from a scene. unprojector maps pointer input
// into the scene; nil disables dragging.
func NewWorld(scene Scene, unprojector drag.Unprojector, opts ...Option) (*World, error) {
	if err := scene.Validate(); err != nil {
		return nil, fmt.Errorf("new world: %w", err)
	}

	gravity, _ := vec3("gravity", scene.Gravity, false)
	plane, _ := scene.plane()

	w := &World{
		Gravity:  gravity,
		Plane:    plane,
		Settings: scene.Settings,
		Drag:     drag.NewConstraint(unprojector, scene.Settings.JointSlack),
		Events:   NewEvents(),
		Logger:   slog.New(slog.DiscardHandler),
		builder:  NewBuilder(scene.Settings),
		resolver: constraint.NewResolver(scene.Settings.Iterations),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, config := range scene.Bodies {
		proxy, state, err := config.build()
		if err != nil {
			return nil, fmt.Errorf("new world: body %s: %w", config.Name, err)
		}
		w.Shapes = append(w.Shapes, proxy)
		w.bodies = append(w.bodies, proxy.Body)
		w.initial = append(w.initial, state)
	}

	return w, nil
}

// Step advances the simulation by dt seconds
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	for _, shape := range w.Shapes {
		shape.Body.Integrate(dt, w.Gravity)
		shape.Update()
	}

	buffer := w.builder.Build(w.Plane, w.Shapes, w.Drag)
	w.resolver.Resolve(buffer.Contacts(), dt)

	for _, shape := range w.Shapes {
		shape.Update()
	}

	w.Events.recordContacts(buffer.Contacts())
	w.trySleep(dt)
	w.Events.processSleepEvents(w.bodies)
	w.Events.flush()
}

// trySleep leaves the held body awake
func (w *World) trySleep(dt float64) {
	grabbed := w.Drag.Grabbed()
	for _, body := range w.bodies {
		if body == grabbed {
			continue
		}
		body.TrySleep(dt, sleepTime, sleepVelocity)
	}
}

// PointerDown starts a drag on the first body under the pointer. depth is
// the depth-buffer value sampled under the pointer.
func (w *World) PointerDown(pointer drag.Pointer, depth float64) bool {
	w.PointerUp()

	if !w.Drag.Begin(pointer, depth, w.Shapes) {
		return false
	}

	w.Logger.Debug("drag start", "pointer", pointer, "depth", depth, "grab", w.Drag.GrabPoint())
	w.Events.emit(DragStartEvent{Body: w.Drag.Grabbed(), GrabPoint: w.Drag.GrabPoint()})

	return true
}

// PointerMove drags the held body, if any
func (w *World) PointerMove(pointer drag.Pointer) {
	w.Drag.Update(pointer)
}

// PointerUp releases the held body, if any
func (w *World) PointerUp() {
	if !w.Drag.Active() {
		return
	}

	body := w.Drag.Grabbed()
	w.Drag.End()
	w.Logger.Debug("drag end")
	w.Events.emit(DragEndEvent{Body: body})
}

// Reset puts every body back to its configured pose and releases the drag
func (w *World) Reset() {
	w.PointerUp()
	for i, state := range w.initial {
		state.apply(w.Shapes[i])
	}
	w.Events.forget()
	w.builder.Buffer().Reset()
}

// Contacts returns the contacts resolved by the last Step
func (w *World) Contacts() []constraint.Contact {
	return w.builder.Buffer().Contacts()
}

// Selection returns the primary body's last plane source decision
func (w *World) Selection() collide.Selection {
	return w.builder.Selection
}

// Bodies returns the rigid bodies in declared order
func (w *World) Bodies() []*actor.RigidBody {
	return w.bodies
}
