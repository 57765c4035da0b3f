package dice

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/akmonengine/dice/actor"
	"github.com/akmonengine/dice/constraint"
	"github.com/akmonengine/dice/drag"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidVector    = errors.New("vector must have 3 components")
	ErrUnknownShapeKind = errors.New("unknown shape kind")
	ErrInvalidSettings  = errors.New("invalid settings")
)

const (
	DefaultMaxContacts = 256
	// DefaultSphereScale sizes the bounding sphere of a cube die from its
	// half-extent. It is a tunable, the exact bound would be √3.
	DefaultSphereScale = 1.45
)

// Settings are the per-session contact constants
type Settings struct {
	MaxContacts int     `yaml:"max_contacts"`
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
	Tolerance   float64 `yaml:"tolerance"`
	// JointSlack is the drag joint error tolerance, 0 is rigid
	JointSlack float64 `yaml:"joint_slack"`
	Iterations int     `yaml:"iterations"`
}

func DefaultSettings() Settings {
	return Settings{
		MaxContacts: DefaultMaxContacts,
		Friction:    0.9,
		Restitution: 0.1,
		Tolerance:   0.01,
		JointSlack:  0,
		Iterations:  constraint.DefaultIterations,
	}
}

func (s Settings) material() constraint.Material {
	return constraint.Material{Friction: s.Friction, Restitution: s.Restitution, Tolerance: s.Tolerance}
}

func (s Settings) validate() error {
	if s.MaxContacts <= 0 {
		return fmt.Errorf("%w: max_contacts must be positive, got %d", ErrInvalidSettings, s.MaxContacts)
	}
	if s.Iterations < 0 {
		return fmt.Errorf("%w: iterations must not be negative, got %d", ErrInvalidSettings, s.Iterations)
	}
	if s.Friction < 0 || s.Restitution < 0 || s.JointSlack < 0 {
		return fmt.Errorf("%w: friction, restitution and joint_slack must not be negative", ErrInvalidSettings)
	}
	return nil
}

type PlaneConfig struct {
	Normal []float64 `yaml:"normal"`
	Offset float64   `yaml:"offset"`
}

type CameraConfig struct {
	Eye    []float64 `yaml:"eye"`
	Center []float64 `yaml:"center"`
	Fovy   float64   `yaml:"fovy"`
	Width  int       `yaml:"width"`
	Height int       `yaml:"height"`
}

// BodyConfig declares one die
type BodyConfig struct {
	Name string `yaml:"name"`
	// Kind is "box" or "octahedron"
	Kind        string    `yaml:"kind"`
	HalfExtents []float64 `yaml:"half_extents"`
	Radius      float64   `yaml:"radius"`
	// SphereScale > 0 adds a bounding sphere, 0 leaves it out
	SphereScale     float64   `yaml:"sphere_scale"`
	Mass            float64   `yaml:"mass"`
	LinearDamping   float64   `yaml:"linear_damping"`
	AngularDamping  float64   `yaml:"angular_damping"`
	Position        []float64 `yaml:"position"`
	Axis            []float64 `yaml:"axis"`
	Angle           float64   `yaml:"angle"` // degrees around Axis
	Velocity        []float64 `yaml:"velocity"`
	AngularVelocity []float64 `yaml:"angular_velocity"`
}

// Scene is the declarative description of a session
type Scene struct {
	Gravity  []float64    `yaml:"gravity"`
	Plane    PlaneConfig  `yaml:"plane"`
	Settings Settings     `yaml:"settings"`
	Camera   CameraConfig `yaml:"camera"`
	Bodies   []BodyConfig `yaml:"bodies"`
}

// DefaultScene is a cube die with its bounding sphere and an octahedron die
func DefaultScene() Scene {
	scene := baseScene()
	scene.Bodies = []BodyConfig{
		{
			Name:            "d6",
			Kind:            actor.ShapeKindBox.String(),
			HalfExtents:     []float64{1, 1, 1},
			SphereScale:     DefaultSphereScale,
			Mass:            8,
			LinearDamping:   0.1,
			AngularDamping:  0.3,
			Position:        []float64{0, 6, 0},
			Axis:            []float64{1, 0, 1},
			Angle:           35,
			AngularVelocity: []float64{1, 2, 0},
		},
		{
			Name:           "d8",
			Kind:           actor.ShapeKindOctahedron.String(),
			Radius:         1.2,
			Mass:           4,
			LinearDamping:  0.1,
			AngularDamping: 0.3,
			Position:       []float64{1.5, 10, 0.5},
			Axis:           []float64{0, 0, 1},
			Angle:          20,
		},
	}
	return scene
}

func baseScene() Scene {
	return Scene{
		Gravity:  []float64{0, -9.81, 0},
		Plane:    PlaneConfig{Normal: []float64{0, 1, 0}, Offset: 0},
		Settings: DefaultSettings(),
		Camera: CameraConfig{
			Eye:    []float64{0, 8, 18},
			Center: []float64{0, 2, 0},
			Fovy:   60,
			Width:  1024,
			Height: 768,
		},
	}
}

// ParseScene decodes a YAML scene. Omitted top-level sections keep their defaults.
func ParseScene(data []byte) (Scene, error) {
	scene := baseScene()
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return Scene{}, fmt.Errorf("parse scene: %w", err)
	}
	if err := scene.Validate(); err != nil {
		return Scene{}, err
	}
	return scene, nil
}

// LoadScene reads and parses a YAML scene file
func LoadScene(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("load scene: %w", err)
	}
	return ParseScene(data)
}

// Validate checks the scene can be turned into a world
func (s Scene) Validate() error {
	if _, err := vec3("gravity", s.Gravity, false); err != nil {
		return err
	}
	if _, err := s.plane(); err != nil {
		return err
	}
	if err := s.Settings.validate(); err != nil {
		return err
	}
	if _, err := s.NewCamera(); err != nil {
		return err
	}
	for i, body := range s.Bodies {
		if _, err := body.Build(); err != nil {
			return fmt.Errorf("body %d (%s): %w", i, body.Name, err)
		}
	}
	return nil
}

func (s Scene) plane() (actor.Plane, error) {
	normal, err := vec3("plane.normal", s.Plane.Normal, false)
	if err != nil {
		return actor.Plane{}, err
	}
	if normal.Len() < 1e-9 {
		return actor.Plane{}, fmt.Errorf("plane.normal: %w: zero length", ErrInvalidVector)
	}
	return actor.Plane{Normal: normal.Normalize(), Offset: s.Plane.Offset}, nil
}

// NewCamera builds the scene camera
func (s Scene) NewCamera() (*drag.Camera, error) {
	eye, err := vec3("camera.eye", s.Camera.Eye, false)
	if err != nil {
		return nil, err
	}
	center, err := vec3("camera.center", s.Camera.Center, false)
	if err != nil {
		return nil, err
	}
	if s.Camera.Width <= 0 || s.Camera.Height <= 0 || s.Camera.Fovy <= 0 {
		return nil, fmt.Errorf("%w: camera viewport and fovy must be positive", ErrInvalidSettings)
	}
	return drag.NewCamera(eye, center, s.Camera.Fovy, s.Camera.Width, s.Camera.Height), nil
}

// Build creates the proxy described by the config, at its initial pose
func (b BodyConfig) Build() (*actor.ShapeProxy, error) {
	proxy, _, err := b.build()
	return proxy, err
}

// build also returns the validated initial state, so a world can restore
// it without parsing the config again
func (b BodyConfig) build() (*actor.ShapeProxy, bodyState, error) {
	state, err := b.state()
	if err != nil {
		return nil, bodyState{}, err
	}
	if b.Mass <= 0 {
		return nil, bodyState{}, fmt.Errorf("%w: mass must be positive, got %v", ErrInvalidSettings, b.Mass)
	}
	transform := actor.NewPose(state.position, state.rotation)

	var proxy *actor.ShapeProxy
	switch b.Kind {
	case actor.ShapeKindBox.String():
		halfExtents, err := vec3("half_extents", b.HalfExtents, false)
		if err != nil {
			return nil, bodyState{}, err
		}
		proxy = actor.NewBoxProxy(transform, halfExtents, b.Mass, b.SphereScale)
	case actor.ShapeKindOctahedron.String():
		proxy = actor.NewOctahedronProxy(transform, b.Radius, b.Mass, b.SphereScale)
	default:
		return nil, bodyState{}, fmt.Errorf("%w: %q", ErrUnknownShapeKind, b.Kind)
	}

	proxy.Body.Velocity = state.velocity
	proxy.Body.AngularVelocity = state.angularVelocity
	proxy.Body.Material.LinearDamping = b.LinearDamping
	proxy.Body.Material.AngularDamping = b.AngularDamping

	return proxy, state, nil
}

// bodyState is the validated initial pose and motion of a body
type bodyState struct {
	position        mgl64.Vec3
	rotation        mgl64.Quat
	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3
}

func (b BodyConfig) state() (bodyState, error) {
	var state bodyState
	var err error

	if state.position, err = vec3("position", b.Position, true); err != nil {
		return bodyState{}, err
	}
	if state.rotation, err = b.rotation(); err != nil {
		return bodyState{}, err
	}
	if state.velocity, err = vec3("velocity", b.Velocity, true); err != nil {
		return bodyState{}, err
	}
	if state.angularVelocity, err = vec3("angular_velocity", b.AngularVelocity, true); err != nil {
		return bodyState{}, err
	}

	return state, nil
}

// apply puts an existing proxy back to the state and wakes it
func (s bodyState) apply(proxy *actor.ShapeProxy) {
	proxy.Body.SetPose(s.position, s.rotation)
	proxy.Body.Velocity = s.velocity
	proxy.Body.AngularVelocity = s.angularVelocity
	proxy.Body.Awake()
	proxy.Update()
}

func (b BodyConfig) rotation() (mgl64.Quat, error) {
	axis, err := vec3("axis", b.Axis, true)
	if err != nil {
		return mgl64.Quat{}, err
	}
	if axis.Len() < 1e-9 || b.Angle == 0 {
		return mgl64.QuatIdent(), nil
	}
	return mgl64.QuatRotate(mgl64.DegToRad(b.Angle), axis.Normalize()), nil
}

// vec3 converts a config list. Empty lists are the zero vector when optional.
func vec3(field string, values []float64, optional bool) (mgl64.Vec3, error) {
	if len(values) == 0 && optional {
		return mgl64.Vec3{}, nil
	}
	if len(values) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("%s: %w, got %d", field, ErrInvalidVector, len(values))
	}
	v := mgl64.Vec3{values[0], values[1], values[2]}
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return mgl64.Vec3{}, fmt.Errorf("%s: %w: not finite", field, ErrInvalidVector)
		}
	}
	return v, nil
}
