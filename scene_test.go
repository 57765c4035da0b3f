package dice

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/akmonengine/dice/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScene(t *testing.T) {
	scene := DefaultScene()

	require.NoError(t, scene.Validate())
	require.Len(t, scene.Bodies, 2)
	assert.Equal(t, "box", scene.Bodies[0].Kind)
	assert.Equal(t, "octahedron", scene.Bodies[1].Kind)
	assert.Equal(t, DefaultSettings(), scene.Settings)
}

func TestParseScene(t *testing.T) {
	data := []byte(`
gravity: [0, -5, 0]
settings:
  max_contacts: 32
  friction: 0.5
bodies:
  - name: cube
    kind: box
    half_extents: [1, 1, 1]
    sphere_scale: 1.5
    mass: 2
    position: [0, 3, 0]
    axis: [0, 1, 0]
    angle: 90
  - name: d8
    kind: octahedron
    radius: 1
    mass: 1
    position: [4, 3, 0]
    velocity: [1, 0, 0]
`)

	scene, err := ParseScene(data)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, -5, 0}, scene.Gravity)
	assert.Equal(t, 32, scene.Settings.MaxContacts)
	assert.Equal(t, 0.5, scene.Settings.Friction)
	// omitted keys keep their defaults
	assert.Equal(t, DefaultSettings().Restitution, scene.Settings.Restitution)
	assert.Equal(t, []float64{0, 1, 0}, scene.Plane.Normal)
	assert.Equal(t, 1024, scene.Camera.Width)

	require.Len(t, scene.Bodies, 2)
	cube, err := scene.Bodies[0].Build()
	require.NoError(t, err)
	assert.Equal(t, actor.ShapeKindBox, cube.Kind)
	assert.InDelta(t, 1.5, cube.Sphere.Radius, 1e-9)
	assert.InDelta(t, 2.0, cube.Body.Material.GetMass(), 1e-12)
	assert.True(t, cube.Box.Axes[0].ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, 1e-9))

	d8, err := scene.Bodies[1].Build()
	require.NoError(t, err)
	assert.Equal(t, actor.ShapeKindOctahedron, d8.Kind)
	assert.Nil(t, d8.Sphere)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, d8.Body.Velocity)
}

func TestParseScene_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected error
	}{
		{"short gravity", "gravity: [0, -9.81]", ErrInvalidVector},
		{"zero plane normal", "plane: {normal: [0, 0, 0]}", ErrInvalidVector},
		{"no contacts", "settings: {max_contacts: 0}", ErrInvalidSettings},
		{"negative friction", "settings: {friction: -1}", ErrInvalidSettings},
		{"bad camera", "camera: {width: 0}", ErrInvalidSettings},
		{"unknown kind", "bodies: [{name: d20, kind: icosahedron, mass: 1}]", ErrUnknownShapeKind},
		{"massless body", "bodies: [{kind: box, half_extents: [1, 1, 1], mass: 0}]", ErrInvalidSettings},
		{"box without extents", "bodies: [{kind: box, mass: 1}]", ErrInvalidVector},
		{"short position", "bodies: [{kind: octahedron, radius: 1, mass: 1, position: [1, 2]}]", ErrInvalidVector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene([]byte(tt.data))

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestParseScene_MalformedYAML(t *testing.T) {
	_, err := ParseScene([]byte("bodies: [unterminated"))

	assert.Error(t, err)
}

func TestLoadScene(t *testing.T) {
	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scene.yaml")
		require.NoError(t, os.WriteFile(path, []byte("settings: {iterations: 8}\n"), 0o644))

		scene, err := LoadScene(path)

		require.NoError(t, err)
		assert.Equal(t, 8, scene.Settings.Iterations)
		assert.Empty(t, scene.Bodies)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadScene(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestBodyConfig_Rotation(t *testing.T) {
	tests := []struct {
		name   string
		config BodyConfig
		ident  bool
	}{
		{"no axis", BodyConfig{Angle: 30}, true},
		{"no angle", BodyConfig{Axis: []float64{0, 1, 0}}, true},
		{"axis and angle", BodyConfig{Axis: []float64{0, 2, 0}, Angle: 30}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rotation, err := tt.config.rotation()

			require.NoError(t, err)
			assert.InDelta(t, 1.0, rotation.Len(), 1e-12)
			assert.Equal(t, tt.ident, rotation.ApproxEqual(mgl64.QuatIdent()))
		})
	}
}

func TestScene_NewCamera(t *testing.T) {
	camera, err := DefaultScene().NewCamera()

	require.NoError(t, err)
	assert.Equal(t, 1024, camera.Width)
	assert.Equal(t, 768, camera.Height)
}
