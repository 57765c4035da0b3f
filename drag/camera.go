package drag

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrUnprojectFailed is returned when the view-projection matrix cannot be inverted
var ErrUnprojectFailed = errors.New("drag: unproject failed")

// Pointer is a window position, origin at the top-left corner
type Pointer struct {
	X, Y float64
}

// Unprojector maps a pointer position and a depth-buffer value in [0,1]
// back to world space
type Unprojector interface {
	Unproject(pointer Pointer, depth float64) (mgl64.Vec3, error)
}

// Camera is a perspective camera over a viewport
type Camera struct {
	View       mgl64.Mat4
	Projection mgl64.Mat4
	Width      int
	Height     int
}

// NewCamera looks from eye at center with a vertical field of view in degrees
func NewCamera(eye, center mgl64.Vec3, fovy float64, width, height int) *Camera {
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}

	return &Camera{
		View:       mgl64.LookAtV(eye, center, mgl64.Vec3{0, 1, 0}),
		Projection: mgl64.Perspective(mgl64.DegToRad(fovy), aspect, 1.0, 500.0),
		Width:      width,
		Height:     height,
	}
}

// Unproject implements Unprojector
func (c *Camera) Unproject(pointer Pointer, depth float64) (mgl64.Vec3, error) {
	// Window coordinates grow upward, pointer coordinates downward
	win := mgl64.Vec3{pointer.X, float64(c.Height) - pointer.Y, depth}

	world, err := mgl64.UnProject(win, c.View, c.Projection, 0, 0, c.Width, c.Height)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("%w: %v", ErrUnprojectFailed, err)
	}

	return world, nil
}

// Project returns the pointer position and depth-buffer value of a world point
func (c *Camera) Project(world mgl64.Vec3) (Pointer, float64) {
	win := mgl64.Project(world, c.View, c.Projection, 0, 0, c.Width, c.Height)

	return Pointer{X: win.X(), Y: float64(c.Height) - win.Y()}, win.Z()
}
